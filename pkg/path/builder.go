package path

// kappa approximates a quarter circle with a cubic bezier.
const kappa = 0.5522847498307936

// Builder provides a fluent interface for building paths.
type Builder struct {
	path *Path
}

// NewBuilder creates a new path builder.
func NewBuilder() *Builder {
	return &Builder{path: New()}
}

// MoveTo starts a new subpath.
func (b *Builder) MoveTo(x, y float64) *Builder {
	b.path.MoveTo(x, y)
	return b
}

// LineTo draws a line to the given point.
func (b *Builder) LineTo(x, y float64) *Builder {
	b.path.LineTo(x, y)
	return b
}

// CurveTo draws a cubic Bezier curve.
func (b *Builder) CurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64) *Builder {
	b.path.CurveTo(cp1x, cp1y, cp2x, cp2y, x, y)
	return b
}

// Close closes the current subpath.
func (b *Builder) Close() *Builder {
	b.path.Close()
	return b
}

// Rect adds a rectangle to the path.
func (b *Builder) Rect(x, y, w, h float64) *Builder {
	b.MoveTo(x, y)
	b.LineTo(x+w, y)
	b.LineTo(x+w, y+h)
	b.LineTo(x, y+h)
	return b.Close()
}

// RoundRect adds a rectangle whose corners are quarter ellipses of radius
// r, shrunk to fit half the width and height.
func (b *Builder) RoundRect(x, y, w, h, r float64) *Builder {
	if r <= 0 {
		return b.Rect(x, y, w, h)
	}
	rx, ry := min(r, w/2), min(r, h/2)

	// Corners clockwise from top-right: centre and the unit directions of
	// the arc start and end.
	corners := [4]struct{ cx, cy, sx, sy, ex, ey float64 }{
		{x + w - rx, y + ry, 0, -1, 1, 0},
		{x + w - rx, y + h - ry, 1, 0, 0, 1},
		{x + rx, y + h - ry, 0, 1, -1, 0},
		{x + rx, y + ry, -1, 0, 0, -1},
	}

	b.MoveTo(x+rx, y)
	for _, c := range corners {
		sx, sy := c.cx+c.sx*rx, c.cy+c.sy*ry
		ex, ey := c.cx+c.ex*rx, c.cy+c.ey*ry
		b.LineTo(sx, sy)
		b.CurveTo(
			sx+c.ex*rx*kappa, sy+c.ey*ry*kappa,
			ex+c.sx*rx*kappa, ey+c.sy*ry*kappa,
			ex, ey,
		)
	}
	return b.Close()
}

// Build returns the constructed path.
func (b *Builder) Build() *Path {
	return b.path
}
