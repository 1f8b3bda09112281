// Package path provides vector path construction for the compositor.
package path

import (
	"paperview/pkg/geom"

	"golang.org/x/image/vector"
)

// Op is a path operation type.
type Op int

const (
	OpMoveTo Op = iota
	OpLineTo
	OpCurveTo // Cubic bezier
	OpClose
)

// Segment is one path operation with its points.
type Segment struct {
	Op     Op
	Points []geom.Point
}

// Path is a sequence of subpaths.
type Path struct {
	Segments []Segment
}

// New creates an empty path.
func New() *Path {
	return &Path{}
}

// IsEmpty reports whether the path has no segments.
func (p *Path) IsEmpty() bool {
	return len(p.Segments) == 0
}

// MoveTo starts a new subpath.
func (p *Path) MoveTo(x, y float64) {
	pt := geom.Pt(x, y)
	p.Segments = append(p.Segments, Segment{Op: OpMoveTo, Points: []geom.Point{pt}})
}

// LineTo adds a straight line.
func (p *Path) LineTo(x, y float64) {
	pt := geom.Pt(x, y)
	p.Segments = append(p.Segments, Segment{Op: OpLineTo, Points: []geom.Point{pt}})
}

// CurveTo adds a cubic bezier.
func (p *Path) CurveTo(cp1x, cp1y, cp2x, cp2y, x, y float64) {
	p.Segments = append(p.Segments, Segment{
		Op:     OpCurveTo,
		Points: []geom.Point{geom.Pt(cp1x, cp1y), geom.Pt(cp2x, cp2y), geom.Pt(x, y)},
	})
}

// Close closes the current subpath.
func (p *Path) Close() {
	p.Segments = append(p.Segments, Segment{Op: OpClose})
}

// Transform returns a copy of the path with every point mapped through m.
func (p *Path) Transform(m geom.Matrix) *Path {
	out := &Path{Segments: make([]Segment, len(p.Segments))}
	for i, seg := range p.Segments {
		pts := make([]geom.Point, len(seg.Points))
		for j, pt := range seg.Points {
			pts[j] = m.TransformPoint(pt)
		}
		out.Segments[i] = Segment{Op: seg.Op, Points: pts}
	}
	return out
}

// ToVector feeds the path into a golang.org/x/image/vector rasterizer.
func ToVector(p *Path, r *vector.Rasterizer) {
	for _, seg := range p.Segments {
		switch seg.Op {
		case OpMoveTo:
			if len(seg.Points) >= 1 {
				r.MoveTo(float32(seg.Points[0].X), float32(seg.Points[0].Y))
			}
		case OpLineTo:
			if len(seg.Points) >= 1 {
				r.LineTo(float32(seg.Points[0].X), float32(seg.Points[0].Y))
			}
		case OpCurveTo:
			if len(seg.Points) >= 3 {
				r.CubeTo(
					float32(seg.Points[0].X), float32(seg.Points[0].Y),
					float32(seg.Points[1].X), float32(seg.Points[1].Y),
					float32(seg.Points[2].X), float32(seg.Points[2].Y),
				)
			}
		case OpClose:
			r.ClosePath()
		}
	}
}
