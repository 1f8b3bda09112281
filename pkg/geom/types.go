package geom

import (
	"image"
	"math"
)

// Point represents a 2D point.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{x, y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(other Point) Point {
	return Point{p.X + other.X, p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point) Sub(other Point) Point {
	return Point{p.X - other.X, p.Y - other.Y}
}

// Scale scales the point by a factor.
func (p Point) Scale(s float64) Point {
	return Point{p.X * s, p.Y * s}
}

// Mid returns the midpoint between p and other.
func (p Point) Mid(other Point) Point {
	return Point{(p.X + other.X) / 2, (p.Y + other.Y) / 2}
}

// Distance returns the Euclidean distance between p and other.
func (p Point) Distance(other Point) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return Finite(p.X) && Finite(p.Y)
}

// Size is a width and height pair.
type Size struct {
	Width, Height float64
}

// Sz is shorthand for Size{w, h}.
func Sz(w, h float64) Size {
	return Size{w, h}
}

// Aspect returns Width/Height, or 1 when either side is not a positive
// finite number.
func (s Size) Aspect() float64 {
	if !s.Valid() {
		return 1
	}
	return s.Width / s.Height
}

// Valid reports whether both sides are positive finite numbers.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0 && Finite(s.Width) && Finite(s.Height)
}

// Pixels returns the size rounded up to whole pixels, at least 1x1.
func (s Size) Pixels() image.Point {
	w := int(math.Ceil(s.Width))
	h := int(math.Ceil(s.Height))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return image.Pt(w, h)
}

// Rect represents a rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// NewRect creates a rectangle from two corner points.
func NewRect(x1, y1, x2, y2 float64) Rect {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return Rect{
		X:      x1,
		Y:      y1,
		Width:  x2 - x1,
		Height: y2 - y1,
	}
}

// Contains returns true if the point is inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Transform applies a matrix transformation to the rectangle.
func (r Rect) Transform(m Matrix) Rect {
	// Transform all four corners and find bounding box
	corners := [4]Point{
		{r.X, r.Y},
		{r.X + r.Width, r.Y},
		{r.X + r.Width, r.Y + r.Height},
		{r.X, r.Y + r.Height},
	}

	first := m.TransformPoint(corners[0])
	minX, maxX := first.X, first.X
	minY, maxY := first.Y, first.Y

	for _, c := range corners[1:] {
		p := m.TransformPoint(c)
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	return NewRect(minX, minY, maxX, maxY)
}

// Finite reports whether v is neither NaN nor an infinity.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Clamp constrains v to [lo, hi], evaluated as max(lo, min(hi, v)) so an
// inverted range resolves to lo.
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
