// Package overlay draws positioned annotations over the viewed image.
// Annotations live in natural image pixels and are drawn through the same
// matrix as the image, so they pan and zoom with it. They never receive
// input.
package overlay

import (
	"fmt"
	"image/color"

	"paperview/pkg/geom"
	pathpkg "paperview/pkg/path"
	"paperview/pkg/raster"
)

// Kind selects how an annotation is drawn.
type Kind string

const (
	KindText Kind = "text"
	KindBox  Kind = "box"
)

// Default styling.
const (
	DefaultTextSize    = 16.0
	DefaultStrokeWidth = 2.0
	DefaultColor       = "#d32f2f"
)

// Annotation is one overlay item in natural image coordinates.
type Annotation struct {
	Kind Kind    `toml:"kind"`
	X    float64 `toml:"x"`
	Y    float64 `toml:"y"`

	// Box size; ignored for text.
	W float64 `toml:"w"`
	H float64 `toml:"h"`

	Text string  `toml:"text"`
	Size float64 `toml:"size"`

	Color  string  `toml:"color"`
	Fill   string  `toml:"fill"`
	Width  float64 `toml:"width"`
	Radius float64 `toml:"radius"`
}

// Bounds returns the annotation's box. Text reports its anchor with a zero
// size.
func (a Annotation) Bounds() geom.Rect {
	if a.Kind == KindBox {
		return geom.Rect{X: a.X, Y: a.Y, Width: a.W, Height: a.H}
	}
	return geom.Rect{X: a.X, Y: a.Y}
}

func (a Annotation) validate() error {
	switch a.Kind {
	case KindText:
		if a.Text == "" {
			return fmt.Errorf("text annotation at %g,%g has no text", a.X, a.Y)
		}
	case KindBox:
		if !(a.W > 0) || !(a.H > 0) {
			return fmt.Errorf("box annotation at %g,%g has empty size %gx%g", a.X, a.Y, a.W, a.H)
		}
	default:
		return fmt.Errorf("unknown annotation kind %q", a.Kind)
	}
	if !geom.Pt(a.X, a.Y).IsFinite() {
		return fmt.Errorf("annotation has non-finite position")
	}
	return nil
}

func parseColorOr(s, def string) (color.NRGBA, error) {
	if s == "" {
		s = def
	}
	return raster.ParseColor(s)
}

// Layer is an ordered list of annotations.
type Layer struct {
	Annotations []Annotation
}

// NewLayer validates and wraps annotations.
func NewLayer(annotations ...Annotation) (*Layer, error) {
	for i, a := range annotations {
		if err := a.validate(); err != nil {
			return nil, fmt.Errorf("annotation %d: %w", i, err)
		}
	}
	return &Layer{Annotations: annotations}, nil
}

// Len returns the number of annotations. A nil layer is empty.
func (l *Layer) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Annotations)
}

// Draw paints every annotation onto c, mapping natural coordinates through
// m. Drawing stops at the first annotation that fails.
func (l *Layer) Draw(c *raster.Canvas, m geom.Matrix) error {
	if l == nil {
		return nil
	}
	for i, a := range l.Annotations {
		var err error
		switch a.Kind {
		case KindBox:
			err = drawBox(c, a, m)
		case KindText:
			err = drawText(c, a, m)
		}
		if err != nil {
			return fmt.Errorf("annotation %d: %w", i, err)
		}
	}
	return nil
}

func drawBox(c *raster.Canvas, a Annotation, m geom.Matrix) error {
	var p *pathpkg.Path
	if a.Radius > 0 {
		p = pathpkg.NewBuilder().RoundRect(a.X, a.Y, a.W, a.H, a.Radius).Build().Transform(m)
	}

	if a.Fill != "" {
		fill, err := raster.ParseColor(a.Fill)
		if err != nil {
			return err
		}
		if p != nil {
			c.Fill(p, fill)
		} else {
			c.FillRect(a.Bounds(), m, fill)
		}
	}

	stroke, err := parseColorOr(a.Color, DefaultColor)
	if err != nil {
		return err
	}
	width := a.Width
	if width == 0 {
		width = DefaultStrokeWidth
	}
	if width <= 0 {
		return nil
	}
	width *= m.ScaleX()
	if p != nil {
		c.Stroke(p, stroke, width)
	} else {
		c.StrokeRect(a.Bounds(), m, stroke, width)
	}
	return nil
}
