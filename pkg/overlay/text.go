package overlay

import (
	"fmt"
	"image"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"paperview/pkg/geom"
	"paperview/pkg/raster"
)

var (
	regularOnce sync.Once
	regular     *opentype.Font
	regularErr  error
)

func regularFont() (*opentype.Font, error) {
	regularOnce.Do(func() {
		regular, regularErr = opentype.Parse(goregular.TTF)
	})
	return regular, regularErr
}

// newFace returns a Go Regular face at size device pixels.
func newFace(size float64) (font.Face, error) {
	f, err := regularFont()
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// MeasureText returns the advance width and line height of text at size,
// in the same units as size.
func MeasureText(text string, size float64) (geom.Size, error) {
	face, err := newFace(size)
	if err != nil {
		return geom.Size{}, err
	}
	defer face.Close()

	adv := font.MeasureString(face, text)
	h := face.Metrics().Height
	return geom.Sz(fix(adv), fix(h)), nil
}

// drawText draws a single line with its top-left at (a.X, a.Y).
func drawText(c *raster.Canvas, a Annotation, m geom.Matrix) error {
	col, err := parseColorOr(a.Color, DefaultColor)
	if err != nil {
		return err
	}
	size := a.Size
	if !(size > 0) {
		size = DefaultTextSize
	}
	px := size * m.ScaleX()
	if px < 1 {
		return nil
	}

	face, err := newFace(px)
	if err != nil {
		return err
	}
	defer face.Close()

	top := m.TransformPoint(geom.Pt(a.X, a.Y))
	d := &font.Drawer{
		Dst:  c.Image(),
		Src:  image.NewUniform(col),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(top.X * 64),
			Y: fixed.Int26_6(top.Y*64) + face.Metrics().Ascent,
		},
	}
	d.DrawString(a.Text)
	return nil
}

func fix(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
