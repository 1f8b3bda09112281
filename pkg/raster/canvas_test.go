package raster

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paperview/pkg/geom"
)

func pixel(c *Canvas, x, y int) color.RGBA {
	return c.Image().RGBAAt(x, y)
}

var red = color.RGBA{R: 255, A: 255}

func TestCanvas_FillRect(t *testing.T) {
	c := NewCanvas(20, 20)
	c.FillRect(geom.Rect{X: 0, Y: 0, Width: 5, Height: 5}, geom.Scale(2, 2).Then(geom.Translate(4, 4)), red)

	assert.Equal(t, red, pixel(c, 4, 4))
	assert.Equal(t, red, pixel(c, 13, 13))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, pixel(c, 3, 3))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, pixel(c, 14, 14))
}

func TestCanvas_StrokeRectLeavesInterior(t *testing.T) {
	c := NewCanvas(20, 20)
	c.StrokeRect(geom.Rect{X: 4, Y: 4, Width: 12, Height: 12}, geom.Identity(), red, 2)

	assert.Equal(t, red, pixel(c, 3, 10))
	assert.Equal(t, red, pixel(c, 10, 15))
	assert.Equal(t, red, pixel(c, 3, 3), "square corner")
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, pixel(c, 10, 10))
}

func TestCanvas_DrawImageAffine(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 14, 14))
	for y := 10; y < 14; y++ {
		for x := 10; x < 14; x++ {
			src.Set(x, y, red)
		}
	}

	c := NewCanvas(32, 32)
	c.Interp = nil
	c.DrawImage(src, geom.Scale(2, 2).Then(geom.Translate(8, 8)))

	// The source maps to [8,16) on both axes.
	assert.Equal(t, red, pixel(c, 10, 10))
	assert.Equal(t, red, pixel(c, 14, 9))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, pixel(c, 20, 20))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, pixel(c, 4, 4))

	// An identity mapping copies pixels straight through.
	c.Clear()
	c.DrawImage(src, geom.Identity())
	assert.Equal(t, red, pixel(c, 0, 0))
	assert.Equal(t, red, pixel(c, 3, 3))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, pixel(c, 4, 4))

	// A singular matrix draws nothing.
	c.Clear()
	c.DrawImage(src, geom.Scale(0, 1))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, pixel(c, 0, 12))
}

func TestCanvas_Background(t *testing.T) {
	c := NewCanvasSize(geom.Sz(2.5, 0))
	assert.Equal(t, 3, c.Width())
	assert.Equal(t, 1, c.Height())

	c.SetBackground(nil)
	c.Clear()
	assert.Equal(t, color.RGBA{}, pixel(c, 0, 0))
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		err  bool
	}{
		{"#ff0000", color.NRGBA{255, 0, 0, 255}, false},
		{"0f08", color.NRGBA{}, true},
		{"#0f0", color.NRGBA{0, 255, 0, 255}, false},
		{"#11223344", color.NRGBA{0x11, 0x22, 0x33, 0x44}, false},
		{"#zzzzzz", color.NRGBA{}, true},
		{"", color.NRGBA{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.err {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
