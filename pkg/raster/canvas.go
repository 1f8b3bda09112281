// Package raster provides the software canvas the compositor draws on.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"paperview/pkg/geom"
	pathpkg "paperview/pkg/path"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// Canvas represents a drawing surface for rasterization.
type Canvas struct {
	img    *image.RGBA
	width  int
	height int

	// Default background
	background color.Color

	// Interpolator used by DrawImage.
	Interp xdraw.Interpolator
}

// NewCanvas creates a new canvas with the given dimensions, filled with
// white.
func NewCanvas(width, height int) *Canvas {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	c := &Canvas{
		img:        image.NewRGBA(image.Rect(0, 0, width, height)),
		width:      width,
		height:     height,
		background: color.White,
		Interp:     xdraw.CatmullRom,
	}
	c.Clear()
	return c
}

// NewCanvasSize creates a canvas covering size, rounded up to whole pixels.
func NewCanvasSize(size geom.Size) *Canvas {
	px := size.Pixels()
	return NewCanvas(px.X, px.Y)
}

// Image returns the underlying RGBA image.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int {
	return c.width
}

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int {
	return c.height
}

// Clear fills the canvas with the background color.
func (c *Canvas) Clear() {
	draw.Draw(c.img, c.img.Bounds(), &image.Uniform{c.background}, image.Point{}, draw.Src)
}

// SetBackground sets the background color. A nil color means transparent.
func (c *Canvas) SetBackground(col color.Color) {
	if col == nil {
		col = color.Transparent
	}
	c.background = col
}

// Fill fills a path with the given color.
func (c *Canvas) Fill(p *pathpkg.Path, col color.Color) {
	if p.IsEmpty() {
		return
	}

	r := vector.NewRasterizer(c.width, c.height)
	pathpkg.ToVector(p, r)
	r.Draw(c.img, c.img.Bounds(), &image.Uniform{col}, image.Point{})
}

// FillRect fills r mapped through m.
func (c *Canvas) FillRect(r geom.Rect, m geom.Matrix, col color.Color) {
	p := pathpkg.NewBuilder().Rect(r.X, r.Y, r.Width, r.Height).Build()
	c.Fill(p.Transform(m), col)
}

// Stroke outlines the straight segments of a path, width in device pixels.
// Each segment is drawn as its own quad extended by half the width at both
// ends, so corners come out square.
func (c *Canvas) Stroke(p *pathpkg.Path, col color.Color, width float64) {
	if p.IsEmpty() || !(width > 0) {
		return
	}

	out := pathpkg.New()
	var current, start geom.Point
	for _, seg := range p.Segments {
		switch seg.Op {
		case pathpkg.OpMoveTo:
			current = seg.Points[0]
			start = current
		case pathpkg.OpLineTo, pathpkg.OpCurveTo:
			end := seg.Points[len(seg.Points)-1]
			addQuad(out, current, end, width/2)
			current = end
		case pathpkg.OpClose:
			if current != start {
				addQuad(out, current, start, width/2)
			}
			current = start
		}
	}
	c.Fill(out, col)
}

func addQuad(out *pathpkg.Path, a, b geom.Point, half float64) {
	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	// Unit direction scaled to half width, and its perpendicular.
	tx, ty := dx/length*half, dy/length*half
	nx, ny := -ty, tx

	out.MoveTo(a.X-tx+nx, a.Y-ty+ny)
	out.LineTo(b.X+tx+nx, b.Y+ty+ny)
	out.LineTo(b.X+tx-nx, b.Y+ty-ny)
	out.LineTo(a.X-tx-nx, a.Y-ty-ny)
	out.Close()
}

// StrokeRect outlines r mapped through m.
func (c *Canvas) StrokeRect(r geom.Rect, m geom.Matrix, col color.Color, width float64) {
	p := pathpkg.NewBuilder().Rect(r.X, r.Y, r.Width, r.Height).Build()
	c.Stroke(p.Transform(m), col, width)
}

// DrawImage draws img mapped through m, where m takes source pixel
// coordinates (relative to img's bounds) to canvas pixels.
func (c *Canvas) DrawImage(img image.Image, m geom.Matrix) {
	if img == nil {
		return
	}
	b := img.Bounds()
	if m.IsIdentity() {
		xdraw.Draw(c.img, b.Sub(b.Min), img, b.Min, xdraw.Over)
		return
	}
	m = geom.Translate(-float64(b.Min.X), -float64(b.Min.Y)).Then(m)
	if m.Determinant() == 0 {
		return
	}

	interp := c.Interp
	if interp == nil {
		interp = xdraw.ApproxBiLinear
	}
	interp.Transform(c.img, m.Aff3(), img, b, xdraw.Over, nil)
}
