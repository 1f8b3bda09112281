package viewport

import (
	"fmt"

	"paperview/pkg/geom"
)

// VisualState is a consistent snapshot of everything a host needs to draw
// the viewer: an outer fitted box centred in the container, a middle box
// carrying Translate and Scale, and the image/overlay box scaled by
// ContentScale.
type VisualState struct {
	Container geom.Size
	Natural   NaturalSize
	Resolved  bool
	Viewer    ViewerSize
	Scale     float64
	Translate geom.Point
	Mode      Mode
}

// Transform returns the scale and translation part of the state.
func (s VisualState) Transform() Transform {
	return Transform{Scale: s.Scale, Translate: s.Translate}
}

// ContentScale maps natural image pixels to viewer pixels at scale 1.
func (s VisualState) ContentScale() float64 {
	if !s.Natural.Valid() || !(s.Viewer.Width > 0) {
		return 1
	}
	return s.Viewer.Width / s.Natural.Width
}

// Origin is the top-left of the fitted box inside the container.
func (s VisualState) Origin() geom.Point {
	return geom.Point{
		X: (s.Container.Width - s.Viewer.Width) / 2,
		Y: (s.Container.Height - s.Viewer.Height) / 2,
	}
}

// FrameMatrix is the middle box transform: scale about its top-left, then
// translate.
func (s VisualState) FrameMatrix() geom.Matrix {
	return geom.Scale(s.Scale, s.Scale).Then(geom.Translate(s.Translate.X, s.Translate.Y))
}

// ContentMatrix maps natural image coordinates into the middle box.
func (s VisualState) ContentMatrix() geom.Matrix {
	cs := s.ContentScale()
	return geom.Scale(cs, cs)
}

// ScreenMatrix maps natural image coordinates to container coordinates.
func (s VisualState) ScreenMatrix() geom.Matrix {
	o := s.Origin()
	return s.ContentMatrix().Then(s.FrameMatrix()).Then(geom.Translate(o.X, o.Y))
}

// ToViewer converts a container-relative point into the anchor frame used
// by ZoomAt: pixels from the middle box's own top-left, in unscaled viewer
// space.
func (s VisualState) ToViewer(p geom.Point) geom.Point {
	scale := s.Scale
	if !(scale > 0) {
		scale = 1
	}
	return p.Sub(s.Origin()).Sub(s.Translate).Scale(1 / scale)
}

func (s VisualState) String() string {
	return fmt.Sprintf("viewer=%.1fx%.1f scale=%.3f translate=(%.2f,%.2f) mode=%s",
		s.Viewer.Width, s.Viewer.Height, s.Scale, s.Translate.X, s.Translate.Y, s.Mode)
}
