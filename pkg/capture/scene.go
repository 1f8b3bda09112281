package capture

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"

	"paperview/pkg/geom"
	"paperview/pkg/overlay"
	"paperview/pkg/raster"
	"paperview/pkg/viewport"
)

// Scene is the software composition of one viewer: a frame box carrying
// the pan/zoom transform and a content box carrying the natural-to-viewer
// scale. The image and the overlay are drawn inside the content box.
type Scene struct {
	mu         sync.Mutex
	image      image.Image
	natural    geom.Size
	layer      *overlay.Layer
	background color.Color

	frame   *Box
	content *Box
}

// NewScene creates a scene for img with an optional overlay.
func NewScene(img image.Image, layer *overlay.Layer) *Scene {
	frame := NewBox(nil)
	s := &Scene{
		layer:      layer,
		background: color.White,
		frame:      frame,
		content:    NewBox(frame),
	}
	s.SetImage(img)
	return s
}

// SetImage replaces the drawn image. Its bounds become the natural size.
func (s *Scene) SetImage(img image.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.image = img
	if img != nil {
		b := img.Bounds()
		s.natural = geom.Sz(float64(b.Dx()), float64(b.Dy()))
	}
}

// SetOverlay replaces the overlay layer.
func (s *Scene) SetOverlay(l *overlay.Layer) {
	s.mu.Lock()
	s.layer = l
	s.mu.Unlock()
}

// SetBackground sets the color behind the image. Nil is transparent.
func (s *Scene) SetBackground(c color.Color) {
	s.mu.Lock()
	s.background = c
	s.mu.Unlock()
}

// Frame returns the middle box.
func (s *Scene) Frame() *Box { return s.frame }

// Content returns the image box, the capture target.
func (s *Scene) Content() *Box { return s.content }

// Sync copies the engine's transforms onto the boxes.
func (s *Scene) Sync(st viewport.VisualState) {
	s.frame.SetTransform(st.FrameMatrix())
	s.content.SetTransform(st.ContentMatrix())
}

// Bridge returns a capture bridge targeting this scene's content box.
func (s *Scene) Bridge() *Bridge {
	return &Bridge{
		Target:     func() Node { return s.content },
		Rasterizer: s,
	}
}

// Rasterize implements Rasterizer for the scene's own content box. The
// bitmap covers the content under the current transforms, which is the
// natural size once they are cleared.
func (s *Scene) Rasterize(ctx context.Context, n Node) (image.Image, error) {
	if n != Node(s.content) {
		return nil, errors.New("node does not belong to this scene")
	}
	m := s.content.Transform().Then(s.frame.Transform())
	return s.compose(ctx, m)
}

func (s *Scene) compose(ctx context.Context, m geom.Matrix) (*image.RGBA, error) {
	s.mu.Lock()
	img, natural, layer, bg := s.image, s.natural, s.layer, s.background
	s.mu.Unlock()

	if img == nil {
		return nil, ErrNotReady
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bounds := geom.Rect{Width: natural.Width, Height: natural.Height}.Transform(m)
	m = m.Then(geom.Translate(-bounds.X, -bounds.Y))

	c := raster.NewCanvasSize(geom.Sz(bounds.Width, bounds.Height))
	c.SetBackground(bg)
	c.Clear()
	c.DrawImage(img, m)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := layer.Draw(c, m); err != nil {
		return nil, err
	}
	return c.Image(), nil
}

// RenderViewport draws what the viewer shows for st: the container filled
// with the background and the fitted box clipping the transformed content.
func (s *Scene) RenderViewport(ctx context.Context, st viewport.VisualState) (*image.RGBA, error) {
	s.mu.Lock()
	img, layer, bg := s.image, s.layer, s.background
	s.mu.Unlock()

	if img == nil {
		return nil, ErrNotReady
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := raster.NewCanvasSize(st.Container)
	c.SetBackground(bg)
	c.Clear()

	// Draw into the fitted box first so that zoomed content is clipped to it.
	box := raster.NewCanvasSize(st.Viewer)
	box.SetBackground(color.Transparent)
	box.Clear()
	m := st.ContentMatrix().Then(st.FrameMatrix())
	box.DrawImage(img, m)
	if err := layer.Draw(box, m); err != nil {
		return nil, err
	}

	o := st.Origin()
	c.DrawImage(box.Image(), geom.Translate(o.X, o.Y))
	return c.Image(), nil
}
