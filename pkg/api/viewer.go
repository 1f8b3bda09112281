// Package api provides the public entry point: one parameterized viewer
// combining the pan/zoom engine, source loading, overlay and capture.
package api

import (
	"context"
	"image"

	"paperview/pkg/capture"
	"paperview/pkg/geom"
	"paperview/pkg/resolve"
	"paperview/pkg/viewport"
)

// Viewer is a pan/zoom viewer over one image source.
type Viewer struct {
	opts Options

	eng     *viewport.Engine
	disp    *viewport.Dispatcher
	tracker *viewport.Tracker
	scene   *capture.Scene
	bridge  *capture.Bridge
}

// New creates a viewer and, when src is not empty, starts loading it.
func New(src string, opts ...Option) *Viewer {
	o := NewOptions(opts...)
	if o.Resolver == nil {
		o.Resolver = resolve.NewAuto()
	}

	v := &Viewer{
		opts:  o,
		eng:   viewport.NewEngine(o.ViewportConfig()),
		scene: capture.NewScene(nil, o.Overlay),
	}
	v.eng.SetLogger(o.Logger)
	v.disp = viewport.NewDispatcher(v.eng)
	v.scene.SetBackground(o.Background)
	v.bridge = v.scene.Bridge()

	v.eng.OnChange(func(st viewport.VisualState) {
		v.scene.Sync(st)
		if o.OnChange != nil {
			o.OnChange(st)
		}
	})
	v.scene.Sync(v.eng.State())

	v.tracker = viewport.NewTracker(v.eng, pixelResolver{v})
	if o.OnError != nil {
		v.tracker.OnError(o.OnError)
	}

	if o.OnReady != nil {
		o.OnReady(v.ToBitmap)
	}
	if src != "" {
		v.Load(context.Background(), src)
	}
	return v
}

// pixelResolver decodes the whole source so that size and pixels arrive
// together. The pixels reach the scene only when the tracker applies the
// size for a load that is still current.
type pixelResolver struct {
	v *Viewer
}

func (p pixelResolver) Resolve(ctx context.Context, src string) (geom.Size, error) {
	size, _, err := p.ResolvePayload(ctx, src)
	return size, err
}

func (p pixelResolver) ResolvePayload(ctx context.Context, src string) (geom.Size, func(), error) {
	img, err := p.v.opts.Resolver.Decode(ctx, src)
	if err != nil {
		return geom.Size{}, nil, err
	}
	b := img.Bounds()
	return geom.Sz(float64(b.Dx()), float64(b.Dy())), func() { p.v.scene.SetImage(img) }, nil
}

// Load starts loading src, superseding any load in flight.
func (v *Viewer) Load(ctx context.Context, src string) {
	v.tracker.Load(ctx, src)
}

// Wait blocks until every started load has finished.
func (v *Viewer) Wait() {
	v.tracker.Wait()
}

// Source returns the most recently requested source.
func (v *Viewer) Source() string {
	return v.tracker.Source()
}

// Options returns the resolved options.
func (v *Viewer) Options() Options {
	return v.opts
}

// Engine returns the transform engine.
func (v *Viewer) Engine() *viewport.Engine {
	return v.eng
}

// Dispatcher returns the input dispatcher.
func (v *Viewer) Dispatcher() *viewport.Dispatcher {
	return v.disp
}

// Scene returns the software composition.
func (v *Viewer) Scene() *capture.Scene {
	return v.scene
}

// State returns the current visual state.
func (v *Viewer) State() viewport.VisualState {
	return v.eng.State()
}

// SetContainer reports the host's container size.
func (v *Viewer) SetContainer(w, h float64) {
	v.eng.SetContainer(w, h)
}

// ToBitmap captures the flattened image and overlay at natural size.
func (v *Viewer) ToBitmap(ctx context.Context) (image.Image, error) {
	return v.bridge.ToBitmap(ctx)
}

// Render draws the container as currently shown.
func (v *Viewer) Render(ctx context.Context) (*image.RGBA, error) {
	return v.scene.RenderViewport(ctx, v.eng.State())
}

// Attach subscribes the viewer to window-global releases on hub and
// returns the release function.
func (v *Viewer) Attach(hub *viewport.Hub) (release func()) {
	return hub.Attach(v, v.disp)
}
