package api

import (
	"context"
	"image"
	"image/color"
	"log"

	"paperview/pkg/overlay"
	"paperview/pkg/resolve"
	"paperview/pkg/viewport"
)

// ToBitmap flattens the current composition into an image.
type ToBitmap func(ctx context.Context) (image.Image, error)

// Options configures a Viewer.
type Options struct {
	// ZoomMin and ZoomMax bound the scale.
	// Default: 0.8 and 3
	ZoomMin float64
	ZoomMax float64

	// WheelStep is the scale change per wheel event.
	// Default: 0.2
	WheelStep float64

	// Overlay is drawn over the image in natural coordinates.
	// Default: none
	Overlay *overlay.Layer

	// Background fills the area behind the image in captures.
	// Default: white
	Background color.Color

	// Resolver loads sources.
	// Default: resolve.NewAuto()
	Resolver resolve.Resolver

	// OnReady receives the capture function once the viewer is built.
	OnReady func(ToBitmap)

	// OnChange observes every committed state.
	OnChange func(viewport.VisualState)

	// OnError receives failed loads.
	OnError func(src string, err error)

	// Logger receives diagnostics. Nil discards them.
	Logger *log.Logger
}

// DefaultOptions returns options with the form-style bounds.
func DefaultOptions() Options {
	return Options{
		ZoomMin:    viewport.DefaultScaleMin,
		ZoomMax:    viewport.DefaultScaleMax,
		WheelStep:  viewport.DefaultWheelStep,
		Background: color.White,
	}
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// ViewerDefaults selects the read-only viewer bounds, 0.8 to 5.
func ViewerDefaults() Option {
	return func(o *Options) {
		o.ZoomMin = viewport.DefaultScaleMin
		o.ZoomMax = 5
	}
}

// ZoomMin sets the lower scale bound.
func ZoomMin(v float64) Option {
	return func(o *Options) {
		o.ZoomMin = v
	}
}

// ZoomMax sets the upper scale bound.
func ZoomMax(v float64) Option {
	return func(o *Options) {
		o.ZoomMax = v
	}
}

// WheelStep sets the per-event wheel zoom step.
func WheelStep(v float64) Option {
	return func(o *Options) {
		o.WheelStep = v
	}
}

// WithOverlay sets the overlay layer.
func WithOverlay(l *overlay.Layer) Option {
	return func(o *Options) {
		o.Overlay = l
	}
}

// Background sets the capture background. Nil is transparent.
func Background(c color.Color) Option {
	return func(o *Options) {
		o.Background = c
	}
}

// WithResolver replaces the source resolver.
func WithResolver(r resolve.Resolver) Option {
	return func(o *Options) {
		o.Resolver = r
	}
}

// OnReady sets the capture hand-off callback.
func OnReady(fn func(ToBitmap)) Option {
	return func(o *Options) {
		o.OnReady = fn
	}
}

// OnChange sets the state observer.
func OnChange(fn func(viewport.VisualState)) Option {
	return func(o *Options) {
		o.OnChange = fn
	}
}

// OnError sets the load failure callback.
func OnError(fn func(src string, err error)) Option {
	return func(o *Options) {
		o.OnError = fn
	}
}

// WithLogger routes diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// NewOptions creates options from functional options.
func NewOptions(opts ...Option) Options {
	o := DefaultOptions()
	o.Apply(opts...)
	return o
}

// Apply applies functional options to existing options.
func (o *Options) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(o)
	}
}

// ViewportConfig returns the engine bounds.
func (o *Options) ViewportConfig() viewport.Config {
	return viewport.Config{
		ScaleMin:  o.ZoomMin,
		ScaleMax:  o.ZoomMax,
		WheelStep: o.WheelStep,
	}
}
