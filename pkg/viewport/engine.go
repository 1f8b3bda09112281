// Package viewport implements the interactive pan/zoom transform engine:
// contain-fit layout, a clamped translate+scale transform, and the gesture
// state machine that drives it.
package viewport

import (
	"fmt"
	"io"
	"log"
	"math"
	"sync"

	"paperview/pkg/geom"
)

// Default zoom bounds and wheel step.
const (
	DefaultScaleMin  = 0.8
	DefaultScaleMax  = 3.0
	DefaultWheelStep = 0.2
)

// Config bounds the engine.
type Config struct {
	// ScaleMin and ScaleMax bound the zoom level (inclusive).
	ScaleMin float64
	ScaleMax float64

	// WheelStep is the scale change per wheel event.
	WheelStep float64
}

// DefaultConfig returns the form-style bounds 0.8..3 with a 0.2 wheel step.
func DefaultConfig() Config {
	return Config{
		ScaleMin:  DefaultScaleMin,
		ScaleMax:  DefaultScaleMax,
		WheelStep: DefaultWheelStep,
	}
}

func (c Config) normalized() Config {
	if !(c.ScaleMin > 0) || math.IsInf(c.ScaleMin, 0) {
		c.ScaleMin = DefaultScaleMin
	}
	if !(c.ScaleMax > 0) || math.IsInf(c.ScaleMax, 0) {
		c.ScaleMax = DefaultScaleMax
	}
	if c.ScaleMax < c.ScaleMin {
		c.ScaleMax = c.ScaleMin
	}
	if !(c.WheelStep > 0) || math.IsInf(c.WheelStep, 0) {
		c.WheelStep = DefaultWheelStep
	}
	return c
}

// Engine owns the transform, the layout it is clamped against, and the
// active gesture session. It is the single writer of all three; every
// mutation is committed under one lock and then published to the OnChange
// observer.
type Engine struct {
	mu  sync.Mutex
	cfg Config

	container geom.Size
	natural   NaturalSize
	resolved  bool
	viewer    ViewerSize
	token     uint64

	t       Transform
	session Session

	onChange func(VisualState)
	logger   *log.Logger
}

// NewEngine creates an engine in the unresolved, unmounted state.
func NewEngine(cfg Config) *Engine {
	return &Engine{
		cfg:     cfg.normalized(),
		natural: DefaultNaturalSize,
		t:       IdentityTransform(),
		logger:  log.New(io.Discard, "", 0),
	}
}

// SetLogger routes engine diagnostics to l. A nil logger silences them.
func (e *Engine) SetLogger(l *log.Logger) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if l == nil {
		l = log.New(io.Discard, "", 0)
	}
	e.logger = l
}

// OnChange sets the observer called after every committed mutation.
// It runs outside the engine lock.
func (e *Engine) OnChange(fn func(VisualState)) {
	e.mu.Lock()
	e.onChange = fn
	e.mu.Unlock()
}

// Config returns the normalized configuration.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// State returns a snapshot of the current visual state.
func (e *Engine) State() VisualState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot()
}

func (e *Engine) snapshot() VisualState {
	return VisualState{
		Container: e.container,
		Natural:   e.natural,
		Resolved:  e.resolved,
		Viewer:    e.viewer,
		Scale:     e.t.Scale,
		Translate: e.t.Translate,
		Mode:      modeOf(e.session),
	}
}

// update runs fn under the lock and publishes the new state if fn reports a
// change.
func (e *Engine) update(fn func() bool) {
	e.mu.Lock()
	changed := fn()
	var st VisualState
	if changed {
		st = e.snapshot()
	}
	cb := e.onChange
	e.mu.Unlock()

	if changed && cb != nil {
		cb(st)
	}
}

// ClampTranslate clamps t for scale s against the current viewer size.
func (e *Engine) ClampTranslate(s float64, t geom.Point) geom.Point {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ClampTranslate(e.viewer, s, t)
}

// SetContainer records new container dimensions and re-runs the layout.
func (e *Engine) SetContainer(w, h float64) {
	e.update(func() bool {
		size := geom.Size{Width: w, Height: h}
		if size == e.container {
			return false
		}
		e.container = size
		e.relayout()
		return true
	})
}

// BeginSource supersedes any in-flight natural size resolution and returns
// the token a later ApplyNaturalSize must present.
func (e *Engine) BeginSource() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.token++
	return e.token
}

func (e *Engine) currentSource(token uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return token == e.token
}

// ApplyNaturalSize sets the natural size if token is still the latest one
// handed out by BeginSource. It reports whether the size was applied.
// An invalid size is rejected with ErrResolutionFailed and the previous
// size is kept.
func (e *Engine) ApplyNaturalSize(token uint64, size NaturalSize) (bool, error) {
	return e.applyNaturalSize(token, size, nil)
}

// applyNaturalSize is ApplyNaturalSize with a commit step that runs under
// the engine lock when the token is current, so data resolved with the
// size is published with it or not at all.
func (e *Engine) applyNaturalSize(token uint64, size NaturalSize, commit func()) (bool, error) {
	if !size.Valid() {
		return false, fmt.Errorf("%w: invalid size %gx%g", ErrResolutionFailed, size.Width, size.Height)
	}

	applied := false
	e.update(func() bool {
		if token != e.token {
			e.logger.Printf("viewport: dropping stale natural size %gx%g (token %d, current %d)",
				size.Width, size.Height, token, e.token)
			return false
		}
		applied = true
		e.resolved = true
		if commit != nil {
			commit()
		}
		if size == e.natural {
			return commit != nil
		}
		e.natural = size
		e.relayout()
		return true
	})
	return applied, nil
}

// SetNaturalSize sets the natural size directly, superseding any in-flight
// resolution.
func (e *Engine) SetNaturalSize(size NaturalSize) error {
	_, err := e.ApplyNaturalSize(e.BeginSource(), size)
	return err
}

// relayout recomputes the fitted size. A changed fitted width resets the
// transform. An unchanged width (mobile address-bar show/hide changes only
// the container height) keeps zoom and pan; the height is still refreshed
// and translate re-clamped against it.
func (e *Engine) relayout() {
	v := ComputeLayout(e.container.Width, e.container.Height, e.natural.Aspect())
	if v.Width != e.viewer.Width {
		e.logger.Printf("viewport: fitted width %g -> %g, resetting transform", e.viewer.Width, v.Width)
		e.viewer = v
		e.t = IdentityTransform()
		return
	}
	e.viewer.Height = v.Height
	e.t.Translate = ClampTranslate(e.viewer, e.t.Scale, e.t.Translate)
}

// Pan moves the transform by (dx, dy) container pixels, clamped.
func (e *Engine) Pan(dx, dy float64) {
	e.update(func() bool {
		return e.pan(dx, dy)
	})
}

func (e *Engine) pan(dx, dy float64) bool {
	if !geom.Finite(dx) || !geom.Finite(dy) {
		return false
	}
	e.t.Translate = ClampTranslate(e.viewer, e.t.Scale, e.t.Translate.Add(geom.Pt(dx, dy)))
	return true
}

// ZoomAt changes the scale by delta while keeping the viewer-space anchor
// (px, py) visually fixed, as far as the clamps allow.
func (e *Engine) ZoomAt(px, py, delta float64) {
	e.update(func() bool {
		return e.zoomAt(geom.Pt(px, py), delta)
	})
}

func (e *Engine) zoomAt(anchor geom.Point, delta float64) bool {
	if !anchor.IsFinite() || !geom.Finite(delta) {
		return false
	}
	s := e.t.Scale
	ns := ClampScale(s+delta, e.cfg.ScaleMin, e.cfg.ScaleMax)
	t := e.t.Translate.Sub(anchor.Scale(ns - s))
	e.t = Transform{Scale: ns, Translate: ClampTranslate(e.viewer, ns, t)}
	return true
}

// ZoomBy zooms by delta anchored at the point under the container centre.
func (e *Engine) ZoomBy(delta float64) {
	e.update(func() bool {
		centre := geom.Pt(e.container.Width/2, e.container.Height/2)
		return e.zoomAt(e.snapshot().ToViewer(centre), delta)
	})
}

// WheelAt applies one wheel notch at a container-relative point. Positive
// deltaY (scrolling down) zooms out; anything else zooms in.
func (e *Engine) WheelAt(p geom.Point, deltaY float64) {
	e.update(func() bool {
		step := e.cfg.WheelStep
		if deltaY > 0 {
			step = -step
		}
		return e.zoomAt(e.snapshot().ToViewer(p), step)
	})
}

// SetTransform replaces the transform, clamping both parts.
func (e *Engine) SetTransform(t Transform) {
	e.update(func() bool {
		if !geom.Finite(t.Scale) || !t.Translate.IsFinite() {
			return false
		}
		s := ClampScale(t.Scale, e.cfg.ScaleMin, e.cfg.ScaleMax)
		e.t = Transform{Scale: s, Translate: ClampTranslate(e.viewer, s, t.Translate)}
		return true
	})
}

// Reset returns to scale 1 with no translation and ends any session.
func (e *Engine) Reset() {
	e.update(func() bool {
		e.t = IdentityTransform()
		e.session = nil
		return true
	})
}

// BeginPan starts a pan session at a container-relative point, cancelling
// any pinch.
func (e *Engine) BeginPan(p geom.Point) {
	e.update(func() bool {
		e.session = Panning{Last: p}
		return true
	})
}

// PanTo pans by the delta from the last recorded point and records p.
// Outside a pan session it does nothing.
func (e *Engine) PanTo(p geom.Point) {
	e.update(func() bool {
		ps, ok := e.session.(Panning)
		if !ok || !p.IsFinite() {
			return false
		}
		d := p.Sub(ps.Last)
		e.session = Panning{Last: p}
		return e.pan(d.X, d.Y)
	})
}

// BeginPinch starts a pinch session for the given pair distance, cancelling
// any pan.
func (e *Engine) BeginPinch(distance float64) {
	e.update(func() bool {
		e.session = Pinching{BaseDistance: distance / e.t.Scale}
		return true
	})
}

// PinchTo zooms so that scale tracks distance/BaseDistance, anchored at the
// container-relative pair midpoint. Outside a pinch session, or with a
// degenerate base distance, it does nothing.
func (e *Engine) PinchTo(distance float64, mid geom.Point) {
	e.update(func() bool {
		ps, ok := e.session.(Pinching)
		if !ok || !(ps.BaseDistance > 0) || !geom.Finite(distance) {
			return false
		}
		delta := distance/ps.BaseDistance - e.t.Scale
		return e.zoomAt(e.snapshot().ToViewer(mid), delta)
	})
}

// EndSession returns to idle.
func (e *Engine) EndSession() {
	e.update(func() bool {
		if e.session == nil {
			return false
		}
		e.session = nil
		return true
	})
}

// Session returns the active session, nil when idle.
func (e *Engine) Session() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}
