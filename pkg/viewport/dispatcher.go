package viewport

import "paperview/pkg/geom"

// Dispatcher normalizes mouse, touch, pinch and wheel input into the
// engine's pan and zoom primitives. All points are container-relative
// pixels; hosts convert from their own event coordinates before calling in.
//
//	pointer-down           begin panning at the point
//	pointer-move           pan by the delta from the last point
//	pointer-up (global)    end the session
//	touch-start, 1 finger  begin panning
//	touch-start, 2 fingers begin pinching, cancelling any pan
//	touch-move, 1 finger   as pointer-move
//	touch-move, 2 fingers  zoom to the distance ratio at the pair midpoint
//	touch-end              0 left ends the session, 1 left ends a pinch
//	wheel                  one-shot zoom step at the cursor
type Dispatcher struct {
	eng *Engine
}

// NewDispatcher creates a dispatcher driving eng.
func NewDispatcher(eng *Engine) *Dispatcher {
	return &Dispatcher{eng: eng}
}

// Engine returns the driven engine.
func (d *Dispatcher) Engine() *Engine {
	return d.eng
}

// PointerDown begins a pan session.
func (d *Dispatcher) PointerDown(p geom.Point) {
	d.eng.BeginPan(p)
}

// PointerMove pans while a pan session is active.
func (d *Dispatcher) PointerMove(p geom.Point) {
	d.eng.PanTo(p)
}

// PointerUp ends any session. Hosts deliver it for releases anywhere in the
// window, usually through a Hub.
func (d *Dispatcher) PointerUp() {
	d.eng.EndSession()
}

// TouchStart handles a touch-start carrying every finger currently down.
func (d *Dispatcher) TouchStart(touches []geom.Point) {
	switch len(touches) {
	case 1:
		d.eng.BeginPan(touches[0])
	case 2:
		d.eng.BeginPinch(touches[0].Distance(touches[1]))
	}
}

// TouchMove handles a touch-move carrying every finger currently down.
func (d *Dispatcher) TouchMove(touches []geom.Point) {
	switch len(touches) {
	case 1:
		d.eng.PanTo(touches[0])
	case 2:
		d.eng.PinchTo(touches[0].Distance(touches[1]), touches[0].Mid(touches[1]))
	}
}

// TouchEnd handles a touch-end with the number of fingers still down.
func (d *Dispatcher) TouchEnd(remaining int) {
	switch {
	case remaining <= 0:
		d.eng.EndSession()
	case remaining == 1:
		// A pinch that loses a finger is discarded. A new touch-start is
		// needed before the remaining finger pans.
		if _, ok := d.eng.Session().(Pinching); ok {
			d.eng.EndSession()
		}
	}
}

// Wheel applies one wheel event at p. deltaY follows the browser convention:
// positive scrolls down and zooms out.
func (d *Dispatcher) Wheel(p geom.Point, deltaY float64) {
	d.eng.WheelAt(p, deltaY)
}
