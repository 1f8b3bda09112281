package viewport

import "paperview/pkg/geom"

// Session is the active gesture. A nil Session means no pointer or finger
// is down. Only Panning and Pinching implement it.
type Session interface {
	mode() Mode
}

// Panning tracks a single pointer or finger. Last is the previously recorded
// point; each move pans by the delta from it and then replaces it.
type Panning struct {
	Last geom.Point
}

func (Panning) mode() Mode { return ModePanning }

// Pinching tracks a two-finger gesture. BaseDistance is the pair distance
// divided by the scale at gesture start, so distance/BaseDistance is the
// intended absolute scale.
type Pinching struct {
	BaseDistance float64
}

func (Pinching) mode() Mode { return ModePinching }

// Mode names the state of the transform state machine.
type Mode int

const (
	ModeIdle Mode = iota
	ModePanning
	ModePinching
)

func (m Mode) String() string {
	switch m {
	case ModePanning:
		return "panning"
	case ModePinching:
		return "pinching"
	}
	return "idle"
}

func modeOf(s Session) Mode {
	if s == nil {
		return ModeIdle
	}
	return s.mode()
}
