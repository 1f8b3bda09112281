package replay

import (
	"fmt"

	"paperview/pkg/geom"
	"paperview/pkg/viewport"
)

// Host is the part of a viewer a script drives.
type Host interface {
	Dispatcher() *viewport.Dispatcher
	SetContainer(w, h float64)
}

// Interpreter executes script operators against a host.
type Interpreter struct {
	host Host

	// OnStep is called after each operator with the resulting state.
	OnStep func(op Operator, st viewport.VisualState)
}

// NewInterpreter creates an interpreter driving host.
func NewInterpreter(host Host) *Interpreter {
	return &Interpreter{host: host}
}

// Execute runs ops in order, stopping at the first failure.
func (i *Interpreter) Execute(ops []Operator) error {
	for _, op := range ops {
		if err := i.executeOp(op); err != nil {
			return fmt.Errorf("line %d: %s: %w", op.Line, op.Name, err)
		}
		if i.OnStep != nil {
			i.OnStep(op, i.host.Dispatcher().Engine().State())
		}
	}
	return nil
}

func points(v []float64) []geom.Point {
	pts := make([]geom.Point, 0, len(v)/2)
	for j := 0; j+1 < len(v); j += 2 {
		pts = append(pts, geom.Pt(v[j], v[j+1]))
	}
	return pts
}

func (i *Interpreter) executeOp(op Operator) error {
	d := i.host.Dispatcher()
	v := op.Operands

	switch op.Name {
	case "resize":
		i.host.SetContainer(v[0], v[1])
	case "down":
		d.PointerDown(geom.Pt(v[0], v[1]))
	case "move":
		d.PointerMove(geom.Pt(v[0], v[1]))
	case "up":
		d.PointerUp()
	case "touch":
		d.TouchStart(points(v))
	case "tmove":
		d.TouchMove(points(v))
	case "tend":
		d.TouchEnd(int(v[0]))
	case "wheel":
		d.Wheel(geom.Pt(v[0], v[1]), v[2])
	case "reset":
		d.Engine().Reset()
	default:
		return fmt.Errorf("unknown operator")
	}
	return nil
}
