// Package replay drives a viewer from a recorded gesture script.
//
// A script is one operator per line, operands before or after the name are
// both accepted as long as they are numbers:
//
//	resize 800 600
//	down 100 100
//	move 140 120
//	up
//	touch 100 100 200 100
//	tmove 80 100 220 100
//	tend 0
//	wheel 400 300 -120
//
// Blank lines and lines starting with '#' are ignored.
package replay

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"paperview/pkg/geom"
)

// Operator is one parsed script line.
type Operator struct {
	Name     string
	Operands []float64
	Line     int
}

func (op Operator) String() string {
	parts := make([]string, 0, len(op.Operands)+1)
	parts = append(parts, op.Name)
	for _, v := range op.Operands {
		parts = append(parts, strconv.FormatFloat(v, 'g', -1, 64))
	}
	return strings.Join(parts, " ")
}

// arity lists the accepted operand counts per operator.
var arity = map[string][]int{
	"resize": {2},
	"down":   {2},
	"move":   {2},
	"up":     {0},
	"touch":  {2, 4},
	"tmove":  {2, 4},
	"tend":   {1},
	"wheel":  {3},
	"reset":  {0},
}

// ParseError reports a malformed script line.
type ParseError struct {
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Parse reads a whole script.
func Parse(r io.Reader) ([]Operator, error) {
	var ops []Operator
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		op, err := parseLine(line, text)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return ops, nil
}

func parseLine(line int, text string) (Operator, error) {
	op := Operator{Line: line}
	for _, field := range strings.Fields(text) {
		v, err := strconv.ParseFloat(field, 64)
		if err == nil {
			if !geom.Finite(v) {
				return op, &ParseError{Line: line, Msg: fmt.Sprintf("operand %q is not finite", field)}
			}
			op.Operands = append(op.Operands, v)
			continue
		}
		if op.Name != "" {
			return op, &ParseError{Line: line, Msg: fmt.Sprintf("unexpected %q after %s", field, op.Name)}
		}
		op.Name = strings.ToLower(field)
	}

	counts, ok := arity[op.Name]
	if !ok {
		return op, &ParseError{Line: line, Msg: fmt.Sprintf("unknown operator %q", op.Name)}
	}
	for _, n := range counts {
		if len(op.Operands) == n {
			return op, nil
		}
	}
	return op, &ParseError{Line: line, Msg: fmt.Sprintf("%s takes %v operands, got %d", op.Name, counts, len(op.Operands))}
}
