package sankhya

import (
	"fmt"
	"math"

	"github.com/jsvensson/varnamala/internal/numfmt"
)

// Operation is an arithmetic rule the service applies across word values.
type Operation string

const (
	Addition       Operation = "addition"
	Multiplication Operation = "multiplication"
	SubtractionFD  Operation = "subtraction_fd"
	SubtractionBD  Operation = "subtraction_bd"
	DivisionFD     Operation = "division_fd"
	DivisionBD     Operation = "division_bd"
)

// Operations lists every operation in menu order.
var Operations = []Operation{
	Addition, Multiplication, SubtractionFD, SubtractionBD, DivisionFD, DivisionBD,
}

// ParseOperation validates an operation name.
func ParseOperation(s string) (Operation, error) {
	for _, op := range Operations {
		if string(op) == s {
			return op, nil
		}
	}
	return "", fmt.Errorf("unknown operation %q", s)
}

// DisplayName is the label shown next to the result. Unknown operations have
// no label.
func (o Operation) DisplayName() string {
	switch o {
	case Addition:
		return "Add"
	case Multiplication:
		return "Multiply"
	case SubtractionFD:
		return "Subtract (L to R)"
	case SubtractionBD:
		return "Subtract (R to L)"
	case DivisionFD:
		return "Divide (L to R)"
	case DivisionBD:
		return "Divide (R to L)"
	}
	return ""
}

// Calculation is the service's answer to a calculate request.
type Calculation struct {
	Operation Operation `json:"operation"`
	Result    []any     `json:"result"`
}

// Formatted renders each result value for display.
func (c Calculation) Formatted() []string {
	out := make([]string, len(c.Result))
	for i, v := range c.Result {
		out[i] = numfmt.Format(v)
	}
	return out
}

// Tokens extracts the numeric value of each word, in order, for a calculate
// request.
func Tokens(words []Word) ([]float64, error) {
	out := make([]float64, len(words))
	for i, w := range words {
		v, ok := numfmt.Float(w.Value)
		if !ok || math.IsInf(v, 0) {
			return nil, fmt.Errorf("word %q: value %v is not a finite number", w.Name, w.Value)
		}
		out[i] = v
	}
	return out, nil
}
