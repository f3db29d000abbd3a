package signal

import (
	"fmt"
	"math"
	"strings"
)

// Shape identifies an oscillator waveform.
type Shape int

const (
	ShapeSine Shape = iota
	ShapeSquare
	ShapeTriangle
	ShapeSawtooth
)

var shapeNames = [...]string{
	ShapeSine:     "sine",
	ShapeSquare:   "square",
	ShapeTriangle: "triangle",
	ShapeSawtooth: "sawtooth",
}

// Shapes returns all supported shapes in declaration order.
func Shapes() []Shape {
	return []Shape{ShapeSine, ShapeSquare, ShapeTriangle, ShapeSawtooth}
}

// Valid reports whether s is one of the declared shapes.
func (s Shape) Valid() bool {
	return s >= ShapeSine && s <= ShapeSawtooth
}

func (s Shape) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Shape(%d)", int(s))
	}
	return shapeNames[s]
}

// ParseShape converts a case-insensitive shape name. "saw" is accepted as an
// alias for sawtooth.
func ParseShape(name string) (Shape, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sine":
		return ShapeSine, nil
	case "square":
		return ShapeSquare, nil
	case "triangle":
		return ShapeTriangle, nil
	case "sawtooth", "saw":
		return ShapeSawtooth, nil
	default:
		return 0, fmt.Errorf("%w: unknown shape %q", ErrInvalidInput, name)
	}
}

// Oscillate evaluates a unit-amplitude waveform at the given phase, expressed
// in cycles (frequency times time). Invalid shapes evaluate to 0.
func Oscillate(s Shape, cycles float64) float64 {
	switch s {
	case ShapeSine:
		return math.Sin(2 * math.Pi * cycles)
	case ShapeSquare:
		// sign(0) stays 0 so zero crossings are exact.
		v := math.Sin(2 * math.Pi * cycles)
		switch {
		case v > 0:
			return 1
		case v < 0:
			return -1
		default:
			return 0
		}
	case ShapeSawtooth:
		return sawtooth(cycles)
	case ShapeTriangle:
		return 2*math.Abs(sawtooth(cycles)) - 1
	default:
		return 0
	}
}

// sawtooth is in [-1, 1) and crosses zero at integer cycles.
func sawtooth(cycles float64) float64 {
	return 2 * (cycles - math.Floor(cycles+0.5))
}
