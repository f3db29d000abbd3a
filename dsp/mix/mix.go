// Package mix combines weighted, time-offset voices into a single
// peak-normalised buffer.
package mix

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-soundclock/dsp/signal"
	"github.com/cwbudde/algo-vecmath"
)

// Epsilon guards the peak normalisation against silent mixes.
const Epsilon = 1e-9

var errInvalidVoice = errors.New("mix: invalid voice")

// Voice is one weighted contribution to a mix.
type Voice struct {
	Label   string
	Samples []float64
	Weight  float64
	// Offset is the first output sample the voice is written to.
	Offset int
}

// Length returns the buffer length needed to hold every voice, i.e. the
// maximum of Offset+len(Samples).
func Length(voices ...Voice) int {
	n := 0
	for _, v := range voices {
		if end := v.Offset + len(v.Samples); end > n {
			n = end
		}
	}
	return n
}

// Sum adds all voices, each scaled by its weight and placed at its offset,
// into a zero-padded buffer of [Length] samples.
func Sum(voices ...Voice) ([]float64, error) {
	for _, v := range voices {
		if v.Offset < 0 || math.IsNaN(v.Weight) || math.IsInf(v.Weight, 0) {
			return nil, fmt.Errorf("%w %q: offset=%d weight=%v", errInvalidVoice, v.Label, v.Offset, v.Weight)
		}
	}

	size := Length(voices...)
	out := make([]float64, size)
	var scratch []float64

	for _, v := range voices {
		if v.Offset >= size || v.Weight == 0 {
			continue
		}

		src := v.Samples
		dst := out[v.Offset : v.Offset+len(src)]

		if cap(scratch) < len(src) {
			scratch = make([]float64, len(src))
		}
		scaled := scratch[:len(src)]

		vecmath.ScaleBlock(scaled, src, v.Weight)
		vecmath.AddBlockInPlace(dst, scaled)
	}

	return out, nil
}

// Mix sums the voices like [Sum] and rescales the result to a peak
// amplitude just below 1. A silent mix stays silent.
func Mix(voices ...Voice) ([]float64, error) {
	out, err := Sum(voices...)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	return signal.Normalize(out, Epsilon), nil
}

// Concat joins frames end to end.
func Concat(frames ...[]float64) []float64 {
	total := 0
	for _, f := range frames {
		total += len(f)
	}

	out := make([]float64, 0, total)
	for _, f := range frames {
		out = append(out, f...)
	}

	return out
}
