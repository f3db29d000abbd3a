// Package window provides the cosine-sum tapers used for spectral analysis
// and tick detection.
package window

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

var (
	// ErrEmpty is returned for an empty coefficient set.
	ErrEmpty = errors.New("window: empty coefficients")
	// ErrLengthMismatch is returned when samples and coefficients differ in
	// length.
	ErrLengthMismatch = errors.New("window: length mismatch")
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
	TypeBlackmanHarris4Term
)

// Metadata holds spectral properties of a window type. ENBW is in bins and
// HighestSidelobe in dB relative to the main lobe.
type Metadata struct {
	Name            string
	ENBW            float64
	HighestSidelobe float64
	CoherentGain    float64
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic generates the periodic form used for FFT framing instead of
// the symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Cosine-sum coefficients a0, a1, ... of w(x) = sum a_k cos(2πkx).
var cosineTerms = map[Type][]float64{
	TypeRectangular:         {1},
	TypeHann:                {0.5, -0.5},
	TypeHamming:             {0.54, -0.46},
	TypeBlackman:            {0.42, -0.5, 0.08},
	TypeBlackmanHarris4Term: {0.35875, -0.48829, 0.14128, -0.01168},
}

var metadataByType = map[Type]Metadata{
	TypeRectangular:         {Name: "Rectangular", ENBW: 1, HighestSidelobe: -13.3, CoherentGain: 1},
	TypeHann:                {Name: "Hann", ENBW: 1.5, HighestSidelobe: -31.5, CoherentGain: 0.5},
	TypeHamming:             {Name: "Hamming", ENBW: 1.36, HighestSidelobe: -42.7, CoherentGain: 0.54},
	TypeBlackman:            {Name: "Blackman", ENBW: 1.73, HighestSidelobe: -58.1, CoherentGain: 0.42},
	TypeBlackmanHarris4Term: {Name: "Blackman-Harris 4-term", ENBW: 2.0, HighestSidelobe: -92, CoherentGain: 0.35875},
}

// Generate returns length coefficients of window t. Unknown types fall back
// to rectangular.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	terms, ok := cosineTerms[t]
	if !ok {
		terms = cosineTerms[TypeRectangular]
	}

	den := float64(length - 1)
	if cfg.periodic || length == 1 {
		den = float64(length)
	}

	out := make([]float64, length)
	for i := range out {
		phase := 2 * math.Pi * float64(i) / den
		sum := 0.0
		for k, a := range terms {
			sum += a * math.Cos(float64(k)*phase)
		}
		out[i] = sum
	}
	return out
}

// Multiply scales samples in place by coeffs.
func Multiply(samples, coeffs []float64) error {
	if len(samples) != len(coeffs) {
		return fmt.Errorf("%w: %d samples, %d coefficients", ErrLengthMismatch, len(samples), len(coeffs))
	}

	vecmath.MulBlockInPlace(samples, coeffs)
	return nil
}

// CoherentGain returns sum(w)/N, the amplitude a windowed sine loses at its
// bin centre.
func CoherentGain(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, ErrEmpty
	}

	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}
	return sum / float64(len(coeffs)), nil
}

// Info returns static metadata for a window type, or the zero Metadata for
// unknown types.
func Info(t Type) Metadata {
	return metadataByType[t]
}
