package signal

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-soundclock/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// Generator synthesizes tones from a shared sample-rate configuration.
type Generator struct {
	cfg core.ProcessorConfig
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return &Generator{cfg: core.ApplyProcessorOptions(opts...)}
}

// Tone synthesizes round(sampleRate*durationSec) samples of the given shape
// with the attack/decay envelope applied.
//
// Phase advances linearly over [0, durationSec). Non-positive or non-finite
// arguments and undeclared shapes return ErrInvalidInput.
func (g *Generator) Tone(freqHz, durationSec float64, shape Shape) ([]float64, error) {
	if !core.IsFinitePositive(freqHz) {
		return nil, fmt.Errorf("%w: tone frequency must be > 0: %v", ErrInvalidInput, freqHz)
	}
	if !core.IsFinitePositive(durationSec) {
		return nil, fmt.Errorf("%w: tone duration must be > 0: %v", ErrInvalidInput, durationSec)
	}
	if !shape.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, shape)
	}

	n := g.cfg.SamplesFor(durationSec)
	if n <= 0 {
		return nil, fmt.Errorf("%w: tone duration %v s is shorter than one sample", ErrInvalidInput, durationSec)
	}

	out := make([]float64, n)
	dt := durationSec / float64(n)
	for i := range out {
		out[i] = Oscillate(shape, freqHz*float64(i)*dt)
	}

	env := Envelope(n, g.cfg.SamplesFor(AttackSeconds), g.cfg.SamplesFor(DecaySeconds))
	vecmath.MulBlockInPlace(out, env)

	return out, nil
}

// Sine generates a sine wave without envelope.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// Normalize returns data / (max|data| + eps) as a new slice.
//
// The eps guard keeps an all-zero input at zero instead of dividing by zero.
// A non-positive eps is treated as 0, in which case silent input is returned
// unchanged.
func Normalize(data []float64, eps float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	if eps < 0 {
		eps = 0
	}

	maxAbs := 0.0
	for _, v := range data {
		if av := math.Abs(v); av > maxAbs {
			maxAbs = av
		}
	}

	out := make([]float64, len(data))
	den := maxAbs + eps
	if den == 0 {
		return out
	}

	vecmath.ScaleBlock(out, data, 1/den)
	return out
}
