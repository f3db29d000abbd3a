package spectrum

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-soundclock/dsp/core"
)

// Goertzel measures the level of a single frequency. Samples may be fed in
// several Write calls; the result covers everything written since the last
// Reset.
//
// The target need not sit on an integer bin, but off-bin tones leak into
// neighbouring frequencies unless the input is tapered.
type Goertzel struct {
	freq  float64
	coeff float64
	s1    float64
	s2    float64
	n     int
}

// NewGoertzel returns a meter for freq Hz at sampleRate. freq must lie in
// [0, sampleRate/2].
func NewGoertzel(freq, sampleRate float64) (*Goertzel, error) {
	if !core.IsFinitePositive(sampleRate) {
		return nil, fmt.Errorf("spectrum: goertzel sample rate must be > 0: %v", sampleRate)
	}
	if math.IsNaN(freq) || freq < 0 || freq > sampleRate/2 {
		return nil, fmt.Errorf("spectrum: goertzel frequency %v outside [0, %v]", freq, sampleRate/2)
	}

	return &Goertzel{
		freq:  freq,
		coeff: 2 * math.Cos(2*math.Pi*freq/sampleRate),
	}, nil
}

// Frequency returns the target frequency in Hz.
func (g *Goertzel) Frequency() float64 { return g.freq }

// Reset discards all written samples.
func (g *Goertzel) Reset() {
	g.s1, g.s2, g.n = 0, 0, 0
}

// Write feeds samples into the recursion.
func (g *Goertzel) Write(samples []float64) {
	s1, s2 := g.s1, g.s2
	for _, x := range samples {
		s1, s2 = x+g.coeff*s1-s2, s1
	}
	g.s1, g.s2 = s1, s2
	g.n += len(samples)
}

// Power returns |X(f)|² over the written samples.
func (g *Goertzel) Power() float64 {
	p := g.s1*g.s1 + g.s2*g.s2 - g.coeff*g.s1*g.s2
	return math.Max(p, 0)
}

// Amplitude returns 2|X(f)|/N, the peak amplitude of a sine at the target
// frequency for untapered input. It is 0 before anything is written.
func (g *Goertzel) Amplitude() float64 {
	if g.n == 0 {
		return 0
	}
	return 2 * math.Sqrt(g.Power()) / float64(g.n)
}

// Measure resets the meter, writes block and returns its Amplitude.
func (g *Goertzel) Measure(block []float64) float64 {
	g.Reset()
	g.Write(block)
	return g.Amplitude()
}
