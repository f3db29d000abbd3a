package timecode

import (
	"github.com/cwbudde/algo-soundclock/dsp/core"
	"github.com/cwbudde/algo-soundclock/dsp/spectrum"
	"github.com/cwbudde/algo-soundclock/dsp/window"
)

const (
	// A slot counts as a pulse when its tick amplitude reaches this
	// fraction of the first slot's.
	pulseRatio = 0.25
	// Below this first-slot amplitude no tick train is assumed.
	minTickAmplitude = 1e-4
)

// tickSlots locates the possible tick bursts inside one window.
type tickSlots struct {
	sampleRate float64
	offsets    []int
	length     int
	taper      []float64
}

func newTickSlots(cfg core.ProcessorConfig) tickSlots {
	s := tickSlots{
		sampleRate: cfg.SampleRate,
		length:     cfg.SamplesFor(TickSeconds),
	}
	for k := range MaxPulses {
		s.offsets = append(s.offsets, cfg.SamplesFor(float64(k)*TickSpacingSeconds))
	}
	s.taper = window.Generate(window.TypeHann, s.length)
	return s
}

// count returns the number of leading tick slots that carry a burst, or 0
// when the first slot holds none.
func (s tickSlots) count(block []float64) int {
	g, err := spectrum.NewGoertzel(TickHz, s.sampleRate)
	if err != nil {
		return 0
	}

	slot := make([]float64, s.length)
	first := 0.0
	n := 0
	for k, off := range s.offsets {
		end := off + s.length
		if end > len(block) {
			break
		}

		copy(slot, block[off:end])
		if err := window.Multiply(slot, s.taper); err != nil {
			return 0
		}
		amp := g.Measure(slot)

		if k == 0 {
			if amp < minTickAmplitude {
				return 0
			}
			first = amp
		} else if amp < pulseRatio*first {
			break
		}
		n++
	}
	return n
}
