package timecode

import (
	"fmt"

	"github.com/cwbudde/algo-soundclock/dsp/mix"
	"github.com/cwbudde/algo-soundclock/dsp/signal"
)

// Encoder renders ClockTimes as normalised audio frames. It is immutable
// after construction and safe for concurrent use.
type Encoder struct {
	cfg config
	gen *signal.Generator
}

// NewEncoder creates an encoder.
func NewEncoder(opts ...Option) (*Encoder, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	return &Encoder{
		cfg: cfg,
		gen: signal.NewGenerator(withProc(cfg)...),
	}, nil
}

// SampleRate returns the output sample rate in Hz.
func (e *Encoder) SampleRate() float64 { return e.cfg.proc.SampleRate }

// FrameLength returns the number of samples in one encoded frame.
func (e *Encoder) FrameLength() int { return e.cfg.proc.FrameLength() }

// MinuteMapping returns the configured minute mapping.
func (e *Encoder) MinuteMapping() MinuteMapping { return e.cfg.mapping }

// Voices returns the unmixed voices of t: hour tone, minute tone, optional
// hour harmonics and the tick train.
func (e *Encoder) Voices(t ClockTime) ([]mix.Voice, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	inst := LookupInstrument(t.Hour)
	frame := e.cfg.proc.FrameSeconds
	hourHz := HourFrequency(inst.BaseHz, t.Hour)
	minuteHz := MinuteFrequency(e.cfg.mapping, inst.BaseHz, t.Hour, t.Minute)

	hour, err := e.gen.Tone(hourHz, frame, inst.Shape)
	if err != nil {
		return nil, fmt.Errorf("timecode: hour tone: %w", err)
	}
	minute, err := e.gen.Tone(minuteHz, frame, signal.ShapeSine)
	if err != nil {
		return nil, fmt.Errorf("timecode: minute tone: %w", err)
	}

	voices := []mix.Voice{
		{Label: "hour", Samples: hour, Weight: HourWeight},
		{Label: "minute", Samples: minute, Weight: MinuteWeight},
	}

	nyquist := e.cfg.proc.SampleRate / 2
	for i := 2; i <= e.cfg.harmonics+1; i++ {
		f := hourHz * float64(i)
		if f >= nyquist {
			break
		}
		h, err := e.gen.Tone(f, frame, signal.ShapeSine)
		if err != nil {
			return nil, fmt.Errorf("timecode: harmonic %d: %w", i, err)
		}
		voices = append(voices, mix.Voice{
			Label:   fmt.Sprintf("harmonic-%d", i),
			Samples: h,
			Weight:  HarmonicWeight / float64(i),
		})
	}

	tick, err := e.gen.Tone(TickHz, TickSeconds, inst.Shape)
	if err != nil {
		return nil, fmt.Errorf("timecode: tick: %w", err)
	}

	weight := TickWeightEven
	if t.Second%2 == 1 {
		weight = TickWeightOdd
	}
	for k := range Pulses(t.Second) {
		voices = append(voices, mix.Voice{
			Label:   fmt.Sprintf("tick-%d", k),
			Samples: tick,
			Weight:  weight,
			Offset:  e.cfg.proc.SamplesFor(float64(k) * TickSpacingSeconds),
		})
	}

	return voices, nil
}

// Encode renders one frame of exactly FrameLength samples with peak
// amplitude just below 1.
func (e *Encoder) Encode(t ClockTime) ([]float64, error) {
	voices, err := e.Voices(t)
	if err != nil {
		return nil, err
	}

	out, err := mix.Mix(voices...)
	if err != nil {
		return nil, fmt.Errorf("timecode: mix %s: %w", t, err)
	}

	return out, nil
}

// Pulses returns the number of ticks encoding second: (second mod 4) + 1.
func Pulses(second int) int {
	return second%MaxPulses + 1
}
