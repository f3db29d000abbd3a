package timecode

import (
	"fmt"
	"runtime"

	"github.com/cwbudde/algo-soundclock/dsp/core"
)

// Tick train and voice mix constants.
const (
	TickHz             = 880.0
	TickSeconds        = 0.1
	TickSpacingSeconds = 0.15
	MaxPulses          = 4

	HourWeight     = 1.0
	MinuteWeight   = 0.6
	TickWeightEven = 0.4
	TickWeightOdd  = 0.2
	// HarmonicWeight is divided by the harmonic number.
	HarmonicWeight = 0.2

	// DefaultToleranceHz is the minimum per-tone match tolerance.
	DefaultToleranceHz = 6.0
)

// minFrameSeconds leaves room for the full tick train, which ends at 0.55 s.
const minFrameSeconds = 0.6

// Option configures an Encoder or a Decoder. Options that only concern one
// side are ignored by the other.
type Option func(*config)

type config struct {
	proc        core.ProcessorConfig
	mapping     MinuteMapping
	harmonics   int
	toleranceHz float64
	freeBase    bool
	workers     int
}

func defaultConfig() config {
	return config{
		proc:        core.DefaultProcessorConfig(),
		mapping:     MinuteQuantized,
		toleranceHz: DefaultToleranceHz,
		workers:     runtime.GOMAXPROCS(0),
	}
}

func applyOptions(opts []Option) (config, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if !core.IsFinitePositive(cfg.proc.SampleRate) {
		return cfg, fmt.Errorf("timecode: sample rate must be > 0: %v", cfg.proc.SampleRate)
	}
	if cfg.proc.FrameSeconds < minFrameSeconds {
		return cfg, fmt.Errorf("timecode: frame must be >= %.2f s: %v", minFrameSeconds, cfg.proc.FrameSeconds)
	}
	if cfg.proc.SampleRate/2 <= TickHz {
		return cfg, fmt.Errorf("timecode: sample rate %v cannot carry %v Hz ticks", cfg.proc.SampleRate, TickHz)
	}
	if cfg.mapping != MinuteQuantized && cfg.mapping != MinuteContinuous {
		return cfg, fmt.Errorf("timecode: %v", cfg.mapping)
	}
	if cfg.harmonics < 0 {
		return cfg, fmt.Errorf("timecode: harmonics must be >= 0: %d", cfg.harmonics)
	}
	if !core.IsFinitePositive(cfg.toleranceHz) {
		return cfg, fmt.Errorf("timecode: tolerance must be > 0: %v", cfg.toleranceHz)
	}
	if cfg.workers < 1 {
		cfg.workers = 1
	}

	return cfg, nil
}

func withProc(cfg config) []core.ProcessorOption {
	return []core.ProcessorOption{
		core.WithSampleRate(cfg.proc.SampleRate),
		core.WithFrameSeconds(cfg.proc.FrameSeconds),
	}
}

// WithProcessorOptions applies shared sample-rate and frame settings.
func WithProcessorOptions(opts ...core.ProcessorOption) Option {
	return func(c *config) {
		for _, opt := range opts {
			if opt != nil {
				opt(&c.proc)
			}
		}
	}
}

// WithSampleRate sets the sample rate in Hz.
func WithSampleRate(sampleRate float64) Option {
	return WithProcessorOptions(core.WithSampleRate(sampleRate))
}

// WithFrameSeconds sets the frame and analysis window duration.
func WithFrameSeconds(seconds float64) Option {
	return WithProcessorOptions(core.WithFrameSeconds(seconds))
}

// WithMinuteMapping selects the minute tone mapping. Encoder and decoder must
// agree.
func WithMinuteMapping(m MinuteMapping) Option {
	return func(c *config) { c.mapping = m }
}

// WithHarmonics adds n overtones (2..n+1) of the hour tone to each frame.
func WithHarmonics(n int) Option {
	return func(c *config) { c.harmonics = n }
}

// WithToleranceHz sets the minimum per-tone tolerance. The effective value
// is never below four times the window's frequency resolution.
func WithToleranceHz(hz float64) Option {
	return func(c *config) { c.toleranceHz = hz }
}

// WithFreeBaseSearch lets the decoder pair any hour with any instrument
// base instead of only the hour's own instrument.
func WithFreeBaseSearch() Option {
	return func(c *config) { c.freeBase = true }
}

// WithConcurrency bounds the number of frames or windows processed in
// parallel. Values < 1 mean 1.
func WithConcurrency(n int) Option {
	return func(c *config) { c.workers = n }
}
