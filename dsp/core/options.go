package core

import "math"

// Default processing settings shared by the encoder and the decoder.
const (
	DefaultSampleRate   = 44100
	DefaultFrameSeconds = 0.8
)

// ProcessorConfig defines common processing settings.
type ProcessorConfig struct {
	SampleRate   float64
	FrameSeconds float64
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns the canonical 44.1 kHz / 0.8 s frame setup.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate:   DefaultSampleRate,
		FrameSeconds: DefaultFrameSeconds,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 && !math.IsInf(sampleRate, 0) {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithFrameSeconds sets the duration of one encoded frame and of one
// decoder analysis window.
func WithFrameSeconds(seconds float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if seconds > 0 && !math.IsInf(seconds, 0) {
			cfg.FrameSeconds = seconds
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// SamplesFor returns round(SampleRate * seconds).
func (c ProcessorConfig) SamplesFor(seconds float64) int {
	return int(math.Round(c.SampleRate * seconds))
}

// FrameLength returns the number of samples in one frame.
func (c ProcessorConfig) FrameLength() int {
	return c.SamplesFor(c.FrameSeconds)
}

// BinHz returns the frequency resolution of an n-point transform.
func (c ProcessorConfig) BinHz(n int) float64 {
	if n <= 0 {
		return 0
	}
	return c.SampleRate / float64(n)
}
