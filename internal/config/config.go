// Package config loads soundclock settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-soundclock/dsp/core"
	"github.com/cwbudde/algo-soundclock/timecode"
	"github.com/cwbudde/algo-soundclock/wavio"
	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvSampleRate    = "SOUNDCLOCK_SAMPLE_RATE"
	EnvFrameSeconds  = "SOUNDCLOCK_FRAME_SECONDS"
	EnvMinuteMapping = "SOUNDCLOCK_MINUTE_MAPPING"
	EnvHarmonics     = "SOUNDCLOCK_HARMONICS"
	EnvToleranceHz   = "SOUNDCLOCK_TOLERANCE_HZ"
	EnvFloatWAV      = "SOUNDCLOCK_FLOAT_WAV"
	EnvLogLevel      = "SOUNDCLOCK_LOG_LEVEL"
)

// Accepted frame durations.
const (
	MinFrameSeconds = 0.8
	MaxFrameSeconds = 1.2
	MaxHarmonics    = 16
)

type Config struct {
	SampleRate    float64
	FrameSeconds  float64
	MinuteMapping timecode.MinuteMapping
	Harmonics     int
	ToleranceHz   float64
	FloatWAV      bool
	LogLevel      slog.Level
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		SampleRate:    core.DefaultSampleRate,
		FrameSeconds:  core.DefaultFrameSeconds,
		MinuteMapping: timecode.MinuteQuantized,
		ToleranceHz:   timecode.DefaultToleranceHz,
		LogLevel:      slog.LevelInfo,
	}
}

// Load reads .env (if present) and the SOUNDCLOCK_* variables. Values that
// fail to parse are logged and replaced by their defaults.
func Load() Config {
	_ = godotenv.Load()

	d := Default()
	return Config{
		SampleRate:    getEnvFloat(EnvSampleRate, d.SampleRate),
		FrameSeconds:  getEnvFloat(EnvFrameSeconds, d.FrameSeconds),
		MinuteMapping: getEnvMapping(EnvMinuteMapping, d.MinuteMapping),
		Harmonics:     getEnvInt(EnvHarmonics, d.Harmonics),
		ToleranceHz:   getEnvFloat(EnvToleranceHz, d.ToleranceHz),
		FloatWAV:      getEnvBool(EnvFloatWAV, d.FloatWAV),
		LogLevel:      getEnvLevel(EnvLogLevel, d.LogLevel),
	}
}

// Validate rejects settings the codec cannot run with.
func (c Config) Validate() error {
	if c.SampleRate < 2*timecode.TickHz*1.1 {
		return fmt.Errorf("config: sample rate %v Hz too low", c.SampleRate)
	}
	if c.FrameSeconds < MinFrameSeconds || c.FrameSeconds > MaxFrameSeconds {
		return fmt.Errorf("config: frame seconds %v outside [%v, %v]", c.FrameSeconds, MinFrameSeconds, MaxFrameSeconds)
	}
	if c.Harmonics < 0 || c.Harmonics > MaxHarmonics {
		return fmt.Errorf("config: harmonics %d outside [0, %d]", c.Harmonics, MaxHarmonics)
	}
	if c.ToleranceHz <= 0 {
		return fmt.Errorf("config: tolerance must be > 0: %v", c.ToleranceHz)
	}
	return nil
}

// TimecodeOptions converts the settings into encoder and decoder options.
func (c Config) TimecodeOptions() []timecode.Option {
	return []timecode.Option{
		timecode.WithSampleRate(c.SampleRate),
		timecode.WithFrameSeconds(c.FrameSeconds),
		timecode.WithMinuteMapping(c.MinuteMapping),
		timecode.WithHarmonics(c.Harmonics),
		timecode.WithToleranceHz(c.ToleranceHz),
	}
}

// WAVFormat returns the sample encoding for written files.
func (c Config) WAVFormat() wavio.Format {
	if c.FloatWAV {
		return wavio.Float32
	}
	return wavio.PCM16
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		warnDefault(key, value, err)
		return defaultValue
	}
	return floatValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		warnDefault(key, value, err)
		return defaultValue
	}
	return intValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		warnDefault(key, value, err)
		return defaultValue
	}
	return boolValue
}

func getEnvMapping(key string, defaultValue timecode.MinuteMapping) timecode.MinuteMapping {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	m, err := timecode.ParseMinuteMapping(value)
	if err != nil {
		warnDefault(key, value, err)
		return defaultValue
	}
	return m
}

func getEnvLevel(key string, defaultValue slog.Level) slog.Level {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(value))); err != nil {
		warnDefault(key, value, err)
		return defaultValue
	}
	return level
}

func warnDefault(key, value string, err error) {
	slog.Warn("invalid environment value, using default", "key", key, "value", value, "err", err)
}
