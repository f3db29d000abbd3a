package timecode

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-soundclock/dsp/core"
)

// MinuteMapping selects how minutes map to the minute tone.
type MinuteMapping int

const (
	// MinuteQuantized snaps minutes to 12 semitone steps above the base:
	// step = (minute/5) mod 12.
	MinuteQuantized MinuteMapping = iota
	// MinuteContinuous sweeps hourHz*(1+minute/60).
	MinuteContinuous
)

func (m MinuteMapping) String() string {
	switch m {
	case MinuteQuantized:
		return "quantized"
	case MinuteContinuous:
		return "continuous"
	default:
		return fmt.Sprintf("MinuteMapping(%d)", int(m))
	}
}

// ParseMinuteMapping converts "quantized" or "continuous".
func ParseMinuteMapping(s string) (MinuteMapping, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quantized", "quantised", "":
		return MinuteQuantized, nil
	case "continuous":
		return MinuteContinuous, nil
	default:
		return 0, fmt.Errorf("timecode: unknown minute mapping %q", s)
	}
}

// MinuteStep returns the semitone step of a minute under the quantized
// mapping.
func MinuteStep(minute int) int {
	return (minute / 5) % 12
}

// HourFrequency returns base*2^(hour/12).
func HourFrequency(baseHz float64, hour int) float64 {
	return baseHz * core.SemitoneRatio(float64(hour))
}

// MinuteFrequency returns the minute tone for the given mapping.
func MinuteFrequency(m MinuteMapping, baseHz float64, hour, minute int) float64 {
	if m == MinuteContinuous {
		return HourFrequency(baseHz, hour) * (1 + float64(minute)/60)
	}
	return baseHz * core.SemitoneRatio(float64(MinuteStep(minute)))
}
