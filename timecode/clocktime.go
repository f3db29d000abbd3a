package timecode

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const secondsPerDay = 24 * 60 * 60

// ClockTime is a time of day with whole-second resolution.
type ClockTime struct {
	Hour   int
	Minute int
	Second int
}

// NewClockTime returns a validated ClockTime.
func NewClockTime(hour, minute, second int) (ClockTime, error) {
	t := ClockTime{Hour: hour, Minute: minute, Second: second}
	if err := t.Validate(); err != nil {
		return ClockTime{}, err
	}
	return t, nil
}

// FromTime returns the local wall-clock time of day of tm.
func FromTime(tm time.Time) ClockTime {
	return ClockTime{Hour: tm.Hour(), Minute: tm.Minute(), Second: tm.Second()}
}

// ParseClockTime parses "HH:MM" or "HH:MM:SS".
func ParseClockTime(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return ClockTime{}, fmt.Errorf("%w: %q: want HH:MM[:SS]", ErrInvalidTime, s)
	}

	var fields [3]int
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return ClockTime{}, fmt.Errorf("%w: %q: %v", ErrInvalidTime, s, err)
		}
		fields[i] = v
	}

	return NewClockTime(fields[0], fields[1], fields[2])
}

// Validate returns ErrInvalidTime if any component is out of range.
func (t ClockTime) Validate() error {
	switch {
	case t.Hour < 0 || t.Hour > 23:
		return fmt.Errorf("%w: hour %d", ErrInvalidTime, t.Hour)
	case t.Minute < 0 || t.Minute > 59:
		return fmt.Errorf("%w: minute %d", ErrInvalidTime, t.Minute)
	case t.Second < 0 || t.Second > 59:
		return fmt.Errorf("%w: second %d", ErrInvalidTime, t.Second)
	}
	return nil
}

// SecondOfDay returns the number of seconds since midnight.
func (t ClockTime) SecondOfDay() int {
	return t.Hour*3600 + t.Minute*60 + t.Second
}

// Add returns t shifted by seconds, wrapping around midnight in both
// directions.
func (t ClockTime) Add(seconds int) ClockTime {
	s := (t.SecondOfDay() + seconds) % secondsPerDay
	if s < 0 {
		s += secondsPerDay
	}
	return ClockTime{Hour: s / 3600, Minute: s / 60 % 60, Second: s % 60}
}

func (t ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}
