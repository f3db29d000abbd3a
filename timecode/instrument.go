package timecode

import (
	"slices"

	"github.com/cwbudde/algo-soundclock/dsp/signal"
)

// Instrument is the timbre and pitch anchor used for a range of hours.
// HourHigh is exclusive.
type Instrument struct {
	Name     string
	Shape    signal.Shape
	BaseHz   float64
	HourLow  int
	HourHigh int
}

// Contains reports whether hour falls in [HourLow, HourHigh).
func (in Instrument) Contains(hour int) bool {
	return hour >= in.HourLow && hour < in.HourHigh
}

var instruments = [...]Instrument{
	{Name: "night", Shape: signal.ShapeSine, BaseHz: 55, HourLow: 0, HourHigh: 6},
	{Name: "morning", Shape: signal.ShapeTriangle, BaseHz: 110, HourLow: 6, HourHigh: 12},
	{Name: "day", Shape: signal.ShapeSquare, BaseHz: 220, HourLow: 12, HourHigh: 18},
	{Name: "evening", Shape: signal.ShapeSawtooth, BaseHz: 110, HourLow: 18, HourHigh: 24},
}

// Unreachable while instruments partitions [0, 24).
var fallbackInstrument = Instrument{Name: "fallback", Shape: signal.ShapeSine, BaseHz: 110}

// LookupInstrument returns the first instrument whose hour range contains
// hour.
func LookupInstrument(hour int) Instrument {
	for _, in := range instruments {
		if in.Contains(hour) {
			return in
		}
	}
	return fallbackInstrument
}

// Instruments returns a copy of the instrument table in hour order.
func Instruments() []Instrument {
	out := make([]Instrument, len(instruments))
	copy(out, instruments[:])
	return out
}

// BaseFrequencies returns the distinct instrument base frequencies in
// ascending order.
func BaseFrequencies() []float64 {
	out := make([]float64, 0, len(instruments))
	for _, in := range instruments {
		out = append(out, in.BaseHz)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
