// Package time provides time-domain level statistics for sample blocks.
package time

import "math"

// Stats holds level statistics of one block of samples.
type Stats struct {
	Length      int
	DC          float64 // mean
	RMS         float64
	RMSdB       float64
	Peak        float64 // max |x|
	PeakdB      float64
	CrestFactor float64 // peak / RMS (linear)
}

// ampTodB converts an amplitude value to decibels: 20 * log10(|value|).
// Returns -Inf for zero values.
func ampTodB(value float64) float64 {
	a := math.Abs(value)
	if a == 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(a)
}

// Calculate computes all statistics in a single pass.
func Calculate(signal []float64) Stats {
	n := len(signal)
	if n == 0 {
		return Stats{RMSdB: math.Inf(-1), PeakdB: math.Inf(-1)}
	}

	var sum, sumSq, peak float64
	for _, x := range signal {
		sum += x
		sumSq += x * x
		if a := math.Abs(x); a > peak {
			peak = a
		}
	}

	rms := math.Sqrt(sumSq / float64(n))

	var crest float64
	if rms > 0 {
		crest = peak / rms
	}

	return Stats{
		Length:      n,
		DC:          sum / float64(n),
		RMS:         rms,
		RMSdB:       ampTodB(rms),
		Peak:        peak,
		PeakdB:      ampTodB(peak),
		CrestFactor: crest,
	}
}

// RMS returns the root-mean-square of the signal.
func RMS(signal []float64) float64 {
	if len(signal) == 0 {
		return 0
	}

	var sumSq float64
	for _, x := range signal {
		sumSq += x * x
	}

	return math.Sqrt(sumSq / float64(len(signal)))
}

// Peak returns the peak absolute amplitude of the signal.
func Peak(signal []float64) float64 {
	var peak float64
	for _, x := range signal {
		if a := math.Abs(x); a > peak {
			peak = a
		}
	}

	return peak
}

// IsSilent reports whether the block's RMS falls below threshold.
// Empty blocks are silent.
func IsSilent(signal []float64, threshold float64) bool {
	return RMS(signal) < threshold
}
