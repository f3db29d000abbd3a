package spectrum

import (
	"math"
	"sort"
)

// Peak is an interpolated local maximum of an amplitude spectrum.
type Peak struct {
	Bin       int
	Frequency float64
	Magnitude float64
}

// FindPeaks returns up to maxPeaks local maxima of mag whose bins lie in
// [lowHz, highHz], strongest first. Frequencies and magnitudes are refined by
// quadratic interpolation over the neighbouring bins. maxPeaks <= 0 returns
// every local maximum. Zero-valued bins never form a peak, so a silent
// spectrum yields none.
func FindPeaks(mag []float64, binHz, lowHz, highHz float64, maxPeaks int) []Peak {
	if len(mag) < 3 || binHz <= 0 || highHz < lowHz {
		return nil
	}

	lo := int(math.Ceil(lowHz / binHz))
	hi := int(math.Floor(highHz / binHz))
	if lo < 1 {
		lo = 1
	}
	if hi > len(mag)-2 {
		hi = len(mag) - 2
	}

	var peaks []Peak
	for k := lo; k <= hi; k++ {
		m := mag[k]
		if m <= 0 || m <= mag[k-1] || m < mag[k+1] {
			continue
		}

		offset, value := InterpolatePeak(mag[k-1], m, mag[k+1])
		peaks = append(peaks, Peak{
			Bin:       k,
			Frequency: (float64(k) + offset) * binHz,
			Magnitude: value,
		})
	}

	sort.SliceStable(peaks, func(i, j int) bool {
		return peaks[i].Magnitude > peaks[j].Magnitude
	})

	if maxPeaks > 0 && len(peaks) > maxPeaks {
		peaks = peaks[:maxPeaks]
	}
	return peaks
}

// InterpolatePeak fits a parabola through three neighbouring bin values with
// the centre one being the local maximum, and returns the vertex offset in
// bins (within [-0.5, 0.5]) and the vertex height.
//
// The fit is done on log magnitudes when all three are positive, which is
// near-exact for Gaussian-like main lobes such as Hann, and on linear values
// otherwise.
func InterpolatePeak(left, centre, right float64) (offset, value float64) {
	logFit := left > 0 && centre > 0 && right > 0
	a, b, c := left, centre, right
	if logFit {
		a, b, c = math.Log(left), math.Log(centre), math.Log(right)
	}

	den := a - 2*b + c
	if den >= 0 {
		return 0, centre
	}

	offset = 0.5 * (a - c) / den
	offset = math.Max(-0.5, math.Min(0.5, offset))
	value = b - 0.25*(a-c)*offset

	if logFit {
		value = math.Exp(value)
	}
	return offset, value
}
