package core

import (
	"math"
	"sort"
)

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// SemitoneRatio returns 2^(steps/12), the equal-tempered frequency ratio.
func SemitoneRatio(steps float64) float64 {
	return math.Exp2(steps / 12)
}

// IsFinitePositive reports whether v is a finite value greater than zero.
func IsFinitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// NextPowerOf2 returns the smallest power of two >= n. It returns 1 for n <= 1.
func NextPowerOf2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// MedianInt returns the lower median of values without modifying the input.
// The second return value is false for an empty slice.
func MedianInt(values []int) (int, bool) {
	if len(values) == 0 {
		return 0, false
	}

	sorted := append([]int(nil), values...)
	sort.Ints(sorted)

	return sorted[(len(sorted)-1)/2], true
}
