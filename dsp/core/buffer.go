package core

// PadInto copies src into the head of dst and zeroes the rest of dst. It
// returns the number of copied samples; src beyond len(dst) is dropped.
func PadInto(dst, src []float64) int {
	n := copy(dst, src)
	clear(dst[n:])
	return n
}

// Windows splits samples into consecutive non-overlapping windows of size
// samples. A trailing remainder shorter than size is dropped. The windows
// share memory with samples.
func Windows(samples []float64, size int) [][]float64 {
	if size <= 0 || len(samples) < size {
		return nil
	}

	n := len(samples) / size
	out := make([][]float64, n)
	for i := range out {
		out[i] = samples[i*size : (i+1)*size : (i+1)*size]
	}
	return out
}
