// Package spectrum provides FFT-based and single-bin spectrum analysis for
// real-valued blocks.
//
// [Analyzer] windows, zero-pads and transforms one block at a time with an
// algo-fft plan and reports one-sided amplitude spectra. [FindPeaks] extracts
// interpolated local maxima from such spectra. [Goertzel] evaluates a single
// frequency when a full transform is unnecessary, e.g. for tone presence
// checks on short slices.
package spectrum
