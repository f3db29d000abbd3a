package spectrum

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-soundclock/dsp/core"
	"github.com/cwbudde/algo-soundclock/dsp/window"
	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

var errBlockTooLong = errors.New("spectrum: block longer than analyzer size")

// Analyzer computes windowed, zero-padded amplitude spectra of real blocks.
//
// Magnitudes are scaled by 2/(N*coherentGain), so a full-scale sine centred
// on a bin reads as ~1.0. An Analyzer reuses its buffers and is not safe for
// concurrent use.
type Analyzer struct {
	sampleRate float64
	blockSize  int
	fftSize    int
	coeffs     []float64
	scale      float64

	plan  *algofft.Plan[complex128]
	block []float64
	in    []complex128
	out   []complex128
	re    []float64
	im    []float64
}

// NewAnalyzer creates an analyzer for blocks of blockSize samples. The FFT
// size is the next power of two >= blockSize*zeroPad (zeroPad < 1 means 1).
func NewAnalyzer(sampleRate float64, blockSize int, win window.Type, zeroPad int) (*Analyzer, error) {
	if !core.IsFinitePositive(sampleRate) {
		return nil, fmt.Errorf("spectrum: sample rate must be > 0: %v", sampleRate)
	}
	if blockSize < 2 {
		return nil, fmt.Errorf("spectrum: block size must be >= 2: %d", blockSize)
	}
	if zeroPad < 1 {
		zeroPad = 1
	}

	coeffs := window.Generate(win, blockSize, window.WithPeriodic())
	gain, err := window.CoherentGain(coeffs)
	if err != nil {
		return nil, fmt.Errorf("spectrum: %w", err)
	}
	if gain <= 0 {
		return nil, fmt.Errorf("spectrum: window %q has no coherent gain", window.Info(win).Name)
	}

	fftSize := core.NextPowerOf2(blockSize * zeroPad)
	half := fftSize/2 + 1
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("spectrum: init fft plan: %w", err)
	}

	return &Analyzer{
		sampleRate: sampleRate,
		blockSize:  blockSize,
		fftSize:    fftSize,
		coeffs:     coeffs,
		scale:      2 / (float64(blockSize) * gain),
		plan:       plan,
		block:      make([]float64, blockSize),
		in:         make([]complex128, fftSize),
		out:        make([]complex128, fftSize),
		re:         make([]float64, half),
		im:         make([]float64, half),
	}, nil
}

// BlockSize returns the analysed block length in samples.
func (a *Analyzer) BlockSize() int { return a.blockSize }

// FFTSize returns the transform length.
func (a *Analyzer) FFTSize() int { return a.fftSize }

// BinHz returns the spacing of the returned spectrum bins.
func (a *Analyzer) BinHz() float64 { return a.sampleRate / float64(a.fftSize) }

// Resolution returns the true frequency resolution, sampleRate/blockSize.
// Zero-padding refines the bin grid but not this value.
func (a *Analyzer) Resolution() float64 { return a.sampleRate / float64(a.blockSize) }

// Magnitude returns the one-sided amplitude spectrum (FFTSize/2+1 bins) of
// block. Shorter blocks are zero-padded to BlockSize.
func (a *Analyzer) Magnitude(block []float64) ([]float64, error) {
	if len(block) > a.blockSize {
		return nil, fmt.Errorf("%w: %d > %d", errBlockTooLong, len(block), a.blockSize)
	}

	core.PadInto(a.block, block)
	if err := window.Multiply(a.block, a.coeffs); err != nil {
		return nil, fmt.Errorf("spectrum: %w", err)
	}

	for i := range a.in {
		if i < a.blockSize {
			a.in[i] = complex(a.block[i], 0)
		} else {
			a.in[i] = 0
		}
	}

	if err := a.plan.Forward(a.out, a.in); err != nil {
		return nil, fmt.Errorf("spectrum: fft forward: %w", err)
	}

	half := a.fftSize/2 + 1
	mag := make([]float64, half)
	magnitudeInto(mag, a.re, a.im, a.out[:half])
	vecmath.ScaleBlock(mag, mag, a.scale)
	// DC and Nyquist have no mirrored half.
	mag[0] *= 0.5
	mag[half-1] *= 0.5

	return mag, nil
}

// Magnitude returns |X[k]| for each bin of a complex spectrum.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	magnitudeInto(out, make([]float64, len(in)), make([]float64, len(in)), in)
	return out
}

// magnitudeInto splits in into re and im and writes |X[k]| to dst. All
// slices must be at least len(in) long.
func magnitudeInto(dst, re, im []float64, in []complex128) {
	n := len(in)
	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}
	vecmath.Magnitude(dst[:n], re[:n], im[:n])
}
