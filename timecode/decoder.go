package timecode

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/cwbudde/algo-soundclock/dsp/core"
	"github.com/cwbudde/algo-soundclock/dsp/spectrum"
	"github.com/cwbudde/algo-soundclock/dsp/window"
	timestats "github.com/cwbudde/algo-soundclock/stats/time"
	"golang.org/x/sync/errgroup"
)

// SilenceRMS is the window level below which no tone search is attempted.
const SilenceRMS = 1e-6

// Estimate is a decoded time of day. Minute carries the resolution of the
// minute mapping; Pulses estimates (second mod 4)+1 and is 0 when unknown.
type Estimate struct {
	Hour    int
	Minute  int
	ErrorHz float64
	Windows int
	Matched int
	Pulses  int
}

// ClockTime returns the estimate as a ClockTime with Second set to 0.
func (e Estimate) ClockTime() ClockTime {
	return ClockTime{Hour: e.Hour, Minute: e.Minute}
}

func (e Estimate) String() string {
	return fmt.Sprintf("%02d:%02d (error %.2f Hz, %d/%d windows)", e.Hour, e.Minute, e.ErrorHz, e.Matched, e.Windows)
}

// WindowReport describes the analysis of one window.
type WindowReport struct {
	Index   int
	Offset  int
	Level   timestats.Stats
	Silent  bool
	Peaks   []spectrum.Peak
	Best    Candidate
	Matched bool
	Pulses  int
}

// Report is the full diagnostic result of a decode. Err is nil exactly when
// Estimate holds a confident decode; otherwise it wraps ErrInsufficientData,
// ErrNoMatch or a context error.
type Report struct {
	WindowSamples int
	ToleranceHz   float64
	Windows       []WindowReport
	Estimate      Estimate
	Err           error
}

// Decoder recovers (hour, minute) from signals produced by an Encoder with
// matching options. A Decoder is safe for concurrent use.
type Decoder struct {
	cfg           config
	windowSamples int
	toleranceHz   float64
	ceilingHz     float64
	candidates    []Candidate
	ticks         tickSlots
	analyzers     sync.Pool
}

// NewDecoder creates a decoder.
func NewDecoder(opts ...Option) (*Decoder, error) {
	cfg, err := applyOptions(opts)
	if err != nil {
		return nil, err
	}

	ws := cfg.proc.FrameLength()
	cands := buildCandidates(cfg.mapping, cfg.freeBase)

	d := &Decoder{
		cfg:           cfg,
		windowSamples: ws,
		toleranceHz:   math.Max(cfg.toleranceHz, 4*cfg.proc.BinHz(ws)),
		ceilingHz:     math.Min(ceilingFor(cands), cfg.proc.SampleRate/2),
		candidates:    cands,
		ticks:         newTickSlots(cfg.proc),
	}

	a, err := d.newAnalyzer()
	if err != nil {
		return nil, err
	}
	d.analyzers.Put(a)

	return d, nil
}

// WindowSamples returns the analysis window length.
func (d *Decoder) WindowSamples() int { return d.windowSamples }

// ToleranceHz returns the effective per-tone tolerance. A window matches when
// its best candidate's total error is at most twice this value.
func (d *Decoder) ToleranceHz() float64 { return d.toleranceHz }

// CeilingHz returns the highest frequency considered by the peak search.
func (d *Decoder) CeilingHz() float64 { return d.ceilingHz }

// Candidates returns the number of (base, hour, minute) hypotheses scored per
// window.
func (d *Decoder) Candidates() int { return len(d.candidates) }

// Decode returns the decoded time and true, or false when the signal is too
// short, silent or matches nothing within tolerance.
func (d *Decoder) Decode(samples []float64) (Estimate, bool) {
	rep := d.Analyze(context.Background(), samples)
	if rep.Err != nil {
		return Estimate{}, false
	}
	return rep.Estimate, true
}

// Analyze decodes samples and returns per-window diagnostics. Windows are
// analysed in parallel; trailing samples that do not fill a window are
// ignored.
func (d *Decoder) Analyze(ctx context.Context, samples []float64) Report {
	rep := Report{
		WindowSamples: d.windowSamples,
		ToleranceHz:   d.toleranceHz,
	}

	blocks := core.Windows(samples, d.windowSamples)
	if len(blocks) == 0 {
		rep.Err = fmt.Errorf("%w: %d < %d samples", ErrInsufficientData, len(samples), d.windowSamples)
		return rep
	}

	rep.Windows = make([]WindowReport, len(blocks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.workers)

	for i, block := range blocks {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			wr, err := d.analyzeWindow(block)
			if err != nil {
				return fmt.Errorf("timecode: window %d: %w", i, err)
			}
			wr.Index = i
			wr.Offset = i * d.windowSamples
			rep.Windows[i] = wr
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		rep.Err = err
		return rep
	}

	rep.Estimate, rep.Err = aggregate(rep.Windows)
	return rep
}

func (d *Decoder) analyzeWindow(block []float64) (WindowReport, error) {
	wr := WindowReport{Level: timestats.Calculate(block)}
	if wr.Level.RMS < SilenceRMS {
		wr.Silent = true
		return wr, nil
	}

	a, err := d.analyzer()
	if err != nil {
		return wr, err
	}
	mag, err := a.Magnitude(block)
	binHz := a.BinHz()
	d.analyzers.Put(a)
	if err != nil {
		return wr, err
	}

	wr.Peaks = selectPeaks(mag, binHz, d.ceilingHz, noiseFloorRatio*wr.Level.Peak)
	wr.Pulses = d.ticks.count(block)

	best, ok := bestCandidate(d.candidates, wr.Peaks)
	if !ok {
		return wr, nil
	}
	wr.Best = best
	wr.Matched = best.ErrorHz <= 2*d.toleranceHz

	return wr, nil
}

func (d *Decoder) analyzer() (*spectrum.Analyzer, error) {
	if a, ok := d.analyzers.Get().(*spectrum.Analyzer); ok {
		return a, nil
	}
	return d.newAnalyzer()
}

func (d *Decoder) newAnalyzer() (*spectrum.Analyzer, error) {
	a, err := spectrum.NewAnalyzer(d.cfg.proc.SampleRate, d.windowSamples, window.TypeHann, 1)
	if err != nil {
		return nil, fmt.Errorf("timecode: %w", err)
	}
	return a, nil
}

// aggregate combines matched windows by lower median of hour and minute.
func aggregate(windows []WindowReport) (Estimate, error) {
	est := Estimate{Windows: len(windows)}

	var hours, minutes, pulses []int
	errSum := 0.0
	for _, w := range windows {
		if !w.Matched {
			continue
		}
		hours = append(hours, w.Best.Hour)
		minutes = append(minutes, w.Best.Minute)
		errSum += w.Best.ErrorHz
		if w.Pulses > 0 {
			pulses = append(pulses, w.Pulses)
		}
	}

	if len(hours) == 0 {
		return est, fmt.Errorf("%w: 0 of %d windows matched", ErrNoMatch, len(windows))
	}

	est.Matched = len(hours)
	est.Hour, _ = core.MedianInt(hours)
	est.Minute, _ = core.MedianInt(minutes)
	est.Pulses, _ = core.MedianInt(pulses)
	est.ErrorHz = errSum / float64(est.Matched)

	return est, nil
}
