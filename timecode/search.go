package timecode

import (
	"math"

	"github.com/cwbudde/algo-soundclock/dsp/spectrum"
)

const (
	// Extra error charged when the weaker peak is read as the hour tone.
	swapPenaltyHz = 1.0
	// Peaks this close to a multiple of TickHz are ignored.
	tickGuardHz = 25.0
	// Lowest frequency considered by the peak search.
	floorHz = 50.0
	// Headroom above the highest predicted tone.
	ceilingFactor = 1.1
	// A second peak weaker than this fraction of the first is ignored.
	secondPeakRatio = 0.2
	// Peaks below this fraction of the window's sample peak are noise.
	noiseFloorRatio = 1e-3
)

// Candidate is one (hour, minute) hypothesis with its predicted tones.
// ErrorHz is zero until the candidate has been scored.
type Candidate struct {
	Hour     int
	Minute   int
	BaseHz   float64
	HourHz   float64
	MinuteHz float64
	ErrorHz  float64
}

// buildCandidates enumerates the search space in (base, hour, minute) order.
// With freeBase false every hour is paired only with its own instrument base.
func buildCandidates(m MinuteMapping, freeBase bool) []Candidate {
	var out []Candidate
	add := func(base float64, hour int) {
		hourHz := HourFrequency(base, hour)
		for minute := range 60 {
			out = append(out, Candidate{
				Hour:     hour,
				Minute:   minute,
				BaseHz:   base,
				HourHz:   hourHz,
				MinuteHz: MinuteFrequency(m, base, hour, minute),
			})
		}
	}

	if freeBase {
		for _, base := range BaseFrequencies() {
			for h := range 24 {
				add(base, h)
			}
		}
		return out
	}

	for h := range 24 {
		add(LookupInstrument(h).BaseHz, h)
	}
	return out
}

// ceilingFor returns the peak search ceiling for a candidate set.
func ceilingFor(cands []Candidate) float64 {
	hi := 0.0
	for _, c := range cands {
		hi = math.Max(hi, math.Max(c.HourHz, c.MinuteHz))
	}
	return hi * ceilingFactor
}

// score returns the frequency error of c against one or two observed peaks,
// strongest first.
func score(c Candidate, peaks []spectrum.Peak) float64 {
	if len(peaks) == 1 {
		p := peaks[0].Frequency
		return math.Abs(c.HourHz-p) + math.Abs(c.MinuteHz-p)
	}

	p1, p2 := peaks[0].Frequency, peaks[1].Frequency
	direct := math.Abs(c.HourHz-p1) + math.Abs(c.MinuteHz-p2)
	swapped := math.Abs(c.HourHz-p2) + math.Abs(c.MinuteHz-p1) + swapPenaltyHz
	return math.Min(direct, swapped)
}

// bestCandidate scans cands in order and keeps the first with the lowest
// error.
func bestCandidate(cands []Candidate, peaks []spectrum.Peak) (Candidate, bool) {
	if len(peaks) == 0 || len(cands) == 0 {
		return Candidate{}, false
	}

	best := cands[0]
	best.ErrorHz = math.Inf(1)
	for _, c := range cands {
		if e := score(c, peaks); e < best.ErrorHz {
			best = c
			best.ErrorHz = e
		}
	}
	return best, true
}

// selectPeaks keeps the strongest one or two tone peaks between floorHz and
// ceilingHz, skipping tick frequencies and peaks below minMagnitude.
func selectPeaks(mag []float64, binHz, ceilingHz, minMagnitude float64) []spectrum.Peak {
	all := spectrum.FindPeaks(mag, binHz, floorHz, ceilingHz, 0)

	out := make([]spectrum.Peak, 0, 2)
	for _, p := range all {
		if nearTick(p.Frequency) {
			continue
		}
		if p.Magnitude < minMagnitude {
			break
		}
		if len(out) == 1 && p.Magnitude < secondPeakRatio*out[0].Magnitude {
			break
		}
		out = append(out, p)
		if len(out) == 2 {
			break
		}
	}
	return out
}

func nearTick(f float64) bool {
	k := math.Round(f / TickHz)
	return k >= 1 && math.Abs(f-k*TickHz) <= tickGuardHz
}
