package timecode

import (
	"context"
	"fmt"

	"github.com/cwbudde/algo-soundclock/dsp/mix"
	"golang.org/x/sync/errgroup"
)

// Span lists the times from..to inclusive in steps of stepSeconds. A to
// earlier than from wraps past midnight. stepSeconds < 1 means 1; the last
// element is the final step not past to.
func Span(from, to ClockTime, stepSeconds int) []ClockTime {
	if stepSeconds < 1 {
		stepSeconds = 1
	}

	dist := (to.SecondOfDay() - from.SecondOfDay()) % secondsPerDay
	if dist < 0 {
		dist += secondsPerDay
	}

	out := make([]ClockTime, 0, dist/stepSeconds+1)
	for off := 0; off <= dist; off += stepSeconds {
		out = append(out, from.Add(off))
	}
	return out
}

// EncodeRange encodes each time as an independent frame and concatenates the
// frames in input order. The result holds exactly len(times)*FrameLength
// samples. Frames are rendered in parallel.
func (e *Encoder) EncodeRange(ctx context.Context, times []ClockTime) ([]float64, error) {
	frames := make([][]float64, len(times))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.workers)

	for i, t := range times {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			frame, err := e.Encode(t)
			if err != nil {
				return fmt.Errorf("frame %d: %w", i, err)
			}
			frames[i] = frame
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return mix.Concat(frames...), nil
}
