package timecode

import (
	"context"
	"errors"
	"testing"

	"github.com/cwbudde/algo-soundclock/internal/testutil"
)

func mustDecoder(t *testing.T, opts ...Option) *Decoder {
	t.Helper()

	d, err := NewDecoder(opts...)
	if err != nil {
		t.Fatalf("NewDecoder: %v", err)
	}
	return d
}

func encodeOne(t *testing.T, e *Encoder, ct ClockTime) []float64 {
	t.Helper()

	frame, err := e.Encode(ct)
	if err != nil {
		t.Fatalf("Encode(%v): %v", ct, err)
	}
	return frame
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestRoundTripAcrossInstruments(t *testing.T) {
	e := mustEncoder(t)
	d := mustDecoder(t)

	total, ok := 0, 0
	for _, h := range []int{3, 9, 15, 21} {
		for _, m := range []int{0, 15, 30, 45} {
			ct := ClockTime{Hour: h, Minute: m}
			est, decoded := d.Decode(encodeOne(t, e, ct))
			total++

			if !decoded {
				t.Logf("%v: no decode", ct)
				continue
			}
			if absInt(est.Hour-h) <= 1 && MinuteStep(est.Minute) == MinuteStep(m) {
				ok++
			} else {
				t.Logf("%v decoded as %v", ct, est)
			}
		}
	}

	if ok*10 < total*9 {
		t.Fatalf("round trip: %d/%d within tolerance", ok, total)
	}
}

func TestRoundTripExactOnSampleGrid(t *testing.T) {
	e := mustEncoder(t)
	d := mustDecoder(t)

	for _, ct := range []ClockTime{{3, 15, 0}, {9, 45, 0}, {15, 0, 0}, {21, 30, 0}, {12, 5, 0}} {
		est, ok := d.Decode(encodeOne(t, e, ct))
		if !ok {
			t.Fatalf("%v: no decode", ct)
		}
		if est.Hour != ct.Hour || est.Minute != ct.Minute {
			t.Fatalf("%v decoded as %v", ct, est)
		}
	}
}

func TestDecodeCoincidentTones(t *testing.T) {
	// At 06:30 the hour and minute tones are both 110*2^(6/12) Hz.
	e := mustEncoder(t)
	d := mustDecoder(t)

	rep := d.Analyze(context.Background(), encodeOne(t, e, ClockTime{Hour: 6, Minute: 30}))
	if rep.Err != nil {
		t.Fatalf("Analyze: %v", rep.Err)
	}

	if n := len(rep.Windows[0].Peaks); n != 1 {
		t.Fatalf("got %d peaks, want a single coincident peak", n)
	}

	est := rep.Estimate
	if absInt(est.Hour-6) > 1 {
		t.Fatalf("hour=%d want 6±1", est.Hour)
	}
	if MinuteStep(est.Minute)%12 != 6 {
		t.Fatalf("minute=%d has step %d, want 6", est.Minute, MinuteStep(est.Minute))
	}
}

func TestDecodeSwappedAssignment(t *testing.T) {
	// 03:00 and 00:15 share both tones; only the loudness order differs.
	e := mustEncoder(t)
	d := mustDecoder(t)

	for _, ct := range []ClockTime{{3, 0, 0}, {0, 15, 0}} {
		est, ok := d.Decode(encodeOne(t, e, ct))
		if !ok {
			t.Fatalf("%v: no decode", ct)
		}
		if est.Hour != ct.Hour || est.Minute != ct.Minute {
			t.Fatalf("%v decoded as %v", ct, est)
		}
	}
}

func TestDecodeGracefulFailure(t *testing.T) {
	d := mustDecoder(t)

	tests := []struct {
		name    string
		samples []float64
		wantErr error
	}{
		{name: "empty", samples: nil, wantErr: ErrInsufficientData},
		{name: "short", samples: testutil.DeterministicSine(440, 44100, 1, d.WindowSamples()-1), wantErr: ErrInsufficientData},
		{name: "silence", samples: testutil.Silence(2 * d.WindowSamples()), wantErr: ErrNoMatch},
		{name: "off-grid tone", samples: testutil.DeterministicSine(4000, 44100, 1, d.WindowSamples()), wantErr: ErrNoMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est, ok := d.Decode(tt.samples)
			if ok {
				t.Fatalf("unexpected decode %v", est)
			}
			if est != (Estimate{}) {
				t.Fatalf("failed decode returned %+v", est)
			}

			rep := d.Analyze(context.Background(), tt.samples)
			if !errors.Is(rep.Err, tt.wantErr) {
				t.Fatalf("Err=%v want %v", rep.Err, tt.wantErr)
			}
		})
	}
}

func TestDecodeSilentWindowsReported(t *testing.T) {
	d := mustDecoder(t)

	rep := d.Analyze(context.Background(), testutil.Silence(d.WindowSamples()))
	if len(rep.Windows) != 1 || !rep.Windows[0].Silent {
		t.Fatalf("windows=%+v", rep.Windows)
	}
}

func TestDecodeContinuousMapping(t *testing.T) {
	e := mustEncoder(t, WithMinuteMapping(MinuteContinuous))
	d := mustDecoder(t, WithMinuteMapping(MinuteContinuous))

	for _, ct := range []ClockTime{{15, 30, 0}, {9, 20, 0}, {21, 30, 0}} {
		est, ok := d.Decode(encodeOne(t, e, ct))
		if !ok {
			t.Fatalf("%v: no decode", ct)
		}
		if est.Hour != ct.Hour || absInt(est.Minute-ct.Minute) > 1 {
			t.Fatalf("%v decoded as %v", ct, est)
		}
	}
}

func TestDecodeFreeBaseSearch(t *testing.T) {
	e := mustEncoder(t)
	d := mustDecoder(t, WithFreeBaseSearch())

	if d.Candidates() != 3*24*60 {
		t.Fatalf("Candidates=%d want %d", d.Candidates(), 3*24*60)
	}

	est, ok := d.Decode(encodeOne(t, e, ClockTime{Hour: 9, Minute: 30}))
	if !ok {
		t.Fatal("no decode")
	}
	if est.Hour != 9 || est.Minute != 30 {
		t.Fatalf("decoded %v", est)
	}
}

func TestDecodeWithHarmonics(t *testing.T) {
	e := mustEncoder(t, WithHarmonics(3))
	d := mustDecoder(t)

	est, ok := d.Decode(encodeOne(t, e, ClockTime{Hour: 15, Minute: 45}))
	if !ok {
		t.Fatal("no decode")
	}
	if est.Hour != 15 || est.Minute != 45 {
		t.Fatalf("decoded %v", est)
	}
}

func TestDecodePulses(t *testing.T) {
	e := mustEncoder(t)
	d := mustDecoder(t)

	for second := range 6 {
		ct := ClockTime{Hour: 9, Minute: 15, Second: second}
		est, ok := d.Decode(encodeOne(t, e, ct))
		if !ok {
			t.Fatalf("%v: no decode", ct)
		}
		if est.Pulses != Pulses(second) {
			t.Fatalf("%v: Pulses=%d want %d", ct, est.Pulses, Pulses(second))
		}
	}
}

func TestDecoderTolerance(t *testing.T) {
	if d := mustDecoder(t); d.ToleranceHz() != DefaultToleranceHz {
		t.Fatalf("ToleranceHz=%v want %v", d.ToleranceHz(), DefaultToleranceHz)
	}

	// Never below 4 * 44100/35280 = 5 Hz.
	if d := mustDecoder(t, WithToleranceHz(1)); d.ToleranceHz() != 5 {
		t.Fatalf("ToleranceHz=%v want 5", d.ToleranceHz())
	}

	if d := mustDecoder(t); d.CeilingHz() > 650 || d.CeilingHz() < 640 {
		t.Fatalf("CeilingHz=%v, want ~646", d.CeilingHz())
	}
}

func TestAnalyzeHonoursCancellation(t *testing.T) {
	e := mustEncoder(t)
	d := mustDecoder(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep := d.Analyze(ctx, encodeOne(t, e, ClockTime{Hour: 9}))
	if !errors.Is(rep.Err, context.Canceled) {
		t.Fatalf("Err=%v want context.Canceled", rep.Err)
	}
}

func TestDecoderConcurrentUse(t *testing.T) {
	e := mustEncoder(t)
	d := mustDecoder(t, WithConcurrency(2))
	frame := encodeOne(t, e, ClockTime{Hour: 21, Minute: 45})

	done := make(chan Estimate, 4)
	for range 4 {
		go func() {
			est, _ := d.Decode(frame)
			done <- est
		}()
	}

	for range 4 {
		if est := <-done; est.Hour != 21 || est.Minute != 45 {
			t.Fatalf("decoded %v", est)
		}
	}
}

func BenchmarkDecode(b *testing.B) {
	e, _ := NewEncoder()
	d, _ := NewDecoder()
	frame, _ := e.Encode(ClockTime{Hour: 15, Minute: 15})

	b.ReportAllocs()
	for b.Loop() {
		d.Decode(frame)
	}
}
