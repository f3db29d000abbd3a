package signal

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-soundclock/dsp/core"
	"github.com/cwbudde/algo-soundclock/internal/testutil"
)

func TestToneLength(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(44100))

	tests := []struct {
		seconds float64
		want    int
	}{
		{seconds: 0.8, want: 35280},
		{seconds: 1.2, want: 52920},
		{seconds: 0.1, want: 4410},
	}

	for _, tt := range tests {
		out, err := g.Tone(440, tt.seconds, ShapeSine)
		if err != nil {
			t.Fatalf("Tone(%v) error = %v", tt.seconds, err)
		}
		if len(out) != tt.want {
			t.Fatalf("Tone(%v) len = %d, want %d", tt.seconds, len(out), tt.want)
		}
	}
}

func TestToneInvalidInput(t *testing.T) {
	g := NewGenerator()

	tests := []struct {
		name  string
		freq  float64
		dur   float64
		shape Shape
	}{
		{name: "zero freq", freq: 0, dur: 1, shape: ShapeSine},
		{name: "negative freq", freq: -10, dur: 1, shape: ShapeSine},
		{name: "nan freq", freq: math.NaN(), dur: 1, shape: ShapeSine},
		{name: "zero duration", freq: 440, dur: 0, shape: ShapeSine},
		{name: "inf duration", freq: 440, dur: math.Inf(1), shape: ShapeSine},
		{name: "sub-sample duration", freq: 440, dur: 1e-9, shape: ShapeSine},
		{name: "bad shape", freq: 440, dur: 1, shape: Shape(42)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := g.Tone(tt.freq, tt.dur, tt.shape)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("Tone() error = %v, want ErrInvalidInput", err)
			}
			if out != nil {
				t.Fatalf("Tone() returned %d samples on error", len(out))
			}
		})
	}
}

func TestToneEnvelopeShape(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(44100))

	for _, shape := range Shapes() {
		t.Run(shape.String(), func(t *testing.T) {
			out, err := g.Tone(220, 0.8, shape)
			if err != nil {
				t.Fatalf("Tone() error = %v", err)
			}
			testutil.RequireFinite(t, out)

			if out[0] != 0 {
				t.Fatalf("first sample = %v, want 0", out[0])
			}
			if last := out[len(out)-1]; last != 0 {
				t.Fatalf("last sample = %v, want 0", last)
			}

			// Right after the attack the envelope is 1, so the output equals
			// the raw oscillator.
			attack := 2205
			dt := 0.8 / float64(len(out))
			raw := Oscillate(shape, 220*float64(attack)*dt)
			if math.Abs(out[attack]-raw) > 1e-12 {
				t.Fatalf("out[%d] = %v, want raw %v", attack, out[attack], raw)
			}

			for i, v := range out {
				if math.Abs(v) > 1 {
					t.Fatalf("out[%d] = %v exceeds unit amplitude", i, v)
				}
			}
		})
	}
}

func TestToneDeterministic(t *testing.T) {
	g := NewGenerator()
	a, err := g.Tone(155.56, 0.8, ShapeTriangle)
	if err != nil {
		t.Fatalf("Tone() error = %v", err)
	}
	b, err := g.Tone(155.56, 0.8, ShapeTriangle)
	if err != nil {
		t.Fatalf("Tone() error = %v", err)
	}

	d, err := testutil.MaxAbsDiff(a, b)
	if err != nil {
		t.Fatalf("MaxAbsDiff error: %v", err)
	}
	if d != 0 {
		t.Fatalf("repeated Tone() differs by %v", d)
	}
}

func TestSineLength(t *testing.T) {
	g := NewGenerator(core.WithSampleRate(48000))
	s, err := g.Sine(1000, 1, 64)
	if err != nil {
		t.Fatalf("Sine() error = %v", err)
	}
	if len(s) != 64 {
		t.Fatalf("len = %d, want 64", len(s))
	}
}

func TestNormalize(t *testing.T) {
	out := Normalize([]float64{-0.5, 2.0, -0.25}, 0)
	if out[1] != 1 {
		t.Fatalf("peak = %v, want 1", out[1])
	}
	if out[0] != -0.25 {
		t.Fatalf("out[0] = %v, want -0.25", out[0])
	}
}

func TestNormalizeSilence(t *testing.T) {
	out := Normalize(make([]float64, 8), 1e-9)
	for i, v := range out {
		if v != 0 {
			t.Fatalf("out[%d] = %v, want 0", i, v)
		}
	}
	if Normalize(nil, 1e-9) != nil {
		t.Fatal("Normalize(nil) should return nil")
	}
}
