package wavio

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-soundclock/internal/testutil"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

func TestRoundTripPCM16(t *testing.T) {
	in := testutil.DeterministicSine(440, 44100, 0.9, 4410)

	data, err := EncodeBytes(in, 44100, PCM16)
	if err != nil {
		t.Fatalf("EncodeBytes: %v", err)
	}

	got, err := DecodeBytes(data)
	if err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}

	if got.SampleRate != 44100 || got.Channels != 1 || got.BitDepth != 16 || got.Float {
		t.Fatalf("unexpected header: %+v", got)
	}
	if len(got.Samples) != len(in) {
		t.Fatalf("len=%d want=%d", len(got.Samples), len(in))
	}

	diff, err := testutil.MaxAbsDiff(got.Samples, in)
	if err != nil {
		t.Fatal(err)
	}
	if diff > 2.0/32767 {
		t.Fatalf("max diff %g exceeds 16-bit quantisation", diff)
	}
}

func TestRoundTripFloat32(t *testing.T) {
	in := testutil.DeterministicNoise(5, 1, 2048)

	data, err := EncodeBytes(in, 44100, Float32)
	if err != nil {
		t.Fatalf("EncodeBytes: %v", err)
	}

	got, err := DecodeBytes(data)
	if err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}

	if !got.Float || got.BitDepth != 32 {
		t.Fatalf("unexpected header: %+v", got)
	}

	for i := range in {
		if got.Samples[i] != float64(float32(in[i])) {
			t.Fatalf("sample %d: got %v want %v", i, got.Samples[i], float32(in[i]))
		}
	}
}

func TestPCM16Clips(t *testing.T) {
	data, err := EncodeBytes([]float64{1.5, -2, math.NaN(), 0.5}, 8000, PCM16)
	if err != nil {
		t.Fatalf("EncodeBytes: %v", err)
	}

	got, err := DecodeBytes(data)
	if err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}

	want := []float64{32767.0 / 32768, -32767.0 / 32768, 0, 16384.0 / 32768}
	for i := range want {
		if math.Abs(got.Samples[i]-want[i]) > 1e-12 {
			t.Fatalf("sample %d: got %v want %v", i, got.Samples[i], want[i])
		}
	}
}

func TestDecodeStereoDownmix(t *testing.T) {
	ws := &writeSeeker{}
	enc := wav.NewEncoder(ws, 44100, 16, 2, formatPCM)
	buf := &audio.IntBuffer{
		// L/R interleaved.
		Data:           []int{16384, 0, -16384, -16384, 8192, 24576},
		Format:         &audio.Format{SampleRate: 44100, NumChannels: 2},
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := Decode(bytes.NewReader(ws.buf))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got.Channels != 2 {
		t.Fatalf("Channels=%d want 2", got.Channels)
	}

	want := []float64{0.25, -0.5, 0.5}
	if len(got.Samples) != len(want) {
		t.Fatalf("samples=%v want %v", got.Samples, want)
	}
	for i := range want {
		if math.Abs(got.Samples[i]-want[i]) > 1e-12 {
			t.Fatalf("samples=%v want %v", got.Samples, want)
		}
	}
}

func TestDecode24Bit(t *testing.T) {
	ws := &writeSeeker{}
	enc := wav.NewEncoder(ws, 48000, 24, 1, formatPCM)
	buf := &audio.IntBuffer{
		Data:           []int{1 << 22, -(1 << 22), 0},
		Format:         &audio.Format{SampleRate: 48000, NumChannels: 1},
		SourceBitDepth: 24,
	}
	if err := enc.Write(buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	got, err := DecodeBytes(ws.buf)
	if err != nil {
		t.Fatalf("DecodeBytes: %v", err)
	}

	want := []float64{0.5, -0.5, 0}
	for i := range want {
		if math.Abs(got.Samples[i]-want[i]) > 1e-12 {
			t.Fatalf("samples=%v want %v", got.Samples, want)
		}
	}
	if got.Duration() != 3.0/48000 {
		t.Fatalf("Duration=%v", got.Duration())
	}
}

func TestDecodeInvalid(t *testing.T) {
	for _, in := range [][]byte{nil, []byte("not a wav file at all, just text")} {
		if _, err := DecodeBytes(in); !errors.Is(err, ErrInvalidWAV) {
			t.Fatalf("err=%v want ErrInvalidWAV", err)
		}
	}
}

func TestEncodeErrors(t *testing.T) {
	if _, err := EncodeBytes([]float64{0}, 44100, Format(7)); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err=%v want ErrUnsupportedFormat", err)
	}

	if _, err := EncodeBytes([]float64{0}, 0, PCM16); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestSampleConverter(t *testing.T) {
	tests := []struct {
		name    string
		tag     uint16
		bits    int
		in      int
		want    float64
		wantErr bool
	}{
		{name: "u8 mid", tag: formatPCM, bits: 8, in: 128, want: 0},
		{name: "u8 min", tag: formatPCM, bits: 8, in: 0, want: -1},
		{name: "s32", tag: formatPCM, bits: 32, in: 1 << 30, want: 0.5},
		{name: "float", tag: formatFloat, bits: 32, in: int(int32(math.Float32bits(-0.25))), want: -0.25},
		{name: "12 bit", tag: formatPCM, bits: 12, wantErr: true},
		{name: "float64", tag: formatFloat, bits: 64, wantErr: true},
		{name: "alaw", tag: 6, bits: 8, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv, err := sampleConverter(tt.tag, tt.bits)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Fatalf("err=%v want ErrUnsupportedFormat", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := conv(tt.in); got != tt.want {
				t.Fatalf("conv(%d)=%v want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestWriteSeekerPatchesInPlace(t *testing.T) {
	ws := &writeSeeker{}
	_, _ = ws.Write([]byte("abcdef"))
	if _, err := ws.Seek(2, 0); err != nil {
		t.Fatal(err)
	}
	_, _ = ws.Write([]byte("XY"))
	if _, err := ws.Seek(0, 2); err != nil {
		t.Fatal(err)
	}
	_, _ = ws.Write([]byte("!"))

	if string(ws.buf) != "abXYef!" {
		t.Fatalf("buf=%q", ws.buf)
	}

	if _, err := ws.Seek(-10, 1); err == nil {
		t.Fatal("expected error for negative position")
	}
}
