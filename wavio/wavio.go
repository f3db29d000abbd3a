package wavio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/cwbudde/algo-soundclock/dsp/core"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAV format tags.
const (
	formatPCM   = 1
	formatFloat = 3
)

var (
	// ErrInvalidWAV reports input that is not a readable RIFF/WAVE container.
	ErrInvalidWAV = errors.New("wavio: invalid wav data")
	// ErrUnsupportedFormat reports a valid container with a sample encoding
	// this package cannot read or write.
	ErrUnsupportedFormat = errors.New("wavio: unsupported sample format")
)

// Format selects the sample encoding written by Encode.
type Format int

const (
	// PCM16 stores samples as round(x*32767), clipped to [-1, 1].
	PCM16 Format = iota
	// Float32 stores samples as 32-bit IEEE floats.
	Float32
)

func (f Format) String() string {
	switch f {
	case PCM16:
		return "pcm16"
	case Float32:
		return "float32"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// Audio is decoded mono audio plus the properties of its source container.
type Audio struct {
	SampleRate int
	Channels   int
	BitDepth   int
	Float      bool
	Samples    []float64
}

// Duration returns the length of the audio in seconds.
func (a Audio) Duration() float64 {
	if a.SampleRate <= 0 {
		return 0
	}
	return float64(len(a.Samples)) / float64(a.SampleRate)
}

// Encode writes samples as a mono WAV file.
func Encode(w io.WriteSeeker, samples []float64, sampleRate int, format Format) error {
	if sampleRate <= 0 {
		return fmt.Errorf("wavio: sample rate must be > 0: %d", sampleRate)
	}

	switch format {
	case PCM16:
		enc := wav.NewEncoder(w, sampleRate, 16, 1, formatPCM)
		buf := &audio.IntBuffer{
			Data:           make([]int, len(samples)),
			Format:         &audio.Format{SampleRate: sampleRate, NumChannels: 1},
			SourceBitDepth: 16,
		}
		for i, x := range samples {
			buf.Data[i] = int(math.Round(clip(x) * math.MaxInt16))
		}
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("wavio: write pcm: %w", err)
		}
		return closeEncoder(enc)

	case Float32:
		enc := wav.NewEncoder(w, sampleRate, 32, 1, formatFloat)
		for _, x := range samples {
			if err := enc.WriteFrame(float32(x)); err != nil {
				return fmt.Errorf("wavio: write float: %w", err)
			}
		}
		return closeEncoder(enc)

	default:
		return fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
}

func closeEncoder(enc *wav.Encoder) error {
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wavio: finalize: %w", err)
	}
	return nil
}

// EncodeBytes is Encode into an in-memory buffer.
func EncodeBytes(samples []float64, sampleRate int, format Format) ([]byte, error) {
	ws := &writeSeeker{}
	if err := Encode(ws, samples, sampleRate, format); err != nil {
		return nil, err
	}
	return ws.buf, nil
}

// Decode reads a WAV stream and returns its samples as mono floats in
// [-1, 1].
func Decode(r io.ReadSeeker) (Audio, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Audio{}, ErrInvalidWAV
	}

	a := Audio{
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
		BitDepth:   int(dec.BitDepth),
		Float:      dec.WavAudioFormat == formatFloat,
	}
	if a.Channels < 1 {
		return Audio{}, fmt.Errorf("%w: %d channels", ErrInvalidWAV, a.Channels)
	}

	toFloat, err := sampleConverter(dec.WavAudioFormat, a.BitDepth)
	if err != nil {
		return Audio{}, err
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Audio{}, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
	}

	a.Samples = downmix(buf.Data, a.Channels, toFloat)
	return a, nil
}

// DecodeBytes is Decode over an in-memory WAV file.
func DecodeBytes(data []byte) (Audio, error) {
	return Decode(bytes.NewReader(data))
}

func sampleConverter(tag uint16, bitDepth int) (func(int) float64, error) {
	switch {
	case tag == formatFloat && bitDepth == 32:
		return func(v int) float64 {
			return float64(math.Float32frombits(uint32(int32(v))))
		}, nil
	case tag != formatPCM:
		return nil, fmt.Errorf("%w: format tag %d, %d bits", ErrUnsupportedFormat, tag, bitDepth)
	case bitDepth == 8:
		// 8-bit PCM is unsigned with a 128 midpoint.
		return func(v int) float64 { return float64(v-128) / 128 }, nil
	case bitDepth == 16, bitDepth == 24, bitDepth == 32:
		scale := float64(int64(1) << (bitDepth - 1))
		return func(v int) float64 { return float64(v) / scale }, nil
	default:
		return nil, fmt.Errorf("%w: %d-bit pcm", ErrUnsupportedFormat, bitDepth)
	}
}

// downmix averages interleaved channels into one.
func downmix(data []int, channels int, toFloat func(int) float64) []float64 {
	frames := len(data) / channels
	out := make([]float64, frames)
	for i := range out {
		sum := 0.0
		for c := range channels {
			sum += toFloat(data[i*channels+c])
		}
		out[i] = sum / float64(channels)
	}
	return out
}

func clip(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return core.Clamp(x, -1, 1)
}
