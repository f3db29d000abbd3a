// Package speaker plays mono float sample slices on the default audio
// device.
package speaker

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/cwbudde/algo-soundclock/dsp/core"
	"github.com/hajimehoshi/oto/v2"
)

const pollInterval = 10 * time.Millisecond

// Speaker owns one oto context. Only one context may exist per process, so
// create a single Speaker and share it.
type Speaker struct {
	ctx   *oto.Context
	ready chan struct{}
	mu    sync.Mutex
}

// New opens the default output device for mono float32 audio.
func New(sampleRate int) (*Speaker, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("speaker: sample rate must be > 0: %d", sampleRate)
	}

	ctx, ready, err := oto.NewContext(sampleRate, 1, oto.FormatFloat32LE)
	if err != nil {
		return nil, fmt.Errorf("speaker: open device: %w", err)
	}
	return &Speaker{ctx: ctx, ready: ready}, nil
}

// Play blocks until samples have been played or ctx is done. Calls are
// serialised.
func (s *Speaker) Play(ctx context.Context, samples []float64) error {
	select {
	case <-s.ready:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	player := s.ctx.NewPlayer(bytes.NewReader(Float32LE(samples)))
	defer player.Close()
	player.Play()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			player.Pause()
			return ctx.Err()
		case <-ticker.C:
		}
	}

	if err := player.Err(); err != nil {
		return fmt.Errorf("speaker: %w", err)
	}
	return nil
}

// Float32LE packs samples, clipped to [-1, 1], as little-endian float32.
func Float32LE(samples []float64) []byte {
	out := make([]byte, 4*len(samples))
	for i, x := range samples {
		v := float32(core.Clamp(x, -1, 1))
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(v))
	}
	return out
}
