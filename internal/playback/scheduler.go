// Package playback runs an encode-and-play cycle once per wall-clock second
// until stopped.
package playback

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Defaults for NewScheduler.
const (
	DefaultInterval    = 100 * time.Millisecond
	DefaultStopTimeout = time.Second
)

// ErrStopTimeout is returned by Stop when the running cycle did not finish
// within the stop timeout. No further cycle starts in that case either.
var ErrStopTimeout = errors.New("playback: stop timed out")

// Cycle is one unit of work, triggered with the wall-clock time that started
// it. It should return promptly once ctx is done.
type Cycle func(ctx context.Context, now time.Time) error

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithInterval sets the polling interval.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithStopTimeout bounds how long Stop waits for the loop to exit.
func WithStopTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.stopTimeout = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger for cycle failures and lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// Scheduler polls the clock and runs its cycle at most once per distinct
// Unix second.
type Scheduler struct {
	cycle       Cycle
	interval    time.Duration
	stopTimeout time.Duration
	now         func() time.Time
	logger      *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(cycle Cycle, opts ...Option) *Scheduler {
	s := &Scheduler{
		cycle:       cycle,
		interval:    DefaultInterval,
		stopTimeout: DefaultStopTimeout,
		now:         time.Now,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Start launches the polling loop. It is a no-op while already running.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.run(ctx, s.done)
	s.logger.Debug("playback started", "interval", s.interval)
}

// Running reports whether Start has been called without a matching Stop.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Stop cancels the loop and waits up to the stop timeout for it to exit.
// Once Stop returns no new cycle begins. Stopping a stopped scheduler is a
// no-op.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if s.cancel == nil {
		s.mu.Unlock()
		return nil
	}
	s.cancel()
	done := s.done
	s.cancel = nil
	s.done = nil
	s.mu.Unlock()

	timer := time.NewTimer(s.stopTimeout)
	defer timer.Stop()

	select {
	case <-done:
		s.logger.Debug("playback stopped")
		return nil
	case <-timer.C:
		s.logger.Warn("playback cycle still running after stop", "timeout", s.stopTimeout)
		return ErrStopTimeout
	}
}

func (s *Scheduler) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	var last int64
	first := true
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		now := s.now()
		sec := now.Unix()
		if !first && sec == last {
			continue
		}
		if !s.begin(ctx) {
			return
		}
		first = false
		last = sec

		if err := s.cycle(ctx, now); err != nil && ctx.Err() == nil {
			s.logger.Warn("playback cycle failed", "time", now.Format(time.TimeOnly), "err", err)
		}
	}
}

// begin reports whether a cycle may start. It shares the lock with Stop, so
// a cancellation observed by Stop is observed here too.
func (s *Scheduler) begin(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ctx.Err() == nil
}
