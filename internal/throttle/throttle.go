// Package throttle bounds the rate of outbound calls to the music metadata
// service. The service terms allow a fixed number of requests per rolling
// window per API account, so every caller in the process shares one limiter.
package throttle

import (
	"context"
	"sync"
	"time"
)

// Defaults track the service's published request allowance.
const (
	DefaultMaxCalls = 1500
	DefaultWindow   = 5 * time.Minute
)

// Limiter admits outbound calls, blocking until one may proceed.
type Limiter interface {
	Acquire(ctx context.Context) error
}

// Window is a sliding-window Limiter: at most maxCalls acquisitions succeed
// within any span of the window length. Acquire blocks callers until a slot
// frees up. Safe for concurrent use.
type Window struct {
	maxCalls int
	window   time.Duration
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error

	mu    sync.Mutex
	calls []time.Time
}

// Option customizes window construction.
type Option func(*Window)

// WithClock overrides the time source. Tests use this to drive the window
// without waiting.
func WithClock(now func() time.Time) Option {
	return func(w *Window) {
		if now != nil {
			w.now = now
		}
	}
}

// WithSleeper overrides the blocking wait between admission checks.
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(w *Window) {
		if sleep != nil {
			w.sleep = sleep
		}
	}
}

// NewWindow builds a limiter admitting maxCalls per window. Nonpositive
// arguments fall back to the service defaults.
func NewWindow(maxCalls int, window time.Duration, opts ...Option) *Window {
	if maxCalls <= 0 {
		maxCalls = DefaultMaxCalls
	}
	if window <= 0 {
		window = DefaultWindow
	}
	w := &Window{
		maxCalls: maxCalls,
		window:   window,
		now:      time.Now,
		sleep:    SleepWithContext,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Acquire claims a call slot, sleeping until the oldest recorded call ages
// out of the window when the limiter is saturated.
func (w *Window) Acquire(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		w.mu.Lock()
		now := w.now()
		w.prune(now)
		if len(w.calls) < w.maxCalls {
			w.calls = append(w.calls, now)
			w.mu.Unlock()
			return nil
		}
		wait := w.calls[0].Add(w.window).Sub(now)
		w.mu.Unlock()

		if err := w.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// prune drops calls that have aged out. Calls are appended in time order, so
// the retained suffix starts at the first entry still inside the window.
func (w *Window) prune(now time.Time) {
	cutoff := now.Add(-w.window)
	keep := 0
	for keep < len(w.calls) && !w.calls[keep].After(cutoff) {
		keep++
	}
	if keep > 0 {
		w.calls = append(w.calls[:0], w.calls[keep:]...)
	}
}

// SleepWithContext blocks for the given duration, returning early if the
// context is cancelled.
func SleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
