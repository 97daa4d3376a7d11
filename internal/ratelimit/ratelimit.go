// Package ratelimit provides the in-process sliding-window limiter that
// throttles calls to the external knowledge service.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Config defines configuration for rate limiting
type Config struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of calls allowed in the window
	Limit int
	// RetryDelay is how long Wait pauses when the window is full
	RetryDelay time.Duration
}

// SlidingWindow counts calls over a rolling window. All state is in-process;
// each engine instance enforces its own budget.
type SlidingWindow struct {
	mu     sync.Mutex
	config Config
	calls  []time.Time
	now    func() time.Time
}

// New creates a sliding window limiter with the given config.
func New(config Config) *SlidingWindow {
	if config.RetryDelay <= 0 {
		config.RetryDelay = 2 * time.Second
	}
	return &SlidingWindow{
		config: config,
		now:    time.Now,
	}
}

// NewKnowledgeFetchLimiter creates the limiter for knowledge-service calls
// (10 per sliding minute).
func NewKnowledgeFetchLimiter() *SlidingWindow {
	return New(Config{
		Window:     time.Minute,
		Limit:      10,
		RetryDelay: 2 * time.Second,
	})
}

// Allow records a call if the window has room and reports whether it did.
func (sw *SlidingWindow) Allow() bool {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := sw.now()
	sw.prune(now)
	if len(sw.calls) >= sw.config.Limit {
		return false
	}
	sw.calls = append(sw.calls, now)
	return true
}

// Remaining reports how many calls the window still admits.
func (sw *SlidingWindow) Remaining() int {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	sw.prune(sw.now())
	remaining := sw.config.Limit - len(sw.calls)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Wait pauses for the configured retry delay, returning early if the context
// is done. Callers loop Allow/Wait; a wait never consumes a fetch attempt.
func (sw *SlidingWindow) Wait(ctx context.Context) error {
	timer := time.NewTimer(sw.config.RetryDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// prune drops call records older than the window. Caller holds the lock.
func (sw *SlidingWindow) prune(now time.Time) {
	cutoff := now.Add(-sw.config.Window)
	keep := sw.calls[:0]
	for _, t := range sw.calls {
		if t.After(cutoff) {
			keep = append(keep, t)
		}
	}
	sw.calls = keep
}
