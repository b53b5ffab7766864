package ratelimit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultSweepInterval is the default interval between eviction sweeps.
const DefaultSweepInterval = 5 * time.Minute

// MemoryLimiter keeps per-user admission timestamps in process memory.
// State is lost on restart and not shared across processes.
//
// All window mutations happen under one mutex, so concurrent requests for
// the same user id cannot interleave the read-modify-write of its record.
type MemoryLimiter struct {
	config Config
	now    func() time.Time

	mu      sync.Mutex
	windows map[string][]time.Time

	sweepMu   sync.Mutex
	sweeping  bool
	stopSweep chan struct{}
}

// MemoryOption configures a MemoryLimiter.
type MemoryOption func(*MemoryLimiter)

// WithNow injects the clock. Used by tests.
func WithNow(now func() time.Time) MemoryOption {
	return func(l *MemoryLimiter) {
		l.now = now
	}
}

// NewMemoryLimiter creates an in-process limiter.
func NewMemoryLimiter(config Config, opts ...MemoryOption) *MemoryLimiter {
	l := &MemoryLimiter{
		config:  config.normalized(),
		now:     time.Now,
		windows: make(map[string][]time.Time),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Admit implements Limiter.
func (l *MemoryLimiter) Admit(_ context.Context, userID string) (bool, error) {
	now := l.now()
	windowStart := now.Add(-l.config.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.windows[userID][:0]
	for _, ts := range l.windows[userID] {
		if ts.After(windowStart) {
			kept = append(kept, ts)
		}
	}

	if len(kept) >= l.config.Limit {
		l.windows[userID] = kept
		return false, nil
	}

	l.windows[userID] = append(kept, now)
	return true, nil
}

// StartSweep begins periodic eviction of user keys whose newest admission is
// older than the window, bounding key growth across distinct user ids.
// Non-blocking.
func (l *MemoryLimiter) StartSweep(ctx context.Context, interval time.Duration) {
	l.sweepMu.Lock()
	defer l.sweepMu.Unlock()

	if l.sweeping {
		return
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	l.sweeping = true
	l.stopSweep = make(chan struct{})

	go l.runSweep(ctx, interval)

	slog.Info("rate limiter sweep started", "interval", interval)
}

// StopSweep stops the eviction sweep.
func (l *MemoryLimiter) StopSweep() {
	l.sweepMu.Lock()
	defer l.sweepMu.Unlock()

	if !l.sweeping {
		return
	}
	close(l.stopSweep)
	l.sweeping = false
}

// SweepOnce performs a single eviction pass and returns the number of user
// keys dropped.
func (l *MemoryLimiter) SweepOnce() int {
	windowStart := l.now().Add(-l.config.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	evicted := 0
	for userID, window := range l.windows {
		if len(window) == 0 || !window[len(window)-1].After(windowStart) {
			delete(l.windows, userID)
			evicted++
		}
	}
	return evicted
}

func (l *MemoryLimiter) runSweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if evicted := l.SweepOnce(); evicted > 0 {
				slog.Info("rate limiter sweep completed", "evicted_keys", evicted)
			}
		case <-l.stopSweep:
			return
		case <-ctx.Done():
			return
		}
	}
}
