package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestAdmitFirstFiveThenReject(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	l := NewMemoryLimiter(Config{}, WithNow(clock.Now))

	for i := 0; i < 5; i++ {
		admitted, err := l.Admit(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, admitted, "request %d should be admitted", i+1)
		clock.Advance(time.Second)
	}

	admitted, err := l.Admit(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, admitted, "6th request within the window must be rejected")
}

func TestRejectedAttemptIsNotRecorded(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	l := NewMemoryLimiter(Config{}, WithNow(clock.Now))

	for i := 0; i < 5; i++ {
		_, err := l.Admit(ctx, "u1")
		require.NoError(t, err)
	}
	// Hammer while blocked; none of these may extend the window.
	for i := 0; i < 10; i++ {
		admitted, err := l.Admit(ctx, "u1")
		require.NoError(t, err)
		assert.False(t, admitted)
		clock.Advance(time.Second)
	}

	// 10s elapsed while blocked. The 5 admissions all happened at t0, so
	// after the window passes from t0 the user is admitted again.
	clock.Advance(51 * time.Second)
	admitted, err := l.Admit(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, admitted, "user must be admitted again once the window from admission time elapses")
}

func TestWindowSlides(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	l := NewMemoryLimiter(Config{}, WithNow(clock.Now))

	// 5 admissions spread over 40s.
	for i := 0; i < 5; i++ {
		admitted, err := l.Admit(ctx, "u1")
		require.NoError(t, err)
		require.True(t, admitted)
		clock.Advance(10 * time.Second)
	}

	// t=50s: the first admission (t=0) is still inside the 60s window.
	admitted, err := l.Admit(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, admitted)

	// t=61s: the first admission has aged out; one slot is free.
	clock.Advance(11 * time.Second)
	admitted, err = l.Admit(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, admitted)
}

func TestUsersAreIndependent(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	l := NewMemoryLimiter(Config{}, WithNow(clock.Now))

	for i := 0; i < 5; i++ {
		_, err := l.Admit(ctx, "u1")
		require.NoError(t, err)
	}
	admitted, err := l.Admit(ctx, "u1")
	require.NoError(t, err)
	require.False(t, admitted)

	admitted, err = l.Admit(ctx, "u2")
	require.NoError(t, err)
	assert.True(t, admitted, "another user id must have its own budget")
}

func TestCustomConfig(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	l := NewMemoryLimiter(Config{Limit: 2, Window: 10 * time.Second}, WithNow(clock.Now))

	for i := 0; i < 2; i++ {
		admitted, err := l.Admit(ctx, "u1")
		require.NoError(t, err)
		require.True(t, admitted)
	}
	admitted, err := l.Admit(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, admitted)

	clock.Advance(11 * time.Second)
	admitted, err = l.Admit(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, admitted)
}

func TestSweepEvictsIdleKeys(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock()
	l := NewMemoryLimiter(Config{}, WithNow(clock.Now))

	_, err := l.Admit(ctx, "idle")
	require.NoError(t, err)
	clock.Advance(2 * time.Minute)
	_, err = l.Admit(ctx, "active")
	require.NoError(t, err)

	evicted := l.SweepOnce()
	assert.Equal(t, 1, evicted)

	l.mu.Lock()
	_, idleExists := l.windows["idle"]
	_, activeExists := l.windows["active"]
	l.mu.Unlock()
	assert.False(t, idleExists)
	assert.True(t, activeExists)

	// Eviction must not grant extra budget within a fresh window.
	for i := 0; i < 4; i++ {
		admitted, err := l.Admit(ctx, "active")
		require.NoError(t, err)
		require.True(t, admitted)
	}
	admitted, err := l.Admit(ctx, "active")
	require.NoError(t, err)
	assert.False(t, admitted)
}

func TestConcurrentAdmissionsSameUser(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLimiter(Config{})

	var wg sync.WaitGroup
	var mu sync.Mutex
	admittedCount := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			admitted, err := l.Admit(ctx, "u1")
			assert.NoError(t, err)
			if admitted {
				mu.Lock()
				admittedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, admittedCount, "exactly the limit must be admitted under contention")
}
