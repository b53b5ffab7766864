// Package middleware carries HTTP middleware shared by every route. The
// per-user chat quota lives in server/ratelimit; this package only guards
// the server as a whole against a single client flooding it.
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const (
	// DefaultRequestsPerSecond is deliberately generous. The guard exists
	// to shed floods, not to meter normal traffic.
	DefaultRequestsPerSecond = 25
	// DefaultBurst absorbs page loads that fire several requests at once.
	DefaultBurst = 50

	// idleTTL is how long an address may stay quiet before its bucket is
	// dropped.
	idleTTL = 10 * time.Minute
)

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ThroughputGuard applies a token-bucket limit per remote address across
// all routes.
type ThroughputGuard struct {
	mu      sync.Mutex
	buckets map[string]*clientBucket

	perSecond rate.Limit
	burst     int
}

// NewThroughputGuard creates a guard with the default flood thresholds.
func NewThroughputGuard() *ThroughputGuard {
	return &ThroughputGuard{
		buckets:   make(map[string]*clientBucket),
		perSecond: rate.Limit(DefaultRequestsPerSecond),
		burst:     DefaultBurst,
	}
}

func (g *ThroughputGuard) bucket(addr string) *rate.Limiter {
	g.mu.Lock()
	defer g.mu.Unlock()

	if b, ok := g.buckets[addr]; ok {
		b.lastSeen = time.Now()
		return b.limiter
	}
	b := &clientBucket{
		limiter:  rate.NewLimiter(g.perSecond, g.burst),
		lastSeen: time.Now(),
	}
	g.buckets[addr] = b
	return b.limiter
}

// Allow reports whether a request from addr may proceed.
func (g *ThroughputGuard) Allow(addr string) bool {
	return g.bucket(addr).Allow()
}

// Evict drops buckets that have been idle past the TTL and returns how
// many were removed.
func (g *ThroughputGuard) Evict() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	cutoff := time.Now().Add(-idleTTL)
	evicted := 0
	for addr, b := range g.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(g.buckets, addr)
			evicted++
		}
	}
	return evicted
}

// Middleware returns the echo middleware enforcing the guard.
func (g *ThroughputGuard) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !g.Allow(c.RealIP()) {
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error": "Rate limit exceeded. Please try again later.",
				})
			}
			return next(c)
		}
	}
}
