// Package ratelimit bounds the number of chat requests a single user
// identifier may issue inside a trailing time window. The window state lives
// behind the Limiter interface so the in-process default can be swapped for
// a distributed backend.
package ratelimit

import (
	"context"
	"time"
)

const (
	// DefaultLimit is the number of admissions allowed per window.
	DefaultLimit = 5
	// DefaultWindow is the trailing interval used for admission.
	DefaultWindow = time.Minute
)

// Limiter admits or rejects requests per user identifier.
//
// Admit is all-or-nothing: a rejected attempt is never recorded, so the
// guarantee is at most `limit` admissions per user in any trailing window,
// measured at admission time.
type Limiter interface {
	Admit(ctx context.Context, userID string) (bool, error)
}

// Config holds limiter policy.
type Config struct {
	Limit  int
	Window time.Duration
}

func (c Config) normalized() Config {
	if c.Limit <= 0 {
		c.Limit = DefaultLimit
	}
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	return c
}
