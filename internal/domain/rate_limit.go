package domain

import (
	"context"
	"time"
)

// RateLimitResult is the state of one key after counting a request.
type RateLimitResult struct {
	Count   int
	Limit   int
	Allowed bool
	ResetAt time.Time
}

// Remaining returns how many more requests the window accepts.
func (r RateLimitResult) Remaining() int {
	if r.Count >= r.Limit {
		return 0
	}
	return r.Limit - r.Count
}

// RetryAfter returns the time left in the current window.
func (r RateLimitResult) RetryAfter(now time.Time) time.Duration {
	if d := r.ResetAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// RateLimitStore counts requests per key in a fixed window.
type RateLimitStore interface {
	// Increment counts one request for key at now. A key whose window has
	// elapsed starts a new window.
	Increment(ctx context.Context, key string, now time.Time) (RateLimitResult, error)
}
