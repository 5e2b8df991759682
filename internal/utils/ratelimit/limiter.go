// Package ratelimit implements token bucket rate limiting for API
// endpoints, with per-client buckets grouped into named categories.
package ratelimit

import (
	"sync"
	"time"
)

// Rate describes one request budget.
type Rate struct {
	// RequestsPerSecond is the sustained refill rate of the bucket.
	RequestsPerSecond float64

	// Burst is the bucket capacity, i.e. how far a client may run ahead
	// of the sustained rate.
	Burst int
}

// Limiter is a token bucket for a single client. Tokens refill at a
// fixed rate and each request consumes one.
type Limiter struct {
	mu         sync.Mutex
	tokens     float64
	capacity   float64
	rate       float64
	lastRefill time.Time
	lastSeen   time.Time
}

// NewLimiter creates a full bucket with the given refill rate and capacity.
func NewLimiter(rate float64, burst int) *Limiter {
	now := time.Now()
	return &Limiter{
		tokens:     float64(burst),
		capacity:   float64(burst),
		rate:       rate,
		lastRefill: now,
		lastSeen:   now,
	}
}

// Allow consumes a token if one is available and reports whether the
// request may proceed.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.tokens += now.Sub(l.lastRefill).Seconds() * l.rate
	if l.tokens > l.capacity {
		l.tokens = l.capacity
	}
	l.lastRefill = now
	l.lastSeen = now

	if l.tokens < 1 {
		return false
	}

	l.tokens--
	return true
}

// idleSince reports how long ago the limiter was last used.
func (l *Limiter) idleSince(now time.Time) time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return now.Sub(l.lastSeen)
}
