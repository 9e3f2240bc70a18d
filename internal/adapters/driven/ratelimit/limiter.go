// Package ratelimit throttles calls to AI providers.
//
// A Limiter combines a token bucket with a back-off window that opens when a
// provider answers 429. EmbeddingService and LLMService wrap any provider
// adapter with a shared Limiter.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultBackoff is how long calls pause after a rate limit response.
const DefaultBackoff = 30 * time.Second

// Config holds rate limiting configuration.
type Config struct {
	// RequestsPerSecond is the sustained rate. Zero or less disables the bucket.
	RequestsPerSecond float64

	// Burst is the maximum burst size (minimum 1).
	Burst int

	// Backoff is the pause after a rate limit response (default: 30s).
	Backoff time.Duration
}

// Limiter is a token bucket with a back-off window.
type Limiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	backoff time.Duration
	retryAt time.Time
	now     func() time.Time
}

// New creates a limiter from cfg.
func New(cfg Config) *Limiter {
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = DefaultBackoff
	}

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Limiter{
		limiter: rate.NewLimiter(limit, cfg.Burst),
		backoff: cfg.Backoff,
		now:     time.Now,
	}
}

// Wait blocks until a call may proceed.
// A pending back-off window is waited out before the token bucket.
func (l *Limiter) Wait(ctx context.Context) error {
	l.mu.Lock()
	wait := l.retryAt.Sub(l.now())
	l.mu.Unlock()

	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return l.limiter.Wait(ctx)
}

// Allow reports whether a call may proceed right now, consuming a token if so.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	blocked := l.now().Before(l.retryAt)
	l.mu.Unlock()

	if blocked {
		return false
	}
	return l.limiter.Allow()
}

// RecordRateLimit opens a back-off window of d, or the configured back-off when d <= 0.
// An existing longer window is kept.
func (l *Limiter) RecordRateLimit(d time.Duration) {
	if d <= 0 {
		d = l.backoff
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if until := l.now().Add(d); until.After(l.retryAt) {
		l.retryAt = until
	}
}

// RetryAt returns the end of the current back-off window (zero if none was recorded).
func (l *Limiter) RetryAt() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.retryAt
}
