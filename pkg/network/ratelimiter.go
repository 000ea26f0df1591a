package network

import (
	"context"
	"sync"
	"time"
)

// RateLimiter implements token bucket algorithm for rate limiting
type RateLimiter struct {
	rate       float64    // requests per second
	tokens     float64    // current tokens
	maxTokens  float64    // max tokens (burst size)
	lastUpdate time.Time  // last token update time
	mu         sync.Mutex // mutex for thread safety
}

// NewRateLimiter creates a new rate limiter
// rate: requests per second (0 = unlimited)
func NewRateLimiter(rate float64) *RateLimiter {
	if rate <= 0 {
		return nil // No rate limiting
	}

	burst := rate
	if burst < 1 {
		burst = 1
	}

	return &RateLimiter{
		rate:       rate,
		tokens:     burst,
		maxTokens:  burst,
		lastUpdate: time.Now(),
	}
}

// Wait blocks until a token is available or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl == nil {
		return nil
	}

	rl.mu.Lock()
	now := time.Now()
	rl.tokens += now.Sub(rl.lastUpdate).Seconds() * rl.rate
	if rl.tokens > rl.maxTokens {
		rl.tokens = rl.maxTokens
	}
	rl.lastUpdate = now

	if rl.tokens >= 1 {
		rl.tokens--
		rl.mu.Unlock()
		return nil
	}

	// Reserve the next token now so concurrent waiters queue up behind us
	waitTime := time.Duration((1 - rl.tokens) / rl.rate * float64(time.Second))
	rl.tokens--
	rl.mu.Unlock()

	timer := time.NewTimer(waitTime)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		rl.mu.Lock()
		rl.tokens++
		rl.mu.Unlock()
		return ctx.Err()
	}
}
