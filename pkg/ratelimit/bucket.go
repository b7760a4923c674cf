// Package ratelimit implements the token-bucket limiter that gates
// extraction calls (spec §5 Rate limiting): Brain.Remember waits on it
// before each extraction. The embedding adapter does not use it.
//
// No example repo in the retrieval pack imports a rate-limiting library
// (golang.org/x/time/rate included), so this is hand-rolled rather than
// grounded on a teacher dependency; see DESIGN.md.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Bucket is a simple token bucket: it holds at most `capacity` tokens and
// refills continuously at a rate of one token per `refillEvery`.
type Bucket struct {
	mu          sync.Mutex
	tokens      float64
	capacity    float64
	refillEvery time.Duration
	lastRefill  time.Time
}

// New creates a Bucket allowing ratePerMinute requests per minute, bursting
// up to ratePerMinute tokens.
func New(ratePerMinute int) *Bucket {
	if ratePerMinute <= 0 {
		ratePerMinute = 1
	}
	return &Bucket{
		tokens:      float64(ratePerMinute),
		capacity:    float64(ratePerMinute),
		refillEvery: time.Minute / time.Duration(ratePerMinute),
		lastRefill:  time.Now(),
	}
}

func (b *Bucket) refillLocked() {
	now := time.Now()
	elapsed := now.Sub(b.lastRefill)
	if elapsed <= 0 {
		return
	}
	refilled := float64(elapsed) / float64(b.refillEvery)
	b.tokens += refilled
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.lastRefill = now
}

// Wait blocks until a token is available or ctx is cancelled.
func (b *Bucket) Wait(ctx context.Context) error {
	for {
		b.mu.Lock()
		b.refillLocked()
		if b.tokens >= 1 {
			b.tokens--
			b.mu.Unlock()
			return nil
		}
		wait := b.refillEvery
		b.mu.Unlock()

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
