// Package retry implements the bounded linear back-off policies used by the
// embedding and LLM adapters (spec §4.1, §5 Retry policy).
package retry

import (
	"context"
	"time"
)

// Policy is a fixed sequence of delays tried between attempts. len(Delays)+1
// is the maximum number of attempts.
type Policy struct {
	Delays []time.Duration
}

// Embedding is the 2-retry, 1s/2s policy used by the embedding adapter.
func Embedding() Policy {
	return Policy{Delays: []time.Duration{1 * time.Second, 2 * time.Second}}
}

// Ingestion is the 3-retry, 10s/20s/30s policy used for extraction-side
// upstream calls.
func Ingestion() Policy {
	return Policy{Delays: []time.Duration{10 * time.Second, 20 * time.Second, 30 * time.Second}}
}

// Do runs fn, retrying on error according to the policy's delays. It stops
// early if ctx is cancelled while waiting between attempts. The last error
// is returned if every attempt fails.
func Do(ctx context.Context, p Policy, fn func(attempt int) error) error {
	var lastErr error
	attempts := len(p.Delays) + 1
	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn(attempt)
		if lastErr == nil {
			return nil
		}
		if attempt == attempts-1 {
			break
		}
		select {
		case <-time.After(p.Delays[attempt]):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
