// Package embedding defines the embedding adapter contract (spec §4.1, §6.2):
// embed(text) → vector and embed_batch(texts) → [vector], returning
// unit-norm vectors of a fixed dimension, wrapped in bounded retry and a
// circuit breaker.
package embedding

import (
	"context"
	"math"
	"time"

	"github.com/sony/gobreaker"

	appErrors "github.com/alibaizhanov/mengram/pkg/errors"
	"github.com/alibaizhanov/mengram/pkg/retry"
)

// Provider is implemented by each concrete embedding backend.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch must preserve input order even if the upstream reorders
	// results (spec §4.1): result[i] corresponds to texts[i].
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
}

// Adapter wraps a Provider with the 2-retry, 1s/2s back-off policy and a
// circuit breaker (spec §4.1, §5), and normalizes every output vector to
// unit length.
type Adapter struct {
	provider Provider
	breaker  *gobreaker.CircuitBreaker
	policy   retry.Policy
}

// NewAdapter wraps provider with a circuit breaker named "embeddings".
func NewAdapter(provider Provider, failureThreshold float64, minRequests uint32) *Adapter {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "embeddings",
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= failureThreshold
		},
	})
	return &Adapter{provider: provider, breaker: cb, policy: retry.Embedding()}
}

// Embed returns a unit-norm embedding for text.
func (a *Adapter) Embed(ctx context.Context, text string) ([]float32, error) {
	var out []float32
	err := retry.Do(ctx, a.policy, func(int) error {
		res, err := a.breaker.Execute(func() (interface{}, error) {
			return a.provider.Embed(ctx, text)
		})
		if err != nil {
			return err
		}
		out = res.([]float32)
		return nil
	})
	if err != nil {
		return nil, appErrors.NewEmbedding("embed failed after retries", err)
	}
	return normalize(out), nil
}

// EmbedBatch returns unit-norm embeddings, order-preserving.
func (a *Adapter) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	var out [][]float32
	err := retry.Do(ctx, a.policy, func(int) error {
		res, err := a.breaker.Execute(func() (interface{}, error) {
			return a.provider.EmbedBatch(ctx, texts)
		})
		if err != nil {
			return err
		}
		out = res.([][]float32)
		return nil
	})
	if err != nil {
		return nil, appErrors.NewEmbedding("embed batch failed after retries", err)
	}
	for i, v := range out {
		out[i] = normalize(v)
	}
	return out, nil
}

// Dimensions returns the fixed dimension of the underlying provider.
func (a *Adapter) Dimensions() int {
	return a.provider.Dimensions()
}

// normalize scales v to unit length (spec §6.2: "the adapter may normalize").
func normalize(v []float32) []float32 {
	var sumSq float64
	for _, x := range v {
		sumSq += float64(x) * float64(x)
	}
	if sumSq == 0 {
		return v
	}
	norm := math.Sqrt(sumSq)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
