// Package mock provides a deterministic test double for embedding.Provider.
package mock

import (
	"context"
	"sync"

	"github.com/alibaizhanov/mengram/internal/service/embedding"
)

var _ embedding.Provider = (*Provider)(nil)

// Provider returns pre-canned vectors without a live embedding model and
// records the texts it was given, in the style of the teacher's mocks.
type Provider struct {
	mu sync.Mutex

	EmbedResult      []float32
	EmbedErr         error
	EmbedBatchResult [][]float32
	EmbedBatchErr    error
	DimensionsValue  int

	EmbedCalls      []string
	EmbedBatchCalls [][]string
}

// New creates a Provider with a fixed dimension and deterministic vectors.
// Deterministic means the same text always embeds to the same vector within
// a single Provider instance, derived from a simple hash of the text.
func New(dimensions int) *Provider {
	return &Provider{DimensionsValue: dimensions}
}

// Embed records text and returns a deterministic vector unless EmbedResult or
// EmbedErr is set explicitly.
func (p *Provider) Embed(_ context.Context, text string) ([]float32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.EmbedCalls = append(p.EmbedCalls, text)
	if p.EmbedErr != nil {
		return nil, p.EmbedErr
	}
	if p.EmbedResult != nil {
		return p.EmbedResult, nil
	}
	return deterministicVector(text, p.DimensionsValue), nil
}

// EmbedBatch records texts and returns one deterministic vector per text,
// preserving order, unless EmbedBatchResult or EmbedBatchErr is set.
func (p *Provider) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := make([]string, len(texts))
	copy(cp, texts)
	p.EmbedBatchCalls = append(p.EmbedBatchCalls, cp)
	if p.EmbedBatchErr != nil {
		return nil, p.EmbedBatchErr
	}
	if p.EmbedBatchResult != nil {
		return p.EmbedBatchResult, nil
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = deterministicVector(t, p.DimensionsValue)
	}
	return out, nil
}

// Dimensions implements embedding.Provider.
func (p *Provider) Dimensions() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.DimensionsValue
}

// deterministicVector derives a repeatable vector from text using FNV-1a,
// so tests can assert on embedding similarity without a live model.
func deterministicVector(text string, dims int) []float32 {
	if dims <= 0 {
		dims = 8
	}
	out := make([]float32, dims)
	var h uint32 = 2166136261
	for i := 0; i < len(text); i++ {
		h ^= uint32(text[i])
		h *= 16777619
		out[i%dims] += float32(h%1000) / 1000
	}
	return out
}
