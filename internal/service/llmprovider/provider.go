// Package llmprovider defines the LLM adapter contract (spec §4.2, §6.1):
// complete(prompt, system) → text and chat(messages, system) → text over a
// polymorphic provider, wrapped in bounded retry and a circuit breaker.
package llmprovider

import (
	"context"
	"time"

	"github.com/sony/gobreaker"

	appErrors "github.com/alibaizhanov/mengram/pkg/errors"
	"github.com/alibaizhanov/mengram/pkg/retry"
)

// Role is a chat message role (spec §4.7 prompt construction: Role ∈ {User, Assistant}).
type Role string

const (
	RoleUser      Role = "User"
	RoleAssistant Role = "Assistant"
)

// Message is one turn of a conversation fed to Chat.
type Message struct {
	Role    Role
	Content string
}

// Options configures a single completion request. Temperature 0 is
// recommended for extraction (spec §4.2).
type Options struct {
	Temperature float64
	MaxTokens   int
}

// Provider is implemented by each concrete vendor backend (hosted-API-A,
// hosted-API-B, local-HTTP per spec §4.2).
type Provider interface {
	Complete(ctx context.Context, prompt, system string, opts Options) (string, error)
	Chat(ctx context.Context, messages []Message, system string, opts Options) (string, error)
	IsAvailable() bool
}

// Adapter wraps a Provider with the bounded-retry and circuit-breaker policy
// shared by every upstream call (spec §4.2 "fails with LLMError on HTTP
// failure; caller retries", §5 Retry policy: 3 retries, 10s/20s/30s).
type Adapter struct {
	provider Provider
	breaker  *gobreaker.CircuitBreaker
	policy   retry.Policy
}

// NewAdapter wraps provider in the ingestion retry policy and a circuit
// breaker named "llm" (spec §4.2 DOMAIN STACK expansion).
func NewAdapter(provider Provider, failureThreshold float64, minRequests uint32) *Adapter {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "llm",
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
	return &Adapter{provider: provider, breaker: cb, policy: retry.Ingestion()}
}

// Complete performs a single-round-trip text completion with retry+breaker.
func (a *Adapter) Complete(ctx context.Context, prompt, system string, opts Options) (string, error) {
	var out string
	err := retry.Do(ctx, a.policy, func(int) error {
		res, err := a.breaker.Execute(func() (interface{}, error) {
			return a.provider.Complete(ctx, prompt, system, opts)
		})
		if err != nil {
			return err
		}
		out = res.(string)
		return nil
	})
	if err != nil {
		return "", appErrors.NewLLM("completion failed after retries", err)
	}
	return out, nil
}

// Chat performs a single-round-trip chat completion with retry+breaker.
func (a *Adapter) Chat(ctx context.Context, messages []Message, system string, opts Options) (string, error) {
	var out string
	err := retry.Do(ctx, a.policy, func(int) error {
		res, err := a.breaker.Execute(func() (interface{}, error) {
			return a.provider.Chat(ctx, messages, system, opts)
		})
		if err != nil {
			return err
		}
		out = res.(string)
		return nil
	})
	if err != nil {
		return "", appErrors.NewLLM("chat completion failed after retries", err)
	}
	return out, nil
}

// IsAvailable reports whether the underlying provider is usable.
func (a *Adapter) IsAvailable() bool {
	return a.provider != nil && a.provider.IsAvailable()
}
