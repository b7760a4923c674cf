// Package mock provides a deterministic test double for llmprovider.Provider.
package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/alibaizhanov/mengram/internal/service/llmprovider"
)

var _ llmprovider.Provider = (*Provider)(nil)

// Provider returns a canned completion for every call and records the
// prompts/messages it was given, in the style of the teacher's MockProvider.
type Provider struct {
	mu sync.Mutex

	CompletionResult string
	CompletionErr    error
	Available        bool

	Calls []string
}

// New creates an available Provider that returns result for every call.
func New(result string) *Provider {
	return &Provider{CompletionResult: result, Available: true}
}

func (p *Provider) Complete(_ context.Context, prompt, _ string, _ llmprovider.Options) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Calls = append(p.Calls, prompt)
	if !p.Available {
		return "", fmt.Errorf("mock: provider not available")
	}
	return p.CompletionResult, p.CompletionErr
}

func (p *Provider) Chat(_ context.Context, messages []llmprovider.Message, _ string, _ llmprovider.Options) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(messages) > 0 {
		p.Calls = append(p.Calls, messages[len(messages)-1].Content)
	}
	if !p.Available {
		return "", fmt.Errorf("mock: provider not available")
	}
	return p.CompletionResult, p.CompletionErr
}

func (p *Provider) IsAvailable() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Available
}
