// Package anyllm implements llmprovider.Provider (mengram's LLM adapter,
// spec §4.2, §6.1 hosted-API-B) backed by github.com/mozilla-ai/any-llm-go,
// a unified multi-vendor interface covering Anthropic, Gemini, Ollama,
// DeepSeek, Mistral, Groq, llama.cpp and llamafile.
package anyllm

import (
	"context"
	"fmt"
	"strings"

	anyllmlib "github.com/mozilla-ai/any-llm-go"
	"github.com/mozilla-ai/any-llm-go/providers/anthropic"
	"github.com/mozilla-ai/any-llm-go/providers/deepseek"
	"github.com/mozilla-ai/any-llm-go/providers/gemini"
	"github.com/mozilla-ai/any-llm-go/providers/groq"
	"github.com/mozilla-ai/any-llm-go/providers/llamacpp"
	"github.com/mozilla-ai/any-llm-go/providers/llamafile"
	"github.com/mozilla-ai/any-llm-go/providers/mistral"
	"github.com/mozilla-ai/any-llm-go/providers/ollama"
	anyllmoai "github.com/mozilla-ai/any-llm-go/providers/openai"

	"github.com/alibaizhanov/mengram/internal/service/llmprovider"
)

var _ llmprovider.Provider = (*Provider)(nil)

// Provider implements llmprovider.Provider by wrapping any-llm-go.
type Provider struct {
	backend anyllmlib.Provider
	model   string
}

// New creates a Provider backed by the named any-llm-go vendor: one of
// "openai", "anthropic", "gemini", "ollama", "deepseek", "mistral", "groq",
// "llamacpp", "llamafile". Without an explicit API-key option, any-llm-go
// falls back to the vendor's standard environment variable.
func New(providerName, model string, opts ...anyllmlib.Option) (*Provider, error) {
	if providerName == "" {
		return nil, fmt.Errorf("anyllm: providerName must not be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("anyllm: model must not be empty")
	}
	backend, err := createBackend(providerName, opts...)
	if err != nil {
		return nil, fmt.Errorf("anyllm: create %q backend: %w", providerName, err)
	}
	return &Provider{backend: backend, model: model}, nil
}

func createBackend(providerName string, opts ...anyllmlib.Option) (anyllmlib.Provider, error) {
	switch strings.ToLower(providerName) {
	case "openai":
		return anyllmoai.New(opts...)
	case "anthropic":
		return anthropic.New(opts...)
	case "gemini":
		return gemini.New(opts...)
	case "ollama":
		return ollama.New(opts...)
	case "deepseek":
		return deepseek.New(opts...)
	case "mistral":
		return mistral.New(opts...)
	case "groq":
		return groq.New(opts...)
	case "llamacpp":
		return llamacpp.New(opts...)
	case "llamafile":
		return llamafile.New(opts...)
	default:
		return nil, fmt.Errorf("unsupported provider %q", providerName)
	}
}

// Complete implements llmprovider.Provider.
func (p *Provider) Complete(ctx context.Context, prompt, system string, opts llmprovider.Options) (string, error) {
	return p.Chat(ctx, []llmprovider.Message{{Role: llmprovider.RoleUser, Content: prompt}}, system, opts)
}

// Chat implements llmprovider.Provider: one non-streaming completion call.
func (p *Provider) Chat(ctx context.Context, messages []llmprovider.Message, system string, opts llmprovider.Options) (string, error) {
	params := p.buildParams(messages, system, opts)

	resp, err := p.backend.Completion(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anyllm: completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("anyllm: empty choices in response")
	}
	return resp.Choices[0].Message.ContentString(), nil
}

func (p *Provider) buildParams(messages []llmprovider.Message, system string, opts llmprovider.Options) anyllmlib.CompletionParams {
	var anyMessages []anyllmlib.Message
	if system != "" {
		anyMessages = append(anyMessages, anyllmlib.Message{Role: anyllmlib.RoleSystem, Content: system})
	}
	for _, m := range messages {
		role := anyllmlib.RoleUser
		if m.Role == llmprovider.RoleAssistant {
			role = anyllmlib.RoleAssistant
		}
		anyMessages = append(anyMessages, anyllmlib.Message{Role: role, Content: m.Content})
	}

	params := anyllmlib.CompletionParams{
		Model:    p.model,
		Messages: anyMessages,
	}
	if opts.Temperature != 0 {
		t := opts.Temperature
		params.Temperature = &t
	}
	if opts.MaxTokens > 0 {
		mt := opts.MaxTokens
		params.MaxTokens = &mt
	}
	return params
}

// IsAvailable reports whether the backend was constructed successfully.
func (p *Provider) IsAvailable() bool {
	return p.backend != nil
}
