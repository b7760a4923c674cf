// Package openai implements llmprovider.Provider (mengram's LLM adapter,
// spec §4.2, §6.1 hosted-API-A) backed by the OpenAI chat completions API.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"

	"github.com/alibaizhanov/mengram/internal/service/llmprovider"
)

var _ llmprovider.Provider = (*Provider)(nil)

// Provider implements llmprovider.Provider using the OpenAI API.
type Provider struct {
	client oai.Client
	model  string
}

// config holds optional Provider construction settings.
type config struct {
	baseURL string
	timeout time.Duration
}

// Option is a functional option for New.
type Option func(*config)

// WithBaseURL overrides the default OpenAI API base URL (spec §6.1 `base_url?`).
func WithBaseURL(url string) Option {
	return func(c *config) { c.baseURL = url }
}

// WithTimeout sets a per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// New constructs an OpenAI-backed Provider.
func New(apiKey, model string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai llm: apiKey must not be empty")
	}
	if model == "" {
		return nil, fmt.Errorf("openai llm: model must not be empty")
	}

	cfg := &config{}
	for _, o := range opts {
		o(cfg)
	}

	reqOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.timeout > 0 {
		reqOpts = append(reqOpts, option.WithHTTPClient(&http.Client{Timeout: cfg.timeout}))
	}

	return &Provider{client: oai.NewClient(reqOpts...), model: model}, nil
}

// Complete implements llmprovider.Provider: a single user-role completion.
func (p *Provider) Complete(ctx context.Context, prompt, system string, opts llmprovider.Options) (string, error) {
	return p.Chat(ctx, []llmprovider.Message{{Role: llmprovider.RoleUser, Content: prompt}}, system, opts)
}

// Chat implements llmprovider.Provider: a single round-trip chat completion,
// no streaming (spec §4.2).
func (p *Provider) Chat(ctx context.Context, messages []llmprovider.Message, system string, opts llmprovider.Options) (string, error) {
	params := oai.ChatCompletionNewParams{
		Model: shared.ChatModel(p.model),
	}
	if system != "" {
		params.Messages = append(params.Messages, oai.SystemMessage(system))
	}
	for _, m := range messages {
		switch m.Role {
		case llmprovider.RoleAssistant:
			params.Messages = append(params.Messages, oai.AssistantMessage(m.Content))
		default:
			params.Messages = append(params.Messages, oai.UserMessage(m.Content))
		}
	}
	if opts.Temperature != 0 {
		params.Temperature = param.NewOpt(opts.Temperature)
	}
	if opts.MaxTokens > 0 {
		params.MaxCompletionTokens = param.NewOpt(int64(opts.MaxTokens))
	}

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai llm: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai llm: empty choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}

// IsAvailable reports whether the provider was constructed successfully.
func (p *Provider) IsAvailable() bool {
	return p.model != ""
}
