// Package localhttp implements llmprovider.Provider (spec §4.2, §6.1
// local-HTTP variant) against an OpenAI-compatible chat completions
// endpoint served locally (e.g. a llama.cpp or Ollama OpenAI-compat server),
// using only net/http and encoding/json — no vendor SDK.
package localhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alibaizhanov/mengram/internal/service/llmprovider"
)

// DefaultBaseURL is the conventional local OpenAI-compatible server address.
const DefaultBaseURL = "http://127.0.0.1:8080/v1"

var _ llmprovider.Provider = (*Provider)(nil)

// Provider talks to a local OpenAI-compatible /chat/completions endpoint.
type Provider struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// New constructs a Provider against baseURL (DefaultBaseURL if empty).
func New(baseURL, model string, timeout time.Duration) (*Provider, error) {
	if model == "" {
		return nil, fmt.Errorf("localhttp llm: model must not be empty")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")

	client := &http.Client{}
	if timeout > 0 {
		client.Timeout = timeout
	}
	return &Provider{baseURL: baseURL, model: model, httpClient: client}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete implements llmprovider.Provider.
func (p *Provider) Complete(ctx context.Context, prompt, system string, opts llmprovider.Options) (string, error) {
	return p.Chat(ctx, []llmprovider.Message{{Role: llmprovider.RoleUser, Content: prompt}}, system, opts)
}

// Chat implements llmprovider.Provider with a single POST to
// {baseURL}/chat/completions.
func (p *Provider) Chat(ctx context.Context, messages []llmprovider.Message, system string, opts llmprovider.Options) (string, error) {
	req := chatRequest{Model: p.model, Temperature: opts.Temperature, MaxTokens: opts.MaxTokens}
	if system != "" {
		req.Messages = append(req.Messages, chatMessage{Role: "system", Content: system})
	}
	for _, m := range messages {
		role := "user"
		if m.Role == llmprovider.RoleAssistant {
			role = "assistant"
		}
		req.Messages = append(req.Messages, chatMessage{Role: role, Content: m.Content})
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("localhttp llm: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("localhttp llm: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("localhttp llm: request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("localhttp llm: unexpected status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("localhttp llm: decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("localhttp llm: empty choices in response")
	}
	return parsed.Choices[0].Message.Content, nil
}

// IsAvailable reports whether the provider is configured with a model.
func (p *Provider) IsAvailable() bool {
	return p.model != ""
}
