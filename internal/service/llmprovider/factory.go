package llmprovider

import (
	"fmt"
	"strings"

	"github.com/alibaizhanov/mengram/internal/service/llmprovider/anyllm"
	"github.com/alibaizhanov/mengram/internal/service/llmprovider/localhttp"
	"github.com/alibaizhanov/mengram/internal/service/llmprovider/openai"
	"github.com/alibaizhanov/mengram/pkg/config"
	appErrors "github.com/alibaizhanov/mengram/pkg/errors"
)

// NewFromConfig constructs the configured Provider variant (spec §4.2, §6.1)
// and wraps it in an Adapter with the documented retry and circuit-breaker
// policy (spec §5).
func NewFromConfig(cfg config.LLM, failureThreshold float64, minRequests uint32) (*Adapter, error) {
	provider, err := buildProvider(cfg)
	if err != nil {
		return nil, appErrors.NewConfig("build llm provider", err)
	}
	return NewAdapter(provider, failureThreshold, minRequests), nil
}

func buildProvider(cfg config.LLM) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		var opts []openai.Option
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		return openai.New(cfg.APIKey, cfg.Model, opts...)
	case "anyllm":
		// cfg.Model carries "vendor/model" (e.g. "anthropic/claude-3-opus");
		// bare model names default to the "openai" any-llm-go backend.
		vendor, model := "openai", cfg.Model
		if idx := strings.IndexByte(cfg.Model, '/'); idx >= 0 {
			vendor, model = cfg.Model[:idx], cfg.Model[idx+1:]
		}
		return anyllm.New(vendor, model)
	case "local-http":
		return localhttp.New(cfg.BaseURL, cfg.Model, 0)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
