package embedding

import (
	"fmt"

	"github.com/alibaizhanov/mengram/internal/service/embedding/mock"
	"github.com/alibaizhanov/mengram/internal/service/embedding/openai"
	"github.com/alibaizhanov/mengram/pkg/config"
	appErrors "github.com/alibaizhanov/mengram/pkg/errors"
)

// NewFromConfig constructs the configured embedding Provider variant
// (spec §4.1, §6.2) and wraps it in an Adapter with the documented retry
// and circuit-breaker policy.
func NewFromConfig(cfg config.Embeddings, failureThreshold float64, minRequests uint32) (*Adapter, error) {
	provider, err := buildProvider(cfg)
	if err != nil {
		return nil, appErrors.NewConfig("build embedding provider", err)
	}
	return NewAdapter(provider, failureThreshold, minRequests), nil
}

func buildProvider(cfg config.Embeddings) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return openai.New(cfg.APIKey, cfg.Model)
	case "mock":
		dims := cfg.Dimensions
		if dims <= 0 {
			dims = 1536
		}
		return mock.New(dims), nil
	default:
		return nil, fmt.Errorf("unknown embeddings provider %q", cfg.Provider)
	}
}
