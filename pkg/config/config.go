// Package config provides configuration management for mengram.
//
// Configuration is a typed struct validated with struct tags
// (github.com/go-playground/validator/v10) and loadable from YAML
// (gopkg.in/yaml.v3), overlaid by environment variables, matching the
// recognized options of spec.md §6.4.
package config

import (
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
)

// Config is the complete application configuration.
type Config struct {
	VaultPath  string     `yaml:"vault_path" json:"vault_path" validate:"required"`
	LLM        LLM        `yaml:"llm" json:"llm" validate:"required"`
	Embeddings Embeddings `yaml:"embeddings" json:"embeddings" validate:"required"`
	Retrieval  Retrieval  `yaml:"retrieval" json:"retrieval"`
	Extraction Extraction `yaml:"extraction" json:"extraction"`
	Logging    Logging    `yaml:"logging" json:"logging"`
	Retry      Retry      `yaml:"retry" json:"retry"`
	CircuitBreaker CircuitBreaker `yaml:"circuit_breaker" json:"circuit_breaker"`

	LoadedFrom []string `yaml:"-" json:"-"`
}

// LLM configures the LLM adapter provider (spec §6.1).
type LLM struct {
	Provider string `yaml:"provider" json:"provider" validate:"required,oneof=openai anyllm local-http"`
	APIKey   string `yaml:"api_key" json:"api_key"`
	Model    string `yaml:"model" json:"model" validate:"required"`
	BaseURL  string `yaml:"base_url" json:"base_url"`
}

// Embeddings configures the embedding adapter provider (spec §6.2).
type Embeddings struct {
	Provider   string `yaml:"provider" json:"provider" validate:"required,oneof=openai mock"`
	APIKey     string `yaml:"api_key" json:"api_key"`
	Model      string `yaml:"model" json:"model"`
	Dimensions int    `yaml:"dimensions" json:"dimensions" validate:"omitempty,gt=0"`
}

// Retrieval configures the hybrid retriever's default parameters.
type Retrieval struct {
	TopK       int     `yaml:"top_k" json:"top_k" validate:"gt=0"`
	MinScore   float64 `yaml:"min_score" json:"min_score" validate:"gte=0,lte=1"`
	GraphDepth int     `yaml:"graph_depth" json:"graph_depth" validate:"gt=0"`
}

// Extraction configures the extraction orchestrator.
type Extraction struct {
	ChunkSize     int `yaml:"chunk_size" json:"chunk_size" validate:"gt=0"`
	RatePerMinute int `yaml:"rate_per_minute" json:"rate_per_minute" validate:"gt=0"`
}

// Logging configures the ambient zap logger.
type Logging struct {
	Level string `yaml:"level" json:"level" validate:"omitempty,oneof=debug info warn error"`
}

// Retry holds upstream retry back-off settings. The adapters do not read
// them: they use the fixed policies of pkg/retry (spec §5 Retry policy).
type Retry struct {
	IngestionDelaysSeconds []int `yaml:"ingestion_delays_seconds" json:"ingestion_delays_seconds"`
	EmbeddingDelaysSeconds []int `yaml:"embedding_delays_seconds" json:"embedding_delays_seconds"`
}

// CircuitBreaker configures the gobreaker wrapping outbound adapter calls.
type CircuitBreaker struct {
	FailureThreshold float64 `yaml:"failure_threshold" json:"failure_threshold" validate:"gte=0,lte=1"`
	MinRequests      uint32  `yaml:"min_requests" json:"min_requests"`
}

// Default returns a Config populated with spec.md §6.4's documented defaults.
func Default() Config {
	return Config{
		VaultPath: "./vault",
		LLM: LLM{
			Provider: "openai",
		},
		Embeddings: Embeddings{
			Provider:   "openai",
			Dimensions: 1536,
		},
		Retrieval: Retrieval{
			TopK:       5,
			MinScore:   0.15,
			GraphDepth: 1,
		},
		Extraction: Extraction{
			ChunkSize:     500,
			RatePerMinute: 100,
		},
		Logging: Logging{Level: "info"},
		Retry: Retry{
			IngestionDelaysSeconds: []int{10, 20, 30},
			EmbeddingDelaysSeconds: []int{1, 2},
		},
		CircuitBreaker: CircuitBreaker{
			FailureThreshold: 0.6,
			MinRequests:      3,
		},
	}
}

var validate = validator.New()

// Validate checks the configuration against its struct-tag rules.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// applyEnv overlays a small set of environment variables, mirroring the
// teacher's highest-priority environment-variable overlay.
func (c *Config) applyEnv() {
	if v := os.Getenv("MENGRAM_VAULT_PATH"); v != "" {
		c.VaultPath = v
	}
	if v := os.Getenv("MENGRAM_LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("MENGRAM_EMBEDDINGS_API_KEY"); v != "" {
		c.Embeddings.APIKey = v
	}
	if v := os.Getenv("MENGRAM_RETRIEVAL_TOP_K"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Retrieval.TopK = n
		}
	}
}

