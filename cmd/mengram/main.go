// Command mengram is the composition root for the long-term memory
// service (spec §1, §6): it loads configuration, wires the LLM and
// embedding adapters, the markdown vault, and the per-tenant Brain
// registry, then exposes `remember`/`recall` over stdin as a minimal
// demonstration of the wiring. A REST/HTTP surface and flag-based CLI
// are explicitly out of scope (spec §1 Non-goals); this binary exists to
// prove the dependency graph, not to serve traffic.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/alibaizhanov/mengram/internal/domain/shared"
	"github.com/alibaizhanov/mengram/internal/service/brain"
	"github.com/alibaizhanov/mengram/internal/service/embedding"
	"github.com/alibaizhanov/mengram/internal/service/llmprovider"
	"github.com/alibaizhanov/mengram/internal/service/orchestrator"
	"github.com/alibaizhanov/mengram/internal/service/vault"
	"github.com/alibaizhanov/mengram/pkg/config"
	"github.com/alibaizhanov/mengram/pkg/ratelimit"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file (needed to set llm.model, which has no default)")
	tenant := flag.String("tenant", "local", "tenant/user id to operate as")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	logger.Info("starting mengram",
		zap.String("vault_path", cfg.VaultPath),
		zap.Strings("config_sources", cfg.LoadedFrom),
	)

	llmAdapter, err := llmprovider.NewFromConfig(cfg.LLM, cfg.CircuitBreaker.FailureThreshold, cfg.CircuitBreaker.MinRequests)
	if err != nil {
		logger.Fatal("failed to build llm provider", zap.Error(err))
	}

	embedAdapter, err := embedding.NewFromConfig(cfg.Embeddings, cfg.CircuitBreaker.FailureThreshold, cfg.CircuitBreaker.MinRequests)
	if err != nil {
		logger.Fatal("failed to build embedding provider", zap.Error(err))
	}

	store := vault.New(cfg.VaultPath)
	orch := orchestrator.New(llmAdapter)
	limiter := ratelimit.New(cfg.Extraction.RatePerMinute)

	params := brain.Params{
		TopK:       cfg.Retrieval.TopK,
		MinScore:   cfg.Retrieval.MinScore,
		GraphDepth: cfg.Retrieval.GraphDepth,
		ChunkSize:  cfg.Extraction.ChunkSize,
	}
	registry := brain.NewRegistry(store, orch, embedAdapter, limiter, params)

	userID, err := shared.NewUserID(*tenant)
	if err != nil {
		logger.Fatal("invalid tenant id", zap.Error(err))
	}
	b := registry.Get(userID)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go runREPL(ctx, logger, b, done)

	select {
	case <-stop:
		logger.Info("shutdown signal received")
	case <-done:
		logger.Info("stdin closed")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	cancel()
	<-shutdownCtx.Done()

	logger.Info("mengram stopped")
}

// runREPL reads lines from stdin of the form "remember: <text>" or
// "recall: <query>" and prints the Brain's response, as a minimal
// demonstration harness for the wired dependency graph.
func runREPL(ctx context.Context, logger *zap.Logger, b *brain.Brain, done chan<- struct{}) {
	defer close(done)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "remember:"):
			text := strings.TrimSpace(strings.TrimPrefix(line, "remember:"))
			result, err := b.RememberText(ctx, text)
			if err != nil {
				logger.Error("remember failed", zap.Error(err))
				continue
			}
			fmt.Printf("created=%d updated=%d knowledge=%d\n", result.Created, result.Updated, result.KnowledgeCount)
		case strings.HasPrefix(line, "recall:"):
			query := strings.TrimSpace(strings.TrimPrefix(line, "recall:"))
			assembled, err := b.Recall(ctx, query, 0)
			if err != nil {
				logger.Error("recall failed", zap.Error(err))
				continue
			}
			fmt.Println(assembled)
		default:
			fmt.Println(`expected "remember: <text>" or "recall: <query>"`)
		}
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if level != "" {
		var l zap.AtomicLevel
		if err := l.UnmarshalText([]byte(level)); err == nil {
			cfg.Level = l
		}
	}
	return cfg.Build()
}
