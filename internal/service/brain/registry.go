package brain

import (
	"sync"

	"github.com/alibaizhanov/mengram/internal/domain/shared"
	"github.com/alibaizhanov/mengram/internal/service/embedding"
	"github.com/alibaizhanov/mengram/internal/service/orchestrator"
	"github.com/alibaizhanov/mengram/internal/service/vault"
	"github.com/alibaizhanov/mengram/pkg/ratelimit"
)

// Registry lazily creates and holds one Brain per tenant for the lifetime
// of the process (spec §4.10: "Brain façade registry, one *Brain per
// tenant, lazily created, process-lifetime singleton").
type Registry struct {
	store   *vault.Store
	llm     *orchestrator.Orchestrator
	embed   *embedding.Adapter
	limiter *ratelimit.Bucket
	params  Params

	mu     sync.Mutex
	brains map[string]*Brain
}

// NewRegistry creates a Registry sharing one vault store and one pair of
// LLM/embedding adapters across every tenant's Brain.
func NewRegistry(store *vault.Store, llm *orchestrator.Orchestrator, embed *embedding.Adapter, limiter *ratelimit.Bucket, params Params) *Registry {
	return &Registry{store: store, llm: llm, embed: embed, limiter: limiter, params: params, brains: make(map[string]*Brain)}
}

// Get returns the tenant's Brain, creating it on first access.
func (r *Registry) Get(userID shared.UserID) *Brain {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.brains[userID.String()]; ok {
		return b
	}
	b := New(userID, r.store, r.llm, r.embed, r.limiter, r.params)
	r.brains[userID.String()] = b
	return b
}
