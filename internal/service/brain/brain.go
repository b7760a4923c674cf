// Package brain implements the Brain façade (spec §4.9, §4.10): the
// per-tenant object that coordinates the vault store, LLM and embedding
// adapters, and the lazily-rebuilt derived graph and vector views, behind
// `remember`, `recall`, `search`, `profile` and `stats`.
package brain

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/alibaizhanov/mengram/internal/domain/entity"
	"github.com/alibaizhanov/mengram/internal/domain/shared"
	"github.com/alibaizhanov/mengram/internal/service/embedding"
	"github.com/alibaizhanov/mengram/internal/service/graph"
	"github.com/alibaizhanov/mengram/internal/service/llmprovider"
	"github.com/alibaizhanov/mengram/internal/service/markdown"
	"github.com/alibaizhanov/mengram/internal/service/orchestrator"
	"github.com/alibaizhanov/mengram/internal/service/retrieval"
	"github.com/alibaizhanov/mengram/internal/service/vault"
	"github.com/alibaizhanov/mengram/internal/service/vectorindex"
	"github.com/alibaizhanov/mengram/pkg/ratelimit"
)

// Params configures retrieval defaults for a Brain (spec §6.4).
type Params struct {
	TopK       int
	MinScore   float64
	GraphDepth int
	ChunkSize  int
}

// DefaultParams returns the documented defaults (spec §6.4).
func DefaultParams() Params {
	return Params{TopK: 5, MinScore: 0.15, GraphDepth: 1, ChunkSize: markdown.DefaultChunkSize}
}

// RememberResult reports what a `remember` call did (spec §4.9).
type RememberResult struct {
	Created        int
	Updated        int
	KnowledgeCount int
	Warnings       []string // non-fatal extraction parse warnings
}

// SearchRow is one row of a `search` call, joining a vector hit with the
// entity's type, facts and relations (spec §4.9). Search does not fill
// Knowledge; it is always empty.
type SearchRow struct {
	Entity    string
	Type      string
	Score     float64
	Facts     []string
	Relations []string
	Knowledge []string
}

// Stats is the tenant's aggregate counts (spec §4.4, §4.5, and chunk total).
type Stats struct {
	EntityCount   int
	RelationCount int
	ChunkCount    int
}

// Brain coordinates one tenant's vault, adapters, and cached derived views.
type Brain struct {
	userID  shared.UserID
	vault   *vault.Store
	llm     *orchestrator.Orchestrator
	embed   *embedding.Adapter
	limiter *ratelimit.Bucket
	params  Params

	mu               sync.Mutex
	cachedGeneration uint64
	cachedGraph      *graph.Graph
	cachedIndex      *vectorindex.Index
	sf               singleflight.Group
}

// New creates a Brain for one tenant.
func New(userID shared.UserID, store *vault.Store, llm *orchestrator.Orchestrator, embed *embedding.Adapter, limiter *ratelimit.Bucket, params Params) *Brain {
	return &Brain{userID: userID, vault: store, llm: llm, embed: embed, limiter: limiter, params: params}
}

// Remember builds the existing-context summary, runs the extraction
// orchestrator, feeds the result to the vault, and invalidates caches
// (spec §4.9 `remember`).
func (b *Brain) Remember(ctx context.Context, messages []llmprovider.Message) (RememberResult, error) {
	if b.limiter != nil {
		if err := b.limiter.Wait(ctx); err != nil {
			return RememberResult{}, err
		}
	}

	existing, err := b.existingContextSummary()
	if err != nil {
		return RememberResult{}, err
	}

	result, err := b.llm.Extract(ctx, messages, existing)
	if err != nil {
		return RememberResult{}, err
	}

	processed, err := b.vault.ProcessExtraction(b.userID, result)
	if err != nil {
		return RememberResult{}, err
	}

	return RememberResult{Created: processed.Created, Updated: processed.Updated, KnowledgeCount: len(result.Knowledge), Warnings: result.Warnings}, nil
}

// RememberText wraps a single user message and calls Remember (spec §4.9
// `remember_text`).
func (b *Brain) RememberText(ctx context.Context, text string) (RememberResult, error) {
	return b.Remember(ctx, []llmprovider.Message{{Role: llmprovider.RoleUser, Content: text}})
}

// Recall returns the assembled natural-language context from the hybrid
// retriever (spec §4.9 `recall`).
func (b *Brain) Recall(ctx context.Context, q string, topK int) (string, error) {
	if topK <= 0 {
		topK = b.params.TopK
	}
	retriever, err := b.retriever(ctx)
	if err != nil {
		return "", err
	}
	result, err := retriever.Query(ctx, q, topK, b.params.GraphDepth, b.params.MinScore)
	if err != nil {
		return "", err
	}
	return result.AssembledContext, nil
}

// Search returns a structured list of rows joining top-K vector results
// with each entity's type, facts and relations (spec §4.9 `search`);
// knowledge entries are not included.
func (b *Brain) Search(ctx context.Context, q string, topK int) ([]SearchRow, error) {
	if topK <= 0 {
		topK = b.params.TopK
	}
	retriever, err := b.retriever(ctx)
	if err != nil {
		return nil, err
	}
	result, err := retriever.Query(ctx, q, topK, b.params.GraphDepth, b.params.MinScore)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var rows []SearchRow
	for _, m := range result.DirectMatches {
		if seen[m.EntityName] {
			continue
		}
		seen[m.EntityName] = true

		e, err := b.vault.GetEntityData(b.userID, m.EntityName)
		if err != nil {
			continue
		}
		rows = append(rows, SearchRow{
			Entity:    m.EntityName,
			Type:      string(e.Type),
			Score:     m.Score,
			Facts:     factContents(e),
			Relations: relationDescriptions(e),
		})
	}
	return rows, nil
}

// GetStats returns entity, relation and chunk counts (spec §4.9 `get_stats`).
func (b *Brain) GetStats(ctx context.Context) (Stats, error) {
	g, idx, err := b.ensureViews(ctx)
	if err != nil {
		return Stats{}, err
	}
	gs := g.Stats()
	chunkTotal := 0
	names, err := b.vault.ListNotes(b.userID)
	if err == nil {
		for _, name := range names {
			entries, err := idx.SearchByEntity(ctx, name)
			if err == nil {
				chunkTotal += len(entries)
			}
		}
	}
	return Stats{EntityCount: gs.EntityCount, RelationCount: gs.RelationCount, ChunkCount: chunkTotal}, nil
}

// GetProfile returns a coarse summary of the tenant's entities by type
// (spec §4.9 `get_profile`).
func (b *Brain) GetProfile(ctx context.Context) (map[string]int, error) {
	names, err := b.vault.ListNotes(b.userID)
	if err != nil {
		return nil, err
	}
	profile := make(map[string]int)
	for _, name := range names {
		e, err := b.vault.GetEntityData(b.userID, name)
		if err != nil {
			continue
		}
		profile[string(e.Type)]++
	}
	return profile, nil
}

// GetRecentKnowledge returns up to limit entity names that carry the most
// recently updated notes (spec §4.9 `get_recent_knowledge`).
func (b *Brain) GetRecentKnowledge(ctx context.Context, limit int) ([]string, error) {
	names, err := b.vault.ListNotes(b.userID)
	if err != nil {
		return nil, err
	}
	type named struct {
		name string
		e    *entity.Entity
	}
	var all []named
	for _, name := range names {
		e, err := b.vault.GetEntityData(b.userID, name)
		if err != nil {
			continue
		}
		all = append(all, named{name: name, e: e})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].e.UpdatedAt.After(all[j].e.UpdatedAt) })
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	out := make([]string, len(all))
	for i, n := range all {
		out[i] = n.name
	}
	return out, nil
}

func (b *Brain) retriever(ctx context.Context) (*retrieval.Retriever, error) {
	g, idx, err := b.ensureViews(ctx)
	if err != nil {
		return nil, err
	}
	return retrieval.New(idx, g, b.embed), nil
}

// ensureViews rebuilds the cached graph and vector index if the vault's
// invalidation generation has moved past what is cached, collapsing
// concurrent rebuilds for the same tenant via singleflight (spec §5: "an
// exclusive lock also covers the rebuild of a derived view so two
// concurrent readers... do not double-build").
func (b *Brain) ensureViews(ctx context.Context) (*graph.Graph, *vectorindex.Index, error) {
	currentGen := b.vault.Generation(b.userID)

	b.mu.Lock()
	if b.cachedGraph != nil && b.cachedIndex != nil && b.cachedGeneration == currentGen {
		g, idx := b.cachedGraph, b.cachedIndex
		b.mu.Unlock()
		return g, idx, nil
	}
	b.mu.Unlock()

	key := fmt.Sprintf("%s:%d", b.userID.String(), currentGen)
	result, err, _ := b.sf.Do(key, func() (interface{}, error) {
		g, idx, err := b.rebuildViews(ctx)
		if err != nil {
			return nil, err
		}
		b.mu.Lock()
		if old := b.cachedIndex; old != nil {
			old.Close()
		}
		b.cachedGraph, b.cachedIndex, b.cachedGeneration = g, idx, currentGen
		b.mu.Unlock()
		return [2]interface{}{g, idx}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	pair := result.([2]interface{})
	return pair[0].(*graph.Graph), pair[1].(*vectorindex.Index), nil
}

// rebuildViews reads every note, builds the graph, and chunks+embeds every
// note's body for the vector index. Note reads and chunking run in parallel
// across notes to overlap filesystem I/O (spec §5 suspension points).
func (b *Brain) rebuildViews(ctx context.Context) (*graph.Graph, *vectorindex.Index, error) {
	names, err := b.vault.ListNotes(b.userID)
	if err != nil {
		return nil, nil, err
	}

	sources := make([]vectorindex.ChunkSource, len(names))
	group, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		i, name := i, name
		group.Go(func() error {
			_ = gctx
			note, err := b.vault.ReadNote(b.userID, name)
			if err != nil {
				return err
			}
			sources[i] = vectorindex.ChunkSource{EntityName: name, Chunks: markdown.Chunks(note, b.params.ChunkSize)}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	g, err := graph.Build(b.vault, b.userID)
	if err != nil {
		return nil, nil, err
	}

	idx, err := vectorindex.Build(ctx, sources, b.embed)
	if err != nil {
		return nil, nil, err
	}

	return g, idx, nil
}

func (b *Brain) existingContextSummary() ([]orchestrator.ExistingEntitySummary, error) {
	names, err := b.vault.ListNotes(b.userID)
	if err != nil {
		return nil, err
	}
	const maxFactsPerEntity = 3
	summaries := make([]orchestrator.ExistingEntitySummary, 0, len(names))
	for _, name := range names {
		e, err := b.vault.GetEntityData(b.userID, name)
		if err != nil {
			continue
		}
		facts := factContents(e)
		if len(facts) > maxFactsPerEntity {
			facts = facts[:maxFactsPerEntity]
		}
		summaries = append(summaries, orchestrator.ExistingEntitySummary{Name: name, Facts: facts})
	}
	return summaries, nil
}

func factContents(e *entity.Entity) []string {
	out := make([]string, len(e.Facts))
	for i, f := range e.Facts {
		out[i] = f.Content
	}
	return out
}

func relationDescriptions(e *entity.Entity) []string {
	out := make([]string, len(e.Relations))
	for i, r := range e.Relations {
		out[i] = string(r.Type) + " -> " + r.Target.String()
	}
	return out
}
