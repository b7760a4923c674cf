// Package retrieval implements the hybrid retriever (spec §4.8): it fuses
// vector top-K matches with graph expansion into ranked entities plus a
// single assembled natural-language context string.
package retrieval

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/alibaizhanov/mengram/internal/service/embedding"
	"github.com/alibaizhanov/mengram/internal/service/graph"
	"github.com/alibaizhanov/mengram/internal/service/vectorindex"
)

// DirectMatch is one vector-search hit (spec §4.8).
type DirectMatch struct {
	EntityName string
	Section    string
	Content    string
	Score      float64
}

// GraphContextEntry is one neighbor pulled in by graph expansion.
type GraphContextEntry struct {
	EntityName   string
	RelationType string
}

// Result is the retriever's output (spec §4.8 `RetrievalResult`).
type Result struct {
	DirectMatches    []DirectMatch
	GraphContext     []GraphContextEntry
	AssembledContext string
}

// Retriever combines a vector index and a knowledge graph for one tenant.
type Retriever struct {
	index    *vectorindex.Index
	graph    *graph.Graph
	embedder embedding.Provider
}

// New creates a Retriever over an already-built index and graph.
func New(index *vectorindex.Index, g *graph.Graph, embedder embedding.Provider) *Retriever {
	return &Retriever{index: index, graph: g, embedder: embedder}
}

// Query implements spec §4.8's algorithm: vector search, then graph
// expansion skipping tag nodes and already-seen IDs, then assembly.
func (r *Retriever) Query(ctx context.Context, text string, topK int, graphDepth int, minScore float64) (Result, error) {
	entries, err := r.index.Search(ctx, text, topK, minScore, r.embedder)
	if err != nil {
		return Result{}, err
	}
	return r.assemble(ctx, entries, graphDepth), nil
}

// GetEntityContext implements the entity-anchored variant (spec §4.8): all
// of the entity's chunks count as direct matches with score 1.0.
func (r *Retriever) GetEntityContext(ctx context.Context, name string, graphDepth int) (Result, error) {
	id, ok := r.graph.FindEntity(name)
	if !ok {
		id = name
	}
	entries, err := r.index.SearchByEntity(ctx, id)
	if err != nil {
		return Result{}, err
	}
	return r.assemble(ctx, entries, graphDepth), nil
}

func (r *Retriever) assemble(_ context.Context, entries []vectorindex.Entry, graphDepth int) Result {
	seen := make(map[string]bool, len(entries))
	var directMatches []DirectMatch
	for _, e := range entries {
		seen[e.EntityID] = true
		directMatches = append(directMatches, DirectMatch{
			EntityName: e.EntityName, Section: e.Section, Content: e.Content, Score: e.Score,
		})
	}

	var graphContext []GraphContextEntry
	for _, match := range directMatches {
		for _, n := range r.graph.GetNeighbors(match.EntityName, graphDepth) {
			if seen[n.Entity] {
				continue
			}
			if r.graph.IsTag(n.Entity) {
				continue
			}
			seen[n.Entity] = true
			graphContext = append(graphContext, GraphContextEntry{EntityName: n.Entity, RelationType: n.RelationType})
		}
	}

	return Result{
		DirectMatches:    directMatches,
		GraphContext:     graphContext,
		AssembledContext: assembleContext(directMatches, graphContext),
	}
}

// assembleContext renders the two headers and their bodies exactly per
// spec §4.8 step 3.
func assembleContext(directMatches []DirectMatch, graphContext []GraphContextEntry) string {
	var b strings.Builder

	b.WriteString("## Relevant fragments from notes\n")
	seenContent := make(map[string]bool)
	for _, m := range directMatches {
		key := m.EntityName + "\x00" + m.Content
		if seenContent[key] {
			continue
		}
		seenContent[key] = true
		fmt.Fprintf(&b, "**%s** (%s) [score: %.2f]:\n%s\n", m.EntityName, m.Section, m.Score, m.Content)
	}

	b.WriteString("\n## Related entities (from knowledge graph)\n")
	grouped := make(map[string][]string)
	var order []string
	for _, g := range graphContext {
		if _, ok := grouped[g.RelationType]; !ok {
			order = append(order, g.RelationType)
		}
		grouped[g.RelationType] = append(grouped[g.RelationType], g.EntityName)
	}
	sort.Strings(order)
	for _, relType := range order {
		fmt.Fprintf(&b, "- **%s**: %s\n", relType, strings.Join(grouped[relType], ", "))
	}

	return b.String()
}
