// Package graph implements the derived knowledge graph (spec §4.5): an
// in-memory typed graph built by parsing the vault, supporting lookup by
// name, bounded-depth neighbor expansion, and subgraph extraction.
package graph

import (
	"strings"

	"github.com/alibaizhanov/mengram/internal/domain/entity"
	"github.com/alibaizhanov/mengram/internal/domain/shared"
	"github.com/alibaizhanov/mengram/internal/service/markdown"
)

// NodeKind distinguishes real entity nodes from auxiliary tag nodes
// (spec §4.5: "Tag names become auxiliary nodes of type tag").
type NodeKind string

const (
	NodeKindEntity NodeKind = "entity"
	NodeKindTag    NodeKind = "tag"
)

// Node is one vertex of the graph.
type Node struct {
	ID         string // canonical entity name, or tag name for tag nodes
	Kind       NodeKind
	EntityType entity.Type // zero value for tag nodes
}

// Edge is one directed, typed connection between two nodes.
type Edge struct {
	To           string
	RelationType string
}

// Neighbor is one result row of GetNeighbors (spec §4.5).
type Neighbor struct {
	Entity       string
	RelationType string
	Direction    string // "outgoing" or "incoming"
}

// Stats summarizes the graph (spec §4.5 `stats()`).
type Stats struct {
	EntityCount   int
	RelationCount int
}

// Reader is the subset of the vault Store the graph needs to build itself.
type Reader interface {
	ListNotes(userID shared.UserID) ([]string, error)
	ReadNote(userID shared.UserID, name string) (*markdown.Note, error)
}

// Graph is the tenant's in-memory derived knowledge graph.
type Graph struct {
	nodes    map[string]*Node
	outgoing map[string][]Edge
	incoming map[string][]Edge
}

// Build parses every note for userID and constructs the graph (spec §4.5
// "Construction").
func Build(store Reader, userID shared.UserID) (*Graph, error) {
	names, err := store.ListNotes(userID)
	if err != nil {
		return nil, err
	}

	g := &Graph{
		nodes:    make(map[string]*Node, len(names)),
		outgoing: make(map[string][]Edge),
		incoming: make(map[string][]Edge),
	}

	for _, name := range names {
		note, err := store.ReadNote(userID, name)
		if err != nil {
			continue
		}
		g.nodes[name] = &Node{ID: name, Kind: NodeKindEntity, EntityType: entity.NormalizeType(note.Header.Type)}
		for _, tag := range note.Header.Tags {
			g.ensureTagNode(tag)
		}
	}

	for _, name := range names {
		note, err := store.ReadNote(userID, name)
		if err != nil {
			continue
		}
		g.addEdgesFromSection(name, note.FindSection("Relations"))
		g.addEdgesFromSection(name, note.FindSection("Facts"))
		for _, tag := range markdown.ExtractTags(bodyOf(note)) {
			g.ensureTagNode(tag)
			g.addEdge(name, tag, "tagged")
		}
	}

	return g, nil
}

func bodyOf(note *markdown.Note) string {
	var b strings.Builder
	for _, s := range note.Sections {
		b.WriteString(s.Body)
		b.WriteString("\n")
	}
	return b.String()
}

func (g *Graph) ensureTagNode(tag string) {
	if _, ok := g.nodes[tag]; !ok {
		g.nodes[tag] = &Node{ID: tag, Kind: NodeKindTag}
	}
}

// addEdgesFromSection recognizes the "→ **type** [[Target]]" / "← **type**
// [[Target]]" form the vault writes under Relations, and falls back to
// entity.DefaultRelationType for a plain wikilink found elsewhere
// (spec §4.5, §9 Open Question #2).
func (g *Graph) addEdgesFromSection(from string, section *markdown.Section) {
	if section == nil {
		return
	}
	for _, line := range strings.Split(section.Body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		relType := string(entity.DefaultRelationType)
		if idx := strings.Index(trimmed, "**"); idx >= 0 {
			rest := trimmed[idx+2:]
			if end := strings.Index(rest, "**"); end >= 0 {
				relType = rest[:end]
			}
		}
		for _, link := range markdown.ExtractWikilinks(trimmed) {
			g.addEdge(from, link.Target, relType)
		}
	}
}

func (g *Graph) addEdge(from, to, relationType string) {
	g.outgoing[from] = append(g.outgoing[from], Edge{To: to, RelationType: relationType})
	g.incoming[to] = append(g.incoming[to], Edge{To: from, RelationType: relationType})
}

// FindEntity performs a case-insensitive exact match against note stems
// (spec §4.5 `find_entity`).
func (g *Graph) FindEntity(name string) (string, bool) {
	for id, n := range g.nodes {
		if n.Kind == NodeKindEntity && strings.EqualFold(id, name) {
			return id, true
		}
	}
	return "", false
}

// GetNeighbors performs breadth-first expansion to depth levels, returning
// items deduplicated by entity ID in visit order (spec §4.5 `get_neighbors`).
func (g *Graph) GetNeighbors(id string, depth int) []Neighbor {
	visited := map[string]bool{id: true}
	var out []Neighbor

	frontier := []string{id}
	for level := 0; level < depth && len(frontier) > 0; level++ {
		var next []string
		for _, cur := range frontier {
			for _, e := range g.outgoing[cur] {
				if visited[e.To] {
					continue
				}
				visited[e.To] = true
				out = append(out, Neighbor{Entity: e.To, RelationType: e.RelationType, Direction: "outgoing"})
				next = append(next, e.To)
			}
			for _, e := range g.incoming[cur] {
				if visited[e.To] {
					continue
				}
				visited[e.To] = true
				out = append(out, Neighbor{Entity: e.To, RelationType: e.RelationType, Direction: "incoming"})
				next = append(next, e.To)
			}
		}
		frontier = next
	}
	return out
}

// GetSubgraph returns the induced node and edge lists reachable from id
// within depth hops (spec §4.5 `get_subgraph`).
func (g *Graph) GetSubgraph(id string, depth int) (nodes []Node, edges []Edge) {
	visited := map[string]bool{id: true}
	if n, ok := g.nodes[id]; ok {
		nodes = append(nodes, *n)
	}

	frontier := []string{id}
	for level := 0; level < depth && len(frontier) > 0; level++ {
		var next []string
		for _, cur := range frontier {
			for _, e := range g.outgoing[cur] {
				edges = append(edges, e)
				if !visited[e.To] {
					visited[e.To] = true
					if n, ok := g.nodes[e.To]; ok {
						nodes = append(nodes, *n)
					}
					next = append(next, e.To)
				}
			}
		}
		frontier = next
	}
	return nodes, edges
}

// Stats returns totals of entity nodes and relations (spec §4.5 `stats()`).
func (g *Graph) Stats() Stats {
	var s Stats
	for _, n := range g.nodes {
		if n.Kind == NodeKindEntity {
			s.EntityCount++
		}
	}
	for _, edges := range g.outgoing {
		s.RelationCount += len(edges)
	}
	return s
}

// IsTag reports whether id names a tag node rather than an entity.
func (g *Graph) IsTag(id string) bool {
	n, ok := g.nodes[id]
	return ok && n.Kind == NodeKindTag
}
