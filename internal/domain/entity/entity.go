// Package entity implements the Entity aggregate of mengram's knowledge
// model: a named node (person, project, technology, …) together with its
// facts and relations (spec §3.2, §3.3).
package entity

import (
	"time"

	"github.com/alibaizhanov/mengram/internal/domain/shared"
)

// Type is the closed vocabulary of entity types (spec §3.2).
type Type string

const (
	TypePerson     Type = "person"
	TypeProject    Type = "project"
	TypeTechnology Type = "technology"
	TypeCompany    Type = "company"
	TypeConcept    Type = "concept"
	TypePlace      Type = "place"
	TypeActivity   Type = "activity"
)

// NormalizeType maps an unrecognized type string to "concept" (spec §4.7
// field normalization: "unknown entity types default to concept").
func NormalizeType(s string) Type {
	switch Type(s) {
	case TypePerson, TypeProject, TypeTechnology, TypeCompany, TypeConcept, TypePlace, TypeActivity:
		return Type(s)
	default:
		return TypeConcept
	}
}

// Fact is a short assertion about an entity (spec §3.2).
type Fact struct {
	Content   string
	EventDate string // ISO date, optional ("" if absent)
}

// RelationType is open vocabulary; DefaultRelationType is used when a
// wikilink carries no explicit relation type (spec §4.5, §9 ambiguity #2).
type RelationType string

const DefaultRelationType RelationType = "related_to"

// NormalizeRelationType maps an empty/unrecognized relation type to the
// default (spec §4.7: "unknown relation types default to related_to").
func NormalizeRelationType(s string) RelationType {
	if s == "" {
		return DefaultRelationType
	}
	return RelationType(s)
}

// Relation is a typed directed edge from this entity to another (spec §3.2).
type Relation struct {
	Type        RelationType
	Target      shared.EntityName
	Description string
}

// Entity is the rich aggregate: a canonical name, a type, and its facts and
// relations. Stub entities (spec §4.4 step 3) have Type TypeConcept and an
// empty Facts slice.
type Entity struct {
	Name      shared.EntityName
	Type      Type
	Facts     []Fact
	Relations []Relation
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New creates a fresh Entity with both timestamps set to now.
func New(name shared.EntityName, typ Type) *Entity {
	now := time.Now()
	return &Entity{
		Name:      name,
		Type:      typ,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewStub creates a stub entity: type concept, no facts (spec §3.3 #2).
func NewStub(name shared.EntityName) *Entity {
	return New(name, TypeConcept)
}

// HasFactContent reports whether the entity already has a fact whose content
// is byte-equal to content. Near-duplicate suppression beyond exact equality
// is the vault store's responsibility (it needs the configurable threshold).
func (e *Entity) HasFactContent(content string) bool {
	for _, f := range e.Facts {
		if f.Content == content {
			return true
		}
	}
	return false
}

// AddFact appends a fact and bumps UpdatedAt. Callers are responsible for
// running the near-duplicate check first (spec §3.3 #3); Entity itself
// enforces only append-only-ness (spec §3.4).
func (e *Entity) AddFact(f Fact) {
	e.Facts = append(e.Facts, f)
	e.UpdatedAt = time.Now()
}

// HasRelationTo reports whether the entity already has a relation to target
// regardless of type (spec §4.4 step 1c: "excluding those whose target
// already appears as a wikilink in the body").
func (e *Entity) HasRelationTo(target shared.EntityName) bool {
	for _, r := range e.Relations {
		if r.Target.Equals(target) {
			return true
		}
	}
	return false
}

// AddRelation appends a relation and bumps UpdatedAt.
func (e *Entity) AddRelation(r Relation) {
	e.Relations = append(e.Relations, r)
	e.UpdatedAt = time.Now()
}
