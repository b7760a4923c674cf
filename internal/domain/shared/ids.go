// Package shared holds value objects used across mengram's domain packages:
// tenant identity, canonical entity names, and the token-overlap primitive
// used for fact near-duplicate suppression (spec §3.3 #3).
package shared

import (
	"errors"
	"strings"
)

var (
	ErrEmptyUserID     = errors.New("shared: user id must not be empty")
	ErrEmptyEntityName = errors.New("shared: entity name must not be empty")
)

// UserID identifies a tenant. No operation crosses tenants (spec §3.1).
type UserID struct {
	value string
}

// NewUserID validates and wraps a tenant identifier.
func NewUserID(id string) (UserID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return UserID{}, ErrEmptyUserID
	}
	return UserID{value: id}, nil
}

func (u UserID) String() string       { return u.value }
func (u UserID) IsEmpty() bool        { return u.value == "" }
func (u UserID) Equals(o UserID) bool { return u.value == o.value }

// EntityName is the canonical, case-preserving name of an Entity (spec §3.3 #1,
// #6). Two EntityNames are the same entity only if they are byte-equal;
// short-form-to-full-form merge is a decision made by the vault store, not
// by this value object.
type EntityName struct {
	value string
}

// NewEntityName validates and wraps a canonical entity name.
func NewEntityName(name string) (EntityName, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return EntityName{}, ErrEmptyEntityName
	}
	return EntityName{value: name}, nil
}

func (n EntityName) String() string         { return n.value }
func (n EntityName) IsEmpty() bool          { return n.value == "" }
func (n EntityName) Equals(o EntityName) bool { return n.value == o.value }

// EqualsFold reports whether n and o are the same name ignoring case, used by
// the knowledge graph's case-insensitive `find_entity` lookup (spec §4.5).
func (n EntityName) EqualsFold(o EntityName) bool {
	return strings.EqualFold(n.value, o.value)
}
