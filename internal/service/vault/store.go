// Package vault implements the vault store (spec §4.4): the authoritative
// on-disk state and sole writer of per-tenant entity notes. It owns the
// per-tenant reader/writer lock discipline (spec §5) and the idempotent
// merge algorithm that turns an extraction delta into note mutations.
package vault

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/alibaizhanov/mengram/internal/domain/entity"
	"github.com/alibaizhanov/mengram/internal/domain/shared"
	"github.com/alibaizhanov/mengram/internal/service/markdown"
	appErrors "github.com/alibaizhanov/mengram/pkg/errors"
)

// Stats summarizes a tenant's vault (spec §4.4 `stats()`).
type Stats struct {
	EntityCount   int
	RelationCount int
}

// ProcessResult reports what process_extraction did (spec §4.4).
type ProcessResult struct {
	Created int
	Updated int
}

// tenantState holds the per-tenant lock and cache-invalidation generation
// counter (spec §4.4 "Invalidation", §5 "Locking").
type tenantState struct {
	rw         sync.RWMutex
	generation uint64
}

// Store is the vault: a root directory containing one subdirectory per
// tenant, each holding that tenant's entity notes.
type Store struct {
	root string

	mu      sync.Mutex
	tenants map[string]*tenantState
}

// New creates a Store rooted at root. The directory is created lazily per
// tenant on first write.
func New(root string) *Store {
	return &Store{root: root, tenants: make(map[string]*tenantState)}
}

func (s *Store) stateFor(userID shared.UserID) *tenantState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.tenants[userID.String()]
	if !ok {
		st = &tenantState{}
		s.tenants[userID.String()] = st
	}
	return st
}

func (s *Store) tenantDir(userID shared.UserID) string {
	return filepath.Join(s.root, userID.String())
}

// Generation returns the tenant's current invalidation generation, used by
// the graph and vector index to decide whether a cached view is stale
// (spec §4.4 "Invalidation").
func (s *Store) Generation(userID shared.UserID) uint64 {
	return atomic.LoadUint64(&s.stateFor(userID).generation)
}

func (s *Store) bumpGeneration(userID shared.UserID) {
	atomic.AddUint64(&s.stateFor(userID).generation, 1)
}

// ListNotes returns the canonical entity names of every note in the
// tenant's vault (spec §4.4 `list_notes()`).
func (s *Store) ListNotes(userID shared.UserID) ([]string, error) {
	st := s.stateFor(userID)
	st.rw.RLock()
	defer st.rw.RUnlock()

	entries, err := os.ReadDir(s.tenantDir(userID))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, appErrors.NewIO("list notes", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
			continue
		}
		content, err := os.ReadFile(filepath.Join(s.tenantDir(userID), e.Name()))
		if err != nil {
			continue
		}
		note, err := markdown.Parse(string(content))
		if err != nil {
			continue
		}
		names = append(names, note.EntityName)
	}
	sort.Strings(names)
	return names, nil
}

// GetEntityData returns the reconstructed Entity for name (spec §4.4
// `get_entity_data(name)`), or a NotFoundError.
func (s *Store) GetEntityData(userID shared.UserID, name string) (*entity.Entity, error) {
	st := s.stateFor(userID)
	st.rw.RLock()
	defer st.rw.RUnlock()
	return s.readEntityLocked(userID, name)
}

func (s *Store) readEntityLocked(userID shared.UserID, name string) (*entity.Entity, error) {
	path := filepath.Join(s.tenantDir(userID), noteFileName(name))
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, appErrors.NewNotFound("entity " + name + " not found")
	}
	if err != nil {
		return nil, appErrors.NewIO("read entity note", err)
	}
	note, err := markdown.Parse(string(content))
	if err != nil {
		return nil, err
	}
	return noteToEntity(note), nil
}

// ReadNote returns the fully parsed Note for name, for callers (the graph,
// the vector index) that need more than the reconstructed Entity view.
func (s *Store) ReadNote(userID shared.UserID, name string) (*markdown.Note, error) {
	st := s.stateFor(userID)
	st.rw.RLock()
	defer st.rw.RUnlock()
	note, err := s.readNoteLocked(userID, name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, appErrors.NewNotFound("entity " + name + " not found")
		}
		return nil, appErrors.NewIO("read entity note", err)
	}
	return note, nil
}

// Stats implements spec §4.4 `stats()`.
func (s *Store) Stats(userID shared.UserID) (Stats, error) {
	names, err := s.ListNotes(userID)
	if err != nil {
		return Stats{}, err
	}

	st := s.stateFor(userID)
	st.rw.RLock()
	defer st.rw.RUnlock()

	var stats Stats
	for _, name := range names {
		e, err := s.readEntityLocked(userID, name)
		if err != nil {
			continue
		}
		stats.EntityCount++
		stats.RelationCount += len(e.Relations)
	}
	return stats, nil
}

// Delete removes name's note and invalidates derived views (spec §4.4,
// §3.4 "never destroyed except by an explicit delete").
func (s *Store) Delete(userID shared.UserID, name string) error {
	st := s.stateFor(userID)
	st.rw.Lock()
	defer st.rw.Unlock()

	path := filepath.Join(s.tenantDir(userID), noteFileName(name))
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return appErrors.NewNotFound("entity " + name + " not found")
		}
		return appErrors.NewIO("delete entity note", err)
	}
	s.bumpGeneration(userID)
	return nil
}

// writeNoteLocked writes content to name's note via temp-file-plus-rename,
// so a cancelled or crashed write never leaves a partial file behind
// (spec §5 "Cancellation").
func (s *Store) writeNoteLocked(userID shared.UserID, name, content string) error {
	dir := s.tenantDir(userID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return appErrors.NewIO("create tenant directory", err)
	}

	path := filepath.Join(dir, noteFileName(name))
	tmp, err := os.CreateTemp(dir, ".tmp-*.md")
	if err != nil {
		return appErrors.NewIO("create temp note file", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return appErrors.NewIO("write temp note file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return appErrors.NewIO("close temp note file", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return appErrors.NewIO("rename temp note file", err)
	}
	return nil
}

func (s *Store) noteExistsLocked(userID shared.UserID, name string) bool {
	_, err := os.Stat(filepath.Join(s.tenantDir(userID), noteFileName(name)))
	return err == nil
}

func (s *Store) readNoteLocked(userID shared.UserID, name string) (*markdown.Note, error) {
	content, err := os.ReadFile(filepath.Join(s.tenantDir(userID), noteFileName(name)))
	if err != nil {
		return nil, err
	}
	return markdown.Parse(string(content))
}

// readDirNoRLock lists the canonical entity names already on disk for dir's
// tenant. Callers must already hold the tenant's lock; unlike ListNotes it
// does not acquire one itself, so it is safe to call while holding the
// exclusive (writer) side during process_extraction.
func readDirNoRLock(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, appErrors.NewIO("list notes", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".md" {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		note, err := markdown.Parse(string(content))
		if err != nil {
			continue
		}
		names = append(names, note.EntityName)
	}
	return names, nil
}
