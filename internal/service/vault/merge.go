package vault

import (
	"strings"
	"time"

	"github.com/alibaizhanov/mengram/internal/domain/entity"
	"github.com/alibaizhanov/mengram/internal/domain/episode"
	"github.com/alibaizhanov/mengram/internal/domain/extraction"
	"github.com/alibaizhanov/mengram/internal/domain/procedure"
	"github.com/alibaizhanov/mengram/internal/domain/shared"
	"github.com/alibaizhanov/mengram/internal/service/markdown"
)

// ProcessExtraction merges an ExtractionResult into the tenant's vault
// (spec §4.4 `process_extraction`). It holds the tenant's exclusive lock
// for its whole duration and bumps the invalidation generation once on
// completion if anything was written.
func (s *Store) ProcessExtraction(userID shared.UserID, result extraction.Result) (ProcessResult, error) {
	st := s.stateFor(userID)
	st.rw.Lock()
	defer st.rw.Unlock()

	existingNames, err := s.existingNamesLocked(userID)
	if err != nil {
		return ProcessResult{}, err
	}

	var out ProcessResult
	wrote := false
	materialized := make(map[string]bool, len(existingNames))
	for _, n := range existingNames {
		materialized[strings.ToLower(n)] = true
	}

	relationsByEntity := make(map[string][]extraction.Relation)
	for _, r := range result.Relations {
		key := strings.ToLower(strings.TrimSpace(r.From))
		relationsByEntity[key] = append(relationsByEntity[key], r)
	}

	// Step 1: each extracted entity.
	for _, e := range result.Entities {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			continue
		}
		wasNew, err := s.mergeEntityLocked(userID, name, entity.NormalizeType(e.Type), e.Facts,
			relationsByEntity[strings.ToLower(name)], existingNames)
		if err != nil {
			return out, err
		}
		materialized[strings.ToLower(name)] = true
		if wasNew {
			out.Created++
		} else {
			out.Updated++
		}
	}

	// Step 3: materialize stub entities for every relation endpoint not
	// already present (spec §3.3 #2, §4.4 step 3).
	for _, r := range result.Relations {
		for _, endpoint := range []string{r.From, r.To} {
			endpoint = strings.TrimSpace(endpoint)
			if endpoint == "" {
				continue
			}
			if materialized[strings.ToLower(endpoint)] {
				continue
			}
			if err := s.createStubLocked(userID, endpoint); err != nil {
				return out, err
			}
			materialized[strings.ToLower(endpoint)] = true
			out.Created++
		}
	}

	// Step 2: knowledge entries, stubbing their entity if necessary.
	for _, k := range result.Knowledge {
		name := strings.TrimSpace(k.Entity)
		if name == "" {
			continue
		}
		isNewStub := false
		if !materialized[strings.ToLower(name)] {
			if err := s.createStubLocked(userID, name); err != nil {
				return out, err
			}
			materialized[strings.ToLower(name)] = true
			isNewStub = true
			out.Created++
		}
		appended, err := s.appendKnowledgeLocked(userID, name, k)
		if err != nil {
			return out, err
		}
		if appended && !isNewStub {
			out.Updated++
		}
	}

	// Episode participants must resolve to an existing entity (spec §3.3 #2).
	for _, ep := range result.Episodes {
		domainEp := episode.New(ep.Summary, ep.Context, ep.Outcome, ep.Participants,
			episode.NormalizeValence(ep.Valence), ep.Importance, extraction.NormalizeHappenedAt(ep.HappenedAt))
		for _, participant := range ep.Participants {
			participant = strings.TrimSpace(participant)
			if participant == "" {
				continue
			}
			if !materialized[strings.ToLower(participant)] {
				if err := s.createStubLocked(userID, participant); err != nil {
					return out, err
				}
				materialized[strings.ToLower(participant)] = true
				out.Created++
			}
			if err := s.appendEpisodeLocked(userID, participant, domainEp); err != nil {
				return out, err
			}
			wrote = true
		}
	}

	for _, p := range result.Procedures {
		steps := make([]procedure.Step, 0, len(p.Steps))
		for _, st := range p.Steps {
			steps = append(steps, procedure.Step{Action: st.Action, Detail: st.Detail})
		}
		domainProc := procedure.New(p.Name, p.Trigger, steps, p.Entities)
		for _, name := range p.Entities {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if !materialized[strings.ToLower(name)] {
				if err := s.createStubLocked(userID, name); err != nil {
					return out, err
				}
				materialized[strings.ToLower(name)] = true
				out.Created++
			}
			if err := s.appendProcedureLocked(userID, name, domainProc); err != nil {
				return out, err
			}
			wrote = true
		}
	}

	if out.Created > 0 || out.Updated > 0 || wrote {
		s.bumpGeneration(userID)
	}
	return out, nil
}

func (s *Store) existingNamesLocked(userID shared.UserID) ([]string, error) {
	entries, err := readDirNoRLock(s.tenantDir(userID))
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// mergeEntityLocked creates or updates the entity's note, returning whether
// a fresh file was created (spec §4.4 steps 1b/1c).
func (s *Store) mergeEntityLocked(userID shared.UserID, name string, typ entity.Type, facts []extraction.Fact,
	relations []extraction.Relation, existingNames []string) (created bool, err error) {

	if !s.noteExistsLocked(userID, name) {
		now := time.Now()
		note := markdown.NewNote(name, string(typ), []string{string(typ)}, markdown.Header{
			Type: string(typ), Created: now, Updated: now, Tags: []string{string(typ)},
		})
		for _, f := range facts {
			content := wikilinkify(f.Content, name, existingNames)
			markdown.AppendToSection(note, "Facts", factLine(entity.Fact{Content: content, EventDate: f.When}))
		}
		for _, r := range relations {
			rel := entity.Relation{Type: entity.NormalizeRelationType(r.Type), Target: mustEntityName(strings.TrimSpace(r.To)), Description: r.Description}
			markdown.AppendToSection(note, "Relations", relationLine(rel))
		}
		if err := s.writeNoteLocked(userID, name, markdown.Serialize(note)); err != nil {
			return false, err
		}
		return true, nil
	}

	note, err := s.readNoteLocked(userID, name)
	if err != nil {
		return false, err
	}
	existing := noteToEntity(note)
	linked := make(map[string]bool)
	for _, sec := range note.Sections {
		for _, l := range markdown.ExtractWikilinks(sec.Body) {
			linked[l.Target] = true
		}
	}

	for _, f := range facts {
		if isNearDuplicateFact(f.Content, existing) {
			continue
		}
		content := wikilinkify(f.Content, name, existingNames)
		markdown.AppendToSection(note, "Facts", factLine(entity.Fact{Content: content, EventDate: f.When}))
	}
	for _, r := range relations {
		target := mustEntityName(strings.TrimSpace(r.To))
		if existing.HasRelationTo(target) || linked[target.String()] {
			continue
		}
		markdown.AppendToSection(note, "Relations", relationLine(entity.Relation{
			Type: entity.NormalizeRelationType(r.Type), Target: target, Description: r.Description,
		}))
	}
	note.Header.Updated = time.Now()
	if err := s.writeNoteLocked(userID, name, markdown.Serialize(note)); err != nil {
		return false, err
	}
	return false, nil
}

// isNearDuplicateFact implements the fact near-duplicate rule (spec §3.3 #3).
const factOverlapThreshold = 0.7

func isNearDuplicateFact(content string, existing *entity.Entity) bool {
	if existing.HasFactContent(content) {
		return true
	}
	newTokens := shared.NewTokenSet(content)
	for _, f := range existing.Facts {
		if newTokens.OverlapRatio(shared.NewTokenSet(f.Content)) > factOverlapThreshold {
			return true
		}
	}
	return false
}

// createStubLocked materializes a stub entity (type concept, empty facts)
// for an unresolved relation endpoint, knowledge entity, or episode
// participant (spec §3.3 #2, §4.4 step 3).
func (s *Store) createStubLocked(userID shared.UserID, name string) error {
	if s.noteExistsLocked(userID, name) {
		return nil
	}
	now := time.Now()
	note := markdown.NewNote(name, string(entity.TypeConcept), []string{string(entity.TypeConcept)}, markdown.Header{
		Type: string(entity.TypeConcept), Created: now, Updated: now, Tags: []string{string(entity.TypeConcept)},
	})
	return s.writeNoteLocked(userID, name, markdown.Serialize(note))
}

// appendKnowledgeLocked appends k to name's note if its title is unseen
// (spec §3.3 #4). Returns whether it was appended.
func (s *Store) appendKnowledgeLocked(userID shared.UserID, name string, k extraction.Knowledge) (bool, error) {
	note, err := s.readNoteLocked(userID, name)
	if err != nil {
		return false, err
	}
	if hasKnowledgeTitle(note, k.Title) {
		return false, nil
	}
	existingNames, err := s.existingNamesLocked(userID)
	if err != nil {
		return false, err
	}
	content := wikilinkify(k.Content, name, existingNames)
	block := knowledgeBlock(k.Type, k.Title, k.Date, content, k.Language, k.Artifact)
	appendKnowledgeToSection(note, block)
	note.Header.Updated = time.Now()
	if err := s.writeNoteLocked(userID, name, markdown.Serialize(note)); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) appendEpisodeLocked(userID shared.UserID, name string, e episode.Episode) error {
	note, err := s.readNoteLocked(userID, name)
	if err != nil {
		return err
	}
	appendEpisode(note, e)
	note.Header.Updated = time.Now()
	return s.writeNoteLocked(userID, name, markdown.Serialize(note))
}

func (s *Store) appendProcedureLocked(userID shared.UserID, name string, p procedure.Procedure) error {
	note, err := s.readNoteLocked(userID, name)
	if err != nil {
		return err
	}
	appendProcedure(note, p)
	note.Header.Updated = time.Now()
	return s.writeNoteLocked(userID, name, markdown.Serialize(note))
}
