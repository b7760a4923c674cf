package vault

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/alibaizhanov/mengram/internal/domain/entity"
	"github.com/alibaizhanov/mengram/internal/domain/shared"
	"github.com/alibaizhanov/mengram/internal/service/markdown"
)

// mustEntityName builds an EntityName from a name already known to be
// non-empty (it came from a heading or wikilink we wrote ourselves).
func mustEntityName(name string) shared.EntityName {
	n, err := shared.NewEntityName(name)
	if err != nil {
		n, _ = shared.NewEntityName("unknown")
	}
	return n
}

// factLineRe parses "- content" or "- content (YYYY-MM-DD)" bullets.
var factLineRe = regexp.MustCompile(`^-\s+(.*?)(?:\s+\((\d{4}-\d{2}-\d{2})\))?$`)

// relationLineRe parses "- → **type** [[Other]]: description" and the
// incoming "- ← **type** [[Other]]" variant (spec §3.5, §4.5).
var relationLineRe = regexp.MustCompile(`^-\s+([→←])\s+\*\*([^*]+)\*\*\s+\[\[([^\]]+)\]\](?::\s*(.*))?$`)

// noteToEntity reconstructs the domain Entity view of a parsed note (used by
// GetEntityData and by the merge algorithm's existing-file branch).
func noteToEntity(note *markdown.Note) *entity.Entity {
	e := entity.New(mustEntityName(note.EntityName), entity.NormalizeType(note.Header.Type))
	e.CreatedAt = note.Header.Created
	e.UpdatedAt = note.Header.Updated

	if facts := note.FindSection("Facts"); facts != nil {
		for _, line := range splitLines(facts.Body) {
			if m := factLineRe.FindStringSubmatch(line); m != nil {
				e.AddFact(entity.Fact{Content: strings.TrimSpace(m[1]), EventDate: m[2]})
			}
		}
	}

	if rel := note.FindSection("Relations"); rel != nil {
		for _, line := range splitLines(rel.Body) {
			if m := relationLineRe.FindStringSubmatch(line); m != nil && m[1] == "→" {
				e.AddRelation(entity.Relation{
					Type:        entity.NormalizeRelationType(m[2]),
					Target:      mustEntityName(m[3]),
					Description: m[4],
				})
			}
		}
	}

	return e
}

// factLine renders a Fact as its note bullet.
func factLine(f entity.Fact) string {
	if f.EventDate != "" {
		return fmt.Sprintf("- %s (%s)", f.Content, f.EventDate)
	}
	return fmt.Sprintf("- %s", f.Content)
}

// relationLine renders an outgoing Relation as its note bullet.
func relationLine(r entity.Relation) string {
	if r.Description != "" {
		return fmt.Sprintf("- → **%s** [[%s]]: %s", r.Type, r.Target.String(), r.Description)
	}
	return fmt.Sprintf("- → **%s** [[%s]]", r.Type, r.Target.String())
}

func splitLines(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
