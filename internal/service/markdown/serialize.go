package markdown

import (
	"fmt"
	"strings"
)

// stableSectionOrder is the fixed section order for newly written notes
// (spec §4.3 "Serialization", §3.5).
var stableSectionOrder = []string{"Facts", "Relations", "Knowledge"}

// Serialize renders a Note back to its canonical on-disk text (spec §6.3).
func Serialize(n *Note) string {
	var b strings.Builder

	b.WriteString("---\n")
	fmt.Fprintf(&b, "type: %s\n", n.Header.Type)
	fmt.Fprintf(&b, "created: %s\n", FormatTimestamp(n.Header.Created))
	fmt.Fprintf(&b, "updated: %s\n", FormatTimestamp(n.Header.Updated))
	b.WriteString("tags: [" + strings.Join(n.Header.Tags, ", ") + "]\n")
	b.WriteString("---\n\n")

	fmt.Fprintf(&b, "# %s\n\n", n.EntityName)

	for _, s := range n.Sections {
		fmt.Fprintf(&b, "## %s\n\n", s.Title)
		body := strings.TrimRight(s.Body, "\n")
		if body != "" {
			b.WriteString(body)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// NewNote builds a fresh note with the stable Facts/Relations/Knowledge
// sections, all empty, for an entity that does not yet have a file
// (spec §4.4 step 1b).
func NewNote(entityName, entityType string, tags []string, createdUpdated Header) *Note {
	sections := make([]Section, 0, len(stableSectionOrder))
	for _, title := range stableSectionOrder {
		sections = append(sections, Section{Level: 2, Title: title})
	}
	return &Note{
		Header:     createdUpdated,
		EntityName: entityName,
		Sections:   sections,
	}
}

// AppendToSection appends line to the named section's body, creating the
// section at the end of the body if it does not already exist (spec §4.3
// "Serialization": "creating the section at the end of the body if missing").
func AppendToSection(n *Note, title, line string) {
	if s := n.FindSection(title); s != nil {
		s.Body = strings.TrimRight(s.Body, "\n")
		if s.Body == "" {
			s.Body = line
		} else {
			s.Body = s.Body + "\n" + line
		}
		return
	}
	n.Sections = append(n.Sections, Section{Level: 2, Title: title, Body: line})
}
