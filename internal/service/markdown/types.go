// Package markdown implements the note codec (spec §4.3, §3.5, §6.3):
// parsing a note into a header dict plus ordered sections, extracting
// wikilinks and inline tags, splitting bodies into sections, chunking
// sections for the vector index, and serializing a note back to its
// canonical on-disk form.
package markdown

import "time"

// TimestampLayout is the header timestamp format (spec §4.3: "YYYY-MM-DD HH:MM").
const TimestampLayout = "2006-01-02 15:04"

// Header is the parsed YAML-like front matter block.
type Header struct {
	Type    string
	Created time.Time
	Updated time.Time
	Tags    []string
}

// Section is one ordered `## Heading` block with its raw body lines.
type Section struct {
	Level int
	Title string
	Body  string
}

// Note is a parsed note: header plus the entity heading plus ordered sections.
type Note struct {
	Header     Header
	EntityName string
	Sections   []Section
}

// Wikilink is one `[[Target]]` or `[[Target|Alias]]` occurrence with its
// surrounding context (spec §4.3b: "±80 chars of surrounding context").
type Wikilink struct {
	Target  string
	Alias   string
	Context string
}

// Chunk is one ≈500-char span of a note's body produced for the vector index.
type Chunk struct {
	Section  string
	Position int
	Content  string
}

// FindSection returns the section with the given title (case-sensitive,
// exact match on "Facts", "Relations", "Knowledge", …), or nil.
func (n *Note) FindSection(title string) *Section {
	for i := range n.Sections {
		if n.Sections[i].Title == title {
			return &n.Sections[i]
		}
	}
	return nil
}
