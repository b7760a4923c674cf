package markdown

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleNote = `---
type: person
created: 2024-01-01 10:00
updated: 2024-01-02 11:30
tags: [person, engineer]
---

# Ada Lovelace

## Facts

- Worked on the Analytical Engine
- Wrote the first algorithm for a machine

## Relations

- → **worked_with** [[Charles Babbage]]: collaborated on the Analytical Engine

## Knowledge

**[note] Early computing** (2024-01-01)
Ada's notes on the Analytical Engine describe [[Charles Babbage]]'s machine in detail.
`

func TestParseRoundTrip(t *testing.T) {
	note, err := Parse(sampleNote)
	require.NoError(t, err)

	assert.Equal(t, "person", note.Header.Type)
	assert.Equal(t, "Ada Lovelace", note.EntityName)
	assert.ElementsMatch(t, []string{"person", "engineer"}, note.Header.Tags)

	facts := note.FindSection("Facts")
	require.NotNil(t, facts)
	assert.Contains(t, facts.Body, "Analytical Engine")

	relations := note.FindSection("Relations")
	require.NotNil(t, relations)
	assert.Contains(t, relations.Body, "Charles Babbage")
}

func TestSerializeThenParseIsIdentity(t *testing.T) {
	created := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	updated := time.Date(2024, 1, 2, 11, 30, 0, 0, time.UTC)
	note := NewNote("Ada Lovelace", "person", []string{"person"}, Header{Type: "person", Created: created, Updated: updated, Tags: []string{"person"}})
	AppendToSection(note, "Facts", "- Worked on the Analytical Engine")

	out := Serialize(note)
	reparsed, err := Parse(out)
	require.NoError(t, err)

	assert.Equal(t, note.EntityName, reparsed.EntityName)
	assert.Equal(t, note.Header.Type, reparsed.Header.Type)
	assert.Equal(t, note.Header.Created.Format(TimestampLayout), reparsed.Header.Created.Format(TimestampLayout))

	again := Serialize(reparsed)
	assert.Equal(t, out, again)
}

func TestExtractWikilinks(t *testing.T) {
	text := "Ada worked closely with [[Charles Babbage]] on early designs, also see [[Analytical Engine|the Engine]]."
	links := ExtractWikilinks(text)
	require.Len(t, links, 2)
	assert.Equal(t, "Charles Babbage", links[0].Target)
	assert.Equal(t, "", links[0].Alias)
	assert.Contains(t, links[0].Context, "Ada worked closely")

	assert.Equal(t, "Analytical Engine", links[1].Target)
	assert.Equal(t, "the Engine", links[1].Alias)
}

func TestExtractTags(t *testing.T) {
	tags := ExtractTags("met #Ada and discussed #machine-learning and #ai/ethics today")
	assert.ElementsMatch(t, []string{"Ada", "machine-learning", "ai/ethics"}, tags)
}

func TestChunksSplitsOversizeSectionByParagraph(t *testing.T) {
	longBody := ""
	for i := 0; i < 20; i++ {
		longBody += "This is a reasonably long paragraph about Ada and her collaborators.\n\n"
	}
	note := &Note{
		EntityName: "Ada Lovelace",
		Sections:   []Section{{Level: 2, Title: "Knowledge", Body: longBody}},
	}

	chunks := Chunks(note, 200)
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		assert.Equal(t, "Knowledge", c.Section)
	}
	// The oversize section must be split into more than one chunk.
	assert.True(t, len(chunks) > 1)
}

func TestChunksKeepsOversizeParagraphWhole(t *testing.T) {
	huge := ""
	for i := 0; i < 100; i++ {
		huge += "word "
	}
	note := &Note{
		EntityName: "Ada Lovelace",
		Sections:   []Section{{Level: 2, Title: "Facts", Body: huge}},
	}
	chunks := Chunks(note, 50)
	require.Len(t, chunks, 1)
	assert.True(t, len(chunks[0].Content) > 50)
}
