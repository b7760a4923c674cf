package markdown

import "strings"

// DefaultChunkSize is the target chunk size in characters (spec §4.6, §6.4).
const DefaultChunkSize = 500

// Chunks produces ordered ≈chunkSize chunks for n's sections, splitting by
// section boundaries and falling back to paragraph splits within a section
// that exceeds chunkSize. A single paragraph that itself exceeds chunkSize is
// never hard-split (spec §9 Open Question #3 decision: preserved as-is).
func Chunks(n *Note, chunkSize int) []Chunk {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}

	var out []Chunk
	position := 0
	for _, s := range n.Sections {
		body := strings.TrimSpace(s.Body)
		if body == "" {
			continue
		}
		if len(body) <= chunkSize {
			out = append(out, Chunk{Section: s.Title, Position: position, Content: body})
			position++
			continue
		}
		for _, part := range packParagraphs(body, chunkSize) {
			out = append(out, Chunk{Section: s.Title, Position: position, Content: part})
			position++
		}
	}
	return out
}

// packParagraphs greedily packs consecutive paragraphs into chunks no longer
// than chunkSize, never splitting a paragraph in two.
func packParagraphs(body string, chunkSize int) []string {
	paragraphs := strings.Split(body, "\n\n")
	var chunks []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}

	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if current.Len() > 0 && current.Len()+2+len(p) > chunkSize {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(p)
	}
	flush()
	return chunks
}
