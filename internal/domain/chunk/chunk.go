// Package chunk implements the derived Chunk memory kind: a substring of a
// note emitted to the vector index (spec §3.2, §4.3e).
package chunk

import "github.com/google/uuid"

// Chunk is a unit of text fed to the embedding adapter and stored in the
// vector index. Vector is populated once the embedding call completes; a
// freshly split Chunk has a nil Vector.
type Chunk struct {
	ID         string
	EntityName string
	Section    string // e.g. "Facts", "Relations", "Knowledge"
	Position   int    // ordinal position within the section
	Content    string
	Vector     []float32
}

// New creates a Chunk with a fresh opaque ID and no vector yet.
func New(entityName, section string, position int, content string) Chunk {
	return Chunk{
		ID:         uuid.NewString(),
		EntityName: entityName,
		Section:    section,
		Position:   position,
		Content:    content,
	}
}
