// Package vectorindex implements the derived vector index (spec §4.6): an
// in-memory sqlite-vec vec0 table mapping chunk IDs to unit vectors and to
// the entity they belong to, supporting top-K cosine search and per-entity
// lookup.
package vectorindex

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"

	"github.com/alibaizhanov/mengram/internal/domain/chunk"
	"github.com/alibaizhanov/mengram/internal/service/embedding"
	"github.com/alibaizhanov/mengram/internal/service/markdown"
	appErrors "github.com/alibaizhanov/mengram/pkg/errors"
)

func init() {
	sqlite_vec.Auto()
}

// Entry is one row of the index (spec §4.6 "Contents").
type Entry struct {
	ChunkID    int64
	ChunkUUID  string
	EntityID   string
	EntityName string
	Section    string
	Content    string
	Score      float64
}

// Index holds one tenant's vector entries in an in-memory SQLite database.
type Index struct {
	db  *sql.DB
	dim int
}

// ChunkSource is one note's chunk set to embed and insert, keyed by the
// entity it belongs to (spec §4.6: "For each note, the codec's chunks
// become entries").
type ChunkSource struct {
	EntityName string
	Chunks     []markdown.Chunk
}

// Build embeds every chunk in sources through embed and constructs a fresh
// in-memory index (spec §4.6 "construction embeds all chunk contents
// through the Embedding adapter in batches").
func Build(ctx context.Context, sources []ChunkSource, embedder embedding.Provider) (*Index, error) {
	dim := embedder.Dimensions()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, appErrors.NewIO("open in-memory vector index", err)
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE entries (
			chunk_id INTEGER PRIMARY KEY,
			chunk_uuid TEXT NOT NULL,
			entity_name TEXT NOT NULL,
			section TEXT NOT NULL,
			content TEXT NOT NULL
		);
		CREATE VIRTUAL TABLE vec_entries USING vec0(
			chunk_id INTEGER PRIMARY KEY,
			embedding float[%d] distance_metric=cosine
		);
	`, dim)); err != nil {
		db.Close()
		return nil, appErrors.NewIO("create vector index schema", err)
	}

	idx := &Index{db: db, dim: dim}

	var texts []string
	var refs []ChunkSource
	var chunkIdx []int
	for _, src := range sources {
		for i := range src.Chunks {
			texts = append(texts, src.Chunks[i].Content)
			refs = append(refs, src)
			chunkIdx = append(chunkIdx, i)
		}
	}
	if len(texts) == 0 {
		return idx, nil
	}

	vectors, err := embedder.EmbedBatch(ctx, texts)
	if err != nil {
		db.Close()
		return nil, err
	}

	var chunkID int64
	for i, vec := range vectors {
		src := refs[i]
		mc := src.Chunks[chunkIdx[i]]
		dc := chunk.New(src.EntityName, mc.Section, mc.Position, mc.Content)
		dc.Vector = vec
		chunkID++
		if _, err := db.ExecContext(ctx, `INSERT INTO entries (chunk_id, chunk_uuid, entity_name, section, content) VALUES (?, ?, ?, ?, ?)`,
			chunkID, dc.ID, dc.EntityName, dc.Section, dc.Content); err != nil {
			db.Close()
			return nil, appErrors.NewIO("insert vector index entry", err)
		}
		if _, err := db.ExecContext(ctx, `INSERT INTO vec_entries (chunk_id, embedding) VALUES (?, ?)`,
			chunkID, serializeFloat32(dc.Vector)); err != nil {
			db.Close()
			return nil, appErrors.NewIO("insert vector index embedding", err)
		}
	}

	return idx, nil
}

// Close releases the underlying in-memory database.
func (idx *Index) Close() error {
	if idx.db == nil {
		return nil
	}
	return idx.db.Close()
}

// Search embeds query and returns the top-K entries with score >= minScore,
// ordered by descending score (spec §4.6 `search`).
func (idx *Index) Search(ctx context.Context, query string, topK int, minScore float64, embedder embedding.Provider) ([]Entry, error) {
	vec, err := embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	rows, err := idx.db.QueryContext(ctx, `
		SELECT v.chunk_id, v.distance, e.chunk_uuid, e.entity_name, e.section, e.content
		FROM vec_entries v
		JOIN entries e ON e.chunk_id = v.chunk_id
		WHERE v.embedding MATCH ? AND k = ?
		ORDER BY v.distance
	`, serializeFloat32(vec), topK)
	if err != nil {
		return nil, appErrors.NewIO("vector search", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var distance float64
		if err := rows.Scan(&e.ChunkID, &distance, &e.ChunkUUID, &e.EntityName, &e.Section, &e.Content); err != nil {
			return nil, appErrors.NewIO("scan vector search row", err)
		}
		e.EntityID = e.EntityName
		e.Score = 1.0 - distance // cosine distance -> cosine similarity
		if e.Score >= minScore {
			out = append(out, e)
		}
	}
	return out, rows.Err()
}

// SearchByEntity returns every entry for entityName with score 1.0
// (spec §4.6 `search_by_entity`).
func (idx *Index) SearchByEntity(ctx context.Context, entityName string) ([]Entry, error) {
	rows, err := idx.db.QueryContext(ctx, `
		SELECT chunk_id, chunk_uuid, entity_name, section, content FROM entries WHERE entity_name = ?
	`, entityName)
	if err != nil {
		return nil, appErrors.NewIO("search by entity", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ChunkID, &e.ChunkUUID, &e.EntityName, &e.Section, &e.Content); err != nil {
			return nil, appErrors.NewIO("scan entity entry row", err)
		}
		e.EntityID = e.EntityName
		e.Score = 1.0
		out = append(out, e)
	}
	return out, rows.Err()
}

// serializeFloat32 converts a float32 slice to little-endian bytes for
// sqlite-vec, matching the wire format its vec0 virtual table expects.
func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}
