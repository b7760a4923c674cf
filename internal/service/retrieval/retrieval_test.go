package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alibaizhanov/mengram/internal/domain/extraction"
	"github.com/alibaizhanov/mengram/internal/domain/shared"
	"github.com/alibaizhanov/mengram/internal/service/embedding/mock"
	"github.com/alibaizhanov/mengram/internal/service/graph"
	"github.com/alibaizhanov/mengram/internal/service/markdown"
	"github.com/alibaizhanov/mengram/internal/service/vault"
	"github.com/alibaizhanov/mengram/internal/service/vectorindex"
)

func TestQueryAssemblesDirectMatchesAndGraphContext(t *testing.T) {
	ctx := context.Background()
	store := vault.New(t.TempDir())
	userID, err := shared.NewUserID("tenant-1")
	require.NoError(t, err)

	_, err = store.ProcessExtraction(userID, extraction.Result{
		Entities: []extraction.Entity{
			{Name: "Ada Lovelace", Type: "person", Facts: []extraction.Fact{{Content: "Wrote the first algorithm for a computing machine"}}},
		},
		Relations: []extraction.Relation{
			{From: "Ada Lovelace", Type: "worked_with", To: "Charles Babbage"},
		},
	})
	require.NoError(t, err)

	g, err := graph.Build(store, userID)
	require.NoError(t, err)

	embedder := mock.New(8)
	note, err := store.ReadNote(userID, "Ada Lovelace")
	require.NoError(t, err)
	chunks := markdown.Chunks(note, markdown.DefaultChunkSize)

	idx, err := vectorindex.Build(ctx, []vectorindex.ChunkSource{{EntityName: "Ada Lovelace", Chunks: chunks}}, embedder)
	require.NoError(t, err)
	defer idx.Close()

	r := New(idx, g, embedder)
	result, err := r.Query(ctx, "Wrote the first algorithm for a computing machine", 5, 1, 0.0)
	require.NoError(t, err)

	require.NotEmpty(t, result.DirectMatches)
	assert.Equal(t, "Ada Lovelace", result.DirectMatches[0].EntityName)

	require.NotEmpty(t, result.GraphContext)
	assert.Equal(t, "Charles Babbage", result.GraphContext[0].EntityName)

	assert.Contains(t, result.AssembledContext, "## Relevant fragments from notes")
	assert.Contains(t, result.AssembledContext, "## Related entities (from knowledge graph)")
}
