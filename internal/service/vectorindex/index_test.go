package vectorindex

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alibaizhanov/mengram/internal/service/embedding/mock"
	"github.com/alibaizhanov/mengram/internal/service/markdown"
)

func TestBuildAndSearch(t *testing.T) {
	embedder := mock.New(8)
	ctx := context.Background()

	sources := []ChunkSource{
		{EntityName: "Ada Lovelace", Chunks: []markdown.Chunk{
			{Section: "Facts", Position: 0, Content: "Wrote the first algorithm for a machine"},
		}},
		{EntityName: "Charles Babbage", Chunks: []markdown.Chunk{
			{Section: "Facts", Position: 0, Content: "Designed the Analytical Engine"},
		}},
	}

	idx, err := Build(ctx, sources, embedder)
	require.NoError(t, err)
	defer idx.Close()

	results, err := idx.Search(ctx, "Wrote the first algorithm for a machine", 5, 0.0, embedder)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "Ada Lovelace", results[0].EntityName)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)

	byEntity, err := idx.SearchByEntity(ctx, "Charles Babbage")
	require.NoError(t, err)
	require.Len(t, byEntity, 1)
	assert.Equal(t, 1.0, byEntity[0].Score)
}
