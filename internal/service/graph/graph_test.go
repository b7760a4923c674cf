package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alibaizhanov/mengram/internal/domain/extraction"
	"github.com/alibaizhanov/mengram/internal/domain/shared"
	"github.com/alibaizhanov/mengram/internal/service/vault"
)

func TestBuildAndGetNeighbors(t *testing.T) {
	store := vault.New(t.TempDir())
	userID, err := shared.NewUserID("tenant-1")
	require.NoError(t, err)

	_, err = store.ProcessExtraction(userID, extraction.Result{
		Entities: []extraction.Entity{
			{Name: "Ada Lovelace", Type: "person"},
		},
		Relations: []extraction.Relation{
			{From: "Ada Lovelace", Type: "worked_with", To: "Charles Babbage"},
		},
	})
	require.NoError(t, err)

	g, err := Build(store, userID)
	require.NoError(t, err)

	id, ok := g.FindEntity("ada lovelace")
	require.True(t, ok)
	assert.Equal(t, "Ada Lovelace", id)

	neighbors := g.GetNeighbors("Ada Lovelace", 1)
	require.Len(t, neighbors, 1)
	assert.Equal(t, "Charles Babbage", neighbors[0].Entity)
	assert.Equal(t, "worked_with", neighbors[0].RelationType)

	stats := g.Stats()
	assert.Equal(t, 2, stats.EntityCount)
	assert.GreaterOrEqual(t, stats.RelationCount, 1)
}
