package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alibaizhanov/mengram/internal/service/llmprovider"
	"github.com/alibaizhanov/mengram/internal/service/llmprovider/mock"
)

func TestExtractParsesWellFormedJSON(t *testing.T) {
	raw := `{"entities":[{"name":"Ada Lovelace","type":"person","facts":["Wrote the first algorithm"]}],"relations":[],"knowledge":[],"episodes":[],"procedures":[]}`
	provider := mock.New(raw)
	adapter := llmprovider.NewAdapter(provider, 1.0, 100)
	orch := New(adapter)

	result, err := orch.Extract(context.Background(), []llmprovider.Message{{Role: llmprovider.RoleUser, Content: "I met Ada Lovelace today"}}, nil)
	require.NoError(t, err)
	require.Len(t, result.Entities, 1)
	assert.Equal(t, "Ada Lovelace", result.Entities[0].Name)
	assert.Empty(t, result.Warnings)
}

func TestExtractRecoversFromFencedAndSurroundedJSON(t *testing.T) {
	raw := "Sure, here you go:\n```json\n{\"entities\":[],\"relations\":[],\"knowledge\":[],\"episodes\":[],\"procedures\":[]}\n```\nLet me know if you need more."
	provider := mock.New(raw)
	adapter := llmprovider.NewAdapter(provider, 1.0, 100)
	orch := New(adapter)

	result, err := orch.Extract(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Warnings)
}

func TestExtractFallsBackToEmptyOnUnparseableResponse(t *testing.T) {
	provider := mock.New("not json at all")
	adapter := llmprovider.NewAdapter(provider, 1.0, 100)
	orch := New(adapter)

	result, err := orch.Extract(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Warnings)
	assert.Empty(t, result.Entities)
}

func TestBuildExistingContextBlockEmptyWhenNoEntities(t *testing.T) {
	assert.Equal(t, "", BuildExistingContextBlock(nil))
}
