package brain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alibaizhanov/mengram/internal/domain/shared"
	"github.com/alibaizhanov/mengram/internal/service/embedding"
	"github.com/alibaizhanov/mengram/internal/service/embedding/mock"
	"github.com/alibaizhanov/mengram/internal/service/llmprovider"
	llmmock "github.com/alibaizhanov/mengram/internal/service/llmprovider/mock"
	"github.com/alibaizhanov/mengram/internal/service/orchestrator"
	"github.com/alibaizhanov/mengram/internal/service/vault"
)

func newTestBrain(t *testing.T, llmResponse string) (*Brain, shared.UserID) {
	t.Helper()
	store := vault.New(t.TempDir())
	userID, err := shared.NewUserID("tenant-1")
	require.NoError(t, err)

	llmProvider := llmmock.New(llmResponse)
	llmAdapter := llmprovider.NewAdapter(llmProvider, 1.0, 1000)
	orch := orchestrator.New(llmAdapter)

	embedAdapter := embedding.NewAdapter(mock.New(8), 1.0, 1000)

	b := New(userID, store, orch, embedAdapter, nil, DefaultParams())
	return b, userID
}

func TestRememberThenRecallEndToEnd(t *testing.T) {
	raw := `{"entities":[{"name":"Ada Lovelace","type":"person","facts":["Wrote the first algorithm for a computing machine"]}],"relations":[{"from":"Ada Lovelace","type":"worked_with","to":"Charles Babbage","description":"collaborated"}],"knowledge":[],"episodes":[],"procedures":[]}`
	b, _ := newTestBrain(t, raw)
	ctx := context.Background()

	res, err := b.RememberText(ctx, "I met Ada Lovelace today")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Created, 1)

	assembled, err := b.Recall(ctx, "Wrote the first algorithm for a computing machine", 5)
	require.NoError(t, err)
	assert.Contains(t, assembled, "## Relevant fragments from notes")

	rows, err := b.Search(ctx, "Wrote the first algorithm for a computing machine", 5)
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	assert.Equal(t, "Ada Lovelace", rows[0].Entity)

	stats, err := b.GetStats(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.EntityCount, 2)

	profile, err := b.GetProfile(ctx)
	require.NoError(t, err)
	assert.Contains(t, profile, "person")
}
