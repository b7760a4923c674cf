package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alibaizhanov/mengram/internal/domain/extraction"
	"github.com/alibaizhanov/mengram/internal/domain/shared"
	appErrors "github.com/alibaizhanov/mengram/pkg/errors"
)

func newTestStore(t *testing.T) (*Store, shared.UserID) {
	t.Helper()
	store := New(t.TempDir())
	userID, err := shared.NewUserID("tenant-1")
	require.NoError(t, err)
	return store, userID
}

func TestProcessExtractionCreatesNoteWithFactsAndRelations(t *testing.T) {
	store, userID := newTestStore(t)

	result := extraction.Result{
		Entities: []extraction.Entity{
			{Name: "Ada Lovelace", Type: "person", Facts: []extraction.Fact{{Content: "Wrote the first algorithm"}}},
		},
		Relations: []extraction.Relation{
			{From: "Ada Lovelace", Type: "worked_with", To: "Charles Babbage", Description: "collaborated on the Analytical Engine"},
		},
	}

	res, err := store.ProcessExtraction(userID, result)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created) // Ada's note + the Charles Babbage stub

	ada, err := store.GetEntityData(userID, "Ada Lovelace")
	require.NoError(t, err)
	require.Len(t, ada.Facts, 1)
	assert.Equal(t, "Wrote the first algorithm", ada.Facts[0].Content)
	require.Len(t, ada.Relations, 1)
	assert.Equal(t, "Charles Babbage", ada.Relations[0].Target.String())

	stub, err := store.GetEntityData(userID, "Charles Babbage")
	require.NoError(t, err)
	assert.Empty(t, stub.Facts)
	assert.Equal(t, "concept", string(stub.Type))
}

func TestProcessExtractionDedupsNearDuplicateFacts(t *testing.T) {
	store, userID := newTestStore(t)

	base := extraction.Result{
		Entities: []extraction.Entity{
			{Name: "Ada Lovelace", Type: "person", Facts: []extraction.Fact{{Content: "Worked on the Analytical Engine design"}}},
		},
	}
	_, err := store.ProcessExtraction(userID, base)
	require.NoError(t, err)

	similar := extraction.Result{
		Entities: []extraction.Entity{
			{Name: "Ada Lovelace", Type: "person", Facts: []extraction.Fact{{Content: "Worked on the Analytical Engine design closely"}}},
		},
	}
	_, err = store.ProcessExtraction(userID, similar)
	require.NoError(t, err)

	ada, err := store.GetEntityData(userID, "Ada Lovelace")
	require.NoError(t, err)
	assert.Len(t, ada.Facts, 1, "near-duplicate fact should be suppressed")
}

func TestProcessExtractionKnowledgeTitleUniqueness(t *testing.T) {
	store, userID := newTestStore(t)

	result := extraction.Result{
		Knowledge: []extraction.Knowledge{
			{Entity: "Ada Lovelace", Type: "note", Title: "Early computing", Content: "some content", Date: "2024-01-01"},
		},
	}
	_, err := store.ProcessExtraction(userID, result)
	require.NoError(t, err)

	res, err := store.ProcessExtraction(userID, result)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Updated, "duplicate knowledge title must be skipped")
}

func TestDeleteRemovesNoteAndReturnsNotFound(t *testing.T) {
	store, userID := newTestStore(t)

	_, err := store.ProcessExtraction(userID, extraction.Result{
		Entities: []extraction.Entity{{Name: "Ada Lovelace", Type: "person"}},
	})
	require.NoError(t, err)

	require.NoError(t, store.Delete(userID, "Ada Lovelace"))

	_, err = store.GetEntityData(userID, "Ada Lovelace")
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))
}

func TestSanitizeReplacesInvalidFilenameChars(t *testing.T) {
	assert.Equal(t, "a_b_c", sanitize(`a/b:c`))
}
