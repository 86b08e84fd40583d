package datastore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aleister1102/sitemapinc/internal/models"
)

func TestHistoryStore_RunLifecycle(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := NewHistoryStore(dbPath, zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()

	start := time.Now().UTC().Truncate(time.Second)
	runDBID, err := store.RecordRunStart("run-001", "https://example.com/sitemap.xml", start)
	require.NoError(t, err)
	assert.Positive(t, runDBID)

	err = store.RecordClassification(runDBID, models.ClassificationResult{
		URL:      "https://example.com/page-1",
		Label:    models.StatusOK,
		Reason:   "no 404 indicators found",
		FinalURL: "https://example.com/page-1",
	})
	require.NoError(t, err)

	err = store.UpdateRunCompletion(runDBID, start.Add(time.Minute), models.RunStatusCompleted, 1, 0)
	require.NoError(t, err)

	entry, err := store.GetRun(runDBID)
	require.NoError(t, err)
	assert.Equal(t, "run-001", entry.RunID)
	assert.Equal(t, models.RunStatusCompleted, entry.Status)
	assert.Equal(t, 1, entry.CheckedURLs)
	assert.Zero(t, entry.NotFoundCount)
	assert.True(t, entry.EndTime.Valid)
}

func TestHistoryStore_DuplicateRunIDRejected(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := NewHistoryStore(dbPath, zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()

	_, err = store.RecordRunStart("run-dup", "https://example.com/sitemap.xml", time.Now())
	require.NoError(t, err)

	_, err = store.RecordRunStart("run-dup", "https://example.com/sitemap.xml", time.Now())
	assert.Error(t, err)
}
