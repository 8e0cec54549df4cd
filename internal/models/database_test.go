package models

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunJournal(t *testing.T) {
	db := openTestDatabase(t)

	older := &SyncRun{ID: "run-1", Status: RunStatusRunning, StartedAt: time.Now().Add(-time.Hour)}
	newer := &SyncRun{ID: "run-2", Status: RunStatusRunning, Origins: []Origin{OriginKodik}}
	require.NoError(t, db.CreateRun(older))
	require.NoError(t, db.CreateRun(newer))

	newer.Created = 3
	require.NoError(t, db.FinishRun(newer, RunStatusCompleted, nil))

	got, err := db.GetRun("run-2")
	require.NoError(t, err)
	assert.Equal(t, RunStatusCompleted, got.Status)
	assert.Equal(t, 3, got.Created)
	assert.NotNil(t, got.FinishedAt)

	runs, err := db.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "run-2", runs[0].ID)

	running, err := db.GetRunsByStatus(RunStatusRunning)
	require.NoError(t, err)
	require.Len(t, running, 1)
	assert.Equal(t, "run-1", running[0].ID)

	_, err = db.GetRun("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVideoLinks(t *testing.T) {
	db := openTestDatabase(t)

	_, err := db.GetLink("kodik:1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, db.SaveLink(&VideoLink{Key: "kodik:1", Origin: OriginKodik, VideoID: "1", PostID: "10"}))
	require.NoError(t, db.SaveLink(&VideoLink{Key: "kodik:1", Origin: OriginKodik, VideoID: "1", PostID: "11"}))
	require.NoError(t, db.SaveLink(&VideoLink{Key: "tmdb:5", Origin: OriginTmdb, VideoID: "5", PostID: "12"}))

	link, err := db.GetLink("kodik:1")
	require.NoError(t, err)
	assert.Equal(t, "11", link.PostID)

	links, err := db.GetLinksByOrigin(OriginKodik)
	require.NoError(t, err)
	assert.Len(t, links, 1)
}
