package storage

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/videosync/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store, err := NewStore(filepath.Join(t.TempDir(), "videosync.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestCategories(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cats, err := store.ListCategories(ctx)
	require.NoError(t, err)
	assert.Empty(t, cats)

	films, err := store.AddCategory(ctx, models.NewCategory("Фильмы", "filmy"))
	require.NoError(t, err)
	assert.NotEmpty(t, films.ID)
	assert.True(t, films.SearchAllowed)
	assert.True(t, films.RSSAllowed)

	hidden := models.Category{Name: "Скрытая", Slug: "skrytaya", ParentID: films.ID, Position: 2}
	hidden, err = store.AddCategory(ctx, hidden)
	require.NoError(t, err)
	assert.Equal(t, films.ID, hidden.ParentID)
	assert.False(t, hidden.SearchAllowed)
	assert.False(t, hidden.RSSAllowed)

	cats, err = store.ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Фильмы", cats[0].Name)
	assert.Equal(t, "filmy", cats[0].Slug)
	assert.Equal(t, 2, cats[1].Position)

	_, err = store.AddCategory(ctx, models.Category{Name: " "})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	_, err = store.AddCategory(ctx, models.Category{Name: "x", ParentID: "abc"})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestPosts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	record := map[string]any{
		"autor":       "robot",
		"date":        "2024-03-01 12:30:05",
		"title":       "Начало",
		"alt_name":    "nachalo",
		"xfields":     "kp_id|447301",
		"category":    "1,2",
		"tags":        "фантастика,боевик",
		"allow_comm":  0,
		"allow_main":  1,
		"approve":     1,
		"fixed":       0,
		"short_story": "Сон внутри сна",
	}

	id, err := store.SavePost(ctx, record)
	require.NoError(t, err)
	assert.Equal(t, "1", id)

	loaded, err := store.LoadPost(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Начало", loaded["title"])
	assert.Equal(t, "kp_id|447301", loaded["xfields"])
	assert.Equal(t, 0, loaded["allow_comm"])
	assert.Equal(t, 1, loaded["approve"])
	assert.Equal(t, "2024-03-01 12:30:05", loaded["date"])

	loaded["title"] = "Начало (2010)"
	id2, err := store.SavePost(ctx, loaded)
	require.NoError(t, err)
	assert.Equal(t, id, id2)

	n, err := store.CountPosts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	again, err := store.LoadPost(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Начало (2010)", again["title"])
}

func TestLoadPost_Errors(t *testing.T) {
	store := newTestStore(t)

	_, err := store.LoadPost(context.Background(), "42")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = store.LoadPost(context.Background(), "abc")
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}
