package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/existflow/quickadd/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestGetSetDelete(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	_, ok, err := db.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, db.Set(ctx, "k", "one"))
	require.NoError(t, db.Set(ctx, "k", "two"))
	v, ok, err := db.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", v)

	require.NoError(t, db.Delete(ctx, "k"))
	_, ok, err = db.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSubscribe(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	var keys []string
	unsubscribe := db.Subscribe(func(key string) { keys = append(keys, key) })

	require.NoError(t, db.SaveProjectMetadata(ctx, []int64{1}, []int64{2}))
	unsubscribe()
	require.NoError(t, db.Set(ctx, "ignored", "x"))

	assert.Equal(t, []string{KeyFavorites, KeyServerRecents}, keys)
}

func TestProjectMetadata(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	favs, err := db.Favorites(ctx)
	require.NoError(t, err)
	assert.Empty(t, favs)

	require.NoError(t, db.SaveProjectMetadata(ctx, []int64{4, 2}, nil))

	favs, err = db.Favorites(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 2}, favs)

	recents, err := db.ServerRecents(ctx)
	require.NoError(t, err)
	assert.Empty(t, recents)
}

func TestPushRecent(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	for _, id := range []int64{1, 2, 3, 4, 5, 6, 3} {
		_, err := db.PushRecent(ctx, id)
		require.NoError(t, err)
	}

	recents, err := db.LocalRecents(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 6, 5, 4, 2}, recents)
}

func TestPushRecent_ReplacesCorruptList(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	require.NoError(t, db.Set(ctx, KeyLocalRecents, "not json"))
	recents, err := db.PushRecent(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, []int64{9}, recents)
}

func TestPendingCapture_TakenOnce(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	c, err := db.TakePendingCapture(ctx)
	require.NoError(t, err)
	assert.Nil(t, c)

	want := &model.Capture{
		ID:          "abc",
		Title:       "Quoted text",
		Description: "<p>From: <a href=\"https://example.com\">Example</a></p>",
		Source:      model.SourceSelection,
		CreatedAt:   time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.SetPendingCapture(ctx, want))

	peeked, err := db.PeekPendingCapture(ctx)
	require.NoError(t, err)
	require.NotNil(t, peeked)

	got, err := db.TakePendingCapture(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want.Title, got.Title)
	assert.Equal(t, want.Description, got.Description)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))

	again, err := db.TakePendingCapture(ctx)
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestClearLocal_KeepsServerState(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	require.NoError(t, db.SaveProjectMetadata(ctx, []int64{1}, []int64{1}))
	require.NoError(t, db.SetBridgeSecretHash(ctx, "hash"))
	_, err := db.PushRecent(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, db.SetPendingCapture(ctx, &model.Capture{ID: "x", Title: "t"}))

	require.NoError(t, db.ClearLocal(ctx))

	recents, err := db.LocalRecents(ctx)
	require.NoError(t, err)
	assert.Empty(t, recents)
	c, err := db.PeekPendingCapture(ctx)
	require.NoError(t, err)
	assert.Nil(t, c)

	favs, err := db.Favorites(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, favs)
	hash, err := db.BridgeSecretHash(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hash", hash)
}
