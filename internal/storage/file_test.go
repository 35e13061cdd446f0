package storage

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bi-al1/stock-dashboard/internal/common"
	"github.com/bi-al1/stock-dashboard/internal/models"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	store, err := NewFileStore(t.TempDir(), common.NewSilentLogger())
	require.NoError(t, err)
	return store
}

func TestFileStorePutGetRoundTrip(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()
	doc := json.RawMessage(`{"watchlist":[]}`)

	rev, err := store.Put(ctx, "data/watchlist.json", doc, "", "watchlist: init")
	require.NoError(t, err)
	assert.NotEmpty(t, rev)

	got, gotRev, err := store.Get(ctx, "data/watchlist.json")
	require.NoError(t, err)
	assert.JSONEq(t, string(doc), string(got))
	assert.Equal(t, rev, gotRev)
}

func TestFileStoreGetMissing(t *testing.T) {
	store := newTestFileStore(t)

	_, _, err := store.Get(context.Background(), "data/missing.json")
	assert.True(t, models.IsNotFound(err))
}

func TestFileStoreCreateExistingConflicts(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	_, err := store.Put(ctx, "data/doc.json", json.RawMessage(`{}`), "", "create")
	require.NoError(t, err)

	// A second create without a revision must not clobber the document
	_, err = store.Put(ctx, "data/doc.json", json.RawMessage(`{"x":1}`), "", "create again")
	assert.True(t, models.IsConflict(err))
}

func TestFileStoreStaleRevisionConflicts(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	rev1, err := store.Put(ctx, "data/doc.json", json.RawMessage(`{"v":1}`), "", "create")
	require.NoError(t, err)

	_, err = store.Put(ctx, "data/doc.json", json.RawMessage(`{"v":2}`), rev1, "update")
	require.NoError(t, err)

	// rev1 is stale after the second write
	_, err = store.Put(ctx, "data/doc.json", json.RawMessage(`{"v":3}`), rev1, "stale update")
	assert.True(t, models.IsConflict(err))
}

func TestFileStoreUpdateMissing(t *testing.T) {
	store := newTestFileStore(t)

	_, err := store.Put(context.Background(), "data/doc.json", json.RawMessage(`{}`), "deadbeef", "update")
	assert.True(t, models.IsNotFound(err))
}

func TestFileStoreDelete(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	rev, err := store.Put(ctx, "data/doc.json", json.RawMessage(`{}`), "", "create")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "data/doc.json", rev, "remove"))

	_, _, err = store.Get(ctx, "data/doc.json")
	assert.True(t, models.IsNotFound(err))

	err = store.Delete(ctx, "data/doc.json", rev, "remove again")
	assert.True(t, models.IsNotFound(err))
}

func TestFileStoreDeleteStaleRevision(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	rev1, err := store.Put(ctx, "data/doc.json", json.RawMessage(`{"v":1}`), "", "create")
	require.NoError(t, err)
	_, err = store.Put(ctx, "data/doc.json", json.RawMessage(`{"v":2}`), rev1, "update")
	require.NoError(t, err)

	err = store.Delete(ctx, "data/doc.json", rev1, "stale delete")
	assert.True(t, models.IsConflict(err))
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	for _, path := range []string{"../escape.json", "/etc/passwd", "."} {
		_, _, err := store.Get(ctx, path)
		assert.Error(t, err, "path %q should be rejected", path)
		assert.Equal(t, models.KindInvalidInput, models.KindOf(err))
	}
}

func TestLoadSaveJSON(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	doc := models.WatchlistDocument{
		Watchlist: []models.WatchlistEntry{{Code: "7203", Name: "Toyota"}},
	}
	rev, err := SaveJSON(ctx, store, "data/watchlist.json", doc, "", "watchlist: add 7203")
	require.NoError(t, err)

	var loaded models.WatchlistDocument
	loadedRev, err := LoadJSON(ctx, store, "data/watchlist.json", &loaded)
	require.NoError(t, err)
	assert.Equal(t, rev, loadedRev)
	require.Len(t, loaded.Watchlist, 1)
	assert.Equal(t, "7203", loaded.Watchlist[0].Code)
}
