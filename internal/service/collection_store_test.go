package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offsync/offsync/models"
)

func newTestCollectionStore(t *testing.T) (*testEngine, CollectionStore) {
	t.Helper()
	e := newTestEngine(t)
	return e, newCollectionStore("books", e.books(), e.sync)
}

func TestCollectionStore_SaveQueuesOperations(t *testing.T) {
	e, store := newTestCollectionStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx,
		models.Entity{"title": "brand new"},
		models.Entity{"_id": "b1", "title": "already known"},
		nil,
	)
	require.NoError(t, err)
	require.Len(t, saved, 2)

	assert.NotEmpty(t, saved[0].ID(testIDAttr))
	assert.True(t, saved[0].IsLocal(testKMDAttr))
	assert.Equal(t, "b1", saved[1].ID(testIDAttr))
	assert.False(t, saved[1].IsLocal(testKMDAttr))

	entries, err := e.table.find(ctx, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	methods := map[string]models.SyncMethod{}
	for _, entry := range entries {
		methods[entry.EntityID(testIDAttr)] = entry.State.Method
	}
	assert.Equal(t, models.SyncMethodCreate, methods[saved[0].ID(testIDAttr)])
	assert.Equal(t, models.SyncMethodUpdate, methods["b1"])
}

func TestCollectionStore_FindReadsTheCache(t *testing.T) {
	_, store := newTestCollectionStore(t)
	ctx := context.Background()

	_, err := store.Save(ctx, models.Entity{"_id": "b1", "title": "dune", "year": 1965})
	require.NoError(t, err)

	found, err := store.Find(ctx, models.NewQuery().EqualTo("year", 1965))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "dune", found[0]["title"])

	single, err := store.FindByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "dune", single["title"])

	_, err = store.FindByID(ctx, "nope")
	assert.ErrorIs(t, err, ErrEntityNotFound)
}

func TestCollectionStore_RemoveQueuesDeletes(t *testing.T) {
	e, store := newTestCollectionStore(t)
	ctx := context.Background()

	_, err := store.Save(ctx, models.Entity{"_id": "b1", "title": "dune"})
	require.NoError(t, err)

	removed, err := store.Remove(ctx, models.NewQuery().EqualTo(testIDAttr, "b1"))
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	entries, err := e.table.find(ctx, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.SyncMethodDelete, entries[0].State.Method)

	found, err := store.Find(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestCollectionStore_RemoveDiscardsLocalOnlyEntities(t *testing.T) {
	e, store := newTestCollectionStore(t)
	ctx := context.Background()

	// never pushed: its pending create must be discarded, not turned into
	// a remote delete
	saved, err := store.Save(ctx, models.Entity{"title": "local only"})
	require.NoError(t, err)
	require.True(t, saved[0].IsLocal(testKMDAttr))

	removed, err := store.Remove(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	count, err := e.sync.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCollectionStore_RemoveNoMatches(t *testing.T) {
	_, store := newTestCollectionStore(t)

	removed, err := store.Remove(context.Background(), models.NewQuery().EqualTo(testIDAttr, "ghost"))
	require.NoError(t, err)
	assert.Zero(t, removed)
}
