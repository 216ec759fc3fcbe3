package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offsync/offsync/models"
)

func TestSyncTable_AddOperationQueues(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	err := e.table.addOperation(ctx, models.SyncMethodCreate, "books", []models.Entity{
		{"_id": "b1", "title": "dune"},
	})
	require.NoError(t, err)

	entries, err := e.table.find(ctx, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, "books", entry.Collection)
	assert.Equal(t, models.SyncMethodCreate, entry.State.Method)
	assert.Equal(t, "b1", entry.EntityID(testIDAttr))
	assert.NotZero(t, entry.Key)
	assert.NotEmpty(t, entry.ID)
}

func TestSyncTable_AddOperationCoalesces(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, e.table.addOperation(ctx, models.SyncMethodCreate, "books", []models.Entity{
		{"_id": "b1", "title": "dune"},
	}))
	require.NoError(t, e.table.addOperation(ctx, models.SyncMethodUpdate, "books", []models.Entity{
		{"_id": "b1", "title": "dune, revised"},
	}))

	entries, err := e.table.find(ctx, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	assert.Equal(t, models.SyncMethodUpdate, entry.State.Method)
	assert.Equal(t, "dune, revised", entry.Entity["title"])
}

func TestSyncTable_AddOperationScopedByCollection(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	// the same entity id in two collections must not coalesce
	require.NoError(t, e.table.addOperation(ctx, models.SyncMethodCreate, "books", []models.Entity{
		{"_id": "shared", "title": "dune"},
	}))
	require.NoError(t, e.table.addOperation(ctx, models.SyncMethodDelete, "authors", []models.Entity{
		{"_id": "shared", "name": "herbert"},
	}))

	entries, err := e.table.find(ctx, nil)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	methods := map[string]models.SyncMethod{}
	for _, entry := range entries {
		methods[entry.Collection] = entry.State.Method
	}
	assert.Equal(t, models.SyncMethodCreate, methods["books"])
	assert.Equal(t, models.SyncMethodDelete, methods["authors"])
}

func TestSyncTable_AddOperationValidation(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	t.Run("missing collection name", func(t *testing.T) {
		err := e.table.addOperation(ctx, models.SyncMethodCreate, "", []models.Entity{
			{"_id": "b1"},
		})
		require.ErrorIs(t, err, ErrMissingCollectionName)
	})

	t.Run("missing entity id", func(t *testing.T) {
		offender := models.Entity{"title": "no id here"}
		err := e.table.addOperation(ctx, models.SyncMethodUpdate, "books", []models.Entity{offender})
		require.ErrorIs(t, err, ErrMissingEntityID)

		var syncErr *SyncError
		require.ErrorAs(t, err, &syncErr)
		assert.Equal(t, offender, syncErr.Entity)
	})

	t.Run("nil entities are skipped", func(t *testing.T) {
		err := e.table.addOperation(ctx, models.SyncMethodCreate, "books", []models.Entity{nil})
		require.NoError(t, err)
	})
}

func TestSyncTable_FindByEntityIDPicksHighestKey(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	// duplicates written straight to storage, as concurrent writers could
	// leave behind
	older := models.SyncEntry{Collection: "books", Entity: models.Entity{"_id": "b1", "v": "old"}, State: models.SyncState{Method: models.SyncMethodCreate}}
	newer := models.SyncEntry{Collection: "books", Entity: models.Entity{"_id": "b1", "v": "new"}, State: models.SyncState{Method: models.SyncMethodUpdate}}
	for _, entry := range []models.SyncEntry{older, newer} {
		doc, err := entry.ToEntity()
		require.NoError(t, err)
		_, err = e.backend.Save(ctx, testSyncPath, []models.Entity{doc})
		require.NoError(t, err)
	}

	live, found, err := e.table.findByEntityID(ctx, "books", "b1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "new", live.Entity["v"])
	assert.Equal(t, models.SyncMethodUpdate, live.State.Method)
}

func TestSyncTable_FindByEntityIDMiss(t *testing.T) {
	e := newTestEngine(t)

	_, found, err := e.table.findByEntityID(context.Background(), "books", "missing")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestDedupeEntries(t *testing.T) {
	entries := []models.SyncEntry{
		{Key: 1, Collection: "books", Entity: models.Entity{"_id": "b1", "v": "first"}},
		{Key: 3, Collection: "books", Entity: models.Entity{"_id": "b1", "v": "third"}},
		{Key: 2, Collection: "authors", Entity: models.Entity{"_id": "b1", "v": "other collection"}},
	}

	deduped := dedupeEntries(entries, testIDAttr)

	require.Len(t, deduped, 2)
	assert.Equal(t, int64(3), deduped[0].Key)
	assert.Equal(t, "third", deduped[0].Entity["v"])
	assert.Equal(t, "authors", deduped[1].Collection)

	// input order is untouched
	assert.Equal(t, int64(1), entries[0].Key)
}

func TestSyncTable_RemoveAll(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	require.NoError(t, e.table.addOperation(ctx, models.SyncMethodCreate, "books", []models.Entity{
		{"_id": "b1"}, {"_id": "b2"},
	}))
	require.NoError(t, e.table.addOperation(ctx, models.SyncMethodDelete, "authors", []models.Entity{
		{"_id": "a1"},
	}))

	removed, err := e.table.removeAll(ctx, models.NewQuery().EqualTo("collection", "books"))
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	entries, err := e.table.find(ctx, nil)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "authors", entries[0].Collection)
}
