package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/offsync/offsync/models"
)

const booksPath = "appdata/app1/books"

func TestMemoryStorage_SaveAssignsIDAndKey(t *testing.T) {
	s := NewMemoryStorage("_id")
	ctx := context.Background()

	saved, err := s.Save(ctx, booksPath, []models.Entity{
		{"title": "dune"},
		{"title": "hyperion"},
	})
	require.NoError(t, err)
	require.Len(t, saved, 2)

	assert.NotEmpty(t, saved[0].ID("_id"))
	assert.NotEmpty(t, saved[1].ID("_id"))
	assert.NotEqual(t, saved[0].ID("_id"), saved[1].ID("_id"))

	// insertion tokens are monotonically increasing
	assert.Equal(t, int64(1), saved[0][models.KeyAttribute])
	assert.Equal(t, int64(2), saved[1][models.KeyAttribute])
}

func TestMemoryStorage_OverwriteKeepsKey(t *testing.T) {
	s := NewMemoryStorage("_id")
	ctx := context.Background()

	saved, err := s.Save(ctx, booksPath, []models.Entity{{"_id": "b1", "title": "dune"}})
	require.NoError(t, err)
	firstKey := saved[0][models.KeyAttribute]

	saved, err = s.Save(ctx, booksPath, []models.Entity{{"_id": "b1", "title": "dune 2"}})
	require.NoError(t, err)
	assert.Equal(t, firstKey, saved[0][models.KeyAttribute])

	found, err := s.Find(ctx, booksPath, nil)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "dune 2", found[0]["title"])
}

func TestMemoryStorage_FindDottedFilter(t *testing.T) {
	s := NewMemoryStorage("_id")
	ctx := context.Background()

	_, err := s.Save(ctx, booksPath, []models.Entity{
		{"_id": "r1", "entity": map[string]any{"_id": "b1"}},
		{"_id": "r2", "entity": map[string]any{"_id": "b2"}},
	})
	require.NoError(t, err)

	found, err := s.Find(ctx, booksPath, models.NewQuery().EqualTo("entity._id", "b2"))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "r2", found[0].ID("_id"))
}

func TestMemoryStorage_FindIsolatedByPath(t *testing.T) {
	s := NewMemoryStorage("_id")
	ctx := context.Background()

	_, err := s.Save(ctx, booksPath, []models.Entity{{"_id": "b1"}})
	require.NoError(t, err)

	found, err := s.Find(ctx, "appdata/app1/films", nil)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestMemoryStorage_Remove(t *testing.T) {
	s := NewMemoryStorage("_id")
	ctx := context.Background()

	_, err := s.Save(ctx, booksPath, []models.Entity{
		{"_id": "b1", "genre": "sf"},
		{"_id": "b2", "genre": "sf"},
		{"_id": "b3", "genre": "fantasy"},
	})
	require.NoError(t, err)

	n, err := s.RemoveByID(ctx, booksPath, "b3")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = s.RemoveByID(ctx, booksPath, "missing")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.Remove(ctx, booksPath, models.NewQuery().EqualTo("genre", "sf"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	found, err := s.Find(ctx, booksPath, nil)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestMemoryStorage_FindReturnsClones(t *testing.T) {
	s := NewMemoryStorage("_id")
	ctx := context.Background()

	_, err := s.Save(ctx, booksPath, []models.Entity{{"_id": "b1", "title": "dune"}})
	require.NoError(t, err)

	found, err := s.Find(ctx, booksPath, nil)
	require.NoError(t, err)
	found[0]["title"] = "mutated"

	again, err := s.Find(ctx, booksPath, nil)
	require.NoError(t, err)
	assert.Equal(t, "dune", again[0]["title"])
}
