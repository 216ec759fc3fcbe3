// Package store provides the local storage collaborators the request
// pipeline dispatches to. Documents are addressed by a collection path of
// the form {namespace}/{appKey}/{collection}; each stored document carries
// an id under the configured id attribute and a monotonically increasing
// insertion token under models.KeyAttribute, both assigned on first insert.
package store

import (
	"context"

	"github.com/offsync/offsync/models"
)

//go:generate mockgen -source=storage.go -destination=../mock/storage_mock.go -package=mock

// Storage is the backend contract behind the pipeline's storage handler.
// Query evaluation (equality over possibly dotted attribute paths) is the
// backend's concern; the sync core treats queries as opaque.
type Storage interface {
	// Find returns the documents stored under path matching query.
	// A nil or empty query matches everything.
	Find(ctx context.Context, path string, query *models.Query) ([]models.Entity, error)

	// Save upserts the given documents under path. A document without an
	// id is assigned a fresh one; a document inserted for the first time
	// is assigned the next insertion token, while an overwrite keeps the
	// token of the row it replaces. The stored documents are returned
	// with both attributes populated.
	Save(ctx context.Context, path string, entities []models.Entity) ([]models.Entity, error)

	// RemoveByID deletes the single document with the given id, returning
	// the number of documents removed (0 or 1).
	RemoveByID(ctx context.Context, path, id string) (int, error)

	// Remove deletes every document under path matching query and returns
	// the number removed.
	Remove(ctx context.Context, path string, query *models.Query) (int, error)

	// Close releases the backend's resources.
	Close() error
}
