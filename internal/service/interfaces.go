// Package service implements the sync core: the operation log of pending
// local mutations, the push algorithm reconciling it with the remote store,
// and the cache-backed collection stores callers mutate data through.
package service

import (
	"context"
	"time"

	"github.com/offsync/offsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// SyncService coordinates the operation log and its reconciliation with the
// remote store.
//
// Concurrent Push invocations over the same log entries are not guarded
// against; serializing Push calls is the caller's responsibility.
type SyncService interface {
	// Count returns the number of distinct pending entities among log
	// entries matching query, after deduplication.
	Count(ctx context.Context, query *models.Query) (int, error)

	// AddCreateOperation queues a pending create for each entity.
	AddCreateOperation(ctx context.Context, collection string, entities ...models.Entity) error

	// AddUpdateOperation queues a pending update for each entity.
	AddUpdateOperation(ctx context.Context, collection string, entities ...models.Entity) error

	// AddDeleteOperation queues a pending delete for each entity.
	AddDeleteOperation(ctx context.Context, collection string, entities ...models.Entity) error

	// Push drains the matching log entries against the remote store in
	// sequential batches and returns one result per processed entry.
	// Per-entity failures are captured in the results, never returned as
	// the call error; entries that failed stay queued for the next Push.
	Push(ctx context.Context, query *models.Query) ([]models.SyncResult, error)

	// Clear discards the matching log entries without any remote
	// reconciliation and returns the number removed.
	Clear(ctx context.Context, query *models.Query) (int, error)
}

// SyncJob is a background worker that periodically pushes pending
// operations.
type SyncJob interface {
	// Start launches the background goroutine pushing every interval
	// (default 5 minutes when non-positive). A previously running job is
	// stopped first.
	Start(ctx context.Context, interval time.Duration)

	// Stop signals the goroutine to exit and blocks until it has fully
	// terminated. Safe to call when the job is not running.
	Stop()
}

// CollectionStore is the caller-facing view of one collection: reads and
// writes go to the local cache, and every mutation queues the matching sync
// operation so it reaches the remote store on the next push.
type CollectionStore interface {
	// Find returns the cached entities matching query.
	Find(ctx context.Context, query *models.Query) ([]models.Entity, error)

	// FindByID returns the cached entity with the given id, or
	// ErrEntityNotFound.
	FindByID(ctx context.Context, id string) (models.Entity, error)

	// Save upserts the entities into the cache and queues a create (for
	// entities without an id, which are assigned a local one) or an
	// update (for the rest). The cached copies are returned.
	Save(ctx context.Context, entities ...models.Entity) ([]models.Entity, error)

	// Remove deletes the cached entities matching query. Entities that
	// only ever existed locally have their pending entry discarded;
	// everything else gets a delete queued. Returns the number removed
	// from the cache.
	Remove(ctx context.Context, query *models.Query) (int, error)
}
