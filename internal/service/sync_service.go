package service

import (
	"context"
	"errors"
	"sync"

	"github.com/offsync/offsync/internal/adapter"
	"github.com/offsync/offsync/internal/logger"
	"github.com/offsync/offsync/models"
)

// pushBatchSize caps the number of simultaneously outstanding remote
// operations within one push batch.
const pushBatchSize = 100

type syncService struct {
	table        *syncTable
	remote       adapter.RemoteClient
	cacheFor     func(collection string) *localCollection
	idAttribute  string
	kmdAttribute string
	log          *logger.Logger
}

func newSyncService(table *syncTable, remote adapter.RemoteClient, cacheFor func(string) *localCollection, idAttribute, kmdAttribute string, log *logger.Logger) *syncService {
	return &syncService{
		table:        table,
		remote:       remote,
		cacheFor:     cacheFor,
		idAttribute:  idAttribute,
		kmdAttribute: kmdAttribute,
		log:          log.Component("sync"),
	}
}

func (s *syncService) Count(ctx context.Context, query *models.Query) (int, error) {
	entries, err := s.table.find(ctx, query)
	if err != nil {
		return 0, err
	}
	return len(dedupeEntries(entries, s.idAttribute)), nil
}

func (s *syncService) AddCreateOperation(ctx context.Context, collection string, entities ...models.Entity) error {
	return s.table.addOperation(ctx, models.SyncMethodCreate, collection, entities)
}

func (s *syncService) AddUpdateOperation(ctx context.Context, collection string, entities ...models.Entity) error {
	return s.table.addOperation(ctx, models.SyncMethodUpdate, collection, entities)
}

func (s *syncService) AddDeleteOperation(ctx context.Context, collection string, entities ...models.Entity) error {
	return s.table.addOperation(ctx, models.SyncMethodDelete, collection, entities)
}

func (s *syncService) Clear(ctx context.Context, query *models.Query) (int, error) {
	return s.table.removeAll(ctx, query)
}

// Push drains the matching log entries against the remote store. Entries are
// deduplicated, then processed in batches of pushBatchSize: batches run
// strictly one after another, entries within a batch run concurrently and
// land in the result in completion order. An empty log returns immediately
// with no network activity.
//
// A cancelled context stops the scheduling of further batches; the in-flight
// batch settles first and its results are returned along with ctx.Err().
func (s *syncService) Push(ctx context.Context, query *models.Query) ([]models.SyncResult, error) {
	entries, err := s.table.find(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []models.SyncResult{}, nil
	}

	entries = dedupeEntries(entries, s.idAttribute)
	results := make([]models.SyncResult, 0, len(entries))

	for start := 0; start < len(entries); start += pushBatchSize {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		batch := entries[start:min(start+pushBatchSize, len(entries))]
		settled := make(chan models.SyncResult, len(batch))

		var wg sync.WaitGroup
		for _, entry := range batch {
			wg.Add(1)
			go func(entry models.SyncEntry) {
				defer wg.Done()
				settled <- s.pushEntry(ctx, entry)
			}(entry)
		}
		wg.Wait()
		close(settled)

		for result := range settled {
			results = append(results, result)
		}
	}

	return results, nil
}

// pushEntry applies one queued operation to the remote store and reconciles
// the log entry and local cache with the outcome. Failures never escape: the
// returned result carries them and the entry stays queued.
func (s *syncService) pushEntry(ctx context.Context, entry models.SyncEntry) models.SyncResult {
	entityID := entry.EntityID(s.idAttribute)

	switch entry.State.Method {
	case models.SyncMethodDelete:
		return s.pushDelete(ctx, entry, entityID)
	case models.SyncMethodCreate, models.SyncMethodUpdate:
		return s.pushSave(ctx, entry, entityID)
	default:
		return models.SyncResult{
			ID:     entityID,
			Entity: entry.Entity,
			Err:    newSyncError(ErrUnrecognizedSyncMethod, entry.Entity),
		}
	}
}

func (s *syncService) pushDelete(ctx context.Context, entry models.SyncEntry, entityID string) models.SyncResult {
	if _, err := s.remote.Delete(ctx, entry.Collection, entityID); err != nil {
		s.recoverEntity(ctx, entry.Collection, entityID, err)
		return models.SyncResult{ID: entityID, Entity: entry.Entity, Err: err}
	}

	if err := s.table.remove(ctx, entry); err != nil {
		return models.SyncResult{ID: entityID, Entity: entry.Entity, Err: err}
	}
	return models.SyncResult{ID: entityID, Entity: entry.Entity}
}

func (s *syncService) pushSave(ctx context.Context, entry models.SyncEntry, entityID string) models.SyncResult {
	var (
		serverEntity models.Entity
		err          error
	)

	isCreate := entry.State.Method == models.SyncMethodCreate
	if isCreate {
		// the locally generated id never reaches the server; the server
		// assigns its own on create
		payload := entry.Entity.Clone()
		delete(payload, s.idAttribute)
		payload.ClearLocal(s.kmdAttribute)
		serverEntity, err = s.remote.Create(ctx, entry.Collection, payload)
	} else {
		serverEntity, err = s.remote.Update(ctx, entry.Collection, entityID, entry.Entity)
	}

	if err != nil {
		// a create has no prior remote state to restore
		if !isCreate {
			s.recoverEntity(ctx, entry.Collection, entityID, err)
		}
		return models.SyncResult{ID: entityID, Entity: entry.Entity, Err: err}
	}

	result := models.SyncResult{ID: entityID, Entity: serverEntity}

	if err = s.table.remove(ctx, entry); err != nil {
		result.Err = err
		return result
	}

	cache := s.cacheFor(entry.Collection)
	if _, err = cache.save(ctx, serverEntity); err != nil {
		result.Err = err
		return result
	}

	if isCreate {
		// the entity must not survive under both its local and its
		// server-assigned id
		if serverID := serverEntity.ID(s.idAttribute); serverID != entityID {
			if _, err = cache.removeByID(ctx, entityID); err != nil {
				result.Err = err
			}
		}
	}

	return result
}

// recoverEntity restores the local cache from the remote store after an
// insufficient-credentials rejection. Recovery is advisory: any error it
// runs into is logged and discarded.
func (s *syncService) recoverEntity(ctx context.Context, collection, entityID string, cause error) {
	if !errors.Is(cause, adapter.ErrInsufficientCredentials) {
		return
	}

	remoteCopy, err := s.remote.FindByID(ctx, collection, entityID)
	if err != nil {
		s.log.Debug().Err(err).
			Str("collection", collection).
			Str("entity_id", entityID).
			Msg("recovery fetch failed, local cache left untouched")
		return
	}

	if _, err = s.cacheFor(collection).save(ctx, remoteCopy); err != nil {
		s.log.Debug().Err(err).
			Str("collection", collection).
			Str("entity_id", entityID).
			Msg("recovery cache overwrite failed")
	}
}

// discardEntity drops any pending entry for (collection, entityID) without
// remote reconciliation. Used when a locally created entity is removed
// before it ever reached the server.
func (s *syncService) discardEntity(ctx context.Context, collection, entityID string) error {
	query := models.NewQuery().
		EqualTo("collection", collection).
		EqualTo("entity."+s.idAttribute, entityID)

	_, err := s.table.removeAll(ctx, query)
	return err
}
