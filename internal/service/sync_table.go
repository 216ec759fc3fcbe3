package service

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/offsync/offsync/internal/rack"
	"github.com/offsync/offsync/models"
)

// syncTable is the operation log: a collection of pending sync entries kept
// in local storage at {namespace}/{appKey}/{syncCollectionName}, manipulated
// only through the request pipeline.
type syncTable struct {
	executor    *rack.Executor
	path        string
	idAttribute string
	timeout     time.Duration
}

func newSyncTable(executor *rack.Executor, namespace, appKey, collectionName, idAttribute string, timeout time.Duration) *syncTable {
	return &syncTable{
		executor:    executor,
		path:        fmt.Sprintf("%s/%s/%s", namespace, appKey, collectionName),
		idAttribute: idAttribute,
		timeout:     timeout,
	}
}

// addOperation records method as the pending operation for each entity,
// coalescing with any entry already queued for the same entity: the existing
// log row is overwritten in place with the new method and payload. Upserts
// for distinct entities run concurrently; the call fails if any of them
// fails.
func (t *syncTable) addOperation(ctx context.Context, method models.SyncMethod, collection string, entities []models.Entity) error {
	if collection == "" {
		return newSyncError(ErrMissingCollectionName, nil)
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, ent := range entities {
		if ent == nil {
			continue
		}
		ent := ent
		g.Go(func() error {
			entityID := ent.ID(t.idAttribute)
			if entityID == "" {
				return newSyncError(ErrMissingEntityID, ent)
			}

			entry, found, err := t.findByEntityID(gctx, collection, entityID)
			if err != nil {
				return err
			}
			if !found {
				entry = models.SyncEntry{Collection: collection}
			}

			entry.State.Method = method
			entry.Entity = ent
			return t.upsert(gctx, entry)
		})
	}

	return g.Wait()
}

// find returns the log entries matching query, in storage order.
func (t *syncTable) find(ctx context.Context, query *models.Query) ([]models.SyncEntry, error) {
	req := rack.NewRequest(http.MethodGet, t.path)
	req.Query = query
	req.Timeout = t.timeout

	resp, err := t.executor.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	docs, err := resp.Entities()
	if err != nil {
		return nil, err
	}

	entries := make([]models.SyncEntry, 0, len(docs))
	for _, doc := range docs {
		entry, err := models.SyncEntryFromEntity(doc)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// findByEntityID looks up the live log entry for (collection, entityID).
// Should storage hold duplicates from concurrent writers, the entry with the
// highest insertion token wins.
func (t *syncTable) findByEntityID(ctx context.Context, collection, entityID string) (models.SyncEntry, bool, error) {
	query := models.NewQuery().
		EqualTo("collection", collection).
		EqualTo("entity."+t.idAttribute, entityID)

	entries, err := t.find(ctx, query)
	if err != nil {
		return models.SyncEntry{}, false, err
	}
	if len(entries) == 0 {
		return models.SyncEntry{}, false, nil
	}

	live := entries[0]
	for _, entry := range entries[1:] {
		if entry.Key > live.Key {
			live = entry
		}
	}
	return live, true, nil
}

func (t *syncTable) upsert(ctx context.Context, entry models.SyncEntry) error {
	doc, err := entry.ToEntity()
	if err != nil {
		return err
	}

	req := rack.NewRequest(http.MethodPut, t.path)
	req.Body = doc
	req.Timeout = t.timeout

	_, err = t.executor.Execute(ctx, req)
	return err
}

func (t *syncTable) remove(ctx context.Context, entry models.SyncEntry) error {
	req := rack.NewRequest(http.MethodDelete, t.path)
	req.ID = entry.ID
	req.Timeout = t.timeout

	_, err := t.executor.Execute(ctx, req)
	return err
}

func (t *syncTable) removeAll(ctx context.Context, query *models.Query) (int, error) {
	req := rack.NewRequest(http.MethodDelete, t.path)
	req.Query = query
	req.Timeout = t.timeout

	resp, err := t.executor.Execute(ctx, req)
	if err != nil {
		return 0, err
	}
	return resp.Count()
}

// dedupeEntries applies the local last-writer-wins rule: entries are ordered
// by insertion token descending and only the first occurrence per
// (collection, entity id) pair survives. Ignored duplicates are left in
// storage untouched.
func dedupeEntries(entries []models.SyncEntry, idAttribute string) []models.SyncEntry {
	sorted := make([]models.SyncEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Key > sorted[j].Key
	})

	seen := make(map[string]struct{}, len(sorted))
	deduped := make([]models.SyncEntry, 0, len(sorted))
	for _, entry := range sorted {
		pair := entry.Collection + "\x00" + entry.EntityID(idAttribute)
		if _, ok := seen[pair]; ok {
			continue
		}
		seen[pair] = struct{}{}
		deduped = append(deduped, entry)
	}
	return deduped
}
