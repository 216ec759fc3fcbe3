package service

import (
	"context"

	"github.com/offsync/offsync/models"
)

// collectionStore is the caller-facing store for one collection: mutations
// land in the local cache first and queue the matching sync operation, so
// they survive offline periods and reach the remote store on the next push.
type collectionStore struct {
	collection string
	cache      *localCollection
	sync       *syncService
}

func newCollectionStore(collection string, cache *localCollection, sync *syncService) CollectionStore {
	return &collectionStore{
		collection: collection,
		cache:      cache,
		sync:       sync,
	}
}

func (s *collectionStore) Find(ctx context.Context, query *models.Query) ([]models.Entity, error) {
	return s.cache.find(ctx, query)
}

func (s *collectionStore) FindByID(ctx context.Context, id string) (models.Entity, error) {
	return s.cache.findByID(ctx, id)
}

func (s *collectionStore) Save(ctx context.Context, entities ...models.Entity) ([]models.Entity, error) {
	// nil entities are dropped up front so the saved result aligns with
	// the inputs; those without an id yet become creates, the rest updates
	input := make([]models.Entity, 0, len(entities))
	for _, ent := range entities {
		if ent != nil {
			input = append(input, ent)
		}
	}

	creates := make([]bool, len(input))
	for i, ent := range input {
		creates[i] = ent.ID(s.cache.idAttribute) == ""
	}

	saved, err := s.cache.save(ctx, input...)
	if err != nil {
		return nil, err
	}

	var toCreate, toUpdate []models.Entity
	for i, ent := range saved {
		if creates[i] {
			toCreate = append(toCreate, ent)
			continue
		}
		toUpdate = append(toUpdate, ent)
	}

	if len(toCreate) > 0 {
		if err = s.sync.AddCreateOperation(ctx, s.collection, toCreate...); err != nil {
			return nil, err
		}
	}
	if len(toUpdate) > 0 {
		if err = s.sync.AddUpdateOperation(ctx, s.collection, toUpdate...); err != nil {
			return nil, err
		}
	}

	return saved, nil
}

func (s *collectionStore) Remove(ctx context.Context, query *models.Query) (int, error) {
	entities, err := s.cache.find(ctx, query)
	if err != nil {
		return 0, err
	}
	if len(entities) == 0 {
		return 0, nil
	}

	var toDelete []models.Entity
	for _, ent := range entities {
		// an entity the server never saw needs no remote delete; its
		// pending create is simply discarded
		if ent.IsLocal(s.cache.kmdAttribute) {
			if err = s.sync.discardEntity(ctx, s.collection, ent.ID(s.cache.idAttribute)); err != nil {
				return 0, err
			}
			continue
		}
		toDelete = append(toDelete, ent)
	}

	if len(toDelete) > 0 {
		if err = s.sync.AddDeleteOperation(ctx, s.collection, toDelete...); err != nil {
			return 0, err
		}
	}

	return s.cache.remove(ctx, query)
}
