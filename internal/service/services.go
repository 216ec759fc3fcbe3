package service

import (
	"github.com/offsync/offsync/internal/adapter"
	"github.com/offsync/offsync/internal/config"
	"github.com/offsync/offsync/internal/logger"
	"github.com/offsync/offsync/internal/rack"
)

// Services wires the sync core over a request pipeline and a remote client.
// One Services value serves the whole engine; collection stores are created
// on demand through Collection.
type Services struct {
	Sync SyncService
	Job  SyncJob

	cfg      *config.Config
	executor *rack.Executor
	syncSvc  *syncService
}

// NewServices builds the sync core from its collaborators. The pipeline is
// owned by the caller, which remains responsible for closing it.
func NewServices(cfg *config.Config, pipeline *rack.Pipeline, remote adapter.RemoteClient, log *logger.Logger) *Services {
	executor := rack.NewExecutor(pipeline)

	cacheFor := func(collection string) *localCollection {
		return newLocalCollection(
			executor,
			cfg.App.Namespace, cfg.App.Key, collection,
			cfg.App.IDAttribute, cfg.App.KMDAttribute,
			cfg.API.RequestTimeout,
		)
	}

	table := newSyncTable(
		executor,
		cfg.App.Namespace, cfg.App.Key, cfg.Sync.CollectionName,
		cfg.App.IDAttribute,
		cfg.API.RequestTimeout,
	)

	syncSvc := newSyncService(table, remote, cacheFor, cfg.App.IDAttribute, cfg.App.KMDAttribute, log)

	return &Services{
		Sync:     syncSvc,
		Job:      NewSyncJob(syncSvc, log),
		cfg:      cfg,
		executor: executor,
		syncSvc:  syncSvc,
	}
}

// Collection returns the caller-facing store for the named collection.
func (s *Services) Collection(name string) CollectionStore {
	return newCollectionStore(name, s.syncSvc.cacheFor(name), s.syncSvc)
}
