package service

import (
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/offsync/offsync/internal/logger"
	"github.com/offsync/offsync/internal/mock"
	"github.com/offsync/offsync/internal/rack"
	"github.com/offsync/offsync/internal/store"
)

const (
	testNamespace = "appdata"
	testAppKey    = "app1"
	testSyncName  = "sync"
	testIDAttr    = "_id"
	testKMDAttr   = "_kmd"

	testSyncPath = testNamespace + "/" + testAppKey + "/" + testSyncName
)

// testEngine assembles the sync core over an in-memory backend and a mocked
// remote client, so tests exercise the real pipeline end to end while
// controlling every remote interaction.
type testEngine struct {
	backend store.Storage
	table   *syncTable
	sync    *syncService
	remote  *mock.MockRemoteClient
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()

	log := logger.Nop()
	backend := store.NewMemoryStorage(testIDAttr)
	executor := rack.NewExecutor(rack.NewPipeline(log, rack.NewStorageHandler(backend, log)))
	remote := mock.NewMockRemoteClient(gomock.NewController(t))

	cacheFor := func(name string) *localCollection {
		return newLocalCollection(executor, testNamespace, testAppKey, name, testIDAttr, testKMDAttr, 0)
	}
	table := newSyncTable(executor, testNamespace, testAppKey, testSyncName, testIDAttr, 0)

	return &testEngine{
		backend: backend,
		table:   table,
		sync:    newSyncService(table, remote, cacheFor, testIDAttr, testKMDAttr, log),
		remote:  remote,
	}
}

func (e *testEngine) books() *localCollection {
	return e.sync.cacheFor("books")
}
