// Package adapter provides the remote transport collaborator of the sync
// engine.
//
// The primary abstraction is [RemoteClient], which decouples the sync
// coordinator from the wire protocol. The package ships an HTTP/REST
// implementation ([NewHTTPRemoteClient]) addressing collections at
// /{namespace}/{appKey}/{collection}[/{id}].
//
// Transport failures are mapped to the sentinel errors in errors.go by
// mapHTTPError so callers can use [errors.Is] for transport-agnostic error
// handling (notably [ErrInsufficientCredentials] for 401/403 and
// [ErrNotFound] for 404).
package adapter

import (
	"context"

	"github.com/offsync/offsync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_client_mock.go -package=mock

// RemoteClient defines transport-agnostic access to the remote data store.
// Implementations are responsible for serialisation, credential handling,
// and mapping transport-level failures to the package's sentinel errors.
type RemoteClient interface {
	// SetToken stores the session token attached to all subsequent
	// requests. While no token is set, requests fall back to the default
	// application credentials.
	SetToken(token string)

	// Token returns the session token currently stored in the client, or
	// an empty string if none has been set.
	Token() string

	// FindByID fetches the single entity with the given id from
	// collection. Returns ErrNotFound (wrapped) when the remote store has
	// no such entity.
	FindByID(ctx context.Context, collection, id string) (models.Entity, error)

	// Find fetches the entities of collection matching query. A nil query
	// fetches the whole collection.
	Find(ctx context.Context, collection string, query *models.Query) ([]models.Entity, error)

	// Create posts a new entity to collection's creation endpoint and
	// returns the server copy, which is authoritative for generated and
	// derived fields such as the assigned id.
	Create(ctx context.Context, collection string, entity models.Entity) (models.Entity, error)

	// Update puts the full entity to its entity-specific endpoint and
	// returns the server copy.
	Update(ctx context.Context, collection, id string, entity models.Entity) (models.Entity, error)

	// Delete removes the entity with the given id from collection and
	// returns the number of entities the server reports removed.
	Delete(ctx context.Context, collection, id string) (int, error)
}
