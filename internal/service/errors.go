package service

import (
	"errors"
	"fmt"

	"github.com/offsync/offsync/models"
)

// Validation errors raised by the operation log and push dispatch. Callers
// should match them with [errors.Is]; the offending entity, when there is
// one, travels in the wrapping [SyncError].
var (
	ErrMissingCollectionName  = errors.New("a collection name is required to queue a sync operation")
	ErrMissingEntityID        = errors.New("entity has no id attribute")
	ErrUnrecognizedSyncMethod = errors.New("unrecognized sync method")

	// ErrEntityNotFound is returned by cache reads addressing an id the
	// local cache does not hold.
	ErrEntityNotFound = errors.New("entity was not found in the local cache")
)

// SyncError wraps a validation failure together with the entity that caused
// it.
type SyncError struct {
	Err    error
	Entity models.Entity
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("sync: %v", e.Err)
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

func newSyncError(err error, entity models.Entity) *SyncError {
	return &SyncError{Err: err, Entity: entity}
}
