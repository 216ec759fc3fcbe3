package adapter

import "errors"

// Sentinel errors mapped from remote responses. Callers should match them
// with [errors.Is].
var (
	// ErrInsufficientCredentials is returned when the remote store rejects
	// a request for authorization reasons (401 or 403). The push algorithm
	// triggers its best-effort local recovery on this error.
	ErrInsufficientCredentials = errors.New("insufficient credentials to perform the request")

	// ErrNotFound is returned when the addressed entity does not exist on
	// the remote store.
	ErrNotFound = errors.New("entity was not found on the remote store")

	// ErrBadRequest is returned when the remote store rejects the request
	// payload.
	ErrBadRequest = errors.New("remote store rejected the request")
)
