package config

import "errors"

// Validation errors returned by [Config.validate] when required settings are
// missing or inconsistent. Callers should match them with [errors.Is].
var (
	// ErrMissingAppKey indicates that no application key was supplied by
	// any configuration source.
	ErrMissingAppKey = errors.New("application key is required")

	// ErrMissingBaseURL indicates that the remote data store URL was not
	// configured.
	ErrMissingBaseURL = errors.New("remote base URL is required")

	// ErrInvalidSyncInterval indicates a non-positive background sync
	// interval.
	ErrInvalidSyncInterval = errors.New("sync interval must be positive")
)
