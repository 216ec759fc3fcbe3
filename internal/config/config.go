// Package config assembles the sync engine configuration from environment
// variables, command-line flags, an optional JSON file, and built-in
// defaults, merged in that order of precedence.
package config

import (
	"time"
)

// Config is the top-level configuration container for the sync engine.
//
// Struct tags:
//   - envPrefix — prefix applied to all nested env tag lookups (caarlos0/env).
//   - env       — direct environment variable name for scalar fields.
type Config struct {
	// App holds backend addressing and entity attribute conventions.
	App App `envPrefix:"APP_"`

	// API holds remote transport settings.
	API API `envPrefix:"API_"`

	// Storage holds local storage backend settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Sync holds operation log and background sync settings.
	Sync Sync `envPrefix:"SYNC_"`

	// Log holds logging settings.
	Log Log `envPrefix:"LOG_"`

	// JSONFilePath is the optional path to a JSON configuration file that is
	// merged on top of environment and flag values.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds backend addressing and the configurable entity attribute names.
type App struct {
	// Namespace is the data namespace all local and remote paths are
	// rooted at. Env: APP_NAMESPACE. Default "appdata".
	Namespace string `env:"NAMESPACE"`

	// Key identifies the application against the remote backend and forms
	// the second segment of every data path. Env: APP_KEY.
	Key string `env:"KEY"`

	// Secret is the application secret used for the default credential
	// type when no session token is set. Env: APP_SECRET.
	Secret string `env:"SECRET"`

	// IDAttribute is the entity attribute holding the unique identifier.
	// Env: APP_ID_ATTRIBUTE. Default "_id".
	IDAttribute string `env:"ID_ATTRIBUTE"`

	// KMDAttribute is the entity attribute holding engine metadata, such
	// as the local-origin marker. Env: APP_KMD_ATTRIBUTE. Default "_kmd".
	KMDAttribute string `env:"KMD_ATTRIBUTE"`
}

// API holds remote transport settings.
type API struct {
	// BaseURL is the root URL of the remote data store.
	// Env: API_BASE_URL.
	BaseURL string `env:"BASE_URL"`

	// RequestTimeout is the default timeout applied to every local and
	// remote request. Env: API_REQUEST_TIMEOUT. Default 15s.
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage holds local storage backend settings.
type Storage struct {
	// DSN is the SQLite file path backing the local store. An empty DSN
	// selects the in-memory backend. Env: STORAGE_DSN.
	DSN string `env:"DSN"`
}

// Sync holds operation log and background sync settings.
type Sync struct {
	// CollectionName is the name of the collection holding pending sync
	// entries. Env: SYNC_COLLECTION_NAME. Default "sync".
	CollectionName string `env:"COLLECTION_NAME"`

	// Interval defines how often the background sync job pushes pending
	// operations. Env: SYNC_INTERVAL. Default 5m.
	Interval time.Duration `env:"INTERVAL"`
}

// Log holds logging settings.
type Log struct {
	// Level is the zerolog level name ("debug", "info", ...).
	// Env: LOG_LEVEL. Default "info".
	Level string `env:"LEVEL"`
}

// defaults returns the built-in fallback configuration merged in last.
func defaults() *Config {
	return &Config{
		App: App{
			Namespace:    "appdata",
			IDAttribute:  "_id",
			KMDAttribute: "_kmd",
		},
		API: API{
			RequestTimeout: 15 * time.Second,
		},
		Sync: Sync{
			CollectionName: "sync",
			Interval:       5 * time.Minute,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Get builds the final configuration by merging environment variables,
// command-line flags from args, an optional JSON file, and defaults.
func Get(args []string) (*Config, error) {
	return newBuilder().
		withEnv().
		withFlags(args).
		withJSON().
		withDefaults().
		build()
}
