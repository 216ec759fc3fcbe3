package config

import (
	"flag"
	"fmt"
	"time"
)

// parseFlags parses configuration flags from args (normally os.Args[1:]).
// A fresh FlagSet is used so tests can call parseFlags repeatedly without
// touching global flag state. Unset flags stay at their zero value and are
// filled by later config sources during the merge.
//
// Flags:
//
//	-base-url          remote data store root URL
//	-app-key           application key
//	-app-secret        application secret
//	-namespace         data namespace
//	-d                 local SQLite storage path (empty = in-memory)
//	-sync-collection   name of the pending-operations collection
//	-sync-interval     background push interval (e.g. "5m")
//	-request-timeout   per-request timeout (e.g. "15s")
//	-log-level         zerolog level name
//	-c/-config         json file path with configs
func parseFlags(args []string) (*Config, error) {
	fs := flag.NewFlagSet("offsync", flag.ContinueOnError)

	var (
		baseURL        string
		appKey         string
		appSecret      string
		namespace      string
		dsn            string
		syncCollection string
		syncInterval   time.Duration
		requestTimeout time.Duration
		logLevel       string
		jsonConfigPath string
	)

	fs.StringVar(&baseURL, "base-url", "", "Remote data store root URL")
	fs.StringVar(&appKey, "app-key", "", "Application key")
	fs.StringVar(&appSecret, "app-secret", "", "Application secret")
	fs.StringVar(&namespace, "namespace", "", "Data namespace")
	fs.StringVar(&dsn, "d", "", "Local SQLite storage path")
	fs.StringVar(&syncCollection, "sync-collection", "", "Pending-operations collection name")
	fs.DurationVar(&syncInterval, "sync-interval", 0, "Background push interval (e.g. 5m)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Per-request timeout (e.g. 15s)")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &Config{
		App: App{
			Namespace: namespace,
			Key:       appKey,
			Secret:    appSecret,
		},
		API: API{
			BaseURL:        baseURL,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			DSN: dsn,
		},
		Sync: Sync{
			CollectionName: syncCollection,
			Interval:       syncInterval,
		},
		Log: Log{
			Level: logLevel,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}
