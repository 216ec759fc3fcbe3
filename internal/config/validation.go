package config

// validate checks that the final merged [Config] satisfies the invariants
// the engine relies on at startup.
func (cfg *Config) validate() error {
	if cfg.App.Key == "" {
		return ErrMissingAppKey
	}
	if cfg.API.BaseURL == "" {
		return ErrMissingBaseURL
	}
	if cfg.Sync.Interval <= 0 {
		return ErrInvalidSyncInterval
	}

	return nil
}
