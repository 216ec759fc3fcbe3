package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_DefaultsApplied(t *testing.T) {
	t.Setenv("APP_KEY", "k1")
	t.Setenv("API_BASE_URL", "https://backend.example.com")

	cfg, err := Get(nil)
	require.NoError(t, err)

	assert.Equal(t, "appdata", cfg.App.Namespace)
	assert.Equal(t, "_id", cfg.App.IDAttribute)
	assert.Equal(t, "_kmd", cfg.App.KMDAttribute)
	assert.Equal(t, "sync", cfg.Sync.CollectionName)
	assert.Equal(t, 5*time.Minute, cfg.Sync.Interval)
	assert.Equal(t, 15*time.Second, cfg.API.RequestTimeout)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestGet_EnvWinsOverFlags(t *testing.T) {
	t.Setenv("APP_KEY", "env-key")
	t.Setenv("API_BASE_URL", "https://env.example.com")

	cfg, err := Get([]string{"-app-key", "flag-key", "-log-level", "debug"})
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.App.Key)
	assert.Equal(t, "https://env.example.com", cfg.API.BaseURL)
	// env did not set a log level, so the flag value survives the merge
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestGet_JSONFile(t *testing.T) {
	t.Setenv("APP_KEY", "")
	t.Setenv("API_BASE_URL", "")

	path := filepath.Join(t.TempDir(), "config.json")
	payload, err := json.Marshal(map[string]any{
		"app": map[string]any{"key": "json-key"},
		"api": map[string]any{
			"base_url":        "https://json.example.com",
			"request_timeout": "30s",
		},
		"sync": map[string]any{"interval": "1m"},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, payload, 0o600))

	cfg, err := Get([]string{"-c", path})
	require.NoError(t, err)

	assert.Equal(t, "json-key", cfg.App.Key)
	assert.Equal(t, "https://json.example.com", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.RequestTimeout)
	assert.Equal(t, time.Minute, cfg.Sync.Interval)
}

func TestGet_ValidationErrors(t *testing.T) {
	t.Setenv("APP_KEY", "")
	t.Setenv("API_BASE_URL", "")

	_, err := Get([]string{"-base-url", "https://backend.example.com"})
	assert.ErrorIs(t, err, ErrMissingAppKey)

	_, err = Get([]string{"-app-key", "k1"})
	assert.ErrorIs(t, err, ErrMissingBaseURL)
}

func TestParseFlags_Reusable(t *testing.T) {
	// a fresh FlagSet per call means repeated parsing cannot panic on
	// flag redefinition
	for i := 0; i < 3; i++ {
		cfg, err := parseFlags([]string{"-d", "sync.db"})
		require.NoError(t, err)
		assert.Equal(t, "sync.db", cfg.Storage.DSN)
	}
}
