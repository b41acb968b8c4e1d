package model

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Timeout())
	assert.Equal(t, "keyring", cfg.Session.Backend)
	assert.Equal(t, 14, cfg.Store.CompletedWindowDays)
	assert.Equal(t, 4, cfg.Store.Fanout)
	assert.Equal(t, 120, cfg.Display.PollIntervalSec)
	assert.Equal(t, 300*time.Second, cfg.LoginTimeout())
	assert.NotEmpty(t, cfg.Session.Path)
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: https://planner.example.com/
  timeout_sec: 3
session:
  backend: memory
store:
  fanout: 0
`), 0o600))
	t.Setenv("PLANNER_DISPLAY_POLL_INTERVAL_SEC", "7")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "https://planner.example.com", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout())
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, 1, cfg.Store.Fanout)
	assert.Equal(t, 7, cfg.Display.PollIntervalSec)
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"relative base url", "api:\n  base_url: /api\n", "api.base_url"},
		{"unknown backend", "session:\n  backend: etcd\n", "session.backend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.body), 0o600))

			_, err := LoadConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestExpectedOrigin(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.API.BaseURL = "https://api.example.com:8443/v1"
	assert.Equal(t, "https://api.example.com:8443", cfg.ExpectedOrigin())

	cfg.Auth.Origin = "https://web.example.com/"
	assert.Equal(t, "https://web.example.com", cfg.ExpectedOrigin())
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultAppConfig()
	cfg.API.BaseURL = "https://planner.example.com"
	cfg.Session.Backend = "sqlite"
	cfg.Store.Fanout = 2
	cfg.Display.Theme = "plain"
	require.NoError(t, SaveConfig(path, cfg))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.API.BaseURL, loaded.API.BaseURL)
	assert.Equal(t, "sqlite", loaded.Session.Backend)
	assert.Equal(t, 2, loaded.Store.Fanout)
	assert.Equal(t, "plain", loaded.Display.Theme)
}
