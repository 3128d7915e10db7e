package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: local
http_server:
  address: 0.0.0.0:8080
  timeout: 2s
storage:
  driver: sqlite
  path: /tmp/copilot.db
auth:
  login: admin
  password: secret
levels:
  seed_file: ./config/levels.yaml
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, 60*time.Second, cfg.IdleTimeout)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "/tmp/copilot.db", cfg.Storage.Path)
	assert.Equal(t, "admin", cfg.Auth.Login)
	assert.Equal(t, "zh-Hans", cfg.Validation.Locale)
	assert.Equal(t, 10*time.Minute, cfg.Levels.CacheTTL)
	assert.Equal(t, "./config/levels.yaml", cfg.Levels.SeedFile)
}

func TestLoad_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.yaml")
	require.NoError(t, os.WriteFile(path, []byte("env: local\n"), 0o600))
	t.Setenv("DB_DRIVER", "sqlite")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
