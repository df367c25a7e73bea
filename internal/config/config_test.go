package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/council")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "5050", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, 6, cfg.PageSize)
	assert.Equal(t, 50, cfg.MaxPageSize)
	assert.Equal(t, "simple", cfg.SearchConfig)
	assert.Equal(t, 6*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.Metrics)
	assert.Equal(t, ":5050", cfg.Addr())
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "council.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "8080"
databaseDriver: sqlite
databaseUrl: council.db
pageSize: 9
sessionTtl: 2h
allowedOrigins:
  - https://council.example.org
`), 0o600))
	t.Setenv("PAGE_SIZE", "12")
	t.Setenv("DEBUG", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, 12, cfg.PageSize)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"https://council.example.org"}, cfg.AllowedOrigins)
	assert.True(t, cfg.Debug)
}

func TestLoadEnvOrigins(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "SQLite")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.ErrorIs(t, cfg.Validate(), ErrMissingDatabaseURL)

	cfg.DatabaseDriver = "oracle"
	assert.ErrorIs(t, cfg.Validate(), ErrUnknownDriver)

	cfg.DatabaseDriver = DriverSQLite
	require.NoError(t, cfg.Validate())

	cfg.PageSize = 80
	assert.ErrorIs(t, cfg.Validate(), ErrPageSize)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
