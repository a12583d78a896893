package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv(EnvDSN, "")

	writeFile(t, dir, ".dbz.yml", `
database:
  dsn: mysql:host=db;dbname=app
  user: app
  password: ${DB_PASSWORD}
  max_open_conns: 5
  conn_max_lifetime: 5m
log:
  level: debug
`)

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, "mysql:host=db;dbname=app", cfg.Database.DSN)
	assert.Equal(t, "app", cfg.Database.User)
	assert.Equal(t, "secret", cfg.Database.Password)
	assert.Equal(t, 5, cfg.Database.MaxOpenConns)
	assert.Equal(t, 2, cfg.Database.MaxIdleConns)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, level)
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDSN, "")

	writeFile(t, dir, ".dbz.toml", `
[database]
dsn = "pgsql:host=localhost;dbname=app"
user = "postgres"
max_idle_conns = 4
`)

	loader := NewLoader(dir)
	assert.Equal(t, filepath.Join(dir, ".dbz.toml"), loader.Path())

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "pgsql:host=localhost;dbname=app", cfg.Database.DSN)
	assert.Equal(t, "postgres", cfg.Database.User)
	assert.Equal(t, 4, cfg.Database.MaxIdleConns)
	assert.Equal(t, 10, cfg.Database.MaxOpenConns)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDSN, "sqlite:/tmp/override.db")

	path := writeFile(t, dir, "custom.yml", "database:\n  dsn: sqlite:/tmp/file.db\n")

	cfg, err := NewFileLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "sqlite:/tmp/override.db", cfg.Database.DSN)
}

func TestLoadOrDefault(t *testing.T) {
	t.Setenv(EnvDSN, "")

	loader := NewLoader(t.TempDir())

	_, err := loader.Load()
	assert.ErrorIs(t, err, ErrNotFound)

	cfg, err := loader.LoadOrDefault()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestValidate(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate())

	cfg.Database.DSN = ""
	cfg.Database.MaxOpenConns = -1
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.dsn is required")
	assert.Contains(t, err.Error(), "max_open_conns")
	assert.Contains(t, err.Error(), "log.level")
}

func TestSaveRoundTrip(t *testing.T) {
	t.Setenv(EnvDSN, "")

	for _, name := range []string{"saved.yml", "saved.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			loader := NewFileLoader(path)

			cfg := Defaults()
			cfg.Database.DSN = "sqlite:/tmp/saved.db"
			cfg.Database.ConnMaxLifetime = time.Hour

			assert.False(t, loader.Exists())
			require.NoError(t, loader.Save(cfg))
			assert.True(t, loader.Exists())

			loaded, err := loader.Load()
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}
