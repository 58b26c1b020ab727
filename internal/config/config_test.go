package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, ":8080", cfg.Server.Addr())
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.False(t, cfg.Registry.Enabled())
	assert.Equal(t, 365, cfg.Retention.Days)
	assert.Equal(t, "@daily", cfg.Retention.Schedule)
	assert.Equal(t, 30, cfg.Recommendations.HistoryDays)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
  write_timeout: 30s
storage:
  driver: sqlite
  sqlite_path: /tmp/pets.db
retention:
  enabled: true
  days: 90
registry:
  base_url: https://registry.example.com
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/pets.db", cfg.Storage.SQLitePath)
	assert.True(t, cfg.Retention.Enabled)
	assert.Equal(t, 90, cfg.Retention.Days)
	assert.True(t, cfg.Registry.Enabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PETHEALTH_LOG_LEVEL", "debug")
	t.Setenv("PETHEALTH_RETENTION_DAYS", "30")
	t.Setenv("PORT", "7070")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 30, cfg.Retention.Days)
	assert.Equal(t, 7070, cfg.Server.Port)
}

func TestLoad_PrefixedEnvWinsOverLegacy(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("PETHEALTH_SERVER_PORT", "7171")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7171, cfg.Server.Port)
}

func TestLoad_DSNSelectsPostgres(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/pets")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DriverPostgres, cfg.Storage.Driver)
	assert.Equal(t, "postgres://localhost/pets", cfg.Storage.PostgresDSN)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		msg  string
	}{
		{"unknown driver", map[string]string{"PETHEALTH_STORAGE_DRIVER": "mongo"}, "unknown storage.driver"},
		{"postgres without dsn", map[string]string{"PETHEALTH_STORAGE_DRIVER": "postgres"}, "postgres_dsn is required"},
		{"non positive retention", map[string]string{"PETHEALTH_RETENTION_DAYS": "0"}, "retention.days must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
