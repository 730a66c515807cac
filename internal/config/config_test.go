package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 9090
  host: "0.0.0.0"
  allowed_origins:
    - "https://dashboard.example.com"

optimizer:
  default_intensity: 20
  default_threshold: 80

redis:
  enabled: true
  addr: "redis:6379"
  ttl_seconds: 600

snowflake:
  enabled: true
  account: "wipro-consumer"
  user: "reach_reader"
  warehouse: "REPORTING_WH"

logging:
  level: "debug"
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	// Test server config
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, []string{"https://dashboard.example.com"}, cfg.Server.AllowedOrigins)

	// Test optimizer config
	assert.Equal(t, 20, cfg.Optimizer.DefaultIntensity)
	assert.Equal(t, 80, cfg.Optimizer.DefaultThreshold)

	// Test redis config
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 600, cfg.Redis.TTLSeconds)

	// Test snowflake config with defaults applied
	assert.True(t, cfg.Snowflake.Enabled)
	assert.Equal(t, "wipro-consumer", cfg.Snowflake.Account)
	assert.Equal(t, "SANTOOR_DATA_LAKE", cfg.Snowflake.Database)
	assert.Equal(t, "TVREACH", cfg.Snowflake.Schema)
	assert.Equal(t, "CHANNEL_METRICS", cfg.Snowflake.Table)

	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("{}"), 0644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 15, cfg.Optimizer.DefaultIntensity)
	assert.Equal(t, 70, cfg.Optimizer.DefaultThreshold)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 300, cfg.Redis.TTLSeconds)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Postgres.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestLoadFromEnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server:\n  port: 9090\n"), 0644))

	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("DATABASE_URL", "postgres://reach:secret@db/santoor")
	t.Setenv("REDIS_ADDR", "cache:6379")

	cfg, err := LoadFromEnv(configPath)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.True(t, cfg.Postgres.Enabled)
	assert.Equal(t, "postgres://reach:secret@db/santoor", cfg.Postgres.DatabaseURL)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
}
