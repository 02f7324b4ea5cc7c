package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	require.Equal(t, 8000, cfg.Server.Port)
	require.Equal(t, "info", cfg.Server.LogLevel)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, 15*time.Minute, cfg.Auth.JWT.TTL)
	require.True(t, cfg.Monitoring.Prometheus.Enabled)
	require.Equal(t, "/metrics", cfg.Monitoring.Prometheus.Endpoint)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	contents := `
server:
  port: 9200
  log_level: debug
database:
  driver: postgres
  host: db.internal
  user: huddle
  name: huddle
auth:
  jwt:
    secret: super-secret
    issuer: huddle
    access_token_ttl: 1h
monitoring:
  prometheus:
    enabled: false
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(contents), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	require.Equal(t, 9200, cfg.Server.Port)
	require.Equal(t, "debug", cfg.Server.LogLevel)
	require.Equal(t, "postgres", cfg.Database.Driver)
	require.Equal(t, "db.internal", cfg.Database.Host)
	require.Equal(t, time.Hour, cfg.Auth.JWT.TTL)
	require.False(t, cfg.Monitoring.Prometheus.Enabled)

	jwtCfg := cfg.Auth.JWTServiceConfig()
	require.Equal(t, "super-secret", jwtCfg.Secret)
	require.Equal(t, "huddle", jwtCfg.Issuer)

	storeCfg := cfg.Database.StoreConfig()
	require.Equal(t, "postgres", storeCfg.Driver)
	require.Equal(t, "huddle", storeCfg.User)
}

func TestConfigValidate(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 8000
	require.Error(t, cfg.Validate())

	cfg.Auth.JWT.Secret = "super-secret"
	require.NoError(t, cfg.Validate())

	cfg.Server.Port = -1
	require.Error(t, cfg.Validate())
}
