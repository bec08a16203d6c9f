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
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
	assert.Equal(t, 24*time.Hour, cfg.Auth.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RefreshTTL)
	assert.Equal(t, 10, cfg.Auth.RateLimitMax)
	assert.Equal(t, 15*time.Minute, cfg.Auth.RateLimitWindow)
	assert.Equal(t, 5, cfg.Auth.LockoutThreshold)
	assert.Equal(t, 2*time.Hour, cfg.Auth.LockoutDuration)
	assert.Equal(t, 250*time.Millisecond, cfg.Auth.CacheTimeout)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "api.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  http_addr: ":9090"
auth:
  access_ttl: 1h
  lockout_threshold: 3
kafka:
  brokers: ["k1:9092", "k2:9092"]
`), 0o600))

	t.Setenv("AUTH_ACCESS_SECRET", "access-secret-access-secret-0001")
	t.Setenv("AUTH_REFRESH_SECRET", "refresh-secret-refresh-secret-01")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.HTTPAddr)
	assert.Equal(t, time.Hour, cfg.Auth.AccessTTL)
	assert.Equal(t, 3, cfg.Auth.LockoutThreshold)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)

	engineCfg := cfg.AsEngineConfig()
	require.NoError(t, engineCfg.Validate())
	assert.Equal(t, time.Hour, engineCfg.Token.AccessTTL)
	assert.Equal(t, 3, engineCfg.Lockout.Threshold)
}

func TestEngineConfigRejectsMissingSecrets(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	engineCfg := cfg.AsEngineConfig()
	assert.Error(t, engineCfg.Validate())
}
