package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	viper.Reset()
	wd, wdErr := os.Getwd()
	require.NoError(t, wdErr)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	err := Load(t.TempDir())
	assert.ErrorIs(t, err, ErrConfigNotFound)

	cfg := GetConfig()
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 9090, cfg.Server.MetricsPort)
	assert.Equal(t, "redis", cfg.Throttle.Store)
	assert.Equal(t, "app_cache:", cfg.Throttle.KeyPrefix)
	assert.Equal(t, "100/hour", cfg.Throttle.Rates["user"])
	assert.Equal(t, "10/hour", cfg.Throttle.Rates["anon"])
	assert.Equal(t, uint32(5), cfg.Throttle.Breaker.MaxFailures)
	assert.Equal(t, 30*time.Second, cfg.Throttle.Breaker.Timeout)
	assert.Equal(t, "v1", cfg.Versioning.Default)
	assert.Equal(t, []string{"v1", "v2"}, cfg.Versioning.Supported)
	assert.Equal(t, "60/minute", cfg.Versioning.IPRate)
}

func TestLoad_FileAndEnvironment(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	yaml := `
server:
  port: 8000
  secret_key: file-secret
redis:
  host: redis.internal
throttle:
  store: memory
  rates:
    user: 1000/day
  breaker:
    timeout: 5s
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0600))
	t.Setenv("SERVER_SECRET_KEY", "env-secret")
	t.Setenv("REDIS_PORT", "6380")

	require.NoError(t, Load(dir))

	cfg := GetConfig()
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "env-secret", cfg.Server.SecretKey)
	assert.Equal(t, "redis.internal", cfg.Redis.Host)
	assert.Equal(t, 6380, cfg.Redis.Port)
	assert.Equal(t, "memory", cfg.Throttle.Store)
	assert.Equal(t, "1000/day", cfg.Throttle.Rates["user"])
	assert.Equal(t, 5*time.Second, cfg.Throttle.Breaker.Timeout)
}

func TestLoad_MalformedFile(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [\n"), 0600))

	err := Load(dir)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrConfigNotFound)
}
