package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.False(t, cfg.IsDev)
	assert.Equal(t, "http://localhost:8080/api/v1/auth/login", cfg.Login.Endpoint)
	assert.Equal(t, 15*time.Second, cfg.Login.Timeout)
	assert.Equal(t, StorageBackendMemory, cfg.Storage.Backend)
	assert.Equal(t, "sessiongate:", cfg.Storage.Prefix)
	assert.Equal(t, "localhost:6379", cfg.Storage.Redis.Addr)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ShutdownTimeout)
}

func TestAppConfig_FromEnvironment(t *testing.T) {
	t.Setenv("DEV", "true")
	t.Setenv("LOGIN_ENDPOINT", "https://id.dlretail.com/api/v1/auth/login")
	t.Setenv("LOGIN_TIMEOUT", "3s")
	t.Setenv("STORAGE_BACKEND", "redis")
	t.Setenv("STORAGE_PREFIX", "app:")
	t.Setenv("STORAGE_REDIS_ADDR", "redis.internal:6380")
	t.Setenv("STORAGE_REDIS_DB", "2")
	t.Setenv("HTTP_ADDR", ":9090")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.True(t, cfg.IsDev)
	assert.Equal(t, "https://id.dlretail.com/api/v1/auth/login", cfg.Login.Endpoint)
	assert.Equal(t, 3*time.Second, cfg.Login.Timeout)
	assert.Equal(t, StorageBackendRedis, cfg.Storage.Backend)
	assert.Equal(t, "app:", cfg.Storage.Prefix)
	assert.Equal(t, "redis.internal:6380", cfg.Storage.Redis.Addr)
	assert.Equal(t, 2, cfg.Storage.Redis.DB)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
}

func TestAppConfig_InvalidBackendRejected(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "cookies")

	var cfg AppConfig
	err := env.Parse(&cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid StorageBackend")
}

func TestStorageBackend_UnmarshalIsCaseInsensitive(t *testing.T) {
	var b StorageBackend
	require.NoError(t, b.UnmarshalText([]byte("REDIS")))
	assert.Equal(t, StorageBackendRedis, b)
}

func TestSanitize_ClampsNonPositiveDurations(t *testing.T) {
	cfg := AppConfig{
		Login: LoginConfig{Timeout: -1},
		HTTP:  HTTPConfig{ReadTimeout: 0, WriteTimeout: -5, ShutdownTimeout: 0},
	}
	cfg.Sanitize()

	assert.Equal(t, 15*time.Second, cfg.Login.Timeout)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, 5*time.Second, cfg.HTTP.ShutdownTimeout)
}
