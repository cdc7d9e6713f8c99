package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/feedcorpus/backend/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 30*time.Second, cfg.Fetch.RequestTimeout)
	assert.Equal(t, 10, cfg.Fetch.DefaultQuantity)
	assert.True(t, cfg.Fetch.EnableRobotsCheck)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.False(t, cfg.Reddit.Configured())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("FETCH_REQUEST_TIMEOUT", "12s")
	t.Setenv("FETCH_DEFAULT_QUANTITY", "50")
	t.Setenv("FETCH_ENABLE_ROBOTS_CHECK", "false")
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("CLIENT_ID", "abc")
	t.Setenv("CLIENT_SECRET", "def")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 12*time.Second, cfg.Fetch.RequestTimeout)
	assert.Equal(t, 50, cfg.Fetch.DefaultQuantity)
	assert.False(t, cfg.Fetch.EnableRobotsCheck)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.True(t, cfg.Reddit.Configured())
}

func TestEnvHelpersIgnoreMalformedValues(t *testing.T) {
	t.Setenv("SOME_INT", "not-a-number")
	t.Setenv("SOME_BOOL", "not-a-bool")
	t.Setenv("SOME_DURATION", "not-a-duration")

	assert.Equal(t, 42, config.GetIntEnv("SOME_INT", 42))
	assert.True(t, config.GetBoolEnv("SOME_BOOL", true))
	assert.Equal(t, time.Minute, config.GetDurationEnv("SOME_DURATION", time.Minute))
	assert.Equal(t, "fallback", config.GetStringEnv("SOME_UNSET_KEY", "fallback"))
}
