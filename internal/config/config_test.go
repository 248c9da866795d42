package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, ":3000", cfg.WebPort)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, int64(4096), cfg.MaxMessageSize)
	assert.Equal(t, 256, cfg.SendBuffer)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.Equal(t, time.Second, cfg.RateLimit.RefillInterval)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestFromEnv(t *testing.T) {
	cfg := FromEnv(envMap(map[string]string{
		"PORT":                       "9000",
		"WEB_PORT":                   "127.0.0.1:9001",
		"STATIC_DIR":                 " ./public ",
		"ALLOWED_ORIGINS":            "http://a.lan, http://b.lan",
		"MAX_MESSAGE_SIZE":           "1024",
		"SEND_BUFFER":                "32",
		"RATE_LIMIT_BURST":           "3",
		"RATE_LIMIT_REFILL_INTERVAL": "2",
		"SHUTDOWN_TIMEOUT":           "5",
		"LOG_LEVEL":                  "DEBUG",
	}))

	assert.Equal(t, ":9000", cfg.Port)
	assert.Equal(t, "127.0.0.1:9001", cfg.WebPort)
	assert.Equal(t, "./public", cfg.StaticDir)
	assert.Equal(t, []string{"http://a.lan", "http://b.lan"}, cfg.AllowedOrigins)
	assert.Equal(t, int64(1024), cfg.MaxMessageSize)
	assert.Equal(t, 32, cfg.SendBuffer)
	assert.Equal(t, 3, cfg.RateLimit.Burst)
	assert.Equal(t, 2*time.Second, cfg.RateLimit.RefillInterval)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestFromEnvInvalidValuesFallBack(t *testing.T) {
	cfg := FromEnv(envMap(map[string]string{
		"PORT":                       "abc",
		"MAX_MESSAGE_SIZE":           "-1",
		"SEND_BUFFER":                "zero",
		"RATE_LIMIT_BURST":           "0",
		"RATE_LIMIT_REFILL_INTERVAL": "1.5",
		"LOG_LEVEL":                  "verbose",
	}))

	def := Default()
	assert.Equal(t, def.Port, cfg.Port)
	assert.Equal(t, def.MaxMessageSize, cfg.MaxMessageSize)
	assert.Equal(t, def.SendBuffer, cfg.SendBuffer)
	assert.Equal(t, def.RateLimit, cfg.RateLimit)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestSanitize(t *testing.T) {
	cfg := Config{}.Sanitize()

	assert.Equal(t, ":8080", cfg.Port)
	assert.Equal(t, ":3000", cfg.WebPort)
	assert.Equal(t, int64(4096), cfg.MaxMessageSize)
	assert.Equal(t, 256, cfg.SendBuffer)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}
