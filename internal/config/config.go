// Package config provides configuration helpers that define runtime defaults,
// environment overrides and rate-limiting parameters for the chat relay and
// its companion web server.
package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// RateLimitConfig defines the parameters for per-connection inbound rate limiting.
type RateLimitConfig struct {
	Burst          int
	RefillInterval time.Duration
}

// Config holds the settings of both servers.
type Config struct {
	// Port is the chat (WebSocket) listen address, e.g. ":8080".
	Port string
	// WebPort is the static asset and status listen address.
	WebPort string
	// StaticDir overrides the embedded web assets when non-empty.
	StaticDir string

	AllowedOrigins  []string
	MaxMessageSize  int64
	SendBuffer      int
	RateLimit       RateLimitConfig
	ShutdownTimeout time.Duration
	LogLevel        slog.Level
}

const (
	defaultPort            = ":8080"
	defaultWebPort         = ":3000"
	defaultMaxMessageSize  = 4096
	defaultSendBuffer      = 256
	defaultBurst           = 10
	defaultRefillInterval  = time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// Default returns a Config populated with default values for all settings.
func Default() Config {
	return Config{
		Port:           defaultPort,
		WebPort:        defaultWebPort,
		AllowedOrigins: []string{"*"},
		MaxMessageSize: defaultMaxMessageSize,
		SendBuffer:     defaultSendBuffer,
		RateLimit: RateLimitConfig{
			Burst:          defaultBurst,
			RefillInterval: defaultRefillInterval,
		},
		ShutdownTimeout: defaultShutdownTimeout,
		LogLevel:        slog.LevelInfo,
	}
}

// Load reads an optional .env file from the working directory and then
// builds the configuration from the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not read .env file", "error", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup function, falling back to
// defaults for unset or invalid values.
func FromEnv(getenv func(string) string) Config {
	cfg := Default()

	if port := getenv("PORT"); port != "" {
		cfg.Port = normalizeAddr(port, cfg.Port)
	}

	if port := getenv("WEB_PORT"); port != "" {
		cfg.WebPort = normalizeAddr(port, cfg.WebPort)
	}

	cfg.StaticDir = strings.TrimSpace(getenv("STATIC_DIR"))

	if origins := getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = parseOrigins(origins)
	}

	if maxSize := getenv("MAX_MESSAGE_SIZE"); maxSize != "" {
		cfg.MaxMessageSize = parseMaxMessageSize(maxSize, cfg.MaxMessageSize)
	}

	if buf := getenv("SEND_BUFFER"); buf != "" {
		cfg.SendBuffer = parseIntValue("SEND_BUFFER", buf, cfg.SendBuffer)
	}

	if burst := getenv("RATE_LIMIT_BURST"); burst != "" {
		cfg.RateLimit.Burst = parseIntValue("RATE_LIMIT_BURST", burst, cfg.RateLimit.Burst)
	}

	if interval := getenv("RATE_LIMIT_REFILL_INTERVAL"); interval != "" {
		cfg.RateLimit.RefillInterval = parseSeconds("RATE_LIMIT_REFILL_INTERVAL", interval, cfg.RateLimit.RefillInterval)
	}

	if timeout := getenv("SHUTDOWN_TIMEOUT"); timeout != "" {
		cfg.ShutdownTimeout = parseSeconds("SHUTDOWN_TIMEOUT", timeout, cfg.ShutdownTimeout)
	}

	if level := getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = parseLogLevel(level)
	}

	return cfg.Sanitize()
}

// Sanitize replaces zero or negative values with their defaults.
func (c Config) Sanitize() Config {
	if c.Port == "" {
		c.Port = defaultPort
	}
	if c.WebPort == "" {
		c.WebPort = defaultWebPort
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = defaultMaxMessageSize
	}
	if c.SendBuffer <= 0 {
		c.SendBuffer = defaultSendBuffer
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = defaultBurst
	}
	if c.RateLimit.RefillInterval <= 0 {
		c.RateLimit.RefillInterval = defaultRefillInterval
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = defaultShutdownTimeout
	}
	c.AllowedOrigins = append([]string(nil), c.AllowedOrigins...)
	return c
}

// normalizeAddr accepts "8080", ":8080" or "host:8080".
func normalizeAddr(value, defaultValue string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultValue
	}
	if strings.Contains(value, ":") {
		return value
	}
	if _, err := strconv.Atoi(value); err != nil {
		slog.Warn("ignoring invalid port", "value", value)
		return defaultValue
	}
	return ":" + value
}

func parseOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func parseMaxMessageSize(value string, defaultValue int64) int64 {
	if size, err := strconv.ParseInt(value, 10, 64); err == nil && size > 0 {
		return size
	}
	slog.Warn("ignoring invalid MAX_MESSAGE_SIZE", "value", value)
	return defaultValue
}

func parseIntValue(name, value string, defaultValue int) int {
	if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
		return parsed
	}
	slog.Warn("ignoring invalid integer setting", "name", name, "value", value)
	return defaultValue
}

func parseSeconds(name, value string, defaultValue time.Duration) time.Duration {
	if seconds, err := strconv.Atoi(value); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	slog.Warn("ignoring invalid duration setting", "name", name, "value", value)
	return defaultValue
}

func parseLogLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
