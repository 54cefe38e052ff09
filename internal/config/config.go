package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Save backends
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config is the process configuration, read from the environment
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevelRaw string `env:"LOG_LEVEL" envDefault:"info"`
	LogLevel    slog.Level

	SaveBackend string        `env:"SAVE_BACKEND" envDefault:"file"`
	SavePath    string        `env:"SAVE_PATH" envDefault:"./saves"`
	SaveCodec   string        `env:"SAVE_CODEC" envDefault:"json"`
	SaveTTL     time.Duration `env:"SAVE_TTL" envDefault:"0s"`
	RedisURL    string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
}

// Load reads the configuration from the environment
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelRaw)
	cfg.SaveBackend = strings.ToLower(cfg.SaveBackend)
	cfg.SaveCodec = strings.ToLower(cfg.SaveCodec)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.SaveBackend {
	case BackendFile:
		if c.SavePath == "" {
			return fmt.Errorf("SAVE_PATH is required for the %s backend", BackendFile)
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the %s backend", BackendRedis)
		}
	default:
		return fmt.Errorf("unknown SAVE_BACKEND %q", c.SaveBackend)
	}
	switch c.SaveCodec {
	case "json", "cbor":
	default:
		return fmt.Errorf("unknown SAVE_CODEC %q", c.SaveCodec)
	}
	if c.SaveTTL < 0 {
		return fmt.Errorf("SAVE_TTL must not be negative")
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
