package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"ENVIRONMENT", "LOG_LEVEL", "SAVE_BACKEND", "SAVE_PATH", "SAVE_CODEC", "SAVE_TTL", "REDIS_URL"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, BackendFile, cfg.SaveBackend)
	assert.Equal(t, "./saves", cfg.SavePath)
	assert.Equal(t, "json", cfg.SaveCodec)
	assert.Equal(t, time.Duration(0), cfg.SaveTTL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("LOG_LEVEL", "WARNING")
	t.Setenv("SAVE_BACKEND", "Redis")
	t.Setenv("SAVE_CODEC", "cbor")
	t.Setenv("SAVE_TTL", "36h")
	t.Setenv("REDIS_URL", "redis://cache:6379/2")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, BackendRedis, cfg.SaveBackend)
	assert.Equal(t, "cbor", cfg.SaveCodec)
	assert.Equal(t, 36*time.Hour, cfg.SaveTTL)
	assert.Equal(t, "redis://cache:6379/2", cfg.RedisURL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{name: "backend", key: "SAVE_BACKEND", value: "s3", wantErr: `unknown SAVE_BACKEND "s3"`},
		{name: "codec", key: "SAVE_CODEC", value: "xml", wantErr: `unknown SAVE_CODEC "xml"`},
		{name: "ttl syntax", key: "SAVE_TTL", value: "soon", wantErr: "parse env:"},
		{name: "negative ttl", key: "SAVE_TTL", value: "-1m", wantErr: "SAVE_TTL must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLogLevel(in), in)
	}
}
