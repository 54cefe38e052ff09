package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/jwebster45206/story-kit/internal/config"
	"github.com/jwebster45206/story-kit/pkg/preserve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTo_Production(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	log := SetupTo(&buf, &config.Config{Environment: "production", LogLevel: slog.LevelInfo})
	loc := preserve.Location{Path: "saves", Name: "(ash) Quest"}
	WithError(WithSave(log, loc), errors.New("disk full")).Error("Save failed")
	log.Debug("hidden")

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line))
	assert.Equal(t, "Save failed", line["msg"])
	assert.Equal(t, "production", line["env"])
	assert.Equal(t, map[string]any{"name": "(ash) Quest", "path": "saves"}, line["save"])
	assert.Equal(t, "disk full", line["error"])
	assert.NotContains(t, line, "source", "source is only added at debug level")
	assert.Same(t, log, slog.Default())
}

func TestSetupTo_Development(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	log := SetupTo(&buf, &config.Config{Environment: "development", LogLevel: slog.LevelDebug})
	WithComponent(log, "phases").Debug("Save loaded", "turn", 3)

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "source=")
	assert.Contains(t, out, `msg="Save loaded" env=development component=phases turn=3`)
}
