// Package logger builds the slog loggers shared by the story-kit commands.
// Development logs are text, production logs are JSON, and both carry the
// save a record concerns under a "save" group.
package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/jwebster45206/story-kit/internal/config"
	"github.com/jwebster45206/story-kit/pkg/preserve"
)

// Setup logs to stdout and installs the logger as the slog default
func Setup(cfg *config.Config) *slog.Logger {
	return SetupTo(os.Stdout, cfg)
}

// SetupTo is Setup writing to w. The console UI owns stdout, so it logs to a file.
func SetupTo(w io.Writer, cfg *config.Config) *slog.Logger {
	logger := slog.New(newHandler(w, cfg)).With("env", cfg.Environment)
	slog.SetDefault(logger)
	return logger
}

func newHandler(w io.Writer, cfg *config.Config) slog.Handler {
	opts := &slog.HandlerOptions{
		Level:     cfg.LogLevel,
		AddSource: cfg.LogLevel <= slog.LevelDebug,
	}
	if cfg.Environment == "production" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// WithSave tags records with the save they concern
func WithSave(logger *slog.Logger, loc preserve.Location) *slog.Logger {
	return logger.With(slog.Group("save", "name", loc.Name, "path", loc.Path))
}

// WithComponent names the part of the program writing the record
func WithComponent(logger *slog.Logger, name string) *slog.Logger {
	return logger.With("component", name)
}

// WithError adds error to logger context
func WithError(logger *slog.Logger, err error) *slog.Logger {
	return logger.With("error", err.Error())
}
