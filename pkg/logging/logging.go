// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// EnvLogLevel names the environment variable consulted for the default level.
const EnvLogLevel = "LOG_LEVEL"

// Options controls logger construction.
type Options struct {
	// Name and Version are attached to every record.
	Name    string
	Version string

	// Level is one of debug, info, warn, error. Empty falls back to LOG_LEVEL, then info.
	Level string

	// JSON selects the JSON handler instead of the text handler.
	JSON bool

	// Writer defaults to os.Stderr.
	Writer io.Writer
}

// ParseLevel converts a level name to slog.Level. Unknown names map to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a logger from opts.
func New(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	level := opts.Level
	if level == "" {
		level = os.Getenv(EnvLogLevel)
	}

	hopts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var h slog.Handler
	if opts.JSON {
		h = slog.NewJSONHandler(w, hopts)
	} else {
		h = slog.NewTextHandler(w, hopts)
	}

	logger := slog.New(h)
	if opts.Name != "" {
		logger = logger.With(slog.String("module", opts.Name))
	}
	if opts.Version != "" {
		logger = logger.With(slog.String("version", opts.Version))
	}
	return logger
}

// SetDefault installs a logger built from opts as the slog default.
func SetDefault(opts Options) {
	slog.SetDefault(New(opts))
}
