// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// ParseLevel maps a level name to a slog.Level. Unknown names mean info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
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

// NewHandler builds a handler for format "text", "json", or "pretty".
func NewHandler(out io.Writer, format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(format) {
	case "json":
		return slog.NewJSONHandler(out, opts)
	case "pretty":
		return NewPrettyHandler(out, level)
	default:
		return slog.NewTextHandler(out, opts)
	}
}

// Setup installs the configured handler as the slog default.
func Setup(out io.Writer, format, level string) {
	slog.SetDefault(slog.New(NewHandler(out, format, ParseLevel(level))))
}
