// Package logging configures structured logging with log/slog.
//
// Usage:
//
//	logger := logging.New("info", "text")   // colored tint output on stderr
//	logger := logging.New("debug", "json")  // JSON lines on stdout
//	slog.SetDefault(logger)
//
// Levels: debug, info, warn, error (default: info).
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// New returns a logger at the given level. format "json" writes JSON lines to
// stdout; anything else writes colored text to stderr.
func New(level, format string) *slog.Logger {
	if strings.EqualFold(format, "json") {
		return NewJSON(os.Stdout, ParseLevel(level))
	}
	return NewTint(os.Stderr, ParseLevel(level))
}

// NewTint returns a colored text logger.
func NewTint(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  level == slog.LevelDebug,
	}))
}

// NewJSON returns a JSON logger.
func NewJSON(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// ParseLevel maps a level name to a slog.Level, defaulting to INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
