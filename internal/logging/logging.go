// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var level slog.LevelVar

// Setup installs a text handler writing to w (stdout when nil) as the default
// slog logger and returns it.
func Setup(levelName string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stdout
	}
	SetLevelString(levelName)
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: &level}))
	slog.SetDefault(logger)
	return logger
}

// SetLevelString changes the level at runtime. Unknown names mean info.
func SetLevelString(name string) {
	level.Set(ParseLevel(name))
}

// ParseLevel maps debug, info, warn/warning and error to slog levels.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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

// Component returns the default logger tagged with a component attribute.
func Component(name string) *slog.Logger {
	return slog.Default().With("component", name)
}
