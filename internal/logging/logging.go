// Package logging builds the process slog.Logger from config values.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// LevelTrace sits below slog.LevelDebug for per-request and per-file noise.
const LevelTrace = slog.Level(-8)

// levelOff is above every level slog emits.
const levelOff = slog.Level(100)

// New returns a JSON or text logger writing to w. Unknown formats fall back
// to JSON.
func New(w io.Writer, format, level string) *slog.Logger {
	lvl, _ := ParseLevel(level)
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(strings.TrimSpace(format), "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// ParseLevel maps a level name to a slog.Level. It reports false for empty
// or unknown names, which resolve to info.
func ParseLevel(raw string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "trace", "diagnostics":
		return LevelTrace, true
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	case "disabled", "disable", "off", "none":
		return levelOff, true
	default:
		return slog.LevelInfo, false
	}
}
