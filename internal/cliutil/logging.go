// Package cliutil holds the ambient concerns shared by lmdbtool's
// subcommands: logging setup and configuration loading. Neither the core
// lmdb package nor any one subcommand owns these; they are wired up once in
// main and handed down.
package cliutil

import (
	"log/slog"
	"os"
	"strings"
)

// InitLogger builds a slog.Logger from a level name ("debug", "info",
// "warn", "error") and a format name ("text" or "json"), defaulting to warn
// level and text format on an unrecognized value so a run stays quiet on
// stderr unless something needs attention.
func InitLogger(level, format string) *slog.Logger {
	var slogLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelWarn
	}

	opts := &slog.HandlerOptions{Level: slogLevel}
	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
