package cmd

import (
	"io"
	"log/slog"
)

// newLogger writes text logs to w. Verbose mode shows step-level debug logs.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return leveledLogger(w, level)
}

func leveledLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
