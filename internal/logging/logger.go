// Package logging provides the structured logger shared by the commands.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with helpers that keep field names consistent.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that writes JSON-formatted logs to w.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that writes human-readable text logs to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.DiscardHandler)
}

// LogLoad logs a dictionary load.
func (l *Logger) LogLoad(ctx context.Context, uri string, words int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "dictionary load failed",
			"source", uri,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "dictionary loaded",
		"source", uri,
		"words", words,
		"elapsed", elapsed,
	)
}

// LogCleanup logs one pass of the cleanup pipeline.
func (l *Logger) LogCleanup(ctx context.Context, tokens, changed int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "cleanup failed",
			"tokens", tokens,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "cleanup completed",
		"tokens", tokens,
		"changed", changed,
		"elapsed", elapsed,
	)
}
