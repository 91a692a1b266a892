package esgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with esgo-specific context.
// This provides structured logging with consistent field names.
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

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithIndex adds an index field to the logger.
func (l *Logger) WithIndex(index string) *Logger {
	return &Logger{
		Logger: l.Logger.With("index", index),
	}
}

// WithDocumentID adds a document id field to the logger.
func (l *Logger) WithDocumentID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("id", id),
	}
}

// LogFetch logs a document fetch operation.
func (l *Logger) LogFetch(ctx context.Context, index, typ, id string, status int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "fetch failed",
			"index", index,
			"type", typ,
			"id", id,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "fetch completed",
			"index", index,
			"type", typ,
			"id", id,
			"status", status,
		)
	}
}

// LogStore logs a document store operation.
func (l *Logger) LogStore(ctx context.Context, index, typ, id string, status int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "store failed",
			"index", index,
			"type", typ,
			"id", id,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "store completed",
			"index", index,
			"type", typ,
			"id", id,
			"status", status,
		)
	}
}

// LogUpdate logs a partial-update operation.
func (l *Logger) LogUpdate(ctx context.Context, index, typ, id string, status int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "update failed",
			"index", index,
			"type", typ,
			"id", id,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "update completed",
			"index", index,
			"type", typ,
			"id", id,
			"status", status,
		)
	}
}

// LogDelete logs a document delete operation.
func (l *Logger) LogDelete(ctx context.Context, index, typ, id string, status int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "delete failed",
			"index", index,
			"type", typ,
			"id", id,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "delete completed",
			"index", index,
			"type", typ,
			"id", id,
			"status", status,
		)
	}
}

// LogBulk logs a bulk operation.
func (l *Logger) LogBulk(ctx context.Context, actions int, status int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "bulk failed",
			"actions", actions,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "bulk completed",
			"actions", actions,
			"status", status,
		)
	}
}

// LogMultiGet logs a multi-get operation.
func (l *Logger) LogMultiGet(ctx context.Context, docs int, status int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "multi-get failed",
			"docs", docs,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "multi-get completed",
			"docs", docs,
			"status", status,
		)
	}
}
