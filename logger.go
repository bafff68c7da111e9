package kmsig

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with kmsig-specific context.
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
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, nil))
}

// WithDataset adds the signature blob name to the logger.
func (l *Logger) WithDataset(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("dataset", name),
	}
}

// LogLoad logs a dataset load. Failures are logged at debug level; LogRun
// reports them.
func (l *Logger) LogLoad(ctx context.Context, vectors, dim int, duration time.Duration, err error) {
	if err != nil {
		l.DebugContext(ctx, "load failed",
			"duration", duration,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "load completed",
		"vectors", vectors,
		"dim", dim,
		"duration", duration,
	)
}

// LogSave logs writing the clustering outputs.
func (l *Logger) LogSave(ctx context.Context, assignments, trace string, duration time.Duration, err error) {
	if err != nil {
		l.DebugContext(ctx, "save failed",
			"assignments", assignments,
			"trace", trace,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "save completed",
		"assignments", assignments,
		"trace", trace,
		"duration", duration,
	)
}

// LogRun logs the outcome of a complete run. Errors are logged here once.
func (l *Logger) LogRun(ctx context.Context, r *Report, err error) {
	if err != nil {
		l.ErrorContext(ctx, "run failed", "error", err)
		return
	}
	l.InfoContext(ctx, "run completed",
		"vectors", r.Vectors,
		"requested", r.Requested,
		"clusters", r.Clusters,
		"rounds", r.Rounds,
		"rmse", r.RMSE,
		"repaired", r.Repaired,
		"size_mean", r.SizeMean,
		"size_stddev", r.SizeStdDev,
		"duration", r.Total(),
	)
}
