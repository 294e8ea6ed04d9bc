package lsc

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with translation-specific helpers.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// A nil handler logs text at info level to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger writing human-readable text to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger creates a Logger writing JSON records to w.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger discards all output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// WithPlatform tags every record with the platform name.
func (l *Logger) WithPlatform(name string) *Logger {
	return &Logger{Logger: l.Logger.With("platform", name)}
}

// LogTranslate logs the outcome of translating one call site.
func (l *Logger) LogTranslate(ctx context.Context, site string, key PrimitiveKey, primitive string, err error) {
	if err != nil {
		l.DebugContext(ctx, "translation rejected",
			"site", site,
			"request", key.String(),
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "translated",
		"site", site,
		"request", key.String(),
		"primitive", primitive,
	)
}

// LogDeprecated warns about a deprecated interface used at a call site.
func (l *Logger) LogDeprecated(ctx context.Context, site, what, instead string) {
	l.WarnContext(ctx, "deprecated interface",
		"site", site,
		"use", what,
		"instead", instead,
	)
}

// LogBatch logs the summary of a batch translation.
func (l *Logger) LogBatch(ctx context.Context, total, failed int) {
	if failed > 0 {
		l.WarnContext(ctx, "batch translated with failures",
			"total", total,
			"failed", failed,
		)
		return
	}
	l.InfoContext(ctx, "batch translated", "total", total)
}
