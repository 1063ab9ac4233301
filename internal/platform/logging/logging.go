// Package logging builds the service's slog loggers and carries them through
// request contexts.
//
//	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
//	ctx = logging.WithLogger(ctx, logger.With(slog.String("request_id", id)))
//
// Expected outcomes (a todo that does not exist, a body that does not bind)
// are not errors from the logger's point of view. Unexpected failures are
// logged exactly once, at the HTTP boundary, through Failure:
//
//	logging.Failure(ctx, "MarkComplete", err)
//
// which writes the fixed message "request failed" with the operation name and
// the full error chain as structured attributes.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// FailureMessage is the fixed message used for every unexpected failure.
const FailureMessage = "request failed"

type contextKey struct{}

// New creates a configured *slog.Logger.
//
// level is one of "debug", "info", "warn" or "error" (case-insensitive);
// anything else means info. format "text" selects slog.TextHandler and every
// other value selects slog.JSONHandler. Debug loggers include source
// locations. All output passes through the masq redaction filter.
func New(level, format string, w io.Writer) *slog.Logger {
	lvl := parseLevel(level)

	opts := &slog.HandlerOptions{
		Level:       lvl,
		AddSource:   lvl == slog.LevelDebug,
		ReplaceAttr: newRedactAttr(),
	}

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// WithLogger returns a new context with the given logger stored in it.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext extracts a *slog.Logger from the context.
// If no logger is stored, it returns slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// Failure logs an unexpected failure of operation at error level using the
// request-scoped logger from ctx.
func Failure(ctx context.Context, operation string, err error, attrs ...slog.Attr) {
	args := make([]any, 0, len(attrs)+2)
	args = append(args,
		slog.String("operation", operation),
		slog.Any("error", err),
	)
	for _, a := range attrs {
		args = append(args, a)
	}
	FromContext(ctx).ErrorContext(ctx, FailureMessage, args...)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
