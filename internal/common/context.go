package common

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Context keys for storing values in context
type contextKey string

const (
	ContextKeyRunID     contextKey = "run_id"
	ContextKeyRequestID contextKey = "request_id"
	ContextKeyFilename  contextKey = "filename"
)

// WithRunID attaches a fresh run ID unless one is already present.
func WithRunID(ctx context.Context) (context.Context, uuid.UUID) {
	if id, ok := ctx.Value(ContextKeyRunID).(uuid.UUID); ok {
		return ctx, id
	}
	id := uuid.New()
	return context.WithValue(ctx, ContextKeyRunID, id), id
}

// RunIDFromContext returns uuid.Nil when no run ID is set.
func RunIDFromContext(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(ContextKeyRunID).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// WithRequestID adds a request ID to the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// RequestIDFromContext extracts the request ID from context
func RequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return requestID
	}
	return ""
}

// WithFilename records the file being parsed.
func WithFilename(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ContextKeyFilename, name)
}

// LoggerFrom decorates logger with whatever run metadata ctx carries.
func LoggerFrom(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = slog.Default()
	}
	if id := RunIDFromContext(ctx); id != uuid.Nil {
		logger = logger.With("run_id", id.String())
	}
	if rid := RequestIDFromContext(ctx); rid != "" {
		logger = logger.With("request_id", rid)
	}
	if name, ok := ctx.Value(ContextKeyFilename).(string); ok && name != "" {
		logger = logger.With("file", name)
	}
	return logger
}
