package logger

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	userIDKey    contextKey = "user_id"
	loggerKey    contextKey = "logger"
)

// WithRequestID stores a request ID in the context, minting a fresh UUID
// when the caller has none (e.g. requests that arrive without the header).
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext returns the request ID, or "" when none was stored.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

// WithUserID stores the authenticated user's ID in the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the user ID, or "" when none was stored.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}

// WithLogger stores a logger in the context.
func WithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the context's logger, falling back to the default.
func FromContext(ctx context.Context) Logger {
	if l, ok := ctx.Value(loggerKey).(Logger); ok {
		return l
	}
	return Default()
}

// extractContextFields collects the request-scoped fields every log line
// should carry. Empty values are skipped rather than logged as "".
func extractContextFields(ctx context.Context) []Field {
	var fields []Field
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		fields = append(fields, String("request_id", requestID))
	}
	if userID := UserIDFromContext(ctx); userID != "" {
		fields = append(fields, String("user_id", userID))
	}
	return fields
}

// Ctx is shorthand for FromContext(ctx).WithContext(ctx), the usual way
// handlers and services pick up a request-scoped logger.
func Ctx(ctx context.Context) Logger {
	return FromContext(ctx).WithContext(ctx)
}
