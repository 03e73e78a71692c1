package logger

import (
	"context"
)

// contextKey is a private type for context keys used by the logger package
type contextKey string

// RequestIDKey is the context key carrying the request ID across layers,
// so SQL traces can be correlated with their originating request.
const RequestIDKey contextKey = "request_id"

// WithRequestID returns a context carrying the given request ID
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from context, empty if unset
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}
