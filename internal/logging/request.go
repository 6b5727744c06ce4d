package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ctxKey string

// RequestIDKey is the context key for request IDs.
const RequestIDKey ctxKey = "request_id"

// RequestIDHeader is the header a caller-supplied request ID is read from.
const RequestIDHeader = "X-Request-ID"

// WithRequestID stores requestID, or a fresh UUID when it is empty, in ctx
// and attaches it to the context logger derived from base.
func WithRequestID(ctx context.Context, base *zerolog.Logger, requestID string) context.Context {
	if requestID == "" {
		requestID = uuid.NewString()
	}

	ctx = context.WithValue(ctx, RequestIDKey, requestID)
	logger := base.With().Str("request_id", requestID).Logger()
	return logger.WithContext(ctx)
}

// RequestID returns the request ID stored by WithRequestID.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
