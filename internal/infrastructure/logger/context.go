package logger

import (
	"context"

	"go.uber.org/zap"
)

type ctxKey struct{}

// WithContext returns a context carrying the given logger.
func WithContext(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// FromContext returns the logger stored in the context.
// Falls back to zap.NewNop when none was attached so callers
// never have to nil-check.
func FromContext(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok {
		return log
	}
	return zap.NewNop()
}

// WithRequest annotates a logger with the identifiers that every
// request-scoped log line should carry.
func WithRequest(log *zap.Logger, requestID string, userID, companyID int64) *zap.Logger {
	return log.With(
		zap.String("request_id", requestID),
		zap.Int64("user_id", userID),
		zap.Int64("company_id", companyID),
	)
}
