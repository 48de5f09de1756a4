package obs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type ctxKey string

const requestIDKey ctxKey = "req_id"

// WithRequestID stamps the request identifier the HTTP middleware assigns.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestID returns the stamped identifier, or "" outside a request.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Time logs an operation's duration when the surrounding function returns,
// switching to a warning when *errp is set by then.
//
//	defer obs.Time(log, "nominatim.Search")(&err)
func Time(log *zap.Logger, name string) func(errp *error) {
	start := time.Now()
	return func(errp *error) {
		fields := []zap.Field{
			zap.String("op", name),
			zap.Duration("dur", time.Since(start)),
		}
		if errp != nil && *errp != nil {
			log.Warn("operation failed", append(fields, zap.Error(*errp))...)
			return
		}
		log.Debug("operation done", fields...)
	}
}
