package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type requestIDKey struct{}

// RequestIDFromContext returns the request id assigned by the logging
// middleware, or "" when there is none.
func RequestIDFromContext(ctx context.Context) string {
	id, ok := ctx.Value(requestIDKey{}).(string)
	if !ok {
		return ""
	}
	return id
}

func withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rqID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, rqID)

		next.ServeHTTP(w, r.WithContext(ctx))

		slog.Info("request handled",
			"rqID", rqID,
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}
