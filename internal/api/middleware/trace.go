// Package middleware holds HTTP middleware shared by every API route.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/study-planner/internal/api/shared"
	"github.com/phrazzld/study-planner/internal/platform/logger"
)

// NewTraceMiddleware adds a trace ID to the request context and response
// headers, and stores a request-scoped logger carrying it. An incoming
// X-Trace-ID header is reused when well formed.
// Apply it early so every later handler logs with the trace ID.
func NewTraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context(), r.Header.Get(shared.TraceIDHeader))
			traceID := shared.GetTraceID(ctx)

			log := base.With(slog.String("trace_id", traceID))
			ctx = logger.WithLogger(ctx, log)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			w.Header().Set(shared.TraceIDHeader, traceID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
