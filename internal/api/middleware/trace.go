package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/transit-api/internal/api/shared"
	"github.com/phrazzld/transit-api/internal/platform/logger"
)

// NewTraceMiddleware adds a trace ID to every request. An incoming
// X-Trace-ID header is kept; otherwise a new ID is generated. The ID is echoed
// in the response header and a logger carrying it is stored in the context.
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

			w.Header().Set(shared.TraceIDHeader, traceID)

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
