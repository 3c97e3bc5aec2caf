// AngelaMos | 2026
// logger.go

package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/carterperez-dev/tierboard/internal/core"
)

// Logger emits one structured line per request. The username is read after
// the handler chain ran, so it is populated for authenticated routes.
func Logger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			holder := &principalHolder{}
			r = r.WithContext(withPrincipalHolder(r.Context(), holder))

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", GetRequestID(r.Context()),
			}
			if holder.username != "" {
				attrs = append(attrs, "username", holder.username)
			}
			if traceID := core.TraceIDFromContext(r.Context()); traceID != "" {
				attrs = append(attrs, "trace_id", traceID)
			}

			level := slog.LevelInfo
			switch {
			case status >= http.StatusInternalServerError:
				level = slog.LevelError
			case status >= http.StatusBadRequest:
				level = slog.LevelWarn
			}

			logger.Log(r.Context(), level, "http request", attrs...)
		})
	}
}
