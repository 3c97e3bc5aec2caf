// AngelaMos | 2026
// security.go

package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/carterperez-dev/tierboard/internal/config"
)

func SecurityHeaders(production bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Cross-Origin-Opener-Policy", "same-origin")

			if production {
				h.Set(
					"Strict-Transport-Security",
					"max-age=63072000; includeSubDomains",
				)
			}

			next.ServeHTTP(w, r)
		})
	}
}

func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   cfg.AllowedMethods,
		AllowedHeaders:   cfg.AllowedHeaders,
		ExposedHeaders:   []string{RequestIDHeader, "Retry-After"},
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	})
}
