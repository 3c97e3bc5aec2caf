// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/carterperez-dev/tierboard/internal/core"
	"github.com/carterperez-dev/tierboard/internal/session"
)

const UsernameKey contextKey = "username"

type SessionResolver interface {
	TokenFromRequest(r *http.Request) string
	Resolve(ctx context.Context, raw string) (*session.Session, error)
}

// Authenticator is the requireAuth gate: it resolves the session cookie and
// places the acting username in the request context.
func Authenticator(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := resolver.TokenFromRequest(r)
			if raw == "" {
				core.Unauthorized(w, "not logged in")
				return
			}

			sess, err := resolver.Resolve(r.Context(), raw)
			if err != nil {
				if errors.Is(err, core.ErrSessionInvalid) {
					core.Unauthorized(w, "session expired or invalid")
					return
				}
				core.InternalServerError(w, err)
				return
			}

			recordPrincipal(r.Context(), sess.Username)
			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
		})
	}
}

// RequireUser rejects requests whose username is not in allowed.
func RequireUser(allowed []string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, u := range allowed {
		set[u] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username := GetUsername(r.Context())
			if username == "" {
				core.Unauthorized(w, "")
				return
			}

			if _, ok := set[username]; !ok {
				core.Forbidden(w, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func WithSession(ctx context.Context, sess *session.Session) context.Context {
	return context.WithValue(ctx, UsernameKey, sess.Username)
}

func GetUsername(ctx context.Context) string {
	if username, ok := ctx.Value(UsernameKey).(string); ok {
		return username
	}
	return ""
}
