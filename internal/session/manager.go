// AngelaMos | 2026
// manager.go

package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/carterperez-dev/tierboard/internal/config"
	"github.com/carterperez-dev/tierboard/internal/core"
)

type Session struct {
	ID        string
	Username  string
	Token     string
	ExpiresAt time.Time
}

// Manager issues and resolves session cookies. The cookie value is an
// HS256-signed token whose jti is the server-side session id; the store
// stays authoritative, so deleting the id revokes the cookie at once.
type Manager struct {
	store  Store
	key    jwk.Key
	config config.SessionConfig
	now    func() time.Time
}

func NewManager(store Store, cfg config.SessionConfig) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("session secret is empty")
	}

	key, err := jwk.Import([]byte(cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("import session key: %w", err)
	}

	if cfg.CookieName == "" {
		cfg.CookieName = "tierboard_session"
	}

	return &Manager{
		store:  store,
		key:    key,
		config: cfg,
		now:    time.Now,
	}, nil
}

func (m *Manager) Create(ctx context.Context, username string) (*Session, error) {
	id := uuid.New().String()
	now := m.now()
	expiresAt := now.Add(m.config.TTL)

	if err := m.store.Set(ctx, id, username, m.config.TTL); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	token, err := jwt.NewBuilder().
		JwtID(id).
		Issuer(m.config.Issuer).
		Subject(username).
		IssuedAt(now).
		Expiration(expiresAt).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build session token: %w", err)
	}

	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256(), m.key))
	if err != nil {
		return nil, fmt.Errorf("sign session token: %w", err)
	}

	return &Session{
		ID:        id,
		Username:  username,
		Token:     string(signed),
		ExpiresAt: expiresAt,
	}, nil
}

// Resolve verifies a cookie value and returns the live session behind it.
func (m *Manager) Resolve(ctx context.Context, raw string) (*Session, error) {
	id, username, err := m.parse(raw)
	if err != nil {
		return nil, err
	}

	stored, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if stored != username {
		return nil, fmt.Errorf("resolve session: subject mismatch: %w", core.ErrSessionInvalid)
	}

	return &Session{ID: id, Username: username, Token: raw}, nil
}

// Destroy removes the session behind raw. It reports whether a live
// session existed; an unknown or malformed cookie is not an error.
func (m *Manager) Destroy(ctx context.Context, raw string) (bool, error) {
	sess, err := m.Resolve(ctx, raw)
	if err != nil {
		if errors.Is(err, core.ErrSessionInvalid) {
			return false, nil
		}
		return false, err
	}

	if err := m.store.Delete(ctx, sess.ID); err != nil {
		return false, fmt.Errorf("destroy session: %w", err)
	}

	return true, nil
}

func (m *Manager) parse(raw string) (string, string, error) {
	if raw == "" {
		return "", "", fmt.Errorf("parse session: empty token: %w", core.ErrSessionInvalid)
	}

	token, err := jwt.Parse(
		[]byte(raw),
		jwt.WithKey(jwa.HS256(), m.key),
		jwt.WithValidate(true),
		jwt.WithIssuer(m.config.Issuer),
		jwt.WithClock(jwt.ClockFunc(m.now)),
	)
	if err != nil {
		return "", "", fmt.Errorf("parse session: %w", core.ErrSessionInvalid)
	}

	id, ok := token.JwtID()
	if !ok || id == "" {
		return "", "", fmt.Errorf("parse session: missing jti: %w", core.ErrSessionInvalid)
	}

	username, ok := token.Subject()
	if !ok || username == "" {
		return "", "", fmt.Errorf("parse session: missing subject: %w", core.ErrSessionInvalid)
	}

	return id, username, nil
}

func (m *Manager) CookieName() string {
	return m.config.CookieName
}

// TokenFromRequest returns the raw session cookie value, or "".
func (m *Manager) TokenFromRequest(r *http.Request) string {
	c, err := r.Cookie(m.config.CookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

func (m *Manager) SetCookie(w http.ResponseWriter, sess *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.config.CookieName,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(m.config.TTL / time.Second),
		HttpOnly: true,
		Secure:   m.config.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.config.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.config.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
