// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/carterperez-dev/tierboard/internal/core"
	"github.com/carterperez-dev/tierboard/internal/session"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameExists     = errors.New("username already exists")
)

type UserInfo struct {
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

type UserProvider interface {
	GetByUsername(ctx context.Context, username string) (*UserInfo, error)
	Create(ctx context.Context, username, passwordHash string) (*UserInfo, error)
}

type SessionManager interface {
	Create(ctx context.Context, username string) (*session.Session, error)
	Destroy(ctx context.Context, raw string) (bool, error)
}

type Service struct {
	userProvider UserProvider
	sessions     SessionManager
}

func NewService(userProvider UserProvider, sessions SessionManager) *Service {
	return &Service{
		userProvider: userProvider,
		sessions:     sessions,
	}
}

// Result is the outcome of a successful register or login: the user and
// the freshly issued session.
type Result struct {
	User    UserResponse
	Session *session.Session
}

func (s *Service) Register(
	ctx context.Context,
	req CredentialsRequest,
) (res *Result, err error) {
	ctx, span := core.StartSpan(ctx, "auth.Register")
	defer func() { core.EndSpan(span, err) }()

	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.userProvider.Create(ctx, req.Username, passwordHash)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "user registered", "username", user.Username)

	return s.startSession(ctx, user.Username)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (res *Result, err error) {
	ctx, span := core.StartSpan(ctx, "auth.Login")
	defer func() { core.EndSpan(span, err) }()

	user, err := s.userProvider.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _ = core.VerifyPasswordTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	valid, err := core.VerifyPasswordTimingSafe(req.Password, &user.PasswordHash)
	if err != nil {
		return nil, err
	}

	if !valid {
		return nil, ErrInvalidCredentials
	}

	return s.startSession(ctx, user.Username)
}

// Logout destroys the session behind raw and reports whether one existed.
func (s *Service) Logout(ctx context.Context, raw string) (bool, error) {
	if raw == "" {
		return false, nil
	}
	return s.sessions.Destroy(ctx, raw)
}

func (s *Service) startSession(ctx context.Context, username string) (*Result, error) {
	sess, err := s.sessions.Create(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	return &Result{
		User:    UserResponse{Username: username},
		Session: sess,
	}, nil
}
