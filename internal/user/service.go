// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/tierboard/internal/auth"
	"github.com/carterperez-dev/tierboard/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByUsername(
	ctx context.Context,
	username string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) Create(
	ctx context.Context,
	username, passwordHash string,
) (*auth.UserInfo, error) {
	user := &User{
		Username:     username,
		PasswordHash: passwordHash,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

// Exists reports whether username is registered. Usernames are matched
// exactly; "Alice" and "alice" are different users.
func (s *Service) Exists(ctx context.Context, username string) (bool, error) {
	return s.repo.ExistsByUsername(ctx, username)
}

func (s *Service) GetProfile(ctx context.Context, username string) (*User, error) {
	if username == "" {
		return nil, fmt.Errorf("get profile: %w", core.ErrNotFound)
	}
	return s.repo.GetByUsername(ctx, username)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

var _ auth.UserProvider = (*Service)(nil)
