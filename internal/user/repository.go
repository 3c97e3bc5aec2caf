// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/tierboard/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (username, password_hash)
		VALUES ($1, $2)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &user.CreatedAt, query,
		user.Username,
		user.PasswordHash,
	)
	if err != nil {
		if core.IsDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByUsername(
	ctx context.Context,
	username string,
) (*User, error) {
	query := `
		SELECT username, password_hash, created_at
		FROM users
		WHERE username = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) ExistsByUsername(
	ctx context.Context,
	username string,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, username); err != nil {
		return false, fmt.Errorf("check username exists: %w", err)
	}

	return exists, nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return total, nil
}
