// AngelaMos | 2026
// database.go

package core

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"math/rand/v2"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/lock"

	"github.com/carterperez-dev/tierboard/internal/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

type Database struct {
	DB *sqlx.DB
}

func NewDatabase(
	ctx context.Context,
	cfg config.DatabaseConfig,
) (*Database, error) {
	connCfg, err := pgx.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	// Simple protocol returns every column in text form, which lets
	// pq.StringArray scan text[] columns and keeps PgBouncer happy.
	connCfg.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	db := sqlx.NewDb(stdlib.OpenDB(*connCfg), "pgx")

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(jitteredDuration(cfg.ConnMaxLifetime))
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close() //nolint:errcheck // cleanup on connection failure
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Database{DB: db}, nil
}

// Migrate applies pending embedded migrations and returns how many ran.
// goose records applied versions in goose_db_version and holds a Postgres
// advisory lock, so concurrent boots apply each file once.
func (d *Database) Migrate(ctx context.Context) (int, error) {
	fsys, err := fs.Sub(migrations, "migrations")
	if err != nil {
		return 0, fmt.Errorf("open migrations: %w", err)
	}

	locker, err := lock.NewPostgresSessionLocker()
	if err != nil {
		return 0, fmt.Errorf("migration lock: %w", err)
	}

	provider, err := goose.NewProvider(
		goose.DialectPostgres,
		d.DB.DB,
		fsys,
		goose.WithSessionLocker(locker),
	)
	if err != nil {
		return 0, fmt.Errorf("migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return len(results), fmt.Errorf("apply migrations: %w", err)
	}

	return len(results), nil
}

func (d *Database) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}

func (d *Database) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := d.DB.PingContext(pingCtx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	return nil
}

func (d *Database) Stats() sql.DBStats {
	return d.DB.Stats()
}

type DBTX interface {
	sqlx.ExtContext
	sqlx.ExecerContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(
		ctx context.Context,
		dest any,
		query string,
		args ...any,
	) error
}

// InTx runs fn inside a transaction, rolling back on error or panic.
func InTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback() //nolint:errcheck // best-effort rollback on panic
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %w (original: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

const pgUniqueViolation = "23505"

func IsDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

// DuplicateConstraint returns the name of the unique constraint a failed
// insert violated, or "" for any other error.
func DuplicateConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return pgErr.ConstraintName
	}
	return ""
}

func jitteredDuration(base time.Duration) time.Duration {
	if base <= 0 {
		return base
	}
	//nolint:gosec // G404: non-security-sensitive jitter for connection pool
	jitter := time.Duration(rand.Int64N(int64(base/7) + 1))
	return base + jitter
}
