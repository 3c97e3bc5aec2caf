// AngelaMos | 2026
// postgres.go

// Package testutil opens a migrated Postgres database for repository tests.
// Tests using it are skipped unless TEST_DATABASE_URL or DATABASE_URL is set.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/tierboard/internal/config"
	"github.com/carterperez-dev/tierboard/internal/core"
)

// DatabaseURL returns the Postgres URL for integration tests, or "".
func DatabaseURL() string {
	if url := os.Getenv("TEST_DATABASE_URL"); url != "" {
		return url
	}
	return os.Getenv("DATABASE_URL")
}

// Postgres connects to the test database and applies migrations. Packages
// share one database, so callers isolate rows with Unique names instead of
// truncating tables.
func Postgres(t testing.TB) *core.Database {
	t.Helper()

	url := DatabaseURL()
	if url == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := core.NewDatabase(ctx, config.DatabaseConfig{
		URL:             url,
		MaxOpenConns:    10,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Migrate(ctx)
	require.NoError(t, err)

	return db
}

// Unique returns prefix with a short random suffix, short enough for a
// username.
func Unique(prefix string) string {
	return prefix + "_" + uuid.NewString()[:8]
}
