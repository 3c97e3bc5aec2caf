// AngelaMos | 2026
// repository_test.go

package user

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/tierboard/internal/core"
	"github.com/carterperez-dev/tierboard/internal/testutil"
)

func TestPostgresRepository(t *testing.T) {
	db := testutil.Postgres(t)
	repo := NewRepository(db.DB)
	ctx := context.Background()

	name := testutil.Unique("alice")
	u := &User{Username: name, PasswordHash: "hash"}
	require.NoError(t, repo.Create(ctx, u))
	assert.False(t, u.CreatedAt.IsZero())

	err := repo.Create(ctx, &User{Username: name, PasswordHash: "other"})
	assert.ErrorIs(t, err, core.ErrDuplicateKey)

	got, err := repo.GetByUsername(ctx, name)
	require.NoError(t, err)
	assert.Equal(t, "hash", got.PasswordHash)

	_, err = repo.GetByUsername(ctx, strings.ToUpper(name))
	assert.ErrorIs(t, err, core.ErrNotFound)

	exists, err := repo.ExistsByUsername(ctx, name)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByUsername(ctx, testutil.Unique("ghost"))
	require.NoError(t, err)
	assert.False(t, exists)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 1)
}
