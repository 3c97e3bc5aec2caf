// AngelaMos | 2026
// security_test.go

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	ok, err := VerifyPassword("secret1", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPasswordTimingSafe(t *testing.T) {
	ok, err := VerifyPasswordTimingSafe("anything", nil)
	require.NoError(t, err)
	assert.False(t, ok)

	empty := ""
	ok, err = VerifyPasswordTimingSafe("anything", &empty)
	require.NoError(t, err)
	assert.False(t, ok)

	hash, err := HashPassword("secret1")
	require.NoError(t, err)

	ok, err = VerifyPasswordTimingSafe("secret1", &hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGenerateAccessKeyIsRandom(t *testing.T) {
	seen := make(map[string]struct{})
	for range 50 {
		key, err := GenerateAccessKey()
		require.NoError(t, err)
		assert.Len(t, key, 32)
		assert.NotContains(t, key, "=")
		seen[key] = struct{}{}
	}
	assert.Len(t, seen, 50)
}
