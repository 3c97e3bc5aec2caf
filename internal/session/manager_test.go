// AngelaMos | 2026
// manager_test.go

package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/tierboard/internal/config"
	"github.com/carterperez-dev/tierboard/internal/core"
)

func testConfig() config.SessionConfig {
	return config.SessionConfig{
		Secret:     "test-secret-that-is-long-enough-for-hs256",
		TTL:        time.Hour,
		CookieName: "tierboard_session",
		Issuer:     "tierboard-test",
	}
}

func newTestManager(t *testing.T) (*Manager, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore()
	m, err := NewManager(store, testConfig())
	require.NoError(t, err)
	return m, store
}

func TestManagerCreateResolve(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t)

	sess, err := m.Create(ctx, "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, 1, store.Len())

	resolved, err := m.Resolve(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "alice", resolved.Username)
	assert.Equal(t, sess.ID, resolved.ID)
}

func TestManagerRejectsTamperedToken(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	sess, err := m.Create(ctx, "alice")
	require.NoError(t, err)

	_, err = m.Resolve(ctx, sess.Token+"x")
	assert.ErrorIs(t, err, core.ErrSessionInvalid)

	_, err = m.Resolve(ctx, "")
	assert.ErrorIs(t, err, core.ErrSessionInvalid)

	other, err := NewManager(NewMemoryStore(), config.SessionConfig{
		Secret: "a-completely-different-secret-value!!",
		TTL:    time.Hour,
		Issuer: "tierboard-test",
	})
	require.NoError(t, err)
	_, err = other.Resolve(ctx, sess.Token)
	assert.ErrorIs(t, err, core.ErrSessionInvalid)
}

func TestManagerDestroyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m, store := newTestManager(t)

	sess, err := m.Create(ctx, "alice")
	require.NoError(t, err)

	existed, err := m.Destroy(ctx, sess.Token)
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, 0, store.Len())

	existed, err = m.Destroy(ctx, sess.Token)
	require.NoError(t, err)
	assert.False(t, existed)

	_, err = m.Resolve(ctx, sess.Token)
	assert.ErrorIs(t, err, core.ErrSessionInvalid)
}

func TestManagerExpiry(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	start := time.Now()
	m.now = func() time.Time { return start }

	sess, err := m.Create(ctx, "alice")
	require.NoError(t, err)

	later := start.Add(2 * time.Hour)
	m.now = func() time.Time { return later }

	_, err = m.Resolve(ctx, sess.Token)
	assert.ErrorIs(t, err, core.ErrSessionInvalid)
}

func TestManagerCookies(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	sess, err := m.Create(ctx, "alice")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	m.SetCookie(rec, sess)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "tierboard_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	assert.Equal(t, sess.Token, m.TokenFromRequest(req))

	rec = httptest.NewRecorder()
	m.ClearCookie(rec)
	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, "", cleared[0].Value)
	assert.Less(t, cleared[0].MaxAge, 0)
}
