package auth

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RomanCsn/workshop-DFS/internal/cache"
)

func newTestManager(t *testing.T, store Store) *SessionManager {
	t.Helper()

	signer, err := NewSigner(testSecret)
	require.NoError(t, err)

	return NewSessionManager(store, cache.NewMemoryCache(time.Minute, 10), signer, time.Hour, zerolog.Nop())
}

func TestSessionCreateAndVerify(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	m := newTestManager(t, store)

	created, err := m.Create(ctx, "user-1", "127.0.0.1", "go-test")
	require.NoError(t, err)
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, HashToken(created.Token), created.Session.Token)

	session, err := m.Verify(ctx, created.Token)
	require.NoError(t, err)
	assert.Equal(t, created.Session.ID, session.ID)
	assert.Equal(t, "user-1", session.UserID)
}

func TestSessionVerifyAfterDestroy(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	m := newTestManager(t, store)

	created, err := m.Create(ctx, "user-1", "", "")
	require.NoError(t, err)

	require.NoError(t, m.Destroy(ctx, created.Token))
	assert.Equal(t, 0, store.sessionCount())

	_, err = m.Verify(ctx, created.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.ErrorIs(t, m.Destroy(ctx, created.Token), ErrSessionNotFound)
	assert.ErrorIs(t, m.Destroy(ctx, ""), ErrMissingToken)
}

func TestSessionExpired(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	m := newTestManager(t, store)

	created, err := m.Create(ctx, "user-1", "", "")
	require.NoError(t, err)

	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err = m.Verify(ctx, created.Token)
	assert.ErrorIs(t, err, ErrSessionExpired)

	active, err := m.List(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, active)

	purged, err := m.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}

func TestSessionDestroyOthers(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	m := newTestManager(t, store)

	keep, err := m.Create(ctx, "user-1", "", "")
	require.NoError(t, err)
	_, err = m.Create(ctx, "user-1", "", "")
	require.NoError(t, err)
	_, err = m.Create(ctx, "user-1", "", "")
	require.NoError(t, err)
	_, err = m.Create(ctx, "user-2", "", "")
	require.NoError(t, err)

	removed, err := m.DestroyOthers(ctx, "user-1", keep.Session.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	active, err := m.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, keep.Session.ID, active[0].ID)
	assert.Equal(t, 2, store.sessionCount())
}

func TestSessionDestroyByIDChecksOwner(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	m := newTestManager(t, store)

	created, err := m.Create(ctx, "user-1", "", "")
	require.NoError(t, err)

	assert.ErrorIs(t, m.DestroyByID(ctx, "user-2", created.Session.ID), ErrSessionNotFound)
	assert.NoError(t, m.DestroyByID(ctx, "user-1", created.Session.ID))
	assert.Equal(t, 0, store.sessionCount())
}
