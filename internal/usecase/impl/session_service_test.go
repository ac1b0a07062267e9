package impl

import (
	"context"
	"testing"
	"time"

	"flightdeck/internal/domain/entity"
	"flightdeck/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionService(store *fakeStore, ttl time.Duration) usecase.SessionUsecase {
	return &sessionService{
		sessionRepo: &fakeSessionRepo{store: store},
		tokenSource: &store.tokens,
		ttl:         ttl,
		logger:      discardLogger(),
	}
}

func TestSessionService_CreateAndResolve(t *testing.T) {
	store := newFakeStore()
	srv := newSessionService(store, 24*time.Hour)

	identity := &entity.Identity{ID: uuid.New(), Name: "Alice"}
	token, err := srv.Create(context.Background(), identity)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	resolved, err := srv.Resolve(context.Background(), token)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, identity.ID, resolved.ID)
	assert.Equal(t, "Alice", resolved.Name)
}

func TestSessionService_RawTokenNeverStored(t *testing.T) {
	store := newFakeStore()
	srv := newSessionService(store, 24*time.Hour)

	token, err := srv.Create(context.Background(), &entity.Identity{ID: uuid.New(), Name: "Alice"})
	require.NoError(t, err)

	for hash := range store.sessions {
		assert.NotEqual(t, token, hash)
	}
}

func TestSessionService_Resolve_UnknownToken(t *testing.T) {
	srv := newSessionService(newFakeStore(), 24*time.Hour)

	resolved, err := srv.Resolve(context.Background(), "never-issued")
	require.NoError(t, err)
	assert.Nil(t, resolved)
}

func TestSessionService_Resolve_EmptyToken(t *testing.T) {
	srv := newSessionService(newFakeStore(), 24*time.Hour)

	resolved, err := srv.Resolve(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, resolved)
}

func TestSessionService_Resolve_ExpiredSessionDeleted(t *testing.T) {
	store := newFakeStore()
	srv := newSessionService(store, -time.Minute) // already expired at creation

	token, err := srv.Create(context.Background(), &entity.Identity{ID: uuid.New(), Name: "Alice"})
	require.NoError(t, err)

	resolved, err := srv.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Nil(t, resolved)

	// Resolving an expired session removes its row.
	assert.Empty(t, store.sessions)
}

func TestSessionService_Destroy(t *testing.T) {
	store := newFakeStore()
	srv := newSessionService(store, 24*time.Hour)

	token, err := srv.Create(context.Background(), &entity.Identity{ID: uuid.New(), Name: "Alice"})
	require.NoError(t, err)

	require.NoError(t, srv.Destroy(context.Background(), token))

	resolved, err := srv.Resolve(context.Background(), token)
	require.NoError(t, err)
	assert.Nil(t, resolved)

	// Destroying again is fine.
	require.NoError(t, srv.Destroy(context.Background(), token))
}

func TestSessionService_PurgeExpired(t *testing.T) {
	store := newFakeStore()
	live := newSessionService(store, 24*time.Hour)
	dead := newSessionService(store, -time.Minute)

	_, err := live.Create(context.Background(), &entity.Identity{ID: uuid.New(), Name: "Alive"})
	require.NoError(t, err)
	_, err = dead.Create(context.Background(), &entity.Identity{ID: uuid.New(), Name: "Gone"})
	require.NoError(t, err)
	_, err = dead.Create(context.Background(), &entity.Identity{ID: uuid.New(), Name: "Gone Too"})
	require.NoError(t, err)

	removed, err := live.PurgeExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)
	assert.Len(t, store.sessions, 1)
}

func TestSessionService_TokensAreUnique(t *testing.T) {
	srv := newSessionService(newFakeStore(), 24*time.Hour)

	first, err := srv.Create(context.Background(), &entity.Identity{ID: uuid.New(), Name: "A"})
	require.NoError(t, err)
	second, err := srv.Create(context.Background(), &entity.Identity{ID: uuid.New(), Name: "B"})
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
