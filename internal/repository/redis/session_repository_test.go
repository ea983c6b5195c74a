package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gdugdh24/techmate-hunt/internal/domain"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestSessionLifecycle(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestClient(t)
	repo := NewSessionRepository(client)

	require.NoError(t, repo.Create(ctx, "hash1", "user-1", time.Hour))

	userID, err := repo.GetUserID(ctx, "hash1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.True(t, mr.TTL("session:hash1") > 0)

	require.NoError(t, repo.Delete(ctx, "hash1"))
	_, err = repo.GetUserID(ctx, "hash1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "hash1"), domain.ErrSessionNotFound)
}

func TestSessionExpires(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestClient(t)
	repo := NewSessionRepository(client)

	require.NoError(t, repo.Create(ctx, "hash1", "user-1", time.Minute))
	mr.FastForward(2 * time.Minute)

	_, err := repo.GetUserID(ctx, "hash1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestDeleteByUser(t *testing.T) {
	ctx := context.Background()
	_, client := newTestClient(t)
	repo := NewSessionRepository(client)

	require.NoError(t, repo.Create(ctx, "a", "user-1", time.Hour))
	require.NoError(t, repo.Create(ctx, "b", "user-1", time.Hour))
	require.NoError(t, repo.Create(ctx, "c", "user-2", time.Hour))

	require.NoError(t, repo.DeleteByUser(ctx, "user-1"))

	for _, h := range []string{"a", "b"} {
		_, err := repo.GetUserID(ctx, h)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	}
	userID, err := repo.GetUserID(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "user-2", userID)
}
