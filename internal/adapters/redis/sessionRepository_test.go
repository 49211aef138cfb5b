package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newRepo(t *testing.T) (*SessionRepositoryRedis, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionRepositoryRedis(client, zaptest.NewLogger(t)), mr
}

func TestRevoke_SetsKeyWithTTL(t *testing.T) {
	ctx := context.Background()
	repo, mr := newRepo(t)

	require.NoError(t, repo.Revoke(ctx, "abc", 30*time.Minute))
	assert.True(t, mr.Exists(revokedPrefix+"abc"))
	assert.Equal(t, 30*time.Minute, mr.TTL(revokedPrefix+"abc"))
}

func TestRevoke_ExpiredIsNoop(t *testing.T) {
	ctx := context.Background()
	repo, mr := newRepo(t)

	require.NoError(t, repo.Revoke(ctx, "old", 0))
	require.NoError(t, repo.Revoke(ctx, "older", -time.Second))
	assert.Empty(t, mr.Keys())
}

func TestIsRevoked(t *testing.T) {
	ctx := context.Background()
	repo, mr := newRepo(t)

	revoked, err := repo.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, repo.Revoke(ctx, "abc", time.Minute))
	revoked, err = repo.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	mr.FastForward(2 * time.Minute)
	revoked, err = repo.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestIsRevoked_StoreDown(t *testing.T) {
	repo, mr := newRepo(t)
	mr.Close()

	_, err := repo.IsRevoked(context.Background(), "abc")
	assert.Error(t, err)
}
