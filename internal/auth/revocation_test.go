package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRevoker(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	r := NewRedisRevoker(rdb)

	revoked, err := r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))
	revoked, err = r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.True(t, mr.Exists("revoked:jti-1"))

	mr.FastForward(2 * time.Hour)
	revoked, err = r.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked, "entry expires with the token")
}

func TestRedisRevokerSkipsExpiredTokens(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	r := NewRedisRevoker(rdb)
	require.NoError(t, r.Revoke(context.Background(), "old", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists("revoked:old"))
}

func TestRedisRevokerUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	mr.Close()

	_, err := NewRedisRevoker(rdb).IsRevoked(context.Background(), "jti")
	assert.Error(t, err)
}

func TestMemoryRevoker(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	m := NewMemoryRevoker()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Revoke(ctx, "a", now.Add(time.Minute)))
	revoked, err := m.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.True(t, revoked)

	m.now = func() time.Time { return now.Add(2 * time.Minute) }
	revoked, err = m.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, m.Revoke(ctx, "b", now.Add(time.Hour)))
	assert.NotContains(t, m.entries, "a", "expired entries are pruned on write")
}
