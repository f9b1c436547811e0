package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoker records token ids that must no longer be accepted.
type Revoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

const revokedPrefix = "revoked:"

// RedisRevoker keeps revoked ids in Redis until the token would have expired.
type RedisRevoker struct {
	rdb *redis.Client
	now func() time.Time
}

func NewRedisRevoker(rdb *redis.Client) *RedisRevoker {
	return &RedisRevoker{rdb: rdb, now: time.Now}
}

func (r *RedisRevoker) Revoke(ctx context.Context, jti string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.rdb.Set(ctx, revokedPrefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis revoke: %w", err)
	}
	return nil
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	err := r.rdb.Get(ctx, revokedPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis revoked lookup: %w", err)
	}
	return true, nil
}

// MemoryRevoker is the single-process fallback used when Redis is not
// configured. Expired entries are dropped on write.
type MemoryRevoker struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevoker() *MemoryRevoker {
	return &MemoryRevoker{entries: map[string]time.Time{}, now: time.Now}
}

func (m *MemoryRevoker) Revoke(_ context.Context, jti string, until time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for id, exp := range m.entries {
		if !exp.After(now) {
			delete(m.entries, id)
		}
	}
	if until.After(now) {
		m.entries[jti] = until
	}
	return nil
}

func (m *MemoryRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	exp, ok := m.entries[jti]
	return ok && exp.After(m.now()), nil
}
