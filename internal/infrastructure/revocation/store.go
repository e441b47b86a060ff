// Package revocation remembers logged-out access tokens until they expire.
package revocation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
)

const keyPrefix = "revoked:"

// RedisStore keeps one key per revoked token id, expiring with the token.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Revoke(ctx context.Context, tokenID string, ttlSeconds int64) error {
	if ttlSeconds <= 0 {
		return nil
	}
	return s.client.Set(ctx, keyPrefix+tokenID, 1, time.Duration(ttlSeconds)*time.Second).Err()
}

func (s *RedisStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := s.client.Get(ctx, keyPrefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// MemoryStore is the single-instance fallback when Redis is not configured.
type MemoryStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{revoked: make(map[string]time.Time), now: time.Now}
}

func (s *MemoryStore) Revoke(_ context.Context, tokenID string, ttlSeconds int64) error {
	if ttlSeconds <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, until := range s.revoked {
		if !now.Before(until) {
			delete(s.revoked, id)
		}
	}
	s.revoked[tokenID] = now.Add(time.Duration(ttlSeconds) * time.Second)
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	until, ok := s.revoked[tokenID]
	return ok && s.now().Before(until), nil
}

var (
	_ ports.SessionRevoker = (*RedisStore)(nil)
	_ ports.SessionRevoker = (*MemoryStore)(nil)
)
