package lockout

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
)

const (
	failuresPrefix = "lockout:failures:"
	lockedPrefix   = "lockout:locked:"
)

// RedisStore shares lockout state between instances. Redis errors fail open:
// a login is never refused because Redis is unreachable.
type RedisStore struct {
	client   redis.UniversalClient
	max      int
	cooldown time.Duration
	log      zerolog.Logger
}

func NewRedisStore(client redis.UniversalClient, maxAttempts int, cooldown time.Duration, log zerolog.Logger) *RedisStore {
	if cooldown <= 0 {
		cooldown = defaultCooldown
	}
	return &RedisStore{client: client, max: maxAttempts, cooldown: cooldown, log: log}
}

func (s *RedisStore) IsLocked(ctx context.Context, email string) (bool, int) {
	if s.max <= 0 {
		return false, 0
	}
	ttl, err := s.client.PTTL(ctx, lockedPrefix+key(email)).Result()
	if err != nil {
		s.log.Warn().Err(err).Msg("lockout lookup failed")
		return false, 0
	}
	if ttl <= 0 {
		return false, 0
	}
	return true, retryAfter(ttl)
}

func (s *RedisStore) RecordFailure(ctx context.Context, email string) {
	if s.max <= 0 {
		return
	}
	k := key(email)
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, failuresPrefix+k)
	pipe.Expire(ctx, failuresPrefix+k, s.cooldown)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn().Err(err).Msg("lockout record failure failed")
		return
	}
	if incr.Val() < int64(s.max) {
		return
	}
	pipe = s.client.TxPipeline()
	pipe.Set(ctx, lockedPrefix+k, 1, s.cooldown)
	pipe.Del(ctx, failuresPrefix+k)
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn().Err(err).Msg("lockout lock failed")
	}
}

func (s *RedisStore) RecordSuccess(ctx context.Context, email string) {
	if s.max <= 0 {
		return
	}
	k := key(email)
	if err := s.client.Del(ctx, failuresPrefix+k, lockedPrefix+k).Err(); err != nil {
		s.log.Warn().Err(err).Msg("lockout reset failed")
	}
}

var _ ports.LoginLockoutStore = (*RedisStore)(nil)
