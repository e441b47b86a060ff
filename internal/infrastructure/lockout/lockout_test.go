package lockout

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
)

func exerciseLockout(t *testing.T, store ports.LoginLockoutStore, advance func(time.Duration)) {
	t.Helper()
	ctx := context.Background()

	store.RecordFailure(ctx, "dev@acme.com")
	store.RecordFailure(ctx, "DEV@acme.com ")
	locked, _ := store.IsLocked(ctx, "dev@acme.com")
	assert.False(t, locked)

	store.RecordFailure(ctx, "dev@acme.com")
	locked, retry := store.IsLocked(ctx, "Dev@Acme.com")
	require.True(t, locked)
	assert.InDelta(t, 60, retry, 1)

	other, _ := store.IsLocked(ctx, "qa@acme.com")
	assert.False(t, other)

	advance(61 * time.Second)
	locked, _ = store.IsLocked(ctx, "dev@acme.com")
	assert.False(t, locked)

	store.RecordFailure(ctx, "dev@acme.com")
	store.RecordFailure(ctx, "dev@acme.com")
	store.RecordSuccess(ctx, "dev@acme.com")
	store.RecordFailure(ctx, "dev@acme.com")
	locked, _ = store.IsLocked(ctx, "dev@acme.com")
	assert.False(t, locked, "success clears the failure count")
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(3, time.Minute)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	exerciseLockout(t, store, func(d time.Duration) { now = now.Add(d) })
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := NewRedisStore(client, 3, time.Minute, zerolog.Nop())
	exerciseLockout(t, store, mr.FastForward)
}

func TestRedisStoreFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := NewRedisStore(client, 1, time.Minute, zerolog.Nop())
	store.RecordFailure(context.Background(), "dev@acme.com")
	mr.Close()

	locked, _ := store.IsLocked(context.Background(), "dev@acme.com")
	assert.False(t, locked)
}

func TestDisabledLockout(t *testing.T) {
	store := NewMemoryStore(0, time.Minute)
	for range 10 {
		store.RecordFailure(context.Background(), "dev@acme.com")
	}
	locked, _ := store.IsLocked(context.Background(), "dev@acme.com")
	assert.False(t, locked)
}
