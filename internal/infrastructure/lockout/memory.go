package lockout

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/petim7277/Qonnect-sub000/internal/application/ports"
)

const defaultCooldown = 15 * time.Minute

type entry struct {
	failures    int
	lockedUntil time.Time
}

// MemoryStore is a LoginLockoutStore for a single instance. Use RedisStore when
// several instances share traffic.
type MemoryStore struct {
	mu       sync.Mutex
	data     map[string]*entry
	max      int
	cooldown time.Duration
	now      func() time.Time
}

// NewMemoryStore locks an email for cooldown after maxAttempts failures. maxAttempts 0 disables lockout.
func NewMemoryStore(maxAttempts int, cooldown time.Duration) *MemoryStore {
	if cooldown <= 0 {
		cooldown = defaultCooldown
	}
	return &MemoryStore{
		data:     make(map[string]*entry),
		max:      maxAttempts,
		cooldown: cooldown,
		now:      time.Now,
	}
}

func key(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *MemoryStore) IsLocked(_ context.Context, email string) (bool, int) {
	if s.max <= 0 {
		return false, 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.data[key(email)]
	if !ok {
		return false, 0
	}
	now := s.now()
	if !now.Before(e.lockedUntil) {
		return false, 0
	}
	return true, retryAfter(e.lockedUntil.Sub(now))
}

func (s *MemoryStore) RecordFailure(_ context.Context, email string) {
	if s.max <= 0 {
		return
	}
	k := key(email)
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.data[k]
	if e == nil {
		e = &entry{}
		s.data[k] = e
	}
	now := s.now()
	// A lock that has run out starts a fresh count.
	if !e.lockedUntil.IsZero() && !now.Before(e.lockedUntil) {
		e.failures = 0
		e.lockedUntil = time.Time{}
	}
	e.failures++
	if e.failures >= s.max {
		e.lockedUntil = now.Add(s.cooldown)
	}
}

func (s *MemoryStore) RecordSuccess(_ context.Context, email string) {
	if s.max <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key(email))
}

func retryAfter(d time.Duration) int {
	secs := int(d.Seconds())
	if secs < 1 {
		secs = 1
	}
	return secs
}

var _ ports.LoginLockoutStore = (*MemoryStore)(nil)
