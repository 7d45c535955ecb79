// Package slotlock guards the check-then-book critical section for a
// calendar slot so two concurrent requests cannot both observe a free slot
// and both book it.
package slotlock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotAcquired means another request currently holds the slot.
var ErrNotAcquired = errors.New("slotlock: not acquired")

// Locker runs fn while holding an exclusive lock for the slot key.
type Locker interface {
	WithSlotLock(ctx context.Context, slot time.Time, fn func(ctx context.Context) error) error
}

// SlotKey derives a stable lock key from the slot time.
func SlotKey(slot time.Time) string {
	return fmt.Sprintf("lock:slot:%s", slot.UTC().Format("2006-01-02T15:04"))
}

type redisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisLocker creates a locker backed by a per-slot Redis key. The TTL
// bounds how long a crashed holder can block the slot.
func NewRedisLocker(client *redis.Client, ttl time.Duration) Locker {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &redisLocker{client: client, ttl: ttl}
}

func (l *redisLocker) WithSlotLock(ctx context.Context, slot time.Time, fn func(ctx context.Context) error) error {
	key := SlotKey(slot)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("slotlock: acquire: %w", err)
	}
	if !ok {
		return ErrNotAcquired
	}

	defer func() {
		_ = l.release(context.WithoutCancel(ctx), key, token)
	}()

	lockCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()

	return fn(lockCtx)
}

// release deletes the key only if this holder's token is still present, so
// an expired lock reacquired by someone else is never deleted from here.
var unlockScript = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if val == ARGV[1] then
  return redis.call("DEL", KEYS[1])
else
  return 0
end
`)

func (l *redisLocker) release(ctx context.Context, key, token string) error {
	_, err := unlockScript.Run(ctx, l.client, []string{key}, token).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("slotlock: release: %w", err)
	}
	return nil
}

// MemoryLocker serializes slot access within a single process. Suitable for
// tests and single-instance deployments.
type MemoryLocker struct {
	mu    sync.Mutex
	slots map[string]*sync.Mutex
}

// NewMemoryLocker creates an in-process locker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{slots: make(map[string]*sync.Mutex)}
}

func (l *MemoryLocker) WithSlotLock(ctx context.Context, slot time.Time, fn func(ctx context.Context) error) error {
	key := SlotKey(slot)

	l.mu.Lock()
	m, ok := l.slots[key]
	if !ok {
		m = &sync.Mutex{}
		l.slots[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	defer m.Unlock()
	return fn(ctx)
}

var (
	_ Locker = (*redisLocker)(nil)
	_ Locker = (*MemoryLocker)(nil)
)
