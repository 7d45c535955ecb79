package slotlock

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

var slot = time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC)

func TestSlotKey(t *testing.T) {
	if got := SlotKey(slot); got != "lock:slot:2026-03-09T10:00" {
		t.Errorf("SlotKey = %q", got)
	}
	// Different timezones for the same instant map to the same key.
	est := slot.In(time.FixedZone("EST", -5*3600))
	if SlotKey(est) != SlotKey(slot) {
		t.Errorf("SlotKey not timezone-stable: %q vs %q", SlotKey(est), SlotKey(slot))
	}
}

func TestRedisLockerExcludesConcurrentHolder(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	locker := NewRedisLocker(client, time.Minute)
	ctx := context.Background()

	err := locker.WithSlotLock(ctx, slot, func(ctx context.Context) error {
		// A second acquisition of the same slot while held must fail.
		inner := locker.WithSlotLock(ctx, slot, func(context.Context) error { return nil })
		if !errors.Is(inner, ErrNotAcquired) {
			t.Errorf("inner err = %v, want ErrNotAcquired", inner)
		}
		// A different slot is unaffected.
		other := locker.WithSlotLock(ctx, slot.Add(time.Hour), func(context.Context) error { return nil })
		if other != nil {
			t.Errorf("other slot err = %v", other)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("outer: %v", err)
	}

	// Released on return: the same slot can be taken again.
	if err := locker.WithSlotLock(ctx, slot, func(context.Context) error { return nil }); err != nil {
		t.Fatalf("reacquire: %v", err)
	}
}

func TestRedisLockerReleasesOnError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	locker := NewRedisLocker(client, time.Minute)
	ctx := context.Background()

	sentinel := errors.New("boom")
	if err := locker.WithSlotLock(ctx, slot, func(context.Context) error { return sentinel }); !errors.Is(err, sentinel) {
		t.Fatalf("err = %v, want sentinel", err)
	}
	if mr.Exists(SlotKey(slot)) {
		t.Error("lock key still present after fn error")
	}
}

func TestMemoryLockerSerializes(t *testing.T) {
	locker := NewMemoryLocker()
	ctx := context.Background()

	var mu sync.Mutex
	inside, maxInside := 0, 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = locker.WithSlotLock(ctx, slot, func(context.Context) error {
				mu.Lock()
				inside++
				if inside > maxInside {
					maxInside = inside
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				inside--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	if maxInside != 1 {
		t.Errorf("max concurrent holders = %d, want 1", maxInside)
	}
}
