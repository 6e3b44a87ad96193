package lock

import (
	"context"
	"errors"
	"sync"
)

// ErrNotAcquired is returned when the lock for a key is already held
// and the implementation does not block (the Redis locker).
var ErrNotAcquired = errors.New("lock not acquired")

// Locker serializes critical sections per key. The reservation engine
// uses one key per (treatment, date) pair so all attempts for a given
// service-day route through a single writer.
type Locker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// keyedMutex is an in-process Locker. Mutexes are kept per key; the key
// space is bounded by services x dates at clinic scale.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewKeyedMutex returns a Locker backed by per-key sync.Mutex values.
func NewKeyedMutex() Locker {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedMutex) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	return m
}

func (k *keyedMutex) WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := k.get(key)
	m.Lock()
	defer m.Unlock()
	return fn(ctx)
}
