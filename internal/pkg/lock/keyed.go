package lock

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// KeyedMutex serializes critical sections per key. The engine uses one key per
// room type: availability resolution, allocation, and every capacity-mutating
// transition for the same room type must not interleave.
//
// Acquire is context-aware so a caller can abandon a request while still
// waiting; once acquired, the critical section runs to completion.
type KeyedMutex struct {
	mu    sync.Mutex
	slots map[uuid.UUID]*slot
}

type slot struct {
	ch   chan struct{} // capacity 1; holding the token means holding the lock
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		slots: make(map[uuid.UUID]*slot),
	}
}

// Acquire blocks until the key's lock is held or ctx is done.
// The returned release function must be called exactly once.
func (k *KeyedMutex) Acquire(ctx context.Context, key uuid.UUID) (func(), error) {
	s := k.retain(key)

	select {
	case s.ch <- struct{}{}:
		return func() {
			<-s.ch
			k.release(key)
		}, nil
	case <-ctx.Done():
		k.release(key)
		return nil, ctx.Err()
	}
}

func (k *KeyedMutex) retain(key uuid.UUID) *slot {
	k.mu.Lock()
	defer k.mu.Unlock()

	s, ok := k.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		k.slots[key] = s
	}
	s.refs++
	return s
}

func (k *KeyedMutex) release(key uuid.UUID) {
	k.mu.Lock()
	defer k.mu.Unlock()

	s, ok := k.slots[key]
	if !ok {
		return
	}
	s.refs--
	if s.refs == 0 {
		delete(k.slots, key)
	}
}
