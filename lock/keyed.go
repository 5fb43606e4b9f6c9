package lock

import (
	"context"
	"fmt"
	"sync"
)

// Keyed is an in-process Locker. Entries are reference counted and dropped
// once no goroutine holds or waits for the key.
type Keyed struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

var _ Locker = (*Keyed)(nil)

// NewKeyed creates an empty in-process lock table.
func NewKeyed() *Keyed {
	return &Keyed{slots: make(map[string]*slot)}
}

// Lock implements Locker.
func (k *Keyed) Lock(ctx context.Context, key string) (Unlock, error) {
	s := k.acquireSlot(key)

	select {
	case s.ch <- struct{}{}:
	case <-ctx.Done():
		k.releaseSlot(key, s)
		return nil, fmt.Errorf("waiting for lock %q: %w", key, ctx.Err())
	}

	var once sync.Once
	return func() error {
		err := ErrNotHeld
		once.Do(func() {
			<-s.ch
			k.releaseSlot(key, s)
			err = nil
		})
		return err
	}, nil
}

func (k *Keyed) acquireSlot(key string) *slot {
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

func (k *Keyed) releaseSlot(key string, s *slot) {
	k.mu.Lock()
	defer k.mu.Unlock()

	s.refs--
	if s.refs == 0 {
		delete(k.slots, key)
	}
}

// size reports the number of tracked keys.
func (k *Keyed) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.slots)
}
