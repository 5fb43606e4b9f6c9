// Package lock serializes work on shared keys such as repository scratch paths.
//
// Keyed is an in-process lock for a single action container. Redis is a lease lock
// for several containers that share one cache volume.
package lock

import (
	"context"
	"errors"
)

// ErrNotHeld is returned when releasing a lock that is no longer owned,
// for example because its lease expired and another holder took over.
var ErrNotHeld = errors.New("lock not held")

// Unlock releases a held lock. It is safe to call at most once.
type Unlock func() error

// Locker acquires exclusive ownership of a key.
// Lock blocks until the key is free or ctx is done.
type Locker interface {
	Lock(ctx context.Context, key string) (Unlock, error)
}
