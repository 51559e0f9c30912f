package ports

import (
	"context"
	"fmt"
	"time"
)

var ErrMutexTimeout = fmt.Errorf("timed out waiting for mutex")

type LiveStore interface {
	Mutexes() MutexStore
	Close()
}

// MutexStore hands out exclusive leases keyed by an arbitrary string. Leases
// are not reentrant.
type MutexStore interface {
	// Acquire blocks until the lease is granted, ctx is done or the store
	// gives up. The returned func releases the lease.
	Acquire(ctx context.Context, key string) (release func(), err error)
	// Held reports whether someone currently holds the lease.
	Held(ctx context.Context, key string) (bool, error)
}

const DefaultMutexTTL = 30 * time.Second
