package inmemorylivestore

import (
	"context"
	"fmt"
	"sync"

	"github.com/schrodinger-box/boxd/internal/core/ports"
)

type liveStore struct {
	mutexes *mutexStore
}

func NewLiveStore() ports.LiveStore {
	return &liveStore{
		mutexes: &mutexStore{leases: make(map[string]chan struct{})},
	}
}

func (s *liveStore) Mutexes() ports.MutexStore {
	return s.mutexes
}

func (s *liveStore) Close() {}

// mutexStore keeps a single slot channel per key, holding the slot means
// holding the lease.
type mutexStore struct {
	lock   sync.Mutex
	leases map[string]chan struct{}
}

func (m *mutexStore) Acquire(ctx context.Context, key string) (func(), error) {
	lease := m.lease(key)

	select {
	case lease <- struct{}{}:
	case <-ctx.Done():
		return nil, fmt.Errorf("%w %s: %s", ports.ErrMutexTimeout, key, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() { <-lease })
	}, nil
}

func (m *mutexStore) Held(_ context.Context, key string) (bool, error) {
	return len(m.lease(key)) > 0, nil
}

func (m *mutexStore) lease(key string) chan struct{} {
	m.lock.Lock()
	defer m.lock.Unlock()

	lease, ok := m.leases[key]
	if !ok {
		lease = make(chan struct{}, 1)
		m.leases[key] = lease
	}
	return lease
}
