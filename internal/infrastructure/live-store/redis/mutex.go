package redislivestore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/schrodinger-box/boxd/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

const (
	mutexKeyPrefix     = "mutexStore:"
	acquireRetryPeriod = 50 * time.Millisecond
)

var (
	releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`)
	refreshScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0`)
)

// mutexStore implements leases with SET NX PX. Every lease carries a random
// token so that only its holder can release or refresh it. The lease is kept
// alive while held and expires on its own if the holder dies.
type mutexStore struct {
	rdb          *redis.Client
	numOfRetries int
	ttl          time.Duration
}

func NewMutexStore(rdb *redis.Client, numOfRetries int, ttl time.Duration) ports.MutexStore {
	if numOfRetries <= 0 {
		numOfRetries = 1
	}
	return &mutexStore{rdb, numOfRetries, ttl}
}

func (m *mutexStore) Acquire(ctx context.Context, key string) (func(), error) {
	redisKey := mutexKeyPrefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(m.ttl)

	failures := 0
	for {
		ok, err := m.rdb.SetNX(ctx, redisKey, token, m.ttl).Result()
		if err != nil {
			failures++
			if failures >= m.numOfRetries {
				return nil, fmt.Errorf("failed to acquire lease %s: %w", key, err)
			}
		}
		if ok {
			break
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w %s", ports.ErrMutexTimeout, key)
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w %s: %s", ports.ErrMutexTimeout, key, ctx.Err())
		case <-time.After(acquireRetryPeriod):
		}
	}

	stop := make(chan struct{})
	go m.keepAlive(redisKey, token, stop)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			m.release(redisKey, token)
		})
	}, nil
}

func (m *mutexStore) Held(ctx context.Context, key string) (bool, error) {
	n, err := m.rdb.Exists(ctx, mutexKeyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check lease %s: %w", key, err)
	}
	return n > 0, nil
}

func (m *mutexStore) keepAlive(redisKey, token string, stop chan struct{}) {
	ticker := time.NewTicker(m.ttl / 3)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), m.ttl/3)
			res, err := refreshScript.Run(
				ctx, m.rdb, []string{redisKey}, token, m.ttl.Milliseconds(),
			).Int()
			cancel()
			if err != nil {
				log.WithError(err).Warnf("failed to refresh lease %s", redisKey)
				continue
			}
			if res == 0 {
				log.Warnf("lease %s expired while held", redisKey)
				return
			}
		}
	}
}

func (m *mutexStore) release(redisKey, token string) {
	var err error
	for range m.numOfRetries {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err = releaseScript.Run(ctx, m.rdb, []string{redisKey}, token).Err()
		cancel()
		if err == nil || errors.Is(err, redis.Nil) {
			return
		}
	}
	log.WithError(err).Warnf("failed to release lease %s, it will expire on its own", redisKey)
}
