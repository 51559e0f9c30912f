package redislivestore

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/schrodinger-box/boxd/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

type liveStore struct {
	rdb     *redis.Client
	mutexes ports.MutexStore
}

func NewLiveStore(rdb *redis.Client, numOfRetries int) ports.LiveStore {
	return &liveStore{
		rdb:     rdb,
		mutexes: NewMutexStore(rdb, numOfRetries, ports.DefaultMutexTTL),
	}
}

func (s *liveStore) Mutexes() ports.MutexStore {
	return s.mutexes
}

func (s *liveStore) Close() {
	if err := s.rdb.Close(); err != nil {
		log.WithError(err).Warn("failed to close redis client")
	}
}

// Ping checks the connection with the redis server.
func Ping(ctx context.Context, rdb *redis.Client) error {
	return rdb.Ping(ctx).Err()
}
