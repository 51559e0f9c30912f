package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/schrodinger-box/boxd/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

const peerStoreDir = "peers"

type peerRepository struct {
	store *badgerhold.Store
}

func NewPeerRepository(config ...interface{}) (domain.PeerRepository, error) {
	dir, logger, err := parseConfig(peerStoreDir, config...)
	if err != nil {
		return nil, err
	}
	store, err := createDB(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open peer store: %s", err)
	}
	return &peerRepository{store}, nil
}

func (r *peerRepository) Set(ctx context.Context, peer domain.Peer) error {
	key := peerKey(peer.ChainId)
	if err := r.store.Upsert(key, &peer); err != nil {
		if errors.Is(err, badger.ErrConflict) {
			attempts := 1
			for errors.Is(err, badger.ErrConflict) && attempts <= maxRetries {
				time.Sleep(100 * time.Millisecond)
				err = r.store.Upsert(key, &peer)
				attempts++
			}
		}
		if err != nil {
			return fmt.Errorf("failed to set peer of chain %s: %w", peer.ChainId, err)
		}
	}
	return nil
}

func (r *peerRepository) Get(ctx context.Context, chainId domain.ChainId) (*domain.Peer, error) {
	var peer domain.Peer
	err := r.store.Get(peerKey(chainId), &peer)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get peer of chain %s: %w", chainId, err)
	}
	return &peer, nil
}

func (r *peerRepository) List(ctx context.Context) ([]domain.Peer, error) {
	var peers []domain.Peer
	if err := r.store.Find(&peers, nil); err != nil {
		return nil, fmt.Errorf("failed to list peers: %w", err)
	}
	sort.Slice(peers, func(i, j int) bool {
		return peers[i].ChainId < peers[j].ChainId
	})
	return peers, nil
}

func (r *peerRepository) Close() {
	// nolint:all
	r.store.Close()
}

func peerKey(chainId domain.ChainId) string {
	return strconv.FormatUint(uint64(chainId), 10)
}
