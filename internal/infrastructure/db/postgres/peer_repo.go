package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/schrodinger-box/boxd/internal/core/domain"
)

const (
	upsertPeer = `
INSERT INTO peer (chain_id, peer_id, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (chain_id) DO UPDATE SET peer_id = excluded.peer_id, updated_at = excluded.updated_at`
	selectPeer     = `SELECT peer_id, updated_at FROM peer WHERE chain_id = $1`
	selectAllPeers = `SELECT chain_id, peer_id, updated_at FROM peer ORDER BY chain_id ASC`
)

type peerRepository struct {
	db conn
}

func NewPeerRepository(config ...interface{}) (domain.PeerRepository, error) {
	db, err := openRepo("peer", config...)
	if err != nil {
		return nil, err
	}
	return &peerRepository{conn{db: db}}, nil
}

func (r *peerRepository) Set(ctx context.Context, peer domain.Peer) error {
	if _, err := r.db.ExecContext(
		ctx, upsertPeer, int64(peer.ChainId), peer.PeerId.String(), peer.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to set peer of chain %s: %w", peer.ChainId, err)
	}
	return nil
}

func (r *peerRepository) Get(ctx context.Context, chainId domain.ChainId) (*domain.Peer, error) {
	var rawPeerId string
	peer := domain.Peer{ChainId: chainId}
	err := r.db.QueryRowContext(ctx, selectPeer, int64(chainId)).Scan(&rawPeerId, &peer.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get peer of chain %s: %w", chainId, err)
	}
	if peer.PeerId, err = domain.ParsePeerId(rawPeerId); err != nil {
		return nil, err
	}
	return &peer, nil
}

func (r *peerRepository) List(ctx context.Context) ([]domain.Peer, error) {
	rows, err := r.db.QueryContext(ctx, selectAllPeers)
	if err != nil {
		return nil, fmt.Errorf("failed to list peers: %w", err)
	}
	// nolint
	defer rows.Close()

	peers := make([]domain.Peer, 0)
	for rows.Next() {
		var (
			chainId   int64
			rawPeerId string
			peer      domain.Peer
		)
		if err := rows.Scan(&chainId, &rawPeerId, &peer.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan peer: %w", err)
		}
		peer.ChainId = domain.ChainId(chainId)
		if peer.PeerId, err = domain.ParsePeerId(rawPeerId); err != nil {
			return nil, err
		}
		peers = append(peers, peer)
	}
	return peers, rows.Err()
}

func (r *peerRepository) Close() {
	r.db.close()
}
