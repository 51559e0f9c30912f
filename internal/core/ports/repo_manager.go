package ports

import (
	"context"

	"github.com/schrodinger-box/boxd/internal/core/domain"
)

type RepoManager interface {
	Events() domain.EventRepository
	Boxes() domain.BoxRepository
	Vault() domain.VaultRepository
	Peers() domain.PeerRepository
	Messages() domain.MessageRepository
	// RunInTx runs fn against repositories bound to a single transaction that
	// commits only if fn returns nil. fn may be run more than once when the
	// store retries on conflicts.
	RunInTx(ctx context.Context, fn func(tx RepoTx) error) error
	Close()
}

// RepoTx groups the repositories whose writes commit together.
type RepoTx interface {
	Boxes() domain.BoxRepository
	Vault() domain.VaultRepository
	Messages() domain.MessageRepository
}
