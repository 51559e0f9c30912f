package badgerdb

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/schrodinger-box/boxd/internal/core/domain"
	"github.com/schrodinger-box/boxd/internal/core/ports"
	"github.com/timshannon/badgerhold/v4"
)

type repoTx struct {
	boxes    *boxRepository
	vault    *vaultRepository
	messages *messageRepository
}

func (r repoTx) Boxes() domain.BoxRepository        { return r.boxes }
func (r repoTx) Vault() domain.VaultRepository      { return r.vault }
func (r repoTx) Messages() domain.MessageRepository { return r.messages }

// RunInTx runs fn in a single read-write transaction on the shared store.
func RunInTx(ctx context.Context, store *badgerhold.Store, fn func(ports.RepoTx) error) error {
	return withRetry(store, func(tx *badger.Txn) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		s := txStore{Store: store, tx: tx, shared: true}
		return fn(repoTx{
			boxes:    &boxRepository{s},
			vault:    &vaultRepository{s},
			messages: &messageRepository{s},
		})
	})
}
