package sqlitedb

import (
	"context"
	"database/sql"

	"github.com/schrodinger-box/boxd/internal/core/domain"
	"github.com/schrodinger-box/boxd/internal/core/ports"
)

type repoTx struct {
	boxes    *boxRepository
	vault    *vaultRepository
	messages *messageRepository
}

func (r repoTx) Boxes() domain.BoxRepository        { return r.boxes }
func (r repoTx) Vault() domain.VaultRepository      { return r.vault }
func (r repoTx) Messages() domain.MessageRepository { return r.messages }

// RunInTx runs fn within one db transaction.
func RunInTx(ctx context.Context, db *sql.DB, fn func(ports.RepoTx) error) error {
	return execTx(ctx, db, func(tx *sql.Tx) error {
		c := conn{db: db, tx: tx}
		return fn(repoTx{
			boxes:    &boxRepository{c},
			vault:    &vaultRepository{c},
			messages: &messageRepository{c},
		})
	})
}
