package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/schrodinger-box/boxd/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

const vaultStoreDir = "vault"

type vaultRepository struct {
	store txStore
}

type contentsDTO struct {
	domain.Contents
}

func NewVaultRepository(config ...interface{}) (domain.VaultRepository, error) {
	store, err := openStore(vaultStoreDir, config...)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault store: %s", err)
	}
	return &vaultRepository{store}, nil
}

func (r *vaultRepository) Get(ctx context.Context, boxId domain.BoxId) (*domain.Contents, error) {
	var dto contentsDTO
	if err := r.store.view(func(tx *badger.Txn) error {
		return r.store.TxGet(tx, boxId.String(), &dto)
	}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return domain.NewContents(boxId), nil
		}
		return nil, fmt.Errorf("failed to get contents of box %s: %w", boxId, err)
	}
	contents := dto.Contents
	if contents.Fungibles == nil {
		contents.Fungibles = make([]domain.FungibleBalance, 0)
	}
	if contents.Nfts == nil {
		contents.Nfts = make([]domain.NftRef, 0)
	}
	return &contents, nil
}

func (r *vaultRepository) Upsert(ctx context.Context, contents domain.Contents) error {
	contents.UpdatedAt = time.Now().Unix()
	err := r.store.update(func(tx *badger.Txn) error {
		return r.store.TxUpsert(tx, contents.BoxId.String(), contentsDTO{contents})
	})
	if err != nil {
		return fmt.Errorf("failed to store contents of box %s: %w", contents.BoxId, err)
	}
	return nil
}

func (r *vaultRepository) Close() {
	r.store.close()
}
