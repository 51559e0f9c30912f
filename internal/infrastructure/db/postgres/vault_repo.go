package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/schrodinger-box/boxd/internal/core/domain"
)

const (
	upsertVault = `
INSERT INTO vault (box_id, updated_at) VALUES ($1, $2)
ON CONFLICT (box_id) DO UPDATE SET updated_at = excluded.updated_at`
	deleteVaultFungibles = `DELETE FROM vault_fungible WHERE box_id = $1`
	deleteVaultNfts      = `DELETE FROM vault_nft WHERE box_id = $1`
	insertVaultFungible  = `
INSERT INTO vault_fungible (box_id, position, asset, amount) VALUES ($1, $2, $3, $4)`
	insertVaultNft = `
INSERT INTO vault_nft (box_id, position, contract, token_id) VALUES ($1, $2, $3, $4)`
	selectVault          = `SELECT updated_at FROM vault WHERE box_id = $1`
	selectVaultFungibles = `
SELECT asset, amount FROM vault_fungible WHERE box_id = $1 ORDER BY position ASC`
	selectVaultNfts = `
SELECT contract, token_id FROM vault_nft WHERE box_id = $1 ORDER BY position ASC`
)

type vaultRepository struct {
	db conn
}

func NewVaultRepository(config ...interface{}) (domain.VaultRepository, error) {
	db, err := openRepo("vault", config...)
	if err != nil {
		return nil, err
	}
	return &vaultRepository{conn{db: db}}, nil
}

func (r *vaultRepository) Get(ctx context.Context, boxId domain.BoxId) (*domain.Contents, error) {
	contents := domain.NewContents(boxId)
	key := boxId.String()

	err := r.db.QueryRowContext(ctx, selectVault, key).Scan(&contents.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return contents, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contents of box %s: %w", boxId, err)
	}

	fungibles, err := r.db.QueryContext(ctx, selectVaultFungibles, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get balances of box %s: %w", boxId, err)
	}
	// nolint
	defer fungibles.Close()
	for fungibles.Next() {
		var asset, rawAmount string
		if err := fungibles.Scan(&asset, &rawAmount); err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		amount, err := parseUint(rawAmount)
		if err != nil {
			return nil, fmt.Errorf("invalid balance of %s in box %s: %w", asset, boxId, err)
		}
		contents.Fungibles = append(contents.Fungibles, domain.FungibleBalance{
			Asset: asset, Amount: amount,
		})
	}
	if err := fungibles.Err(); err != nil {
		return nil, err
	}

	nfts, err := r.db.QueryContext(ctx, selectVaultNfts, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get nfts of box %s: %w", boxId, err)
	}
	// nolint
	defer nfts.Close()
	for nfts.Next() {
		var contract, rawTokenId string
		if err := nfts.Scan(&contract, &rawTokenId); err != nil {
			return nil, fmt.Errorf("failed to scan nft: %w", err)
		}
		tokenId, err := parseUint(rawTokenId)
		if err != nil {
			return nil, fmt.Errorf("invalid token id in box %s: %w", boxId, err)
		}
		contents.Nfts = append(contents.Nfts, domain.NftRef{Contract: contract, TokenId: tokenId})
	}
	if err := nfts.Err(); err != nil {
		return nil, err
	}

	return contents, nil
}

func (r *vaultRepository) Upsert(ctx context.Context, contents domain.Contents) error {
	key := contents.BoxId.String()
	if err := r.db.execTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, upsertVault, key, time.Now().Unix()); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, deleteVaultFungibles, key); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, deleteVaultNfts, key); err != nil {
			return err
		}
		for i, f := range contents.Fungibles {
			if _, err := tx.ExecContext(
				ctx, insertVaultFungible, key, i, f.Asset, formatUint(f.Amount),
			); err != nil {
				return err
			}
		}
		for i, n := range contents.Nfts {
			if _, err := tx.ExecContext(
				ctx, insertVaultNft, key, i, n.Contract, formatUint(n.TokenId),
			); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("failed to store contents of box %s: %w", contents.BoxId, err)
	}
	return nil
}

func (r *vaultRepository) Close() {
	r.db.close()
}
