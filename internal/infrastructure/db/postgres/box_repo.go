package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/schrodinger-box/boxd/internal/core/domain"
)

const (
	incrementBoxCounter = `
INSERT INTO box_counter (id, value) VALUES (1, 1)
ON CONFLICT (id) DO UPDATE SET value = box_counter.value + 1
RETURNING value`
	insertBox = `
INSERT INTO box (
    id, owner, locked, origin_chain_id, is_original, sequence, acquired_at, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	selectBox = `
SELECT id, owner, locked, origin_chain_id, is_original, sequence, acquired_at, created_at, updated_at
FROM box WHERE id = $1`
	updateBox = `
UPDATE box SET
    owner = $1, locked = $2, origin_chain_id = $3, is_original = $4, sequence = $5,
    acquired_at = $6, updated_at = $7
WHERE id = $8`
	selectBoxIdsByOwner = `SELECT id FROM box WHERE owner = $1 ORDER BY acquired_at ASC, id ASC`
	selectLockedBoxIds  = `SELECT id FROM box WHERE locked = TRUE ORDER BY updated_at ASC`
)

type boxRepository struct {
	db conn
}

func NewBoxRepository(config ...interface{}) (domain.BoxRepository, error) {
	db, err := openRepo("box", config...)
	if err != nil {
		return nil, err
	}
	return &boxRepository{conn{db: db}}, nil
}

func (r *boxRepository) NextBoxCounter(ctx context.Context) (uint64, error) {
	var next int64
	if err := r.db.execTx(ctx, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, incrementBoxCounter).Scan(&next)
	}); err != nil {
		return 0, fmt.Errorf("failed to increment box counter: %w", err)
	}
	return uint64(next), nil
}

func (r *boxRepository) Add(ctx context.Context, box domain.Box) error {
	if _, err := r.db.ExecContext(
		ctx, insertBox, box.Id.String(), box.Owner, box.Locked, int64(box.OriginChainId),
		box.IsOriginal, int64(box.Sequence), box.AcquiredAt, box.CreatedAt, box.UpdatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("box %s already exists", box.Id)
		}
		return fmt.Errorf("failed to add box %s: %w", box.Id, err)
	}
	return nil
}

func (r *boxRepository) Get(ctx context.Context, id domain.BoxId) (*domain.Box, error) {
	var (
		rawId         string
		box           domain.Box
		originChainId int64
		sequence      int64
	)
	err := r.db.QueryRowContext(ctx, selectBox, id.String()).Scan(
		&rawId, &box.Owner, &box.Locked, &originChainId, &box.IsOriginal, &sequence,
		&box.AcquiredAt, &box.CreatedAt, &box.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("box %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get box %s: %w", id, err)
	}
	box.Id = id
	box.OriginChainId = domain.ChainId(originChainId)
	box.Sequence = uint64(sequence)
	return &box, nil
}

func (r *boxRepository) Update(ctx context.Context, box domain.Box) error {
	res, err := r.db.ExecContext(
		ctx, updateBox, box.Owner, box.Locked, int64(box.OriginChainId), box.IsOriginal,
		int64(box.Sequence), box.AcquiredAt, box.UpdatedAt, box.Id.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update box %s: %w", box.Id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("box %s: %w", box.Id, domain.ErrNotFound)
	}
	return nil
}

func (r *boxRepository) ListByOwner(ctx context.Context, owner string) ([]domain.BoxId, error) {
	return r.selectIds(ctx, selectBoxIdsByOwner, owner)
}

func (r *boxRepository) ListLocked(ctx context.Context) ([]domain.BoxId, error) {
	return r.selectIds(ctx, selectLockedBoxIds)
}

func (r *boxRepository) Close() {
	r.db.close()
}

func (r *boxRepository) selectIds(
	ctx context.Context, query string, args ...interface{},
) ([]domain.BoxId, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list boxes: %w", err)
	}
	// nolint
	defer rows.Close()

	ids := make([]domain.BoxId, 0)
	for rows.Next() {
		var rawId string
		if err := rows.Scan(&rawId); err != nil {
			return nil, fmt.Errorf("failed to scan box id: %w", err)
		}
		id, err := domain.ParseBoxId(rawId)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
