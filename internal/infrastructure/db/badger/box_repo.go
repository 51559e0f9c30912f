package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/schrodinger-box/boxd/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

const (
	boxStoreDir   = "boxes"
	boxCounterKey = "box_counter"
)

type boxRepository struct {
	store txStore
}

type boxDTO struct {
	domain.Box
}

type boxCounter struct {
	Value uint64
}

func NewBoxRepository(config ...interface{}) (domain.BoxRepository, error) {
	store, err := openStore(boxStoreDir, config...)
	if err != nil {
		return nil, fmt.Errorf("failed to open box store: %s", err)
	}
	return &boxRepository{store}, nil
}

func (r *boxRepository) NextBoxCounter(ctx context.Context) (uint64, error) {
	var next uint64
	err := r.store.update(func(tx *badger.Txn) error {
		var counter boxCounter
		if err := r.store.TxGet(tx, boxCounterKey, &counter); err != nil &&
			!errors.Is(err, badgerhold.ErrNotFound) {
			return err
		}
		counter.Value++
		next = counter.Value
		return r.store.TxUpsert(tx, boxCounterKey, &counter)
	})
	if err != nil {
		return 0, fmt.Errorf("failed to increment box counter: %w", err)
	}
	return next, nil
}

func (r *boxRepository) Add(ctx context.Context, box domain.Box) error {
	err := r.store.update(func(tx *badger.Txn) error {
		return r.store.TxInsert(tx, box.Id.String(), boxDTO{box})
	})
	if errors.Is(err, badgerhold.ErrKeyExists) {
		return fmt.Errorf("box %s already exists", box.Id)
	}
	if err != nil {
		return fmt.Errorf("failed to add box %s: %w", box.Id, err)
	}
	return nil
}

func (r *boxRepository) Get(ctx context.Context, id domain.BoxId) (*domain.Box, error) {
	var dto boxDTO
	if err := r.store.view(func(tx *badger.Txn) error {
		return r.store.TxGet(tx, id.String(), &dto)
	}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, fmt.Errorf("box %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get box %s: %w", id, err)
	}
	return &dto.Box, nil
}

func (r *boxRepository) Update(ctx context.Context, box domain.Box) error {
	err := r.store.update(func(tx *badger.Txn) error {
		return r.store.TxUpdate(tx, box.Id.String(), boxDTO{box})
	})
	if errors.Is(err, badgerhold.ErrNotFound) {
		return fmt.Errorf("box %s: %w", box.Id, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update box %s: %w", box.Id, err)
	}
	return nil
}

func (r *boxRepository) ListByOwner(ctx context.Context, owner string) ([]domain.BoxId, error) {
	var dtos []boxDTO
	if err := r.store.view(func(tx *badger.Txn) error {
		return r.store.TxFind(tx, &dtos, badgerhold.Where("Owner").Eq(owner))
	}); err != nil {
		return nil, fmt.Errorf("failed to list boxes of %s: %w", owner, err)
	}
	sort.SliceStable(dtos, func(i, j int) bool {
		return dtos[i].AcquiredAt < dtos[j].AcquiredAt
	})
	return toBoxIds(dtos), nil
}

func (r *boxRepository) ListLocked(ctx context.Context) ([]domain.BoxId, error) {
	var dtos []boxDTO
	if err := r.store.view(func(tx *badger.Txn) error {
		return r.store.TxFind(tx, &dtos, badgerhold.Where("Locked").Eq(true))
	}); err != nil {
		return nil, fmt.Errorf("failed to list locked boxes: %w", err)
	}
	return toBoxIds(dtos), nil
}

func (r *boxRepository) Close() {
	r.store.close()
}

func toBoxIds(dtos []boxDTO) []domain.BoxId {
	ids := make([]domain.BoxId, 0, len(dtos))
	for _, dto := range dtos {
		ids = append(ids, dto.Id)
	}
	return ids
}
