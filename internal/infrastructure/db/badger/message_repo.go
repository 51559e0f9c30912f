package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/schrodinger-box/boxd/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

const messageStoreDir = "messages"

type messageRepository struct {
	store txStore
}

type outboundDTO struct {
	domain.OutboundMessage
}

type appliedDTO struct {
	domain.AppliedMessage
}

func NewMessageRepository(config ...interface{}) (domain.MessageRepository, error) {
	store, err := openStore(messageStoreDir, config...)
	if err != nil {
		return nil, fmt.Errorf("failed to open message store: %s", err)
	}
	return &messageRepository{store}, nil
}

func (r *messageRepository) AddOutbound(ctx context.Context, msg domain.OutboundMessage) error {
	if msg.UpdatedAt == 0 {
		msg.UpdatedAt = time.Now().Unix()
	}
	err := r.store.update(func(tx *badger.Txn) error {
		return r.store.TxInsert(tx, msg.Id.String(), outboundDTO{msg})
	})
	if errors.Is(err, badgerhold.ErrKeyExists) {
		return fmt.Errorf("outbound message %s already exists", msg.Id)
	}
	if err != nil {
		return fmt.Errorf("failed to add outbound message %s: %w", msg.Id, err)
	}
	return nil
}

func (r *messageRepository) GetOutbound(
	ctx context.Context, id domain.MessageId,
) (*domain.OutboundMessage, error) {
	var dto outboundDTO
	if err := r.store.view(func(tx *badger.Txn) error {
		return r.store.TxGet(tx, id.String(), &dto)
	}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, fmt.Errorf("outbound message %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get outbound message %s: %w", id, err)
	}
	return &dto.OutboundMessage, nil
}

func (r *messageRepository) UpdateOutbound(ctx context.Context, msg domain.OutboundMessage) error {
	err := r.store.update(func(tx *badger.Txn) error {
		return r.store.TxUpdate(tx, msg.Id.String(), outboundDTO{msg})
	})
	if errors.Is(err, badgerhold.ErrNotFound) {
		return fmt.Errorf("outbound message %s: %w", msg.Id, domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update outbound message %s: %w", msg.Id, err)
	}
	return nil
}

func (r *messageRepository) DeleteOutbound(ctx context.Context, id domain.MessageId) error {
	err := r.store.update(func(tx *badger.Txn) error {
		return r.store.TxDelete(tx, id.String(), outboundDTO{})
	})
	if err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
		return fmt.Errorf("failed to delete outbound message %s: %w", id, err)
	}
	return nil
}

func (r *messageRepository) ListOutbound(
	ctx context.Context, statuses ...domain.DeliveryStatus,
) ([]domain.OutboundMessage, error) {
	var query *badgerhold.Query
	if len(statuses) > 0 {
		values := make([]interface{}, 0, len(statuses))
		for _, status := range statuses {
			values = append(values, status)
		}
		query = badgerhold.Where("Status").In(values...)
	}

	var dtos []outboundDTO
	if err := r.store.view(func(tx *badger.Txn) error {
		return r.store.TxFind(tx, &dtos, query)
	}); err != nil {
		return nil, fmt.Errorf("failed to list outbound messages: %w", err)
	}
	sort.SliceStable(dtos, func(i, j int) bool {
		return dtos[i].CreatedAt < dtos[j].CreatedAt
	})

	msgs := make([]domain.OutboundMessage, 0, len(dtos))
	for _, dto := range dtos {
		msgs = append(msgs, dto.OutboundMessage)
	}
	return msgs, nil
}

func (r *messageRepository) MarkApplied(
	ctx context.Context, applied domain.AppliedMessage,
) (bool, error) {
	err := r.store.update(func(tx *badger.Txn) error {
		return r.store.TxInsert(tx, applied.Id.String(), appliedDTO{applied})
	})
	if errors.Is(err, badgerhold.ErrKeyExists) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to mark message %s as applied: %w", applied.Id, err)
	}
	return true, nil
}

func (r *messageRepository) IsApplied(ctx context.Context, id domain.MessageId) (bool, error) {
	var dto appliedDTO
	err := r.store.view(func(tx *badger.Txn) error {
		return r.store.TxGet(tx, id.String(), &dto)
	})
	if errors.Is(err, badgerhold.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get applied message %s: %w", id, err)
	}
	return true, nil
}

func (r *messageRepository) Close() {
	r.store.close()
}
