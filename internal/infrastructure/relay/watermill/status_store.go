package watermillrelay

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/schrodinger-box/boxd/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type statusRecord struct {
	MessageId string
	Status    domain.DeliveryStatus
}

// statusStore keeps the delivery status of the outbound messages across
// restarts. An empty dir keeps everything in memory.
type statusStore struct {
	store *badgerhold.Store
}

func newStatusStore(dir string) (*statusStore, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	if len(dir) <= 0 {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	store, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open relay status store: %w", err)
	}
	return &statusStore{store}, nil
}

func (s *statusStore) get(id domain.MessageId) (domain.DeliveryStatus, error) {
	var record statusRecord
	if err := s.store.Get(id.String(), &record); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return domain.DeliveryStatusUnknown, nil
		}
		return domain.DeliveryStatusUnknown, err
	}
	return record.Status, nil
}

// set stores the new status. A receipt may overtake the end of Send, a final
// status is never moved back to sent.
func (s *statusStore) set(id domain.MessageId, status domain.DeliveryStatus) error {
	key := id.String()
	return s.store.Badger().Update(func(tx *badger.Txn) error {
		var current statusRecord
		err := s.store.TxGet(tx, key, &current)
		if err != nil && !errors.Is(err, badgerhold.ErrNotFound) {
			return err
		}
		if err == nil && isFinal(current.Status) && status == domain.DeliveryStatusSent {
			return nil
		}
		return s.store.TxUpsert(tx, key, statusRecord{key, status})
	})
}

// unset drops the record of a message that never left, unless a receipt
// already arrived for it.
func (s *statusStore) unset(id domain.MessageId) error {
	key := id.String()
	return s.store.Badger().Update(func(tx *badger.Txn) error {
		var current statusRecord
		if err := s.store.TxGet(tx, key, &current); err != nil {
			if errors.Is(err, badgerhold.ErrNotFound) {
				return nil
			}
			return err
		}
		if isFinal(current.Status) {
			return nil
		}
		return s.store.TxDelete(tx, key, statusRecord{})
	})
}

func (s *statusStore) close() error {
	return s.store.Close()
}

func isFinal(status domain.DeliveryStatus) bool {
	return status == domain.DeliveryStatusDelivered || status == domain.DeliveryStatusFailed
}
