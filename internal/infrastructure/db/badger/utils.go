package badgerdb

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
)

const (
	maxRetries   = 5
	dataStoreDir = "data"
)

func parseConfig(storeDir string, config ...interface{}) (string, badger.Logger, error) {
	if len(config) != 2 {
		return "", nil, fmt.Errorf("invalid config")
	}
	baseDir, ok := config[0].(string)
	if !ok {
		return "", nil, fmt.Errorf("invalid base directory")
	}
	var logger badger.Logger
	if config[1] != nil {
		logger, ok = config[1].(badger.Logger)
		if !ok {
			return "", nil, fmt.Errorf("invalid logger")
		}
	}

	var dir string
	if len(baseDir) > 0 {
		dir = filepath.Join(baseDir, storeDir)
	}
	return dir, logger, nil
}

func createDB(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	db, err := badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
	if err != nil {
		return nil, err
	}

	if !isInMemory {
		ticker := time.NewTicker(30 * time.Minute)

		go func() {
			for range ticker.C {
				if err := db.Badger().RunValueLogGC(0.5); err != nil &&
					!errors.Is(err, badger.ErrNoRewrite) {
					log.WithError(err).Warn("failed to run badger value log gc")
				}
			}
		}()
	}

	return db, nil
}

// withRetry runs the given func in a read-write transaction and retries on
// write conflicts.
func withRetry(store *badgerhold.Store, fn func(tx *badger.Txn) error) error {
	var err error
	for range maxRetries {
		err = func() error {
			tx := store.Badger().NewTransaction(true)
			defer tx.Discard()

			if err := fn(tx); err != nil {
				return err
			}
			return tx.Commit()
		}()
		if err == nil {
			return nil
		}
		if errors.Is(err, badger.ErrConflict) {
			time.Sleep(100 * time.Millisecond)
			continue
		}
		return err
	}
	return err
}

// OpenStore opens the store shared by the repositories that write within one
// transaction.
func OpenStore(baseDir string, logger badger.Logger) (*badgerhold.Store, error) {
	var dir string
	if len(baseDir) > 0 {
		dir = filepath.Join(baseDir, dataStoreDir)
	}
	return createDB(dir, logger)
}

// openStore reuses the store given in config, or opens a dedicated one under
// storeDir from a base dir and logger.
func openStore(storeDir string, config ...interface{}) (txStore, error) {
	if len(config) == 1 {
		if store, ok := config[0].(*badgerhold.Store); ok {
			return txStore{Store: store, shared: true}, nil
		}
	}
	dir, logger, err := parseConfig(storeDir, config...)
	if err != nil {
		return txStore{}, err
	}
	store, err := createDB(dir, logger)
	if err != nil {
		return txStore{}, err
	}
	return txStore{Store: store}, nil
}

// txStore binds a store to the transaction in progress, if any.
type txStore struct {
	*badgerhold.Store
	tx     *badger.Txn
	shared bool
}

func (s txStore) update(fn func(tx *badger.Txn) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	return withRetry(s.Store, fn)
}

func (s txStore) view(fn func(tx *badger.Txn) error) error {
	if s.tx != nil {
		return fn(s.tx)
	}
	return s.Badger().View(fn)
}

func (s txStore) withTx(tx *badger.Txn) txStore {
	return txStore{Store: s.Store, tx: tx, shared: true}
}

func (s txStore) close() {
	if !s.shared {
		// nolint:all
		s.Store.Close()
	}
}
