package macaroons

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/timshannon/badgerhold/v4"
	"gopkg.in/macaroon-bakery.v2/bakery"
)

const (
	// RootKeyLen is the length of the random root keys.
	RootKeyLen = 32

	defaultRootKeyId = "0"
)

type rootKey struct {
	Id  string
	Key []byte
}

// RootKeyStore keeps the root keys macaroons are derived from in a badger
// store. An empty dir keeps them in memory, making every macaroon invalid
// after a restart.
type RootKeyStore struct {
	lock  sync.Mutex
	store *badgerhold.Store
}

func NewRootKeyStore(dir string) (*RootKeyStore, error) {
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
		return nil, fmt.Errorf("failed to open macaroon root key store: %w", err)
	}
	return &RootKeyStore{store: store}, nil
}

// Get implements bakery.RootKeyStore.
func (r *RootKeyStore) Get(_ context.Context, id []byte) ([]byte, error) {
	var key rootKey
	if err := r.store.Get(string(id), &key); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, bakery.ErrNotFound
		}
		return nil, err
	}
	return key.Key, nil
}

// RootKey implements bakery.RootKeyStore. The root key is generated the first
// time it's requested.
func (r *RootKeyStore) RootKey(_ context.Context) ([]byte, []byte, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	id := []byte(defaultRootKeyId)
	var key rootKey
	err := r.store.Get(defaultRootKeyId, &key)
	if err == nil {
		return key.Key, id, nil
	}
	if !errors.Is(err, badgerhold.ErrNotFound) {
		return nil, nil, err
	}

	key = rootKey{Id: defaultRootKeyId, Key: make([]byte, RootKeyLen)}
	if _, err := rand.Read(key.Key); err != nil {
		return nil, nil, fmt.Errorf("failed to generate root key: %w", err)
	}
	if err := r.store.Insert(defaultRootKeyId, key); err != nil {
		return nil, nil, fmt.Errorf("failed to store root key: %w", err)
	}
	return key.Key, id, nil
}

func (r *RootKeyStore) Close() error {
	return r.store.Close()
}
