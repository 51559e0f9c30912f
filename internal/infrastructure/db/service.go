package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/dgraph-io/badger/v4"
	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/schrodinger-box/boxd/internal/core/domain"
	"github.com/schrodinger-box/boxd/internal/core/ports"
	badgerdb "github.com/schrodinger-box/boxd/internal/infrastructure/db/badger"
	pgdb "github.com/schrodinger-box/boxd/internal/infrastructure/db/postgres"
	sqlitedb "github.com/schrodinger-box/boxd/internal/infrastructure/db/sqlite"
	watermilldb "github.com/schrodinger-box/boxd/internal/infrastructure/db/watermill"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
)

//go:embed sqlite/migration/*
var migrations embed.FS

//go:embed postgres/migration/*
var pgMigration embed.FS

var (
	boxStoreTypes = map[string]func(...interface{}) (domain.BoxRepository, error){
		"badger":   badgerdb.NewBoxRepository,
		"sqlite":   sqlitedb.NewBoxRepository,
		"postgres": pgdb.NewBoxRepository,
	}
	vaultStoreTypes = map[string]func(...interface{}) (domain.VaultRepository, error){
		"badger":   badgerdb.NewVaultRepository,
		"sqlite":   sqlitedb.NewVaultRepository,
		"postgres": pgdb.NewVaultRepository,
	}
	peerStoreTypes = map[string]func(...interface{}) (domain.PeerRepository, error){
		"badger":   badgerdb.NewPeerRepository,
		"sqlite":   sqlitedb.NewPeerRepository,
		"postgres": pgdb.NewPeerRepository,
	}
	messageStoreTypes = map[string]func(...interface{}) (domain.MessageRepository, error){
		"badger":   badgerdb.NewMessageRepository,
		"sqlite":   sqlitedb.NewMessageRepository,
		"postgres": pgdb.NewMessageRepository,
	}
)

const (
	sqliteDbFile         = "sqlite.db"
	defaultConsumerGroup = "boxd"
)

type ServiceConfig struct {
	EventStoreType string
	DataStoreType  string

	// inmemory: none; postgres: dsn, autoCreate and optionally the consumer group.
	EventStoreConfig []interface{}
	// badger: base dir and logger; sqlite: base dir; postgres: dsn and autoCreate.
	DataStoreConfig []interface{}
}

type service struct {
	eventStore   domain.EventRepository
	boxStore     domain.BoxRepository
	vaultStore   domain.VaultRepository
	peerStore    domain.PeerRepository
	messageStore domain.MessageRepository
	runInTx      func(context.Context, func(ports.RepoTx) error) error
	closeShared  func()
}

func NewService(config ServiceConfig) (ports.RepoManager, error) {
	boxStoreFactory, ok := boxStoreTypes[config.DataStoreType]
	if !ok {
		return nil, fmt.Errorf("invalid data store type: %s", config.DataStoreType)
	}
	vaultStoreFactory := vaultStoreTypes[config.DataStoreType]
	peerStoreFactory := peerStoreTypes[config.DataStoreType]
	messageStoreFactory := messageStoreTypes[config.DataStoreType]

	eventStore, err := newEventStore(config.EventStoreType, config.EventStoreConfig)
	if err != nil {
		return nil, err
	}

	var (
		dataStoreConfig []interface{}
		peerStoreConfig []interface{}
		runInTx         func(context.Context, func(ports.RepoTx) error) error
		closeShared     = func() {}
	)
	switch config.DataStoreType {
	case "badger":
		store, err := openSharedBadgerStore(config.DataStoreConfig)
		if err != nil {
			return nil, err
		}
		dataStoreConfig = []interface{}{store}
		peerStoreConfig = config.DataStoreConfig
		runInTx = func(ctx context.Context, fn func(ports.RepoTx) error) error {
			return badgerdb.RunInTx(ctx, store, fn)
		}
		closeShared = func() {
			// nolint:all
			store.Close()
		}
	case "postgres":
		if len(config.DataStoreConfig) != 2 {
			return nil, fmt.Errorf("invalid data store config for postgres")
		}

		dsn, ok := config.DataStoreConfig[0].(string)
		if !ok {
			return nil, fmt.Errorf("invalid DSN for postgres")
		}

		autoCreate, ok := config.DataStoreConfig[1].(bool)
		if !ok {
			return nil, fmt.Errorf("invalid autocreate flag for postgres")
		}

		db, err := pgdb.OpenDb(dsn, autoCreate)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres db: %s", err)
		}

		pgDriver, err := migratepg.WithInstance(db, &migratepg.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to init postgres migration driver: %s", err)
		}

		source, err := iofs.New(pgMigration, "postgres/migration")
		if err != nil {
			return nil, fmt.Errorf("failed to embed postgres migrations: %s", err)
		}

		m, err := migrate.NewWithInstance("iofs", source, "postgres", pgDriver)
		if err != nil {
			return nil, fmt.Errorf("failed to create postgres migration instance: %s", err)
		}

		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return nil, fmt.Errorf("failed to run postgres migrations: %s", err)
		}

		dataStoreConfig = []interface{}{db}
		peerStoreConfig = dataStoreConfig
		runInTx = func(ctx context.Context, fn func(ports.RepoTx) error) error {
			return pgdb.RunInTx(ctx, db, fn)
		}
	case "sqlite":
		if len(config.DataStoreConfig) != 1 {
			return nil, fmt.Errorf("invalid data store config")
		}

		baseDir, ok := config.DataStoreConfig[0].(string)
		if !ok {
			return nil, fmt.Errorf("invalid base directory")
		}

		dbFile := filepath.Join(baseDir, sqliteDbFile)
		db, err := sqlitedb.OpenDb(dbFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open db: %s", err)
		}

		driver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to init driver: %s", err)
		}

		source, err := iofs.New(migrations, "sqlite/migration")
		if err != nil {
			return nil, fmt.Errorf("failed to embed migrations: %s", err)
		}

		m, err := migrate.NewWithInstance("iofs", source, "boxdb", driver)
		if err != nil {
			return nil, fmt.Errorf("failed to create migration instance: %s", err)
		}

		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return nil, fmt.Errorf("failed to run migrations: %s", err)
		}

		dataStoreConfig = []interface{}{db}
		peerStoreConfig = dataStoreConfig
		runInTx = func(ctx context.Context, fn func(ports.RepoTx) error) error {
			return sqlitedb.RunInTx(ctx, db, fn)
		}
	}

	boxStore, err := boxStoreFactory(dataStoreConfig...)
	if err != nil {
		return nil, fmt.Errorf("failed to open box store: %s", err)
	}
	vaultStore, err := vaultStoreFactory(dataStoreConfig...)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault store: %s", err)
	}
	peerStore, err := peerStoreFactory(peerStoreConfig...)
	if err != nil {
		return nil, fmt.Errorf("failed to open peer store: %s", err)
	}
	messageStore, err := messageStoreFactory(dataStoreConfig...)
	if err != nil {
		return nil, fmt.Errorf("failed to open message store: %s", err)
	}

	return &service{
		eventStore:   eventStore,
		boxStore:     boxStore,
		vaultStore:   vaultStore,
		peerStore:    peerStore,
		messageStore: messageStore,
		runInTx:      runInTx,
		closeShared:  closeShared,
	}, nil
}

func (s *service) Events() domain.EventRepository {
	return s.eventStore
}

func (s *service) Boxes() domain.BoxRepository {
	return s.boxStore
}

func (s *service) Vault() domain.VaultRepository {
	return s.vaultStore
}

func (s *service) Peers() domain.PeerRepository {
	return s.peerStore
}

func (s *service) Messages() domain.MessageRepository {
	return s.messageStore
}

func (s *service) RunInTx(ctx context.Context, fn func(ports.RepoTx) error) error {
	return s.runInTx(ctx, fn)
}

func (s *service) Close() {
	s.eventStore.Close()
	s.boxStore.Close()
	s.vaultStore.Close()
	s.peerStore.Close()
	s.messageStore.Close()
	s.closeShared()
}

func openSharedBadgerStore(config []interface{}) (*badgerhold.Store, error) {
	if len(config) != 2 {
		return nil, fmt.Errorf("invalid data store config for badger")
	}
	baseDir, ok := config[0].(string)
	if !ok {
		return nil, fmt.Errorf("invalid base directory")
	}
	var logger badger.Logger
	if config[1] != nil {
		if logger, ok = config[1].(badger.Logger); !ok {
			return nil, fmt.Errorf("invalid logger")
		}
	}
	store, err := badgerdb.OpenStore(baseDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open data store: %s", err)
	}
	return store, nil
}

func newEventStore(storeType string, config []interface{}) (domain.EventRepository, error) {
	logger := watermilldb.NewLogger(log.Fields{"component": "event_store"})

	var (
		publisher  message.Publisher
		subscriber message.Subscriber
	)
	switch storeType {
	case "inmemory":
		pubsub := watermilldb.NewInMemoryPubSub(logger)
		publisher, subscriber = pubsub, pubsub
	case "postgres":
		if len(config) < 2 {
			return nil, fmt.Errorf("invalid event store config for postgres")
		}

		dsn, ok := config[0].(string)
		if !ok {
			return nil, fmt.Errorf("invalid DSN for postgres")
		}

		autoCreate, ok := config[1].(bool)
		if !ok {
			return nil, fmt.Errorf("invalid autocreate flag for postgres")
		}

		consumerGroup := defaultConsumerGroup
		if len(config) > 2 {
			if consumerGroup, ok = config[2].(string); !ok || consumerGroup == "" {
				return nil, fmt.Errorf("invalid consumer group for postgres")
			}
		}

		db, err := pgdb.OpenDb(dsn, autoCreate)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres db: %s", err)
		}

		publisher, subscriber, err = watermilldb.NewPostgresPubSub(db, consumerGroup, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open event store: %s", err)
		}
	default:
		return nil, fmt.Errorf("unknown event store db type")
	}

	return watermilldb.NewEventRepository(publisher, subscriber), nil
}

// OpenPostgres is shared with the components, like the relay bus, that keep
// their own tables in the service database.
func OpenPostgres(dsn string, autoCreate bool) (*sql.DB, error) {
	return pgdb.OpenDb(dsn, autoCreate)
}
