package config

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/redis/go-redis/v9"
	"github.com/schrodinger-box/boxd/internal/core/application"
	"github.com/schrodinger-box/boxd/internal/core/domain"
	"github.com/schrodinger-box/boxd/internal/core/ports"
	alertsmanager "github.com/schrodinger-box/boxd/internal/infrastructure/alertsmanager"
	"github.com/schrodinger-box/boxd/internal/infrastructure/db"
	watermilldb "github.com/schrodinger-box/boxd/internal/infrastructure/db/watermill"
	"github.com/schrodinger-box/boxd/internal/infrastructure/feemanager"
	"github.com/schrodinger-box/boxd/internal/infrastructure/ledger"
	inmemorylivestore "github.com/schrodinger-box/boxd/internal/infrastructure/live-store/inmemory"
	redislivestore "github.com/schrodinger-box/boxd/internal/infrastructure/live-store/redis"
	watermillrelay "github.com/schrodinger-box/boxd/internal/infrastructure/relay/watermill"
	timescheduler "github.com/schrodinger-box/boxd/internal/infrastructure/scheduler/gocron"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var (
	supportedEventDbs = supportedType{
		"inmemory": {},
		"postgres": {},
	}
	supportedDbs = supportedType{
		"badger":   {},
		"sqlite":   {},
		"postgres": {},
	}
	supportedLiveStores = supportedType{
		"inmemory": {},
		"redis":    {},
	}
	supportedRelayBuses = supportedType{
		"inmemory": {},
		"postgres": {},
	}
)

type Config struct {
	Datadir         string
	Port            uint32
	AdminPort       uint32
	NoTLS           bool
	LogLevel        int
	TLSExtraIPs     []string
	TLSExtraDomains []string
	NoMacaroons     bool

	DbType              string
	EventDbType         string
	DbDir               string
	LedgerDir           string
	RelayDir            string
	DbUrl               string
	EventDbUrl          string
	LiveStoreType       string
	RedisUrl            string
	RedisTxNumOfRetries int

	ChainId        domain.ChainId
	LocalPeer      domain.PeerId
	CustodyAccount string
	FeeAccount     string
	MintingFee     uint64
	GenesisFile    string

	RelayBusType  string
	RelayBusUrl   string
	RelayFees     map[domain.ChainId]uint64
	RelayTreasury string

	DeliveryCheckInterval time.Duration
	StaleBridgeThreshold  time.Duration
	HeartbeatInterval     int64
	AlertManagerURL       string
	EnablePprof           bool

	OtelCollectorEndpoint string
	OtelPushInterval      int64

	repo      ports.RepoManager
	svc       application.Service
	adminSvc  application.AdminService
	ledger    *ledger.Ledger
	fees      ports.FeeCollector
	relay     ports.RelayNetwork
	scheduler ports.SchedulerService
	liveStore ports.LiveStore
	alerts    ports.Alerts
}

func (c *Config) String() string {
	clone := *c
	json, err := json.MarshalIndent(clone, "", "  ")
	if err != nil {
		return fmt.Sprintf("error while marshalling config JSON: %s", err)
	}
	return string(json)
}

var (
	defaultDatadir               = appDataDir("boxd")
	DefaultPort                  = 7070
	DefaultAdminPort             = 7071
	defaultDbType                = "badger"
	defaultEventDbType           = "inmemory"
	defaultLiveStoreType         = "inmemory"
	defaultRedisTxNumOfRetries   = 10
	defaultLogLevel              = 4
	defaultNoTLS                 = true
	defaultChainId               = uint(domain.ChainSepolia)
	defaultCustodyAccount        = "boxd-custody"
	defaultFeeAccount            = "boxd-fees"
	defaultMintingFee            = uint64(1000)
	defaultRelayBusType          = "inmemory"
	defaultRelayTreasury         = "relay-treasury"
	defaultDeliveryCheckInterval = 30 * time.Second
	defaultStaleBridgeThreshold  = 10 * time.Minute
	defaultHeartbeatInterval     = 60 // seconds
	defaultEnablePprof           = false
	defaultOtelPushInterval      = 10 // seconds
)

// env returns a list of strings prefixed with `BOXD_`.
// This is used as a syntax sugar for defining env vars.
func env(values ...string) []string {
	envs := make([]string, len(values))

	for i, value := range values {
		envs[i] = fmt.Sprintf("BOXD_%s", value)
	}

	return envs
}

var (
	Datadir = &cli.StringFlag{
		Usage: "Directory to store data",
		Name:  "datadir", EnvVars: env("DATADIR"),
		Value: defaultDatadir,
	}
	Port = &cli.UintFlag{
		Usage: "Port (public) to listen on",
		Name:  "port", EnvVars: env("PORT"),
		Value: uint(DefaultPort),
	}
	AdminPort = &cli.UintFlag{
		Usage: "Admin port (private) to listen on, fallback to service port if 0",
		Name:  "admin-port", EnvVars: env("ADMIN_PORT"),
		Value: uint(DefaultAdminPort),
	}
	LogLevel = &cli.IntFlag{
		Usage: "Logging level (0-6, where 6 is trace)",
		Name:  "log-level", EnvVars: env("LOG_LEVEL"),
		Value: defaultLogLevel,
	}
	DbType = &cli.StringFlag{
		Usage: "Database type (postgres, sqlite, badger)",
		Name:  "db-type", EnvVars: env("DB_TYPE"),
		Value: defaultDbType,
	}
	DbUrl = &cli.StringFlag{
		Usage: "Postgres connection url if BOXD_DB_TYPE is set to postgres",
		Name:  "pg-db-url", EnvVars: env("PG_DB_URL"),
	}
	EventDbType = &cli.StringFlag{
		Usage: "Event database type (postgres, inmemory)",
		Name:  "event-db-type", EnvVars: env("EVENT_DB_TYPE"),
		Value: defaultEventDbType,
	}
	EventDbUrl = &cli.StringFlag{
		Usage: "Postgres connection url if BOXD_EVENT_DB_TYPE is set to postgres",
		Name:  "pg-event-db-url", EnvVars: env("PG_EVENT_DB_URL"),
	}
	LiveStoreType = &cli.StringFlag{
		Usage: "Lock store type (redis, inmemory)",
		Name:  "live-store-type", EnvVars: env("LIVE_STORE_TYPE"),
		Value: defaultLiveStoreType,
	}
	RedisUrl = &cli.StringFlag{
		Usage: "Redis db connection url if BOXD_LIVE_STORE_TYPE is set to redis",
		Name:  "redis-url", EnvVars: env("REDIS_URL"),
	}
	RedisTxNumOfRetries = &cli.IntFlag{
		Usage: "Maximum number of retries for Redis lock operations in case of conflicts",
		Name:  "redis-num-of-retries", EnvVars: env("REDIS_NUM_OF_RETRIES"),
		Value: defaultRedisTxNumOfRetries,
	}
	ChainId = &cli.UintFlag{
		Usage: "Id of the chain this instance serves",
		Name:  "chain-id", EnvVars: env("CHAIN_ID"),
		Value: defaultChainId,
	}
	LocalPeer = &cli.StringFlag{
		Usage: "Peer id (32 bytes hex) remote instances must trust to accept boxes from this one",
		Name:  "local-peer", EnvVars: env("LOCAL_PEER"),
		DefaultText: "derived from the chain id",
	}
	CustodyAccount = &cli.StringFlag{
		Usage: "Account holding the deposited assets",
		Name:  "custody-account", EnvVars: env("CUSTODY_ACCOUNT"),
		Value: defaultCustodyAccount,
	}
	FeeAccount = &cli.StringFlag{
		Usage: "Account collecting the minting fees",
		Name:  "fee-account", EnvVars: env("FEE_ACCOUNT"),
		Value: defaultFeeAccount,
	}
	MintingFee = &cli.Uint64Flag{
		Usage: "Native amount required to mint a box",
		Name:  "minting-fee", EnvVars: env("MINTING_FEE"),
		Value: defaultMintingFee,
	}
	GenesisFile = &cli.StringFlag{
		Usage: "Path to the json file with the initial ledger balances",
		Name:  "genesis-file", EnvVars: env("GENESIS_FILE"),
	}
	RelayBusType = &cli.StringFlag{
		Usage: "Relay bus type (postgres, inmemory)",
		Name:  "relay-bus-type", EnvVars: env("RELAY_BUS_TYPE"),
		Value: defaultRelayBusType,
	}
	RelayBusUrl = &cli.StringFlag{
		Usage: "Postgres connection url if BOXD_RELAY_BUS_TYPE is set to postgres",
		Name:  "pg-relay-bus-url", EnvVars: env("PG_RELAY_BUS_URL"),
	}
	RelayFees = &cli.StringSliceFlag{
		Usage: "Delivery fee by destination chain in the form <chain id>:<fee> (comma-separated)",
		Name:  "relay-fee", EnvVars: env("RELAY_FEE"),
	}
	RelayTreasury = &cli.StringFlag{
		Usage: "Account collecting the delivery fees",
		Name:  "relay-treasury", EnvVars: env("RELAY_TREASURY"),
		Value: defaultRelayTreasury,
	}
	DeliveryCheckInterval = &cli.DurationFlag{
		Usage: "How often outbound messages are checked for delivery, 0 disables the monitor",
		Name:  "delivery-check-interval", EnvVars: env("DELIVERY_CHECK_INTERVAL"),
		Value: defaultDeliveryCheckInterval,
	}
	StaleBridgeThreshold = &cli.DurationFlag{
		Usage: "Age after which an undelivered message is reported",
		Name:  "stale-bridge-threshold", EnvVars: env("STALE_BRIDGE_THRESHOLD"),
		Value: defaultStaleBridgeThreshold,
	}
	NoTLS = &cli.BoolFlag{
		Usage: "Disable TLS",
		Name:  "no-tls", EnvVars: env("NO_TLS"),
		Value: defaultNoTLS,
	}
	TLSExtraIP = &cli.StringSliceFlag{
		Usage: "Extra IP addresses for TLS (comma-separated)",
		Name:  "tls-extra-ip", EnvVars: env("TLS_EXTRA_IP"),
	}
	TLSExtraDomain = &cli.StringSliceFlag{
		Usage: "Extra domains for TLS (comma-separated)",
		Name:  "tls-extra-domain", EnvVars: env("TLS_EXTRA_DOMAIN"),
	}
	NoMacaroons = &cli.BoolFlag{
		Usage: "Disable macaroon authentication of the admin service",
		Name:  "no-macaroons", EnvVars: env("NO_MACAROONS"),
	}
	HeartbeatInterval = &cli.IntFlag{
		Usage: "Heartbeat interval in seconds",
		Name:  "heartbeat-interval", EnvVars: env("HEARTBEAT_INTERVAL"),
		Value: defaultHeartbeatInterval,
	}
	AlertManagerURL = &cli.StringFlag{
		Usage: "Alertmanager url where failed and stale bridges are reported",
		Name:  "alert-manager-url", EnvVars: env("ALERT_MANAGER_URL"),
	}
	EnablePprof = &cli.BoolFlag{
		Usage: "",
		Name:  "enable-pprof", EnvVars: env("ENABLE_PPROF"),
		Value: defaultEnablePprof,
	}
	OtelCollectorEndpoint = &cli.StringFlag{
		Usage: "OpenTelemetry collector endpoint, empty disables the exporters",
		Name:  "otel-collector-endpoint", EnvVars: env("OTEL_COLLECTOR_ENDPOINT"),
	}
	OtelPushInterval = &cli.IntFlag{
		Usage: "OpenTelemetry push interval in seconds",
		Name:  "otel-push-interval", EnvVars: env("OTEL_PUSH_INTERVAL"),
		Value: defaultOtelPushInterval,
	}
)

var Flags = []cli.Flag{
	Datadir,
	Port,
	AdminPort,
	LogLevel,
	DbType,
	DbUrl,
	EventDbType,
	EventDbUrl,
	LiveStoreType,
	RedisUrl,
	RedisTxNumOfRetries,
	ChainId,
	LocalPeer,
	CustodyAccount,
	FeeAccount,
	MintingFee,
	GenesisFile,
	RelayBusType,
	RelayBusUrl,
	RelayFees,
	RelayTreasury,
	DeliveryCheckInterval,
	StaleBridgeThreshold,
	NoTLS,
	TLSExtraIP,
	TLSExtraDomain,
	NoMacaroons,
	HeartbeatInterval,
	AlertManagerURL,
	EnablePprof,
	OtelCollectorEndpoint,
	OtelPushInterval,
}

func LoadConfig(c *cli.Context) (*Config, error) {
	if err := initDatadir(c); err != nil {
		return nil, fmt.Errorf("failed to create datadir: %s", err)
	}

	dbPath := filepath.Join(c.String(Datadir.Name), "db")

	var eventDbUrl string
	if c.String(EventDbType.Name) == "postgres" {
		eventDbUrl = c.String(EventDbUrl.Name)
		if eventDbUrl == "" {
			return nil, fmt.Errorf("event db type set to 'postgres' but event db url is missing")
		}
	}

	var dbUrl string
	if c.String(DbType.Name) == "postgres" {
		dbUrl = c.String(DbUrl.Name)
		if dbUrl == "" {
			return nil, fmt.Errorf("db type set to 'postgres' but db url is missing")
		}
	}

	var redisUrl string
	if c.String(LiveStoreType.Name) == "redis" {
		redisUrl = c.String(RedisUrl.Name)
		if redisUrl == "" {
			return nil, fmt.Errorf("live store type set to 'redis' but redis url is missing")
		}
	}

	var relayBusUrl string
	if c.String(RelayBusType.Name) == "postgres" {
		relayBusUrl = c.String(RelayBusUrl.Name)
		if relayBusUrl == "" {
			return nil, fmt.Errorf("relay bus type set to 'postgres' but relay bus url is missing")
		}
	}

	chainId := c.Uint(ChainId.Name)
	if chainId == 0 || chainId > 0xffff {
		return nil, fmt.Errorf("invalid chain id %d, must be in range 1-65535", chainId)
	}

	localPeer := derivePeerId(domain.ChainId(chainId))
	if peer := c.String(LocalPeer.Name); peer != "" {
		p, err := domain.ParsePeerId(peer)
		if err != nil {
			return nil, fmt.Errorf("invalid local peer: %s", err)
		}
		localPeer = p
	}

	relayFees, err := parseRelayFees(c.StringSlice(RelayFees.Name))
	if err != nil {
		return nil, err
	}

	// In case the admin port is unset, fallback to service port.
	adminPort := c.Uint(AdminPort.Name)
	if adminPort == 0 {
		adminPort = c.Uint(Port.Name)
	}

	return &Config{
		Datadir:               c.String(Datadir.Name),
		Port:                  uint32(c.Uint(Port.Name)),
		AdminPort:             uint32(adminPort),
		NoTLS:                 c.Bool(NoTLS.Name),
		LogLevel:              c.Int(LogLevel.Name),
		TLSExtraIPs:           c.StringSlice(TLSExtraIP.Name),
		TLSExtraDomains:       c.StringSlice(TLSExtraDomain.Name),
		NoMacaroons:           c.Bool(NoMacaroons.Name),
		DbType:                c.String(DbType.Name),
		EventDbType:           c.String(EventDbType.Name),
		DbDir:                 dbPath,
		LedgerDir:             filepath.Join(c.String(Datadir.Name), "ledger"),
		RelayDir:              filepath.Join(c.String(Datadir.Name), "relay"),
		DbUrl:                 dbUrl,
		EventDbUrl:            eventDbUrl,
		LiveStoreType:         c.String(LiveStoreType.Name),
		RedisUrl:              redisUrl,
		RedisTxNumOfRetries:   c.Int(RedisTxNumOfRetries.Name),
		ChainId:               domain.ChainId(chainId),
		LocalPeer:             localPeer,
		CustodyAccount:        c.String(CustodyAccount.Name),
		FeeAccount:            c.String(FeeAccount.Name),
		MintingFee:            c.Uint64(MintingFee.Name),
		GenesisFile:           c.String(GenesisFile.Name),
		RelayBusType:          c.String(RelayBusType.Name),
		RelayBusUrl:           relayBusUrl,
		RelayFees:             relayFees,
		RelayTreasury:         c.String(RelayTreasury.Name),
		DeliveryCheckInterval: c.Duration(DeliveryCheckInterval.Name),
		StaleBridgeThreshold:  c.Duration(StaleBridgeThreshold.Name),
		HeartbeatInterval:     c.Int64(HeartbeatInterval.Name),
		AlertManagerURL:       c.String(AlertManagerURL.Name),
		EnablePprof:           c.Bool(EnablePprof.Name),
		OtelCollectorEndpoint: c.String(OtelCollectorEndpoint.Name),
		OtelPushInterval:      c.Int64(OtelPushInterval.Name),
	}, nil
}

func initDatadir(c *cli.Context) error {
	datadir := c.String(Datadir.Name)
	return makeDirectoryIfNotExists(datadir)
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0o755)
	}
	return nil
}

func appDataDir(appName string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "." + appName
	}
	return filepath.Join(home, "."+appName)
}

// derivePeerId returns the peer id used when none is configured, so that
// every instance of a chain advertises the same one.
func derivePeerId(chainId domain.ChainId) domain.PeerId {
	return domain.PeerId(chainhash.HashH([]byte(fmt.Sprintf("boxd/%d", chainId))))
}

func parseRelayFees(values []string) (map[domain.ChainId]uint64, error) {
	fees := make(map[domain.ChainId]uint64, len(values))
	for _, value := range values {
		chainStr, feeStr, ok := strings.Cut(strings.TrimSpace(value), ":")
		if !ok {
			return nil, fmt.Errorf("invalid relay fee %q, must be in the form <chain id>:<fee>", value)
		}
		chainId, err := domain.ParseChainId(chainStr)
		if err != nil {
			return nil, fmt.Errorf("invalid relay fee %q: %s", value, err)
		}
		fee, err := strconv.ParseUint(feeStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid relay fee %q: %s", value, err)
		}
		if _, ok := fees[chainId]; ok {
			return nil, fmt.Errorf("duplicated relay fee for chain %s", chainId)
		}
		fees[chainId] = fee
	}
	return fees, nil
}

func (c *Config) Validate() error {
	if !supportedEventDbs.supports(c.EventDbType) {
		return fmt.Errorf(
			"event db type not supported, please select one of: %s",
			supportedEventDbs,
		)
	}
	if !supportedDbs.supports(c.DbType) {
		return fmt.Errorf("db type not supported, please select one of: %s", supportedDbs)
	}
	if !supportedLiveStores.supports(c.LiveStoreType) {
		return fmt.Errorf(
			"live store type not supported, please select one of: %s",
			supportedLiveStores,
		)
	}
	if !supportedRelayBuses.supports(c.RelayBusType) {
		return fmt.Errorf(
			"relay bus type not supported, please select one of: %s",
			supportedRelayBuses,
		)
	}
	if c.ChainId == 0 {
		return fmt.Errorf("missing chain id")
	}
	if c.LocalPeer.IsZero() {
		return fmt.Errorf("local peer must not be zero")
	}
	if c.CustodyAccount == "" {
		return fmt.Errorf("missing custody account")
	}
	if c.FeeAccount == "" {
		return fmt.Errorf("missing fee account")
	}
	if c.RelayTreasury == "" {
		return fmt.Errorf("missing relay treasury")
	}
	if c.CustodyAccount == c.FeeAccount {
		return fmt.Errorf("custody and fee accounts must be different")
	}
	if _, ok := c.RelayFees[c.ChainId]; ok {
		return fmt.Errorf("relay fee configured for the local chain %s", c.ChainId)
	}
	if c.DeliveryCheckInterval < 0 {
		return fmt.Errorf("delivery check interval must not be negative")
	}
	if c.DeliveryCheckInterval > 0 && c.StaleBridgeThreshold <= 0 {
		return fmt.Errorf("stale bridge threshold must be greater than 0")
	}
	if c.HeartbeatInterval <= 0 {
		return fmt.Errorf("heartbeat interval must be greater than 0")
	}
	if len(c.RelayFees) <= 0 {
		log.Warn("no relay fee configured, bridging is disabled")
	}

	if err := c.repoManager(); err != nil {
		return err
	}
	if err := c.ledgerService(); err != nil {
		return err
	}
	if err := c.feeCollectorService(); err != nil {
		return err
	}
	if err := c.relayService(); err != nil {
		return err
	}
	if err := c.liveStoreService(); err != nil {
		return err
	}
	if err := c.schedulerService(); err != nil {
		return err
	}
	if err := c.alertsService(); err != nil {
		return err
	}
	if err := c.adminService(); err != nil {
		return err
	}
	return nil
}

func (c *Config) AppService() (application.Service, error) {
	if c.svc == nil {
		if err := c.appService(); err != nil {
			return nil, err
		}
	}
	return c.svc, nil
}

func (c *Config) AdminService() application.AdminService {
	return c.adminSvc
}

func (c *Config) Ledger() *ledger.Ledger {
	return c.ledger
}

func (c *Config) repoManager() error {
	var eventStoreConfig []interface{}
	var dataStoreConfig []interface{}
	logger := log.New()

	switch c.EventDbType {
	case "inmemory":
	case "postgres":
		eventStoreConfig = []interface{}{c.EventDbUrl, true}
	default:
		return fmt.Errorf("unknown event db type")
	}

	switch c.DbType {
	case "badger":
		dataStoreConfig = []interface{}{c.DbDir, logger}
	case "sqlite":
		if err := makeDirectoryIfNotExists(c.DbDir); err != nil {
			return fmt.Errorf("failed to create db dir: %s", err)
		}
		dataStoreConfig = []interface{}{c.DbDir}
	case "postgres":
		dataStoreConfig = []interface{}{c.DbUrl, true}
	default:
		return fmt.Errorf("unknown db type")
	}

	svc, err := db.NewService(db.ServiceConfig{
		EventStoreType:   c.EventDbType,
		DataStoreType:    c.DbType,
		EventStoreConfig: eventStoreConfig,
		DataStoreConfig:  dataStoreConfig,
	})
	if err != nil {
		return err
	}
	c.repo = svc
	return nil
}

func (c *Config) ledgerService() error {
	var genesis *ledger.Genesis
	if c.GenesisFile != "" {
		var err error
		if genesis, err = ledger.ReadGenesis(c.GenesisFile); err != nil {
			return err
		}
	}
	l, err := ledger.Open(c.LedgerDir, genesis)
	if err != nil {
		return err
	}
	// Deposits are pulled from the owners, the custody account needs to be
	// able to move their assets without per-asset approvals.
	if err := l.AddOperator(c.CustodyAccount); err != nil {
		l.Close()
		return err
	}
	c.ledger = l
	return nil
}

// Close releases the stores not owned by the app service.
func (c *Config) Close() {
	if c.ledger != nil {
		c.ledger.Close()
	}
}

func (c *Config) feeCollectorService() error {
	if c.ledger == nil {
		return fmt.Errorf("ledger not set")
	}
	svc, err := feemanager.NewFeeCollector(c.ledger.Native(), c.FeeAccount)
	if err != nil {
		return err
	}
	c.fees = svc
	return nil
}

func (c *Config) relayService() error {
	if c.ledger == nil {
		return fmt.Errorf("ledger not set")
	}

	logger := watermilldb.NewLogger(log.Fields{"component": "relay"})

	var (
		publisher  message.Publisher
		subscriber message.Subscriber
	)
	switch c.RelayBusType {
	case "inmemory":
		pubsub := watermilldb.NewInMemoryPubSub(logger)
		publisher, subscriber = pubsub, pubsub
	case "postgres":
		bus, err := db.OpenPostgres(c.RelayBusUrl, true)
		if err != nil {
			return fmt.Errorf("failed to open relay bus db: %s", err)
		}
		// Every chain consumes its own inbound topic, the consumer group
		// must be unique per chain.
		consumerGroup := fmt.Sprintf("boxd_relay_%d", c.ChainId)
		publisher, subscriber, err = watermilldb.NewPostgresPubSub(bus, consumerGroup, logger)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown relay bus type")
	}

	svc, err := watermillrelay.NewRelay(watermillrelay.Config{
		ChainId:    c.ChainId,
		Fees:       c.RelayFees,
		Treasury:   c.RelayTreasury,
		Native:     c.ledger.Native(),
		Publisher:  publisher,
		Subscriber: subscriber,
		Logger:     logger,
		Datadir:    c.RelayDir,
	})
	if err != nil {
		return err
	}
	c.relay = svc
	return nil
}

func (c *Config) liveStoreService() error {
	var liveStoreSvc ports.LiveStore
	var err error
	switch c.LiveStoreType {
	case "inmemory":
		liveStoreSvc = inmemorylivestore.NewLiveStore()
	case "redis":
		redisOpts, err := redis.ParseURL(c.RedisUrl)
		if err != nil {
			return fmt.Errorf("invalid REDIS_URL: %w", err)
		}
		rdb := redis.NewClient(redisOpts)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := redislivestore.Ping(ctx, rdb); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		liveStoreSvc = redislivestore.NewLiveStore(rdb, c.RedisTxNumOfRetries)
	default:
		err = fmt.Errorf("unknown liveStore type")
	}

	if err != nil {
		return err
	}

	c.liveStore = liveStoreSvc
	return nil
}

func (c *Config) schedulerService() error {
	c.scheduler = timescheduler.NewScheduler()
	return nil
}

func (c *Config) appService() error {
	svc, err := application.NewService(
		c.repo, c.liveStore, c.ledger, c.relay, c.fees, c.scheduler, c.alerts,
		c.ChainId, c.LocalPeer, c.CustodyAccount, c.MintingFee,
		c.DeliveryCheckInterval, c.StaleBridgeThreshold,
	)
	if err != nil {
		return err
	}

	c.svc = svc
	return nil
}

func (c *Config) adminService() error {
	c.adminSvc = application.NewAdminService(
		c.repo, c.relay, c.fees, c.ChainId, c.LocalPeer,
	)
	return nil
}

func (c *Config) alertsService() error {
	if c.AlertManagerURL == "" {
		return nil
	}

	c.alerts = alertsmanager.NewService(c.AlertManagerURL, uint16(c.ChainId))
	return nil
}

type supportedType map[string]struct{}

func (t supportedType) String() string {
	types := make([]string, 0, len(t))
	for tt := range t {
		types = append(types, tt)
	}
	return strings.Join(types, " | ")
}

func (t supportedType) supports(typeStr string) bool {
	_, ok := t[typeStr]
	return ok
}
