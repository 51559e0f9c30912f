package e2e_test

import (
	"context"
	"encoding/hex"
	"net"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/btcsuite/btcd/btcec/v2"
	boxv1 "github.com/schrodinger-box/boxd/api-spec/box/v1"
	"github.com/schrodinger-box/boxd/internal/core/application"
	"github.com/schrodinger-box/boxd/internal/core/domain"
	"github.com/schrodinger-box/boxd/internal/infrastructure/db"
	watermilldb "github.com/schrodinger-box/boxd/internal/infrastructure/db/watermill"
	"github.com/schrodinger-box/boxd/internal/infrastructure/feemanager"
	"github.com/schrodinger-box/boxd/internal/infrastructure/ledger"
	inmemorylivestore "github.com/schrodinger-box/boxd/internal/infrastructure/live-store/inmemory"
	watermillrelay "github.com/schrodinger-box/boxd/internal/infrastructure/relay/watermill"
	timescheduler "github.com/schrodinger-box/boxd/internal/infrastructure/scheduler/gocron"
	"github.com/schrodinger-box/boxd/internal/interface/grpc/handlers"
	"github.com/schrodinger-box/boxd/internal/interface/grpc/interceptors"
	"github.com/schrodinger-box/boxd/internal/interface/grpc/permissions"
	"github.com/schrodinger-box/boxd/pkg/auth"
	"github.com/schrodinger-box/boxd/pkg/macaroons"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/test/bufconn"
)

const (
	custody       = "custody"
	feeAccount    = "fees"
	treasury      = "relay-treasury"
	mintingFee    = uint64(50)
	deliveryFee   = uint64(200)
	bufSize       = 1024 * 1024
	checkInterval = time.Second
)

// node is a boxd instance serving a single chain, reachable through an in
// memory grpc connection.
type node struct {
	chainId domain.ChainId
	peer    domain.PeerId
	ledger  *ledger.Ledger
	app     application.Service
	client  boxv1.BoxServiceClient
	admin   boxv1.AdminServiceClient

	adminMacaroon []byte
}

// user holds the key pair identifying an account.
type user struct {
	key     *btcec.PrivateKey
	account string
}

func newUser(t *testing.T) *user {
	t.Helper()

	key, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	return &user{key, auth.Account(key.PubKey())}
}

func newNode(t *testing.T, chainId domain.ChainId, bus *gochannel.GoChannel) *node {
	t.Helper()

	var peer domain.PeerId
	copy(peer[:], []byte(chainId.String()))

	l := ledger.New()
	require.NoError(t, l.AddOperator(custody))

	repo, err := db.NewService(db.ServiceConfig{
		EventStoreType:  "inmemory",
		DataStoreType:   "badger",
		DataStoreConfig: []interface{}{"", nil},
	})
	require.NoError(t, err)

	fees, err := feemanager.NewFeeCollector(l.Native(), feeAccount)
	require.NoError(t, err)

	otherChain := domain.ChainHolesky
	if chainId == domain.ChainHolesky {
		otherChain = domain.ChainSepolia
	}
	relay, err := watermillrelay.NewRelay(watermillrelay.Config{
		ChainId:         chainId,
		Fees:            map[domain.ChainId]uint64{otherChain: deliveryFee},
		Treasury:        treasury,
		Native:          l.Native(),
		Publisher:       bus,
		Subscriber:      bus,
		Logger:          watermilldb.NewLogger(log.Fields{"chain": chainId.String()}),
		InitialInterval: 10 * time.Millisecond,
	})
	require.NoError(t, err)

	app, err := application.NewService(
		repo, inmemorylivestore.NewLiveStore(), l, relay, fees,
		timescheduler.NewScheduler(), nil,
		chainId, peer, custody, mintingFee, checkInterval, time.Minute,
	)
	require.NoError(t, err)
	adminSvc := application.NewAdminService(repo, relay, fees, chainId, peer)

	rks, err := macaroons.NewRootKeyStore("")
	require.NoError(t, err)
	macaroonSvc, err := macaroons.NewService(rks, "boxd")
	require.NoError(t, err)
	adminMacaroon, err := macaroonSvc.BakeMacaroon(
		context.Background(), permissions.AdminPermissions(),
	)
	require.NoError(t, err)

	readiness := interceptors.NewReadinessService()
	server := grpc.NewServer(
		interceptors.UnaryInterceptor(macaroonSvc, auth.NewVerifier(time.Minute), readiness),
		interceptors.StreamInterceptor(macaroonSvc, readiness),
	)
	boxv1.RegisterBoxServiceServer(
		server, handlers.NewBoxServiceHandler("e2e", app, peer, 1),
	)
	boxv1.RegisterAdminServiceServer(server, handlers.NewAdminHandler(adminSvc))

	lis := bufconn.Listen(bufSize)
	// nolint:errcheck
	go server.Serve(lis)

	require.NoError(t, app.Start())
	readiness.MarkAppServiceStarted()

	conn, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(auth.UnaryClientInterceptor(nil)),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		// nolint:errcheck
		conn.Close()
		server.Stop()
		app.Stop()
		// nolint:errcheck
		macaroonSvc.Close()
	})

	return &node{
		chainId: chainId,
		peer:    peer,
		ledger:  l,
		app:     app,
		client:  boxv1.NewBoxServiceClient(conn),
		admin:   boxv1.NewAdminServiceClient(conn),

		adminMacaroon: adminMacaroon,
	}
}

func (n *node) trust(t *testing.T, remote *node) {
	t.Helper()

	_, err := n.admin.SetPeer(n.asAdmin(), &boxv1.SetPeerRequest{
		ChainId: uint32(remote.chainId),
		PeerId:  remote.peer.String(),
	})
	require.NoError(t, err)
}

func (n *node) box(t *testing.T, boxId string) *boxv1.Box {
	t.Helper()

	box, err := n.client.GetBox(context.Background(), &boxv1.GetBoxRequest{BoxId: boxId})
	require.NoError(t, err)
	return box
}

func (n *node) nativeBalance(t *testing.T, account string) uint64 {
	t.Helper()

	balance, err := n.ledger.Native().BalanceOf(context.Background(), account)
	require.NoError(t, err)
	return balance
}

// as signs the requests made with the returned context with the user key.
func as(u *user) context.Context {
	return auth.WithSigner(context.Background(), u.key)
}

func (n *node) asAdmin() context.Context {
	return metadata.AppendToOutgoingContext(
		context.Background(), macaroons.MetadataKey, hex.EncodeToString(n.adminMacaroon),
	)
}
