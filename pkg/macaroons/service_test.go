package macaroons_test

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/schrodinger-box/boxd/pkg/macaroons"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/metadata"
	"gopkg.in/macaroon-bakery.v2/bakery"
)

var (
	readPeers  = bakery.Op{Entity: "manager", Action: "read"}
	writePeers = bakery.Op{Entity: "manager", Action: "write"}
)

func withMacaroon(mac []byte) context.Context {
	return metadata.NewIncomingContext(
		context.Background(),
		metadata.Pairs(macaroons.MetadataKey, hex.EncodeToString(mac)),
	)
}

func newService(t *testing.T, dir string) *macaroons.Service {
	t.Helper()

	rks, err := macaroons.NewRootKeyStore(dir)
	require.NoError(t, err)
	svc, err := macaroons.NewService(rks, "boxd")
	require.NoError(t, err)
	return svc
}

func TestValidateMacaroon(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, "")
	t.Cleanup(func() {
		// nolint:all
		svc.Close()
	})

	readonly, err := svc.BakeMacaroon(ctx, []bakery.Op{readPeers})
	require.NoError(t, err)
	admin, err := svc.BakeMacaroon(ctx, []bakery.Op{readPeers, writePeers})
	require.NoError(t, err)

	require.NoError(t, svc.ValidateMacaroon(withMacaroon(readonly), []bakery.Op{readPeers}))
	require.NoError(t, svc.ValidateMacaroon(withMacaroon(admin), []bakery.Op{writePeers}))

	err = svc.ValidateMacaroon(withMacaroon(readonly), []bakery.Op{writePeers})
	require.ErrorContains(t, err, "permission denied")

	err = svc.ValidateMacaroon(ctx, []bakery.Op{readPeers})
	require.Error(t, err)

	noMacaroon := metadata.NewIncomingContext(ctx, metadata.MD{})
	err = svc.ValidateMacaroon(noMacaroon, []bakery.Op{readPeers})
	require.ErrorContains(t, err, "expected 1 macaroon")

	badHex := metadata.NewIncomingContext(ctx, metadata.Pairs(macaroons.MetadataKey, "zz"))
	err = svc.ValidateMacaroon(badHex, []bakery.Op{readPeers})
	require.ErrorContains(t, err, "invalid macaroon format")

	// A macaroon baked by another service doesn't verify.
	other := newService(t, "")
	t.Cleanup(func() {
		// nolint:all
		other.Close()
	})
	forged, err := other.BakeMacaroon(ctx, []bakery.Op{readPeers, writePeers})
	require.NoError(t, err)
	err = svc.ValidateMacaroon(withMacaroon(forged), []bakery.Op{writePeers})
	require.Error(t, err)

	_, err = svc.BakeMacaroon(ctx, nil)
	require.Error(t, err)
}

func TestRootKeyPersistence(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	svc := newService(t, dir)
	mac, err := svc.BakeMacaroon(ctx, []bakery.Op{writePeers})
	require.NoError(t, err)
	require.NoError(t, svc.Close())

	svc = newService(t, dir)
	t.Cleanup(func() {
		// nolint:all
		svc.Close()
	})
	require.NoError(t, svc.ValidateMacaroon(withMacaroon(mac), []bakery.Op{writePeers}))
}
