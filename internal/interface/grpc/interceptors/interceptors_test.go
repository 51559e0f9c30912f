package interceptors

import (
	"context"
	"encoding/hex"
	"strconv"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcec/v2"
	boxv1 "github.com/schrodinger-box/boxd/api-spec/box/v1"
	"github.com/schrodinger-box/boxd/internal/interface/grpc/permissions"
	"github.com/schrodinger-box/boxd/pkg/auth"
	"github.com/schrodinger-box/boxd/pkg/errors"
	"github.com/schrodinger-box/boxd/pkg/macaroons"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"gopkg.in/macaroon-bakery.v2/bakery"
)

func TestCheckMacaroon(t *testing.T) {
	rks, err := macaroons.NewRootKeyStore("")
	require.NoError(t, err)
	svc, err := macaroons.NewService(rks, "boxd")
	require.NoError(t, err)
	t.Cleanup(func() {
		// nolint:all
		svc.Close()
	})

	bake := func(ops []bakery.Op) context.Context {
		mac, err := svc.BakeMacaroon(context.Background(), ops)
		require.NoError(t, err)
		return metadata.NewIncomingContext(
			context.Background(), metadata.Pairs(macaroons.MetadataKey, hex.EncodeToString(mac)),
		)
	}
	admin := bake(permissions.AdminPermissions())
	readonly := bake(permissions.ReadOnlyPermissions())

	testCases := []struct {
		name       string
		ctx        context.Context
		method     string
		svc        *macaroons.Service
		expectCode codes.Code
	}{
		{
			name:       "auth disabled",
			ctx:        context.Background(),
			method:     "/boxd.v1.AdminService/SetPeer",
			expectCode: codes.OK,
		},
		{
			name:       "whitelisted method",
			ctx:        context.Background(),
			method:     "/boxd.v1.BoxService/Mint",
			svc:        svc,
			expectCode: codes.OK,
		},
		{
			name:       "admin macaroon",
			ctx:        admin,
			method:     "/boxd.v1.AdminService/WithdrawFees",
			svc:        svc,
			expectCode: codes.OK,
		},
		{
			name:       "readonly macaroon",
			ctx:        readonly,
			method:     "/boxd.v1.AdminService/ListPeers",
			svc:        svc,
			expectCode: codes.OK,
		},
		{
			name:       "missing macaroon",
			ctx:        context.Background(),
			method:     "/boxd.v1.AdminService/SetPeer",
			svc:        svc,
			expectCode: codes.Unauthenticated,
		},
		{
			name:       "readonly macaroon on write method",
			ctx:        readonly,
			method:     "/boxd.v1.AdminService/SetPeer",
			svc:        svc,
			expectCode: codes.Unauthenticated,
		},
		{
			name:       "unknown method",
			ctx:        admin,
			method:     "/boxd.v1.AdminService/Unknown",
			svc:        svc,
			expectCode: codes.PermissionDenied,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckMacaroon(tc.ctx, tc.method, tc.svc)
			require.Equal(t, tc.expectCode, status.Code(err))
		})
	}
}

func TestSignatureHandler(t *testing.T) {
	key, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	method := "/boxd.v1.BoxService/Mint"
	req := &boxv1.MintRequest{FeePaid: 10}
	interceptor := unarySignatureHandler(auth.NewVerifier(time.Minute))
	info := &grpc.UnaryServerInfo{FullMethod: method}

	callerOf := func(ctx context.Context, req any) (any, error) {
		account, _ := auth.AccountFromContext(ctx)
		return account, nil
	}

	payload, err := auth.Payload(req)
	require.NoError(t, err)
	ts := time.Now().Unix()
	sig, err := auth.SignRequest(key, method, ts, payload)
	require.NoError(t, err)
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(
		auth.PubkeyHeader, auth.Account(key.PubKey()),
		auth.TimestampHeader, strconv.FormatInt(ts, 10),
		auth.SignatureHeader, sig,
	))

	account, err := interceptor(ctx, req, info, callerOf)
	require.NoError(t, err)
	require.Equal(t, auth.Account(key.PubKey()), account)

	// Same signature, different request.
	_, err = interceptor(ctx, &boxv1.MintRequest{FeePaid: 0}, info, callerOf)
	require.Equal(t, codes.Unauthenticated, status.Code(err))

	account, err = interceptor(context.Background(), req, info, callerOf)
	require.NoError(t, err)
	require.Empty(t, account)
}

func TestErrorConverter(t *testing.T) {
	info := &grpc.UnaryServerInfo{FullMethod: "/boxd.v1.BoxService/Transfer"}

	t.Run("typed error", func(t *testing.T) {
		_, err := unaryErrorConverter(context.Background(), nil, info,
			func(ctx context.Context, req any) (any, error) {
				return nil, errors.NOT_OWNER.New("not the owner").
					WithMetadata(errors.OwnershipMetadata{BoxId: "1", Caller: "mallory", Owner: "alice"})
			},
		)

		st, ok := status.FromError(err)
		require.True(t, ok)
		require.Equal(t, codes.PermissionDenied, st.Code())
		require.Len(t, st.Details(), 1)

		info, ok := st.Details()[0].(*errdetails.ErrorInfo)
		require.True(t, ok)
		require.Equal(t, "NOT_OWNER", info.Reason)
		require.Equal(t, errorDomain, info.Domain)
		require.Equal(t, "mallory", info.Metadata["caller"])
		require.Equal(t, "10", info.Metadata["code"])
		require.Equal(t, string(errors.ClassAuthorization), info.Metadata["class"])
	})

	t.Run("status error untouched", func(t *testing.T) {
		_, err := unaryErrorConverter(context.Background(), nil, info,
			func(ctx context.Context, req any) (any, error) {
				return nil, status.Error(codes.InvalidArgument, "missing box id")
			},
		)
		require.Equal(t, codes.InvalidArgument, status.Code(err))
	})
}

func TestPanicRecovery(t *testing.T) {
	interceptor := unaryPanicRecoveryInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/boxd.v1.BoxService/Mint"}

	resp, err := interceptor(context.Background(), nil, info,
		func(ctx context.Context, req any) (any, error) {
			panic("boom")
		},
	)
	require.Nil(t, resp)
	require.True(t, errors.INTERNAL_ERROR.Is(err))

	streamInterceptor := streamPanicRecoveryInterceptor()
	err = streamInterceptor(nil, &testServerStream{ctx: context.Background()},
		&grpc.StreamServerInfo{FullMethod: "/boxd.v1.BoxService/GetEventStream"},
		func(srv any, ss grpc.ServerStream) error {
			panic("boom")
		},
	)
	require.True(t, errors.INTERNAL_ERROR.Is(err))
}
