package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	grpccodes "google.golang.org/grpc/codes"
)

// generateErrorFixtures creates test fixtures with sample metadata for each error type
func generateErrorFixtures() []Error {
	return []Error{
		INTERNAL_ERROR.New("internal server error occurred").
			WithMetadata(map[string]any{
				"component": "database",
				"operation": "query",
			}),
		NOT_OWNER.New("caller is not the box owner").
			WithMetadata(OwnershipMetadata{
				BoxId:  "2815916998246401",
				Caller: "0xbad",
				Owner:  "0xalice",
			}),
		UNTRUSTED_SENDER.New("sender peer mismatch").
			WithMetadata(PeerMetadata{
				ChainId:      10004,
				ExpectedPeer: "00000000000000000000000000000000000000000000000000000000000000aa",
				GotPeer:      "00000000000000000000000000000000000000000000000000000000000000bb",
			}),
		PEER_NOT_CONFIGURED.New("no peer configured").
			WithMetadata(ChainMetadata{ChainId: 10002}),
		BOX_LOCKED.New("box is locked").WithMetadata(BoxMetadata{BoxId: "2815916998246401"}),
		INSUFFICIENT_FEE.New("fee below quote").
			WithMetadata(FeeMetadata{ChainId: 10002, ExpectedFee: 100, ActualFee: 10}),
		ASSET_NOT_FOUND.New("asset not held").
			WithMetadata(AssetMetadata{BoxId: "2815916998246401", Asset: "0xtoken"}),
		MESSAGE_ALREADY_APPLIED.New("already applied").
			WithMetadata(MessageMetadata{MessageId: "ab"}),
		RELAY_UNAVAILABLE.New("relay down").WithMetadata(ChainMetadata{ChainId: 10002}),
	}
}

func TestErrorFixtures(t *testing.T) {
	for _, err := range generateErrorFixtures() {
		require.NotNil(t, err)
		require.NotEmpty(t, err.Error())
		require.NotEmpty(t, err.CodeName())
		require.NotNil(t, err.Log())
		require.Contains(t, err.Error(), err.CodeName())
	}
}

func TestErrorClass(t *testing.T) {
	testCases := []struct {
		err   Error
		class Class
		code  grpccodes.Code
	}{
		{INTERNAL_ERROR.New("boom"), ClassGeneric, grpccodes.Internal},
		{NOT_OWNER.New("nope"), ClassAuthorization, grpccodes.PermissionDenied},
		{UNTRUSTED_SENDER.New("nope"), ClassAuthorization, grpccodes.PermissionDenied},
		{PEER_NOT_CONFIGURED.New("nope"), ClassAuthorization, grpccodes.PermissionDenied},
		{BOX_LOCKED.New("locked"), ClassState, grpccodes.FailedPrecondition},
		{INSUFFICIENT_FEE.New("fee"), ClassFunds, grpccodes.InvalidArgument},
		{BOX_NOT_FOUND.New("missing"), ClassNotFound, grpccodes.NotFound},
		{MESSAGE_ALREADY_APPLIED.New("dup"), ClassReplay, grpccodes.AlreadyExists},
		{RELAY_UNAVAILABLE.New("down"), ClassRelay, grpccodes.Unavailable},
	}

	for _, tc := range testCases {
		t.Run(tc.err.CodeName(), func(t *testing.T) {
			require.Equal(t, tc.class, tc.err.Class())
			require.Equal(t, tc.code, tc.err.GrpcCode())
		})
	}
}

func TestErrorMetadata(t *testing.T) {
	err := INSUFFICIENT_FEE.New("fee %d below quote %d", 10, 100).
		WithMetadata(FeeMetadata{ChainId: 10002, ExpectedFee: 100, ActualFee: 10})

	metadata := err.Metadata()
	require.Equal(t, "10002", metadata["chain_id"])
	require.Equal(t, "100", metadata["expected_fee"])
	require.Equal(t, "10", metadata["actual_fee"])
}

func TestCodeIs(t *testing.T) {
	cause := fmt.Errorf("ledger rejected transfer")
	err := fmt.Errorf("deposit failed: %w", INSUFFICIENT_FUNDS.Wrap(cause))

	require.True(t, INSUFFICIENT_FUNDS.Is(err))
	require.False(t, INSUFFICIENT_FEE.Is(err))
	require.False(t, BOX_LOCKED.Is(cause))
	require.ErrorIs(t, err, cause)
}
