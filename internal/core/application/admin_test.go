package application_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/schrodinger-box/boxd/internal/core/domain"
	"github.com/schrodinger-box/boxd/pkg/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAdminService_Peers(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, domain.ChainHolesky)

	t.Run("unset peer is zero", func(t *testing.T) {
		peer, err := env.svc.PeerOf(ctx, domain.ChainSepolia)
		require.NoError(t, err)
		require.True(t, peer.IsZero())
	})

	t.Run("set overwrites in place", func(t *testing.T) {
		require.NoError(t, env.admin.SetPeer(ctx, domain.ChainSepolia, peerOf(1)))
		require.NoError(t, env.admin.SetPeer(ctx, domain.ChainSepolia, peerOf(2)))

		peer, err := env.svc.PeerOf(ctx, domain.ChainSepolia)
		require.NoError(t, err)
		require.Equal(t, peerOf(2), peer)

		peers, listErr := env.admin.ListPeers(ctx)
		require.NoError(t, listErr)
		require.Len(t, peers, 1)
		require.Equal(t, domain.ChainSepolia, peers[0].ChainId)
	})

	t.Run("invalid", func(t *testing.T) {
		err := env.admin.SetPeer(ctx, domain.ChainHolesky, peerOf(1))
		require.True(t, errors.INVALID_ARGUMENT.Is(err))

		err = env.admin.SetPeer(ctx, 0, peerOf(1))
		require.True(t, errors.INVALID_ARGUMENT.Is(err))
	})

	require.Equal(t, peerOf(domain.ChainHolesky), env.admin.LocalPeer())
}

func TestAdminService_Fees(t *testing.T) {
	ctx := context.Background()

	t.Run("withdraw all", func(t *testing.T) {
		env := newTestEnv(t, domain.ChainHolesky)
		env.fees.On("Balance", mock.Anything).Return(uint64(500), nil)
		env.fees.On("Withdraw", mock.Anything, "treasury", uint64(500)).Return(nil)

		balance, err := env.admin.GetFeeBalance(ctx)
		require.NoError(t, err)
		require.Equal(t, uint64(500), balance)

		amount, err := env.admin.WithdrawFees(ctx, "treasury", 0)
		require.NoError(t, err)
		require.Equal(t, uint64(500), amount)
		env.fees.AssertCalled(t, "Withdraw", mock.Anything, "treasury", uint64(500))
	})

	t.Run("invalid", func(t *testing.T) {
		env := newTestEnv(t, domain.ChainHolesky)
		env.fees.On("Balance", mock.Anything).Return(uint64(500), nil)

		_, err := env.admin.WithdrawFees(ctx, "treasury", 501)
		require.True(t, errors.INSUFFICIENT_FUNDS.Is(err))

		_, err = env.admin.WithdrawFees(ctx, "", 1)
		require.True(t, errors.INVALID_ARGUMENT.Is(err))
		env.fees.AssertNotCalled(t, "Withdraw", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("collector unreachable", func(t *testing.T) {
		env := newTestEnv(t, domain.ChainHolesky)
		env.fees.On("Balance", mock.Anything).Return(uint64(0), fmt.Errorf("timeout"))

		_, err := env.admin.GetFeeBalance(ctx)
		require.True(t, errors.INTERNAL_ERROR.Is(err))
	})
}

func TestAdminService_ResendBridgeMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		env := newTestEnv(t, domain.ChainHolesky)
		env.trust(t, &testEnv{chain: domain.ChainSepolia})
		boxId := env.mint(t, "alice")
		env.expectSend("alice", bridgeFee)
		msg, err := env.svc.Bridge(ctx, boxId, domain.ChainSepolia, "carol", "alice", bridgeFee)
		require.NoError(t, err)

		env.expectSend("ops", bridgeFee)
		require.NoError(t, env.admin.ResendBridgeMessage(ctx, msg.Id, "ops", bridgeFee))
		env.relay.AssertCalled(t, "Send", mock.Anything, *msg, "ops", bridgeFee)

		outbound := env.outbound(t)
		require.Len(t, outbound, 1)
		require.Equal(t, "ops", outbound[0].Payer)
		require.Equal(t, domain.DeliveryStatusSent, outbound[0].Status)
	})

	t.Run("invalid", func(t *testing.T) {
		env := newTestEnv(t, domain.ChainHolesky)
		unknown := domain.NewMessageId(domain.ChainHolesky, 1, 1)

		err := env.admin.ResendBridgeMessage(ctx, unknown, "ops", bridgeFee)
		require.True(t, errors.MESSAGE_NOT_FOUND.Is(err))

		err = env.admin.ResendBridgeMessage(ctx, unknown, "", bridgeFee)
		require.True(t, errors.INVALID_ARGUMENT.Is(err))
	})
}
