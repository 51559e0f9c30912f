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

func TestBridgeScenario(t *testing.T) {
	ctx := context.Background()
	src := newTestEnv(t, domain.ChainHolesky)
	dst := newTestEnv(t, domain.ChainSepolia)
	src.trust(t, dst)
	dst.trust(t, src)

	boxId := src.mint(t, "alice")
	details, err := src.svc.GetBoxDetails(ctx, boxId)
	require.NoError(t, err)
	require.False(t, details.Locked)
	require.True(t, details.IsOriginal)
	require.Empty(t, details.Fungibles)

	src.ledger.mint("T", "alice", 10)
	require.NoError(t, src.svc.DepositFungible(ctx, boxId, "T", 10, "alice"))
	src.ledger.mintNft("N", 5, "alice")
	require.NoError(t, src.svc.DepositNft(ctx, boxId, "N", 5, "alice"))
	src.ledger.mint("U", "alice", 3)
	require.NoError(t, src.svc.DepositFungible(ctx, boxId, "U", 3, "alice"))

	require.NoError(t, src.svc.Transfer(ctx, boxId, "alice", "bob"))

	amount, err := src.svc.WithdrawFungible(ctx, boxId, "T", "bob", "")
	require.NoError(t, err)
	require.Equal(t, uint64(10), amount)
	require.Equal(t, uint64(10), src.ledger.balance("T", "bob"))

	fee, err := src.svc.QuoteFee(ctx, domain.ChainSepolia)
	require.NoError(t, err)
	require.Equal(t, bridgeFee, fee)

	src.expectSend("bob", fee)
	msg, err := src.svc.Bridge(ctx, boxId, domain.ChainSepolia, "carol", "bob", fee)
	require.NoError(t, err)
	require.NotNil(t, msg)
	require.Equal(t, uint64(1), msg.Sequence)
	require.Equal(t, domain.NewMessageId(domain.ChainHolesky, boxId, 1), msg.Id)
	require.Equal(t, peerOf(domain.ChainHolesky), msg.SenderPeer)
	src.relay.AssertCalled(t, "Send", mock.Anything, *msg, "bob", fee)

	details, err = src.svc.GetBoxDetails(ctx, boxId)
	require.NoError(t, err)
	require.True(t, details.Locked)
	require.Equal(t, []string{"U"}, details.Assets())
	require.Equal(t, []uint64{5}, details.NftTokenIds())
	require.Equal(t, domain.EventTypeBoxBridged, lastEvent(src))

	outbound := src.outbound(t, domain.DeliveryStatusSent)
	require.Len(t, outbound, 1)
	require.Equal(t, msg.Id, outbound[0].Id)

	t.Run("locked box rejects mutations", func(t *testing.T) {
		src.ledger.mint("T", "bob", 1)
		src.ledger.mintNft("N", 9, "bob")
		balanceBefore := src.ledger.balance("T", "bob")

		errs := []errors.Error{
			src.svc.DepositFungible(ctx, boxId, "T", 1, "bob"),
			src.svc.DepositNft(ctx, boxId, "N", 9, "bob"),
			src.svc.WithdrawNft(ctx, boxId, "N", 5, "bob", ""),
			src.svc.Transfer(ctx, boxId, "bob", "dave"),
		}
		_, err := src.svc.WithdrawFungible(ctx, boxId, "U", "bob", "")
		errs = append(errs, err)
		_, err = src.svc.Bridge(ctx, boxId, domain.ChainSepolia, "carol", "bob", fee)
		errs = append(errs, err)

		for _, err := range errs {
			require.Error(t, err)
			require.True(t, errors.BOX_LOCKED.Is(err))
			require.Equal(t, errors.ClassState, err.Class())
		}
		require.Equal(t, balanceBefore, src.ledger.balance("T", "bob"))
		require.Equal(t, "bob", src.ledger.ownerOf("N", 9))
	})

	t.Run("destination materializes a shadow", func(t *testing.T) {
		require.NoError(t, dst.svc.Receive(ctx, *msg))

		owner, err := dst.svc.OwnerOf(ctx, boxId)
		require.NoError(t, err)
		require.Equal(t, "carol", owner)

		shadow, err := dst.svc.GetBoxDetails(ctx, boxId)
		require.NoError(t, err)
		require.False(t, shadow.Locked)
		require.False(t, shadow.IsOriginal)
		require.Equal(t, domain.ChainHolesky, shadow.OriginChainId)
		require.Equal(t, msg.Snapshot.Fungibles, shadow.Fungibles)
		require.Equal(t, msg.Snapshot.Nfts, shadow.Nfts)
		require.Equal(t, domain.EventTypeBoxReceived, lastEvent(dst))
	})

	t.Run("redelivery is a no-op", func(t *testing.T) {
		eventsBefore := len(dst.repo.events.types())

		require.NoError(t, dst.svc.Receive(ctx, *msg))

		require.Len(t, dst.repo.events.types(), eventsBefore)
		boxes, err := dst.svc.BoxesOf(ctx, "carol")
		require.NoError(t, err)
		require.Equal(t, []domain.BoxId{boxId}, boxes)
	})

	t.Run("bridging back unlocks the original", func(t *testing.T) {
		require.NoError(t, dst.svc.Transfer(ctx, boxId, "carol", "dave"))
		dst.expectSend("dave", fee)

		back, err := dst.svc.Bridge(ctx, boxId, domain.ChainHolesky, "erin", "dave", fee)
		require.NoError(t, err)
		require.Equal(t, uint64(1), back.Sequence)
		require.NotEqual(t, msg.Id, back.Id)

		require.NoError(t, src.svc.Receive(ctx, *back))

		original, err := src.svc.GetBoxDetails(ctx, boxId)
		require.NoError(t, err)
		require.False(t, original.Locked)
		require.True(t, original.IsOriginal)
		require.Equal(t, "erin", original.Owner)
		require.Equal(t, uint64(1), original.Sequence)
		require.Equal(t, back.Snapshot.Fungibles, original.Fungibles)

		bobBoxes, err := src.svc.BoxesOf(ctx, "bob")
		require.NoError(t, err)
		require.Empty(t, bobBoxes)

		// The unlocked box can leave again with a fresh sequence.
		src.expectSend("erin", fee)
		again, err := src.svc.Bridge(ctx, boxId, domain.ChainSepolia, "carol", "erin", fee)
		require.NoError(t, err)
		require.Equal(t, uint64(2), again.Sequence)
		require.NoError(t, dst.svc.Receive(ctx, *again))

		owner, err := dst.svc.OwnerOf(ctx, boxId)
		require.NoError(t, err)
		require.Equal(t, "carol", owner)
	})
}

func TestBridgeRejections(t *testing.T) {
	ctx := context.Background()

	t.Run("peer not configured", func(t *testing.T) {
		env := newTestEnv(t, domain.ChainHolesky)
		boxId := env.mint(t, "alice")

		msg, err := env.svc.Bridge(ctx, boxId, domain.ChainSepolia, "carol", "alice", bridgeFee)
		require.Nil(t, msg)
		require.True(t, errors.PEER_NOT_CONFIGURED.Is(err))
		require.Equal(t, errors.ClassAuthorization, err.Class())

		details, err := env.svc.GetBoxDetails(ctx, boxId)
		require.NoError(t, err)
		require.False(t, details.Locked)
		require.Zero(t, details.Sequence)
		env.relay.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("peer reset to zero", func(t *testing.T) {
		env := newTestEnv(t, domain.ChainHolesky)
		boxId := env.mint(t, "alice")
		require.NoError(t, env.admin.SetPeer(ctx, domain.ChainSepolia, domain.ZeroPeer))

		_, err := env.svc.Bridge(ctx, boxId, domain.ChainSepolia, "carol", "alice", bridgeFee)
		require.True(t, errors.PEER_NOT_CONFIGURED.Is(err))
	})

	t.Run("fee below quote", func(t *testing.T) {
		env := newTestEnv(t, domain.ChainHolesky)
		env.trust(t, &testEnv{chain: domain.ChainSepolia})
		boxId := env.mint(t, "alice")

		_, err := env.svc.Bridge(ctx, boxId, domain.ChainSepolia, "carol", "alice", bridgeFee-1)
		require.True(t, errors.INSUFFICIENT_FEE.Is(err))

		details, err := env.svc.GetBoxDetails(ctx, boxId)
		require.NoError(t, err)
		require.False(t, details.Locked)
		env.relay.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not owner", func(t *testing.T) {
		env := newTestEnv(t, domain.ChainHolesky)
		env.trust(t, &testEnv{chain: domain.ChainSepolia})
		boxId := env.mint(t, "alice")

		_, err := env.svc.Bridge(ctx, boxId, domain.ChainSepolia, "mallory", "mallory", bridgeFee)
		require.True(t, errors.NOT_OWNER.Is(err))
	})

	t.Run("invalid destination", func(t *testing.T) {
		env := newTestEnv(t, domain.ChainHolesky)
		boxId := env.mint(t, "alice")

		_, err := env.svc.Bridge(ctx, boxId, domain.ChainHolesky, "carol", "alice", bridgeFee)
		require.True(t, errors.INVALID_ARGUMENT.Is(err))
		_, err = env.svc.QuoteFee(ctx, 0)
		require.True(t, errors.INVALID_ARGUMENT.Is(err))
	})

	t.Run("relay unavailable", func(t *testing.T) {
		env := newTestEnv(t, domain.ChainHolesky)
		env.relay.ExpectedCalls = nil
		env.relay.On("QuoteFee", mock.Anything, domain.ChainSepolia).
			Return(uint64(0), fmt.Errorf("connection refused"))

		_, err := env.svc.QuoteFee(ctx, domain.ChainSepolia)
		require.True(t, errors.RELAY_UNAVAILABLE.Is(err))
	})

	t.Run("failed send unlocks and keeps the sequence", func(t *testing.T) {
		env := newTestEnv(t, domain.ChainHolesky)
		env.trust(t, &testEnv{chain: domain.ChainSepolia})
		boxId := env.mint(t, "alice")
		env.relay.On("Send", mock.Anything, mock.Anything, "alice", bridgeFee).
			Return(fmt.Errorf("relay down")).Once()

		_, err := env.svc.Bridge(ctx, boxId, domain.ChainSepolia, "carol", "alice", bridgeFee)
		require.True(t, errors.RELAY_UNAVAILABLE.Is(err))

		details, err := env.svc.GetBoxDetails(ctx, boxId)
		require.NoError(t, err)
		require.False(t, details.Locked)
		require.Equal(t, uint64(1), details.Sequence)

		outbound := env.outbound(t)
		require.Empty(t, outbound)
		env.alerts.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)

		env.expectSend("alice", bridgeFee)
		msg, err := env.svc.Bridge(ctx, boxId, domain.ChainSepolia, "carol", "alice", bridgeFee)
		require.NoError(t, err)
		require.Equal(t, uint64(2), msg.Sequence)
	})
}

func TestReceiveRejections(t *testing.T) {
	ctx := context.Background()
	boxId := domain.NewBoxId(domain.ChainHolesky, 1)

	newMessage := func(sender domain.PeerId, destination domain.ChainId) domain.BridgeMessage {
		return domain.BridgeMessage{
			Id:                 domain.NewMessageId(domain.ChainHolesky, boxId, 1),
			SourceChainId:      domain.ChainHolesky,
			DestinationChainId: destination,
			BoxId:              boxId,
			Sequence:           1,
			Recipient:          "carol",
			SenderPeer:         sender,
			Snapshot: domain.Snapshot{
				Fungibles: []domain.FungibleBalance{{Asset: "T", Amount: 10}},
				Nfts:      []domain.NftRef{},
			},
		}
	}

	testCases := []struct {
		name   string
		trust  bool
		msg    domain.BridgeMessage
		expect func(error) bool
	}{
		{
			name:   "unconfigured peer",
			trust:  false,
			msg:    newMessage(peerOf(domain.ChainHolesky), domain.ChainSepolia),
			expect: errors.UNTRUSTED_SENDER.Is,
		},
		{
			name:   "zero sender on unconfigured peer",
			trust:  false,
			msg:    newMessage(domain.ZeroPeer, domain.ChainSepolia),
			expect: errors.UNTRUSTED_SENDER.Is,
		},
		{
			name:   "wrong sender",
			trust:  true,
			msg:    newMessage(peerOf(42), domain.ChainSepolia),
			expect: errors.UNTRUSTED_SENDER.Is,
		},
		{
			name:   "wrong destination",
			trust:  true,
			msg:    newMessage(peerOf(domain.ChainHolesky), 42),
			expect: errors.UNTRUSTED_SENDER.Is,
		},
		{
			name:  "tampered id",
			trust: true,
			msg: func() domain.BridgeMessage {
				msg := newMessage(peerOf(domain.ChainHolesky), domain.ChainSepolia)
				msg.Sequence = 2
				return msg
			}(),
			expect: errors.INVALID_ARGUMENT.Is,
		},
		{
			name:  "malformed message from unconfigured peer",
			trust: false,
			msg: func() domain.BridgeMessage {
				msg := newMessage(peerOf(domain.ChainHolesky), domain.ChainSepolia)
				msg.Sequence = 0
				msg.Recipient = ""
				return msg
			}(),
			expect: errors.UNTRUSTED_SENDER.Is,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t, domain.ChainSepolia)
			if tc.trust {
				env.trust(t, &testEnv{chain: domain.ChainHolesky})
			}

			err := env.svc.Receive(ctx, tc.msg)
			require.Error(t, err)
			require.True(t, tc.expect(err))

			_, err = env.svc.OwnerOf(ctx, boxId)
			require.True(t, errors.BOX_NOT_FOUND.Is(err))
			require.Empty(t, env.repo.events.types())
		})
	}
}

func TestBridgeAtomicity(t *testing.T) {
	ctx := context.Background()

	t.Run("lock rolled back if the outbound message can't be stored", func(t *testing.T) {
		env := newTestEnv(t, domain.ChainHolesky)
		env.trust(t, &testEnv{chain: domain.ChainSepolia})
		boxId := env.mint(t, "alice")
		env.repo.messages.failAfter(0, fmt.Errorf("disk full"))

		_, err := env.svc.Bridge(ctx, boxId, domain.ChainSepolia, "carol", "alice", bridgeFee)
		require.True(t, errors.INTERNAL_ERROR.Is(err))

		details, err := env.svc.GetBoxDetails(ctx, boxId)
		require.NoError(t, err)
		require.False(t, details.Locked)
		require.Zero(t, details.Sequence)
		env.relay.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unsent message reverted by the delivery monitor", func(t *testing.T) {
		env := newTestEnv(t, domain.ChainHolesky)
		env.trust(t, &testEnv{chain: domain.ChainSepolia})
		env.relay.On("Start", mock.Anything).Return(nil)
		require.NoError(t, env.svc.Start())
		boxId := env.mint(t, "alice")

		env.relay.On("Send", mock.Anything, mock.Anything, "alice", bridgeFee).
			Return(fmt.Errorf("relay down")).Once()
		// The lock is stored, the unlock that follows the failed send is not.
		env.repo.boxes.failAfter(1, fmt.Errorf("disk full"))

		_, err := env.svc.Bridge(ctx, boxId, domain.ChainSepolia, "carol", "alice", bridgeFee)
		require.True(t, errors.RELAY_UNAVAILABLE.Is(err))

		details, err := env.svc.GetBoxDetails(ctx, boxId)
		require.NoError(t, err)
		require.True(t, details.Locked)
		pending := env.outbound(t, domain.DeliveryStatusSent)
		require.Len(t, pending, 1)

		env.repo.boxes.failAfter(0, nil)
		env.relay.On("DeliveryStatus", mock.Anything, pending[0].Id).
			Return(domain.DeliveryStatusUnknown, nil)
		env.scheduler.runAll()

		details, err = env.svc.GetBoxDetails(ctx, boxId)
		require.NoError(t, err)
		require.False(t, details.Locked)
		require.Equal(t, uint64(1), details.Sequence)
		require.Empty(t, env.outbound(t))
	})
}

func TestReceiveAtomicity(t *testing.T) {
	ctx := context.Background()
	src := newTestEnv(t, domain.ChainHolesky)
	dst := newTestEnv(t, domain.ChainSepolia)
	src.trust(t, dst)
	dst.trust(t, src)

	boxId := src.mint(t, "alice")
	src.ledger.mint("T", "alice", 10)
	require.NoError(t, src.svc.DepositFungible(ctx, boxId, "T", 10, "alice"))
	src.expectSend("alice", bridgeFee)
	msg, err := src.svc.Bridge(ctx, boxId, domain.ChainSepolia, "carol", "alice", bridgeFee)
	require.NoError(t, err)

	t.Run("nothing stored if the vault write fails", func(t *testing.T) {
		dst.repo.vault.failAfter(0, fmt.Errorf("disk full"))
		defer dst.repo.vault.failAfter(0, nil)

		err := dst.svc.Receive(ctx, *msg)
		require.True(t, errors.INTERNAL_ERROR.Is(err))

		_, err = dst.svc.OwnerOf(ctx, boxId)
		require.True(t, errors.BOX_NOT_FOUND.Is(err))
		applied, aerr := dst.repo.messages.IsApplied(ctx, msg.Id)
		require.NoError(t, aerr)
		require.False(t, applied)
	})

	t.Run("redelivery applies the message", func(t *testing.T) {
		require.NoError(t, dst.svc.Receive(ctx, *msg))

		balance, err := dst.svc.BalanceOf(ctx, boxId, "T")
		require.NoError(t, err)
		require.Equal(t, uint64(10), balance)
	})

	t.Run("unlocked box is not overwritten", func(t *testing.T) {
		forged := *msg
		forged.Sequence = 2
		forged.Id = domain.NewMessageId(domain.ChainHolesky, boxId, 2)
		forged.Recipient = "mallory"
		forged.Snapshot = domain.Snapshot{
			Fungibles: []domain.FungibleBalance{{Asset: "T", Amount: 1000}},
			Nfts:      []domain.NftRef{},
		}

		err := dst.svc.Receive(ctx, forged)
		require.True(t, errors.BOX_ALREADY_EXISTS.Is(err))
		require.Equal(t, errors.ClassState, err.Class())

		owner, err := dst.svc.OwnerOf(ctx, boxId)
		require.NoError(t, err)
		require.Equal(t, "carol", owner)
		balance, err := dst.svc.BalanceOf(ctx, boxId, "T")
		require.NoError(t, err)
		require.Equal(t, uint64(10), balance)
	})
}

func lastEvent(env *testEnv) domain.EventType {
	types := env.repo.events.types()
	if len(types) <= 0 {
		return 0
	}
	return types[len(types)-1]
}
