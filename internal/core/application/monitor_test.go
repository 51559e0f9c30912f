package application_test

import (
	"context"
	"testing"

	"github.com/schrodinger-box/boxd/internal/core/domain"
	"github.com/schrodinger-box/boxd/internal/core/ports"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestDeliveryMonitor(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*testEnv, *domain.BridgeMessage) {
		env := newTestEnv(t, domain.ChainHolesky)
		env.trust(t, &testEnv{chain: domain.ChainSepolia})
		env.relay.On("Start", mock.Anything).Return(nil)
		require.NoError(t, env.svc.Start())

		boxId := env.mint(t, "alice")
		env.expectSend("alice", bridgeFee)
		msg, err := env.svc.Bridge(ctx, boxId, domain.ChainSepolia, "carol", "alice", bridgeFee)
		require.NoError(t, err)
		return env, msg
	}

	t.Run("delivered", func(t *testing.T) {
		env, msg := setup(t)
		env.relay.On("DeliveryStatus", mock.Anything, msg.Id).
			Return(domain.DeliveryStatusDelivered, nil)

		env.scheduler.runAll()

		delivered := env.outbound(t, domain.DeliveryStatusDelivered)
		require.Len(t, delivered, 1)
		env.alerts.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)

		// Delivery does not unlock the source box.
		details, err := env.svc.GetBoxDetails(ctx, msg.BoxId)
		require.NoError(t, err)
		require.True(t, details.Locked)
	})

	t.Run("failed", func(t *testing.T) {
		env, msg := setup(t)
		env.relay.On("DeliveryStatus", mock.Anything, msg.Id).
			Return(domain.DeliveryStatusFailed, nil)
		env.alerts.On("Publish", mock.Anything, ports.BridgeDeliveryFailed, mock.Anything).
			Return(nil)

		env.scheduler.runAll()
		env.scheduler.runAll()

		env.alerts.AssertNumberOfCalls(t, "Publish", 1)
		failed := env.outbound(t, domain.DeliveryStatusFailed)
		require.Len(t, failed, 1)
		require.True(t, failed[0].Alerted)

		alert := env.alerts.Calls[0].Arguments.Get(2).(ports.BridgeDeliveryAlert)
		require.Equal(t, msg.Id.String(), alert.MessageId)
		require.Equal(t, uint16(domain.ChainSepolia), alert.DestinationChainId)
		require.Equal(t, "failed", alert.Status)
	})

	t.Run("stale", func(t *testing.T) {
		env, msg := setup(t)
		env.relay.On("DeliveryStatus", mock.Anything, msg.Id).
			Return(domain.DeliveryStatusSent, nil)
		env.alerts.On("Publish", mock.Anything, ports.BridgeDeliveryStale, mock.Anything).
			Return(nil)

		env.scheduler.runAll()
		env.scheduler.runAll()

		env.alerts.AssertNumberOfCalls(t, "Publish", 1)
		pending := env.outbound(t, domain.DeliveryStatusSent)
		require.Len(t, pending, 1)
		require.True(t, pending[0].Alerted)
	})
}
