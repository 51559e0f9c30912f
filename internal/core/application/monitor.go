package application

import (
	"context"
	"time"

	"github.com/schrodinger-box/boxd/internal/core/domain"
	"github.com/schrodinger-box/boxd/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

const deliveryCheckTimeout = 30 * time.Second

// checkDeliveries polls the relay for every message still in flight. Failed
// messages, and those undelivered for longer than the stale threshold, raise a
// single alert each. Boxes stay locked either way. Messages the relay has no
// record of were never sent and are reverted.
func (s *service) checkDeliveries() {
	ctx, cancel := context.WithTimeout(context.Background(), deliveryCheckTimeout)
	defer cancel()

	pending, err := s.repoManager.Messages().ListOutbound(ctx, domain.DeliveryStatusSent)
	if err != nil {
		log.WithError(err).Warn("failed to list outbound messages")
		return
	}
	if len(pending) <= 0 {
		return
	}
	log.Debugf("checking delivery of %d bridge messages", len(pending))

	for _, msg := range pending {
		logger := log.WithField("box_id", msg.BoxId.String()).
			WithField("message_id", msg.Id.String())

		status, err := s.relay.DeliveryStatus(ctx, msg.Id)
		if err != nil {
			logger.WithError(err).Warn("failed to get delivery status")
			continue
		}

		if status == domain.DeliveryStatusUnknown {
			s.reconcileUnsent(ctx, msg)
			continue
		}

		changed := false
		switch status {
		case domain.DeliveryStatusDelivered:
			msg.Status = status
			changed = true
			logger.Info("bridge message delivered")
		case domain.DeliveryStatusFailed:
			msg.Status = status
			changed = true
			logger.Warn("bridge message delivery failed")
			if !msg.Alerted {
				s.sendDeliveryAlert(ports.BridgeDeliveryFailed, msg, status)
				msg.Alerted = true
			}
		default:
			age := time.Since(time.Unix(msg.UpdatedAt, 0))
			if s.staleBridgeThreshold > 0 && age > s.staleBridgeThreshold && !msg.Alerted {
				logger.Warnf("bridge message undelivered after %s", age.Truncate(time.Second))
				s.sendDeliveryAlert(ports.BridgeDeliveryStale, msg, status)
				msg.Alerted = true
				changed = true
			}
		}

		if !changed {
			continue
		}
		msg.UpdatedAt = time.Now().Unix()
		if err := s.repoManager.Messages().UpdateOutbound(ctx, msg); err != nil {
			logger.WithError(err).Warn("failed to update outbound message")
		}
	}
}

// reconcileUnsent completes the revert of a bridge whose relay send failed
// but whose box could not be unlocked at the time.
func (s *service) reconcileUnsent(ctx context.Context, msg domain.OutboundMessage) {
	logger := log.WithField("box_id", msg.BoxId.String()).
		WithField("message_id", msg.Id.String())

	release, err := s.lockBox(ctx, msg.BoxId)
	if err != nil {
		logger.WithError(err).Warn("failed to lock box for reconciliation")
		return
	}
	defer release()

	// Bridge holds the box lock until the relay answers.
	status, rerr := s.relay.DeliveryStatus(ctx, msg.Id)
	if rerr != nil || status != domain.DeliveryStatusUnknown {
		return
	}

	box, err := s.getBox(ctx, msg.BoxId)
	if err != nil {
		logger.WithError(err).Warn("failed to get box for reconciliation")
		return
	}
	if err := s.revertBridge(ctx, *box, msg.Id); err != nil {
		logger.WithError(err).Warn("failed to revert unsent bridge message")
		return
	}
	logger.Warn("reverted bridge message never accepted by the relay")
}
