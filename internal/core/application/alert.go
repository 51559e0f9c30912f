package application

import (
	"context"
	"time"

	"github.com/schrodinger-box/boxd/internal/core/domain"
	"github.com/schrodinger-box/boxd/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

func (s *service) sendDeliveryAlert(
	topic ports.Topic, msg domain.OutboundMessage, status domain.DeliveryStatus,
) {
	s.publishAlert(topic, ports.BridgeDeliveryAlert{
		MessageId:          msg.Id.String(),
		BoxId:              msg.BoxId.String(),
		SourceChainId:      uint16(msg.SourceChainId),
		DestinationChainId: uint16(msg.DestinationChainId),
		Recipient:          msg.Recipient,
		Fee:                msg.Fee,
		Status:             status.String(),
		Age:                time.Since(time.Unix(msg.CreatedAt, 0)).Truncate(time.Second),
	})
}

func (s *service) publishAlert(topic ports.Topic, message interface{}) {
	if s.alerts == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.alerts.Publish(ctx, topic, message); err != nil {
		log.WithError(err).WithField("topic", topic).Warn("failed to publish alert")
	}
}
