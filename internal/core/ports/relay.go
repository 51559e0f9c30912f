package ports

import (
	"context"
	"fmt"

	"github.com/schrodinger-box/boxd/internal/core/domain"
)

// ErrMessageRejected is returned by an InboundHandler for messages that can
// never be applied. The relay reports them as failed instead of redelivering.
var ErrMessageRejected = fmt.Errorf("message rejected")

// InboundHandler is invoked by the relay for every message delivered to the
// local chain. Returning any other error makes the relay redeliver the message.
type InboundHandler func(ctx context.Context, msg domain.BridgeMessage) error

type RelayNetwork interface {
	// QuoteFee returns the fee required to deliver a message to the given chain.
	QuoteFee(ctx context.Context, destination domain.ChainId) (uint64, error)
	// Send charges the fee to the payer and enqueues the message for delivery.
	Send(ctx context.Context, msg domain.BridgeMessage, payer string, fee uint64) error
	DeliveryStatus(ctx context.Context, id domain.MessageId) (domain.DeliveryStatus, error)
	Start(handler InboundHandler) error
	Close()
}
