package watermillrelay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/schrodinger-box/boxd/internal/core/domain"
	"github.com/schrodinger-box/boxd/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

const (
	messageIdMetadataKey   = "message_id"
	sourceChainMetadataKey = "source_chain_id"

	defaultMaxRetries = 3
)

// Config of a relay endpoint. Every endpoint connected to the same bus can
// exchange messages with the others.
type Config struct {
	ChainId domain.ChainId
	// Fees is the delivery fee by destination chain. Destinations not listed
	// can't be reached.
	Fees map[domain.ChainId]uint64
	// Treasury is the account fees are paid to.
	Treasury string
	Native   ports.NativeCurrency

	Publisher  message.Publisher
	Subscriber message.Subscriber
	Logger     watermill.LoggerAdapter

	// MaxRetries is the number of times a failing delivery is retried before
	// being handed back to the bus.
	MaxRetries      int
	InitialInterval time.Duration

	// Datadir is where the delivery statuses are kept. Statuses are kept in
	// memory if empty.
	Datadir string
}

type receipt struct {
	MessageId string `json:"message_id"`
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
}

type relay struct {
	cfg Config

	router   *message.Router
	cancel   context.CancelFunc
	closeErr chan error

	statuses *statusStore
}

func NewRelay(cfg Config) (ports.RelayNetwork, error) {
	if cfg.ChainId == 0 {
		return nil, fmt.Errorf("missing chain id")
	}
	if cfg.Publisher == nil || cfg.Subscriber == nil {
		return nil, fmt.Errorf("missing publisher or subscriber")
	}
	if cfg.Native == nil {
		return nil, fmt.Errorf("missing native currency")
	}
	if cfg.Treasury == "" {
		return nil, fmt.Errorf("missing treasury account")
	}
	if cfg.Logger == nil {
		cfg.Logger = watermill.NopLogger{}
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = time.Second
	}

	statuses, err := newStatusStore(cfg.Datadir)
	if err != nil {
		return nil, err
	}

	return &relay{
		cfg:      cfg,
		statuses: statuses,
	}, nil
}

func (r *relay) QuoteFee(_ context.Context, destination domain.ChainId) (uint64, error) {
	if destination == r.cfg.ChainId {
		return 0, fmt.Errorf("destination must differ from the local chain")
	}
	fee, ok := r.cfg.Fees[destination]
	if !ok {
		return 0, fmt.Errorf("no route to chain %s", destination)
	}
	return fee, nil
}

func (r *relay) Send(
	ctx context.Context, msg domain.BridgeMessage, payer string, fee uint64,
) error {
	expectedFee, err := r.QuoteFee(ctx, msg.DestinationChainId)
	if err != nil {
		return err
	}
	if fee < expectedFee {
		return fmt.Errorf("fee %d below the delivery fee %d", fee, expectedFee)
	}

	payload, err := msg.Serialize()
	if err != nil {
		return err
	}

	if fee > 0 {
		if err := r.cfg.Native.Transfer(ctx, payer, r.cfg.Treasury, fee); err != nil {
			return fmt.Errorf("failed to charge delivery fee: %w", err)
		}
	}

	// The status is recorded before publishing, an unknown status means the
	// message never left.
	if err := r.statuses.set(msg.Id, domain.DeliveryStatusSent); err != nil {
		r.refundFee(payer, fee)
		return fmt.Errorf("failed to record delivery status: %w", err)
	}

	wmsg := message.NewMessage(watermill.NewUUID(), payload)
	wmsg.Metadata.Set(messageIdMetadataKey, msg.Id.String())
	wmsg.Metadata.Set(sourceChainMetadataKey, fmt.Sprintf("%d", msg.SourceChainId))

	if err := r.cfg.Publisher.Publish(inboundTopic(msg.DestinationChainId), wmsg); err != nil {
		if unsetErr := r.statuses.unset(msg.Id); unsetErr != nil {
			log.WithError(unsetErr).Errorf(
				"failed to drop delivery status of unsent message %s", msg.Id,
			)
		}
		r.refundFee(payer, fee)
		return fmt.Errorf("failed to publish bridge message: %w", err)
	}

	log.WithField("message_id", msg.Id.String()).Debugf(
		"relayed bridge message to chain %s", msg.DestinationChainId,
	)
	return nil
}

func (r *relay) refundFee(payer string, fee uint64) {
	if fee > 0 {
		if refundErr := r.cfg.Native.Transfer(
			context.Background(), r.cfg.Treasury, payer, fee,
		); refundErr != nil {
			log.WithError(refundErr).Errorf("failed to refund delivery fee to %s", payer)
		}
	}
}

func (r *relay) DeliveryStatus(
	_ context.Context, id domain.MessageId,
) (domain.DeliveryStatus, error) {
	return r.statuses.get(id)
}

func (r *relay) Start(handler ports.InboundHandler) error {
	router, err := message.NewRouter(message.RouterConfig{}, r.cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to create relay router: %w", err)
	}

	router.AddMiddleware(
		middleware.Recoverer,
		middleware.Retry{
			MaxRetries:      r.cfg.MaxRetries,
			InitialInterval: r.cfg.InitialInterval,
			Multiplier:      2,
			Logger:          r.cfg.Logger,
		}.Middleware,
	)

	router.AddNoPublisherHandler(
		fmt.Sprintf("bridge_inbound_%d", r.cfg.ChainId),
		inboundTopic(r.cfg.ChainId),
		r.cfg.Subscriber,
		r.inboundHandler(handler),
	)
	router.AddNoPublisherHandler(
		fmt.Sprintf("bridge_receipts_%d", r.cfg.ChainId),
		receiptTopic(r.cfg.ChainId),
		r.cfg.Subscriber,
		r.handleReceipt,
	)

	ctx, cancel := context.WithCancel(context.Background())
	r.router = router
	r.cancel = cancel
	r.closeErr = make(chan error, 1)

	go func() {
		r.closeErr <- router.Run(ctx)
	}()

	select {
	case <-router.Running():
		return nil
	case err := <-r.closeErr:
		cancel()
		return fmt.Errorf("failed to start relay: %w", err)
	}
}

func (r *relay) Close() {
	if r.router != nil {
		if err := r.router.Close(); err != nil {
			log.WithError(err).Warn("failed to close relay router")
		}
		r.cancel()
	}
	//nolint:errcheck
	r.cfg.Publisher.Close()
	//nolint:errcheck
	r.cfg.Subscriber.Close()
	if err := r.statuses.close(); err != nil {
		log.WithError(err).Warn("failed to close relay status store")
	}
}

func (r *relay) inboundHandler(handler ports.InboundHandler) message.NoPublishHandlerFunc {
	return func(wmsg *message.Message) error {
		msg, err := domain.DeserializeBridgeMessage(wmsg.Payload)
		if err != nil {
			log.WithError(err).Warnf(
				"dropped malformed bridge message %s", wmsg.Metadata.Get(messageIdMetadataKey),
			)
			return nil
		}

		if err := handler(wmsg.Context(), *msg); err != nil {
			if !errors.Is(err, ports.ErrMessageRejected) {
				return err
			}
			return r.sendReceipt(*msg, domain.DeliveryStatusFailed, err.Error())
		}
		return r.sendReceipt(*msg, domain.DeliveryStatusDelivered, "")
	}
}

func (r *relay) sendReceipt(
	msg domain.BridgeMessage, status domain.DeliveryStatus, reason string,
) error {
	payload, err := json.Marshal(receipt{
		MessageId: msg.Id.String(),
		Status:    status.String(),
		Reason:    reason,
	})
	if err != nil {
		return err
	}

	wmsg := message.NewMessage(watermill.NewUUID(), payload)
	wmsg.Metadata.Set(messageIdMetadataKey, msg.Id.String())
	return r.cfg.Publisher.Publish(receiptTopic(msg.SourceChainId), wmsg)
}

func (r *relay) handleReceipt(wmsg *message.Message) error {
	var rcpt receipt
	if err := json.Unmarshal(wmsg.Payload, &rcpt); err != nil {
		log.WithError(err).Warn("dropped malformed delivery receipt")
		return nil
	}
	id, err := domain.ParseMessageId(rcpt.MessageId)
	if err != nil {
		log.WithError(err).Warn("dropped malformed delivery receipt")
		return nil
	}

	var status domain.DeliveryStatus
	switch rcpt.Status {
	case domain.DeliveryStatusDelivered.String():
		status = domain.DeliveryStatusDelivered
	case domain.DeliveryStatusFailed.String():
		status = domain.DeliveryStatusFailed
		log.WithField("message_id", rcpt.MessageId).Warnf(
			"bridge message rejected by destination: %s", rcpt.Reason,
		)
	default:
		return nil
	}

	return r.statuses.set(id, status)
}

func inboundTopic(chainId domain.ChainId) string {
	return fmt.Sprintf("bridge_%d", chainId)
}

func receiptTopic(chainId domain.ChainId) string {
	return fmt.Sprintf("bridge_receipts_%d", chainId)
}
