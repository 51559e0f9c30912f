package application

import (
	"context"
	"fmt"
	"time"

	"github.com/schrodinger-box/boxd/internal/core/domain"
	"github.com/schrodinger-box/boxd/internal/core/ports"
	"github.com/schrodinger-box/boxd/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type AdminService interface {
	SetPeer(ctx context.Context, chainId domain.ChainId, peerId domain.PeerId) error
	ListPeers(ctx context.Context) ([]domain.Peer, error)
	LocalPeer() domain.PeerId
	GetFeeBalance(ctx context.Context) (uint64, error)
	// WithdrawFees moves the given amount of collected fees, or all of them if
	// amount is zero, and returns what was withdrawn.
	WithdrawFees(ctx context.Context, to string, amount uint64) (uint64, error)
	ResendBridgeMessage(
		ctx context.Context, messageId domain.MessageId, payer string, feePaid uint64,
	) error
	ListOutboundMessages(
		ctx context.Context, statuses ...domain.DeliveryStatus,
	) ([]domain.OutboundMessage, error)
}

type adminService struct {
	repoManager  ports.RepoManager
	relay        ports.RelayNetwork
	feeCollector ports.FeeCollector

	chainId   domain.ChainId
	localPeer domain.PeerId
}

func NewAdminService(
	repoManager ports.RepoManager, relay ports.RelayNetwork, feeCollector ports.FeeCollector,
	chainId domain.ChainId, localPeer domain.PeerId,
) AdminService {
	return &adminService{
		repoManager:  repoManager,
		relay:        relay,
		feeCollector: feeCollector,
		chainId:      chainId,
		localPeer:    localPeer,
	}
}

// SetPeer overwrites the trusted peer of the given chain. A zero peer id
// disables bridging to and from that chain.
func (a *adminService) SetPeer(
	ctx context.Context, chainId domain.ChainId, peerId domain.PeerId,
) error {
	if chainId == 0 {
		return errors.INVALID_ARGUMENT.New("missing chain id")
	}
	if chainId == a.chainId {
		return errors.INVALID_ARGUMENT.New("cannot set a peer for the local chain %s", chainId)
	}

	if err := a.repoManager.Peers().Set(ctx, domain.Peer{
		ChainId:   chainId,
		PeerId:    peerId,
		UpdatedAt: time.Now().Unix(),
	}); err != nil {
		return errors.INTERNAL_ERROR.Wrap(fmt.Errorf("failed to set peer: %w", err))
	}

	log.WithField("chain_id", chainId.String()).Infof("trusted peer set to %s", peerId)
	return nil
}

func (a *adminService) ListPeers(ctx context.Context) ([]domain.Peer, error) {
	peers, err := a.repoManager.Peers().List(ctx)
	if err != nil {
		return nil, errors.INTERNAL_ERROR.Wrap(fmt.Errorf("failed to list peers: %w", err))
	}
	return peers, nil
}

func (a *adminService) LocalPeer() domain.PeerId {
	return a.localPeer
}

func (a *adminService) GetFeeBalance(ctx context.Context) (uint64, error) {
	balance, err := a.feeCollector.Balance(ctx)
	if err != nil {
		return 0, errors.INTERNAL_ERROR.Wrap(fmt.Errorf("failed to get fee balance: %w", err))
	}
	return balance, nil
}

func (a *adminService) WithdrawFees(
	ctx context.Context, to string, amount uint64,
) (uint64, error) {
	if to == "" {
		return 0, errors.INVALID_ARGUMENT.New("missing recipient")
	}

	balance, err := a.GetFeeBalance(ctx)
	if err != nil {
		return 0, err
	}
	if amount == 0 {
		amount = balance
	}
	if amount == 0 || amount > balance {
		return 0, errors.INSUFFICIENT_FUNDS.New(
			"cannot withdraw %d, collected fees amount to %d", amount, balance,
		).WithMetadata(errors.AmountMetadata{Asset: "native", Amount: fmt.Sprintf("%d", amount)})
	}

	if err := a.feeCollector.Withdraw(ctx, to, amount); err != nil {
		return 0, feeError(err, to, amount)
	}

	log.Infof("withdrew %d of collected fees to %s", amount, to)
	return amount, nil
}

// ResendBridgeMessage hands a stored outbound message to the relay again, eg.
// after the relay reported it as failed. The destination ignores duplicates.
func (a *adminService) ResendBridgeMessage(
	ctx context.Context, messageId domain.MessageId, payer string, feePaid uint64,
) error {
	if payer == "" {
		return errors.INVALID_ARGUMENT.New("missing payer")
	}

	msg, err := a.repoManager.Messages().GetOutbound(ctx, messageId)
	if err != nil {
		if isNotFound(err) {
			return errors.MESSAGE_NOT_FOUND.New("outbound message %s not found", messageId).
				WithMetadata(errors.MessageMetadata{MessageId: messageId.String()})
		}
		return errors.INTERNAL_ERROR.Wrap(fmt.Errorf("failed to get outbound message: %w", err))
	}
	if msg.Status == domain.DeliveryStatusDelivered {
		return errors.INVALID_ARGUMENT.New("message %s was already delivered", messageId)
	}

	fee, err := a.relay.QuoteFee(ctx, msg.DestinationChainId)
	if err != nil {
		return errors.RELAY_UNAVAILABLE.Wrap(fmt.Errorf("failed to quote delivery fee: %w", err)).
			WithMetadata(errors.ChainMetadata{ChainId: uint16(msg.DestinationChainId)})
	}
	if feePaid < fee {
		return insufficientFee(msg.DestinationChainId, fee, feePaid)
	}

	if err := a.relay.Send(ctx, msg.BridgeMessage, payer, feePaid); err != nil {
		return relayError(err, payer, feePaid, msg.DestinationChainId)
	}

	msg.Payer = payer
	msg.Fee = feePaid
	msg.Status = domain.DeliveryStatusSent
	msg.Alerted = false
	msg.UpdatedAt = time.Now().Unix()
	if err := a.repoManager.Messages().UpdateOutbound(ctx, *msg); err != nil {
		return errors.INTERNAL_ERROR.Wrap(fmt.Errorf("failed to update outbound message: %w", err))
	}

	log.WithField("box_id", msg.BoxId.String()).
		WithField("message_id", messageId.String()).
		Info("resent bridge message")
	return nil
}

func (a *adminService) ListOutboundMessages(
	ctx context.Context, statuses ...domain.DeliveryStatus,
) ([]domain.OutboundMessage, error) {
	msgs, err := a.repoManager.Messages().ListOutbound(ctx, statuses...)
	if err != nil {
		return nil, errors.INTERNAL_ERROR.Wrap(
			fmt.Errorf("failed to list outbound messages: %w", err),
		)
	}
	return msgs, nil
}
