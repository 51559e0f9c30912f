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

func (s *service) PeerOf(
	ctx context.Context, chainId domain.ChainId,
) (domain.PeerId, errors.Error) {
	peer, err := s.repoManager.Peers().Get(ctx, chainId)
	if err != nil {
		return domain.ZeroPeer, errors.INTERNAL_ERROR.Wrap(
			fmt.Errorf("failed to get peer for chain %s: %w", chainId, err),
		)
	}
	if peer == nil {
		return domain.ZeroPeer, nil
	}
	return peer.PeerId, nil
}

func (s *service) QuoteFee(
	ctx context.Context, destination domain.ChainId,
) (uint64, errors.Error) {
	if err := s.validateDestination(destination); err != nil {
		return 0, err
	}
	fee, err := s.relay.QuoteFee(ctx, destination)
	if err != nil {
		return 0, errors.RELAY_UNAVAILABLE.Wrap(
			fmt.Errorf("failed to quote delivery fee: %w", err),
		).WithMetadata(errors.ChainMetadata{ChainId: uint16(destination)})
	}
	return fee, nil
}

// Bridge locks the box and hands a snapshot of its contents to the relay. The
// lock and the outbound message are stored in one transaction. If the relay
// rejects the message the box is unlocked again, its sequence is never reused.
func (s *service) Bridge(
	ctx context.Context, boxId domain.BoxId, destination domain.ChainId,
	recipient, caller string, feePaid uint64,
) (*domain.BridgeMessage, errors.Error) {
	if recipient == "" {
		return nil, errors.INVALID_ARGUMENT.New("missing recipient")
	}
	if err := s.validateDestination(destination); err != nil {
		return nil, err
	}

	release, err := s.lockBox(ctx, boxId)
	if err != nil {
		return nil, err
	}
	defer release()

	box, err := s.getMutableBox(ctx, boxId, caller)
	if err != nil {
		return nil, err
	}

	peer, err := s.PeerOf(ctx, destination)
	if err != nil {
		return nil, err
	}
	if peer.IsZero() {
		return nil, errors.PEER_NOT_CONFIGURED.New(
			"no trusted peer configured for chain %s", destination,
		).WithMetadata(errors.ChainMetadata{ChainId: uint16(destination)})
	}

	fee, err := s.QuoteFee(ctx, destination)
	if err != nil {
		return nil, err
	}
	if feePaid < fee {
		return nil, insufficientFee(destination, fee, feePaid)
	}

	contents, err := s.getContents(ctx, boxId)
	if err != nil {
		return nil, err
	}

	sequence, lerr := box.Lock()
	if lerr != nil {
		return nil, errors.BOX_LOCKED.Wrap(lerr).
			WithMetadata(errors.BoxMetadata{BoxId: boxId.String()})
	}

	now := time.Now().Unix()
	msg := domain.BridgeMessage{
		Id:                 domain.NewMessageId(s.chainId, boxId, sequence),
		SourceChainId:      s.chainId,
		DestinationChainId: destination,
		BoxId:              boxId,
		Sequence:           sequence,
		Recipient:          recipient,
		SenderPeer:         s.localPeer,
		Snapshot:           contents.Snapshot(),
		CreatedAt:          now,
	}
	logger := log.WithField("box_id", boxId.String()).WithField("message_id", msg.Id.String())

	outbound := domain.OutboundMessage{
		BridgeMessage: msg,
		Payer:         caller,
		Fee:           feePaid,
		Status:        domain.DeliveryStatusSent,
		UpdatedAt:     now,
	}
	if err := s.repoManager.RunInTx(ctx, func(tx ports.RepoTx) error {
		if err := tx.Boxes().Update(ctx, *box); err != nil {
			return fmt.Errorf("failed to lock box: %w", err)
		}
		return tx.Messages().AddOutbound(ctx, outbound)
	}); err != nil {
		return nil, errors.INTERNAL_ERROR.Wrap(
			fmt.Errorf("failed to store outbound message: %w", err),
		)
	}

	if err := s.relay.Send(ctx, msg, caller, feePaid); err != nil {
		if rerr := s.revertBridge(ctx, *box, msg.Id); rerr != nil {
			logger.WithError(rerr).Error(
				"failed to revert bridge, the delivery monitor will retry",
			)
		}
		return nil, relayError(err, caller, feePaid, destination)
	}

	s.saveEvents(ctx, boxId, domain.NewBoxBridged(msg, feePaid))
	logger.Infof("bridged box to chain %s", destination)
	return &msg, nil
}

// Receive applies a bridge message delivered by the relay. Messages from
// anyone but the trusted peer of the source chain are rejected before their
// content is looked at, messages already applied are ignored. The box is
// created as a shadow if unknown; a known box must be locked, it is then
// overwritten with the snapshot and unlocked.
func (s *service) Receive(ctx context.Context, msg domain.BridgeMessage) errors.Error {
	expected, err := s.PeerOf(ctx, msg.SourceChainId)
	if err != nil {
		return err
	}
	if msg.DestinationChainId != s.chainId ||
		expected.IsZero() || expected != msg.SenderPeer {
		return errors.UNTRUSTED_SENDER.New(
			"message %s from chain %s to chain %s is not from a trusted peer",
			msg.Id, msg.SourceChainId, msg.DestinationChainId,
		).WithMetadata(errors.PeerMetadata{
			ChainId:      uint16(msg.SourceChainId),
			ExpectedPeer: expected.String(),
			GotPeer:      msg.SenderPeer.String(),
		})
	}

	if err := msg.Validate(); err != nil {
		return errors.INVALID_ARGUMENT.Wrap(fmt.Errorf("invalid bridge message: %w", err))
	}

	logger := log.WithField("box_id", msg.BoxId.String()).
		WithField("message_id", msg.Id.String())

	release, err := s.lockBox(ctx, msg.BoxId)
	if err != nil {
		return err
	}
	defer release()

	applied, aerr := s.repoManager.Messages().IsApplied(ctx, msg.Id)
	if aerr != nil {
		return errors.INTERNAL_ERROR.Wrap(fmt.Errorf("failed to check replay guard: %w", aerr))
	}
	if applied {
		logger.Debug("bridge message already applied, skipping")
		return nil
	}

	created := false
	box, err := s.getBox(ctx, msg.BoxId)
	if err != nil {
		if !errors.BOX_NOT_FOUND.Is(err) {
			return err
		}
		created = true
		box = domain.NewShadowBox(msg.BoxId, msg.Recipient, msg.SourceChainId)
	} else {
		// Only a box that left this chain can come back to it.
		if !box.Locked {
			return errors.BOX_ALREADY_EXISTS.New(
				"box %s is live on chain %s and can't be overwritten by message %s",
				msg.BoxId, s.chainId, msg.Id,
			).WithMetadata(errors.BoxMetadata{BoxId: msg.BoxId.String()})
		}
		box.TransferTo(msg.Recipient)
		box.Unlock()
	}

	contents, err := s.getContents(ctx, msg.BoxId)
	if err != nil {
		return err
	}
	contents.Replace(msg.Snapshot)

	appliedMsg := domain.AppliedMessage{
		Id:            msg.Id,
		BoxId:         msg.BoxId,
		SourceChainId: msg.SourceChainId,
		AppliedAt:     time.Now().Unix(),
	}
	if err := s.repoManager.RunInTx(ctx, func(tx ports.RepoTx) error {
		if created {
			if err := tx.Boxes().Add(ctx, *box); err != nil {
				return fmt.Errorf("failed to add shadow box: %w", err)
			}
		} else {
			if err := tx.Boxes().Update(ctx, *box); err != nil {
				return fmt.Errorf("failed to update box: %w", err)
			}
		}
		if err := tx.Vault().Upsert(ctx, *contents); err != nil {
			return fmt.Errorf("failed to update vault: %w", err)
		}
		if _, err := tx.Messages().MarkApplied(ctx, appliedMsg); err != nil {
			return fmt.Errorf("failed to mark message applied: %w", err)
		}
		return nil
	}); err != nil {
		return errors.INTERNAL_ERROR.Wrap(err)
	}

	s.saveEvents(ctx, msg.BoxId, domain.NewBoxReceived(msg, created))
	logger.WithField("created", created).
		Infof("received box from chain %s", msg.SourceChainId)
	return nil
}

func (s *service) validateDestination(destination domain.ChainId) errors.Error {
	if destination == 0 {
		return errors.INVALID_ARGUMENT.New("missing destination chain")
	}
	if destination == s.chainId {
		return errors.INVALID_ARGUMENT.New("destination chain must differ from local chain %s", s.chainId)
	}
	return nil
}

// revertBridge unlocks the box, if still locked by the given message, and
// drops the outbound message in a single transaction.
func (s *service) revertBridge(ctx context.Context, box domain.Box, id domain.MessageId) error {
	return s.repoManager.RunInTx(ctx, func(tx ports.RepoTx) error {
		if box.Locked && domain.NewMessageId(s.chainId, box.Id, box.Sequence) == id {
			unlocked := box
			unlocked.Unlock()
			if err := tx.Boxes().Update(ctx, unlocked); err != nil {
				return fmt.Errorf("failed to unlock box: %w", err)
			}
		}
		return tx.Messages().DeleteOutbound(ctx, id)
	})
}
