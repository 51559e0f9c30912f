package application

import (
	"context"
	"fmt"

	"github.com/schrodinger-box/boxd/internal/core/domain"
	"github.com/schrodinger-box/boxd/internal/core/ports"
	"github.com/schrodinger-box/boxd/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func (s *service) MintingFee() uint64 {
	return s.mintingFee
}

func (s *service) Mint(
	ctx context.Context, caller string, feePaid uint64,
) (domain.BoxId, errors.Error) {
	if caller == "" {
		return 0, errors.INVALID_ARGUMENT.New("missing caller")
	}
	if feePaid < s.mintingFee {
		return 0, insufficientFee(s.chainId, s.mintingFee, feePaid)
	}

	if feePaid > 0 {
		if err := s.feeCollector.Deposit(ctx, caller, feePaid); err != nil {
			return 0, feeError(err, caller, feePaid)
		}
	}

	counter, err := s.repoManager.Boxes().NextBoxCounter(ctx)
	if err != nil {
		s.refundFee(ctx, caller, feePaid)
		return 0, errors.INTERNAL_ERROR.Wrap(fmt.Errorf("failed to assign box id: %w", err))
	}

	box := domain.NewBox(domain.NewBoxId(s.chainId, counter), caller, s.chainId)
	if err := s.repoManager.Boxes().Add(ctx, *box); err != nil {
		s.refundFee(ctx, caller, feePaid)
		return 0, errors.INTERNAL_ERROR.Wrap(fmt.Errorf("failed to add box: %w", err))
	}

	s.saveEvents(ctx, box.Id, domain.NewBoxMinted(box.Id, caller, feePaid))
	log.WithField("box_id", box.Id.String()).Infof("minted box for %s", caller)
	return box.Id, nil
}

func (s *service) Transfer(
	ctx context.Context, boxId domain.BoxId, from, to string,
) errors.Error {
	if to == "" {
		return errors.INVALID_ARGUMENT.New("missing recipient")
	}

	release, err := s.lockBox(ctx, boxId)
	if err != nil {
		return err
	}
	defer release()

	box, err := s.getMutableBox(ctx, boxId, from)
	if err != nil {
		return err
	}

	box.TransferTo(to)
	if err := s.repoManager.Boxes().Update(ctx, *box); err != nil {
		return errors.INTERNAL_ERROR.Wrap(fmt.Errorf("failed to update box: %w", err))
	}

	s.saveEvents(ctx, boxId, domain.NewBoxTransferred(boxId, from, to))
	log.WithField("box_id", boxId.String()).Debugf("transferred box from %s to %s", from, to)
	return nil
}

func (s *service) OwnerOf(ctx context.Context, boxId domain.BoxId) (string, errors.Error) {
	box, err := s.getBox(ctx, boxId)
	if err != nil {
		return "", err
	}
	return box.Owner, nil
}

func (s *service) BoxesOf(ctx context.Context, owner string) ([]domain.BoxId, errors.Error) {
	if owner == "" {
		return nil, errors.INVALID_ARGUMENT.New("missing owner")
	}
	ids, err := s.repoManager.Boxes().ListByOwner(ctx, owner)
	if err != nil {
		return nil, errors.INTERNAL_ERROR.Wrap(fmt.Errorf("failed to list boxes: %w", err))
	}
	return ids, nil
}

func (s *service) refundFee(ctx context.Context, payer string, amount uint64) {
	if amount <= 0 {
		return
	}
	s.compensate(ctx, ports.CompensationAlert{
		Action: "refund minting fee", Account: payer, Asset: "native", Amount: amount,
	}, func(ctx context.Context) error {
		return s.feeCollector.Withdraw(ctx, payer, amount)
	})
}
