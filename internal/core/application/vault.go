package application

import (
	"context"
	"fmt"
	"strconv"

	"github.com/schrodinger-box/boxd/internal/core/domain"
	"github.com/schrodinger-box/boxd/internal/core/ports"
	"github.com/schrodinger-box/boxd/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func (s *service) DepositFungible(
	ctx context.Context, boxId domain.BoxId, asset string, amount uint64, payer string,
) errors.Error {
	if asset == "" {
		return errors.INVALID_ARGUMENT.New("missing asset")
	}
	if amount == 0 {
		return errors.INVALID_AMOUNT.New("amount must be > 0").
			WithMetadata(errors.AmountMetadata{BoxId: boxId.String(), Asset: asset, Amount: "0"})
	}

	release, err := s.lockBox(ctx, boxId)
	if err != nil {
		return err
	}
	defer release()

	if _, err := s.getMutableBox(ctx, boxId, payer); err != nil {
		return err
	}
	contents, err := s.getContents(ctx, boxId)
	if err != nil {
		return err
	}

	updated := cloneContents(contents)
	if err := updated.Credit(asset, amount); err != nil {
		return errors.INVALID_AMOUNT.Wrap(err).WithMetadata(errors.AmountMetadata{
			BoxId: boxId.String(), Asset: asset, Amount: strconv.FormatUint(amount, 10),
		})
	}

	token, terr := s.assets.Fungible(ctx, asset)
	if terr != nil {
		return assetError(terr, boxId, asset, amount)
	}
	if err := token.TransferFrom(ctx, s.custodyAccount, payer, s.custodyAccount, amount); err != nil {
		return assetError(err, boxId, asset, amount)
	}

	if err := s.repoManager.Vault().Upsert(ctx, *updated); err != nil {
		s.compensate(ctx, ports.CompensationAlert{
			BoxId: boxId.String(), Action: "return deposit", Account: payer,
			Asset: asset, Amount: amount,
		}, func(ctx context.Context) error {
			return token.TransferFrom(ctx, s.custodyAccount, s.custodyAccount, payer, amount)
		})
		return errors.INTERNAL_ERROR.Wrap(fmt.Errorf("failed to update vault: %w", err))
	}

	s.saveEvents(ctx, boxId, domain.NewFungibleDeposited(boxId, asset, amount, payer))
	log.WithField("box_id", boxId.String()).Debugf("deposited %d %s", amount, asset)
	return nil
}

// WithdrawFungible moves the whole balance of the asset to the given account,
// or to the caller if none is given.
func (s *service) WithdrawFungible(
	ctx context.Context, boxId domain.BoxId, asset, caller, to string,
) (uint64, errors.Error) {
	if asset == "" {
		return 0, errors.INVALID_ARGUMENT.New("missing asset")
	}
	if to == "" {
		to = caller
	}

	release, err := s.lockBox(ctx, boxId)
	if err != nil {
		return 0, err
	}
	defer release()

	if _, err := s.getMutableBox(ctx, boxId, caller); err != nil {
		return 0, err
	}
	contents, err := s.getContents(ctx, boxId)
	if err != nil {
		return 0, err
	}

	previous := contents.Snapshot()
	amount := contents.TakeAll(asset)
	if amount == 0 {
		return 0, errors.ASSET_NOT_FOUND.New("box %s holds no %s", boxId, asset).
			WithMetadata(errors.AssetMetadata{BoxId: boxId.String(), Asset: asset})
	}

	token, terr := s.assets.Fungible(ctx, asset)
	if terr != nil {
		return 0, assetError(terr, boxId, asset, amount)
	}

	if err := s.repoManager.Vault().Upsert(ctx, *contents); err != nil {
		return 0, errors.INTERNAL_ERROR.Wrap(fmt.Errorf("failed to update vault: %w", err))
	}

	if err := token.TransferFrom(ctx, s.custodyAccount, s.custodyAccount, to, amount); err != nil {
		contents.Replace(previous)
		s.compensate(ctx, ports.CompensationAlert{
			BoxId: boxId.String(), Action: "restore vault", Account: caller,
			Asset: asset, Amount: amount,
		}, func(ctx context.Context) error {
			return s.repoManager.Vault().Upsert(ctx, *contents)
		})
		return 0, assetError(err, boxId, asset, amount)
	}

	s.saveEvents(ctx, boxId, domain.NewFungibleWithdrawn(boxId, asset, amount, to))
	log.WithField("box_id", boxId.String()).Debugf("withdrew %d %s to %s", amount, asset, to)
	return amount, nil
}

func (s *service) DepositNft(
	ctx context.Context, boxId domain.BoxId, contract string, tokenId uint64, payer string,
) errors.Error {
	if contract == "" {
		return errors.INVALID_ARGUMENT.New("missing contract")
	}
	nft := domain.NftRef{Contract: contract, TokenId: tokenId}

	release, err := s.lockBox(ctx, boxId)
	if err != nil {
		return err
	}
	defer release()

	if _, err := s.getMutableBox(ctx, boxId, payer); err != nil {
		return err
	}
	contents, err := s.getContents(ctx, boxId)
	if err != nil {
		return err
	}

	if err := contents.AddNft(contract, tokenId); err != nil {
		return errors.NFT_ALREADY_HELD.Wrap(err).WithMetadata(nftMetadata(boxId, nft))
	}

	collection, cerr := s.assets.NonFungible(ctx, contract)
	if cerr != nil {
		return assetError(cerr, boxId, nft.String(), 1)
	}
	if err := collection.TransferFrom(
		ctx, s.custodyAccount, payer, s.custodyAccount, tokenId,
	); err != nil {
		return assetError(err, boxId, nft.String(), 1)
	}

	if err := s.repoManager.Vault().Upsert(ctx, *contents); err != nil {
		s.compensate(ctx, ports.CompensationAlert{
			BoxId: boxId.String(), Action: "return deposit", Account: payer,
			Asset: nft.String(), Amount: 1,
		}, func(ctx context.Context) error {
			return collection.TransferFrom(
				ctx, s.custodyAccount, s.custodyAccount, payer, tokenId,
			)
		})
		return errors.INTERNAL_ERROR.Wrap(fmt.Errorf("failed to update vault: %w", err))
	}

	s.saveEvents(ctx, boxId, domain.NewNftDeposited(boxId, nft, payer))
	log.WithField("box_id", boxId.String()).Debugf("deposited nft %s", nft)
	return nil
}

func (s *service) WithdrawNft(
	ctx context.Context, boxId domain.BoxId, contract string, tokenId uint64, caller, to string,
) errors.Error {
	if contract == "" {
		return errors.INVALID_ARGUMENT.New("missing contract")
	}
	if to == "" {
		to = caller
	}
	nft := domain.NftRef{Contract: contract, TokenId: tokenId}

	release, err := s.lockBox(ctx, boxId)
	if err != nil {
		return err
	}
	defer release()

	if _, err := s.getMutableBox(ctx, boxId, caller); err != nil {
		return err
	}
	contents, err := s.getContents(ctx, boxId)
	if err != nil {
		return err
	}

	previous := contents.Snapshot()
	if !contents.RemoveNft(contract, tokenId) {
		return errors.ASSET_NOT_FOUND.New("box %s does not hold nft %s", boxId, nft).
			WithMetadata(nftMetadata(boxId, nft))
	}

	collection, cerr := s.assets.NonFungible(ctx, contract)
	if cerr != nil {
		return assetError(cerr, boxId, nft.String(), 1)
	}

	if err := s.repoManager.Vault().Upsert(ctx, *contents); err != nil {
		return errors.INTERNAL_ERROR.Wrap(fmt.Errorf("failed to update vault: %w", err))
	}

	if err := collection.TransferFrom(
		ctx, s.custodyAccount, s.custodyAccount, to, tokenId,
	); err != nil {
		contents.Replace(previous)
		s.compensate(ctx, ports.CompensationAlert{
			BoxId: boxId.String(), Action: "restore vault", Account: caller,
			Asset: nft.String(), Amount: 1,
		}, func(ctx context.Context) error {
			return s.repoManager.Vault().Upsert(ctx, *contents)
		})
		return assetError(err, boxId, nft.String(), 1)
	}

	s.saveEvents(ctx, boxId, domain.NewNftWithdrawn(boxId, nft, to))
	log.WithField("box_id", boxId.String()).Debugf("withdrew nft %s to %s", nft, to)
	return nil
}

func (s *service) BalanceOf(
	ctx context.Context, boxId domain.BoxId, asset string,
) (uint64, errors.Error) {
	if _, err := s.getBox(ctx, boxId); err != nil {
		return 0, err
	}
	contents, err := s.getContents(ctx, boxId)
	if err != nil {
		return 0, err
	}
	return contents.BalanceOf(asset), nil
}

func (s *service) ContainsNft(
	ctx context.Context, boxId domain.BoxId, contract string, tokenId uint64,
) (bool, errors.Error) {
	if _, err := s.getBox(ctx, boxId); err != nil {
		return false, err
	}
	contents, err := s.getContents(ctx, boxId)
	if err != nil {
		return false, err
	}
	return contents.HasNft(contract, tokenId), nil
}

func (s *service) GetBoxDetails(
	ctx context.Context, boxId domain.BoxId,
) (*BoxDetails, errors.Error) {
	box, err := s.getBox(ctx, boxId)
	if err != nil {
		return nil, err
	}
	contents, err := s.getContents(ctx, boxId)
	if err != nil {
		return nil, err
	}
	snapshot := contents.Snapshot()
	return &BoxDetails{
		Id:            box.Id,
		Owner:         box.Owner,
		Locked:        box.Locked,
		OriginChainId: box.OriginChainId,
		IsOriginal:    box.IsOriginal,
		Sequence:      box.Sequence,
		Fungibles:     snapshot.Fungibles,
		Nfts:          snapshot.Nfts,
	}, nil
}

func nftMetadata(boxId domain.BoxId, nft domain.NftRef) errors.AssetMetadata {
	return errors.AssetMetadata{
		BoxId:   boxId.String(),
		Asset:   nft.Contract,
		TokenId: strconv.FormatUint(nft.TokenId, 10),
	}
}
