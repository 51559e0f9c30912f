package application

import (
	stderrors "errors"
	"fmt"
	"strconv"

	"github.com/schrodinger-box/boxd/internal/core/domain"
	"github.com/schrodinger-box/boxd/internal/core/ports"
	"github.com/schrodinger-box/boxd/pkg/errors"
)

func boxMutexKey(boxId domain.BoxId) string {
	return fmt.Sprintf("box:%s", boxId)
}

func isNotFound(err error) bool {
	return stderrors.Is(err, domain.ErrNotFound)
}

// assetError maps a failure of an asset adapter to the matching error code.
func assetError(err error, boxId domain.BoxId, asset string, amount uint64) errors.Error {
	switch {
	case stderrors.Is(err, ports.ErrInsufficientBalance),
		stderrors.Is(err, ports.ErrInsufficientAllowance),
		stderrors.Is(err, ports.ErrNotTokenOwner):
		return errors.INSUFFICIENT_FUNDS.Wrap(err).WithMetadata(errors.AmountMetadata{
			BoxId:  boxId.String(),
			Asset:  asset,
			Amount: strconv.FormatUint(amount, 10),
		})
	case stderrors.Is(err, ports.ErrUnknownAsset):
		return errors.INVALID_ARGUMENT.Wrap(err)
	default:
		return errors.INTERNAL_ERROR.Wrap(err)
	}
}

// feeError maps a failure to pull a fee from the payer.
func feeError(err error, payer string, fee uint64) errors.Error {
	if stderrors.Is(err, ports.ErrInsufficientBalance) {
		return errors.INSUFFICIENT_FUNDS.Wrap(err).WithMetadata(errors.AmountMetadata{
			Asset:  "native",
			Amount: strconv.FormatUint(fee, 10),
		})
	}
	return errors.INTERNAL_ERROR.Wrap(fmt.Errorf("failed to charge fee to %s: %w", payer, err))
}

func insufficientFee(chainId domain.ChainId, expected, actual uint64) errors.Error {
	return errors.INSUFFICIENT_FEE.New("fee %d is below required %d", actual, expected).
		WithMetadata(errors.FeeMetadata{
			ChainId:     uint16(chainId),
			ExpectedFee: expected,
			ActualFee:   actual,
		})
}

func cloneContents(c *domain.Contents) *domain.Contents {
	clone := domain.NewContents(c.BoxId)
	clone.Replace(c.Snapshot())
	clone.UpdatedAt = c.UpdatedAt
	return clone
}

// relayError maps a failure to hand a message to the relay.
func relayError(err error, payer string, fee uint64, destination domain.ChainId) errors.Error {
	if stderrors.Is(err, ports.ErrInsufficientBalance) {
		return feeError(err, payer, fee)
	}
	return errors.RELAY_UNAVAILABLE.Wrap(
		fmt.Errorf("failed to send bridge message: %w", err),
	).WithMetadata(errors.ChainMetadata{ChainId: uint16(destination)})
}
