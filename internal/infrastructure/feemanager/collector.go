package feemanager

import (
	"context"
	"fmt"

	"github.com/schrodinger-box/boxd/internal/core/ports"
	log "github.com/sirupsen/logrus"
)

type feeCollector struct {
	native  ports.NativeCurrency
	account string
}

// NewFeeCollector returns a collector keeping the protocol fees in the given
// native currency account.
func NewFeeCollector(native ports.NativeCurrency, account string) (ports.FeeCollector, error) {
	if native == nil {
		return nil, fmt.Errorf("missing native currency")
	}
	if account == "" {
		return nil, fmt.Errorf("missing fee collector account")
	}
	return &feeCollector{native, account}, nil
}

func (f *feeCollector) Deposit(ctx context.Context, payer string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if err := f.native.Transfer(ctx, payer, f.account, amount); err != nil {
		return fmt.Errorf("failed to collect fee from %s: %w", payer, err)
	}
	log.Debugf("collected fee of %d from %s", amount, payer)
	return nil
}

func (f *feeCollector) Withdraw(ctx context.Context, to string, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if err := f.native.Transfer(ctx, f.account, to, amount); err != nil {
		return fmt.Errorf("failed to withdraw fees to %s: %w", to, err)
	}
	log.Infof("withdrawn %d collected fees to %s", amount, to)
	return nil
}

func (f *feeCollector) Balance(ctx context.Context) (uint64, error) {
	return f.native.BalanceOf(ctx, f.account)
}
