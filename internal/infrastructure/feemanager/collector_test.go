package feemanager_test

import (
	"context"
	"testing"

	"github.com/schrodinger-box/boxd/internal/core/ports"
	"github.com/schrodinger-box/boxd/internal/infrastructure/feemanager"
	"github.com/schrodinger-box/boxd/internal/infrastructure/ledger"
	"github.com/stretchr/testify/require"
)

func TestFeeCollector(t *testing.T) {
	ctx := context.Background()
	l := ledger.New()
	require.NoError(t, l.MintNative("alice", 100))

	_, err := feemanager.NewFeeCollector(l.Native(), "")
	require.Error(t, err)

	collector, err := feemanager.NewFeeCollector(l.Native(), "fees")
	require.NoError(t, err)

	require.NoError(t, collector.Deposit(ctx, "alice", 30))
	require.NoError(t, collector.Deposit(ctx, "alice", 0))

	balance, err := collector.Balance(ctx)
	require.NoError(t, err)
	require.Equal(t, uint64(30), balance)

	err = collector.Deposit(ctx, "alice", 71)
	require.ErrorIs(t, err, ports.ErrInsufficientBalance)

	require.NoError(t, collector.Withdraw(ctx, "admin", 20))
	adminBalance, err := l.Native().BalanceOf(ctx, "admin")
	require.NoError(t, err)
	require.Equal(t, uint64(20), adminBalance)

	err = collector.Withdraw(ctx, "admin", 11)
	require.ErrorIs(t, err, ports.ErrInsufficientBalance)
}
