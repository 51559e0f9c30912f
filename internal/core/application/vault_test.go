package application_test

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/schrodinger-box/boxd/internal/core/domain"
	"github.com/schrodinger-box/boxd/internal/core/ports"
	"github.com/schrodinger-box/boxd/pkg/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFungibles(t *testing.T) {
	ctx := context.Background()

	t.Run("deposit and withdraw", func(t *testing.T) {
		env := newTestEnv(t, domain.ChainHolesky)
		boxId := env.mint(t, "alice")
		env.ledger.mint("T", "alice", 10)
		env.ledger.mint("U", "alice", 7)

		require.NoError(t, env.svc.DepositFungible(ctx, boxId, "T", 10, "alice"))
		require.NoError(t, env.svc.DepositFungible(ctx, boxId, "U", 7, "alice"))

		balance, err := env.svc.BalanceOf(ctx, boxId, "T")
		require.NoError(t, err)
		require.Equal(t, uint64(10), balance)
		require.Zero(t, env.ledger.balance("T", "alice"))
		require.Equal(t, uint64(10), env.ledger.balance("T", custody))

		details, err := env.svc.GetBoxDetails(ctx, boxId)
		require.NoError(t, err)
		require.Equal(t, []string{"T", "U"}, details.Assets())
		require.Equal(t, []uint64{10, 7}, details.Balances())

		amount, err := env.svc.WithdrawFungible(ctx, boxId, "T", "alice", "bob")
		require.NoError(t, err)
		require.Equal(t, uint64(10), amount)
		require.Equal(t, uint64(10), env.ledger.balance("T", "bob"))

		balance, err = env.svc.BalanceOf(ctx, boxId, "T")
		require.NoError(t, err)
		require.Zero(t, balance)

		details, err = env.svc.GetBoxDetails(ctx, boxId)
		require.NoError(t, err)
		require.Equal(t, []string{"U"}, details.Assets())

		require.Equal(t, []domain.EventType{
			domain.EventTypeBoxMinted,
			domain.EventTypeFungibleDeposited,
			domain.EventTypeFungibleDeposited,
			domain.EventTypeFungibleWithdrawn,
		}, env.repo.events.types())
	})

	t.Run("conservation", func(t *testing.T) {
		env := newTestEnv(t, domain.ChainHolesky)
		boxId := env.mint(t, "alice")
		env.ledger.mint("T", "alice", 1_000_000)

		rnd := rand.New(rand.NewSource(42))
		held := uint64(0)
		withdrawn := uint64(0)
		for i := 0; i < 50; i++ {
			if rnd.Intn(4) == 0 {
				amount, err := env.svc.WithdrawFungible(ctx, boxId, "T", "alice", "")
				if held == 0 {
					require.True(t, errors.ASSET_NOT_FOUND.Is(err))
					continue
				}
				require.NoError(t, err)
				require.Equal(t, held, amount)
				withdrawn += amount
				held = 0
				continue
			}

			amount := uint64(rnd.Intn(1000) + 1)
			require.NoError(t, env.svc.DepositFungible(ctx, boxId, "T", amount, "alice"))
			held += amount

			balance, err := env.svc.BalanceOf(ctx, boxId, "T")
			require.NoError(t, err)
			require.Equal(t, held, balance)
		}

		require.Equal(t, held, env.ledger.balance("T", custody))
		require.Equal(t, 1_000_000-held, env.ledger.balance("T", "alice"))
		require.Equal(t, uint64(1_000_000), env.ledger.balance("T", "alice")+held)
		require.LessOrEqual(t, withdrawn, uint64(1_000_000))
	})

	t.Run("invalid", func(t *testing.T) {
		env := newTestEnv(t, domain.ChainHolesky)
		boxId := env.mint(t, "alice")
		env.ledger.mint("T", "alice", 5)
		env.ledger.mint("T", "mallory", 5)

		t.Run("zero amount", func(t *testing.T) {
			err := env.svc.DepositFungible(ctx, boxId, "T", 0, "alice")
			require.True(t, errors.INVALID_AMOUNT.Is(err))
		})

		t.Run("not owner", func(t *testing.T) {
			err := env.svc.DepositFungible(ctx, boxId, "T", 5, "mallory")
			require.True(t, errors.NOT_OWNER.Is(err))
			require.Equal(t, errors.ClassAuthorization, err.Class())
			require.Equal(t, uint64(5), env.ledger.balance("T", "mallory"))
		})

		t.Run("insufficient balance", func(t *testing.T) {
			err := env.svc.DepositFungible(ctx, boxId, "T", 6, "alice")
			require.True(t, errors.INSUFFICIENT_FUNDS.Is(err))

			balance, err := env.svc.BalanceOf(ctx, boxId, "T")
			require.NoError(t, err)
			require.Zero(t, balance)
		})

		t.Run("unknown asset", func(t *testing.T) {
			err := env.svc.DepositFungible(ctx, boxId, "X", 1, "alice")
			require.True(t, errors.INVALID_ARGUMENT.Is(err))
		})

		t.Run("withdraw empty balance", func(t *testing.T) {
			_, err := env.svc.WithdrawFungible(ctx, boxId, "T", "alice", "")
			require.True(t, errors.ASSET_NOT_FOUND.Is(err))
		})

		t.Run("withdraw by non owner", func(t *testing.T) {
			require.NoError(t, env.svc.DepositFungible(ctx, boxId, "T", 5, "alice"))

			_, err := env.svc.WithdrawFungible(ctx, boxId, "T", "mallory", "mallory")
			require.True(t, errors.NOT_OWNER.Is(err))

			balance, err := env.svc.BalanceOf(ctx, boxId, "T")
			require.NoError(t, err)
			require.Equal(t, uint64(5), balance)
		})

		t.Run("unknown box", func(t *testing.T) {
			_, err := env.svc.BalanceOf(ctx, domain.NewBoxId(domain.ChainHolesky, 42), "T")
			require.True(t, errors.BOX_NOT_FOUND.Is(err))
		})
	})

	t.Run("failed payout restores the balance", func(t *testing.T) {
		env := newTestEnv(t, domain.ChainHolesky)
		boxId := env.mint(t, "alice")
		env.ledger.mint("T", "alice", 10)
		require.NoError(t, env.svc.DepositFungible(ctx, boxId, "T", 10, "alice"))

		env.ledger.failOutbox = true
		_, err := env.svc.WithdrawFungible(ctx, boxId, "T", "alice", "")
		require.True(t, errors.INTERNAL_ERROR.Is(err))

		balance, err := env.svc.BalanceOf(ctx, boxId, "T")
		require.NoError(t, err)
		require.Equal(t, uint64(10), balance)
		require.Equal(t, uint64(10), env.ledger.balance("T", custody))
	})

	t.Run("failed restore raises an alert", func(t *testing.T) {
		env := newTestEnv(t, domain.ChainHolesky)
		boxId := env.mint(t, "alice")
		env.ledger.mint("T", "alice", 10)
		require.NoError(t, env.svc.DepositFungible(ctx, boxId, "T", 10, "alice"))
		env.alerts.On("Publish", mock.Anything, ports.CompensationFailed, mock.Anything).
			Return(nil)

		env.ledger.failOutbox = true
		env.repo.vault.failAfter(1, fmt.Errorf("disk full"))
		_, err := env.svc.WithdrawFungible(ctx, boxId, "T", "alice", "")
		require.True(t, errors.INTERNAL_ERROR.Is(err))

		env.alerts.AssertNumberOfCalls(t, "Publish", 1)
		alert := env.alerts.Calls[0].Arguments.Get(2).(ports.CompensationAlert)
		require.Equal(t, boxId.String(), alert.BoxId)
		require.Equal(t, "restore vault", alert.Action)
		require.Equal(t, uint64(10), alert.Amount)
		require.Contains(t, alert.Error, "disk full")
	})

	t.Run("failed vault write returns the deposit", func(t *testing.T) {
		env := newTestEnv(t, domain.ChainHolesky)
		boxId := env.mint(t, "alice")
		env.ledger.mint("T", "alice", 10)
		env.repo.vault.failAfter(0, fmt.Errorf("disk full"))

		err := env.svc.DepositFungible(ctx, boxId, "T", 10, "alice")
		require.True(t, errors.INTERNAL_ERROR.Is(err))
		require.Equal(t, uint64(10), env.ledger.balance("T", "alice"))
		require.Zero(t, env.ledger.balance("T", custody))
		env.alerts.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestNfts(t *testing.T) {
	ctx := context.Background()

	t.Run("deposit and withdraw", func(t *testing.T) {
		env := newTestEnv(t, domain.ChainHolesky)
		boxId := env.mint(t, "alice")
		env.ledger.mintNft("N", 5, "alice")
		env.ledger.mintNft("N", 6, "alice")

		require.NoError(t, env.svc.DepositNft(ctx, boxId, "N", 5, "alice"))
		require.NoError(t, env.svc.DepositNft(ctx, boxId, "N", 6, "alice"))
		require.Equal(t, custody, env.ledger.ownerOf("N", 5))

		held, err := env.svc.ContainsNft(ctx, boxId, "N", 5)
		require.NoError(t, err)
		require.True(t, held)

		details, err := env.svc.GetBoxDetails(ctx, boxId)
		require.NoError(t, err)
		require.Equal(t, []string{"N", "N"}, details.NftContracts())
		require.Equal(t, []uint64{5, 6}, details.NftTokenIds())

		require.NoError(t, env.svc.WithdrawNft(ctx, boxId, "N", 5, "alice", "bob"))
		require.Equal(t, "bob", env.ledger.ownerOf("N", 5))

		held, err = env.svc.ContainsNft(ctx, boxId, "N", 5)
		require.NoError(t, err)
		require.False(t, held)
	})

	t.Run("invalid", func(t *testing.T) {
		env := newTestEnv(t, domain.ChainHolesky)
		boxId := env.mint(t, "alice")
		env.ledger.mintNft("N", 5, "alice")
		env.ledger.mintNft("N", 7, "bob")

		t.Run("not token owner", func(t *testing.T) {
			err := env.svc.DepositNft(ctx, boxId, "N", 7, "alice")
			require.True(t, errors.INSUFFICIENT_FUNDS.Is(err))

			held, err := env.svc.ContainsNft(ctx, boxId, "N", 7)
			require.NoError(t, err)
			require.False(t, held)
		})

		t.Run("already held", func(t *testing.T) {
			require.NoError(t, env.svc.DepositNft(ctx, boxId, "N", 5, "alice"))

			err := env.svc.DepositNft(ctx, boxId, "N", 5, "alice")
			require.True(t, errors.NFT_ALREADY_HELD.Is(err))
		})

		t.Run("withdraw missing reference", func(t *testing.T) {
			err := env.svc.WithdrawNft(ctx, boxId, "N", 8, "alice", "")
			require.True(t, errors.ASSET_NOT_FOUND.Is(err))
		})

		t.Run("withdraw by non owner", func(t *testing.T) {
			err := env.svc.WithdrawNft(ctx, boxId, "N", 5, "mallory", "mallory")
			require.True(t, errors.NOT_OWNER.Is(err))
			require.Equal(t, custody, env.ledger.ownerOf("N", 5))
		})
	})
}
