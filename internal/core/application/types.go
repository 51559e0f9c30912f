package application

import (
	"context"

	"github.com/schrodinger-box/boxd/internal/core/domain"
	"github.com/schrodinger-box/boxd/pkg/errors"
)

type Service interface {
	Start() error
	Stop()
	ChainId() domain.ChainId

	// Box registry
	Mint(ctx context.Context, caller string, feePaid uint64) (domain.BoxId, errors.Error)
	MintingFee() uint64
	Transfer(ctx context.Context, boxId domain.BoxId, from, to string) errors.Error
	OwnerOf(ctx context.Context, boxId domain.BoxId) (string, errors.Error)
	BoxesOf(ctx context.Context, owner string) ([]domain.BoxId, errors.Error)

	// Content vault
	DepositFungible(
		ctx context.Context, boxId domain.BoxId, asset string, amount uint64, payer string,
	) errors.Error
	WithdrawFungible(
		ctx context.Context, boxId domain.BoxId, asset, caller, to string,
	) (uint64, errors.Error)
	DepositNft(
		ctx context.Context, boxId domain.BoxId, contract string, tokenId uint64, payer string,
	) errors.Error
	WithdrawNft(
		ctx context.Context, boxId domain.BoxId, contract string, tokenId uint64, caller, to string,
	) errors.Error
	BalanceOf(ctx context.Context, boxId domain.BoxId, asset string) (uint64, errors.Error)
	ContainsNft(
		ctx context.Context, boxId domain.BoxId, contract string, tokenId uint64,
	) (bool, errors.Error)
	GetBoxDetails(ctx context.Context, boxId domain.BoxId) (*BoxDetails, errors.Error)

	// Peers and bridging
	PeerOf(ctx context.Context, chainId domain.ChainId) (domain.PeerId, errors.Error)
	QuoteFee(ctx context.Context, destination domain.ChainId) (uint64, errors.Error)
	Bridge(
		ctx context.Context, boxId domain.BoxId, destination domain.ChainId,
		recipient, caller string, feePaid uint64,
	) (*domain.BridgeMessage, errors.Error)
	// Receive applies a message delivered by the relay. It is never exposed to
	// clients.
	Receive(ctx context.Context, msg domain.BridgeMessage) errors.Error

	GetEventsChannel(ctx context.Context) <-chan []domain.Event
}

type BoxDetails struct {
	Id            domain.BoxId
	Owner         string
	Locked        bool
	OriginChainId domain.ChainId
	IsOriginal    bool
	Sequence      uint64
	Fungibles     []domain.FungibleBalance
	Nfts          []domain.NftRef
}

// Assets returns the identifiers of the fungible assets held, in deposit order.
func (d BoxDetails) Assets() []string {
	assets := make([]string, 0, len(d.Fungibles))
	for _, f := range d.Fungibles {
		assets = append(assets, f.Asset)
	}
	return assets
}

func (d BoxDetails) Balances() []uint64 {
	balances := make([]uint64, 0, len(d.Fungibles))
	for _, f := range d.Fungibles {
		balances = append(balances, f.Amount)
	}
	return balances
}

func (d BoxDetails) NftContracts() []string {
	contracts := make([]string, 0, len(d.Nfts))
	for _, n := range d.Nfts {
		contracts = append(contracts, n.Contract)
	}
	return contracts
}

func (d BoxDetails) NftTokenIds() []uint64 {
	ids := make([]uint64, 0, len(d.Nfts))
	for _, n := range d.Nfts {
		ids = append(ids, n.TokenId)
	}
	return ids
}
