package ports

import (
	"context"
	"fmt"
)

// FungibleAsset is the capability of a token contract to move balances.
// A transfer where spender != from must be covered by an allowance.
type FungibleAsset interface {
	Address() string
	TransferFrom(ctx context.Context, spender, from, to string, amount uint64) error
	BalanceOf(ctx context.Context, account string) (uint64, error)
}

// NonFungibleAsset is the capability of a collection contract to move tokens.
// A transfer where spender is neither the token owner nor approved must fail.
type NonFungibleAsset interface {
	Address() string
	TransferFrom(ctx context.Context, spender, from, to string, tokenId uint64) error
	OwnerOf(ctx context.Context, tokenId uint64) (string, error)
}

// AssetResolver looks up the adapter of a given contract address.
type AssetResolver interface {
	Fungible(ctx context.Context, asset string) (FungibleAsset, error)
	NonFungible(ctx context.Context, contract string) (NonFungibleAsset, error)
}

// NativeCurrency moves the native coin used to pay fees.
type NativeCurrency interface {
	Transfer(ctx context.Context, from, to string, amount uint64) error
	BalanceOf(ctx context.Context, account string) (uint64, error)
}

var (
	ErrInsufficientBalance   = fmt.Errorf("insufficient balance")
	ErrInsufficientAllowance = fmt.Errorf("insufficient allowance")
	ErrNotTokenOwner         = fmt.Errorf("not token owner")
	ErrUnknownAsset          = fmt.Errorf("unknown asset")
)
