package domain

import (
	"fmt"
	"math"
	"strconv"
)

type FungibleBalance struct {
	Asset  string
	Amount uint64
}

type NftRef struct {
	Contract string
	TokenId  uint64
}

func (n NftRef) String() string {
	return fmt.Sprintf("%s:%s", n.Contract, strconv.FormatUint(n.TokenId, 10))
}

// Snapshot is an immutable copy of a box's custodied assets.
type Snapshot struct {
	Fungibles []FungibleBalance
	Nfts      []NftRef
}

func (s Snapshot) IsEmpty() bool {
	return len(s.Fungibles) == 0 && len(s.Nfts) == 0
}

// Contents is the vault entry of a single box. Fungible balances keep their
// insertion order, a zero balance is never stored.
type Contents struct {
	BoxId     BoxId
	Fungibles []FungibleBalance
	Nfts      []NftRef
	UpdatedAt int64
}

func NewContents(boxId BoxId) *Contents {
	return &Contents{
		BoxId:     boxId,
		Fungibles: make([]FungibleBalance, 0),
		Nfts:      make([]NftRef, 0),
	}
}

func (c *Contents) BalanceOf(asset string) uint64 {
	for _, f := range c.Fungibles {
		if f.Asset == asset {
			return f.Amount
		}
	}
	return 0
}

func (c *Contents) Credit(asset string, amount uint64) error {
	if amount == 0 {
		return fmt.Errorf("amount must be > 0")
	}
	for i, f := range c.Fungibles {
		if f.Asset != asset {
			continue
		}
		if f.Amount > math.MaxUint64-amount {
			return fmt.Errorf("balance overflow for asset %s", asset)
		}
		c.Fungibles[i].Amount += amount
		return nil
	}
	c.Fungibles = append(c.Fungibles, FungibleBalance{Asset: asset, Amount: amount})
	return nil
}

// TakeAll zeroes the balance of the given asset and returns what was held.
func (c *Contents) TakeAll(asset string) uint64 {
	for i, f := range c.Fungibles {
		if f.Asset == asset {
			c.Fungibles = append(c.Fungibles[:i], c.Fungibles[i+1:]...)
			return f.Amount
		}
	}
	return 0
}

func (c *Contents) HasNft(contract string, tokenId uint64) bool {
	return c.nftIndex(contract, tokenId) >= 0
}

func (c *Contents) AddNft(contract string, tokenId uint64) error {
	if c.HasNft(contract, tokenId) {
		return fmt.Errorf("nft %s:%d already held", contract, tokenId)
	}
	c.Nfts = append(c.Nfts, NftRef{Contract: contract, TokenId: tokenId})
	return nil
}

func (c *Contents) RemoveNft(contract string, tokenId uint64) bool {
	i := c.nftIndex(contract, tokenId)
	if i < 0 {
		return false
	}
	c.Nfts = append(c.Nfts[:i], c.Nfts[i+1:]...)
	return true
}

func (c *Contents) Snapshot() Snapshot {
	fungibles := make([]FungibleBalance, len(c.Fungibles))
	copy(fungibles, c.Fungibles)
	nfts := make([]NftRef, len(c.Nfts))
	copy(nfts, c.Nfts)
	return Snapshot{Fungibles: fungibles, Nfts: nfts}
}

// Replace overwrites the entry with the given snapshot, dropping zero
// balances and duplicated references.
func (c *Contents) Replace(snapshot Snapshot) {
	c.Fungibles = make([]FungibleBalance, 0, len(snapshot.Fungibles))
	c.Nfts = make([]NftRef, 0, len(snapshot.Nfts))
	for _, f := range snapshot.Fungibles {
		if f.Amount == 0 {
			continue
		}
		// nolint:errcheck
		c.Credit(f.Asset, f.Amount)
	}
	for _, n := range snapshot.Nfts {
		// nolint:errcheck
		c.AddNft(n.Contract, n.TokenId)
	}
}

func (c *Contents) nftIndex(contract string, tokenId uint64) int {
	for i, n := range c.Nfts {
		if n.Contract == contract && n.TokenId == tokenId {
			return i
		}
	}
	return -1
}
