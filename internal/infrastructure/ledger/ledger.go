package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/schrodinger-box/boxd/internal/core/ports"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
)

const metaKey = "meta"

// Genesis is the initial state of the ledger.
type Genesis struct {
	// Native balances by account.
	Native map[string]uint64 `json:"native"`
	// Fungibles balances by asset and account.
	Fungibles map[string]map[string]uint64 `json:"fungibles"`
	// Nfts owners by contract and token id.
	Nfts map[string]map[string]string `json:"nfts"`
	// Operators can move the assets of any account, like a bridge contract
	// users approved once and for all.
	Operators []string `json:"operators"`
}

// ReadGenesis parses the given json file.
func ReadGenesis(path string) (*Genesis, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read genesis file: %w", err)
	}

	var genesis Genesis
	if err := json.Unmarshal(buf, &genesis); err != nil {
		return nil, fmt.Errorf("failed to parse genesis file: %w", err)
	}
	return &genesis, nil
}

// Ledger is a ledger of the native coin, fungible tokens and nft collections
// of a single chain. State lives in memory and, if opened with a store, every
// change is written through to it in a single transaction before being
// applied.
type Ledger struct {
	lock  sync.Mutex
	store *badgerhold.Store

	native      map[string]uint64
	fungibles   map[string]*fungible
	collections map[string]*collection
	operators   map[string]bool
}

// New returns an empty ledger kept in memory only.
func New() *Ledger {
	return &Ledger{
		native:      make(map[string]uint64),
		fungibles:   make(map[string]*fungible),
		collections: make(map[string]*collection),
		operators:   make(map[string]bool),
	}
}

// Open returns a ledger persisted in a badger store under dir, kept in memory
// if dir is empty. The genesis, if any, is applied only the first time the
// store is opened; afterwards the state is restored from the store.
func Open(dir string, genesis *Genesis) (*Ledger, error) {
	store, err := openStore(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger store: %w", err)
	}

	l := New()
	var meta metaRecord
	err = store.Get(metaKey, &meta)
	switch {
	case err == nil:
		if err := l.restore(store); err != nil {
			// nolint:all
			store.Close()
			return nil, err
		}
		log.Infof(
			"restored ledger with %d tokens and %d collections",
			len(l.fungibles), len(l.collections),
		)
	case errors.Is(err, badgerhold.ErrNotFound):
		if genesis != nil {
			if err := l.Load(*genesis); err != nil {
				// nolint:all
				store.Close()
				return nil, err
			}
			log.Infof(
				"loaded ledger genesis with %d tokens and %d collections",
				len(genesis.Fungibles), len(genesis.Nfts),
			)
		}
		if err := l.snapshot(store); err != nil {
			// nolint:all
			store.Close()
			return nil, err
		}
	default:
		// nolint:all
		store.Close()
		return nil, fmt.Errorf("failed to read ledger store: %w", err)
	}

	l.store = store
	return l, nil
}

func (l *Ledger) Close() {
	if l.store != nil {
		// nolint:all
		l.store.Close()
	}
}

func (l *Ledger) Load(genesis Genesis) error {
	for account, amount := range genesis.Native {
		if err := l.MintNative(account, amount); err != nil {
			return err
		}
	}
	for asset, balances := range genesis.Fungibles {
		for account, amount := range balances {
			if err := l.MintFungible(asset, account, amount); err != nil {
				return err
			}
		}
	}
	for contract, owners := range genesis.Nfts {
		for rawTokenId, owner := range owners {
			tokenId, err := strconv.ParseUint(rawTokenId, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid token id %s of %s", rawTokenId, contract)
			}
			if err := l.MintNft(contract, tokenId, owner); err != nil {
				return err
			}
		}
	}
	for _, operator := range genesis.Operators {
		if err := l.AddOperator(operator); err != nil {
			return err
		}
	}
	return nil
}

func (l *Ledger) AddOperator(account string) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	if err := l.persist(operatorEntry(account)); err != nil {
		return err
	}
	l.operators[account] = true
	return nil
}

func (l *Ledger) MintNative(account string, amount uint64) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	if l.native[account] > math.MaxUint64-amount {
		return fmt.Errorf("balance overflow for %s", account)
	}
	balance := l.native[account] + amount
	if err := l.persist(nativeEntry(account, balance)); err != nil {
		return err
	}
	l.native[account] = balance
	return nil
}

func (l *Ledger) MintFungible(asset, account string, amount uint64) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	token := l.fungibleOrNew(asset)
	if token.balances[account] > math.MaxUint64-amount {
		return fmt.Errorf("balance overflow for %s", account)
	}
	balance := token.balances[account] + amount
	if err := l.persist(balanceEntry(asset, account, balance)); err != nil {
		return err
	}
	l.fungibles[asset] = token
	token.balances[account] = balance
	return nil
}

func (l *Ledger) MintNft(contract string, tokenId uint64, owner string) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	c := l.collectionOrNew(contract)
	if _, ok := c.owners[tokenId]; ok {
		return fmt.Errorf("token %d of %s already minted", tokenId, contract)
	}
	if err := l.persist(nftEntry(contract, tokenId, owner, "")); err != nil {
		return err
	}
	l.collections[contract] = c
	c.owners[tokenId] = owner
	return nil
}

// Approve sets the allowance of spender over the tokens of owner.
func (l *Ledger) Approve(asset, owner, spender string, amount uint64) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	token, ok := l.fungibles[asset]
	if !ok {
		return fmt.Errorf("%w: %s", ports.ErrUnknownAsset, asset)
	}
	if err := l.persist(allowanceEntry(asset, owner, spender, amount)); err != nil {
		return err
	}
	token.setAllowance(owner, spender, amount)
	return nil
}

// ApproveNft lets spender move the given token on behalf of its owner.
func (l *Ledger) ApproveNft(contract string, tokenId uint64, owner, spender string) error {
	l.lock.Lock()
	defer l.lock.Unlock()

	c, ok := l.collections[contract]
	if !ok {
		return fmt.Errorf("%w: %s", ports.ErrUnknownAsset, contract)
	}
	if c.owners[tokenId] != owner {
		return fmt.Errorf("%w: %s is not the owner of %d", ports.ErrNotTokenOwner, owner, tokenId)
	}
	if err := l.persist(nftEntry(contract, tokenId, owner, spender)); err != nil {
		return err
	}
	c.approvals[tokenId] = spender
	return nil
}

func (l *Ledger) Fungible(_ context.Context, asset string) (ports.FungibleAsset, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	token, ok := l.fungibles[asset]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ports.ErrUnknownAsset, asset)
	}
	return token, nil
}

func (l *Ledger) NonFungible(_ context.Context, contract string) (ports.NonFungibleAsset, error) {
	l.lock.Lock()
	defer l.lock.Unlock()

	c, ok := l.collections[contract]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ports.ErrUnknownAsset, contract)
	}
	return c, nil
}

// Native returns the adapter moving the native coin.
func (l *Ledger) Native() ports.NativeCurrency {
	return nativeCurrency{l}
}

func (l *Ledger) fungibleOrNew(asset string) *fungible {
	if token, ok := l.fungibles[asset]; ok {
		return token
	}
	return &fungible{
		ledger:     l,
		address:    asset,
		balances:   make(map[string]uint64),
		allowances: make(map[string]map[string]uint64),
	}
}

func (l *Ledger) collectionOrNew(contract string) *collection {
	if c, ok := l.collections[contract]; ok {
		return c
	}
	return &collection{
		ledger:    l,
		address:   contract,
		owners:    make(map[uint64]string),
		approvals: make(map[uint64]string),
	}
}

type nativeCurrency struct {
	ledger *Ledger
}

func (n nativeCurrency) Transfer(_ context.Context, from, to string, amount uint64) error {
	l := n.ledger
	l.lock.Lock()
	defer l.lock.Unlock()

	if l.native[from] < amount {
		return fmt.Errorf(
			"%w: %s holds %d, needs %d", ports.ErrInsufficientBalance, from, l.native[from], amount,
		)
	}
	if from == to {
		return nil
	}
	if l.native[to] > math.MaxUint64-amount {
		return fmt.Errorf("balance overflow for %s", to)
	}

	fromBalance, toBalance := l.native[from]-amount, l.native[to]+amount
	if err := l.persist(
		nativeEntry(from, fromBalance), nativeEntry(to, toBalance),
	); err != nil {
		return err
	}
	l.native[from] = fromBalance
	l.native[to] = toBalance
	return nil
}

func (n nativeCurrency) BalanceOf(_ context.Context, account string) (uint64, error) {
	n.ledger.lock.Lock()
	defer n.ledger.lock.Unlock()
	return n.ledger.native[account], nil
}

type fungible struct {
	ledger     *Ledger
	address    string
	balances   map[string]uint64
	allowances map[string]map[string]uint64 // owner -> spender -> amount
}

func (f *fungible) Address() string {
	return f.address
}

func (f *fungible) TransferFrom(
	_ context.Context, spender, from, to string, amount uint64,
) error {
	l := f.ledger
	l.lock.Lock()
	defer l.lock.Unlock()

	if f.balances[from] < amount {
		return fmt.Errorf(
			"%w: %s holds %d %s, needs %d",
			ports.ErrInsufficientBalance, from, f.balances[from], f.address, amount,
		)
	}
	if from != to && f.balances[to] > math.MaxUint64-amount {
		return fmt.Errorf("balance overflow for %s", to)
	}

	entries := make([]entry, 0, 3)
	spendsAllowance := spender != from && !l.operators[spender]
	allowance := f.allowances[from][spender]
	if spendsAllowance {
		if allowance < amount {
			return fmt.Errorf(
				"%w: %s can spend %d %s of %s, needs %d",
				ports.ErrInsufficientAllowance, spender, allowance, f.address, from, amount,
			)
		}
		allowance -= amount
		entries = append(entries, allowanceEntry(f.address, from, spender, allowance))
	}
	if from == to {
		if err := l.persist(entries...); err != nil {
			return err
		}
		if spendsAllowance {
			f.setAllowance(from, spender, allowance)
		}
		return nil
	}

	fromBalance, toBalance := f.balances[from]-amount, f.balances[to]+amount
	entries = append(
		entries,
		balanceEntry(f.address, from, fromBalance), balanceEntry(f.address, to, toBalance),
	)
	if err := l.persist(entries...); err != nil {
		return err
	}
	if spendsAllowance {
		f.setAllowance(from, spender, allowance)
	}
	f.balances[from] = fromBalance
	f.balances[to] = toBalance
	return nil
}

func (f *fungible) BalanceOf(_ context.Context, account string) (uint64, error) {
	f.ledger.lock.Lock()
	defer f.ledger.lock.Unlock()
	return f.balances[account], nil
}

func (f *fungible) setAllowance(owner, spender string, amount uint64) {
	if _, ok := f.allowances[owner]; !ok {
		f.allowances[owner] = make(map[string]uint64)
	}
	f.allowances[owner][spender] = amount
}

type collection struct {
	ledger    *Ledger
	address   string
	owners    map[uint64]string
	approvals map[uint64]string
}

func (c *collection) Address() string {
	return c.address
}

func (c *collection) TransferFrom(
	_ context.Context, spender, from, to string, tokenId uint64,
) error {
	l := c.ledger
	l.lock.Lock()
	defer l.lock.Unlock()

	owner, ok := c.owners[tokenId]
	if !ok || owner != from {
		return fmt.Errorf("%w: %s does not own %s:%d", ports.ErrNotTokenOwner, from, c.address, tokenId)
	}
	if spender != from && !l.operators[spender] && c.approvals[tokenId] != spender {
		return fmt.Errorf(
			"%w: %s is not approved for %s:%d", ports.ErrInsufficientAllowance, spender, c.address, tokenId,
		)
	}

	if err := l.persist(nftEntry(c.address, tokenId, to, "")); err != nil {
		return err
	}
	c.owners[tokenId] = to
	delete(c.approvals, tokenId)
	return nil
}

func (c *collection) OwnerOf(_ context.Context, tokenId uint64) (string, error) {
	c.ledger.lock.Lock()
	defer c.ledger.lock.Unlock()

	owner, ok := c.owners[tokenId]
	if !ok {
		return "", fmt.Errorf("token %s:%d does not exist", c.address, tokenId)
	}
	return owner, nil
}

func openStore(dir string) (*badgerhold.Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	if len(dir) <= 0 {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
