package ledger

import (
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/timshannon/badgerhold/v4"
)

type metaRecord struct {
	Version int
}

type nativeRecord struct {
	Account string
	Amount  uint64
}

type balanceRecord struct {
	Asset   string
	Account string
	Amount  uint64
}

type allowanceRecord struct {
	Asset   string
	Owner   string
	Spender string
	Amount  uint64
}

type nftRecord struct {
	Contract string
	TokenId  uint64
	Owner    string
	Approved string
}

type operatorRecord struct {
	Account string
}

type entry struct {
	key   string
	value interface{}
}

func nativeEntry(account string, amount uint64) entry {
	return entry{account, nativeRecord{account, amount}}
}

func balanceEntry(asset, account string, amount uint64) entry {
	return entry{asset + "/" + account, balanceRecord{asset, account, amount}}
}

func allowanceEntry(asset, owner, spender string, amount uint64) entry {
	return entry{
		asset + "/" + owner + "/" + spender, allowanceRecord{asset, owner, spender, amount},
	}
}

func nftEntry(contract string, tokenId uint64, owner, approved string) entry {
	return entry{
		contract + "/" + strconv.FormatUint(tokenId, 10),
		nftRecord{contract, tokenId, owner, approved},
	}
}

func operatorEntry(account string) entry {
	return entry{account, operatorRecord{account}}
}

// persist writes all entries in one transaction. Must be called with the
// ledger lock held.
func (l *Ledger) persist(entries ...entry) error {
	if l.store == nil || len(entries) <= 0 {
		return nil
	}
	return writeEntries(l.store, entries)
}

func writeEntries(store *badgerhold.Store, entries []entry) error {
	err := store.Badger().Update(func(tx *badger.Txn) error {
		for _, e := range entries {
			if err := store.TxUpsert(tx, e.key, e.value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to persist ledger update: %w", err)
	}
	return nil
}

// snapshot writes the whole in-memory state and the meta record marking the
// store as initialized.
func (l *Ledger) snapshot(store *badgerhold.Store) error {
	entries := make([]entry, 0)
	for account, amount := range l.native {
		entries = append(entries, nativeEntry(account, amount))
	}
	for asset, token := range l.fungibles {
		for account, amount := range token.balances {
			entries = append(entries, balanceEntry(asset, account, amount))
		}
		for owner, spenders := range token.allowances {
			for spender, amount := range spenders {
				entries = append(entries, allowanceEntry(asset, owner, spender, amount))
			}
		}
	}
	for contract, c := range l.collections {
		for tokenId, owner := range c.owners {
			entries = append(entries, nftEntry(contract, tokenId, owner, c.approvals[tokenId]))
		}
	}
	for account := range l.operators {
		entries = append(entries, operatorEntry(account))
	}
	entries = append(entries, entry{metaKey, metaRecord{Version: 1}})

	return writeEntries(store, entries)
}

func (l *Ledger) restore(store *badgerhold.Store) error {
	var natives []nativeRecord
	if err := store.Find(&natives, nil); err != nil {
		return fmt.Errorf("failed to restore native balances: %w", err)
	}
	for _, r := range natives {
		l.native[r.Account] = r.Amount
	}

	var balances []balanceRecord
	if err := store.Find(&balances, nil); err != nil {
		return fmt.Errorf("failed to restore token balances: %w", err)
	}
	for _, r := range balances {
		token := l.fungibleOrNew(r.Asset)
		token.balances[r.Account] = r.Amount
		l.fungibles[r.Asset] = token
	}

	var allowances []allowanceRecord
	if err := store.Find(&allowances, nil); err != nil {
		return fmt.Errorf("failed to restore allowances: %w", err)
	}
	for _, r := range allowances {
		token := l.fungibleOrNew(r.Asset)
		token.setAllowance(r.Owner, r.Spender, r.Amount)
		l.fungibles[r.Asset] = token
	}

	var nfts []nftRecord
	if err := store.Find(&nfts, nil); err != nil {
		return fmt.Errorf("failed to restore nft owners: %w", err)
	}
	for _, r := range nfts {
		c := l.collectionOrNew(r.Contract)
		c.owners[r.TokenId] = r.Owner
		if r.Approved != "" {
			c.approvals[r.TokenId] = r.Approved
		}
		l.collections[r.Contract] = c
	}

	var operators []operatorRecord
	if err := store.Find(&operators, nil); err != nil {
		return fmt.Errorf("failed to restore operators: %w", err)
	}
	for _, r := range operators {
		l.operators[r.Account] = true
	}
	return nil
}
