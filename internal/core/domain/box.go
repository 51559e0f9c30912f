package domain

import (
	"fmt"
	"strconv"
	"time"
)

const boxCounterBits = 48

// BoxId is unique across every chain: the upper bits carry the chain the box
// was minted on, the lower bits the per-chain mint counter.
type BoxId uint64

func NewBoxId(chain ChainId, n uint64) BoxId {
	return BoxId(uint64(chain)<<boxCounterBits | n&(1<<boxCounterBits-1))
}

func (id BoxId) MintChain() ChainId {
	return ChainId(uint64(id) >> boxCounterBits)
}

func (id BoxId) Counter() uint64 {
	return uint64(id) & (1<<boxCounterBits - 1)
}

func (id BoxId) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

func ParseBoxId(s string) (BoxId, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid box id %q", s)
	}
	return BoxId(n), nil
}

type Box struct {
	Id            BoxId
	Owner         string
	Locked        bool
	OriginChainId ChainId
	IsOriginal    bool
	// Sequence is the number of bridge messages this box emitted from the
	// local chain.
	Sequence uint64
	// AcquiredAt (unix nanoseconds) orders the boxes of an owner.
	AcquiredAt int64
	CreatedAt  int64
	UpdatedAt  int64
}

func NewBox(id BoxId, owner string, chain ChainId) *Box {
	now := time.Now()
	return &Box{
		Id:            id,
		Owner:         owner,
		OriginChainId: chain,
		IsOriginal:    true,
		AcquiredAt:    now.UnixNano(),
		CreatedAt:     now.Unix(),
		UpdatedAt:     now.Unix(),
	}
}

func NewShadowBox(id BoxId, owner string, sourceChain ChainId) *Box {
	box := NewBox(id, owner, sourceChain)
	box.IsOriginal = false
	return box
}

func (b *Box) IsOwnedBy(account string) bool {
	return b.Owner == account
}

// Lock marks the box as in-flight and returns the sequence to stamp on the
// outgoing bridge message.
func (b *Box) Lock() (uint64, error) {
	if b.Locked {
		return 0, fmt.Errorf("box %s is already locked", b.Id)
	}
	b.Locked = true
	b.Sequence++
	b.UpdatedAt = time.Now().Unix()
	return b.Sequence, nil
}

func (b *Box) Unlock() {
	b.Locked = false
	b.UpdatedAt = time.Now().Unix()
}

func (b *Box) TransferTo(owner string) {
	if b.Owner == owner {
		return
	}
	now := time.Now()
	b.Owner = owner
	b.AcquiredAt = now.UnixNano()
	b.UpdatedAt = now.Unix()
}
