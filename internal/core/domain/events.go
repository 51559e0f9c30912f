package domain

import (
	"time"

	"github.com/google/uuid"
)

const BoxTopic = "box_events"

type EventType int

const (
	_ EventType = iota
	EventTypeBoxMinted
	EventTypeFungibleDeposited
	EventTypeFungibleWithdrawn
	EventTypeNftDeposited
	EventTypeNftWithdrawn
	EventTypeBoxTransferred
	EventTypeBoxBridged
	EventTypeBoxReceived
)

func (t EventType) String() string {
	switch t {
	case EventTypeBoxMinted:
		return "BoxMinted"
	case EventTypeFungibleDeposited:
		return "FungibleDeposited"
	case EventTypeFungibleWithdrawn:
		return "FungibleWithdrawn"
	case EventTypeNftDeposited:
		return "NftDeposited"
	case EventTypeNftWithdrawn:
		return "NftWithdrawn"
	case EventTypeBoxTransferred:
		return "BoxTransferred"
	case EventTypeBoxBridged:
		return "BoxBridged"
	case EventTypeBoxReceived:
		return "BoxReceived"
	default:
		return "Unknown"
	}
}

type Event interface {
	GetType() EventType
	GetBoxId() BoxId
}

type BoxEvent struct {
	Id        string
	BoxId     BoxId
	Type      EventType
	Timestamp int64
}

func newBoxEvent(boxId BoxId, eventType EventType) BoxEvent {
	return BoxEvent{
		Id:        uuid.New().String(),
		BoxId:     boxId,
		Type:      eventType,
		Timestamp: time.Now().Unix(),
	}
}

func (e BoxEvent) GetType() EventType {
	return e.Type
}

func (e BoxEvent) GetBoxId() BoxId {
	return e.BoxId
}

type BoxMinted struct {
	BoxEvent
	Owner   string
	FeePaid uint64
}

type FungibleDeposited struct {
	BoxEvent
	Asset  string
	Amount uint64
	Payer  string
}

type FungibleWithdrawn struct {
	BoxEvent
	Asset  string
	Amount uint64
	To     string
}

type NftDeposited struct {
	BoxEvent
	Contract string
	TokenId  uint64
	Payer    string
}

type NftWithdrawn struct {
	BoxEvent
	Contract string
	TokenId  uint64
	To       string
}

type BoxTransferred struct {
	BoxEvent
	From string
	To   string
}

type BoxBridged struct {
	BoxEvent
	DestinationChainId ChainId
	MessageId          string
	Recipient          string
	Fee                uint64
}

type BoxReceived struct {
	BoxEvent
	SourceChainId ChainId
	MessageId     string
	Owner         string
	Created       bool
}

func NewBoxMinted(boxId BoxId, owner string, fee uint64) BoxMinted {
	return BoxMinted{newBoxEvent(boxId, EventTypeBoxMinted), owner, fee}
}

func NewFungibleDeposited(boxId BoxId, asset string, amount uint64, payer string) FungibleDeposited {
	return FungibleDeposited{newBoxEvent(boxId, EventTypeFungibleDeposited), asset, amount, payer}
}

func NewFungibleWithdrawn(boxId BoxId, asset string, amount uint64, to string) FungibleWithdrawn {
	return FungibleWithdrawn{newBoxEvent(boxId, EventTypeFungibleWithdrawn), asset, amount, to}
}

func NewNftDeposited(boxId BoxId, nft NftRef, payer string) NftDeposited {
	return NftDeposited{newBoxEvent(boxId, EventTypeNftDeposited), nft.Contract, nft.TokenId, payer}
}

func NewNftWithdrawn(boxId BoxId, nft NftRef, to string) NftWithdrawn {
	return NftWithdrawn{newBoxEvent(boxId, EventTypeNftWithdrawn), nft.Contract, nft.TokenId, to}
}

func NewBoxTransferred(boxId BoxId, from, to string) BoxTransferred {
	return BoxTransferred{newBoxEvent(boxId, EventTypeBoxTransferred), from, to}
}

func NewBoxBridged(msg BridgeMessage, fee uint64) BoxBridged {
	return BoxBridged{
		BoxEvent:           newBoxEvent(msg.BoxId, EventTypeBoxBridged),
		DestinationChainId: msg.DestinationChainId,
		MessageId:          msg.Id.String(),
		Recipient:          msg.Recipient,
		Fee:                fee,
	}
}

func NewBoxReceived(msg BridgeMessage, created bool) BoxReceived {
	return BoxReceived{
		BoxEvent:      newBoxEvent(msg.BoxId, EventTypeBoxReceived),
		SourceChainId: msg.SourceChainId,
		MessageId:     msg.Id.String(),
		Owner:         msg.Recipient,
		Created:       created,
	}
}
