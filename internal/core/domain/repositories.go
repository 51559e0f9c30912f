package domain

import (
	"context"
	"fmt"
)

var ErrNotFound = fmt.Errorf("not found")

type EventRepository interface {
	Save(ctx context.Context, topic string, id string, events []Event) error
	RegisterEventsHandler(topic string, handler func(events []Event))
	ClearRegisteredHandlers(topics ...string)
	Close()
}

type BoxRepository interface {
	// NextBoxCounter atomically increments and returns the local mint counter.
	NextBoxCounter(ctx context.Context) (uint64, error)
	Add(ctx context.Context, box Box) error
	Get(ctx context.Context, id BoxId) (*Box, error)
	Update(ctx context.Context, box Box) error
	// ListByOwner returns the ids of the boxes owned by the given account, in
	// the order the account acquired them.
	ListByOwner(ctx context.Context, owner string) ([]BoxId, error)
	ListLocked(ctx context.Context) ([]BoxId, error)
	Close()
}

type VaultRepository interface {
	Get(ctx context.Context, boxId BoxId) (*Contents, error)
	Upsert(ctx context.Context, contents Contents) error
	Close()
}

type PeerRepository interface {
	Set(ctx context.Context, peer Peer) error
	Get(ctx context.Context, chainId ChainId) (*Peer, error)
	List(ctx context.Context) ([]Peer, error)
	Close()
}

type MessageRepository interface {
	AddOutbound(ctx context.Context, msg OutboundMessage) error
	GetOutbound(ctx context.Context, id MessageId) (*OutboundMessage, error)
	UpdateOutbound(ctx context.Context, msg OutboundMessage) error
	DeleteOutbound(ctx context.Context, id MessageId) error
	ListOutbound(ctx context.Context, statuses ...DeliveryStatus) ([]OutboundMessage, error)
	// MarkApplied records the message in the replay guard. It returns false if
	// the message was already applied.
	MarkApplied(ctx context.Context, applied AppliedMessage) (bool, error)
	IsApplied(ctx context.Context, id MessageId) (bool, error)
	Close()
}
