package domain

import (
	"encoding/binary"
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

type MessageId = chainhash.Hash

// NewMessageId derives the id of the sequence-th message sent for the box
// from the given chain.
func NewMessageId(source ChainId, boxId BoxId, sequence uint64) MessageId {
	buf := make([]byte, 2+8+8)
	binary.BigEndian.PutUint16(buf[0:2], uint16(source))
	binary.BigEndian.PutUint64(buf[2:10], uint64(boxId))
	binary.BigEndian.PutUint64(buf[10:18], sequence)
	return chainhash.HashH(buf)
}

func ParseMessageId(s string) (MessageId, error) {
	h, err := chainhash.NewHashFromStr(s)
	if err != nil {
		return MessageId{}, fmt.Errorf("invalid message id: %w", err)
	}
	return *h, nil
}

type BridgeMessage struct {
	Id                 MessageId
	SourceChainId      ChainId
	DestinationChainId ChainId
	BoxId              BoxId
	Sequence           uint64
	Recipient          string
	SenderPeer         PeerId
	Snapshot           Snapshot
	CreatedAt          int64
}

// Validate checks the message is self-consistent, ie. its id matches the
// (source, box, sequence) triple it carries.
func (m BridgeMessage) Validate() error {
	if m.SourceChainId == 0 || m.DestinationChainId == 0 {
		return fmt.Errorf("missing chain id")
	}
	if m.SourceChainId == m.DestinationChainId {
		return fmt.Errorf("source and destination chain must differ")
	}
	if m.Recipient == "" {
		return fmt.Errorf("missing recipient")
	}
	if m.Sequence == 0 {
		return fmt.Errorf("invalid sequence")
	}
	if NewMessageId(m.SourceChainId, m.BoxId, m.Sequence) != m.Id {
		return fmt.Errorf("message id mismatch")
	}
	return nil
}

type bridgeMessageJSON struct {
	Id                 string            `json:"id"`
	SourceChainId      uint16            `json:"source_chain_id"`
	DestinationChainId uint16            `json:"destination_chain_id"`
	BoxId              string            `json:"box_id"`
	Sequence           uint64            `json:"sequence"`
	Recipient          string            `json:"recipient"`
	SenderPeer         string            `json:"sender_peer"`
	Fungibles          []FungibleBalance `json:"fungibles"`
	Nfts               []NftRef          `json:"nfts"`
	CreatedAt          int64             `json:"created_at"`
}

func (m BridgeMessage) Serialize() ([]byte, error) {
	return json.Marshal(bridgeMessageJSON{
		Id:                 m.Id.String(),
		SourceChainId:      uint16(m.SourceChainId),
		DestinationChainId: uint16(m.DestinationChainId),
		BoxId:              m.BoxId.String(),
		Sequence:           m.Sequence,
		Recipient:          m.Recipient,
		SenderPeer:         m.SenderPeer.String(),
		Fungibles:          m.Snapshot.Fungibles,
		Nfts:               m.Snapshot.Nfts,
		CreatedAt:          m.CreatedAt,
	})
}

func DeserializeBridgeMessage(buf []byte) (*BridgeMessage, error) {
	var raw bridgeMessageJSON
	if err := json.Unmarshal(buf, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode bridge message: %w", err)
	}
	id, err := ParseMessageId(raw.Id)
	if err != nil {
		return nil, err
	}
	boxId, err := ParseBoxId(raw.BoxId)
	if err != nil {
		return nil, err
	}
	peer, err := ParsePeerId(raw.SenderPeer)
	if err != nil {
		return nil, err
	}
	fungibles := raw.Fungibles
	if fungibles == nil {
		fungibles = make([]FungibleBalance, 0)
	}
	nfts := raw.Nfts
	if nfts == nil {
		nfts = make([]NftRef, 0)
	}
	return &BridgeMessage{
		Id:                 id,
		SourceChainId:      ChainId(raw.SourceChainId),
		DestinationChainId: ChainId(raw.DestinationChainId),
		BoxId:              boxId,
		Sequence:           raw.Sequence,
		Recipient:          raw.Recipient,
		SenderPeer:         peer,
		Snapshot:           Snapshot{Fungibles: fungibles, Nfts: nfts},
		CreatedAt:          raw.CreatedAt,
	}, nil
}

type DeliveryStatus uint8

const (
	DeliveryStatusUnknown DeliveryStatus = iota
	DeliveryStatusSent
	DeliveryStatusDelivered
	DeliveryStatusFailed
)

func (s DeliveryStatus) String() string {
	switch s {
	case DeliveryStatusSent:
		return "sent"
	case DeliveryStatusDelivered:
		return "delivered"
	case DeliveryStatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

func ParseDeliveryStatus(s string) (DeliveryStatus, error) {
	switch s {
	case "sent":
		return DeliveryStatusSent, nil
	case "delivered":
		return DeliveryStatusDelivered, nil
	case "failed":
		return DeliveryStatusFailed, nil
	default:
		return DeliveryStatusUnknown, fmt.Errorf("invalid delivery status %q", s)
	}
}

// OutboundMessage is the durable record of a bridge message handed to the relay.
type OutboundMessage struct {
	BridgeMessage
	Payer     string
	Fee       uint64
	Status    DeliveryStatus
	Alerted   bool
	UpdatedAt int64
}

type AppliedMessage struct {
	Id            MessageId
	BoxId         BoxId
	SourceChainId ChainId
	AppliedAt     int64
}
