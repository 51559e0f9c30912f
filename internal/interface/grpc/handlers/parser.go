package handlers

import (
	"context"
	"fmt"

	boxv1 "github.com/schrodinger-box/boxd/api-spec/box/v1"
	"github.com/schrodinger-box/boxd/internal/core/application"
	"github.com/schrodinger-box/boxd/internal/core/domain"
	"github.com/schrodinger-box/boxd/pkg/auth"
)

// parseCaller returns the account that signed the request.
func parseCaller(ctx context.Context) (string, error) {
	account, ok := auth.AccountFromContext(ctx)
	if !ok {
		return "", fmt.Errorf("missing request signature")
	}
	return account, nil
}

func parseBoxId(boxId string) (domain.BoxId, error) {
	if len(boxId) <= 0 {
		return 0, fmt.Errorf("missing box id")
	}
	return domain.ParseBoxId(boxId)
}

func parseBoxIds(boxIds []string) ([]domain.BoxId, error) {
	ids := make([]domain.BoxId, 0, len(boxIds))
	for _, boxId := range boxIds {
		id, err := parseBoxId(boxId)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func parseChainId(chainId uint32) (domain.ChainId, error) {
	if chainId == 0 {
		return 0, fmt.Errorf("missing chain id")
	}
	if chainId > 0xffff {
		return 0, fmt.Errorf("invalid chain id %d", chainId)
	}
	return domain.ChainId(chainId), nil
}

// parsePeerId accepts an empty value as the zero peer.
func parsePeerId(peerId string) (domain.PeerId, error) {
	if len(peerId) <= 0 {
		return domain.ZeroPeer, nil
	}
	return domain.ParsePeerId(peerId)
}

func parseMessageId(messageId string) (domain.MessageId, error) {
	if len(messageId) <= 0 {
		return domain.MessageId{}, fmt.Errorf("missing message id")
	}
	return domain.ParseMessageId(messageId)
}

func parseAsset(asset string) (string, error) {
	if len(asset) <= 0 {
		return "", fmt.Errorf("missing asset")
	}
	return asset, nil
}

func parseStatuses(statuses []string) ([]domain.DeliveryStatus, error) {
	parsed := make([]domain.DeliveryStatus, 0, len(statuses))
	for _, s := range statuses {
		status, err := domain.ParseDeliveryStatus(s)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, status)
	}
	return parsed, nil
}

type boxDetails application.BoxDetails

func (d boxDetails) toProto() *boxv1.Box {
	fungibles := make([]boxv1.FungibleBalance, 0, len(d.Fungibles))
	for _, f := range d.Fungibles {
		fungibles = append(fungibles, boxv1.FungibleBalance{Asset: f.Asset, Amount: f.Amount})
	}
	nfts := make([]boxv1.Nft, 0, len(d.Nfts))
	for _, n := range d.Nfts {
		nfts = append(nfts, boxv1.Nft{Contract: n.Contract, TokenId: n.TokenId})
	}
	return &boxv1.Box{
		BoxId:         d.Id.String(),
		Owner:         d.Owner,
		Locked:        d.Locked,
		OriginChainId: uint32(d.OriginChainId),
		IsOriginal:    d.IsOriginal,
		Sequence:      d.Sequence,
		Fungibles:     fungibles,
		Nfts:          nfts,
	}
}

type boxIdList []domain.BoxId

func (l boxIdList) toProto() []string {
	list := make([]string, 0, len(l))
	for _, id := range l {
		list = append(list, id.String())
	}
	return list
}

type peerList []domain.Peer

func (l peerList) toProto() []boxv1.Peer {
	list := make([]boxv1.Peer, 0, len(l))
	for _, p := range l {
		list = append(list, boxv1.Peer{
			ChainId:   uint32(p.ChainId),
			PeerId:    p.PeerId.String(),
			UpdatedAt: p.UpdatedAt,
		})
	}
	return list
}

type outboundList []domain.OutboundMessage

func (l outboundList) toProto() []boxv1.OutboundMessage {
	list := make([]boxv1.OutboundMessage, 0, len(l))
	for _, m := range l {
		list = append(list, boxv1.OutboundMessage{
			MessageId:          m.Id.String(),
			BoxId:              m.BoxId.String(),
			DestinationChainId: uint32(m.DestinationChainId),
			Sequence:           m.Sequence,
			Recipient:          m.Recipient,
			Payer:              m.Payer,
			Fee:                m.Fee,
			Status:             m.Status.String(),
			CreatedAt:          m.CreatedAt,
			UpdatedAt:          m.UpdatedAt,
		})
	}
	return list
}

// boxEvent converts a domain event into its stream representation. Events of
// unknown type are skipped.
func boxEvent(event domain.Event) (*boxv1.BoxEvent, bool) {
	var base domain.BoxEvent
	data := make(map[string]string)

	switch e := event.(type) {
	case domain.BoxMinted:
		base = e.BoxEvent
		data["owner"] = e.Owner
		data["fee_paid"] = fmt.Sprintf("%d", e.FeePaid)
	case domain.FungibleDeposited:
		base = e.BoxEvent
		data["asset"] = e.Asset
		data["amount"] = fmt.Sprintf("%d", e.Amount)
		data["payer"] = e.Payer
	case domain.FungibleWithdrawn:
		base = e.BoxEvent
		data["asset"] = e.Asset
		data["amount"] = fmt.Sprintf("%d", e.Amount)
		data["to"] = e.To
	case domain.NftDeposited:
		base = e.BoxEvent
		data["contract"] = e.Contract
		data["token_id"] = fmt.Sprintf("%d", e.TokenId)
		data["payer"] = e.Payer
	case domain.NftWithdrawn:
		base = e.BoxEvent
		data["contract"] = e.Contract
		data["token_id"] = fmt.Sprintf("%d", e.TokenId)
		data["to"] = e.To
	case domain.BoxTransferred:
		base = e.BoxEvent
		data["from"] = e.From
		data["to"] = e.To
	case domain.BoxBridged:
		base = e.BoxEvent
		data["destination_chain_id"] = fmt.Sprintf("%d", uint16(e.DestinationChainId))
		data["message_id"] = e.MessageId
		data["recipient"] = e.Recipient
		data["fee"] = fmt.Sprintf("%d", e.Fee)
	case domain.BoxReceived:
		base = e.BoxEvent
		data["source_chain_id"] = fmt.Sprintf("%d", uint16(e.SourceChainId))
		data["message_id"] = e.MessageId
		data["owner"] = e.Owner
		data["created"] = fmt.Sprintf("%t", e.Created)
	default:
		return nil, false
	}

	return &boxv1.BoxEvent{
		Id:        base.Id,
		Type:      base.Type.String(),
		BoxId:     base.BoxId.String(),
		Timestamp: base.Timestamp,
		Data:      data,
	}, true
}
