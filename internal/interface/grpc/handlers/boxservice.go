package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	boxv1 "github.com/schrodinger-box/boxd/api-spec/box/v1"
	"github.com/schrodinger-box/boxd/internal/core/application"
	"github.com/schrodinger-box/boxd/internal/core/domain"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type handler struct {
	version   string
	heartbeat time.Duration
	localPeer domain.PeerId

	svc application.Service

	eventsListenerHandler *broker[*boxv1.GetEventStreamResponse]
}

func NewBoxServiceHandler(
	version string, service application.Service, localPeer domain.PeerId, heartbeat int64,
) boxv1.BoxServiceServer {
	h := &handler{
		version:               version,
		heartbeat:             time.Duration(heartbeat) * time.Second,
		localPeer:             localPeer,
		svc:                   service,
		eventsListenerHandler: newBroker[*boxv1.GetEventStreamResponse](),
	}

	go h.listenToEvents()

	return h
}

func (h *handler) GetInfo(
	_ context.Context, _ *boxv1.Empty,
) (*boxv1.GetInfoResponse, error) {
	return &boxv1.GetInfoResponse{
		Version:    h.version,
		ChainId:    uint32(h.svc.ChainId()),
		LocalPeer:  h.localPeer.String(),
		MintingFee: h.svc.MintingFee(),
	}, nil
}

func (h *handler) Mint(
	ctx context.Context, req *boxv1.MintRequest,
) (*boxv1.MintResponse, error) {
	caller, err := parseCaller(ctx)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	boxId, svcErr := h.svc.Mint(ctx, caller, req.FeePaid)
	if svcErr != nil {
		return nil, svcErr
	}
	return &boxv1.MintResponse{BoxId: boxId.String()}, nil
}

func (h *handler) Transfer(
	ctx context.Context, req *boxv1.TransferRequest,
) (*boxv1.Empty, error) {
	caller, err := parseCaller(ctx)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}
	boxId, err := parseBoxId(req.BoxId)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if err := h.svc.Transfer(ctx, boxId, caller, req.To); err != nil {
		return nil, err
	}
	return &boxv1.Empty{}, nil
}

func (h *handler) GetOwner(
	ctx context.Context, req *boxv1.GetOwnerRequest,
) (*boxv1.GetOwnerResponse, error) {
	boxId, err := parseBoxId(req.BoxId)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	owner, svcErr := h.svc.OwnerOf(ctx, boxId)
	if svcErr != nil {
		return nil, svcErr
	}
	return &boxv1.GetOwnerResponse{Owner: owner}, nil
}

func (h *handler) ListBoxes(
	ctx context.Context, req *boxv1.ListBoxesRequest,
) (*boxv1.ListBoxesResponse, error) {
	owner := req.Owner
	if owner == "" {
		caller, err := parseCaller(ctx)
		if err != nil {
			return nil, status.Error(codes.InvalidArgument, "missing owner")
		}
		owner = caller
	}

	boxIds, err := h.svc.BoxesOf(ctx, owner)
	if err != nil {
		return nil, err
	}
	return &boxv1.ListBoxesResponse{BoxIds: boxIdList(boxIds).toProto()}, nil
}

func (h *handler) DepositFungible(
	ctx context.Context, req *boxv1.DepositFungibleRequest,
) (*boxv1.Empty, error) {
	caller, err := parseCaller(ctx)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}
	boxId, err := parseBoxId(req.BoxId)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	asset, err := parseAsset(req.Asset)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if err := h.svc.DepositFungible(ctx, boxId, asset, req.Amount, caller); err != nil {
		return nil, err
	}
	return &boxv1.Empty{}, nil
}

func (h *handler) WithdrawFungible(
	ctx context.Context, req *boxv1.WithdrawFungibleRequest,
) (*boxv1.WithdrawFungibleResponse, error) {
	caller, err := parseCaller(ctx)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}
	boxId, err := parseBoxId(req.BoxId)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	asset, err := parseAsset(req.Asset)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	amount, svcErr := h.svc.WithdrawFungible(ctx, boxId, asset, caller, req.To)
	if svcErr != nil {
		return nil, svcErr
	}
	return &boxv1.WithdrawFungibleResponse{Amount: amount}, nil
}

func (h *handler) DepositNft(
	ctx context.Context, req *boxv1.DepositNftRequest,
) (*boxv1.Empty, error) {
	caller, err := parseCaller(ctx)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}
	boxId, err := parseBoxId(req.BoxId)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	contract, err := parseAsset(req.Contract)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if err := h.svc.DepositNft(ctx, boxId, contract, req.TokenId, caller); err != nil {
		return nil, err
	}
	return &boxv1.Empty{}, nil
}

func (h *handler) WithdrawNft(
	ctx context.Context, req *boxv1.WithdrawNftRequest,
) (*boxv1.Empty, error) {
	caller, err := parseCaller(ctx)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}
	boxId, err := parseBoxId(req.BoxId)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	contract, err := parseAsset(req.Contract)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if err := h.svc.WithdrawNft(ctx, boxId, contract, req.TokenId, caller, req.To); err != nil {
		return nil, err
	}
	return &boxv1.Empty{}, nil
}

func (h *handler) GetBalance(
	ctx context.Context, req *boxv1.GetBalanceRequest,
) (*boxv1.GetBalanceResponse, error) {
	boxId, err := parseBoxId(req.BoxId)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	asset, err := parseAsset(req.Asset)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	amount, svcErr := h.svc.BalanceOf(ctx, boxId, asset)
	if svcErr != nil {
		return nil, svcErr
	}
	return &boxv1.GetBalanceResponse{Amount: amount}, nil
}

func (h *handler) ContainsNft(
	ctx context.Context, req *boxv1.ContainsNftRequest,
) (*boxv1.ContainsNftResponse, error) {
	boxId, err := parseBoxId(req.BoxId)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	contract, err := parseAsset(req.Contract)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	held, svcErr := h.svc.ContainsNft(ctx, boxId, contract, req.TokenId)
	if svcErr != nil {
		return nil, svcErr
	}
	return &boxv1.ContainsNftResponse{Held: held}, nil
}

func (h *handler) GetBox(
	ctx context.Context, req *boxv1.GetBoxRequest,
) (*boxv1.Box, error) {
	boxId, err := parseBoxId(req.BoxId)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	details, svcErr := h.svc.GetBoxDetails(ctx, boxId)
	if svcErr != nil {
		return nil, svcErr
	}
	return boxDetails(*details).toProto(), nil
}

func (h *handler) GetPeer(
	ctx context.Context, req *boxv1.GetPeerRequest,
) (*boxv1.GetPeerResponse, error) {
	chainId, err := parseChainId(req.ChainId)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	peer, svcErr := h.svc.PeerOf(ctx, chainId)
	if svcErr != nil {
		return nil, svcErr
	}
	if peer.IsZero() {
		return &boxv1.GetPeerResponse{}, nil
	}
	return &boxv1.GetPeerResponse{PeerId: peer.String()}, nil
}

func (h *handler) QuoteFee(
	ctx context.Context, req *boxv1.QuoteFeeRequest,
) (*boxv1.QuoteFeeResponse, error) {
	destination, err := parseChainId(req.DestinationChainId)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	fee, svcErr := h.svc.QuoteFee(ctx, destination)
	if svcErr != nil {
		return nil, svcErr
	}
	return &boxv1.QuoteFeeResponse{Fee: fee}, nil
}

func (h *handler) Bridge(
	ctx context.Context, req *boxv1.BridgeRequest,
) (*boxv1.BridgeResponse, error) {
	caller, err := parseCaller(ctx)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}
	boxId, err := parseBoxId(req.BoxId)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	destination, err := parseChainId(req.DestinationChainId)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	msg, svcErr := h.svc.Bridge(ctx, boxId, destination, req.Recipient, caller, req.FeePaid)
	if svcErr != nil {
		return nil, svcErr
	}
	return &boxv1.BridgeResponse{
		MessageId: msg.Id.String(),
		Sequence:  msg.Sequence,
	}, nil
}

func (h *handler) GetEventStream(
	req *boxv1.GetEventStreamRequest, stream grpc.ServerStreamingServer[boxv1.GetEventStreamResponse],
) error {
	boxIds, err := parseBoxIds(req.BoxIds)
	if err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}

	listener := newListener[*boxv1.GetEventStreamResponse](
		uuid.NewString(), boxIdList(boxIds).toProto(),
	)

	h.eventsListenerHandler.pushListener(listener)
	defer h.eventsListenerHandler.removeListener(listener.id)

	timer := time.NewTimer(h.heartbeat)
	defer timer.Stop()

	resetTimer := func() {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(h.heartbeat)
	}

	for {
		select {
		case <-stream.Context().Done():
			return nil
		case ev := <-listener.ch:
			if err := stream.Send(ev); err != nil {
				return err
			}
			resetTimer()
		case <-timer.C:
			hb := &boxv1.GetEventStreamResponse{Heartbeat: &boxv1.Heartbeat{}}
			if err := stream.Send(hb); err != nil {
				return err
			}
			resetTimer()
		}
	}
}

// listenToEvents forwards events from the application layer to the stream
// listeners. Events of a batch are forwarded in order.
func (h *handler) listenToEvents() {
	channel := h.svc.GetEventsChannel(context.Background())
	for events := range channel {
		if !h.eventsListenerHandler.hasListeners() {
			continue
		}

		for _, event := range events {
			ev, ok := boxEvent(event)
			if !ok {
				continue
			}
			count := h.eventsListenerHandler.publish(
				&boxv1.GetEventStreamResponse{Event: ev}, ev.BoxId,
			)
			log.Debugf("forwarded %s event to %d listeners", ev.Type, count)
		}
	}
}
