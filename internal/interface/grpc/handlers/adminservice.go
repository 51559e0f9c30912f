package handlers

import (
	"context"

	boxv1 "github.com/schrodinger-box/boxd/api-spec/box/v1"
	"github.com/schrodinger-box/boxd/internal/core/application"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type adminHandler struct {
	adminService application.AdminService
}

func NewAdminHandler(adminService application.AdminService) boxv1.AdminServiceServer {
	return &adminHandler{adminService}
}

func (a *adminHandler) SetPeer(
	ctx context.Context, req *boxv1.SetPeerRequest,
) (*boxv1.Empty, error) {
	chainId, err := parseChainId(req.ChainId)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	peerId, err := parsePeerId(req.PeerId)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if err := a.adminService.SetPeer(ctx, chainId, peerId); err != nil {
		return nil, err
	}
	return &boxv1.Empty{}, nil
}

func (a *adminHandler) ListPeers(
	ctx context.Context, _ *boxv1.Empty,
) (*boxv1.ListPeersResponse, error) {
	peers, err := a.adminService.ListPeers(ctx)
	if err != nil {
		return nil, err
	}
	return &boxv1.ListPeersResponse{
		LocalPeer: a.adminService.LocalPeer().String(),
		Peers:     peerList(peers).toProto(),
	}, nil
}

func (a *adminHandler) GetFeeBalance(
	ctx context.Context, _ *boxv1.Empty,
) (*boxv1.GetFeeBalanceResponse, error) {
	balance, err := a.adminService.GetFeeBalance(ctx)
	if err != nil {
		return nil, err
	}
	return &boxv1.GetFeeBalanceResponse{Amount: balance}, nil
}

func (a *adminHandler) WithdrawFees(
	ctx context.Context, req *boxv1.WithdrawFeesRequest,
) (*boxv1.WithdrawFeesResponse, error) {
	if len(req.To) <= 0 {
		return nil, status.Error(codes.InvalidArgument, "missing recipient")
	}

	amount, err := a.adminService.WithdrawFees(ctx, req.To, req.Amount)
	if err != nil {
		return nil, err
	}
	return &boxv1.WithdrawFeesResponse{Amount: amount}, nil
}

func (a *adminHandler) ResendBridgeMessage(
	ctx context.Context, req *boxv1.ResendBridgeMessageRequest,
) (*boxv1.Empty, error) {
	messageId, err := parseMessageId(req.MessageId)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if len(req.Payer) <= 0 {
		return nil, status.Error(codes.InvalidArgument, "missing payer")
	}

	if err := a.adminService.ResendBridgeMessage(
		ctx, messageId, req.Payer, req.FeePaid,
	); err != nil {
		return nil, err
	}
	return &boxv1.Empty{}, nil
}

func (a *adminHandler) ListOutboundMessages(
	ctx context.Context, req *boxv1.ListOutboundMessagesRequest,
) (*boxv1.ListOutboundMessagesResponse, error) {
	statuses, err := parseStatuses(req.Statuses)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	msgs, err := a.adminService.ListOutboundMessages(ctx, statuses...)
	if err != nil {
		return nil, err
	}
	return &boxv1.ListOutboundMessagesResponse{Messages: outboundList(msgs).toProto()}, nil
}
