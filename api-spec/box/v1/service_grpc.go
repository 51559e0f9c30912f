package boxv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Service descriptors are written by hand: messages are plain structs encoded
// with the json codec, so there is no .proto to generate them from.
const (
	BoxService_GetInfo_FullMethodName          = "/boxd.v1.BoxService/GetInfo"
	BoxService_Mint_FullMethodName             = "/boxd.v1.BoxService/Mint"
	BoxService_Transfer_FullMethodName         = "/boxd.v1.BoxService/Transfer"
	BoxService_GetOwner_FullMethodName         = "/boxd.v1.BoxService/GetOwner"
	BoxService_ListBoxes_FullMethodName        = "/boxd.v1.BoxService/ListBoxes"
	BoxService_DepositFungible_FullMethodName  = "/boxd.v1.BoxService/DepositFungible"
	BoxService_WithdrawFungible_FullMethodName = "/boxd.v1.BoxService/WithdrawFungible"
	BoxService_DepositNft_FullMethodName       = "/boxd.v1.BoxService/DepositNft"
	BoxService_WithdrawNft_FullMethodName      = "/boxd.v1.BoxService/WithdrawNft"
	BoxService_GetBalance_FullMethodName       = "/boxd.v1.BoxService/GetBalance"
	BoxService_ContainsNft_FullMethodName      = "/boxd.v1.BoxService/ContainsNft"
	BoxService_GetBox_FullMethodName           = "/boxd.v1.BoxService/GetBox"
	BoxService_GetPeer_FullMethodName          = "/boxd.v1.BoxService/GetPeer"
	BoxService_QuoteFee_FullMethodName         = "/boxd.v1.BoxService/QuoteFee"
	BoxService_Bridge_FullMethodName           = "/boxd.v1.BoxService/Bridge"
	BoxService_GetEventStream_FullMethodName   = "/boxd.v1.BoxService/GetEventStream"
)

type BoxServiceClient interface {
	GetInfo(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*GetInfoResponse, error)
	Mint(ctx context.Context, in *MintRequest, opts ...grpc.CallOption) (*MintResponse, error)
	Transfer(ctx context.Context, in *TransferRequest, opts ...grpc.CallOption) (*Empty, error)
	GetOwner(ctx context.Context, in *GetOwnerRequest, opts ...grpc.CallOption) (*GetOwnerResponse, error)
	ListBoxes(ctx context.Context, in *ListBoxesRequest, opts ...grpc.CallOption) (*ListBoxesResponse, error)
	DepositFungible(ctx context.Context, in *DepositFungibleRequest, opts ...grpc.CallOption) (*Empty, error)
	WithdrawFungible(ctx context.Context, in *WithdrawFungibleRequest, opts ...grpc.CallOption) (*WithdrawFungibleResponse, error)
	DepositNft(ctx context.Context, in *DepositNftRequest, opts ...grpc.CallOption) (*Empty, error)
	WithdrawNft(ctx context.Context, in *WithdrawNftRequest, opts ...grpc.CallOption) (*Empty, error)
	GetBalance(ctx context.Context, in *GetBalanceRequest, opts ...grpc.CallOption) (*GetBalanceResponse, error)
	ContainsNft(ctx context.Context, in *ContainsNftRequest, opts ...grpc.CallOption) (*ContainsNftResponse, error)
	GetBox(ctx context.Context, in *GetBoxRequest, opts ...grpc.CallOption) (*Box, error)
	GetPeer(ctx context.Context, in *GetPeerRequest, opts ...grpc.CallOption) (*GetPeerResponse, error)
	QuoteFee(ctx context.Context, in *QuoteFeeRequest, opts ...grpc.CallOption) (*QuoteFeeResponse, error)
	Bridge(ctx context.Context, in *BridgeRequest, opts ...grpc.CallOption) (*BridgeResponse, error)
	GetEventStream(ctx context.Context, in *GetEventStreamRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[GetEventStreamResponse], error)
}

type boxServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewBoxServiceClient(cc grpc.ClientConnInterface) BoxServiceClient {
	return &boxServiceClient{cc}
}

func (c *boxServiceClient) GetInfo(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*GetInfoResponse, error) {
	out := new(GetInfoResponse)
	if err := c.cc.Invoke(ctx, BoxService_GetInfo_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *boxServiceClient) Mint(ctx context.Context, in *MintRequest, opts ...grpc.CallOption) (*MintResponse, error) {
	out := new(MintResponse)
	if err := c.cc.Invoke(ctx, BoxService_Mint_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *boxServiceClient) Transfer(ctx context.Context, in *TransferRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, BoxService_Transfer_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *boxServiceClient) GetOwner(ctx context.Context, in *GetOwnerRequest, opts ...grpc.CallOption) (*GetOwnerResponse, error) {
	out := new(GetOwnerResponse)
	if err := c.cc.Invoke(ctx, BoxService_GetOwner_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *boxServiceClient) ListBoxes(ctx context.Context, in *ListBoxesRequest, opts ...grpc.CallOption) (*ListBoxesResponse, error) {
	out := new(ListBoxesResponse)
	if err := c.cc.Invoke(ctx, BoxService_ListBoxes_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *boxServiceClient) DepositFungible(ctx context.Context, in *DepositFungibleRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, BoxService_DepositFungible_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *boxServiceClient) WithdrawFungible(ctx context.Context, in *WithdrawFungibleRequest, opts ...grpc.CallOption) (*WithdrawFungibleResponse, error) {
	out := new(WithdrawFungibleResponse)
	if err := c.cc.Invoke(ctx, BoxService_WithdrawFungible_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *boxServiceClient) DepositNft(ctx context.Context, in *DepositNftRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, BoxService_DepositNft_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *boxServiceClient) WithdrawNft(ctx context.Context, in *WithdrawNftRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, BoxService_WithdrawNft_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *boxServiceClient) GetBalance(ctx context.Context, in *GetBalanceRequest, opts ...grpc.CallOption) (*GetBalanceResponse, error) {
	out := new(GetBalanceResponse)
	if err := c.cc.Invoke(ctx, BoxService_GetBalance_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *boxServiceClient) ContainsNft(ctx context.Context, in *ContainsNftRequest, opts ...grpc.CallOption) (*ContainsNftResponse, error) {
	out := new(ContainsNftResponse)
	if err := c.cc.Invoke(ctx, BoxService_ContainsNft_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *boxServiceClient) GetBox(ctx context.Context, in *GetBoxRequest, opts ...grpc.CallOption) (*Box, error) {
	out := new(Box)
	if err := c.cc.Invoke(ctx, BoxService_GetBox_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *boxServiceClient) GetPeer(ctx context.Context, in *GetPeerRequest, opts ...grpc.CallOption) (*GetPeerResponse, error) {
	out := new(GetPeerResponse)
	if err := c.cc.Invoke(ctx, BoxService_GetPeer_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *boxServiceClient) QuoteFee(ctx context.Context, in *QuoteFeeRequest, opts ...grpc.CallOption) (*QuoteFeeResponse, error) {
	out := new(QuoteFeeResponse)
	if err := c.cc.Invoke(ctx, BoxService_QuoteFee_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *boxServiceClient) Bridge(ctx context.Context, in *BridgeRequest, opts ...grpc.CallOption) (*BridgeResponse, error) {
	out := new(BridgeResponse)
	if err := c.cc.Invoke(ctx, BoxService_Bridge_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *boxServiceClient) GetEventStream(ctx context.Context, in *GetEventStreamRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[GetEventStreamResponse], error) {
	stream, err := c.cc.NewStream(ctx, &BoxService_ServiceDesc.Streams[0], BoxService_GetEventStream_FullMethodName, withCodec(opts)...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[GetEventStreamRequest, GetEventStreamResponse]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type BoxServiceServer interface {
	GetInfo(context.Context, *Empty) (*GetInfoResponse, error)
	Mint(context.Context, *MintRequest) (*MintResponse, error)
	Transfer(context.Context, *TransferRequest) (*Empty, error)
	GetOwner(context.Context, *GetOwnerRequest) (*GetOwnerResponse, error)
	ListBoxes(context.Context, *ListBoxesRequest) (*ListBoxesResponse, error)
	DepositFungible(context.Context, *DepositFungibleRequest) (*Empty, error)
	WithdrawFungible(context.Context, *WithdrawFungibleRequest) (*WithdrawFungibleResponse, error)
	DepositNft(context.Context, *DepositNftRequest) (*Empty, error)
	WithdrawNft(context.Context, *WithdrawNftRequest) (*Empty, error)
	GetBalance(context.Context, *GetBalanceRequest) (*GetBalanceResponse, error)
	ContainsNft(context.Context, *ContainsNftRequest) (*ContainsNftResponse, error)
	GetBox(context.Context, *GetBoxRequest) (*Box, error)
	GetPeer(context.Context, *GetPeerRequest) (*GetPeerResponse, error)
	QuoteFee(context.Context, *QuoteFeeRequest) (*QuoteFeeResponse, error)
	Bridge(context.Context, *BridgeRequest) (*BridgeResponse, error)
	GetEventStream(*GetEventStreamRequest, grpc.ServerStreamingServer[GetEventStreamResponse]) error
}

// UnimplementedBoxServiceServer can be embedded to have forward compatible implementations.
type UnimplementedBoxServiceServer struct{}

func (UnimplementedBoxServiceServer) GetInfo(context.Context, *Empty) (*GetInfoResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetInfo not implemented")
}

func (UnimplementedBoxServiceServer) Mint(context.Context, *MintRequest) (*MintResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Mint not implemented")
}

func (UnimplementedBoxServiceServer) Transfer(context.Context, *TransferRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Transfer not implemented")
}

func (UnimplementedBoxServiceServer) GetOwner(context.Context, *GetOwnerRequest) (*GetOwnerResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetOwner not implemented")
}

func (UnimplementedBoxServiceServer) ListBoxes(context.Context, *ListBoxesRequest) (*ListBoxesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListBoxes not implemented")
}

func (UnimplementedBoxServiceServer) DepositFungible(context.Context, *DepositFungibleRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method DepositFungible not implemented")
}

func (UnimplementedBoxServiceServer) WithdrawFungible(context.Context, *WithdrawFungibleRequest) (*WithdrawFungibleResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method WithdrawFungible not implemented")
}

func (UnimplementedBoxServiceServer) DepositNft(context.Context, *DepositNftRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method DepositNft not implemented")
}

func (UnimplementedBoxServiceServer) WithdrawNft(context.Context, *WithdrawNftRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method WithdrawNft not implemented")
}

func (UnimplementedBoxServiceServer) GetBalance(context.Context, *GetBalanceRequest) (*GetBalanceResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetBalance not implemented")
}

func (UnimplementedBoxServiceServer) ContainsNft(context.Context, *ContainsNftRequest) (*ContainsNftResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ContainsNft not implemented")
}

func (UnimplementedBoxServiceServer) GetBox(context.Context, *GetBoxRequest) (*Box, error) {
	return nil, status.Error(codes.Unimplemented, "method GetBox not implemented")
}

func (UnimplementedBoxServiceServer) GetPeer(context.Context, *GetPeerRequest) (*GetPeerResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetPeer not implemented")
}

func (UnimplementedBoxServiceServer) QuoteFee(context.Context, *QuoteFeeRequest) (*QuoteFeeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method QuoteFee not implemented")
}

func (UnimplementedBoxServiceServer) Bridge(context.Context, *BridgeRequest) (*BridgeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Bridge not implemented")
}

func (UnimplementedBoxServiceServer) GetEventStream(*GetEventStreamRequest, grpc.ServerStreamingServer[GetEventStreamResponse]) error {
	return status.Error(codes.Unimplemented, "method GetEventStream not implemented")
}

func RegisterBoxServiceServer(s grpc.ServiceRegistrar, srv BoxServiceServer) {
	s.RegisterService(&BoxService_ServiceDesc, srv)
}

func _BoxService_GetInfo_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BoxServiceServer).GetInfo(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: BoxService_GetInfo_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BoxServiceServer).GetInfo(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _BoxService_Mint_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(MintRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BoxServiceServer).Mint(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: BoxService_Mint_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BoxServiceServer).Mint(ctx, req.(*MintRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _BoxService_Transfer_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(TransferRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BoxServiceServer).Transfer(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: BoxService_Transfer_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BoxServiceServer).Transfer(ctx, req.(*TransferRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _BoxService_GetOwner_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetOwnerRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BoxServiceServer).GetOwner(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: BoxService_GetOwner_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BoxServiceServer).GetOwner(ctx, req.(*GetOwnerRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _BoxService_ListBoxes_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListBoxesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BoxServiceServer).ListBoxes(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: BoxService_ListBoxes_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BoxServiceServer).ListBoxes(ctx, req.(*ListBoxesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _BoxService_DepositFungible_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DepositFungibleRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BoxServiceServer).DepositFungible(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: BoxService_DepositFungible_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BoxServiceServer).DepositFungible(ctx, req.(*DepositFungibleRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _BoxService_WithdrawFungible_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(WithdrawFungibleRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BoxServiceServer).WithdrawFungible(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: BoxService_WithdrawFungible_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BoxServiceServer).WithdrawFungible(ctx, req.(*WithdrawFungibleRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _BoxService_DepositNft_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DepositNftRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BoxServiceServer).DepositNft(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: BoxService_DepositNft_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BoxServiceServer).DepositNft(ctx, req.(*DepositNftRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _BoxService_WithdrawNft_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(WithdrawNftRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BoxServiceServer).WithdrawNft(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: BoxService_WithdrawNft_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BoxServiceServer).WithdrawNft(ctx, req.(*WithdrawNftRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _BoxService_GetBalance_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetBalanceRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BoxServiceServer).GetBalance(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: BoxService_GetBalance_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BoxServiceServer).GetBalance(ctx, req.(*GetBalanceRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _BoxService_ContainsNft_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ContainsNftRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BoxServiceServer).ContainsNft(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: BoxService_ContainsNft_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BoxServiceServer).ContainsNft(ctx, req.(*ContainsNftRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _BoxService_GetBox_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetBoxRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BoxServiceServer).GetBox(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: BoxService_GetBox_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BoxServiceServer).GetBox(ctx, req.(*GetBoxRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _BoxService_GetPeer_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetPeerRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BoxServiceServer).GetPeer(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: BoxService_GetPeer_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BoxServiceServer).GetPeer(ctx, req.(*GetPeerRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _BoxService_QuoteFee_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(QuoteFeeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BoxServiceServer).QuoteFee(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: BoxService_QuoteFee_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BoxServiceServer).QuoteFee(ctx, req.(*QuoteFeeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _BoxService_Bridge_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(BridgeRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BoxServiceServer).Bridge(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: BoxService_Bridge_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BoxServiceServer).Bridge(ctx, req.(*BridgeRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _BoxService_GetEventStream_Handler(srv any, stream grpc.ServerStream) error {
	in := new(GetEventStreamRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(BoxServiceServer).GetEventStream(in, &grpc.GenericServerStream[GetEventStreamRequest, GetEventStreamResponse]{ServerStream: stream})
}

var BoxService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "boxd.v1.BoxService",
	HandlerType: (*BoxServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetInfo", Handler: _BoxService_GetInfo_Handler},
		{MethodName: "Mint", Handler: _BoxService_Mint_Handler},
		{MethodName: "Transfer", Handler: _BoxService_Transfer_Handler},
		{MethodName: "GetOwner", Handler: _BoxService_GetOwner_Handler},
		{MethodName: "ListBoxes", Handler: _BoxService_ListBoxes_Handler},
		{MethodName: "DepositFungible", Handler: _BoxService_DepositFungible_Handler},
		{MethodName: "WithdrawFungible", Handler: _BoxService_WithdrawFungible_Handler},
		{MethodName: "DepositNft", Handler: _BoxService_DepositNft_Handler},
		{MethodName: "WithdrawNft", Handler: _BoxService_WithdrawNft_Handler},
		{MethodName: "GetBalance", Handler: _BoxService_GetBalance_Handler},
		{MethodName: "ContainsNft", Handler: _BoxService_ContainsNft_Handler},
		{MethodName: "GetBox", Handler: _BoxService_GetBox_Handler},
		{MethodName: "GetPeer", Handler: _BoxService_GetPeer_Handler},
		{MethodName: "QuoteFee", Handler: _BoxService_QuoteFee_Handler},
		{MethodName: "Bridge", Handler: _BoxService_Bridge_Handler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "GetEventStream", Handler: _BoxService_GetEventStream_Handler, ServerStreams: true},
	},
	Metadata: "boxd/v1/service.go",
}

const (
	AdminService_SetPeer_FullMethodName              = "/boxd.v1.AdminService/SetPeer"
	AdminService_ListPeers_FullMethodName            = "/boxd.v1.AdminService/ListPeers"
	AdminService_GetFeeBalance_FullMethodName        = "/boxd.v1.AdminService/GetFeeBalance"
	AdminService_WithdrawFees_FullMethodName         = "/boxd.v1.AdminService/WithdrawFees"
	AdminService_ResendBridgeMessage_FullMethodName  = "/boxd.v1.AdminService/ResendBridgeMessage"
	AdminService_ListOutboundMessages_FullMethodName = "/boxd.v1.AdminService/ListOutboundMessages"
)

type AdminServiceClient interface {
	SetPeer(ctx context.Context, in *SetPeerRequest, opts ...grpc.CallOption) (*Empty, error)
	ListPeers(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListPeersResponse, error)
	GetFeeBalance(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*GetFeeBalanceResponse, error)
	WithdrawFees(ctx context.Context, in *WithdrawFeesRequest, opts ...grpc.CallOption) (*WithdrawFeesResponse, error)
	ResendBridgeMessage(ctx context.Context, in *ResendBridgeMessageRequest, opts ...grpc.CallOption) (*Empty, error)
	ListOutboundMessages(ctx context.Context, in *ListOutboundMessagesRequest, opts ...grpc.CallOption) (*ListOutboundMessagesResponse, error)
}

type adminServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAdminServiceClient(cc grpc.ClientConnInterface) AdminServiceClient {
	return &adminServiceClient{cc}
}

func (c *adminServiceClient) SetPeer(ctx context.Context, in *SetPeerRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, AdminService_SetPeer_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *adminServiceClient) ListPeers(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListPeersResponse, error) {
	out := new(ListPeersResponse)
	if err := c.cc.Invoke(ctx, AdminService_ListPeers_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *adminServiceClient) GetFeeBalance(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*GetFeeBalanceResponse, error) {
	out := new(GetFeeBalanceResponse)
	if err := c.cc.Invoke(ctx, AdminService_GetFeeBalance_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *adminServiceClient) WithdrawFees(ctx context.Context, in *WithdrawFeesRequest, opts ...grpc.CallOption) (*WithdrawFeesResponse, error) {
	out := new(WithdrawFeesResponse)
	if err := c.cc.Invoke(ctx, AdminService_WithdrawFees_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *adminServiceClient) ResendBridgeMessage(ctx context.Context, in *ResendBridgeMessageRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, AdminService_ResendBridgeMessage_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *adminServiceClient) ListOutboundMessages(ctx context.Context, in *ListOutboundMessagesRequest, opts ...grpc.CallOption) (*ListOutboundMessagesResponse, error) {
	out := new(ListOutboundMessagesResponse)
	if err := c.cc.Invoke(ctx, AdminService_ListOutboundMessages_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

type AdminServiceServer interface {
	SetPeer(context.Context, *SetPeerRequest) (*Empty, error)
	ListPeers(context.Context, *Empty) (*ListPeersResponse, error)
	GetFeeBalance(context.Context, *Empty) (*GetFeeBalanceResponse, error)
	WithdrawFees(context.Context, *WithdrawFeesRequest) (*WithdrawFeesResponse, error)
	ResendBridgeMessage(context.Context, *ResendBridgeMessageRequest) (*Empty, error)
	ListOutboundMessages(context.Context, *ListOutboundMessagesRequest) (*ListOutboundMessagesResponse, error)
}

// UnimplementedAdminServiceServer can be embedded to have forward compatible implementations.
type UnimplementedAdminServiceServer struct{}

func (UnimplementedAdminServiceServer) SetPeer(context.Context, *SetPeerRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method SetPeer not implemented")
}

func (UnimplementedAdminServiceServer) ListPeers(context.Context, *Empty) (*ListPeersResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListPeers not implemented")
}

func (UnimplementedAdminServiceServer) GetFeeBalance(context.Context, *Empty) (*GetFeeBalanceResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetFeeBalance not implemented")
}

func (UnimplementedAdminServiceServer) WithdrawFees(context.Context, *WithdrawFeesRequest) (*WithdrawFeesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method WithdrawFees not implemented")
}

func (UnimplementedAdminServiceServer) ResendBridgeMessage(context.Context, *ResendBridgeMessageRequest) (*Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method ResendBridgeMessage not implemented")
}

func (UnimplementedAdminServiceServer) ListOutboundMessages(context.Context, *ListOutboundMessagesRequest) (*ListOutboundMessagesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListOutboundMessages not implemented")
}

func RegisterAdminServiceServer(s grpc.ServiceRegistrar, srv AdminServiceServer) {
	s.RegisterService(&AdminService_ServiceDesc, srv)
}

func _AdminService_SetPeer_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SetPeerRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServiceServer).SetPeer(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: AdminService_SetPeer_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AdminServiceServer).SetPeer(ctx, req.(*SetPeerRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _AdminService_ListPeers_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServiceServer).ListPeers(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: AdminService_ListPeers_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AdminServiceServer).ListPeers(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _AdminService_GetFeeBalance_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServiceServer).GetFeeBalance(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: AdminService_GetFeeBalance_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AdminServiceServer).GetFeeBalance(ctx, req.(*Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func _AdminService_WithdrawFees_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(WithdrawFeesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServiceServer).WithdrawFees(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: AdminService_WithdrawFees_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AdminServiceServer).WithdrawFees(ctx, req.(*WithdrawFeesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _AdminService_ResendBridgeMessage_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ResendBridgeMessageRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServiceServer).ResendBridgeMessage(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: AdminService_ResendBridgeMessage_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AdminServiceServer).ResendBridgeMessage(ctx, req.(*ResendBridgeMessageRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _AdminService_ListOutboundMessages_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListOutboundMessagesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AdminServiceServer).ListOutboundMessages(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: AdminService_ListOutboundMessages_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AdminServiceServer).ListOutboundMessages(ctx, req.(*ListOutboundMessagesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var AdminService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "boxd.v1.AdminService",
	HandlerType: (*AdminServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SetPeer", Handler: _AdminService_SetPeer_Handler},
		{MethodName: "ListPeers", Handler: _AdminService_ListPeers_Handler},
		{MethodName: "GetFeeBalance", Handler: _AdminService_GetFeeBalance_Handler},
		{MethodName: "WithdrawFees", Handler: _AdminService_WithdrawFees_Handler},
		{MethodName: "ResendBridgeMessage", Handler: _AdminService_ResendBridgeMessage_Handler},
		{MethodName: "ListOutboundMessages", Handler: _AdminService_ListOutboundMessages_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "boxd/v1/service.go",
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}
