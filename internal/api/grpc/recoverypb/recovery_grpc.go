// Package recoverypb declares the recovery gRPC services. Messages are the
// protobuf well-known types; structured payloads travel as JSON bytes or
// google.protobuf.Struct.
package recoverypb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	ChainServiceName    = "recovery.Chain"
	ProducerServiceName = "recovery.Producer"

	Chain_PushTransaction_FullMethodName = "/recovery.Chain/PushTransaction"
	Chain_GetAccount_FullMethodName      = "/recovery.Chain/GetAccount"
	Chain_GetRecovery_FullMethodName     = "/recovery.Chain/GetRecovery"
	Chain_ListRecoveries_FullMethodName  = "/recovery.Chain/ListRecoveries"

	Producer_ProduceBlock_FullMethodName  = "/recovery.Producer/ProduceBlock"
	Producer_FlushDeferred_FullMethodName = "/recovery.Producer/FlushDeferred"
	Producer_HeadBlock_FullMethodName     = "/recovery.Producer/HeadBlock"
)

// ChainServer is the public ledger API.
type ChainServer interface {
	// PushTransaction accepts a JSON encoded signed transaction.
	PushTransaction(context.Context, *wrapperspb.BytesValue) (*structpb.Struct, error)
	GetAccount(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	GetRecovery(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ListRecoveries(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
}

// ProducerServer is the operator API driving block production.
type ProducerServer interface {
	// ProduceBlock takes the extra time to skip in milliseconds.
	ProduceBlock(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
	FlushDeferred(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	HeadBlock(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

func RegisterChainServer(s grpc.ServiceRegistrar, srv ChainServer) {
	s.RegisterService(&Chain_ServiceDesc, srv)
}

func RegisterProducerServer(s grpc.ServiceRegistrar, srv ProducerServer) {
	s.RegisterService(&Producer_ServiceDesc, srv)
}

func unaryHandler[Req any, Srv any](
	fullMethod string,
	call func(srv Srv, ctx context.Context, req *Req) (*structpb.Struct, error),
) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(Srv), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(Srv), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Chain_ServiceDesc is the grpc.ServiceDesc for the Chain service.
var Chain_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ChainServiceName,
	HandlerType: (*ChainServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "PushTransaction",
			Handler: unaryHandler(Chain_PushTransaction_FullMethodName, func(srv ChainServer, ctx context.Context, req *wrapperspb.BytesValue) (*structpb.Struct, error) {
				return srv.PushTransaction(ctx, req)
			}),
		},
		{
			MethodName: "GetAccount",
			Handler: unaryHandler(Chain_GetAccount_FullMethodName, func(srv ChainServer, ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
				return srv.GetAccount(ctx, req)
			}),
		},
		{
			MethodName: "GetRecovery",
			Handler: unaryHandler(Chain_GetRecovery_FullMethodName, func(srv ChainServer, ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
				return srv.GetRecovery(ctx, req)
			}),
		},
		{
			MethodName: "ListRecoveries",
			Handler: unaryHandler(Chain_ListRecoveries_FullMethodName, func(srv ChainServer, ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
				return srv.ListRecoveries(ctx, req)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "recovery.proto",
}

// Producer_ServiceDesc is the grpc.ServiceDesc for the Producer service.
var Producer_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ProducerServiceName,
	HandlerType: (*ProducerServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ProduceBlock",
			Handler: unaryHandler(Producer_ProduceBlock_FullMethodName, func(srv ProducerServer, ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
				return srv.ProduceBlock(ctx, req)
			}),
		},
		{
			MethodName: "FlushDeferred",
			Handler: unaryHandler(Producer_FlushDeferred_FullMethodName, func(srv ProducerServer, ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
				return srv.FlushDeferred(ctx, req)
			}),
		},
		{
			MethodName: "HeadBlock",
			Handler: unaryHandler(Producer_HeadBlock_FullMethodName, func(srv ProducerServer, ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
				return srv.HeadBlock(ctx, req)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "recovery.proto",
}

// ChainClient is the client API for the Chain service.
type ChainClient interface {
	PushTransaction(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetAccount(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetRecovery(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListRecoveries(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type chainClient struct {
	cc grpc.ClientConnInterface
}

func NewChainClient(cc grpc.ClientConnInterface) ChainClient {
	return &chainClient{cc}
}

func (c *chainClient) PushTransaction(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, Chain_PushTransaction_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *chainClient) GetAccount(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, Chain_GetAccount_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *chainClient) GetRecovery(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, Chain_GetRecovery_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *chainClient) ListRecoveries(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, Chain_ListRecoveries_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ProducerClient is the client API for the Producer service.
type ProducerClient interface {
	ProduceBlock(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*structpb.Struct, error)
	FlushDeferred(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	HeadBlock(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type producerClient struct {
	cc grpc.ClientConnInterface
}

func NewProducerClient(cc grpc.ClientConnInterface) ProducerClient {
	return &producerClient{cc}
}

func (c *producerClient) ProduceBlock(ctx context.Context, in *wrapperspb.Int64Value, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, Producer_ProduceBlock_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *producerClient) FlushDeferred(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, Producer_FlushDeferred_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *producerClient) HeadBlock(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, Producer_HeadBlock_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
