package cachepb

import (
	"context"

	"google.golang.org/grpc"
)

// CacheServer is the server API for the catbox.Cache service.
type CacheServer interface {
	Ping(context.Context, *Empty) (*Empty, error)
	GetEntry(context.Context, *GetEntryParams) (*Entry, error)
	SetEntry(context.Context, *SetEntryParams) (*Empty, error)
	DeleteEntry(context.Context, *DeleteEntryParams) (*Empty, error)
}

// RegisterCacheServer registers srv on s. s must be built with ServerOption()
// (or another codec that understands Message).
func RegisterCacheServer(s grpc.ServiceRegistrar, srv CacheServer) {
	s.RegisterService(&CacheServiceDesc, srv)
}

// unary adapts one typed method to a grpc.MethodDesc handler.
func unary[In any, Out any, PIn interface {
	*In
	Message
}](fullMethod string, call func(CacheServer, context.Context, PIn) (Out, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := PIn(new(In))
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CacheServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CacheServer), ctx, req.(PIn))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var CacheServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CacheServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ping",
			Handler:    unary[Empty](PingMethod, CacheServer.Ping),
		},
		{
			MethodName: "getEntry",
			Handler:    unary[GetEntryParams](GetEntryMethod, CacheServer.GetEntry),
		},
		{
			MethodName: "setEntry",
			Handler:    unary[SetEntryParams](SetEntryMethod, CacheServer.SetEntry),
		},
		{
			MethodName: "deleteEntry",
			Handler:    unary[DeleteEntryParams](DeleteEntryMethod, CacheServer.DeleteEntry),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cache.proto",
}
