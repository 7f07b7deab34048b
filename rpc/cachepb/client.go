package cachepb

import (
	"context"

	"google.golang.org/grpc"
)

const (
	ServiceName = "catbox.Cache"

	PingMethod        = "/catbox.Cache/ping"
	GetEntryMethod    = "/catbox.Cache/getEntry"
	SetEntryMethod    = "/catbox.Cache/setEntry"
	DeleteEntryMethod = "/catbox.Cache/deleteEntry"
)

// CacheClient is the client API for the catbox.Cache service.
type CacheClient interface {
	Ping(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error)
	GetEntry(ctx context.Context, in *GetEntryParams, opts ...grpc.CallOption) (*Entry, error)
	SetEntry(ctx context.Context, in *SetEntryParams, opts ...grpc.CallOption) (*Empty, error)
	DeleteEntry(ctx context.Context, in *DeleteEntryParams, opts ...grpc.CallOption) (*Empty, error)
}

type cacheClient struct {
	cc grpc.ClientConnInterface
}

func NewCacheClient(cc grpc.ClientConnInterface) CacheClient {
	return &cacheClient{cc: cc}
}

func (c *cacheClient) invoke(ctx context.Context, method string, in, out Message, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *cacheClient) Ping(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, PingMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *cacheClient) GetEntry(ctx context.Context, in *GetEntryParams, opts ...grpc.CallOption) (*Entry, error) {
	out := new(Entry)
	if err := c.invoke(ctx, GetEntryMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *cacheClient) SetEntry(ctx context.Context, in *SetEntryParams, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, SetEntryMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *cacheClient) DeleteEntry(ctx context.Context, in *DeleteEntryParams, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.invoke(ctx, DeleteEntryMethod, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
