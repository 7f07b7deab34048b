// Package rpcserver serves the catbox.Cache RPC service over a node store.
//
// Entries are stored in the same framed layout the embedded connector uses,
// keyed "<partition>:<segment>/<id>". TTL is enforced by the store's native
// expiry and re-checked on read.
package rpcserver

import (
	"context"
	"errors"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/unkn0wn-root/cachebox"
	"github.com/unkn0wn-root/cachebox/internal/util"
	"github.com/unkn0wn-root/cachebox/internal/wire"
	"github.com/unkn0wn-root/cachebox/provider"
	pb "github.com/unkn0wn-root/cachebox/rpc/cachepb"
)

var errBadPath = errors.New("path must be [partition, segment, id] with non-empty parts")

type Server struct {
	p   provider.Provider
	log cachebox.Logger
	now func() time.Time
}

var _ pb.CacheServer = (*Server)(nil)

type Options struct {
	Logger cachebox.Logger // nil => NopLogger
}

func New(p provider.Provider, opts Options) *Server {
	s := &Server{p: p, log: opts.Logger, now: time.Now}
	if s.log == nil {
		s.log = cachebox.NopLogger{}
	}
	return s
}

// Register installs the service on a grpc.Server built with
// cachepb.ServerOption().
func (s *Server) Register(gs *grpc.Server) { pb.RegisterCacheServer(gs, s) }

// storageKey validates path and maps it onto the store's keyspace.
func storageKey(ctx context.Context, path []string) (string, error) {
	if len(path) != 3 || path[0] == "" || path[1] == "" || path[2] == "" {
		_ = grpc.SetTrailer(ctx, metadata.Pairs("field", "path"))
		return "", status.Error(codes.InvalidArgument, errBadPath.Error())
	}
	return util.PrefixedKey(path[0], util.EmbeddedPath(path[1], path[2])), nil
}

func (s *Server) Ping(context.Context, *pb.Empty) (*pb.Empty, error) {
	return &pb.Empty{}, nil
}

func (s *Server) GetEntry(ctx context.Context, in *pb.GetEntryParams) (*pb.Entry, error) {
	k, err := storageKey(ctx, in.Path)
	if err != nil {
		return nil, err
	}
	raw, ok, err := s.p.Get(ctx, k)
	if err != nil {
		s.log.Error("store read failed", cachebox.Fields{"key": k, "err": err})
		return nil, status.Error(codes.Internal, "store read failed")
	}
	if !ok {
		return nil, status.Error(codes.NotFound, "entry not found")
	}

	fr, err := wire.DecodeEnvelope(raw)
	if err != nil {
		_ = s.p.Del(ctx, k) // self-heal corrupt
		s.log.Warn("dropped corrupt entry", cachebox.Fields{"key": k})
		return nil, status.Error(codes.NotFound, "entry not found")
	}
	if util.Expired(fr.Stored, fr.TTL, s.now()) {
		return nil, status.Error(codes.NotFound, "entry not found")
	}
	return &pb.Entry{Item: string(fr.Payload), TTL: fr.TTL, Stored: fr.Stored}, nil
}

func (s *Server) SetEntry(ctx context.Context, in *pb.SetEntryParams) (*pb.Empty, error) {
	k, err := storageKey(ctx, in.Path)
	if err != nil {
		return nil, err
	}
	if in.TTL == 0 {
		_ = grpc.SetTrailer(ctx, metadata.Pairs("field", "ttl"))
		return nil, status.Error(codes.InvalidArgument, "ttl must be positive")
	}
	if in.TTL > util.MaxTTLMillis {
		_ = grpc.SetTrailer(ctx, metadata.Pairs("field", "ttl"))
		return nil, status.Error(codes.InvalidArgument, "ttl out of range")
	}

	buf := wire.EncodeEnvelope(wire.Envelope{
		Stored:  uint64(s.now().UnixMilli()),
		TTL:     in.TTL,
		Payload: []byte(in.Item),
	})
	ok, err := s.p.Set(ctx, k, buf, time.Duration(in.TTL)*time.Millisecond)
	if err != nil {
		s.log.Error("store write failed", cachebox.Fields{"key": k, "err": err})
		return nil, status.Error(codes.Internal, "store write failed")
	}
	if !ok {
		s.log.Warn("store rejected write", cachebox.Fields{"key": k})
		return nil, status.Error(codes.ResourceExhausted, "store rejected write")
	}
	return &pb.Empty{}, nil
}

func (s *Server) DeleteEntry(ctx context.Context, in *pb.DeleteEntryParams) (*pb.Empty, error) {
	k, err := storageKey(ctx, in.Path)
	if err != nil {
		return nil, err
	}
	if err := s.p.Del(ctx, k); err != nil {
		s.log.Error("store delete failed", cachebox.Fields{"key": k, "err": err})
		return nil, status.Error(codes.Internal, "store delete failed")
	}
	return &pb.Empty{}, nil
}
