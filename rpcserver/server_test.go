package rpcserver

import (
	"context"
	"errors"
	"math"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/unkn0wn-root/cachebox"
	"github.com/unkn0wn-root/cachebox/internal/util"
	"github.com/unkn0wn-root/cachebox/provider"
	"github.com/unkn0wn-root/cachebox/provider/memory"
	"github.com/unkn0wn-root/cachebox/provider/redis"
	"github.com/unkn0wn-root/cachebox/remote"
	pb "github.com/unkn0wn-root/cachebox/rpc/cachepb"
)

// serve runs srv on an in-memory listener and returns a started connector.
func serve(t *testing.T, srv *Server) *remote.Connector[string] {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	gs := grpc.NewServer(pb.ServerOption())
	srv.Register(gs)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	cn, err := remote.New(remote.Options[string]{
		Dial: func(ctx context.Context, _ remote.Settings) (*grpc.ClientConn, error) {
			return grpc.NewClient("passthrough:///bufnet",
				grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
					return lis.DialContext(ctx)
				}),
				grpc.WithTransportCredentials(insecure.NewCredentials()),
			)
		},
		RetryDelay:  time.Millisecond,
		PingOnStart: true,
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := cn.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(func() { _ = cn.Stop(context.Background()) })
	return cn
}

func TestRemoteRoundTripOverMemory(t *testing.T) {
	cn := serve(t, New(memory.New(memory.Config{}), Options{}))
	ctx := context.Background()
	key := cachebox.Key{Segment: "users", ID: "1"}

	if env, err := cn.Get(ctx, key); err != nil || env != nil {
		t.Fatalf("miss: env=%v err=%v", env, err)
	}
	if err := cn.Set(ctx, key, "alice", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	env, err := cn.Get(ctx, key)
	if err != nil || env == nil || env.Item != "alice" || env.TTL != time.Minute {
		t.Fatalf("get: env=%+v err=%v", env, err)
	}
	if err := cn.Drop(ctx, key); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if err := cn.Drop(ctx, key); err != nil {
		t.Fatalf("second drop: %v", err)
	}
	if env, _ := cn.Get(ctx, key); env != nil {
		t.Fatalf("expected miss after drop")
	}
}

func TestRemoteExpiryOverRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	store, err := redis.New(redis.Config{Client: rdb, Partition: "server", CloseClient: true})
	if err != nil {
		t.Fatalf("redis: %v", err)
	}
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	cn := serve(t, New(store, Options{}))
	ctx := context.Background()
	key := cachebox.Key{Segment: "s", ID: "k"}

	if err := cn.Set(ctx, key, "v", 50*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("server:catbox:s/k") {
		t.Fatalf("keys=%v", mr.Keys())
	}
	mr.FastForward(time.Second)
	if env, _ := cn.Get(ctx, key); env != nil {
		t.Fatalf("expected miss after native expiry")
	}
}

func TestReadPastTTLIsNotFound(t *testing.T) {
	srv := New(memory.New(memory.Config{}), Options{})
	ctx := context.Background()
	path := []string{"catbox", "s", "k"}
	if _, err := srv.SetEntry(ctx, &pb.SetEntryParams{Path: path, Item: "v", TTL: 1000}); err != nil {
		t.Fatalf("set: %v", err)
	}
	srv.now = func() time.Time { return time.Now().Add(2 * time.Second) }
	_, err := srv.GetEntry(ctx, &pb.GetEntryParams{Path: path})
	if status.Code(err) != codes.NotFound {
		t.Fatalf("err=%v", err)
	}
}

func TestInvalidArguments(t *testing.T) {
	srv := New(memory.New(memory.Config{}), Options{})
	ctx := context.Background()

	for _, path := range [][]string{nil, {"a", "b"}, {"a", "", "c"}, {"a", "b", "c", "d"}} {
		if _, err := srv.GetEntry(ctx, &pb.GetEntryParams{Path: path}); status.Code(err) != codes.InvalidArgument {
			t.Fatalf("path %q: %v", path, err)
		}
	}
	_, err := srv.SetEntry(ctx, &pb.SetEntryParams{Path: []string{"p", "s", "k"}, Item: "v"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("ttl 0: %v", err)
	}
}

func TestTTLBeyondDurationRangeIsInvalid(t *testing.T) {
	mem := memory.New(memory.Config{})
	srv := New(mem, Options{})
	ctx := context.Background()

	for _, ttl := range []uint64{util.MaxTTLMillis + 1, math.MaxUint64} {
		_, err := srv.SetEntry(ctx, &pb.SetEntryParams{Path: []string{"p", "s", "k"}, Item: "v", TTL: ttl})
		if status.Code(err) != codes.InvalidArgument {
			t.Fatalf("ttl %d: %v", ttl, err)
		}
	}
	if mem.Len() != 0 {
		t.Fatalf("rejected ttl was stored, len=%d", mem.Len())
	}
}

func TestEmptyPartitionIsInvalid(t *testing.T) {
	srv := New(memory.New(memory.Config{}), Options{})
	_, err := srv.DeleteEntry(context.Background(), &pb.DeleteEntryParams{Path: []string{"", "s", "k"}})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("err=%v", err)
	}
}

// rejecting refuses every write.
type rejecting struct{ *memory.Memory }

func (rejecting) Set(context.Context, string, []byte, time.Duration) (bool, error) { return false, nil }

// broken fails every operation.
type broken struct{ *memory.Memory }

func (broken) Get(context.Context, string) ([]byte, bool, error) { return nil, false, errors.New("down") }
func (broken) Del(context.Context, string) error                 { return errors.New("down") }

var (
	_ provider.Provider = rejecting{}
	_ provider.Provider = broken{}
)

func TestStoreFailuresAreInternal(t *testing.T) {
	ctx := context.Background()
	key := cachebox.Key{Segment: "s", ID: "k"}

	cn := serve(t, New(rejecting{memory.New(memory.Config{})}, Options{}))
	if err := cn.Set(ctx, key, "v", time.Second); !errors.Is(err, cachebox.ErrInternal) {
		t.Fatalf("rejected set: %v", err)
	}

	cn = serve(t, New(broken{memory.New(memory.Config{})}, Options{}))
	if _, err := cn.Get(ctx, key); !errors.Is(err, cachebox.ErrInternal) {
		t.Fatalf("broken get: %v", err)
	}
	if err := cn.Drop(ctx, key); !errors.Is(err, cachebox.ErrInternal) {
		t.Fatalf("broken drop: %v", err)
	}
}
