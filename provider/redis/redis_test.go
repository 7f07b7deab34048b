package redis

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T, partition string) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	p, err := NewFromPeers(partition, []string{mr.Addr()})
	if err != nil {
		t.Fatalf("NewFromPeers: %v", err)
	}
	t.Cleanup(func() { _ = p.Close(context.Background()) })
	return p, mr
}

func TestRedisPrefixesPartition(t *testing.T) {
	ctx := context.Background()
	p, mr := newTestRedis(t, "catbox")

	if ok, err := p.Set(ctx, "users/1", []byte("v"), 0); err != nil || !ok {
		t.Fatalf("Set: ok=%v err=%v", ok, err)
	}
	if !mr.Exists("catbox:users/1") {
		t.Fatalf("expected partition-prefixed key in redis, keys=%v", mr.Keys())
	}
	b, ok, err := p.Get(ctx, "users/1")
	if err != nil || !ok || !bytes.Equal(b, []byte("v")) {
		t.Fatalf("Get: b=%q ok=%v err=%v", b, ok, err)
	}
}

func TestRedisMissAndDelete(t *testing.T) {
	ctx := context.Background()
	p, _ := newTestRedis(t, "catbox")

	if _, ok, err := p.Get(ctx, "nope"); err != nil || ok {
		t.Fatalf("expected miss, ok=%v err=%v", ok, err)
	}
	if err := p.Del(ctx, "nope"); err != nil {
		t.Fatalf("Del missing: %v", err)
	}
}

func TestRedisNativeTTL(t *testing.T) {
	ctx := context.Background()
	p, mr := newTestRedis(t, "catbox")

	if _, err := p.Set(ctx, "k", []byte("v"), time.Second); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(2 * time.Second)
	if _, ok, _ := p.Get(ctx, "k"); ok {
		t.Fatalf("expected key to expire")
	}
}

func TestRedisCloseOwnedOnly(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	p, err := New(Config{Client: rdb, Partition: "p"})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Close(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("borrowed client was closed: %v", err)
	}
	if _, err := New(Config{Partition: "p"}); err != ErrNilClient {
		t.Fatalf("err=%v want ErrNilClient", err)
	}
}
