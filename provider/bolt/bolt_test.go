package bolt

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTemp(t *testing.T, path, bucket string) *Bolt {
	t.Helper()
	p, err := Open(Config{Path: path, Bucket: bucket})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return p
}

func TestBoltPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	p := openTemp(t, path, "catbox")
	if ok, err := p.Set(ctx, "s/1", []byte("v1"), 0); err != nil || !ok {
		t.Fatalf("Set: ok=%v err=%v", ok, err)
	}
	if err := p.Close(ctx); err != nil {
		t.Fatal(err)
	}

	p = openTemp(t, path, "catbox")
	t.Cleanup(func() { _ = p.Close(ctx) })
	b, ok, err := p.Get(ctx, "s/1")
	if err != nil || !ok || !bytes.Equal(b, []byte("v1")) {
		t.Fatalf("Get after reopen: b=%q ok=%v err=%v", b, ok, err)
	}
}

func TestBoltPartitionsAreBuckets(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "cache.db")

	a := openTemp(t, path, "a")
	if _, err := a.Set(ctx, "s/1", []byte("from-a"), 0); err != nil {
		t.Fatal(err)
	}
	if err := a.Close(ctx); err != nil {
		t.Fatal(err)
	}

	b := openTemp(t, path, "b")
	t.Cleanup(func() { _ = b.Close(ctx) })
	if _, ok, _ := b.Get(ctx, "s/1"); ok {
		t.Fatalf("partition b sees partition a's key")
	}
}

func TestBoltNativeExpiryAndDelete(t *testing.T) {
	ctx := context.Background()
	p := openTemp(t, filepath.Join(t.TempDir(), "cache.db"), "catbox")
	t.Cleanup(func() { _ = p.Close(ctx) })

	now := time.Now()
	p.now = func() time.Time { return now }
	if _, err := p.Set(ctx, "k", []byte("v"), time.Second); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := p.Get(ctx, "k"); !ok {
		t.Fatalf("expected hit before expiry")
	}
	p.now = func() time.Time { return now.Add(2 * time.Second) }
	if _, ok, _ := p.Get(ctx, "k"); ok {
		t.Fatalf("expected miss after native expiry")
	}

	if err := p.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if err := p.Del(ctx, "missing"); err != nil {
		t.Fatalf("Del missing: %v", err)
	}
}

func TestBoltRequiresPath(t *testing.T) {
	if _, err := Open(Config{Bucket: "x"}); err != ErrEmptyPath {
		t.Fatalf("err=%v want ErrEmptyPath", err)
	}
}
