package ristretto

import (
	"bytes"
	"context"
	"testing"
)

func TestRistrettoSetIsVisibleImmediately(t *testing.T) {
	ctx := context.Background()
	p, err := New(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = p.Close(ctx) })

	ok, err := p.Set(ctx, "s/1", []byte("v"), 0)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Skip("admission refused the write")
	}
	b, hit, err := p.Get(ctx, "s/1")
	if err != nil || !hit || !bytes.Equal(b, []byte("v")) {
		t.Fatalf("Get: b=%q hit=%v err=%v", b, hit, err)
	}
	if err := p.Del(ctx, "s/1"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := p.Get(ctx, "s/1"); hit {
		t.Fatalf("expected miss after Del")
	}
}

func TestRistrettoInvalidConfig(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatalf("expected config error")
	}
}
