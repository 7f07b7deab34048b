package memory

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestMemoryGetSetDel(t *testing.T) {
	ctx := context.Background()
	m := New(Config{})
	t.Cleanup(func() { _ = m.Close(ctx) })

	if _, ok, err := m.Get(ctx, "s/a"); err != nil || ok {
		t.Fatalf("expected miss, ok=%v err=%v", ok, err)
	}
	if ok, err := m.Set(ctx, "s/a", []byte("v"), 0); err != nil || !ok {
		t.Fatalf("Set: ok=%v err=%v", ok, err)
	}
	b, ok, err := m.Get(ctx, "s/a")
	if err != nil || !ok || !bytes.Equal(b, []byte("v")) {
		t.Fatalf("Get: b=%q ok=%v err=%v", b, ok, err)
	}
	if err := m.Del(ctx, "s/a"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if err := m.Del(ctx, "never/there"); err != nil {
		t.Fatalf("Del missing: %v", err)
	}
	if _, ok, _ := m.Get(ctx, "s/a"); ok {
		t.Fatalf("expected miss after Del")
	}
}

func TestMemoryNativeTTL(t *testing.T) {
	ctx := context.Background()
	m := New(Config{})
	t.Cleanup(func() { _ = m.Close(ctx) })

	if _, err := m.Set(ctx, "k", []byte("v"), 5*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(20 * time.Millisecond)
	if _, ok, _ := m.Get(ctx, "k"); ok {
		t.Fatalf("expected native expiry")
	}
}
