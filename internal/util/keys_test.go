package util

import (
	"math"
	"testing"
	"time"
)

func TestEmbeddedPathKeepsFieldsSeparate(t *testing.T) {
	a := EmbeddedPath("ab", "c")
	b := EmbeddedPath("a", "bc")
	if a == b {
		t.Fatalf("distinct (segment,id) pairs collided: %q", a)
	}
	if got := EmbeddedPath("users", "42"); got != "users/42" {
		t.Fatalf("EmbeddedPath = %q, want users/42", got)
	}
}

func TestRemotePathOrder(t *testing.T) {
	got := RemotePath("catbox", "users", "42")
	want := []string{"catbox", "users", "42"}
	if len(got) != len(want) {
		t.Fatalf("len=%d want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("path[%d]=%q want %q", i, got[i], want[i])
		}
	}
}

func TestPrefixedKeyIsolatesPartitions(t *testing.T) {
	if PrefixedKey("p1", "s/i") == PrefixedKey("p2", "s/i") {
		t.Fatalf("partitions share a key")
	}
}

func TestMillis(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want uint64
	}{
		{0, 0},
		{-time.Second, 0},
		{time.Microsecond, 1},
		{time.Millisecond, 1},
		{1500 * time.Millisecond, 1500},
	}
	for _, tc := range cases {
		if got := Millis(tc.in); got != tc.want {
			t.Fatalf("Millis(%v)=%d want %d", tc.in, got, tc.want)
		}
	}
}

func TestExpired(t *testing.T) {
	now := time.UnixMilli(10_000)
	cases := []struct {
		stored, ttl uint64
		want        bool
	}{
		{9_000, 1_000, true},
		{9_000, 1_001, false},
		{0, 10_000, true},
		{11_000, 1, false}, // written after now
		{9_000, math.MaxUint64, false},
		{math.MaxUint64, math.MaxUint64, false},
	}
	for _, tc := range cases {
		if got := Expired(tc.stored, tc.ttl, now); got != tc.want {
			t.Fatalf("Expired(%d, %d)=%v want %v", tc.stored, tc.ttl, got, tc.want)
		}
	}
	if d := Duration(MaxTTLMillis); d <= 0 {
		t.Fatalf("MaxTTLMillis overflows: %v", d)
	}
	if Duration(math.MaxUint64) != Duration(MaxTTLMillis) {
		t.Fatalf("Duration does not saturate")
	}
	if Duration(1500) != 1500*time.Millisecond {
		t.Fatalf("Duration(1500)=%v", Duration(1500))
	}
}
