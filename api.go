package cachebox

import (
	"context"
	"time"
)

// DefaultPartition is the top-level namespace used when Settings leave it empty.
const DefaultPartition = "catbox"

// Key addresses one cached value. Both fields are required and Segment must
// not contain the NUL character.
type Key struct {
	Segment string
	ID      string
}

// Envelope is a stored value together with its write time and TTL.
// Stored and TTL carry millisecond precision.
type Envelope[V any] struct {
	Item   V
	Stored time.Time
	TTL    time.Duration
}

// Wrap stamps item with the current time. ttl is carried unmodified; callers
// special-case non-positive values.
func Wrap[V any](item V, ttl time.Duration) *Envelope[V] {
	return &Envelope[V]{
		Item:   item,
		Stored: time.UnixMilli(time.Now().UnixMilli()),
		TTL:    ttl,
	}
}

// Connector is the backend contract used by the policy layer above.
// Get returns (nil, nil) on a miss.
type Connector[V any] interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	IsReady() bool

	ValidateSegmentName(name string) error

	Get(ctx context.Context, key Key) (*Envelope[V], error)
	Set(ctx context.Context, key Key, value V, ttl time.Duration) error
	Drop(ctx context.Context, key Key) error
}
