// Package provider defines the node store behind the embedded connector and
// the reference RPC server.
//
// A store must hand back from Get the exact bytes given to Set. Stores that
// frame values internally (see StampDeadline) strip the framing on read.
//
// One store instance serves one partition. The connector never writes the
// partition into its keys; stores sharing a keyspace with other partitions
// (redis) scope keys themselves, and bolt uses the partition as its bucket.
package provider

import (
	"context"
	"time"
)

// Provider is a byte store that may enforce TTLs natively. Safe for
// concurrent use.
type Provider interface {
	// Get reports a miss as (nil, false, nil). Natively expired entries are
	// misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set writes value. ttl > 0 asks for native expiry where the store has it;
	// ttl <= 0 keeps the entry until deleted. ok=false means the store refused
	// the write (admission or memory pressure).
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) (ok bool, err error)

	// Del writes the tombstone for key. A missing key is not an error.
	Del(ctx context.Context, key string) error

	Close(ctx context.Context) error
}
