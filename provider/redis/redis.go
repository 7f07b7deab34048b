package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/cachebox/internal/util"
	pr "github.com/unkn0wn-root/cachebox/provider"
)

var ErrNilClient = errors.New("redis provider: nil client")

// Redis stores nodes in a redis deployment shared with other partitions, so
// every key is prefixed with "<partition>:".
type Redis struct {
	rdb         goredis.UniversalClient
	partition   string
	closeClient bool
}

var _ pr.Provider = (*Redis)(nil)

type Config struct {
	Client      goredis.UniversalClient
	Partition   string // required
	CloseClient bool   // set true only if this provider exclusively owns the client
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	if cfg.Partition == "" {
		return nil, errors.New("redis provider: empty partition")
	}
	return &Redis{rdb: cfg.Client, partition: cfg.Partition, closeClient: cfg.CloseClient}, nil
}

// NewFromPeers builds an owned universal client over peer addresses: one
// address yields a single-node client, several a cluster client.
func NewFromPeers(partition string, peers []string) (*Redis, error) {
	if len(peers) == 0 {
		return nil, errors.New("redis provider: no peers")
	}
	rdb := goredis.NewUniversalClient(&goredis.UniversalOptions{Addrs: peers})
	return New(Config{Client: rdb, Partition: partition, CloseClient: true})
}

func (p *Redis) key(k string) string { return util.PrefixedKey(p.partition, k) }

func (p *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := p.rdb.Get(ctx, p.key(key)).Bytes()
	if err == goredis.Nil {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, err // transport/server error
	}
	return b, true, nil
}

func (p *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = 0 // no expiry
	}
	if err := p.rdb.Set(ctx, p.key(key), value, ttl).Err(); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Redis) Del(ctx context.Context, key string) error {
	return p.rdb.Del(ctx, p.key(key)).Err()
}

// Close releases the underlying redis client only when this provider owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (p *Redis) Close(context.Context) error {
	if p.closeClient {
		if err := p.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
