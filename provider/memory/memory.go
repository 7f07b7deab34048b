// Package memory is the default in-process node store, backed by
// patrickmn/go-cache.
package memory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	pr "github.com/unkn0wn-root/cachebox/provider"
)

const defaultCleanup = time.Minute

type Memory struct {
	c *gocache.Cache
}

var _ pr.Provider = (*Memory)(nil)

type Config struct {
	// CleanupInterval is how often natively expired items are purged; 0 => 1m.
	CleanupInterval time.Duration
}

func New(cfg Config) *Memory {
	cleanup := cfg.CleanupInterval
	if cleanup <= 0 {
		cleanup = defaultCleanup
	}
	return &Memory{c: gocache.New(gocache.NoExpiration, cleanup)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, found := m.c.Get(key)
	if !found || v == nil {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	if !ok {
		// self-heal: drop unexpected entry shape
		m.c.Delete(key)
		return nil, false, nil
	}
	return b, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.c.Set(key, value, ttl)
	return true, nil
}

func (m *Memory) Del(_ context.Context, key string) error {
	m.c.Delete(key)
	return nil
}

// Len is the number of stored items, including natively expired ones not yet purged.
func (m *Memory) Len() int { return m.c.ItemCount() }

func (m *Memory) Close(_ context.Context) error {
	m.c.Flush()
	return nil
}
