package embedded

import (
	"github.com/unkn0wn-root/cachebox"
	c "github.com/unkn0wn-root/cachebox/codec"
	"github.com/unkn0wn-root/cachebox/config"
	"github.com/unkn0wn-root/cachebox/provider"
	"github.com/unkn0wn-root/cachebox/provider/bolt"
	"github.com/unkn0wn-root/cachebox/provider/memory"
	"github.com/unkn0wn-root/cachebox/provider/redis"
)

// Settings select where the node store lives.
type Settings struct {
	Partition string   // default "catbox"
	Peers     []string // redis addresses; non-empty => shared store
	File      string   // bolt file; used when Peers is empty
}

// SettingsFrom picks the embedded fields out of a loaded config.
func SettingsFrom(cfg config.Config) Settings {
	return Settings{
		Partition: cfg.Partition,
		Peers:     config.NormalizePeers(cfg.Peers),
		File:      cfg.File,
	}
}

// Factory opens the node store for a starting connector. The store is closed
// by Stop.
type Factory func(Settings) (provider.Provider, error)

// DefaultFactory picks redis when peers are set, then a bolt file, then the
// in-process go-cache store.
func DefaultFactory(s Settings) (provider.Provider, error) {
	switch {
	case len(s.Peers) > 0:
		return redis.NewFromPeers(s.Partition, s.Peers)
	case s.File != "":
		return bolt.Open(bolt.Config{Path: s.File, Bucket: s.Partition})
	default:
		return memory.New(memory.Config{}), nil
	}
}

type Options[V any] struct {
	Settings

	Codec   c.Codec[V]      // nil => JSON
	Logger  cachebox.Logger // nil => NopLogger
	Hooks   cachebox.Hooks  // nil => NopHooks
	Factory Factory         // nil => DefaultFactory
}
