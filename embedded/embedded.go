// Package embedded implements cachebox.Connector over a node store opened in
// process. Entries are framed with their write time and TTL, and removed by
// a per-key timer when the TTL elapses.
package embedded

import (
	"context"
	"errors"
	"hash/maphash"
	"sync"
	"time"

	"github.com/unkn0wn-root/cachebox"
	c "github.com/unkn0wn-root/cachebox/codec"
	"github.com/unkn0wn-root/cachebox/internal/expiry"
	"github.com/unkn0wn-root/cachebox/internal/lifecycle"
	"github.com/unkn0wn-root/cachebox/internal/util"
	"github.com/unkn0wn-root/cachebox/internal/wire"
	"github.com/unkn0wn-root/cachebox/provider"
)

// expiryTimeout bounds the tombstone write issued by an expiry timer.
const expiryTimeout = 5 * time.Second

// keyStripes bounds the per-key write locks; distinct keys rarely share one.
const keyStripes = 64

// store is the started connector's handle.
type store struct {
	p     provider.Provider
	sched *expiry.Scheduler

	seed  maphash.Seed
	locks [keyStripes]sync.Mutex // orders Set/Drop on one key with their timers
}

func (s *store) keyLock(k string) *sync.Mutex {
	return &s.locks[maphash.String(s.seed, k)%keyStripes]
}

type Connector[V any] struct {
	settings Settings
	codec    c.Codec[V]
	log      cachebox.Logger
	hooks    cachebox.Hooks
	factory  Factory
	now      func() time.Time

	lc lifecycle.Lifecycle[*store]
}

var _ cachebox.Connector[struct{}] = (*Connector[struct{}])(nil)

func New[V any](opts Options[V]) *Connector[V] {
	cn := &Connector[V]{
		settings: opts.Settings,
		codec:    opts.Codec,
		log:      opts.Logger,
		hooks:    opts.Hooks,
		factory:  opts.Factory,
		now:      time.Now,
	}
	cn.settings.Partition = cachebox.Coalesce(opts.Partition, cachebox.DefaultPartition)
	if cn.codec == nil {
		cn.codec = c.JSON[V]{}
	}
	if cn.log == nil {
		cn.log = cachebox.NopLogger{}
	}
	if cn.hooks == nil {
		cn.hooks = cachebox.NopHooks{}
	}
	if cn.factory == nil {
		cn.factory = DefaultFactory
	}
	return cn
}

// Start opens the node store. Calling Start on a started connector is a no-op.
func (cn *Connector[V]) Start(context.Context) error {
	started, err := cn.lc.Start(cn.open, func(s *store) error {
		s.sched.Close()
		return s.p.Close(context.Background())
	})
	if err != nil {
		return cachebox.NewError(cachebox.KindInternal, "open node store", err)
	}
	if started {
		cn.log.Info("embedded connector started", cachebox.Fields{"partition": cn.settings.Partition})
	}
	return nil
}

func (cn *Connector[V]) open() (*store, error) {
	p, err := cn.factory(cn.settings)
	if err != nil {
		return nil, err
	}
	s := &store{p: p, seed: maphash.MakeSeed()}
	s.sched = expiry.New(func(key string) { cn.expire(s.p, key) })
	return s, nil
}

// expire writes the tombstone for an entry whose TTL elapsed.
func (cn *Connector[V]) expire(p provider.Provider, key string) {
	ctx, cancel := context.WithTimeout(context.Background(), expiryTimeout)
	defer cancel()
	if err := p.Del(ctx, key); err != nil {
		cn.log.Warn("expiry tombstone failed", cachebox.Fields{
			"partition": cn.settings.Partition, "key": key, "err": err,
		})
		cn.hooks.ExpiryFailed(key, err)
		return
	}
	cn.hooks.EntryExpired(key)
}

// Stop detaches the node store. Pending expiry timers are cancelled and the
// store is closed once in-flight operations finish or ctx ends.
func (cn *Connector[V]) Stop(ctx context.Context) error {
	err := cn.lc.Stop(ctx)
	cn.log.Info("embedded connector stopped", cachebox.Fields{"partition": cn.settings.Partition, "err": err})
	return err
}

func (cn *Connector[V]) IsReady() bool { return cn.lc.Ready() }

func (cn *Connector[V]) ValidateSegmentName(name string) error {
	return cachebox.ValidateSegmentName(name)
}

// Get returns (nil, nil) on a miss, including entries already past their TTL.
// Entries that fail to decode are deleted and reported as misses.
func (cn *Connector[V]) Get(ctx context.Context, key cachebox.Key) (*cachebox.Envelope[V], error) {
	if err := cachebox.ValidateKey(key); err != nil {
		return nil, err
	}
	s, release, ok := cn.lc.Acquire()
	if !ok {
		return nil, cachebox.NotStarted()
	}
	defer release()

	k := util.EmbeddedPath(key.Segment, key.ID)
	raw, hit, err := s.p.Get(ctx, k)
	if err != nil {
		return nil, cachebox.NewError(cachebox.KindInternal, "read entry", err)
	}
	if !hit {
		return nil, nil
	}

	fr, err := wire.DecodeEnvelope(raw)
	if err != nil {
		cn.heal(ctx, s, k, err)
		return nil, nil
	}
	if util.Expired(fr.Stored, fr.TTL, cn.now()) {
		// due; the timer or the store's native expiry removes it
		return nil, nil
	}
	item, err := cn.codec.Decode(fr.Payload)
	if err != nil {
		cn.heal(ctx, s, k, err)
		return nil, nil
	}
	return &cachebox.Envelope[V]{
		Item:   item,
		Stored: time.UnixMilli(int64(fr.Stored)),
		TTL:    util.Duration(fr.TTL),
	}, nil
}

func (cn *Connector[V]) heal(ctx context.Context, s *store, k string, cause error) {
	s.sched.Cancel(k)
	if err := s.p.Del(ctx, k); err != nil {
		cause = errors.Join(cause, err)
	}
	cn.log.Warn("dropped unreadable entry", cachebox.Fields{
		"partition": cn.settings.Partition, "key": k, "err": cause,
	})
}

// Set is a no-op for ttl <= 0. Otherwise it returns once the store has
// acknowledged the write, with removal armed for Stored+ttl.
func (cn *Connector[V]) Set(ctx context.Context, key cachebox.Key, value V, ttl time.Duration) error {
	if err := cachebox.ValidateKey(key); err != nil {
		return err
	}
	s, release, ok := cn.lc.Acquire()
	if !ok {
		return cachebox.NotStarted()
	}
	defer release()

	if ttl <= 0 {
		cn.log.Debug("set skipped (non-positive ttl)", cachebox.KeyFields(cn.settings.Partition, key))
		return nil
	}

	env := cachebox.Wrap(value, ttl)
	payload, err := cn.codec.Encode(env.Item)
	if err != nil {
		return cachebox.NewError(cachebox.KindInternal, "encode entry item", err)
	}
	ms := util.Millis(ttl)
	buf := wire.EncodeEnvelope(wire.Envelope{
		Stored:  uint64(env.Stored.UnixMilli()),
		TTL:     ms,
		Payload: payload,
	})

	k := util.EmbeddedPath(key.Segment, key.ID)
	mu := s.keyLock(k)
	mu.Lock()
	defer mu.Unlock()

	// older timers for k are void from here on
	gen := s.sched.Reserve(k)
	stored, err := s.p.Set(ctx, k, buf, time.Duration(ms)*time.Millisecond)
	if err != nil {
		s.sched.Arm(k, gen, 0)
		return cachebox.NewError(cachebox.KindInternal, "write entry", err)
	}
	if !stored {
		s.sched.Arm(k, gen, 0)
		cn.log.Warn("node store rejected write", cachebox.KeyFields(cn.settings.Partition, key))
		cn.hooks.ProviderSetRejected(k)
		return nil
	}
	s.sched.Arm(k, gen, time.Duration(ms)*time.Millisecond)
	return nil
}

// Drop cancels any pending expiry and deletes the entry. Dropping a key that
// was never set succeeds.
func (cn *Connector[V]) Drop(ctx context.Context, key cachebox.Key) error {
	if err := cachebox.ValidateKey(key); err != nil {
		return err
	}
	s, release, ok := cn.lc.Acquire()
	if !ok {
		return cachebox.NotStarted()
	}
	defer release()

	k := util.EmbeddedPath(key.Segment, key.ID)
	mu := s.keyLock(k)
	mu.Lock()
	defer mu.Unlock()

	s.sched.Cancel(k)
	if err := s.p.Del(ctx, k); err != nil {
		return cachebox.NewError(cachebox.KindInternal, "delete entry", err)
	}
	return nil
}
