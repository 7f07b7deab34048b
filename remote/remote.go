// Package remote implements cachebox.Connector over the catbox.Cache gRPC
// service. TTL enforcement is left to the service.
package remote

import (
	"context"
	"errors"
	"time"

	"github.com/unkn0wn-root/cachebox"
	c "github.com/unkn0wn-root/cachebox/codec"
	"github.com/unkn0wn-root/cachebox/internal/lifecycle"
	"github.com/unkn0wn-root/cachebox/internal/util"
	pb "github.com/unkn0wn-root/cachebox/rpc/cachepb"
)

type Connector[V any] struct {
	settings    Settings
	codec       c.Codec[V]
	log         cachebox.Logger
	hooks       cachebox.Hooks
	dial        DialFunc
	attempts    int
	delay       time.Duration
	pingOnStart bool

	lc lifecycle.Lifecycle[*client]
}

var _ cachebox.Connector[struct{}] = (*Connector[struct{}])(nil)

func New[V any](opts Options[V]) (*Connector[V], error) {
	if opts.Dial == nil {
		if err := opts.Settings.requireTLS(); err != nil {
			return nil, err
		}
	}
	if opts.Attempts < 0 {
		return nil, errors.New("remote: attempts must not be negative")
	}

	cn := &Connector[V]{
		settings:    opts.Settings,
		pingOnStart: opts.PingOnStart,
	}
	cn.settings.Partition = cachebox.Coalesce(opts.Partition, cachebox.DefaultPartition)
	cn.attempts = cachebox.Coalesce(opts.Attempts, DefaultAttempts)
	cn.delay = cachebox.Coalesce(opts.RetryDelay, DefaultRetryDelay)

	cn.log, cn.hooks = opts.Logger, opts.Hooks
	if cn.log == nil {
		cn.log = cachebox.NopLogger{}
	}
	if cn.hooks == nil {
		cn.hooks = cachebox.NopHooks{}
	}
	if opts.Codec != nil {
		cn.codec = opts.Codec
	} else {
		cn.codec = c.JSON[V]{}
	}
	if opts.Dial != nil {
		cn.dial = opts.Dial
	} else {
		cn.dial = DefaultDial
	}
	return cn, nil
}

// Start opens the client connection. Calling Start on a started connector is
// a no-op.
func (cn *Connector[V]) Start(ctx context.Context) error {
	started, err := cn.lc.Start(func() (*client, error) {
		conn, err := cn.dial(ctx, cn.settings)
		if err != nil {
			return nil, err
		}
		cl := &client{
			conn: conn,
			stub: pb.NewCacheClient(conn),
			inv: &invoker{
				attempts: cn.attempts,
				delay:    cn.delay,
				log:      cn.log,
				hooks:    cn.hooks,
			},
		}
		if cn.pingOnStart {
			if err := cl.ping(ctx); err != nil {
				_ = conn.Close()
				return nil, err
			}
		}
		return cl, nil
	}, func(cl *client) error {
		return cl.conn.Close()
	})
	if err != nil {
		return err
	}
	if started {
		cn.log.Info("remote connector started", cachebox.Fields{"partition": cn.settings.Partition})
	}
	return nil
}

// Stop detaches the connection; it is closed once in-flight calls finish or
// ctx ends.
func (cn *Connector[V]) Stop(ctx context.Context) error {
	err := cn.lc.Stop(ctx)
	cn.log.Info("remote connector stopped", cachebox.Fields{"partition": cn.settings.Partition, "err": err})
	return err
}

func (cn *Connector[V]) IsReady() bool { return cn.lc.Ready() }

func (cn *Connector[V]) ValidateSegmentName(name string) error {
	return cachebox.ValidateSegmentName(name)
}

// Ping checks the service through the retrying invoker.
func (cn *Connector[V]) Ping(ctx context.Context) error {
	cl, release, ok := cn.lc.Acquire()
	if !ok {
		return cachebox.NotStarted()
	}
	defer release()
	return cl.ping(ctx)
}

// Get returns (nil, nil) when the service reports the entry as not found.
func (cn *Connector[V]) Get(ctx context.Context, key cachebox.Key) (*cachebox.Envelope[V], error) {
	if err := cachebox.ValidateKey(key); err != nil {
		return nil, err
	}
	cl, release, ok := cn.lc.Acquire()
	if !ok {
		return nil, cachebox.NotStarted()
	}
	defer release()

	entry, err := cl.getEntry(ctx, &pb.GetEntryParams{Path: cn.path(key)})
	if errors.Is(err, cachebox.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	item, err := cn.codec.Decode([]byte(entry.Item))
	if err != nil {
		return nil, cachebox.NewError(cachebox.KindInternal, "decode entry item", err)
	}
	return &cachebox.Envelope[V]{
		Item:   item,
		Stored: time.UnixMilli(int64(entry.Stored)),
		TTL:    util.Duration(entry.TTL),
	}, nil
}

// Set is a no-op for ttl <= 0.
func (cn *Connector[V]) Set(ctx context.Context, key cachebox.Key, value V, ttl time.Duration) error {
	if err := cachebox.ValidateKey(key); err != nil {
		return err
	}
	cl, release, ok := cn.lc.Acquire()
	if !ok {
		return cachebox.NotStarted()
	}
	defer release()

	if ttl <= 0 {
		cn.log.Debug("set skipped (non-positive ttl)", cachebox.KeyFields(cn.settings.Partition, key))
		return nil
	}
	raw, err := cn.codec.Encode(value)
	if err != nil {
		return cachebox.NewError(cachebox.KindInternal, "encode entry item", err)
	}
	return cl.setEntry(ctx, &pb.SetEntryParams{
		Path: cn.path(key),
		Item: string(raw),
		TTL:  util.Millis(ttl),
	})
}

// Drop is idempotent; the service treats deleting a missing path as success.
func (cn *Connector[V]) Drop(ctx context.Context, key cachebox.Key) error {
	if err := cachebox.ValidateKey(key); err != nil {
		return err
	}
	cl, release, ok := cn.lc.Acquire()
	if !ok {
		return cachebox.NotStarted()
	}
	defer release()
	return cl.deleteEntry(ctx, &pb.DeleteEntryParams{Path: cn.path(key)})
}

func (cn *Connector[V]) path(key cachebox.Key) []string {
	return util.RemotePath(cn.settings.Partition, key.Segment, key.ID)
}
