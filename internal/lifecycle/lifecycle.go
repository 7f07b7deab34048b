// Package lifecycle holds the Stopped/Started state shared by connectors.
//
// A started connector owns one live resource (a node store, a client
// connection). Operations lease it for their duration; Stop detaches it at
// once so new operations see "not started", then closes it after the
// in-flight leases are returned.
package lifecycle

import (
	"context"
	"sync"
	"sync/atomic"
)

type handle[T any] struct {
	rw      sync.RWMutex
	closed  bool
	res     T
	closeFn func(T) error
}

// Lifecycle is safe for concurrent use. The zero value is stopped.
type Lifecycle[T any] struct {
	mu  sync.Mutex // serializes Start/Stop
	cur atomic.Pointer[handle[T]]
}

// Start calls open when stopped and installs the result. When already started
// it returns (false, nil) without calling open.
func (l *Lifecycle[T]) Start(open func() (T, error), closeFn func(T) error) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cur.Load() != nil {
		return false, nil
	}
	res, err := open()
	if err != nil {
		return false, err
	}
	l.cur.Store(&handle[T]{res: res, closeFn: closeFn})
	return true, nil
}

// Ready reports whether a resource is installed.
func (l *Lifecycle[T]) Ready() bool { return l.cur.Load() != nil }

// Acquire leases the live resource. release must be called exactly once.
// ok is false when stopped.
func (l *Lifecycle[T]) Acquire() (res T, release func(), ok bool) {
	h := l.cur.Load()
	if h == nil {
		return res, nil, false
	}
	h.rw.RLock()
	if h.closed {
		h.rw.RUnlock()
		return res, nil, false
	}
	return h.res, h.rw.RUnlock, true
}

// Stop detaches the live resource and closes it once in-flight leases are
// released. If ctx ends first, closing continues in the background and
// ctx.Err() is returned. Stopping a stopped lifecycle is a no-op.
func (l *Lifecycle[T]) Stop(ctx context.Context) error {
	l.mu.Lock()
	h := l.cur.Swap(nil)
	l.mu.Unlock()
	if h == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		h.rw.Lock()
		h.closed = true
		var err error
		if h.closeFn != nil {
			err = h.closeFn(h.res)
		}
		h.rw.Unlock()
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
