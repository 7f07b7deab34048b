package lifecycle

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type res struct{ closed atomic.Bool }

func openRes() (*res, error) { return &res{}, nil }

func closeRes(r *res) error {
	r.closed.Store(true)
	return nil
}

func failOpen() (*res, error) { return nil, errors.New("boom") }

func neverOpen(t *testing.T) func() (*res, error) {
	return func() (*res, error) {
		t.Fatalf("open called while started")
		return nil, nil
	}
}

func TestStartIsIdempotent(t *testing.T) {
	var l Lifecycle[*res]
	if l.Ready() {
		t.Fatalf("zero value should be stopped")
	}
	started, err := l.Start(openRes, closeRes)
	if err != nil || !started {
		t.Fatalf("Start: started=%v err=%v", started, err)
	}
	started, err = l.Start(neverOpen(t), closeRes)
	if err != nil || started {
		t.Fatalf("second Start: started=%v err=%v", started, err)
	}
	if !l.Ready() {
		t.Fatalf("expected ready")
	}
}

func TestStartErrorLeavesStopped(t *testing.T) {
	var l Lifecycle[*res]
	if _, err := l.Start(failOpen, closeRes); err == nil {
		t.Fatalf("expected open error")
	}
	if l.Ready() {
		t.Fatalf("failed Start must leave lifecycle stopped")
	}
}

func TestAcquireWhenStopped(t *testing.T) {
	var l Lifecycle[*res]
	if _, _, ok := l.Acquire(); ok {
		t.Fatalf("Acquire on stopped lifecycle should fail")
	}
}

func TestStopWaitsForInflightLease(t *testing.T) {
	ctx := context.Background()
	var l Lifecycle[*res]
	if _, err := l.Start(openRes, closeRes); err != nil {
		t.Fatal(err)
	}
	r, release, ok := l.Acquire()
	if !ok {
		t.Fatalf("Acquire failed")
	}

	stopped := make(chan error, 1)
	go func() { stopped <- l.Stop(ctx) }()

	// handle is detached immediately
	deadline := time.Now().Add(time.Second)
	for l.Ready() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if l.Ready() {
		t.Fatalf("Stop did not detach the handle")
	}
	if r.closed.Load() {
		t.Fatalf("resource closed while a lease was outstanding")
	}

	release()
	if err := <-stopped; err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if !r.closed.Load() {
		t.Fatalf("resource not closed after lease release")
	}
}

func TestStopHonorsContext(t *testing.T) {
	var l Lifecycle[*res]
	if _, err := l.Start(openRes, closeRes); err != nil {
		t.Fatal(err)
	}
	_, release, _ := l.Acquire()
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := l.Stop(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Stop err=%v want deadline exceeded", err)
	}
	if err := l.Stop(context.Background()); err != nil {
		t.Fatalf("Stop on stopped lifecycle: %v", err)
	}
}
