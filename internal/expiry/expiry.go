// Package expiry schedules one-shot removals for embedded cache entries.
//
// A write takes a generation with Reserve before it reaches the store and arms
// its timer with Arm once the store acknowledged it. Reserve invalidates any
// pending timer for the key, and Arm only succeeds for the key's latest
// reservation, so an older timer can never tombstone a newer write. A removal
// already in progress holds off new reservations for its key until the
// tombstone is written.
package expiry

import (
	"sync"
	"time"
)

type record struct {
	gen    uint64
	due    time.Time
	timer  *time.Timer   // nil while reserved but not armed
	firing chan struct{} // non-nil while the tombstone is being written
}

// Scheduler is safe for concurrent use.
type Scheduler struct {
	mu      sync.Mutex
	records map[string]*record
	gen     uint64
	closed  bool
	wg      sync.WaitGroup

	fire func(key string)
}

// New returns a scheduler that calls fire(key) when an entry's TTL elapses.
// fire runs on its own goroutine.
func New(fire func(key string)) *Scheduler {
	return &Scheduler{
		records: make(map[string]*record),
		fire:    fire,
	}
}

// Reserve invalidates any pending removal of key and returns the generation
// a following Arm must present. It waits while a removal of key is running.
// A closed scheduler returns 0, which Arm ignores.
func (s *Scheduler) Reserve(key string) uint64 {
	s.mu.Lock()
	for {
		if s.closed {
			s.mu.Unlock()
			return 0
		}
		r, ok := s.records[key]
		if !ok || r.firing == nil {
			break
		}
		done := r.firing
		s.mu.Unlock()
		<-done
		s.mu.Lock()
	}
	defer s.mu.Unlock()

	if r, ok := s.records[key]; ok && r.timer != nil {
		r.timer.Stop()
	}
	s.gen++
	s.records[key] = &record{gen: s.gen}
	return s.gen
}

// Arm schedules removal of key after d for reservation gen. It reports false,
// and does nothing, when a later Reserve or a Cancel superseded gen. A
// non-positive d releases the reservation.
func (s *Scheduler) Arm(key string, gen uint64, d time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[key]
	if s.closed || !ok || r.gen != gen || r.timer != nil || r.firing != nil {
		return false
	}
	if d <= 0 {
		delete(s.records, key)
		return false
	}
	r.due = time.Now().Add(d)
	r.timer = time.AfterFunc(d, func() { s.expire(key, gen) })
	return true
}

// Schedule arms (or re-arms) removal of key after d. Non-positive d is ignored.
func (s *Scheduler) Schedule(key string, d time.Duration) {
	if d <= 0 {
		return
	}
	s.Arm(key, s.Reserve(key), d)
}

// Cancel drops a pending removal or reservation. It reports whether an armed
// timer was stopped. A removal already running is left to finish.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[key]
	if !ok || r.firing != nil {
		return false
	}
	delete(s.records, key)
	if r.timer == nil {
		return false
	}
	r.timer.Stop()
	return true
}

// Due returns the scheduled removal time for key.
func (s *Scheduler) Due(key string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[key]
	if !ok || r.timer == nil || r.firing != nil {
		return time.Time{}, false
	}
	return r.due, true
}

// Pending is the number of armed timers.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.records {
		if r.timer != nil && r.firing == nil {
			n++
		}
	}
	return n
}

func (s *Scheduler) expire(key string, gen uint64) {
	s.mu.Lock()
	r, ok := s.records[key]
	if s.closed || !ok || r.gen != gen || r.firing != nil {
		s.mu.Unlock()
		return
	}
	r.firing = make(chan struct{})
	s.wg.Add(1)
	s.mu.Unlock()

	defer s.wg.Done()
	s.fire(key)

	s.mu.Lock()
	if s.records[key] == r {
		delete(s.records, key)
	}
	close(r.firing)
	s.mu.Unlock()
}

// Close stops all pending timers and waits for callbacks already running.
// Safe to call multiple times.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for k, r := range s.records {
		if r.firing != nil {
			continue
		}
		if r.timer != nil {
			r.timer.Stop()
		}
		delete(s.records, k)
	}
	s.mu.Unlock()
	s.wg.Wait()
}
