package util

import (
	"math"
	"time"
)

// Millis converts d to whole milliseconds, rounding positive sub-millisecond
// durations up to 1 so they are not mistaken for "no ttl".
func Millis(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}
	ms := d.Milliseconds()
	if ms == 0 {
		return 1
	}
	return uint64(ms)
}

// MaxTTLMillis is the largest millisecond TTL that converts to a
// time.Duration without overflow.
const MaxTTLMillis = uint64(math.MaxInt64 / int64(time.Millisecond))

// Expired reports whether an entry written at stored with ttl (both in ms) is
// past its deadline at now. Deadlines beyond the uint64 range never pass.
func Expired(stored, ttl uint64, now time.Time) bool {
	ms := now.UnixMilli()
	if ms < 0 || uint64(ms) < stored {
		return false
	}
	return uint64(ms)-stored >= ttl
}

// Duration converts a millisecond TTL back to a time.Duration, saturating at
// the largest representable value.
func Duration(ms uint64) time.Duration {
	if ms > MaxTTLMillis {
		ms = MaxTTLMillis
	}
	return time.Duration(ms) * time.Millisecond
}
