package provider

import (
	"encoding/binary"
	"time"
)

// DeadlineLen is the size of the prefix written by StampDeadline.
const DeadlineLen = 8

// StampDeadline prefixes value with its expiry (unix ms, big endian; 0 = never)
// for stores that keep no per-entry TTL of their own.
func StampDeadline(value []byte, ttl time.Duration, now time.Time) []byte {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = now.Add(ttl).UnixMilli()
	}
	buf := make([]byte, DeadlineLen+len(value))
	binary.BigEndian.PutUint64(buf[:DeadlineLen], uint64(expiresAt))
	copy(buf[DeadlineLen:], value)
	return buf
}

// SplitDeadline returns the value stored by StampDeadline and whether it is
// still live at now. Short records are never live. value aliases rec.
func SplitDeadline(rec []byte, now time.Time) (value []byte, live bool) {
	if len(rec) < DeadlineLen {
		return nil, false
	}
	expiresAt := int64(binary.BigEndian.Uint64(rec[:DeadlineLen]))
	if expiresAt > 0 && now.UnixMilli() >= expiresAt {
		return nil, false
	}
	return rec[DeadlineLen:], true
}
