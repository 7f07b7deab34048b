package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
)

const (
	version      byte = 1
	kindEnvelope byte = 1

	headerLen = 4 + 1 + 1 + 8 + 8 + 4
)

var (
	ErrCorrupt = errors.New("cachebox: corrupt entry")
	magic4     = [...]byte{'C', 'B', 'O', 'X'}
)

func hasMagic(b []byte) bool {
	return len(b) >= 4 && bytes.Equal(b[:4], magic4[:])
}

// Envelope is the framed form of a stored entry. Stored is unix milliseconds
// and TTL is milliseconds.
type Envelope struct {
	Stored  uint64
	TTL     uint64
	Payload []byte
}

// EncodeEnvelope frames an entry:
//
//	magic(4) | ver(1) | kind(1=envelope) | stored(u64 be) | ttl(u64 be) | vlen(u32 be) | payload(vlen)
func EncodeEnvelope(e Envelope) []byte {
	var buf bytes.Buffer
	buf.Grow(headerLen + len(e.Payload))

	buf.Write(magic4[:])
	buf.WriteByte(version)
	buf.WriteByte(kindEnvelope)

	var u8 [8]byte
	var u4 [4]byte

	binary.BigEndian.PutUint64(u8[:], e.Stored)
	buf.Write(u8[:])
	binary.BigEndian.PutUint64(u8[:], e.TTL)
	buf.Write(u8[:])

	binary.BigEndian.PutUint32(u4[:], uint32(len(e.Payload)))
	buf.Write(u4[:])

	buf.Write(e.Payload)
	return buf.Bytes()
}

// DecodeEnvelope parses a framed entry. Payload aliases b.
func DecodeEnvelope(b []byte) (Envelope, error) {
	if len(b) < headerLen || !hasMagic(b) || b[4] != version || b[5] != kindEnvelope {
		return Envelope{}, ErrCorrupt
	}

	off := 6
	stored := binary.BigEndian.Uint64(b[off : off+8])
	off += 8
	ttl := binary.BigEndian.Uint64(b[off : off+8])
	off += 8

	vlen := int(binary.BigEndian.Uint32(b[off : off+4]))
	off += 4
	// exact length: no trailing bytes
	if vlen < 0 || vlen != len(b)-off {
		return Envelope{}, ErrCorrupt
	}

	return Envelope{Stored: stored, TTL: ttl, Payload: b[off : off+vlen]}, nil
}
