// Package cachepb carries the catbox.Cache RPC schema (cache.proto).
//
// Messages are encoded with protowire so the bytes on the wire match what
// protoc-generated code produces for cache.proto, without a generated
// descriptor. Unknown fields are skipped on decode.
package cachepb

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// Message is implemented by every schema message.
type Message interface {
	MarshalWire() []byte
	UnmarshalWire(b []byte) error
}

type Empty struct{}

type GetEntryParams struct {
	Path []string
}

type Entry struct {
	Item   string
	TTL    uint64
	Stored uint64
}

type SetEntryParams struct {
	Path []string
	Item string
	TTL  uint64
}

type DeleteEntryParams struct {
	Path []string
}

var (
	_ Message = (*Empty)(nil)
	_ Message = (*GetEntryParams)(nil)
	_ Message = (*Entry)(nil)
	_ Message = (*SetEntryParams)(nil)
	_ Message = (*DeleteEntryParams)(nil)
)

func appendStrings(b []byte, num protowire.Number, ss []string) []byte {
	for _, s := range ss {
		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendString(b, s)
	}
	return b
}

// proto3 scalars are omitted when zero
func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendUint64(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

// field is one decoded field; only one of str/u64 is meaningful.
type field struct {
	num protowire.Number
	typ protowire.Type
	str string
	u64 uint64
}

// walk decodes every field in b and passes string/varint fields to fn.
// Fields of other wire types are skipped.
func walk(b []byte, fn func(f field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]
		f := field{num: num, typ: typ}
		switch typ {
		case protowire.BytesType:
			s, n := protowire.ConsumeString(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			f.str = s
			b = b[n:]
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			f.u64 = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
			continue
		}
		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

func (*Empty) MarshalWire() []byte { return nil }

func (*Empty) UnmarshalWire(b []byte) error {
	return walk(b, func(field) error { return nil })
}

func (m *GetEntryParams) MarshalWire() []byte { return appendStrings(nil, 1, m.Path) }

func (m *GetEntryParams) UnmarshalWire(b []byte) error {
	*m = GetEntryParams{}
	return walk(b, func(f field) error {
		if f.num == 1 && f.typ == protowire.BytesType {
			m.Path = append(m.Path, f.str)
		}
		return nil
	})
}

func (m *DeleteEntryParams) MarshalWire() []byte { return appendStrings(nil, 1, m.Path) }

func (m *DeleteEntryParams) UnmarshalWire(b []byte) error {
	*m = DeleteEntryParams{}
	return walk(b, func(f field) error {
		if f.num == 1 && f.typ == protowire.BytesType {
			m.Path = append(m.Path, f.str)
		}
		return nil
	})
}

func (m *Entry) MarshalWire() []byte {
	var b []byte
	b = appendString(b, 1, m.Item)
	b = appendUint64(b, 2, m.TTL)
	b = appendUint64(b, 3, m.Stored)
	return b
}

func (m *Entry) UnmarshalWire(b []byte) error {
	*m = Entry{}
	return walk(b, func(f field) error {
		switch {
		case f.num == 1 && f.typ == protowire.BytesType:
			m.Item = f.str
		case f.num == 2 && f.typ == protowire.VarintType:
			m.TTL = f.u64
		case f.num == 3 && f.typ == protowire.VarintType:
			m.Stored = f.u64
		}
		return nil
	})
}

func (m *SetEntryParams) MarshalWire() []byte {
	b := appendStrings(nil, 1, m.Path)
	b = appendString(b, 2, m.Item)
	b = appendUint64(b, 3, m.TTL)
	return b
}

func (m *SetEntryParams) UnmarshalWire(b []byte) error {
	*m = SetEntryParams{}
	return walk(b, func(f field) error {
		switch {
		case f.num == 1 && f.typ == protowire.BytesType:
			m.Path = append(m.Path, f.str)
		case f.num == 2 && f.typ == protowire.BytesType:
			m.Item = f.str
		case f.num == 3 && f.typ == protowire.VarintType:
			m.TTL = f.u64
		}
		return nil
	})
}
