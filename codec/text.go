package codec

import (
	"encoding/base64"
	"errors"
	"unicode/utf8"
)

var (
	errNotMessage = errors.New("type does not build a message")
	errNotUTF8    = errors.New("not valid UTF-8")
)

// Bytes passes []byte values through unchanged.
type Bytes struct{}

func (Bytes) Encode(b []byte) ([]byte, error) { return b, nil }

// Decode copies b; stores may reuse the buffer they returned.
func (Bytes) Decode(b []byte) ([]byte, error) { return append([]byte(nil), b...), nil }

// String stores text as-is. Encode rejects invalid UTF-8, which a remote
// service cannot carry in its item string.
type String struct{}

func (String) Encode(s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, encodeErr("string", errNotUTF8)
	}
	return []byte(s), nil
}

func (String) Decode(b []byte) (string, error) { return string(b), nil }

// Base64 makes a binary codec safe for the remote connector, whose entries
// travel as protobuf strings.
type Base64[V any] struct {
	Inner Codec[V]
}

func (c Base64[V]) Encode(v V) ([]byte, error) {
	raw, err := c.Inner.Encode(v)
	if err != nil {
		return nil, err
	}
	out := make([]byte, base64.StdEncoding.EncodedLen(len(raw)))
	base64.StdEncoding.Encode(out, raw)
	return out, nil
}

func (c Base64[V]) Decode(b []byte) (V, error) {
	raw := make([]byte, base64.StdEncoding.DecodedLen(len(b)))
	n, err := base64.StdEncoding.Decode(raw, b)
	if err != nil {
		var zero V
		return zero, decodeErr("base64", err)
	}
	return c.Inner.Decode(raw[:n])
}
