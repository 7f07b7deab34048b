package codec

import "fmt"

// Limit bounds entry sizes around another codec. Non-positive limits disable
// the respective check.
type Limit[V any] struct {
	Inner     Codec[V]
	MaxEncode int // largest payload Set will write
	MaxDecode int // largest payload Get will decode
}

// ErrTooLarge is wrapped by Limit errors.
var ErrTooLarge = fmt.Errorf("payload too large")

func (c Limit[V]) Encode(v V) ([]byte, error) {
	b, err := c.Inner.Encode(v)
	if err != nil {
		return nil, err
	}
	if c.MaxEncode > 0 && len(b) > c.MaxEncode {
		return nil, fmt.Errorf("codec: %w: %d > %d", ErrTooLarge, len(b), c.MaxEncode)
	}
	return b, nil
}

func (c Limit[V]) Decode(b []byte) (V, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		var zero V
		return zero, fmt.Errorf("codec: %w: %d > %d", ErrTooLarge, len(b), c.MaxDecode)
	}
	return c.Inner.Decode(b)
}
