package codec

import (
	"github.com/fxamacker/cbor/v2"
)

// CBOROptions tune the CBOR codec.
type CBOROptions struct {
	// Deterministic selects RFC 8949 Core Deterministic encoding so equal
	// values always produce equal bytes.
	Deterministic bool
	// MaxNestedLevels bounds decoding depth; 0 keeps the library default (32).
	MaxNestedLevels int
}

// CBOR serializes values using fxamacker/cbor. Times are RFC3339Nano text.
// Construct with NewCBOR or MustCBOR; the zero value is not usable.
// Binary output: wrap in Base64 when the remote connector carries it.
type CBOR[V any] struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

var _ Codec[struct{}] = CBOR[struct{}]{}

func NewCBOR[V any](opts CBOROptions) (CBOR[V], error) {
	eo := cbor.PreferredUnsortedEncOptions()
	if opts.Deterministic {
		eo = cbor.CoreDetEncOptions()
	}
	eo.Time = cbor.TimeRFC3339Nano
	em, err := eo.EncMode()
	if err != nil {
		return CBOR[V]{}, encodeErr("cbor", err)
	}

	do := cbor.DecOptions{MaxNestedLevels: opts.MaxNestedLevels}
	dm, err := do.DecMode()
	if err != nil {
		return CBOR[V]{}, decodeErr("cbor", err)
	}
	return CBOR[V]{enc: em, dec: dm}, nil
}

// MustCBOR panics where NewCBOR would fail. For package-level vars.
func MustCBOR[V any](opts CBOROptions) CBOR[V] {
	c, err := NewCBOR[V](opts)
	if err != nil {
		panic(err)
	}
	return c
}

func (c CBOR[V]) Encode(v V) ([]byte, error) {
	b, err := c.enc.Marshal(v)
	return b, encodeErr("cbor", err)
}

func (c CBOR[V]) Decode(b []byte) (V, error) {
	var v V
	return v, decodeErr("cbor", c.dec.Unmarshal(b, &v))
}
