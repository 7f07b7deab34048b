package codec

import "encoding/json"

// JSON is the default codec. Cyclic pointer graphs are reported as an encode
// error by encoding/json rather than recursing without bound.
type JSON[V any] struct{}

var _ Codec[struct{}] = JSON[struct{}]{}

func (JSON[V]) Encode(v V) ([]byte, error) {
	b, err := json.Marshal(v)
	return b, encodeErr("json", err)
}

func (JSON[V]) Decode(b []byte) (V, error) {
	var v V
	err := json.Unmarshal(b, &v)
	return v, decodeErr("json", err)
}
