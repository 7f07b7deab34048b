package codec

import "google.golang.org/protobuf/proto"

// Protobuf stores generated messages (T is the pointer type, e.g. *userpb.User).
// The zero value is ready to use; output is deterministic so equal messages
// produce equal entries.
type Protobuf[T proto.Message] struct {
	// DiscardUnknown drops fields unknown to T on decode.
	DiscardUnknown bool
}

func (Protobuf[T]) Encode(v T) ([]byte, error) {
	b, err := proto.MarshalOptions{Deterministic: true}.Marshal(v)
	return b, encodeErr("protobuf", err)
}

func (c Protobuf[T]) Decode(b []byte) (T, error) {
	var zero T
	m, ok := zero.ProtoReflect().Type().New().Interface().(T)
	if !ok {
		return zero, decodeErr("protobuf", errNotMessage)
	}
	err := proto.UnmarshalOptions{DiscardUnknown: c.DiscardUnknown}.Unmarshal(b, m)
	return m, decodeErr("protobuf", err)
}
