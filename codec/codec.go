// Package codec turns cached values into bytes. The embedded connector frames
// the bytes into an envelope; the remote connector sends them as the entry's
// item string.
package codec

import "fmt"

// Codec encodes/decodes values V to []byte.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

func encodeErr(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("codec: %s encode: %w", name, err)
}

func decodeErr(name string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("codec: %s decode: %w", name, err)
}
