package cachepb

import (
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

// Codec is the gRPC codec for schema messages. It reports the name "proto" so
// calls carry the standard application/grpc+proto content-subtype and talk to
// any protoc-generated peer.
type Codec struct{}

var _ encoding.Codec = Codec{}

func (Codec) Name() string { return "proto" }

func (Codec) Marshal(v any) ([]byte, error) {
	m, ok := v.(Message)
	if !ok {
		return nil, fmt.Errorf("cachepb: cannot marshal %T", v)
	}
	return m.MarshalWire(), nil
}

func (Codec) Unmarshal(data []byte, v any) error {
	m, ok := v.(Message)
	if !ok {
		return fmt.Errorf("cachepb: cannot unmarshal into %T", v)
	}
	return m.UnmarshalWire(data)
}

// CallOption forces Codec on a client call.
func CallOption() grpc.CallOption { return grpc.ForceCodec(Codec{}) }

// ServerOption forces Codec on a server.
func ServerOption() grpc.ServerOption { return grpc.ForceServerCodec(Codec{}) }
