package rpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// jsonCodec is a grpc/encoding.Codec that marshals messages as JSON
// instead of protobuf wire format. The core never generates protobuf
// stubs (no protoc run in this build), so the admin control-plane
// service is hand-registered against this codec rather than
// proto.Message — a documented grpc-go extension point, not a
// protocol hack.
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
func (jsonCodec) Name() string { return "json" }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
