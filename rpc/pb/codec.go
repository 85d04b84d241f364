package pb

import (
	"fmt"

	proto "github.com/gogo/protobuf/proto"
	"google.golang.org/grpc/encoding"
)

// CodecName is the gRPC content-subtype used by the executor service.
const CodecName = "gogoproto"

type codec struct{}

func (codec) Marshal(v interface{}) ([]byte, error) {
	msg, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("failed to marshal: %T is not a proto.Message", v)
	}
	return proto.Marshal(msg)
}
func (codec) Unmarshal(data []byte, v interface{}) error {
	msg, ok := v.(proto.Message)
	if !ok {
		return fmt.Errorf("failed to unmarshal: %T is not a proto.Message", v)
	}
	return proto.Unmarshal(data, msg)
}
func (codec) Name() string {
	return CodecName
}

func init() {
	encoding.RegisterCodec(codec{})
}
