package codec

import (
	"errors"
	"io"
	"net/http"

	"google.golang.org/protobuf/proto"
)

// ErrNotProtoMessage is returned when a value passed to the proto codec
// does not implement proto.Message.
var ErrNotProtoMessage = errors.New("codec: value is not a proto.Message")

// ProtoCodec is a codec that uses Protocol Buffers for marshaling and
// unmarshaling. Values must implement proto.Message.
type ProtoCodec struct{}

// NewProtoCodec creates a new ProtoCodec instance.
func NewProtoCodec() *ProtoCodec {
	return &ProtoCodec{}
}

// ContentType returns the protobuf media type.
func (c *ProtoCodec) ContentType() string {
	return "application/x-protobuf"
}

// Encode marshals v to the Protocol Buffers wire format and writes it to
// the response with the appropriate content type.
func (c *ProtoCodec) Encode(w http.ResponseWriter, v any) error {
	msg, ok := v.(proto.Message)
	if !ok {
		return ErrNotProtoMessage
	}

	// Set the content type
	w.Header().Set("Content-Type", "application/x-protobuf")

	// Marshal the response
	body, err := proto.Marshal(msg)
	if err != nil {
		return err
	}

	// Write the response
	_, err = w.Write(body)
	return err
}

// Decode reads the entire request body and unmarshals it from the
// Protocol Buffers wire format into v.
func (c *ProtoCodec) Decode(r *http.Request, v any) error {
	msg, ok := v.(proto.Message)
	if !ok {
		return ErrNotProtoMessage
	}

	// Read the request body
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	defer r.Body.Close()

	// Unmarshal the proto
	return proto.Unmarshal(body, msg)
}
