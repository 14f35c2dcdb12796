package codec

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// TestProtoCodecEncode tests that proto messages are written in wire
// format with the right content type
func TestProtoCodecEncode(t *testing.T) {
	c := NewProtoCodec()
	rec := httptest.NewRecorder()

	msg := wrapperspb.String("hello")
	if err := c.Encode(rec, msg); err != nil {
		t.Fatalf("Failed to encode: %v", err)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/x-protobuf" {
		t.Errorf("Expected content type application/x-protobuf, got %q", got)
	}

	var decoded wrapperspb.StringValue
	if err := proto.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("Failed to unmarshal written body: %v", err)
	}
	if decoded.GetValue() != "hello" {
		t.Errorf("Expected value %q, got %q", "hello", decoded.GetValue())
	}
}

// TestProtoCodecEncodeNotMessage tests the non-message error path
func TestProtoCodecEncodeNotMessage(t *testing.T) {
	c := NewProtoCodec()
	rec := httptest.NewRecorder()

	if err := c.Encode(rec, "plain string"); err != ErrNotProtoMessage {
		t.Errorf("Expected ErrNotProtoMessage, got %v", err)
	}
}

// TestProtoCodecDecode tests request body decoding
func TestProtoCodecDecode(t *testing.T) {
	c := NewProtoCodec()

	wire, err := proto.Marshal(wrapperspb.String("payload"))
	if err != nil {
		t.Fatalf("Failed to marshal fixture: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/ingest", bytes.NewReader(wire))

	var msg wrapperspb.StringValue
	if err := c.Decode(req, &msg); err != nil {
		t.Fatalf("Failed to decode: %v", err)
	}
	if msg.GetValue() != "payload" {
		t.Errorf("Expected value %q, got %q", "payload", msg.GetValue())
	}
}

// TestProtoCodecDecodeNotMessage tests the non-message error path
func TestProtoCodecDecodeNotMessage(t *testing.T) {
	c := NewProtoCodec()
	req := httptest.NewRequest(http.MethodPost, "/ingest", bytes.NewReader(nil))

	var notMessage map[string]string
	if err := c.Decode(req, &notMessage); err != ErrNotProtoMessage {
		t.Errorf("Expected ErrNotProtoMessage, got %v", err)
	}
}
