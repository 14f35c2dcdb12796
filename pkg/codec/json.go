package codec

import (
	"encoding/json"
	"io"
	"net/http"
)

// JSONCodec is a codec that uses JSON for marshaling and unmarshaling.
// It is the router's default response codec.
type JSONCodec struct{}

// NewJSONCodec creates a new JSONCodec instance.
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// ContentType returns the JSON media type.
func (c *JSONCodec) ContentType() string {
	return "application/json"
}

// Encode marshals v to JSON and writes it to the response with the
// appropriate content type.
func (c *JSONCodec) Encode(w http.ResponseWriter, v any) error {
	// Set the content type
	w.Header().Set("Content-Type", "application/json")

	// Marshal the response
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}

	// Write the response
	_, err = w.Write(body)
	return err
}

// Decode reads the entire request body and unmarshals it from JSON
// into v.
func (c *JSONCodec) Decode(r *http.Request, v any) error {
	// Read the request body
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	defer r.Body.Close()

	// Unmarshal the JSON
	return json.Unmarshal(body, v)
}
