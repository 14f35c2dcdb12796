// Package codec provides encoding and decoding functionality for the
// data formats the router speaks on the wire.
package codec

import "net/http"

// Codec encodes handler return values onto responses and decodes request
// bodies. The dispatcher calls Encode for every structured value a route
// handler returns; Decode is the counterpart for handlers reading typed
// request bodies.
type Codec interface {
	// ContentType returns the media type written with encoded responses.
	ContentType() string
	// Encode writes v to the response with the codec's content type.
	Encode(w http.ResponseWriter, v any) error
	// Decode reads the request body into v.
	Decode(r *http.Request, v any) error
}
