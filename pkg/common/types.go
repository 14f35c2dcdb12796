// Package common provides the shared types used across the patmux
// framework: the handler contract, the per-request context, the scoped
// middleware chain and the buffered response writer.
package common

import (
	"net/http"
	"strings"
)

// Handler is the single callable contract of the framework. Route
// handlers and middleware callbacks share it: the context carries the
// request, the buffered response writer and the bound path arguments.
//
// The return value is interpreted by the caller. Middleware chains treat
// the boolean false as a halt signal and ignore everything else; the
// dispatcher encodes any non-nil value returned by a route handler onto
// the response using the configured codec.
type Handler func(*Context) any

// IsAJAX reports whether the request carries the XMLHttpRequest marker
// header set by browser XHR clients.
func IsAJAX(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest")
}
