package common

import (
	"maps"
	"net/http"
	"slices"
	"strings"

	"go.uber.org/zap"
)

// Context is the explicit per-request value handed to every handler and
// middleware callback. It replaces implicit shared state: everything a
// callback may consult (request, buffered writer, bound arguments,
// permission payload, logger) travels through it.
type Context struct {
	// Writer is the buffered response writer. Status and body written
	// here are held back until the dispatcher flushes.
	Writer http.ResponseWriter
	// Request is the incoming request, untouched.
	Request *http.Request
	// Path is the normalized, slash-bounded request path that matching
	// ran against.
	Path string
	// Logger is the router's logger handle.
	Logger *zap.Logger

	args       map[string]string
	order      []string
	positional []string
	catchAll   string
	permission any
	values     map[string]any
	urlFor     func(name string, args map[string]string) (string, bool)
}

// NewContext builds a context around a request. The writer is expected
// to be a BufferedWriter during dispatch but any ResponseWriter works,
// which keeps middleware testable in isolation.
func NewContext(w http.ResponseWriter, r *http.Request, logger *zap.Logger) *Context {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Context{Writer: w, Request: r, Logger: logger}
}

// BindArgs installs the bound route arguments for the next handler
// invocation: the name-to-value mapping with its registration order, the
// auxiliary positional values, and the raw catch-all remainder when one
// was captured.
func (c *Context) BindArgs(args map[string]string, order, positional []string, catchAll string) {
	c.args = args
	c.order = order
	c.positional = positional
	c.catchAll = catchAll
}

// Param returns the value bound to the named path parameter, or the
// empty string. Names are case-insensitive.
func (c *Context) Param(name string) string {
	return c.args[strings.ToLower(name)]
}

// HasParam reports whether the matched route binds the named parameter.
// Omitted optional parameters still bind, with an empty value.
func (c *Context) HasParam(name string) bool {
	_, ok := c.args[strings.ToLower(name)]
	return ok
}

// Params returns a copy of the bound name-to-value mapping.
func (c *Context) Params() map[string]string {
	return maps.Clone(c.args)
}

// Args returns the bound values as an ordered positional list: named
// parameters in registration order followed by the auxiliary positional
// values from a catch-all split.
func (c *Context) Args() []string {
	out := make([]string, 0, len(c.order)+len(c.positional))
	for _, name := range c.order {
		out = append(out, c.args[name])
	}
	return append(out, c.positional...)
}

// Positional returns the auxiliary positional values captured beyond the
// named parameters, typically a catch-all remainder split on "/".
func (c *Context) Positional() []string {
	return slices.Clone(c.positional)
}

// CatchAll returns the raw catch-all remainder, or the empty string when
// the matched route had none.
func (c *Context) CatchAll() string {
	return c.catchAll
}

// SetPermission attaches the permission payload looked up for the
// request path.
func (c *Context) SetPermission(v any) {
	c.permission = v
}

// Permission returns the payload attached for the literal request path,
// or nil when none was registered.
func (c *Context) Permission() any {
	return c.permission
}

// Set stores a value in the context's scratch store, shared by all
// callbacks of the same request.
func (c *Context) Set(key string, value any) {
	if c.values == nil {
		c.values = make(map[string]any)
	}
	c.values[key] = value
}

// Value returns a value from the scratch store, or nil.
func (c *Context) Value(key string) any {
	if c.values == nil {
		return nil
	}
	return c.values[key]
}

// SetURLFor installs the reverse-routing hook consulted by URL.
func (c *Context) SetURLFor(fn func(name string, args map[string]string) (string, bool)) {
	c.urlFor = fn
}

// URL builds the absolute URL for a named route, substituting args into
// its placeholders. ok is false for unknown names or when no resolver
// was installed.
func (c *Context) URL(name string, args map[string]string) (string, bool) {
	if c.urlFor == nil {
		return "", false
	}
	return c.urlFor(name, args)
}

// IsAJAX reports whether the request carries the XMLHttpRequest marker.
func (c *Context) IsAJAX() bool {
	return IsAJAX(c.Request)
}
