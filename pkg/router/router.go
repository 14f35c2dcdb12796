// Package router implements a pattern-matching HTTP router: URI
// templates compile to regular expressions, routes live in an ordered
// first-match-wins table with nestable groups, and dispatch runs scoped
// before/after middleware chains around the matched handlers.
package router

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/patmux/patmux/pkg/codec"
	"github.com/patmux/patmux/pkg/common"
	"github.com/patmux/patmux/pkg/metrics"
	"github.com/patmux/patmux/pkg/pattern"
)

// Router owns the route table, the fragment registry, the name registry
// and the middleware chains. It implements http.Handler.
//
// Registration is meant for the setup phase: register every route,
// group, controller and middleware before the router starts serving.
// Dispatch itself is safe for concurrent use.
type Router struct {
	config   Config
	logger   *zap.Logger
	codec    codec.Codec
	metrics  *metrics.Metrics
	patterns *pattern.Registry

	routes      []*Route
	names       map[string]string
	permissions map[string]any
	controllers map[string]Controller
	before      *common.Chain
	after       *common.Chain

	scope scopeState

	shutdown   bool
	shutdownMu sync.RWMutex
	wg         sync.WaitGroup
}

// scopeState is the accumulated group scope active during registration.
// Group pushes snapshot it and pop by restoring the snapshot.
type scopeState struct {
	prefixSource   string
	prefixExpr     string
	prefixTemplate string
	namePrefix     string
	params         []pattern.Param
	matcher        *pattern.Matcher
}

// New creates a Router from the given configuration.
func New(config Config) *Router {
	// Set up the logger
	logger := config.Logger
	if logger == nil {
		// Create a default logger if none is provided
		var err error
		logger, err = zap.NewProduction()
		if err != nil {
			// Fallback to a no-op logger if we can't create a production logger
			logger = zap.NewNop()
		}
	}

	// Set up the response codec
	responseCodec := config.Codec
	if responseCodec == nil {
		responseCodec = codec.NewJSONCodec()
	}

	// Seed the fragment registry
	patterns := pattern.NewRegistry()
	if len(config.Patterns) > 0 {
		patterns.Add(config.Patterns)
	}

	// Set up metrics if enabled
	var m *metrics.Metrics
	if config.EnableMetrics {
		m = config.Metrics
		if m == nil {
			m = metrics.New("patmux")
		}
	}

	return &Router{
		config:      config,
		logger:      logger,
		codec:       responseCodec,
		metrics:     m,
		patterns:    patterns,
		names:       make(map[string]string),
		permissions: make(map[string]any),
		controllers: make(map[string]Controller),
		before:      common.NewChain(patterns),
		after:       common.NewChain(patterns),
	}
}

// Route registers a handler for the method set and URI template. The
// methods string uses the "|" convention ("GET|POST"); the empty string,
// "ANY" and "*" match every method. The template is compiled against
// the fragment registry and concatenated with the active group prefix.
func (r *Router) Route(methods, uri string, h common.Handler, opts ...RouteOptions) *Route {
	verbs := parseMethods(methods)
	c := pattern.Compile(r.patterns, pattern.Normalize(uri))

	expr := r.scope.prefixExpr + c.Expr
	m, err := pattern.NewMatcher(expr)
	if err != nil {
		panic(fmt.Errorf("%w: %q: %v", ErrInvalidPattern, uri, err))
	}

	rt := &Route{
		router:       r,
		methods:      verbs,
		source:       r.scope.prefixSource + c.Source,
		template:     r.scope.prefixTemplate + c.Template,
		namePrefix:   r.scope.namePrefix,
		matcher:      m,
		groupMatcher: r.scope.matcher,
		groupParams:  slices.Clone(r.scope.params),
		params:       c.Params,
		handler:      h,
		opts:         mergeOptions(opts),
	}
	r.routes = append(r.routes, rt)

	if rt.opts.Permission != nil {
		r.permissions[pattern.Normalize(rt.source)] = rt.opts.Permission
	}

	// Auto-name purely literal templates.
	if auto := literalName(c.Source); auto != "" {
		rt.name = composeName(rt.namePrefix, auto)
		r.storeName(rt.name, rt.template)
	}
	return rt
}

// RouteList registers the same handler under several URI templates.
func (r *Router) RouteList(methods string, uris []string, h common.Handler, opts ...RouteOptions) []*Route {
	routes := make([]*Route, 0, len(uris))
	for _, uri := range uris {
		routes = append(routes, r.Route(methods, uri, h, opts...))
	}
	return routes
}

// GET registers a GET route.
func (r *Router) GET(uri string, h common.Handler, opts ...RouteOptions) *Route {
	return r.Route(http.MethodGet, uri, h, opts...)
}

// POST registers a POST route.
func (r *Router) POST(uri string, h common.Handler, opts ...RouteOptions) *Route {
	return r.Route(http.MethodPost, uri, h, opts...)
}

// PUT registers a PUT route.
func (r *Router) PUT(uri string, h common.Handler, opts ...RouteOptions) *Route {
	return r.Route(http.MethodPut, uri, h, opts...)
}

// PATCH registers a PATCH route.
func (r *Router) PATCH(uri string, h common.Handler, opts ...RouteOptions) *Route {
	return r.Route(http.MethodPatch, uri, h, opts...)
}

// DELETE registers a DELETE route.
func (r *Router) DELETE(uri string, h common.Handler, opts ...RouteOptions) *Route {
	return r.Route(http.MethodDelete, uri, h, opts...)
}

// HEAD registers a HEAD route.
func (r *Router) HEAD(uri string, h common.Handler, opts ...RouteOptions) *Route {
	return r.Route(http.MethodHead, uri, h, opts...)
}

// OPTIONS registers an OPTIONS route.
func (r *Router) OPTIONS(uri string, h common.Handler, opts ...RouteOptions) *Route {
	return r.Route(http.MethodOptions, uri, h, opts...)
}

// Any registers a route matching every method.
func (r *Router) Any(uri string, h common.Handler, opts ...RouteOptions) *Route {
	return r.Route("", uri, h, opts...)
}

// Before appends a callback to the before chain under the given scope
// pattern; see common.Chain for the scope syntax.
func (r *Router) Before(scope string, h common.Handler) {
	r.before.Add(scope, h)
}

// After appends a callback to the after chain under the given scope
// pattern.
func (r *Router) After(scope string, h common.Handler) {
	r.after.Add(scope, h)
}

// Use appends a before callback covering every path.
func (r *Router) Use(h common.Handler) {
	r.before.Add("*", h)
}

// UseAfter appends an after callback covering every path.
func (r *Router) UseAfter(h common.Handler) {
	r.after.Add("*", h)
}

// Patterns merges additional fragment names into the router's registry.
// Templates compiled after the call see the new fragments.
func (r *Router) Patterns(fragments map[string]string) {
	r.patterns.Add(fragments)
}

// Permit attaches a permission payload to a literal path. The payload
// is surfaced on the context whenever that exact normalized path is
// dispatched.
func (r *Router) Permit(path string, payload any) {
	r.permissions[pattern.Normalize(path)] = payload
}

// Routes returns an ordered snapshot of the route table.
func (r *Router) Routes() []RouteInfo {
	out := make([]RouteInfo, 0, len(r.routes))
	for _, rt := range r.routes {
		out = append(out, RouteInfo{
			Methods: slices.Clone(rt.methods),
			Pattern: rt.source,
			Name:    rt.name,
		})
	}
	return out
}

// Shutdown marks the router as draining and waits for in-flight
// requests to complete. New requests are answered with 503 once
// draining starts. If the context expires first, its error is returned.
func (r *Router) Shutdown(ctx context.Context) error {
	// Mark the router as shutting down
	r.shutdownMu.Lock()
	r.shutdown = true
	r.shutdownMu.Unlock()

	// Wait for in-flight requests
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Router) isShutdown() bool {
	r.shutdownMu.RLock()
	defer r.shutdownMu.RUnlock()
	return r.shutdown
}

func (r *Router) isAJAX(req *http.Request) bool {
	if r.config.AJAXCheck != nil {
		return r.config.AJAXCheck(req)
	}
	return common.IsAJAX(req)
}
