package router

import (
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/patmux/patmux/pkg/common"
	"github.com/patmux/patmux/pkg/pattern"
)

// Controller exposes named handlers for convention-based registration.
// Map keys are camelCase method names whose leading tokens select the
// HTTP verbs: "getIndex", "postStore", "getPostArchive". Controllers
// are plain values; there is no reflection involved.
type Controller interface {
	Handlers() map[string]common.Handler
}

// RegisterController makes a controller resolvable by name, for the
// string forms of Controller, Resource and Named.
func (r *Router) RegisterController(name string, c Controller) {
	r.controllers[name] = c
}

// resolveController maps the polymorphic controller argument to a
// Controller value. A Controller passes through, a string resolves via
// the registry; anything else, or an unknown name, is a configuration
// error.
func (r *Router) resolveController(ctrl any) Controller {
	switch v := ctrl.(type) {
	case Controller:
		return v
	case string:
		if c, ok := r.controllers[v]; ok {
			return c
		}
		panic(fmt.Errorf("%w: %q", ErrControllerNotFound, v))
	default:
		panic(fmt.Errorf("%w: %T", ErrControllerNotFound, ctrl))
	}
}

// Controller registers one route per handler exposed by ctrl. Each
// method name is split at camelCase boundaries: the leading tokens form
// the verb set, the remaining tokens, joined by hyphens and lowercased,
// form the sub-path under base. The final token always belongs to the
// path, so "getPost" maps GET to /post while "getPostSearch" matches
// GET and POST on /search. A remainder of exactly "Index" maps to the
// bare base URI with and without a catch-all suffix. ctrl is a
// Controller value or a registered controller name.
func (r *Router) Controller(base string, ctrl any, opts ...RouteOptions) {
	c := r.resolveController(ctrl)
	handlers := c.Handlers()

	type indexEntry struct {
		methods string
		h       common.Handler
	}
	var indexes []indexEntry

	// Sorted keys keep the table order deterministic.
	for _, key := range slices.Sorted(maps.Keys(handlers)) {
		h := handlers[key]
		verbs, rest := splitVerbs(key)
		methods := strings.Join(verbs, "|")
		if slices.Contains(verbs, "any") {
			methods = ""
		}

		if len(rest) == 1 && strings.EqualFold(rest[0], "index") {
			r.Route(methods, base, h, opts...)
			indexes = append(indexes, indexEntry{methods, h})
			continue
		}
		sub := strings.ToLower(strings.Join(rest, "-"))
		r.Route(methods, base+"/"+sub, h, opts...)
	}

	// The index catch-all registers after every explicit action so those
	// claim their sub-paths first.
	for _, e := range indexes {
		r.Route(e.methods, base+"/*", e.h, opts...)
	}
}

// Resource registers the conventional CRUD route set for ctrl under
// base: index, get, create, store, show, edit, update and destroy, plus
// a catch-all answering a structured 404 payload. Routes are named
// under the dotted namespace of base within the active group context.
// Handler lookup happens at dispatch, so a missing action panics with
// ErrCallableNotFound when invoked, not at registration.
func (r *Router) Resource(base string, ctrl any, opts ...RouteOptions) {
	c := r.resolveController(ctrl)
	handlers := c.Handlers()
	ns := literalName(pattern.Normalize(base))

	register := func(methods, uri, action string) {
		rt := r.Route(methods, uri, resourceThunk(handlers, action), opts...)
		if ns != "" {
			rt.Name(ns + "." + action)
		}
	}

	register("GET", base, "index")
	register("GET", base+"/get", "get")
	register("GET", base+"/create", "create")
	register("POST", base, "store")
	register("GET", base+"/{id}", "show")
	register("GET", base+"/{id}/edit", "edit")
	register("PUT|PATCH", base+"/{id}", "update")
	register("DELETE", base+"/{id}", "destroy")
	// Multi-id destroy keeps the first id named and the rest positional.
	r.Route("DELETE", base+"/{id}/*", resourceThunk(handlers, "destroy"), opts...)
	r.Route("", base+"/*", resourceNotFound(base), opts...)
}

// resourceThunk defers action lookup to invocation time.
func resourceThunk(handlers map[string]common.Handler, action string) common.Handler {
	return func(ctx *common.Context) any {
		h, ok := handlers[action]
		if !ok {
			panic(fmt.Errorf("%w: resource action %q", ErrCallableNotFound, action))
		}
		return h(ctx)
	}
}

// resourceNotFound answers the resource catch-all with a structured 404.
func resourceNotFound(base string) common.Handler {
	return func(ctx *common.Context) any {
		ctx.Writer.WriteHeader(http.StatusNotFound)
		return map[string]string{
			"error":    "not found",
			"resource": strings.Trim(base, "/"),
			"path":     ctx.Path,
		}
	}
}

// Named returns a handler that resolves a "Controller@method" reference
// through the controller registry when invoked. The method defaults to
// "index" when omitted. Resolution failures panic at dispatch with
// ErrCallableNotFound.
func (r *Router) Named(ref string) common.Handler {
	ctrlName, method, found := strings.Cut(ref, "@")
	if !found || method == "" {
		method = "index"
	}
	return func(ctx *common.Context) any {
		c, ok := r.controllers[ctrlName]
		if !ok {
			panic(fmt.Errorf("%w: %q", ErrCallableNotFound, ref))
		}
		h, ok := c.Handlers()[method]
		if !ok {
			panic(fmt.Errorf("%w: %q", ErrCallableNotFound, ref))
		}
		return h(ctx)
	}
}

// HandlerOf returns a handler invoking the named method of an explicit
// controller value, resolved at invocation time.
func HandlerOf(c Controller, method string) common.Handler {
	return func(ctx *common.Context) any {
		h, ok := c.Handlers()[method]
		if !ok {
			panic(fmt.Errorf("%w: %T@%s", ErrCallableNotFound, c, method))
		}
		return h(ctx)
	}
}
