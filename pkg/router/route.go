package router

import (
	"maps"
	"slices"
	"strings"

	"github.com/patmux/patmux/pkg/common"
	"github.com/patmux/patmux/pkg/pattern"
)

// RouteOptions is the per-route option bag.
type RouteOptions struct {
	// AjaxOnly restricts matching to requests the router classifies as
	// AJAX.
	AjaxOnly bool

	// Continue lets dispatch keep testing later routes after this one
	// matches, so several handlers can run for one request.
	Continue bool

	// Permission is attached to the route's literal path and surfaced
	// on the context when that exact path is dispatched.
	Permission any

	// Extra is a free-form extension bag for application conventions.
	Extra map[string]any
}

// mergeOptions folds a variadic option list over the defaults.
func mergeOptions(opts []RouteOptions) RouteOptions {
	var merged RouteOptions
	for _, o := range opts {
		if o.AjaxOnly {
			merged.AjaxOnly = true
		}
		if o.Continue {
			merged.Continue = true
		}
		if o.Permission != nil {
			merged.Permission = o.Permission
		}
		if len(o.Extra) > 0 {
			if merged.Extra == nil {
				merged.Extra = make(map[string]any, len(o.Extra))
			}
			maps.Copy(merged.Extra, o.Extra)
		}
	}
	return merged
}

// Route is one registration in the ordered route table. Routes are
// created by the Router's registration methods and immutable afterwards
// except for explicit naming.
type Route struct {
	router       *Router
	methods      []string
	source       string
	template     string
	namePrefix   string
	name         string
	matcher      *pattern.Matcher
	groupMatcher *pattern.Matcher
	groupParams  []pattern.Param
	params       []pattern.Param
	handler      common.Handler
	opts         RouteOptions
}

// Name registers the route in the name registry under the given name,
// composed with the group name-prefix active when the route was
// registered. Slashes become dots and names are lowercased; the last
// registration under a name wins.
func (rt *Route) Name(name string) *Route {
	name = strings.ToLower(strings.ReplaceAll(strings.Trim(name, "/"), "/", "."))
	rt.name = composeName(rt.namePrefix, name)
	rt.router.storeName(rt.name, rt.template)
	return rt
}

// allowsMethod reports whether the route's verb set covers method. An
// empty set covers every method.
func (rt *Route) allowsMethod(method string) bool {
	if len(rt.methods) == 0 {
		return true
	}
	return slices.Contains(rt.methods, method)
}

// RouteInfo is one entry of the Routes introspection snapshot.
type RouteInfo struct {
	// Methods is the verb set, nil for any.
	Methods []string
	// Pattern is the full literal template including group prefixes.
	Pattern string
	// Name is the dotted registry name, empty when the route is
	// unnamed.
	Name string
}
