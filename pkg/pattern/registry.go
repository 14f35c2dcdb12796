// Package pattern implements the URI template language understood by the
// router. Templates containing named parameters ({id}, {slug}:title),
// optional parameters ({page}?) and positional wildcards (/?, /*) are
// compiled into regular expressions at registration time; the matcher then
// tests request paths against the anchored forms and extracts raw captured
// values.
package pattern

import "sync"

// defaultFragments seeds every new Registry. The names cover the common
// path-segment shapes; "any" and "all" mirror the /? and /* wildcards.
var defaultFragments = map[string]string{
	"int":   "[0-9]+",
	"title": "[a-zA-Z0-9-_]+",
	"slug":  "[a-z0-9-]+",
	"any":   "[^/]+",
	"all":   ".*",
	"uuid":  "[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}",
	"date":  "[0-9]{4}-[0-9]{2}-[0-9]{2}",
}

// Registry maps short pattern names to regular-expression fragments.
// Fragment selectors that name no registered entry are treated as literal
// regex text, which is how inline patterns like {code}:[a-f]+ work.
// Groups in fragment text never capture: the compiler rewrites them to
// the non-capturing form so captures stay aligned with parameters.
// A Registry is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	fragments map[string]string
}

// NewRegistry returns a Registry seeded with the default fragments.
func NewRegistry() *Registry {
	r := &Registry{fragments: make(map[string]string, len(defaultFragments))}
	for name, frag := range defaultFragments {
		r.fragments[name] = frag
	}
	return r
}

// Add merges the given name-to-fragment mapping into the registry. Later
// entries override earlier ones with the same name; entries are never
// removed.
func (r *Registry) Add(fragments map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for name, frag := range fragments {
		r.fragments[name] = frag
	}
}

// Fragment returns the fragment registered under name. The boolean
// reports whether the name was known.
func (r *Registry) Fragment(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	frag, ok := r.fragments[name]
	return frag, ok
}

// resolve maps a parameter's fragment selector to regex text: empty
// selects the default single-segment fragment, a registered name selects
// its fragment, anything else is used verbatim as inline regex.
func (r *Registry) resolve(selector string) string {
	if selector == "" {
		return defaultSegment
	}
	if frag, ok := r.Fragment(selector); ok {
		return frag
	}
	return selector
}
