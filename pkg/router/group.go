package router

import (
	"fmt"
	"slices"
	"strings"

	"github.com/patmux/patmux/pkg/pattern"
)

// GroupOptions configures one Group call.
type GroupOptions struct {
	// As overrides the name-registry prefix contributed by the group.
	// The default is the group prefix with parameter markup stripped,
	// slashes as dots.
	As string
}

// GroupEntry is one prefix of a GroupList registration.
type GroupEntry struct {
	Prefix string
	As     string
}

// Group runs build with the given prefix pushed onto the registration
// scope: routes registered inside inherit the compiled prefix, its
// parameters and its name-prefix. Scopes nest arbitrarily and are
// restored exactly on return, regardless of what build registered.
func (r *Router) Group(prefix string, build func(*Router), opts ...GroupOptions) {
	var o GroupOptions
	if len(opts) > 0 {
		o = opts[0]
	}

	saved := r.scope

	c := pattern.Compile(r.patterns, pattern.NormalizePrefix(prefix))
	expr := saved.prefixExpr + c.Expr
	m, err := pattern.NewMatcher(expr)
	if err != nil {
		panic(fmt.Errorf("%w: %q: %v", ErrInvalidPattern, prefix, err))
	}

	as := o.As
	if as == "" {
		as = strippedName(c.Template)
	} else {
		as = strings.ToLower(strings.ReplaceAll(strings.Trim(as, "/"), "/", "."))
	}

	r.scope = scopeState{
		prefixSource:   saved.prefixSource + c.Source,
		prefixExpr:     expr,
		prefixTemplate: saved.prefixTemplate + c.Template,
		namePrefix:     composeName(saved.namePrefix, as),
		params:         append(slices.Clone(saved.params), c.Params...),
		matcher:        m,
	}

	build(r)

	r.scope = saved
}

// GroupList runs build once per entry, each under its own prefix and
// name override.
func (r *Router) GroupList(entries []GroupEntry, build func(*Router)) {
	for _, e := range entries {
		r.Group(e.Prefix, build, GroupOptions{As: e.As})
	}
}
