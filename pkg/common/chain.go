package common

import (
	"fmt"
	"strings"

	"github.com/patmux/patmux/pkg/pattern"
)

// Chain is an ordered list of scoped middleware callbacks. A router
// keeps two: the before chain runs ahead of the matched handlers, the
// after chain behind them.
//
// Each entry is guarded by a scope pattern written in the same template
// language as routes and matched non-strictly against the request path.
// A scope may list "|"-separated alternatives; a leading "!" inverts the
// whole entry so the callback runs only when none of the alternatives
// match, which is how global middleware skips excluded paths. The bare
// "*" covers every path.
type Chain struct {
	registry *pattern.Registry
	entries  []chainEntry
}

type chainEntry struct {
	scope    string
	negate   bool
	matchers []*pattern.Matcher
	handler  Handler
}

// NewChain returns an empty chain compiling its scope patterns against
// the given fragment registry.
func NewChain(reg *pattern.Registry) *Chain {
	return &Chain{registry: reg}
}

// Add appends a callback under the given scope pattern. Malformed scope
// patterns are configuration errors and panic.
func (c *Chain) Add(scope string, h Handler) {
	e := chainEntry{scope: scope, handler: h}
	body := scope
	if strings.HasPrefix(body, "!") {
		e.negate = true
		body = body[1:]
	}
	for _, alt := range strings.Split(body, "|") {
		comp := pattern.Compile(c.registry, pattern.NormalizePrefix(alt))
		m, err := pattern.NewMatcher(comp.Expr)
		if err != nil {
			panic(fmt.Errorf("middleware scope %q: %w", scope, err))
		}
		e.matchers = append(e.matchers, m)
	}
	c.entries = append(c.entries, e)
}

// Len returns the number of registered entries.
func (c *Chain) Len() int {
	return len(c.entries)
}

// Emit runs every entry relevant to the context's path in registration
// order. It returns false when a callback returned the halt signal,
// leaving the remaining entries unrun.
func (c *Chain) Emit(ctx *Context) bool {
	for _, e := range c.entries {
		if !e.relevant(ctx.Path) {
			continue
		}
		if Halted(e.handler(ctx)) {
			return false
		}
	}
	return true
}

func (e *chainEntry) relevant(path string) bool {
	matched := false
	for _, m := range e.matchers {
		if _, ok := m.MatchPrefix(path); ok {
			matched = true
			break
		}
	}
	if e.negate {
		return !matched
	}
	return matched
}

// Halted reports whether a callback return value is the boolean false
// halt signal. Any other value, including nil, lets a chain proceed.
func Halted(v any) bool {
	b, ok := v.(bool)
	return ok && !b
}
