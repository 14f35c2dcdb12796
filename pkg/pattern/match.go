package pattern

import (
	"regexp"
	"strings"
)

// Matcher holds the anchored, case-insensitive forms of a compiled
// expression. The strict form anchors both ends and is used for
// full-route checks; the prefix form anchors only the start and is used
// for group-prefix and middleware-scope checks.
type Matcher struct {
	expr   string
	strict *regexp.Regexp
	prefix *regexp.Regexp
}

// NewMatcher anchors and compiles expr. An error means the expression is
// not valid regex syntax, which for well-formed templates can only come
// from an inline fragment.
func NewMatcher(expr string) (*Matcher, error) {
	strict, err := regexp.Compile("(?i)^" + expr + "$")
	if err != nil {
		return nil, err
	}
	prefix, err := regexp.Compile("(?i)^" + expr)
	if err != nil {
		return nil, err
	}
	return &Matcher{expr: expr, strict: strict, prefix: prefix}, nil
}

// Expr returns the unanchored expression the matcher was built from.
func (m *Matcher) Expr() string {
	return m.expr
}

// Match tests path against the strictly anchored expression. On success
// the captured groups are returned slash-trimmed, in order; on failure
// nothing changes and ok is false.
func (m *Matcher) Match(path string) ([]string, bool) {
	return capture(m.strict, path)
}

// MatchPrefix tests whether path begins with the expression.
func (m *Matcher) MatchPrefix(path string) ([]string, bool) {
	return capture(m.prefix, path)
}

func capture(re *regexp.Regexp, path string) ([]string, bool) {
	parts := re.FindStringSubmatch(path)
	if parts == nil {
		return nil, false
	}
	caps := make([]string, len(parts)-1)
	for i, v := range parts[1:] {
		caps[i] = strings.Trim(v, "/")
	}
	return caps, true
}
