package pattern

import (
	"regexp"
	"strings"
)

const (
	// defaultSegment matches exactly one path segment.
	defaultSegment = "[^/]+"
	// remainder matches everything up to the end of the path.
	remainder = ".*"
)

var duplicateSlashes = regexp.MustCompile(`/{2,}`)

// Normalize canonicalizes a URI template or request path: duplicate
// slashes collapse to one, a leading slash is ensured, and every non-root
// path carries a trailing slash. Route matching always happens against
// this slash-bounded form.
func Normalize(uri string) string {
	uri = duplicateSlashes.ReplaceAllString(uri, "/")
	if !strings.HasPrefix(uri, "/") {
		uri = "/" + uri
	}
	if uri != "/" && !strings.HasSuffix(uri, "/") {
		uri += "/"
	}
	return uri
}

// NormalizePrefix canonicalizes a group prefix or middleware scope
// pattern. Prefixes are matched non-strictly against the start of the
// path, so no trailing slash is forced; forcing one would stop the
// catch-all scope "*" from covering the root path.
func NormalizePrefix(uri string) string {
	uri = duplicateSlashes.ReplaceAllString(uri, "/")
	if !strings.HasPrefix(uri, "/") {
		uri = "/" + uri
	}
	if uri != "/" {
		uri = strings.TrimSuffix(uri, "/")
	}
	return uri
}

// Param is one captured position in a compiled template. Anonymous
// wildcard captures carry an empty Name. Snippet is the exact regex text
// the token compiled to; the name registry substitutes it back into a
// :name placeholder when reconstructing reversible templates.
type Param struct {
	Name     string
	Fragment string
	Snippet  string
}

// CatchAll reports whether the param captures the path remainder.
func (p Param) CatchAll() bool {
	return p.Fragment == remainder
}

// Compiled is the result of translating one template.
type Compiled struct {
	// Source is the template text as given to Compile.
	Source string
	// Expr is the regular-expression translation, left unanchored so a
	// group prefix expression can be concatenated with a route expression
	// before anchoring.
	Expr string
	// Template is the reversible form: named parameter tokens become
	// /:name placeholders while literals stay verbatim. Anonymous
	// wildcard tokens have no name and are kept as-is.
	Template string
	// Params lists captures in left-to-right order.
	Params []Param
}

// Compile translates a normalized URI template into regular-expression
// text. It is a pure function of its inputs; the registry is consulted
// only for fragment lookups. Recognized tokens:
//
//	/?              one anonymous path segment
//	/*              the remainder of the path
//	/{name}         named parameter, default single-segment fragment
//	/{name}?        optional named parameter, separator skipped with it
//	/{name}:frag    named parameter with a registered or inline fragment
//
// A fragment selector runs to the next slash. Parameter names consist of
// letters, digits and hyphens and are lowercased. Everything that is not
// a well-formed token is matched literally. Capturing groups inside
// fragment text are rewritten to the non-capturing form, keeping
// captures aligned with parameter positions.
func Compile(reg *Registry, template string) *Compiled {
	c := &Compiled{Source: template}
	var expr, tpl strings.Builder
	for i := 0; i < len(template); {
		if template[i] == '/' && i+1 < len(template) {
			switch template[i+1] {
			case '?':
				expr.WriteString("/(" + defaultSegment + ")")
				tpl.WriteString("/?")
				c.Params = append(c.Params, Param{Fragment: defaultSegment, Snippet: "/(" + defaultSegment + ")"})
				i += 2
				continue
			case '*':
				expr.WriteString("/(" + remainder + ")")
				tpl.WriteString("/*")
				c.Params = append(c.Params, Param{Fragment: remainder, Snippet: "/(" + remainder + ")"})
				i += 2
				continue
			case '{':
				if name, selector, optional, next, ok := scanParam(template, i+1); ok {
					frag := nonCapturing(reg.resolve(selector))
					var snippet string
					if optional {
						snippet = "(/" + frag + ")?"
					} else {
						snippet = "/(" + frag + ")"
					}
					expr.WriteString(snippet)
					tpl.WriteString("/:" + name)
					c.Params = append(c.Params, Param{Name: name, Fragment: frag, Snippet: snippet})
					i = next
					continue
				}
			}
		}
		expr.WriteString(regexp.QuoteMeta(template[i : i+1]))
		tpl.WriteByte(template[i])
		i++
	}
	c.Expr = expr.String()
	c.Template = tpl.String()
	return c
}

// scanParam reads a {name} token starting at the opening brace. It
// returns the lowercased parameter name, the fragment selector following
// an optional ":", whether the "?" optional marker was present, and the
// index just past the token. ok is false when the text is not a
// well-formed parameter token, in which case the caller falls back to
// literal matching.
func scanParam(s string, open int) (name, selector string, optional bool, next int, ok bool) {
	i := open + 1
	for i < len(s) && isNameByte(s[i]) {
		i++
	}
	if i == open+1 || i >= len(s) || s[i] != '}' {
		return "", "", false, 0, false
	}
	name = strings.ToLower(s[open+1 : i])
	i++
	if i < len(s) && s[i] == '?' {
		optional = true
		i++
	}
	if i < len(s) && s[i] == ':' {
		i++
		start := i
		for i < len(s) && s[i] != '/' {
			i++
		}
		selector = s[start:i]
	}
	return name, selector, optional, i, true
}

func isNameByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9' || b == '-'
}

// nonCapturing rewrites bare capturing groups in fragment text to the
// (?: form. The matcher reads captures by position, so a fragment must
// not add capture groups of its own. Escaped parentheses, parentheses
// inside character classes and groups already carrying a "?" qualifier
// pass through unchanged.
func nonCapturing(frag string) string {
	if !strings.Contains(frag, "(") {
		return frag
	}
	var out strings.Builder
	inClass := false
	for i := 0; i < len(frag); i++ {
		b := frag[i]
		if b == '\\' && i+1 < len(frag) {
			out.WriteByte(b)
			i++
			out.WriteByte(frag[i])
			continue
		}
		if inClass {
			if b == ']' {
				inClass = false
			}
		} else if b == '[' {
			inClass = true
		} else if b == '(' && (i+1 >= len(frag) || frag[i+1] != '?') {
			out.WriteString("(?:")
			continue
		}
		out.WriteByte(b)
	}
	return out.String()
}
