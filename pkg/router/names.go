package router

import (
	"regexp"
	"sort"
	"strings"
)

// nameMarkup matches the parameter tokens of a reversible template:
// /:name placeholders and the anonymous /? and /* wildcards.
var nameMarkup = regexp.MustCompile(`/(:[a-z0-9-]+|\*|\?)`)

// literalName derives the dotted auto-name of a template: slashes become
// dots, lowercased. Only purely literal templates qualify; any parameter
// or regex syntax disables auto-naming.
func literalName(source string) string {
	if strings.ContainsAny(source, "{}?:()*") {
		return ""
	}
	s := strings.Trim(source, "/")
	if s == "" {
		return ""
	}
	return strings.ToLower(strings.ReplaceAll(s, "/", "."))
}

// strippedName derives a group's default name-prefix from its reversible
// template: parameter markup is stripped and the remaining literal
// segments joined by dots.
func strippedName(template string) string {
	s := nameMarkup.ReplaceAllString(template, "")
	s = strings.Trim(s, "/")
	return strings.ToLower(strings.ReplaceAll(s, "/", "."))
}

// composeName joins a name-prefix and a name with a dot, tolerating
// either being empty.
func composeName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	if name == "" {
		return prefix
	}
	return prefix + "." + name
}

// storeName records a reversible template under a dotted name. Names
// are case-insensitive and the last registration wins. Stored templates
// drop the trailing slash so resolved URIs come out clean.
func (r *Router) storeName(name, template string) {
	if template != "/" {
		template = strings.TrimSuffix(template, "/")
	}
	r.names[strings.ToLower(name)] = template
}

// Resolve looks up a route name case-insensitively and substitutes the
// given arguments into the stored template's :name placeholders. ok is
// false for unknown names.
func (r *Router) Resolve(name string, args map[string]string) (string, bool) {
	template, ok := r.names[strings.ToLower(name)]
	if !ok {
		return "", false
	}

	// Longer keys first so :id never clobbers :idx.
	keys := make([]string, 0, len(args))
	for key := range args {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	for _, key := range keys {
		template = strings.ReplaceAll(template, ":"+strings.ToLower(key), args[key])
	}
	return template, true
}

// URLFor resolves a named route and prefixes the configured base URL.
func (r *Router) URLFor(name string, args map[string]string) (string, bool) {
	uri, ok := r.Resolve(name, args)
	if !ok {
		return "", false
	}
	return strings.TrimSuffix(r.config.BaseURL, "/") + uri, true
}
