package router

import (
	"fmt"
	"net/http"
	"strings"
)

// knownMethods is the closed set of verb tokens accepted in method
// strings and controller method names, keyed by their lowercase form.
var knownMethods = map[string]string{
	"get":     http.MethodGet,
	"post":    http.MethodPost,
	"put":     http.MethodPut,
	"patch":   http.MethodPatch,
	"delete":  http.MethodDelete,
	"head":    http.MethodHead,
	"options": http.MethodOptions,
	"connect": http.MethodConnect,
	"trace":   http.MethodTrace,
}

// parseMethods translates the "|"-separated method convention into a
// route's verb set. The empty string, "ANY" and "*" mean any method and
// yield a nil set. Unknown verb tokens are configuration errors and
// panic with ErrUnknownMethod.
func parseMethods(methods string) []string {
	methods = strings.TrimSpace(methods)
	if methods == "" || methods == "*" || strings.EqualFold(methods, "any") {
		return nil
	}
	var out []string
	for _, tok := range strings.Split(methods, "|") {
		verb, ok := knownMethods[strings.ToLower(strings.TrimSpace(tok))]
		if !ok {
			panic(fmt.Errorf("%w: %q", ErrUnknownMethod, tok))
		}
		out = append(out, verb)
	}
	return out
}

// splitCamel splits a controller method name at its camelCase
// boundaries: "getPostArchive" becomes ["get" "Post" "Archive"].
func splitCamel(name string) []string {
	var tokens []string
	start := 0
	for i := 1; i < len(name); i++ {
		if name[i] >= 'A' && name[i] <= 'Z' {
			tokens = append(tokens, name[start:i])
			start = i
		}
	}
	return append(tokens, name[start:])
}

// splitVerbs greedily consumes the leading verb tokens of a camelCase
// controller method name, always leaving at least one trailing token
// for the sub-path: "getPost" stays GET /post while "getPostSearch"
// matches GET and POST. "any" is accepted as a pseudo-verb selecting
// every method. A method name with no verb prefix is a configuration
// error.
func splitVerbs(key string) (verbs, rest []string) {
	tokens := splitCamel(key)
	i := 0
	for i < len(tokens)-1 {
		tok := strings.ToLower(tokens[i])
		if _, ok := knownMethods[tok]; !ok && tok != "any" {
			break
		}
		verbs = append(verbs, tok)
		i++
	}
	if len(verbs) == 0 {
		panic(fmt.Errorf("%w: controller method %q has no verb prefix", ErrUnknownMethod, key))
	}
	return verbs, tokens[i:]
}
