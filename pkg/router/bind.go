package router

import (
	"slices"
	"strings"
)

// invocation is one recorded handler call with its bound arguments.
type invocation struct {
	route      *Route
	args       map[string]string
	order      []string
	positional []string
	catchAll   string
}

// bind turns raw captured values into the argument set of one handler
// invocation. Group-level parameter names come ahead of route-level
// ones. When name and capture counts agree the two lists zip; otherwise
// captures shift off the front onto the names, and a single leftover
// value splits on "/" into the auxiliary positional sequence while
// several leftovers keep their original positions. A leading positional
// value duplicating the full catch-all capture is dropped.
func bind(rt *Route, caps []string) invocation {
	inv := invocation{route: rt, args: make(map[string]string)}

	all := slices.Concat(rt.groupParams, rt.params)
	var names []string
	for _, p := range all {
		if p.Name != "" {
			names = append(names, p.Name)
		}
	}
	inv.order = names

	for i, p := range all {
		if i < len(caps) && p.CatchAll() {
			inv.catchAll = caps[i]
		}
	}

	if len(names) == len(caps) {
		for i, name := range names {
			inv.args[name] = caps[i]
		}
		return inv
	}

	next := 0
	for _, name := range names {
		if next < len(caps) {
			inv.args[name] = caps[next]
			next++
		} else {
			inv.args[name] = ""
		}
	}

	left := caps[next:]
	if len(left) == 1 {
		inv.positional = strings.Split(left[0], "/")
	} else {
		inv.positional = slices.Clone(left)
	}
	if len(inv.positional) > 0 && inv.catchAll != "" && inv.positional[0] == inv.catchAll {
		inv.positional = inv.positional[1:]
	}
	return inv
}
