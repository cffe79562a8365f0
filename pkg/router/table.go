package router

import (
	"strings"

	"github.com/vango-dev/storefront/pkg/routepath"
)

// Route describes a navigable path pattern and the page it activates.
// Build routes with NewRoute.
type Route struct {
	// Name identifies the route and keys the page registry.
	Name string

	// Pattern is the path pattern (e.g., "/orders/:id").
	Pattern string

	// ParamNames lists parameter names in declaration order.
	ParamNames []string

	segments []segment
}

type segment struct {
	text     string
	param    bool
	catchAll bool
}

// NewRoute compiles a route. Pattern segments starting with ":" are parameters.
// A final segment starting with "*" captures the rest of the path.
func NewRoute(name, pattern string) Route {
	r := Route{Name: name, Pattern: pattern}
	for _, seg := range routepath.SplitSegments(pattern) {
		switch {
		case strings.HasPrefix(seg, "*"):
			r.segments = append(r.segments, segment{text: seg[1:], catchAll: true})
			r.ParamNames = append(r.ParamNames, seg[1:])
		case strings.HasPrefix(seg, ":"):
			r.segments = append(r.segments, segment{text: seg[1:], param: true})
			r.ParamNames = append(r.ParamNames, seg[1:])
		default:
			r.segments = append(r.segments, segment{text: seg})
		}
		if len(r.segments) > 0 && r.segments[len(r.segments)-1].catchAll {
			break
		}
	}
	return r
}

// match tests the route against raw path segments.
func (r Route) match(segs []string) (Params, bool) {
	params := make(Params, len(r.ParamNames))
	for i, s := range r.segments {
		if s.catchAll {
			if i >= len(segs) {
				return nil, false
			}
			rest := make([]string, 0, len(segs)-i)
			for _, seg := range segs[i:] {
				rest = append(rest, routepath.DecodeSegment(seg))
			}
			params[s.text] = strings.Join(rest, "/")
			return params, true
		}
		if i >= len(segs) {
			return nil, false
		}
		switch {
		case s.param:
			if segs[i] == "" {
				return nil, false
			}
			params[s.text] = routepath.DecodeSegment(segs[i])
		case s.text != segs[i]:
			return nil, false
		}
	}
	if len(segs) != len(r.segments) {
		return nil, false
	}
	return params, true
}

// Match is a route resolved for a path.
type Match struct {
	Route  Route
	Params Params
}

// Table is an ordered route list with a NotFound fallback. The first matching
// route wins. A Table is immutable once built.
type Table struct {
	routes   []Route
	notFound Route
}

// NewTable builds a table. notFound names the fallback route, which has no
// pattern.
func NewTable(notFound string, routes ...Route) *Table {
	return &Table{
		routes:   append([]Route(nil), routes...),
		notFound: Route{Name: notFound},
	}
}

// Routes returns the routes in match order, NotFound excluded.
func (t *Table) Routes() []Route {
	return append([]Route(nil), t.routes...)
}

// NotFound returns the fallback route.
func (t *Table) NotFound() Route {
	return t.notFound
}

// IsNotFound reports whether m resolved to the fallback route.
func (t *Table) IsNotFound(m Match) bool {
	return m.Route.Name == t.notFound.Name
}

// Match resolves a normalized path. It never fails: a path no route accepts
// yields the NotFound route with empty params.
func (t *Table) Match(path string) Match {
	path, _, _ = strings.Cut(path, "?")
	segs := routepath.SplitSegments(path)
	for _, r := range t.routes {
		if params, ok := r.match(segs); ok {
			return Match{Route: r, Params: params}
		}
	}
	return Match{Route: t.notFound, Params: Params{}}
}

// Resolve normalizes raw and matches it.
func (t *Table) Resolve(raw string) (string, Match) {
	path, _ := routepath.Split(raw)
	return path, t.Match(path)
}
