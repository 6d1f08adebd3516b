package routing

import (
	"fmt"
	"net/url"
	"strings"
)

// Route describes one registered endpoint.
type Route struct {
	Method       string
	Path         string
	Name         string
	ResourceType string
	Relationship string
	Action       string
	Middleware   []string
}

// RouteCollection is an ordered set of routes, indexed by name.
type RouteCollection struct {
	routes []*Route
	byName map[string]*Route
}

// NewRouteCollection creates an empty collection.
func NewRouteCollection() *RouteCollection {
	return &RouteCollection{byName: make(map[string]*Route)}
}

// Add appends route. A named route replaces the name index entry of an
// earlier route with the same name.
func (c *RouteCollection) Add(route *Route) {
	c.routes = append(c.routes, route)
	if route.Name != "" {
		c.byName[route.Name] = route
	}
}

// Merge adds every route of other.
func (c *RouteCollection) Merge(other *RouteCollection) {
	if other == nil {
		return
	}
	for _, route := range other.routes {
		c.Add(route)
	}
}

// All returns the routes in registration order.
func (c *RouteCollection) All() []*Route {
	return append([]*Route(nil), c.routes...)
}

// Len returns the number of routes.
func (c *RouteCollection) Len() int {
	return len(c.routes)
}

// ByName looks up a route by name.
func (c *RouteCollection) ByName(name string) (*Route, bool) {
	r, ok := c.byName[name]
	return r, ok
}

// Actions returns the distinct action names in registration order.
func (c *RouteCollection) Actions() []string {
	var out []string
	seen := make(map[string]bool)
	for _, r := range c.routes {
		if seen[r.Action] {
			continue
		}
		seen[r.Action] = true
		out = append(out, r.Action)
	}
	return out
}

// URL builds the path of the named route, filling its parameters in order.
func (c *RouteCollection) URL(name string, params ...string) (string, error) {
	r, ok := c.byName[name]
	if !ok {
		return "", fmt.Errorf("%s: %w", name, ErrRouteNotFound)
	}

	segments := strings.Split(r.Path, "/")
	next := 0
	for i, segment := range segments {
		if !strings.HasPrefix(segment, ":") {
			continue
		}
		if next >= len(params) {
			return "", fmt.Errorf("route %s: missing value for parameter %s", name, segment[1:])
		}
		segments[i] = url.PathEscape(params[next])
		next++
	}
	if next != len(params) {
		return "", fmt.Errorf("route %s: expected %d parameters, got %d", name, next, len(params))
	}
	return strings.Join(segments, "/"), nil
}
