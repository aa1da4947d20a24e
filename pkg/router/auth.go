package router

import "slices"

// Descriptor describes a navigable route, typically a menu entry.
type Descriptor struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

// RouteEntry binds a route key to its descriptor.
type RouteEntry struct {
	Key   string
	Route Descriptor
}

// Registry is the ordered set of describable routes.
// FilterRoutesByAuth enumerates it in slice order.
type Registry []RouteEntry

// Lookup returns the descriptor registered under key.
func (reg Registry) Lookup(key string) (Descriptor, bool) {
	for _, e := range reg {
		if e.Key == key {
			return e.Route, true
		}
	}
	return Descriptor{}, false
}

// Auths holds the three visibility classifications of route keys.
// The sets are neither deduplicated nor checked for overlap.
type Auths struct {
	Always           []string
	Authenticated    []string
	NotAuthenticated []string
}

// AuthGate computes the routes visible for an authentication state.
type AuthGate struct {
	auths    Auths
	registry Registry
}

// NewAuthGate creates a gate over registry.
func NewAuthGate(registry Registry) *AuthGate {
	return &AuthGate{registry: registry}
}

// AddAuths appends route keys to the three classifications.
// Nil or empty slices leave a classification unchanged.
func (g *AuthGate) AddAuths(always, authenticated, notAuthenticated []string) {
	g.auths.Always = append(g.auths.Always, always...)
	g.auths.Authenticated = append(g.auths.Authenticated, authenticated...)
	g.auths.NotAuthenticated = append(g.auths.NotAuthenticated, notAuthenticated...)
}

// Auths returns a copy of the current classifications.
func (g *AuthGate) Auths() Auths {
	return Auths{
		Always:           append([]string(nil), g.auths.Always...),
		Authenticated:    append([]string(nil), g.auths.Authenticated...),
		NotAuthenticated: append([]string(nil), g.auths.NotAuthenticated...),
	}
}

// SetRegistry replaces the route registry consulted by FilterRoutesByAuth.
func (g *AuthGate) SetRegistry(registry Registry) {
	g.registry = registry
}

// Registry returns the route registry.
func (g *AuthGate) Registry() Registry {
	return g.registry
}

// FilterRoutesByAuth returns the registry's descriptors visible for the given
// authentication state, in registry order. A route is emitted once for
// membership in Always and once more for membership in the set selected by
// isAuthenticated, so a key present in both appears twice.
func (g *AuthGate) FilterRoutesByAuth(isAuthenticated bool) []Descriptor {
	routes := []Descriptor{}
	for _, e := range g.registry {
		if slices.Contains(g.auths.Always, e.Key) {
			routes = append(routes, e.Route)
		}
		if isAuthenticated {
			if slices.Contains(g.auths.Authenticated, e.Key) {
				routes = append(routes, e.Route)
			}
		} else if slices.Contains(g.auths.NotAuthenticated, e.Key) {
			routes = append(routes, e.Route)
		}
	}
	return routes
}
