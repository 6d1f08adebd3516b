package routing

import "slices"

// Options is the configuration a PendingResourceRegistration hands to the
// registrar. Action names are canonical by the time they are stored.
type Options struct {
	Only               []string            `json:"only,omitempty"`
	Except             []string            `json:"except,omitempty"`
	Names              map[string]string   `json:"names,omitempty"`
	Parameter          string              `json:"parameter,omitempty"`
	Middleware         []string            `json:"middleware,omitempty"`
	ActionMiddleware   map[string][]string `json:"action_middleware,omitempty"`
	ExcludedMiddleware []string            `json:"excluded_middleware,omitempty"`
}

// Actions returns the candidates that survive Only and then Except,
// in candidate order.
func (o Options) Actions(candidates []string) []string {
	var out []string
	for _, action := range candidates {
		if o.Only != nil && !slices.Contains(o.Only, action) {
			continue
		}
		if slices.Contains(o.Except, action) {
			continue
		}
		out = append(out, action)
	}
	return out
}

// RouteName returns the configured name for action, or fallback.
func (o Options) RouteName(action, fallback string) string {
	if name, ok := o.Names[action]; ok && name != "" {
		return name
	}
	return fallback
}

// MiddlewareFor returns the middleware names for action: the global list
// followed by the action list, without excluded names and duplicates.
func (o Options) MiddlewareFor(action string) []string {
	return composeMiddleware(o.ExcludedMiddleware, o.Middleware, o.ActionMiddleware[action])
}

func (o Options) clone() Options {
	c := Options{
		Only:               slices.Clone(o.Only),
		Except:             slices.Clone(o.Except),
		Parameter:          o.Parameter,
		Middleware:         slices.Clone(o.Middleware),
		ExcludedMiddleware: slices.Clone(o.ExcludedMiddleware),
	}
	if o.Names != nil {
		c.Names = make(map[string]string, len(o.Names))
		for k, v := range o.Names {
			c.Names[k] = v
		}
	}
	if o.ActionMiddleware != nil {
		c.ActionMiddleware = make(map[string][]string, len(o.ActionMiddleware))
		for k, v := range o.ActionMiddleware {
			c.ActionMiddleware[k] = slices.Clone(v)
		}
	}
	return c
}

func composeMiddleware(excluded []string, lists ...[]string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, name := range list {
			if seen[name] || slices.Contains(excluded, name) {
				continue
			}
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}
