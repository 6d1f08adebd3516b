package routing

import "fmt"

// PendingResourceRegistration collects the route options of one resource type
// until it is registered. Every configuration method returns the receiver.
type PendingResourceRegistration struct {
	registrar    ResourceRegistrar
	resourceType string
	controller   string
	options      Options

	relationships func(*Relationships)
	actionsPrefix string
	actions       func(*ActionRegistrar)
	actionsErr    error

	registered bool
	routes     *RouteCollection
	err        error
}

// NewPendingResourceRegistration creates a builder for resourceType handled
// by the controller bound under the given name.
func NewPendingResourceRegistration(registrar ResourceRegistrar, resourceType, controller string) *PendingResourceRegistration {
	return &PendingResourceRegistration{
		registrar:    registrar,
		resourceType: resourceType,
		controller:   controller,
	}
}

// ResourceType returns the resource type being registered.
func (p *PendingResourceRegistration) ResourceType() string {
	return p.resourceType
}

// Controller returns the controller name.
func (p *PendingResourceRegistration) Controller() string {
	return p.controller
}

// Options returns a copy of the collected options.
func (p *PendingResourceRegistration) Options() Options {
	return p.options.clone()
}

// Registered reports whether Register has run.
func (p *PendingResourceRegistration) Registered() bool {
	return p.registered
}

// Only sets the actions the controller applies to.
func (p *PendingResourceRegistration) Only(actions ...string) *PendingResourceRegistration {
	p.options.Only = normalizeActions(actions)
	return p
}

// Except sets the actions the controller excludes.
func (p *PendingResourceRegistration) Except(actions ...string) *PendingResourceRegistration {
	p.options.Except = normalizeActions(actions)
	return p
}

// ReadOnly only registers the index and show actions.
func (p *PendingResourceRegistration) ReadOnly() *PendingResourceRegistration {
	return p.Only(ActionIndex, ActionShow)
}

// Names sets the route names for controller actions.
func (p *PendingResourceRegistration) Names(names map[string]string) *PendingResourceRegistration {
	for action, name := range names {
		p.Name(action, name)
	}
	return p
}

// Name sets the route name for a controller action.
func (p *PendingResourceRegistration) Name(action, name string) *PendingResourceRegistration {
	if p.options.Names == nil {
		p.options.Names = make(map[string]string)
	}
	p.options.Names[NormalizeAction(action)] = name
	return p
}

// Parameter overrides the route parameter name.
func (p *PendingResourceRegistration) Parameter(name string) *PendingResourceRegistration {
	p.options.Parameter = name
	return p
}

// Middleware sets the middleware applied to every resource route.
func (p *PendingResourceRegistration) Middleware(names ...string) *PendingResourceRegistration {
	p.options.Middleware = append([]string(nil), names...)
	return p
}

// MiddlewareMap sets middleware per action. The "*" key holds the middleware
// for every route; the other keys are action names.
func (p *PendingResourceRegistration) MiddlewareMap(middleware map[string][]string) *PendingResourceRegistration {
	p.options.Middleware = append([]string(nil), middleware["*"]...)
	p.options.ActionMiddleware = make(map[string][]string, len(middleware))
	for action, names := range middleware {
		if action == "*" {
			continue
		}
		action = NormalizeAction(action)
		p.options.ActionMiddleware[action] = append(p.options.ActionMiddleware[action], names...)
	}
	return p
}

// WithoutMiddleware removes middleware from the resource routes.
// Repeated calls accumulate.
func (p *PendingResourceRegistration) WithoutMiddleware(names ...string) *PendingResourceRegistration {
	p.options.ExcludedMiddleware = append(p.options.ExcludedMiddleware, names...)
	return p
}

// Relationships registers the resource relationship routes declared by fn.
func (p *PendingResourceRegistration) Relationships(fn func(*Relationships)) *PendingResourceRegistration {
	p.relationships = fn
	return p
}

// Actions registers custom actions for the resource. Invalid arguments fail
// Register unless a later Actions or ActionsWithPrefix call replaces them.
func (p *PendingResourceRegistration) Actions(fn func(*ActionRegistrar)) *PendingResourceRegistration {
	if fn == nil {
		p.actionsErr = fmt.Errorf("%s: %w", p.resourceType, ErrInvalidArgument)
		return p
	}
	p.actionsErr = nil
	p.actionsPrefix = ""
	p.actions = fn
	return p
}

// ActionsWithPrefix registers custom actions under a path prefix.
func (p *PendingResourceRegistration) ActionsWithPrefix(prefix string, fn func(*ActionRegistrar)) *PendingResourceRegistration {
	if prefix == "" || fn == nil {
		p.actionsErr = fmt.Errorf("%s: %w", p.resourceType, ErrInvalidArgument)
		return p
	}
	p.actionsErr = nil
	p.actionsPrefix = prefix
	p.actions = fn
	return p
}

// Register submits the resource to the registrar. Only the first call reaches
// the registrar; later calls return the same result.
func (p *PendingResourceRegistration) Register() (*RouteCollection, error) {
	if p.registered {
		return p.routes, p.err
	}
	p.registered = true

	if p.actionsErr != nil {
		p.err = p.actionsErr
		return nil, p.err
	}

	p.routes, p.err = p.register()
	return p.routes, p.err
}

func (p *PendingResourceRegistration) register() (*RouteCollection, error) {
	options := p.options.clone()

	routes, err := p.registrar.Register(p.resourceType, p.controller, options)
	if err != nil {
		return nil, err
	}
	if routes == nil {
		routes = NewRouteCollection()
	}

	if p.relationships != nil {
		relations, err := p.registrar.Relationships(p.resourceType, p.controller, options, p.relationships)
		if err != nil {
			return nil, err
		}
		for _, route := range relations {
			routes.Add(route)
		}
	}

	if p.actions != nil {
		actions, err := p.registrar.Actions(p.resourceType, p.controller, options, p.actionsPrefix, p.actions)
		if err != nil {
			return nil, err
		}
		for _, route := range actions {
			routes.Add(route)
		}
	}

	return routes, nil
}
