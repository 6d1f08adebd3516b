package routing

import (
	"fmt"
	"net/http"
	"path"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/inflection"
	"github.com/stoewer/go-strcase"
	"go.uber.org/zap"
)

// ResourceRegistrar turns collected options into routes.
type ResourceRegistrar interface {
	Register(resourceType, controller string, opts Options) (*RouteCollection, error)
	Relationships(resourceType, controller string, opts Options, fn func(*Relationships)) ([]*Route, error)
	Actions(resourceType, controller string, opts Options, prefix string, fn func(*ActionRegistrar)) ([]*Route, error)
}

// Registrar registers resource routes on a gin router group.
type Registrar struct {
	group            *gin.RouterGroup
	controllers      *Controllers
	aliases          map[string]gin.HandlerFunc
	serverMiddleware []string
	namePrefix       string
	logger           *zap.Logger

	// handled holds the method and full path of every committed route.
	handled map[string]bool
}

// RegistrarOption configures a Registrar.
type RegistrarOption func(*Registrar)

// WithMiddlewareAliases sets the middleware names routes may refer to.
func WithMiddlewareAliases(aliases map[string]gin.HandlerFunc) RegistrarOption {
	return func(r *Registrar) {
		for name, h := range aliases {
			r.aliases[name] = h
		}
	}
}

// WithServerMiddleware applies middleware to every route of the registrar.
// Resources can still remove it with WithoutMiddleware.
func WithServerMiddleware(names ...string) RegistrarOption {
	return func(r *Registrar) {
		r.serverMiddleware = append(r.serverMiddleware, names...)
	}
}

// WithNamePrefix prefixes every route name.
func WithNamePrefix(prefix string) RegistrarOption {
	return func(r *Registrar) {
		r.namePrefix = prefix
	}
}

// WithLogger sets the logger used to report registered routes.
func WithLogger(logger *zap.Logger) RegistrarOption {
	return func(r *Registrar) {
		r.logger = logger
	}
}

// NewRegistrar creates a Registrar adding routes to group.
func NewRegistrar(group *gin.RouterGroup, controllers *Controllers, opts ...RegistrarOption) *Registrar {
	r := &Registrar{
		group:       group,
		controllers: controllers,
		aliases:     make(map[string]gin.HandlerFunc),
		logger:      zap.NewNop(),
		handled:     make(map[string]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	return r
}

type plannedRoute struct {
	route    *Route
	handlers gin.HandlersChain
}

// Register adds the CRUD routes of a resource.
func (r *Registrar) Register(resourceType, controllerName string, opts Options) (*RouteCollection, error) {
	controller, err := r.resolve(controllerName)
	if err != nil {
		return nil, err
	}

	param := r.parameter(resourceType, opts)
	collection := "/" + resourceType
	member := collection + "/:" + param

	var planned []plannedRoute
	for _, action := range opts.Actions(resourceActions) {
		h, ok := resourceHandler(controller, action)
		if !ok {
			return nil, fmt.Errorf("%s %s: %w", controllerName, action, ErrMissingHandler)
		}

		route := &Route{
			ResourceType: resourceType,
			Action:       action,
			Name:         r.namePrefix + opts.RouteName(action, resourceType+"."+action),
		}
		routeParam := param
		switch action {
		case ActionIndex:
			route.Method, route.Path, routeParam = http.MethodGet, collection, ""
		case ActionStore:
			route.Method, route.Path, routeParam = http.MethodPost, collection, ""
		case ActionShow:
			route.Method, route.Path = http.MethodGet, member
		case ActionUpdate:
			route.Method, route.Path = http.MethodPatch, member
		case ActionDestroy:
			route.Method, route.Path = http.MethodDelete, member
		}

		p, err := r.plan(route, opts.ExcludedMiddleware, opts.MiddlewareFor(action),
			routeContext(resourceType, routeParam, ""), h)
		if err != nil {
			return nil, err
		}
		planned = append(planned, p)
	}

	committed, err := r.commit(planned)
	if err != nil {
		return nil, err
	}
	routes := NewRouteCollection()
	for _, route := range committed {
		routes.Add(route)
	}
	return routes, nil
}

// Relationships adds the relationship routes declared by fn.
func (r *Registrar) Relationships(resourceType, controllerName string, opts Options, fn func(*Relationships)) ([]*Route, error) {
	controller, err := r.resolve(controllerName)
	if err != nil {
		return nil, err
	}

	relationships := NewRelationships(resourceType)
	fn(relationships)

	param := r.parameter(resourceType, opts)
	member := "/" + resourceType + "/:" + param

	var planned []plannedRoute
	for _, rel := range relationships.Registrations() {
		excluded := append(slices.Clone(opts.ExcludedMiddleware), rel.excluded...)
		middleware := composeMiddleware(nil, opts.Middleware, rel.middleware)

		for _, action := range rel.Actions() {
			h, ok := relationshipHandler(controller, action)
			if !ok {
				return nil, fmt.Errorf("%s %s %s: %w", controllerName, rel.field, action, ErrMissingHandler)
			}

			route := &Route{
				ResourceType: resourceType,
				Relationship: rel.field,
				Action:       action,
			}
			fallback := resourceType + "." + rel.field
			relationshipPath := member + "/relationships/" + rel.uri
			switch action {
			case ActionRelated:
				route.Method, route.Path = http.MethodGet, member+"/"+rel.uri
			case ActionShow:
				route.Method, route.Path, fallback = http.MethodGet, relationshipPath, fallback+".show"
			case ActionUpdate:
				route.Method, route.Path, fallback = http.MethodPatch, relationshipPath, fallback+".update"
			case ActionAttach:
				route.Method, route.Path, fallback = http.MethodPost, relationshipPath, fallback+".attach"
			case ActionDetach:
				route.Method, route.Path, fallback = http.MethodDelete, relationshipPath, fallback+".detach"
			}
			route.Name = r.namePrefix + fallback
			if name, ok := rel.names[action]; ok && name != "" {
				route.Name = r.namePrefix + name
			}

			p, err := r.plan(route, excluded, middleware, routeContext(resourceType, param, rel.field), h)
			if err != nil {
				return nil, err
			}
			planned = append(planned, p)
		}
	}

	return r.commit(planned)
}

// Actions adds the custom action routes declared by fn.
func (r *Registrar) Actions(resourceType, controllerName string, opts Options, prefix string, fn func(*ActionRegistrar)) ([]*Route, error) {
	controller, err := r.resolve(controllerName)
	if err != nil {
		return nil, err
	}

	actions := NewActionRegistrar(resourceType)
	fn(actions)

	param := r.parameter(resourceType, opts)

	var planned []plannedRoute
	for _, action := range actions.Registrations() {
		h, ok := customHandler(controller, action.method)
		if !ok {
			return nil, fmt.Errorf("%s %s: %w", controllerName, action.method, ErrMissingHandler)
		}

		routePath := "/" + resourceType
		routeParam := ""
		if action.withID {
			routePath += "/:" + param
			routeParam = param
		}
		if prefix != "" {
			routePath += "/" + prefix
		}
		routePath += "/" + action.uri

		route := &Route{
			Method:       action.httpMethod,
			Path:         routePath,
			Name:         r.namePrefix + resourceType + "." + action.method,
			ResourceType: resourceType,
			Action:       action.method,
		}
		if action.name != "" {
			route.Name = r.namePrefix + action.name
		}

		excluded := append(slices.Clone(opts.ExcludedMiddleware), action.excluded...)
		middleware := composeMiddleware(nil, opts.Middleware, action.middleware)

		p, err := r.plan(route, excluded, middleware, routeContext(resourceType, routeParam, ""), h)
		if err != nil {
			return nil, err
		}
		planned = append(planned, p)
	}

	return r.commit(planned)
}

func (r *Registrar) resolve(name string) (any, error) {
	controller, ok := r.controllers.Resolve(name)
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownController)
	}
	return controller, nil
}

// parameter returns the id parameter of a resource: the override, or the
// singular snake case of the resource type.
func (r *Registrar) parameter(resourceType string, opts Options) string {
	if opts.Parameter != "" {
		return opts.Parameter
	}
	return inflection.Singular(strcase.SnakeCase(resourceType))
}

// plan resolves the middleware of route and builds its handler chain.
func (r *Registrar) plan(route *Route, excluded, middleware []string, ctx, h gin.HandlerFunc) (plannedRoute, error) {
	route.Middleware = composeMiddleware(excluded, r.serverMiddleware, middleware)

	handlers := gin.HandlersChain{ctx}
	for _, name := range route.Middleware {
		mw, ok := r.aliases[name]
		if !ok {
			return plannedRoute{}, fmt.Errorf("route %s: %s: %w", route.Name, name, ErrUnknownMiddleware)
		}
		handlers = append(handlers, mw)
	}
	handlers = append(handlers, h)

	return plannedRoute{route: route, handlers: handlers}, nil
}

// commit adds planned routes to the gin group. Nothing is added when one of
// them repeats a method and path already handled by the registrar.
func (r *Registrar) commit(planned []plannedRoute) (routes []*Route, err error) {
	batch := make(map[string]bool, len(planned))
	for _, p := range planned {
		key := p.route.Method + " " + path.Join(r.group.BasePath(), p.route.Path)
		if r.handled[key] || batch[key] {
			return nil, fmt.Errorf("%s (%s): %w", key, p.route.Name, ErrDuplicateRoute)
		}
		batch[key] = true
	}

	// gin panics on paths its tree cannot hold, such as two wildcard names
	// at the same segment.
	defer func() {
		if v := recover(); v != nil {
			routes, err = nil, fmt.Errorf("%v: %w", v, ErrRouteConflict)
		}
	}()

	routes = make([]*Route, 0, len(planned))
	for _, p := range planned {
		r.group.Handle(p.route.Method, p.route.Path, p.handlers...)
		p.route.Path = path.Join(r.group.BasePath(), p.route.Path)
		r.handled[p.route.Method+" "+p.route.Path] = true
		r.logger.Debug("route registered",
			zap.String("method", p.route.Method),
			zap.String("path", p.route.Path),
			zap.String("name", p.route.Name),
			zap.Strings("middleware", p.route.Middleware),
		)
		routes = append(routes, p.route)
	}
	return routes, nil
}
