package routing

import (
	"net/http"

	"github.com/stoewer/go-strcase"
)

// ActionRegistrar collects the custom actions of a resource.
type ActionRegistrar struct {
	resourceType string
	withID       bool
	list         *actionList
}

type actionList struct {
	items []*PendingActionRegistration
}

// NewActionRegistrar creates an empty collector for resourceType.
func NewActionRegistrar(resourceType string) *ActionRegistrar {
	return &ActionRegistrar{resourceType: resourceType, list: &actionList{}}
}

// WithID returns a registrar whose actions target a single resource.
func (a *ActionRegistrar) WithID() *ActionRegistrar {
	return &ActionRegistrar{resourceType: a.resourceType, withID: true, list: a.list}
}

// Get declares a GET action at uri. The controller method is the lower
// camel case of uri.
func (a *ActionRegistrar) Get(uri string) *PendingActionRegistration {
	return a.add(http.MethodGet, uri)
}

// Post declares a POST action at uri. The controller method is the lower
// camel case of uri.
func (a *ActionRegistrar) Post(uri string) *PendingActionRegistration {
	return a.add(http.MethodPost, uri)
}

// Patch declares a PATCH action at uri. The controller method is the lower
// camel case of uri.
func (a *ActionRegistrar) Patch(uri string) *PendingActionRegistration {
	return a.add(http.MethodPatch, uri)
}

// Put declares a PUT action at uri. The controller method is the lower
// camel case of uri.
func (a *ActionRegistrar) Put(uri string) *PendingActionRegistration {
	return a.add(http.MethodPut, uri)
}

// Delete declares a DELETE action at uri. The controller method is the lower
// camel case of uri.
func (a *ActionRegistrar) Delete(uri string) *PendingActionRegistration {
	return a.add(http.MethodDelete, uri)
}

// Registrations returns the declared actions in order.
func (a *ActionRegistrar) Registrations() []*PendingActionRegistration {
	return append([]*PendingActionRegistration(nil), a.list.items...)
}

func (a *ActionRegistrar) add(httpMethod, uri string) *PendingActionRegistration {
	p := &PendingActionRegistration{
		httpMethod: httpMethod,
		uri:        uri,
		withID:     a.withID,
		method:     strcase.LowerCamelCase(uri),
	}
	a.list.items = append(a.list.items, p)
	return p
}

// PendingActionRegistration holds the options of one custom action.
type PendingActionRegistration struct {
	httpMethod string
	uri        string
	withID     bool
	method     string
	name       string
	middleware []string
	excluded   []string
}

// HTTPMethod returns the request method of the action.
func (p *PendingActionRegistration) HTTPMethod() string { return p.httpMethod }

// URI returns the path segment of the action.
func (p *PendingActionRegistration) URI() string { return p.uri }

// WithID reports whether the action targets a single resource.
func (p *PendingActionRegistration) WithID() bool { return p.withID }

// ControllerMethod returns the controller action the route dispatches to.
func (p *PendingActionRegistration) ControllerMethod() string { return p.method }

// Method sets the controller action the route dispatches to.
func (p *PendingActionRegistration) Method(method string) *PendingActionRegistration {
	p.method = method
	return p
}

// Name sets the route name.
func (p *PendingActionRegistration) Name(name string) *PendingActionRegistration {
	p.name = name
	return p
}

// Middleware adds middleware to the action route.
func (p *PendingActionRegistration) Middleware(names ...string) *PendingActionRegistration {
	p.middleware = append(p.middleware, names...)
	return p
}

// WithoutMiddleware removes middleware from the action route.
func (p *PendingActionRegistration) WithoutMiddleware(names ...string) *PendingActionRegistration {
	p.excluded = append(p.excluded, names...)
	return p
}
