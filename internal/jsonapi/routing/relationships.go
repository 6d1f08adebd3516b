package routing

import "github.com/stoewer/go-strcase"

// Relationships collects the relationship routes of a resource.
type Relationships struct {
	resourceType string
	pending      []*PendingRelationshipRegistration
}

// NewRelationships creates an empty collector for resourceType.
func NewRelationships(resourceType string) *Relationships {
	return &Relationships{resourceType: resourceType}
}

// HasOne declares a to-one relationship.
func (r *Relationships) HasOne(field string) *PendingRelationshipRegistration {
	return r.add(field, false)
}

// HasMany declares a to-many relationship.
func (r *Relationships) HasMany(field string) *PendingRelationshipRegistration {
	return r.add(field, true)
}

// Registrations returns the declared relationships in order.
func (r *Relationships) Registrations() []*PendingRelationshipRegistration {
	return append([]*PendingRelationshipRegistration(nil), r.pending...)
}

func (r *Relationships) add(field string, toMany bool) *PendingRelationshipRegistration {
	p := &PendingRelationshipRegistration{
		field:  field,
		toMany: toMany,
		uri:    strcase.KebabCase(field),
	}
	r.pending = append(r.pending, p)
	return p
}

// PendingRelationshipRegistration holds the options of one relationship.
type PendingRelationshipRegistration struct {
	field      string
	toMany     bool
	uri        string
	only       []string
	except     []string
	names      map[string]string
	middleware []string
	excluded   []string
}

// Field returns the relationship field name.
func (p *PendingRelationshipRegistration) Field() string { return p.field }

// ToMany reports whether the relationship is to-many.
func (p *PendingRelationshipRegistration) ToMany() bool { return p.toMany }

// Only restricts the relationship actions.
func (p *PendingRelationshipRegistration) Only(actions ...string) *PendingRelationshipRegistration {
	p.only = normalizeRelationshipActions(actions)
	return p
}

// Except excludes relationship actions.
func (p *PendingRelationshipRegistration) Except(actions ...string) *PendingRelationshipRegistration {
	p.except = normalizeRelationshipActions(actions)
	return p
}

// ReadOnly only registers the related and show actions.
func (p *PendingRelationshipRegistration) ReadOnly() *PendingRelationshipRegistration {
	return p.Only(ActionRelated, ActionShow)
}

// URI overrides the path segment of the relationship.
func (p *PendingRelationshipRegistration) URI(uri string) *PendingRelationshipRegistration {
	p.uri = uri
	return p
}

// Name sets the route name of a relationship action.
func (p *PendingRelationshipRegistration) Name(action, name string) *PendingRelationshipRegistration {
	if p.names == nil {
		p.names = make(map[string]string)
	}
	p.names[NormalizeRelationshipAction(action)] = name
	return p
}

// Names sets several relationship route names.
func (p *PendingRelationshipRegistration) Names(names map[string]string) *PendingRelationshipRegistration {
	for action, name := range names {
		p.Name(action, name)
	}
	return p
}

// Middleware adds middleware to the relationship routes.
func (p *PendingRelationshipRegistration) Middleware(names ...string) *PendingRelationshipRegistration {
	p.middleware = append(p.middleware, names...)
	return p
}

// WithoutMiddleware removes middleware from the relationship routes.
func (p *PendingRelationshipRegistration) WithoutMiddleware(names ...string) *PendingRelationshipRegistration {
	p.excluded = append(p.excluded, names...)
	return p
}

// Actions returns the relationship actions to register.
func (p *PendingRelationshipRegistration) Actions() []string {
	candidates := []string{ActionRelated, ActionShow, ActionUpdate}
	if p.toMany {
		candidates = append(candidates, ActionAttach, ActionDetach)
	}
	return Options{Only: p.only, Except: p.except}.Actions(candidates)
}
