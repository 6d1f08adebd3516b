package routing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingRegistrar records the calls a builder makes.
type recordingRegistrar struct {
	registerCalls     int
	relationshipCalls int
	actionCalls       int

	options Options
	prefix  string
	err     error
}

func (r *recordingRegistrar) Register(resourceType, controller string, opts Options) (*RouteCollection, error) {
	r.registerCalls++
	r.options = opts
	if r.err != nil {
		return nil, r.err
	}
	routes := NewRouteCollection()
	for _, action := range opts.Actions(resourceActions) {
		routes.Add(&Route{Name: resourceType + "." + action, Action: action, ResourceType: resourceType})
	}
	return routes, nil
}

func (r *recordingRegistrar) Relationships(resourceType, controller string, opts Options, fn func(*Relationships)) ([]*Route, error) {
	r.relationshipCalls++
	rels := NewRelationships(resourceType)
	fn(rels)

	var routes []*Route
	for _, rel := range rels.Registrations() {
		for _, action := range rel.Actions() {
			routes = append(routes, &Route{
				Name:         resourceType + "." + rel.Field() + "." + action,
				Action:       action,
				Relationship: rel.Field(),
			})
		}
	}
	return routes, nil
}

func (r *recordingRegistrar) Actions(resourceType, controller string, opts Options, prefix string, fn func(*ActionRegistrar)) ([]*Route, error) {
	r.actionCalls++
	r.prefix = prefix
	actions := NewActionRegistrar(resourceType)
	fn(actions)

	var routes []*Route
	for _, a := range actions.Registrations() {
		routes = append(routes, &Route{Name: resourceType + "." + a.ControllerMethod(), Action: a.ControllerMethod()})
	}
	return routes, nil
}

func newPending() (*recordingRegistrar, *PendingResourceRegistration) {
	r := &recordingRegistrar{}
	return r, NewPendingResourceRegistration(r, "posts", "posts")
}

func TestOnlyAndExceptNormalizeAliases(t *testing.T) {
	_, p := newPending()

	p.Only("create", "read", "delete", "index", "update").
		Except("read", "custom")

	opts := p.Options()
	assert.Equal(t, []string{"store", "show", "destroy", "index", "update"}, opts.Only)
	assert.Equal(t, []string{"show", "custom"}, opts.Except)

	p.Only("index")
	assert.Equal(t, []string{"index"}, p.Options().Only, "Only should overwrite the previous value")
}

func TestReadOnly(t *testing.T) {
	_, a := newPending()
	_, b := newPending()

	a.ReadOnly()
	b.Only("index", "show")

	assert.Equal(t, b.Options().Only, a.Options().Only)
}

func TestNames(t *testing.T) {
	_, p := newPending()

	p.Name("create", "x").Names(map[string]string{
		"read":   "posts.read",
		"update": "posts.edit",
	})

	assert.Equal(t, map[string]string{
		"store":  "x",
		"show":   "posts.read",
		"update": "posts.edit",
	}, p.Options().Names)
}

func TestParameter(t *testing.T) {
	_, p := newPending()
	p.Parameter("post_id")
	assert.Equal(t, "post_id", p.Options().Parameter)
}

func TestMiddleware(t *testing.T) {
	t.Run("single name is wrapped", func(t *testing.T) {
		_, p := newPending()
		p.Middleware("auth")
		assert.Equal(t, []string{"auth"}, p.Options().Middleware)
	})

	t.Run("list is stored as given", func(t *testing.T) {
		_, p := newPending()
		p.Middleware("a", "b")
		assert.Equal(t, []string{"a", "b"}, p.Options().Middleware)
		assert.Nil(t, p.Options().ActionMiddleware)
	})

	t.Run("keyed map splits wildcard and actions", func(t *testing.T) {
		_, p := newPending()
		p.MiddlewareMap(map[string][]string{
			"*":      {"a"},
			"show":   {"b"},
			"create": {"c"},
		})

		opts := p.Options()
		assert.Equal(t, []string{"a"}, opts.Middleware)
		assert.Equal(t, map[string][]string{"show": {"b"}, "store": {"c"}}, opts.ActionMiddleware)
	})

	t.Run("keyed map without wildcard clears global middleware", func(t *testing.T) {
		_, p := newPending()
		p.Middleware("a").MiddlewareMap(map[string][]string{"show": {"b"}})
		assert.Empty(t, p.Options().Middleware)
	})
}

func TestWithoutMiddlewareAccumulates(t *testing.T) {
	_, p := newPending()
	p.WithoutMiddleware("a").WithoutMiddleware("b")
	assert.Equal(t, []string{"a", "b"}, p.Options().ExcludedMiddleware)
}

func TestRegisterRunsOnce(t *testing.T) {
	r, p := newPending()
	p.Only("read")

	first, err := p.Register()
	require.NoError(t, err)
	second, err := p.Register()
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, r.registerCalls)
	assert.True(t, p.Registered())
}

func TestRegisterAddsRelationshipAndActionRoutes(t *testing.T) {
	r, p := newPending()

	p.Only("index").
		Relationships(func(rels *Relationships) {
			rels.HasOne("author").ReadOnly()
		}).
		ActionsWithPrefix("-actions", func(a *ActionRegistrar) {
			a.WithID().Post("publish")
		})

	routes, err := p.Register()
	require.NoError(t, err)

	assert.Equal(t, 1, r.relationshipCalls)
	assert.Equal(t, 1, r.actionCalls)
	assert.Equal(t, "-actions", r.prefix)

	var names []string
	for _, route := range routes.All() {
		names = append(names, route.Name)
	}
	assert.Equal(t, []string{"posts.index", "posts.author.related", "posts.author.show", "posts.publish"}, names)
}

func TestRegisterSkipsUnsetCallbacks(t *testing.T) {
	r, p := newPending()

	_, err := p.Register()
	require.NoError(t, err)

	assert.Zero(t, r.relationshipCalls)
	assert.Zero(t, r.actionCalls)
}

func TestActionsArguments(t *testing.T) {
	noop := func(*ActionRegistrar) {}

	t.Run("callback", func(t *testing.T) {
		r, p := newPending()
		_, err := p.Actions(noop).Register()
		require.NoError(t, err)
		assert.Equal(t, "", r.prefix)
	})

	t.Run("prefix and callback", func(t *testing.T) {
		r, p := newPending()
		_, err := p.ActionsWithPrefix("-actions", noop).Register()
		require.NoError(t, err)
		assert.Equal(t, "-actions", r.prefix)
	})

	t.Run("later call clears the prefix", func(t *testing.T) {
		r, p := newPending()
		_, err := p.ActionsWithPrefix("-actions", noop).Actions(noop).Register()
		require.NoError(t, err)
		assert.Equal(t, "", r.prefix)
	})

	invalid := map[string]func(p *PendingResourceRegistration){
		"nil callback":            func(p *PendingResourceRegistration) { p.Actions(nil) },
		"prefix without callback": func(p *PendingResourceRegistration) { p.ActionsWithPrefix("-actions", nil) },
		"empty prefix":            func(p *PendingResourceRegistration) { p.ActionsWithPrefix("", noop) },
	}
	for name, configure := range invalid {
		t.Run(name, func(t *testing.T) {
			r, p := newPending()
			configure(p)

			_, err := p.Register()
			assert.ErrorIs(t, err, ErrInvalidArgument)
			assert.Zero(t, r.registerCalls, "registrar should not be called")
		})
	}

	for name, configure := range invalid {
		t.Run(name+" then valid call", func(t *testing.T) {
			r, p := newPending()
			configure(p)
			p.ActionsWithPrefix("-actions", noop)

			_, err := p.Register()
			require.NoError(t, err)
			assert.Equal(t, 1, r.actionCalls)
			assert.Equal(t, "-actions", r.prefix)
		})
	}

	t.Run("invalid call after valid one", func(t *testing.T) {
		r, p := newPending()
		_, err := p.Actions(noop).Actions(nil).Register()
		assert.ErrorIs(t, err, ErrInvalidArgument)
		assert.Zero(t, r.registerCalls)
	})
}

func TestRegisterPropagatesRegistrarError(t *testing.T) {
	boom := errors.New("boom")
	r, p := newPending()
	r.err = boom

	_, err := p.Register()
	assert.ErrorIs(t, err, boom)
	assert.True(t, p.Registered())

	_, err = p.Register()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, r.registerCalls, "failed registration is not retried")
}

func TestMutationAfterRegisterDoesNotReachRegistrar(t *testing.T) {
	r, p := newPending()
	p.Name("read", "posts.read")

	_, err := p.Register()
	require.NoError(t, err)

	p.Name("read", "posts.changed").Only("index")

	assert.Equal(t, "posts.read", r.options.Names["show"])
	assert.Nil(t, r.options.Only)
	assert.Equal(t, 1, r.registerCalls)
}

func TestTagsOnlyReadAndDelete(t *testing.T) {
	r := &recordingRegistrar{}
	p := NewPendingResourceRegistration(r, "tags", "tags").Only("read", "delete")

	routes, err := p.Register()
	require.NoError(t, err)

	assert.Equal(t, []string{"show", "destroy"}, r.options.Only)
	assert.ElementsMatch(t, []string{"show", "destroy"}, routes.Actions())
}
