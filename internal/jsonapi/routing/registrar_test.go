package routing

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// postController handles every resource, relationship and custom action.
type postController struct{}

func (postController) Index(c *gin.Context)   { c.String(http.StatusOK, "index") }
func (postController) Store(c *gin.Context)   { c.String(http.StatusCreated, "store") }
func (postController) Show(c *gin.Context)    { c.String(http.StatusOK, "show "+ResourceID(c)) }
func (postController) Update(c *gin.Context)  { c.String(http.StatusOK, "update "+ResourceID(c)) }
func (postController) Destroy(c *gin.Context) { c.Status(http.StatusNoContent) }

func (postController) ShowRelated(c *gin.Context) {
	c.String(http.StatusOK, "related "+ResourceID(c)+" "+RelationshipName(c))
}

func (postController) ShowRelationship(c *gin.Context) {
	c.String(http.StatusOK, "relationship "+ResourceID(c)+" "+RelationshipName(c))
}

func (postController) UpdateRelationship(c *gin.Context) { c.Status(http.StatusNoContent) }
func (postController) AttachRelationship(c *gin.Context) { c.Status(http.StatusNoContent) }
func (postController) DetachRelationship(c *gin.Context) { c.Status(http.StatusNoContent) }

func (postController) Actions() map[string]gin.HandlerFunc {
	return map[string]gin.HandlerFunc{
		"publish":  func(c *gin.Context) { c.String(http.StatusOK, "publish "+ResourceID(c)) },
		"purgeAll": func(c *gin.Context) { c.String(http.StatusOK, "purge "+ResourceType(c)) },
	}
}

// readController only lists and shows.
type readController struct{}

func (readController) Index(c *gin.Context) { c.String(http.StatusOK, "index") }
func (readController) Show(c *gin.Context)  { c.String(http.StatusOK, "show "+ResourceID(c)) }

func requireHeader(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(name) == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}

func tagHeader(value string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Add("X-Middleware", value)
		c.Next()
	}
}

func newTestRegistrar(opts ...RegistrarOption) (*gin.Engine, *Registrar) {
	engine := gin.New()
	controllers := NewControllers().
		Bind("posts", postController{}).
		Bind("tags", readController{})

	base := []RegistrarOption{
		WithMiddlewareAliases(map[string]gin.HandlerFunc{
			"auth":  requireHeader("Authorization"),
			"one":   tagHeader("one"),
			"two":   tagHeader("two"),
			"three": tagHeader("three"),
		}),
	}
	return engine, NewRegistrar(engine.Group("/api/v1"), controllers, append(base, opts...)...)
}

func serve(engine *gin.Engine, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRegistrarResourceRoutes(t *testing.T) {
	engine, registrar := newTestRegistrar()

	routes, err := NewPendingResourceRegistration(registrar, "posts", "posts").Register()
	require.NoError(t, err)

	type expected struct{ method, path, name string }
	var got []expected
	for _, r := range routes.All() {
		got = append(got, expected{r.Method, r.Path, r.Name})
	}
	assert.Equal(t, []expected{
		{"GET", "/api/v1/posts", "posts.index"},
		{"POST", "/api/v1/posts", "posts.store"},
		{"GET", "/api/v1/posts/:post", "posts.show"},
		{"PATCH", "/api/v1/posts/:post", "posts.update"},
		{"DELETE", "/api/v1/posts/:post", "posts.destroy"},
	}, got)

	w := serve(engine, http.MethodGet, "/api/v1/posts/42", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "show 42", w.Body.String())

	w = serve(engine, http.MethodDelete, "/api/v1/posts/42", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(engine, http.MethodGet, "/api/v1/posts", nil)
	assert.Equal(t, "index", w.Body.String())
}

func TestRegistrarOnlyExceptAndNames(t *testing.T) {
	engine, registrar := newTestRegistrar(WithNamePrefix("v1:"))

	routes, err := NewPendingResourceRegistration(registrar, "posts", "posts").
		Only("index", "read", "update", "delete").
		Except("update").
		Name("read", "posts.read").
		Register()
	require.NoError(t, err)

	assert.Equal(t, []string{"index", "show", "destroy"}, routes.Actions())

	_, ok := routes.ByName("v1:posts.read")
	assert.True(t, ok)
	_, ok = routes.ByName("v1:posts.index")
	assert.True(t, ok)

	w := serve(engine, http.MethodPatch, "/api/v1/posts/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegistrarParameter(t *testing.T) {
	t.Run("defaults to singular snake case", func(t *testing.T) {
		_, registrar := newTestRegistrar()
		registrar.controllers.Bind("blog-posts", readController{})

		routes, err := NewPendingResourceRegistration(registrar, "blog-posts", "blog-posts").ReadOnly().Register()
		require.NoError(t, err)

		show, ok := routes.ByName("blog-posts.show")
		require.True(t, ok)
		assert.Equal(t, "/api/v1/blog-posts/:blog_post", show.Path)
	})

	t.Run("override", func(t *testing.T) {
		engine, registrar := newTestRegistrar()

		routes, err := NewPendingResourceRegistration(registrar, "tags", "tags").
			ReadOnly().
			Parameter("id").
			Register()
		require.NoError(t, err)

		show, _ := routes.ByName("tags.show")
		assert.Equal(t, "/api/v1/tags/:id", show.Path)

		w := serve(engine, http.MethodGet, "/api/v1/tags/abc", nil)
		assert.Equal(t, "show abc", w.Body.String())
	})
}

func TestRegistrarMiddleware(t *testing.T) {
	engine, registrar := newTestRegistrar(WithServerMiddleware("one"))

	_, err := NewPendingResourceRegistration(registrar, "posts", "posts").
		MiddlewareMap(map[string][]string{
			"*":      {"two"},
			"create": {"auth"},
			"delete": {"auth", "three"},
		}).
		WithoutMiddleware("one").
		Register()
	require.NoError(t, err)

	w := serve(engine, http.MethodGet, "/api/v1/posts", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"two"}, w.Header().Values("X-Middleware"))

	w = serve(engine, http.MethodPost, "/api/v1/posts", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(engine, http.MethodPost, "/api/v1/posts", http.Header{"Authorization": {"Bearer x"}})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = serve(engine, http.MethodDelete, "/api/v1/posts/1", http.Header{"Authorization": {"Bearer x"}})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"two", "three"}, w.Header().Values("X-Middleware"))
}

func TestRegistrarServerMiddleware(t *testing.T) {
	engine, registrar := newTestRegistrar(WithServerMiddleware("one"))

	routes, err := NewPendingResourceRegistration(registrar, "tags", "tags").
		ReadOnly().
		Middleware("two", "one").
		Register()
	require.NoError(t, err)

	show, _ := routes.ByName("tags.show")
	assert.Equal(t, []string{"one", "two"}, show.Middleware, "server middleware first, duplicates removed")

	w := serve(engine, http.MethodGet, "/api/v1/tags/1", nil)
	assert.Equal(t, []string{"one", "two"}, w.Header().Values("X-Middleware"))
}

func TestRegistrarErrors(t *testing.T) {
	t.Run("unknown controller", func(t *testing.T) {
		_, registrar := newTestRegistrar()
		_, err := NewPendingResourceRegistration(registrar, "comments", "comments").Register()
		assert.ErrorIs(t, err, ErrUnknownController)
	})

	t.Run("missing handler", func(t *testing.T) {
		engine, registrar := newTestRegistrar()
		_, err := NewPendingResourceRegistration(registrar, "tags", "tags").Register()
		assert.ErrorIs(t, err, ErrMissingHandler)
		assert.Empty(t, engine.Routes(), "no route is added when planning fails")
	})

	t.Run("unknown middleware", func(t *testing.T) {
		engine, registrar := newTestRegistrar()
		_, err := NewPendingResourceRegistration(registrar, "tags", "tags").
			ReadOnly().
			Middleware("missing").
			Register()
		assert.ErrorIs(t, err, ErrUnknownMiddleware)
		assert.Empty(t, engine.Routes())
	})

	t.Run("missing relationship handler", func(t *testing.T) {
		_, registrar := newTestRegistrar()
		_, err := NewPendingResourceRegistration(registrar, "tags", "tags").
			ReadOnly().
			Relationships(func(r *Relationships) { r.HasMany("posts") }).
			Register()
		assert.ErrorIs(t, err, ErrMissingHandler)
	})

	t.Run("missing custom action", func(t *testing.T) {
		_, registrar := newTestRegistrar()
		_, err := NewPendingResourceRegistration(registrar, "posts", "posts").
			Actions(func(a *ActionRegistrar) { a.Post("archive") }).
			Register()
		assert.ErrorIs(t, err, ErrMissingHandler)
	})
}

func TestRegistrarRejectsDuplicateRoutes(t *testing.T) {
	t.Run("same resource twice", func(t *testing.T) {
		engine, registrar := newTestRegistrar()
		_, err := NewPendingResourceRegistration(registrar, "tags", "tags").ReadOnly().Register()
		require.NoError(t, err)

		var routes *RouteCollection
		require.NotPanics(t, func() {
			routes, err = NewPendingResourceRegistration(registrar, "tags", "tags").ReadOnly().Register()
		})
		assert.ErrorIs(t, err, ErrDuplicateRoute)
		assert.Contains(t, err.Error(), "GET /api/v1/tags")
		assert.Nil(t, routes)
		assert.Len(t, engine.Routes(), 2)
	})

	t.Run("same action twice in one declaration", func(t *testing.T) {
		engine, registrar := newTestRegistrar()
		_, err := NewPendingResourceRegistration(registrar, "posts", "posts").
			Only("index").
			Actions(func(a *ActionRegistrar) {
				a.WithID().Post("publish")
				a.WithID().Post("publish")
			}).
			Register()
		assert.ErrorIs(t, err, ErrDuplicateRoute)
		assert.Len(t, engine.Routes(), 1, "only the resource routes are added")
	})

	t.Run("wildcard conflict", func(t *testing.T) {
		_, registrar := newTestRegistrar()
		_, err := NewPendingResourceRegistration(registrar, "tags", "tags").Only("show").Register()
		require.NoError(t, err)

		require.NotPanics(t, func() {
			_, err = NewPendingResourceRegistration(registrar, "tags", "tags").
				Only("show").
				Parameter("id").
				Register()
		})
		assert.ErrorIs(t, err, ErrRouteConflict)
	})

	t.Run("server flush", func(t *testing.T) {
		_, registrar := newTestRegistrar()
		server := NewServer("v1", registrar, nil)
		server.Resource("tags", "tags").ReadOnly()
		server.Resource("tags", "tags").ReadOnly()

		var err error
		require.NotPanics(t, func() { _, err = server.Flush() })
		assert.ErrorIs(t, err, ErrDuplicateRoute)
	})
}

func TestRegistrarRelationships(t *testing.T) {
	engine, registrar := newTestRegistrar()

	routes, err := NewPendingResourceRegistration(registrar, "posts", "posts").
		Only("show").
		Relationships(func(r *Relationships) {
			r.HasOne("author").ReadOnly()
			r.HasMany("tags").Middleware("auth").Name("create", "posts.tags.add").Name("delete", "posts.tags.remove")
			r.HasMany("relatedPosts").Only("related")
		}).
		Register()
	require.NoError(t, err)

	type expected struct{ method, path, name string }
	var got []expected
	for _, r := range routes.All() {
		got = append(got, expected{r.Method, r.Path, r.Name})
	}
	assert.Equal(t, []expected{
		{"GET", "/api/v1/posts/:post", "posts.show"},
		{"GET", "/api/v1/posts/:post/author", "posts.author"},
		{"GET", "/api/v1/posts/:post/relationships/author", "posts.author.show"},
		{"GET", "/api/v1/posts/:post/tags", "posts.tags"},
		{"GET", "/api/v1/posts/:post/relationships/tags", "posts.tags.show"},
		{"PATCH", "/api/v1/posts/:post/relationships/tags", "posts.tags.update"},
		{"POST", "/api/v1/posts/:post/relationships/tags", "posts.tags.add"},
		{"DELETE", "/api/v1/posts/:post/relationships/tags", "posts.tags.remove"},
		{"GET", "/api/v1/posts/:post/related-posts", "posts.relatedPosts"},
	}, got)

	w := serve(engine, http.MethodGet, "/api/v1/posts/7/author", nil)
	assert.Equal(t, "related 7 author", w.Body.String())

	w = serve(engine, http.MethodGet, "/api/v1/posts/7/relationships/tags", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(engine, http.MethodGet, "/api/v1/posts/7/relationships/tags", http.Header{"Authorization": {"x"}})
	assert.Equal(t, "relationship 7 tags", w.Body.String())
}

func TestRegistrarCustomActions(t *testing.T) {
	engine, registrar := newTestRegistrar()

	routes, err := NewPendingResourceRegistration(registrar, "posts", "posts").
		Only("show").
		ActionsWithPrefix("-actions", func(a *ActionRegistrar) {
			a.Delete("purge-all").Middleware("auth")
			a.WithID().Post("publish").Name("posts.publish-now")
		}).
		Register()
	require.NoError(t, err)

	purge, ok := routes.ByName("posts.purgeAll")
	require.True(t, ok)
	assert.Equal(t, "/api/v1/posts/-actions/purge-all", purge.Path)
	assert.Equal(t, http.MethodDelete, purge.Method)

	publish, ok := routes.ByName("posts.publish-now")
	require.True(t, ok)
	assert.Equal(t, "/api/v1/posts/:post/-actions/publish", publish.Path)

	w := serve(engine, http.MethodPost, "/api/v1/posts/9/-actions/publish", nil)
	assert.Equal(t, "publish 9", w.Body.String())

	w = serve(engine, http.MethodDelete, "/api/v1/posts/-actions/purge-all", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = serve(engine, http.MethodDelete, "/api/v1/posts/-actions/purge-all", http.Header{"Authorization": {"x"}})
	assert.Equal(t, "purge posts", w.Body.String())
}

func TestRegistrarCustomActionsWithoutPrefix(t *testing.T) {
	engine, registrar := newTestRegistrar()

	_, err := NewPendingResourceRegistration(registrar, "posts", "posts").
		Only("show").
		Actions(func(a *ActionRegistrar) {
			a.Post("announce").Method("publish")
		}).
		Register()
	require.NoError(t, err)

	w := serve(engine, http.MethodPost, "/api/v1/posts/announce", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "publish ", w.Body.String(), "collection actions carry no id")
}

func TestRouteCollectionURL(t *testing.T) {
	_, registrar := newTestRegistrar()

	routes, err := NewPendingResourceRegistration(registrar, "posts", "posts").
		Relationships(func(r *Relationships) { r.HasMany("tags") }).
		Register()
	require.NoError(t, err)

	u, err := routes.URL("posts.tags.show", "a b")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/posts/a%20b/relationships/tags", u)

	u, err = routes.URL("posts.index")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/posts", u)

	_, err = routes.URL("posts.show")
	assert.Error(t, err)

	_, err = routes.URL("posts.index", "1")
	assert.Error(t, err)

	_, err = routes.URL("posts.missing")
	assert.ErrorIs(t, err, ErrRouteNotFound)
}
