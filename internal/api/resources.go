package api

import (
	"github.com/nekogravitycat/jsonapi-server/internal/jsonapi/routing"
	"github.com/nekogravitycat/jsonapi-server/internal/schema"
)

// defineResources declares the resources served under the API prefix.
// Every route passes through the "throttle" server middleware unless the
// resource opts out.
func defineResources(s *routing.Server) {
	s.Resource(schema.TypeTags, "tags").
		ReadOnly().
		Relationships(func(r *routing.Relationships) {
			r.HasMany("posts").ReadOnly()
		})

	s.Resource(schema.TypePosts, "posts").
		MiddlewareMap(map[string][]string{
			"store":   {"auth"},
			"update":  {"auth"},
			"destroy": {"auth"},
		}).
		Relationships(func(r *routing.Relationships) {
			r.HasOne("author").ReadOnly()
			r.HasMany("tags").ReadOnly()
			r.HasMany("tags").Except("related", "show").Middleware("auth")
		}).
		ActionsWithPrefix("-actions", func(a *routing.ActionRegistrar) {
			a.WithID().Post("publish").Middleware("auth")
		})

	s.Resource(schema.TypeUsers, "users").
		Only("create", "read").
		Name("create", "users.register").
		Actions(func(a *routing.ActionRegistrar) {
			a.Post("login")
			a.Get("me").Middleware("auth")
		})

	// Image uploads are large and thumbnails are cacheable; neither is throttled.
	s.Resource(schema.TypeImages, "images").
		Only("read", "delete").
		MiddlewareMap(map[string][]string{"destroy": {"auth"}}).
		WithoutMiddleware("throttle").
		ActionsWithPrefix("-actions", func(a *routing.ActionRegistrar) {
			a.Post("upload").Middleware("auth")
			a.WithID().Get("thumbnail")
		})
}
