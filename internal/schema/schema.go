// Package schema converts domain models into JSON:API resource objects.
package schema

import "github.com/nekogravitycat/jsonapi-server/internal/pkg/response"

// Resource types served by the API.
const (
	TypeTags   = "tags"
	TypePosts  = "posts"
	TypeUsers  = "users"
	TypeImages = "images"
)

func selfLink(l response.Linker, resourceType, id string) *response.Links {
	self := response.Link(l, resourceType+".show", id)
	if self == "" {
		return nil
	}
	return &response.Links{Self: self}
}

// relationshipLinks returns the links of a relationship, or nil when neither
// route is registered.
func relationshipLinks(l response.Linker, resourceType, field, id string) *response.Links {
	links := &response.Links{
		Self:    response.Link(l, resourceType+"."+field+".show", id),
		Related: response.Link(l, resourceType+"."+field, id),
	}
	if links.Self == "" && links.Related == "" {
		return nil
	}
	return links
}

// Collection applies fn to every item.
func Collection[T any](l response.Linker, items []T, fn func(response.Linker, T) response.Resource) []response.Resource {
	out := make([]response.Resource, 0, len(items))
	for _, item := range items {
		out = append(out, fn(l, item))
	}
	return out
}
