package schema

import (
	"time"

	"github.com/nekogravitycat/jsonapi-server/internal/pkg/response"
	"github.com/nekogravitycat/jsonapi-server/internal/tag"
)

type TagAttributes struct {
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}

func Tag(l response.Linker, t *tag.Tag) response.Resource {
	res := response.Resource{
		Type: TypeTags,
		ID:   t.ID,
		Attributes: TagAttributes{
			Name:      t.Name,
			Slug:      t.Slug,
			CreatedAt: t.CreatedAt,
		},
		Links: selfLink(l, TypeTags, t.ID),
	}
	if links := relationshipLinks(l, TypeTags, "posts", t.ID); links != nil {
		res.Relationships = map[string]response.Relationship{"posts": {Links: links}}
	}
	return res
}
