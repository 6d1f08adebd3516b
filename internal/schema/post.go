package schema

import (
	"time"

	"github.com/nekogravitycat/jsonapi-server/internal/pkg/response"
	"github.com/nekogravitycat/jsonapi-server/internal/post"
)

type PostAttributes struct {
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Post renders a post. The author linkage is always included; tag linkage
// only when tagIDs is not nil.
func Post(l response.Linker, p *post.Post) response.Resource {
	return PostWithTags(l, p, nil)
}

func PostWithTags(l response.Linker, p *post.Post, tagIDs []string) response.Resource {
	author := response.Relationship{
		Data:  response.ToOne(TypeUsers, p.AuthorID),
		Links: relationshipLinks(l, TypePosts, "author", p.ID),
	}
	tags := response.Relationship{Links: relationshipLinks(l, TypePosts, "tags", p.ID)}
	if tagIDs != nil {
		tags.Data = response.ToMany(TypeTags, tagIDs)
	}

	rels := map[string]response.Relationship{"author": author}
	if tags.Data != nil || tags.Links != nil {
		rels["tags"] = tags
	}

	return response.Resource{
		Type: TypePosts,
		ID:   p.ID,
		Attributes: PostAttributes{
			Title:       p.Title,
			Slug:        p.Slug,
			Content:     p.Content,
			PublishedAt: p.PublishedAt,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		},
		Relationships: rels,
		Links:         selfLink(l, TypePosts, p.ID),
	}
}
