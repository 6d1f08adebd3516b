package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/jsonapi-server/internal/jsonapi/routing"
	"github.com/nekogravitycat/jsonapi-server/internal/pkg/apperror"
	"github.com/nekogravitycat/jsonapi-server/internal/pkg/request"
	"github.com/nekogravitycat/jsonapi-server/internal/pkg/response"
	"github.com/nekogravitycat/jsonapi-server/internal/post"
	"github.com/nekogravitycat/jsonapi-server/internal/schema"
	"github.com/nekogravitycat/jsonapi-server/internal/tag"
)

// Handler is the controller of the tags resource.
type Handler struct {
	tags  tag.Service
	posts post.Service
	links response.Linker
}

func NewHandler(tags tag.Service, posts post.Service, links response.Linker) *Handler {
	return &Handler{tags: tags, posts: posts, links: links}
}

// GET /tags
func (h *Handler) Index(c *gin.Context) {
	page, err := request.ParsePage(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	list, total, err := h.tags.List(c.Request.Context(), tag.Filter{
		Keyword:  c.QueryMap("filter")["name"],
		Page:     page.Number,
		PageSize: page.Size,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Collection(c, schema.Collection(h.links, list, schema.Tag), page.Number, page.Size, total)
}

// GET /tags/:tag
func (h *Handler) Show(c *gin.Context) {
	t, err := h.tags.GetByID(c.Request.Context(), routing.ResourceID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Data(c, http.StatusOK, schema.Tag(h.links, t))
}

// GET /tags/:tag/posts
func (h *Handler) ShowRelated(c *gin.Context) {
	posts, page, total, ok := h.relatedPosts(c)
	if !ok {
		return
	}
	response.Collection(c, schema.Collection(h.links, posts, schema.Post), page.Number, page.Size, total)
}

// GET /tags/:tag/relationships/posts
func (h *Handler) ShowRelationship(c *gin.Context) {
	posts, page, total, ok := h.relatedPosts(c)
	if !ok {
		return
	}

	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	id := routing.ResourceID(c)
	response.JSON(c, http.StatusOK, response.Document{
		Data: response.ToMany(schema.TypePosts, ids),
		Meta: response.PageMeta(page.Number, page.Size, total),
		Links: &response.Links{
			Self:    response.Link(h.links, "tags.posts.show", id),
			Related: response.Link(h.links, "tags.posts", id),
		},
	})
}

// relatedPosts loads a page of the posts tagged with the route's tag. It
// writes the error response itself and reports false on failure.
func (h *Handler) relatedPosts(c *gin.Context) ([]*post.Post, request.Page, int, bool) {
	if name := routing.RelationshipName(c); name != "posts" {
		response.Error(c, apperror.New(http.StatusNotFound, "relationship "+name+" does not exist"))
		return nil, request.Page{}, 0, false
	}

	page, err := request.ParsePage(c)
	if err != nil {
		response.Error(c, err)
		return nil, request.Page{}, 0, false
	}

	ctx := c.Request.Context()
	t, err := h.tags.GetByID(ctx, routing.ResourceID(c))
	if err != nil {
		h.fail(c, err)
		return nil, request.Page{}, 0, false
	}

	posts, total, err := h.posts.List(ctx, post.Filter{TagID: t.ID, Page: page.Number, PageSize: page.Size})
	if err != nil {
		response.Error(c, err)
		return nil, request.Page{}, 0, false
	}
	return posts, page, total, true
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tag.ErrNotFound):
		response.Error(c, apperror.Wrap(err, http.StatusNotFound, "tag not found"))
	default:
		response.Error(c, err)
	}
}
