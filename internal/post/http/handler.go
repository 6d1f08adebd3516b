package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/jsonapi-server/internal/auth"
	"github.com/nekogravitycat/jsonapi-server/internal/jsonapi/routing"
	"github.com/nekogravitycat/jsonapi-server/internal/pkg/apperror"
	"github.com/nekogravitycat/jsonapi-server/internal/pkg/request"
	"github.com/nekogravitycat/jsonapi-server/internal/pkg/response"
	"github.com/nekogravitycat/jsonapi-server/internal/post"
	"github.com/nekogravitycat/jsonapi-server/internal/schema"
	"github.com/nekogravitycat/jsonapi-server/internal/tag"
	"github.com/nekogravitycat/jsonapi-server/internal/user"
)

// Handler is the controller of the posts resource.
type Handler struct {
	posts post.Service
	tags  tag.Service
	users user.Service
	links response.Linker
}

func NewHandler(posts post.Service, tags tag.Service, users user.Service, links response.Linker) *Handler {
	return &Handler{posts: posts, tags: tags, users: users, links: links}
}

// Actions exposes the custom actions of the posts resource.
func (h *Handler) Actions() map[string]gin.HandlerFunc {
	return map[string]gin.HandlerFunc{
		"publish": h.Publish,
	}
}

// GET /posts
func (h *Handler) Index(c *gin.Context) {
	page, err := request.ParsePage(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	filter := c.QueryMap("filter")
	list, total, err := h.posts.List(c.Request.Context(), post.Filter{
		Keyword:  filter["search"],
		TagID:    filter["tag"],
		Page:     page.Number,
		PageSize: page.Size,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Collection(c, schema.Collection(h.links, list, schema.Post), page.Number, page.Size, total)
}

// POST /posts
func (h *Handler) Store(c *gin.Context) {
	obj, err := request.BindResource[CreateAttributes](c, schema.TypePosts)
	if err != nil {
		response.Error(c, err)
		return
	}

	var tagIDs []string
	if rel, ok := obj.Relationships["tags"]; ok {
		ids, err := rel.ToMany(schema.TypeTags)
		if err != nil {
			response.Error(c, pointTo(err, "/data/relationships/tags"))
			return
		}
		tagIDs = identifierIDs(ids)
	}

	p, err := h.posts.Create(c.Request.Context(), auth.GetUserID(c), post.CreateRequest{
		Title:   obj.Attributes.Title,
		Content: obj.Attributes.Content,
		TagIDs:  tagIDs,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	if tagIDs == nil {
		tagIDs = []string{}
	}
	res := schema.PostWithTags(h.links, p, tagIDs)
	if res.Links != nil {
		c.Header("Location", res.Links.Self)
	}
	response.Data(c, http.StatusCreated, res)
}

// GET /posts/:post
func (h *Handler) Show(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.posts.GetByID(ctx, routing.ResourceID(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	tagIDs, err := h.posts.TagIDs(ctx, p.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Data(c, http.StatusOK, schema.PostWithTags(h.links, p, tagIDs))
}

// PATCH /posts/:post
func (h *Handler) Update(c *gin.Context) {
	id := routing.ResourceID(c)
	obj, err := request.BindResource[UpdateAttributes](c, schema.TypePosts)
	if err != nil {
		response.Error(c, err)
		return
	}
	if obj.ID == "" {
		response.Error(c, apperror.Invalid("/data/id", "the id member is required"))
		return
	}
	if obj.ID != id {
		response.Error(c, &apperror.AppError{
			Code:    http.StatusConflict,
			Message: "resource id does not match the endpoint",
			Pointer: "/data/id",
		})
		return
	}

	p, err := h.posts.Update(c.Request.Context(), id, auth.GetUserID(c), post.UpdateRequest{
		Title:   obj.Attributes.Title,
		Content: obj.Attributes.Content,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	response.Data(c, http.StatusOK, schema.Post(h.links, p))
}

// DELETE /posts/:post
func (h *Handler) Destroy(c *gin.Context) {
	if err := h.posts.Delete(c.Request.Context(), routing.ResourceID(c), auth.GetUserID(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /posts/:post/-actions/publish
func (h *Handler) Publish(c *gin.Context) {
	p, err := h.posts.Publish(c.Request.Context(), routing.ResourceID(c), auth.GetUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Data(c, http.StatusOK, schema.Post(h.links, p))
}

// GET /posts/:post/{author,tags}
func (h *Handler) ShowRelated(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.posts.GetByID(ctx, routing.ResourceID(c))
	if err != nil {
		h.fail(c, err)
		return
	}

	switch routing.RelationshipName(c) {
	case "author":
		u, err := h.users.GetByID(ctx, p.AuthorID)
		if errors.Is(err, user.ErrNotFound) {
			response.Data(c, http.StatusOK, nil)
			return
		}
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Data(c, http.StatusOK, schema.User(h.links, u))
	case "tags":
		tags, err := h.tags.ListByPost(ctx, p.ID)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Data(c, http.StatusOK, schema.Collection(h.links, tags, schema.Tag))
	default:
		h.unknownRelationship(c)
	}
}

// GET /posts/:post/relationships/{author,tags}
func (h *Handler) ShowRelationship(c *gin.Context) {
	ctx := c.Request.Context()
	id := routing.ResourceID(c)
	p, err := h.posts.GetByID(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}

	switch routing.RelationshipName(c) {
	case "author":
		h.relationship(c, "author", response.ToOne(schema.TypeUsers, p.AuthorID))
	case "tags":
		tagIDs, err := h.posts.TagIDs(ctx, id)
		if err != nil {
			h.fail(c, err)
			return
		}
		h.relationship(c, "tags", response.ToMany(schema.TypeTags, tagIDs))
	default:
		h.unknownRelationship(c)
	}
}

// PATCH /posts/:post/relationships/tags
func (h *Handler) UpdateRelationship(c *gin.Context) {
	h.modifyTags(c, h.posts.ReplaceTags)
}

// POST /posts/:post/relationships/tags
func (h *Handler) AttachRelationship(c *gin.Context) {
	h.modifyTags(c, h.posts.AttachTags)
}

// DELETE /posts/:post/relationships/tags
func (h *Handler) DetachRelationship(c *gin.Context) {
	h.modifyTags(c, h.posts.DetachTags)
}

type tagModifier func(ctx context.Context, id, actorID string, tagIDs []string) ([]string, error)

func (h *Handler) modifyTags(c *gin.Context, modify tagModifier) {
	if routing.RelationshipName(c) != "tags" {
		h.unknownRelationship(c)
		return
	}

	ids, err := request.BindIdentifiers(c, schema.TypeTags)
	if err != nil {
		response.Error(c, err)
		return
	}

	tagIDs, err := modify(c.Request.Context(), routing.ResourceID(c), auth.GetUserID(c), identifierIDs(ids))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.relationship(c, "tags", response.ToMany(schema.TypeTags, tagIDs))
}

func (h *Handler) relationship(c *gin.Context, field string, data any) {
	id := routing.ResourceID(c)
	response.JSON(c, http.StatusOK, response.Document{
		Data: data,
		Links: &response.Links{
			Self:    response.Link(h.links, "posts."+field+".show", id),
			Related: response.Link(h.links, "posts."+field, id),
		},
	})
}

func (h *Handler) unknownRelationship(c *gin.Context) {
	response.Error(c, apperror.New(http.StatusNotFound, "relationship "+routing.RelationshipName(c)+" does not exist"))
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, post.ErrNotFound):
		response.Error(c, apperror.Wrap(err, http.StatusNotFound, "post not found"))
	case errors.Is(err, post.ErrTitleRequired):
		response.Error(c, apperror.Invalid("/data/attributes/title", err.Error()))
	case errors.Is(err, post.ErrContentRequired):
		response.Error(c, apperror.Invalid("/data/attributes/content", err.Error()))
	case errors.Is(err, post.ErrUnknownTag):
		response.Error(c, &apperror.AppError{Code: http.StatusNotFound, Message: err.Error(), Pointer: "/data", Err: err})
	case errors.Is(err, post.ErrSlugTaken), errors.Is(err, post.ErrAlreadyPublished):
		response.Error(c, apperror.Wrap(err, http.StatusConflict, err.Error()))
	case errors.Is(err, post.ErrForbidden):
		response.Error(c, apperror.Wrap(err, http.StatusForbidden, err.Error()))
	default:
		response.Error(c, err)
	}
}

func identifierIDs(ids []request.Identifier) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.ID
	}
	return out
}

// pointTo rebases the pointer of a relationship decoding error onto member.
func pointTo(err error, member string) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Pointer != "" {
		rebased := *appErr
		rebased.Pointer = member + appErr.Pointer
		return &rebased
	}
	return err
}
