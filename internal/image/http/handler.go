package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/jsonapi-server/internal/auth"
	"github.com/nekogravitycat/jsonapi-server/internal/image"
	"github.com/nekogravitycat/jsonapi-server/internal/jsonapi/routing"
	"github.com/nekogravitycat/jsonapi-server/internal/pkg/apperror"
	"github.com/nekogravitycat/jsonapi-server/internal/pkg/response"
	"github.com/nekogravitycat/jsonapi-server/internal/schema"
)

// FormFieldName is the multipart field carrying the uploaded image.
const FormFieldName = "file"

// Handler is the controller of the images resource.
type Handler struct {
	imageService image.Service
	links        response.Linker
}

func NewHandler(imageService image.Service, links response.Linker) *Handler {
	return &Handler{
		imageService: imageService,
		links:        links,
	}
}

// Actions exposes the custom actions of the images resource.
func (h *Handler) Actions() map[string]gin.HandlerFunc {
	return map[string]gin.HandlerFunc{
		"upload":    h.Upload,
		"thumbnail": h.Thumbnail,
	}
}

// Show returns the metadata of an image.
func (h *Handler) Show(c *gin.Context) {
	img, err := h.imageService.Get(c.Request.Context(), routing.ResourceID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Data(c, http.StatusOK, schema.Image(h.links, img))
}

// Destroy deletes an image uploaded by the current user.
func (h *Handler) Destroy(c *gin.Context) {
	if err := h.imageService.Delete(c.Request.Context(), routing.ResourceID(c), auth.GetUserID(c)); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Upload stores a multipart image upload and creates its thumbnail.
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile(FormFieldName)
	if err != nil {
		response.Error(c, apperror.Wrap(err, http.StatusBadRequest, FormFieldName+" is required"))
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, err)
		return
	}
	defer src.Close()

	img, err := h.imageService.Upload(c.Request.Context(), image.UploadInput{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Content:     src,
		UserID:      auth.GetUserID(c),
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	res := schema.Image(h.links, img)
	if res.Links != nil {
		c.Header("Location", res.Links.Self)
	}
	response.Data(c, http.StatusCreated, res)
}

// Thumbnail streams the JPEG thumbnail of an image.
func (h *Handler) Thumbnail(c *gin.Context) {
	stream, img, err := h.imageService.Thumbnail(c.Request.Context(), routing.ResourceID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	defer stream.Close()

	c.DataFromReader(http.StatusOK, -1, "image/jpeg", stream, map[string]string{
		"Content-Disposition": "inline; filename=\"" + img.ID + "_thumb.jpg\"",
	})
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, image.ErrNotFound), errors.Is(err, image.ErrThumbnailUnavailable):
		response.Error(c, apperror.Wrap(err, http.StatusNotFound, err.Error()))
	case errors.Is(err, image.ErrUnsupportedType):
		response.Error(c, apperror.Wrap(err, http.StatusUnsupportedMediaType, err.Error()))
	case errors.Is(err, image.ErrTooLarge):
		response.Error(c, apperror.Wrap(err, http.StatusRequestEntityTooLarge, err.Error()))
	case errors.Is(err, image.ErrInvalidImage):
		response.Error(c, apperror.Wrap(err, http.StatusUnprocessableEntity, err.Error()))
	case errors.Is(err, image.ErrForbidden):
		response.Error(c, apperror.Wrap(err, http.StatusForbidden, err.Error()))
	default:
		response.Error(c, err)
	}
}
