package schema

import (
	"time"

	"github.com/nekogravitycat/jsonapi-server/internal/image"
	"github.com/nekogravitycat/jsonapi-server/internal/pkg/response"
)

type ImageAttributes struct {
	Filename     string    `json:"filename"`
	ContentType  string    `json:"contentType"`
	Size         int64     `json:"size"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	ThumbnailURL string    `json:"thumbnailUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func Image(l response.Linker, img *image.Image) response.Resource {
	attrs := ImageAttributes{
		Filename:    img.Filename,
		ContentType: img.ContentType,
		Size:        img.Size,
		Width:       img.Width,
		Height:      img.Height,
		CreatedAt:   img.CreatedAt,
	}
	if img.ThumbnailPath != nil {
		attrs.ThumbnailURL = response.Link(l, TypeImages+".thumbnail", img.ID)
	}

	return response.Resource{
		Type:       TypeImages,
		ID:         img.ID,
		Attributes: attrs,
		Relationships: map[string]response.Relationship{
			"uploader": {Data: response.ToOne(TypeUsers, img.UserID)},
		},
		Links: selfLink(l, TypeImages, img.ID),
	}
}
