package image

import (
	"errors"
	"time"
)

var (
	ErrNotFound             = errors.New("image not found")
	ErrThumbnailUnavailable = errors.New("thumbnail not available for this image")
	ErrTooLarge             = errors.New("image exceeds the maximum upload size")
	ErrUnsupportedType      = errors.New("unsupported image type")
	ErrInvalidImage         = errors.New("file is not a valid image")
	ErrForbidden            = errors.New("only the uploader can delete this image")
)

// Image is an uploaded picture and its generated thumbnail.
type Image struct {
	ID            string
	UserID        string
	Filename      string
	StoragePath   string
	ThumbnailPath *string
	ContentType   string
	Size          int64
	Width         int
	Height        int
	CreatedAt     time.Time
}
