package tag

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("tag not found")

// Tag is a label attached to posts.
type Tag struct {
	ID        string
	Name      string
	Slug      string
	CreatedAt time.Time
}

// Filter defines parameters for listing tags.
type Filter struct {
	Keyword  string
	Page     int
	PageSize int
}
