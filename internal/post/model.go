package post

import (
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("post not found")
	ErrTitleRequired    = errors.New("title is required")
	ErrContentRequired  = errors.New("content is required")
	ErrSlugTaken        = errors.New("a post with this title already exists")
	ErrUnknownTag       = errors.New("one or more tags do not exist")
	ErrForbidden        = errors.New("only the author can modify this post")
	ErrAlreadyPublished = errors.New("post is already published")
)

// Post is an article written by a user.
type Post struct {
	ID          string
	AuthorID    string
	Title       string
	Slug        string
	Content     string
	PublishedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Published reports whether the post has been published.
func (p *Post) Published() bool {
	return p.PublishedAt != nil
}

// Filter defines parameters for listing posts.
type Filter struct {
	Keyword  string
	TagID    string
	Page     int
	PageSize int
}
