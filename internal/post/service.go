package post

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/stoewer/go-strcase"
)

type CreateRequest struct {
	Title   string
	Content string
	TagIDs  []string
}

type UpdateRequest struct {
	Title   *string
	Content *string
}

type Service interface {
	Create(ctx context.Context, authorID string, req CreateRequest) (*Post, error)
	GetByID(ctx context.Context, id string) (*Post, error)
	List(ctx context.Context, filter Filter) ([]*Post, int, error)
	Update(ctx context.Context, id, actorID string, req UpdateRequest) (*Post, error)
	Delete(ctx context.Context, id, actorID string) error
	Publish(ctx context.Context, id, actorID string) (*Post, error)

	// TagIDs returns the ids of the tags attached to a post.
	TagIDs(ctx context.Context, id string) ([]string, error)
	// ReplaceTags, AttachTags and DetachTags modify the tags of a post and
	// return the resulting tag ids.
	ReplaceTags(ctx context.Context, id, actorID string, tagIDs []string) ([]string, error)
	AttachTags(ctx context.Context, id, actorID string, tagIDs []string) ([]string, error)
	DetachTags(ctx context.Context, id, actorID string, tagIDs []string) ([]string, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func (s *service) Create(ctx context.Context, authorID string, req CreateRequest) (*Post, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrContentRequired
	}

	p := &Post{
		AuthorID: authorID,
		Title:    title,
		Slug:     Slugify(title),
		Content:  req.Content,
	}

	if err := s.repo.Create(ctx, p, dedupe(req.TagIDs)); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Post, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Post, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	filter.Keyword = strings.TrimSpace(filter.Keyword)
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id, actorID string, req UpdateRequest) (*Post, error) {
	p, err := s.owned(ctx, id, actorID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		p.Title = title
		p.Slug = Slugify(title)
	}

	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return nil, ErrContentRequired
		}
		p.Content = *req.Content
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) Delete(ctx context.Context, id, actorID string) error {
	if _, err := s.owned(ctx, id, actorID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) Publish(ctx context.Context, id, actorID string) (*Post, error) {
	p, err := s.owned(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	if p.Published() {
		return nil, ErrAlreadyPublished
	}

	now := s.now().UTC()
	p.PublishedAt = &now
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) TagIDs(ctx context.Context, id string) ([]string, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.repo.TagIDs(ctx, id)
}

func (s *service) ReplaceTags(ctx context.Context, id, actorID string, tagIDs []string) ([]string, error) {
	if _, err := s.owned(ctx, id, actorID); err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceTags(ctx, id, dedupe(tagIDs)); err != nil {
		return nil, err
	}
	return s.repo.TagIDs(ctx, id)
}

func (s *service) AttachTags(ctx context.Context, id, actorID string, tagIDs []string) ([]string, error) {
	if _, err := s.owned(ctx, id, actorID); err != nil {
		return nil, err
	}
	if err := s.repo.AttachTags(ctx, id, dedupe(tagIDs)); err != nil {
		return nil, err
	}
	return s.repo.TagIDs(ctx, id)
}

func (s *service) DetachTags(ctx context.Context, id, actorID string, tagIDs []string) ([]string, error) {
	if _, err := s.owned(ctx, id, actorID); err != nil {
		return nil, err
	}
	if err := s.repo.DetachTags(ctx, id, dedupe(tagIDs)); err != nil {
		return nil, err
	}
	return s.repo.TagIDs(ctx, id)
}

// owned loads a post and checks that actorID wrote it.
func (s *service) owned(ctx context.Context, id, actorID string) (*Post, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.AuthorID != actorID {
		return nil, ErrForbidden
	}
	return p, nil
}

// Slugify derives the URL slug of a post title.
func Slugify(title string) string {
	return strcase.KebabCase(strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return ' '
		}
	}, title))
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
