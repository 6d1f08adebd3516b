package tag

import (
	"context"
	"strings"
)

type Service interface {
	GetByID(ctx context.Context, id string) (*Tag, error)
	List(ctx context.Context, filter Filter) ([]*Tag, int, error)
	ListByPost(ctx context.Context, postID string) ([]*Tag, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetByID(ctx context.Context, id string) (*Tag, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Tag, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	filter.Keyword = strings.TrimSpace(filter.Keyword)
	return s.repo.List(ctx, filter)
}

func (s *service) ListByPost(ctx context.Context, postID string) ([]*Tag, error) {
	return s.repo.ListByPost(ctx, postID)
}
