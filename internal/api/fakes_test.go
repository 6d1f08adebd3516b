package api

import (
	"context"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/nekogravitycat/jsonapi-server/internal/image"
	"github.com/nekogravitycat/jsonapi-server/internal/post"
	"github.com/nekogravitycat/jsonapi-server/internal/tag"
	"github.com/nekogravitycat/jsonapi-server/internal/user"
)

type fakeTags struct {
	tags  []*tag.Tag
	posts *fakePosts
}

func (f *fakeTags) GetByID(_ context.Context, id string) (*tag.Tag, error) {
	for _, t := range f.tags {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, tag.ErrNotFound
}

func (f *fakeTags) List(_ context.Context, _ tag.Filter) ([]*tag.Tag, int, error) {
	return f.tags, len(f.tags), nil
}

func (f *fakeTags) ListByPost(_ context.Context, postID string) ([]*tag.Tag, error) {
	var out []*tag.Tag
	for _, t := range f.tags {
		if slices.Contains(f.posts.tags[postID], t.ID) {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakePosts struct {
	posts map[string]*post.Post
	tags  map[string][]string
	seq   int
}

func newFakePosts() *fakePosts {
	return &fakePosts{posts: make(map[string]*post.Post), tags: make(map[string][]string)}
}

func (f *fakePosts) add(p *post.Post, tagIDs ...string) {
	f.posts[p.ID] = p
	f.tags[p.ID] = tagIDs
}

func (f *fakePosts) Create(_ context.Context, authorID string, req post.CreateRequest) (*post.Post, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, post.ErrTitleRequired
	}
	f.seq++
	p := &post.Post{
		ID:        "new-" + strconv.Itoa(f.seq),
		AuthorID:  authorID,
		Title:     req.Title,
		Slug:      post.Slugify(req.Title),
		Content:   req.Content,
		CreatedAt: time.Unix(0, 0).UTC(),
	}
	f.add(p, req.TagIDs...)
	return p, nil
}

func (f *fakePosts) GetByID(_ context.Context, id string) (*post.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, post.ErrNotFound
	}
	return p, nil
}

func (f *fakePosts) List(_ context.Context, filter post.Filter) ([]*post.Post, int, error) {
	var out []*post.Post
	for id, p := range f.posts {
		if filter.TagID == "" || slices.Contains(f.tags[id], filter.TagID) {
			out = append(out, p)
		}
	}
	return out, len(out), nil
}

func (f *fakePosts) owned(id, actorID string) (*post.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, post.ErrNotFound
	}
	if p.AuthorID != actorID {
		return nil, post.ErrForbidden
	}
	return p, nil
}

func (f *fakePosts) Update(_ context.Context, id, actorID string, req post.UpdateRequest) (*post.Post, error) {
	p, err := f.owned(id, actorID)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		p.Title = *req.Title
	}
	return p, nil
}

func (f *fakePosts) Delete(_ context.Context, id, actorID string) error {
	if _, err := f.owned(id, actorID); err != nil {
		return err
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePosts) Publish(_ context.Context, id, actorID string) (*post.Post, error) {
	p, err := f.owned(id, actorID)
	if err != nil {
		return nil, err
	}
	if p.Published() {
		return nil, post.ErrAlreadyPublished
	}
	now := time.Unix(100, 0).UTC()
	p.PublishedAt = &now
	return p, nil
}

func (f *fakePosts) TagIDs(_ context.Context, id string) ([]string, error) {
	if _, ok := f.posts[id]; !ok {
		return nil, post.ErrNotFound
	}
	return append([]string{}, f.tags[id]...), nil
}

func (f *fakePosts) ReplaceTags(ctx context.Context, id, actorID string, tagIDs []string) ([]string, error) {
	if _, err := f.owned(id, actorID); err != nil {
		return nil, err
	}
	f.tags[id] = tagIDs
	return f.TagIDs(ctx, id)
}

func (f *fakePosts) AttachTags(ctx context.Context, id, actorID string, tagIDs []string) ([]string, error) {
	if _, err := f.owned(id, actorID); err != nil {
		return nil, err
	}
	for _, tagID := range tagIDs {
		if !slices.Contains(f.tags[id], tagID) {
			f.tags[id] = append(f.tags[id], tagID)
		}
	}
	return f.TagIDs(ctx, id)
}

func (f *fakePosts) DetachTags(ctx context.Context, id, actorID string, tagIDs []string) ([]string, error) {
	if _, err := f.owned(id, actorID); err != nil {
		return nil, err
	}
	f.tags[id] = slices.DeleteFunc(f.tags[id], func(tagID string) bool {
		return slices.Contains(tagIDs, tagID)
	})
	return f.TagIDs(ctx, id)
}

type fakeUsers struct {
	users map[string]*user.User
}

func (f *fakeUsers) Register(_ context.Context, email, password, displayName string) (*user.User, error) {
	if email == "" {
		return nil, user.ErrEmailRequired
	}
	for _, u := range f.users {
		if u.Email == email {
			return nil, user.ErrEmailAlreadyUsed
		}
	}
	u := &user.User{ID: "u-new", Email: email, IsActive: true}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUsers) Login(_ context.Context, email, password string) (*user.User, error) {
	for _, u := range f.users {
		if u.Email == email && password == "password123" {
			return u, nil
		}
	}
	return nil, user.ErrInvalidCredentials
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*user.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

type fakeImages struct {
	images map[string]*image.Image
}

func (f *fakeImages) Upload(_ context.Context, in image.UploadInput) (*image.Image, error) {
	if in.ContentType != "image/png" {
		return nil, image.ErrUnsupportedType
	}
	data, err := io.ReadAll(in.Content)
	if err != nil {
		return nil, err
	}
	img := &image.Image{ID: "img-new", UserID: in.UserID, Filename: in.Filename, ContentType: in.ContentType, Size: int64(len(data))}
	f.images[img.ID] = img
	return img, nil
}

func (f *fakeImages) Get(_ context.Context, id string) (*image.Image, error) {
	img, ok := f.images[id]
	if !ok {
		return nil, image.ErrNotFound
	}
	return img, nil
}

func (f *fakeImages) Delete(_ context.Context, id, actorID string) error {
	img, ok := f.images[id]
	if !ok {
		return image.ErrNotFound
	}
	if img.UserID != actorID {
		return image.ErrForbidden
	}
	delete(f.images, id)
	return nil
}

func (f *fakeImages) Thumbnail(_ context.Context, id string) (io.ReadCloser, *image.Image, error) {
	img, ok := f.images[id]
	if !ok {
		return nil, nil, image.ErrNotFound
	}
	if img.ThumbnailPath == nil {
		return nil, nil, image.ErrThumbnailUnavailable
	}
	return io.NopCloser(strings.NewReader("jpeg-bytes")), img, nil
}
