package image

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nekogravitycat/jsonapi-server/internal/pkg/storage"
)

const (
	DefaultMaxSizeBytes = 10 << 20
	ThumbnailSize       = 200
)

// DefaultAllowedTypes lists the content types accepted by Upload.
var DefaultAllowedTypes = []string{"image/jpeg", "image/png", "image/gif"}

// UploadInput describes an uploaded file.
type UploadInput struct {
	Filename    string
	ContentType string
	Content     io.Reader
	UserID      string
}

type Service interface {
	Upload(ctx context.Context, in UploadInput) (*Image, error)
	Get(ctx context.Context, id string) (*Image, error)
	Delete(ctx context.Context, id, actorID string) error
	Thumbnail(ctx context.Context, id string) (io.ReadCloser, *Image, error)
}

type Config struct {
	MaxSizeBytes int64
	AllowedTypes []string
}

type service struct {
	repo    Repository
	storage storage.Storage
	imgProc *storage.ImageProcessor
	cfg     Config
	logger  *zap.Logger
	now     func() time.Time
}

func NewService(repo Repository, store storage.Storage, cfg Config, logger *zap.Logger) Service {
	if cfg.MaxSizeBytes <= 0 {
		cfg.MaxSizeBytes = DefaultMaxSizeBytes
	}
	if len(cfg.AllowedTypes) == 0 {
		cfg.AllowedTypes = DefaultAllowedTypes
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		repo:    repo,
		storage: store,
		imgProc: storage.NewImageProcessor(85),
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *service) Upload(ctx context.Context, in UploadInput) (*Image, error) {
	contentType := strings.ToLower(strings.TrimSpace(in.ContentType))
	if !slices.Contains(s.cfg.AllowedTypes, contentType) {
		return nil, ErrUnsupportedType
	}

	// Read one byte past the limit to detect oversized uploads.
	content, err := io.ReadAll(io.LimitReader(in.Content, s.cfg.MaxSizeBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read image content: %w", err)
	}
	if int64(len(content)) > s.cfg.MaxSizeBytes {
		return nil, ErrTooLarge
	}

	width, height, err := s.imgProc.Dimensions(bytes.NewReader(content))
	if err != nil {
		return nil, ErrInvalidImage
	}

	imageID := uuid.New().String()

	// Sharding path: upload/ab/UUID.ext
	shard := imageID[:2]
	ext := strings.ToLower(filepath.Ext(in.Filename))
	storagePath := fmt.Sprintf("upload/%s/%s%s", shard, imageID, ext)

	if err := s.storage.Save(ctx, storagePath, bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to save image to storage: %w", err)
	}

	var thumbnailPath *string
	thumb, err := s.imgProc.Thumbnail(bytes.NewReader(content), ThumbnailSize, ThumbnailSize)
	if err != nil {
		s.logger.Warn("thumbnail generation failed", zap.String("imageID", imageID), zap.Error(err))
	} else {
		tPath := fmt.Sprintf("upload/%s/%s_thumb.jpg", shard, imageID)
		if err := s.storage.Save(ctx, tPath, bytes.NewReader(thumb)); err != nil {
			s.logger.Warn("thumbnail save failed", zap.String("imageID", imageID), zap.Error(err))
		} else {
			thumbnailPath = &tPath
		}
	}

	img := &Image{
		ID:            imageID,
		UserID:        in.UserID,
		Filename:      filepath.Base(in.Filename),
		StoragePath:   storagePath,
		ThumbnailPath: thumbnailPath,
		ContentType:   contentType,
		Size:          int64(len(content)),
		Width:         width,
		Height:        height,
		CreatedAt:     s.now().UTC(),
	}

	if err := s.repo.Create(ctx, img); err != nil {
		// Cleanup storage if db fails
		_ = s.storage.Delete(ctx, storagePath)
		if thumbnailPath != nil {
			_ = s.storage.Delete(ctx, *thumbnailPath)
		}
		return nil, err
	}

	return img, nil
}

func (s *service) Get(ctx context.Context, id string) (*Image, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id, actorID string) error {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if img.UserID != actorID {
		return ErrForbidden
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// Best effort storage cleanup once the record is gone.
	if err := s.storage.Delete(ctx, img.StoragePath); err != nil {
		s.logger.Warn("failed to delete stored image", zap.String("imageID", id), zap.Error(err))
	}
	if img.ThumbnailPath != nil {
		if err := s.storage.Delete(ctx, *img.ThumbnailPath); err != nil {
			s.logger.Warn("failed to delete stored thumbnail", zap.String("imageID", id), zap.Error(err))
		}
	}
	return nil
}

func (s *service) Thumbnail(ctx context.Context, id string) (io.ReadCloser, *Image, error) {
	img, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if img.ThumbnailPath == nil {
		return nil, nil, ErrThumbnailUnavailable
	}

	stream, err := s.storage.Get(ctx, *img.ThumbnailPath)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil, ErrThumbnailUnavailable
		}
		return nil, nil, fmt.Errorf("failed to retrieve thumbnail from storage: %w", err)
	}

	return stream, img, nil
}
