package image

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/jsonapi-server/internal/db"
)

type Repository interface {
	Create(ctx context.Context, img *Image) error
	GetByID(ctx context.Context, id string) (*Image, error)
	Delete(ctx context.Context, id string) error
}

type repository struct {
	db *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &repository{db: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func (r *repository) Create(ctx context.Context, img *Image) error {
	query, args, err := psql.Insert("public.images").
		Columns("id", "user_id", "filename", "storage_path", "thumbnail_path", "content_type", "size", "width", "height", "created_at").
		Values(img.ID, img.UserID, img.Filename, img.StoragePath, img.ThumbnailPath, img.ContentType, img.Size, img.Width, img.Height, img.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create image record: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Image, error) {
	query, args, err := psql.Select("id", "user_id", "filename", "storage_path", "thumbnail_path", "content_type", "size", "width", "height", "created_at").
		From("public.images").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	img := &Image{}
	err = r.db.QueryRow(ctx, query, args...).Scan(
		&img.ID,
		&img.UserID,
		&img.Filename,
		&img.StoragePath,
		&img.ThumbnailPath,
		&img.ContentType,
		&img.Size,
		&img.Width,
		&img.Height,
		&img.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || db.IsMalformedID(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get image: %w", err)
	}

	return img, nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("public.images").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}

	ct, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete image record: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
