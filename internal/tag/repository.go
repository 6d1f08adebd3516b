package tag

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
	GetByID(ctx context.Context, id string) (*Tag, error)
	List(ctx context.Context, filter Filter) ([]*Tag, int, error)
	ListByPost(ctx context.Context, postID string) ([]*Tag, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Tag, error) {
	query, args, err := psql.Select("id", "name", "slug", "created_at").
		From("public.tags").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get tag query failed: %w", err)
	}

	var t Tag
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || db.IsMalformedID(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get tag failed: %w", err)
	}
	return &t, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Tag, int, error) {
	query := psql.Select("id", "name", "slug", "created_at", "count(*) OVER() AS total_count").
		From("public.tags")

	if filter.Keyword != "" {
		query = query.Where(squirrel.ILike{"name": "%" + filter.Keyword + "%"})
	}

	offset := (filter.Page - 1) * filter.PageSize
	query = query.OrderBy("name ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list tags query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list tags failed: %w", err)
	}
	defer rows.Close()

	var result []*Tag
	var total int
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan tag failed: %w", err)
		}
		result = append(result, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate tags failed: %w", err)
	}

	return result, total, nil
}

func (r *pgxRepository) ListByPost(ctx context.Context, postID string) ([]*Tag, error) {
	query, args, err := psql.Select("t.id", "t.name", "t.slug", "t.created_at").
		From("public.tags t").
		Join("public.post_tags pt ON pt.tag_id = t.id").
		Where(squirrel.Eq{"pt.post_id": postID}).
		OrderBy("t.name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list post tags query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list post tags failed: %w", err)
	}
	defer rows.Close()

	var result []*Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tag failed: %w", err)
		}
		result = append(result, &t)
	}
	return result, rows.Err()
}
