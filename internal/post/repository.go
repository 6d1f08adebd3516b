package post

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/jsonapi-server/internal/db"
)

type Repository interface {
	Create(ctx context.Context, p *Post, tagIDs []string) error
	GetByID(ctx context.Context, id string) (*Post, error)
	List(ctx context.Context, filter Filter) ([]*Post, int, error)
	Update(ctx context.Context, p *Post) error
	Delete(ctx context.Context, id string) error

	TagIDs(ctx context.Context, postID string) ([]string, error)
	ReplaceTags(ctx context.Context, postID string, tagIDs []string) error
	AttachTags(ctx context.Context, postID string, tagIDs []string) error
	DetachTags(ctx context.Context, postID string, tagIDs []string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var (
	psql        = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	postColumns = []string{"p.id", "p.author_id", "p.title", "p.slug", "p.content", "p.published_at", "p.created_at", "p.updated_at"}
)

// querier is satisfied by both the pool and a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *pgxRepository) Create(ctx context.Context, p *Post, tagIDs []string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query, args, err := psql.Insert("public.posts").
			Columns("author_id", "title", "slug", "content").
			Values(p.AuthorID, p.Title, p.Slug, p.Content).
			Suffix("RETURNING id, created_at, updated_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("build create post query failed: %w", err)
		}

		if err := tx.QueryRow(ctx, query, args...).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return mapWriteError("create post", err)
		}
		return insertTags(ctx, tx, p.ID, tagIDs)
	})
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Post, error) {
	query, args, err := psql.Select(postColumns...).
		From("public.posts p").
		Where(squirrel.Eq{"p.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get post query failed: %w", err)
	}

	var p Post
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.AuthorID, &p.Title, &p.Slug, &p.Content, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) || db.IsMalformedID(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get post failed: %w", err)
	}
	return &p, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Post, int, error) {
	query := psql.Select(append(postColumns, "count(*) OVER() AS total_count")...).
		From("public.posts p")

	if filter.TagID != "" {
		query = query.Join("public.post_tags pt ON pt.post_id = p.id").
			Where(squirrel.Eq{"pt.tag_id": filter.TagID})
	}
	if filter.Keyword != "" {
		query = query.Where(squirrel.Or{
			squirrel.ILike{"p.title": "%" + filter.Keyword + "%"},
			squirrel.ILike{"p.content": "%" + filter.Keyword + "%"},
		})
	}

	offset := (filter.Page - 1) * filter.PageSize
	query = query.OrderBy("p.created_at DESC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list posts query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts failed: %w", err)
	}
	defer rows.Close()

	var result []*Post
	var total int
	for rows.Next() {
		var p Post
		if err := rows.Scan(
			&p.ID, &p.AuthorID, &p.Title, &p.Slug, &p.Content, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan post failed: %w", err)
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate posts failed: %w", err)
	}

	return result, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, p *Post) error {
	query, args, err := psql.Update("public.posts").
		Set("title", p.Title).
		Set("slug", p.Slug).
		Set("content", p.Content).
		Set("published_at", p.PublishedAt).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": p.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update post query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return mapWriteError("update post", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("public.posts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete post query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete post failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) TagIDs(ctx context.Context, postID string) ([]string, error) {
	query, args, err := psql.Select("tag_id").
		From("public.post_tags").
		Where(squirrel.Eq{"post_id": postID}).
		OrderBy("tag_id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build post tag ids query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list post tag ids failed: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan post tag ids failed: %w", err)
	}
	return ids, nil
}

func (r *pgxRepository) ReplaceTags(ctx context.Context, postID string, tagIDs []string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query, args, err := psql.Delete("public.post_tags").
			Where(squirrel.Eq{"post_id": postID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build clear post tags query failed: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("clear post tags failed: %w", err)
		}
		return insertTags(ctx, tx, postID, tagIDs)
	})
}

func (r *pgxRepository) AttachTags(ctx context.Context, postID string, tagIDs []string) error {
	return insertTags(ctx, r.pool, postID, tagIDs)
}

func (r *pgxRepository) DetachTags(ctx context.Context, postID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}
	query, args, err := psql.Delete("public.post_tags").
		Where(squirrel.Eq{"post_id": postID, "tag_id": tagIDs}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build detach post tags query failed: %w", err)
	}
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("detach post tags failed: %w", err)
	}
	return nil
}

func insertTags(ctx context.Context, q querier, postID string, tagIDs []string) error {
	if len(tagIDs) == 0 {
		return nil
	}
	insert := psql.Insert("public.post_tags").Columns("post_id", "tag_id")
	for _, tagID := range tagIDs {
		insert = insert.Values(postID, tagID)
	}
	query, args, err := insert.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("build attach post tags query failed: %w", err)
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return mapWriteError("attach post tags", err)
	}
	return nil
}

func mapWriteError(op string, err error) error {
	switch {
	case db.IsCode(err, pgerrcode.UniqueViolation):
		return ErrSlugTaken
	case db.IsCode(err, pgerrcode.ForeignKeyViolation), db.IsMalformedID(err):
		return ErrUnknownTag
	}
	return fmt.Errorf("%s failed: %w", op, err)
}
