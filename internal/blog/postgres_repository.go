package blog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores blog posts in the relational database.
type PostgresRepository struct {
	pool pgxQuerier
}

// NewPostgresRepository initializes a repo backed by pgxpool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	if pool == nil {
		panic("blog: pgx pool required")
	}
	return &PostgresRepository{pool: pool}
}

func newPostgresRepositoryWithQuerier(q pgxQuerier) *PostgresRepository {
	if q == nil {
		panic("blog: querier required")
	}
	return &PostgresRepository{pool: q}
}

const postColumns = `id, slug, title, excerpt, content, author, category, tags, reading_time,
	published, published_at, views, seo_title, seo_description, ai_generated, trending_score,
	created_at, updated_at`

// ListPublished returns published posts ordered by publish time
// descending.
func (r *PostgresRepository) ListPublished(ctx context.Context) ([]*Post, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE published ORDER BY published_at DESC`
	return r.list(ctx, query)
}

// ListAll returns every post including drafts, newest first.
func (r *PostgresRepository) ListAll(ctx context.Context) ([]*Post, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *PostgresRepository) list(ctx context.Context, query string) ([]*Post, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("blog: select failed: %w", err)
	}
	defer rows.Close()

	out := []*Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, post)
	}
	return out, rows.Err()
}

// GetBySlug fetches the post with the given slug. The unique index on
// slug guarantees at most one match.
func (r *PostgresRepository) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	query := `SELECT ` + postColumns + ` FROM blog_posts WHERE slug = $1`
	post, err := scanPost(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

// Create inserts a new post.
func (r *PostgresRepository) Create(ctx context.Context, req *CreatePostRequest) (*Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	var publishedAt *time.Time
	if req.Published {
		now := time.Now().UTC()
		publishedAt = &now
	}

	query := `
		INSERT INTO blog_posts (id, slug, title, excerpt, content, author, category, tags,
			reading_time, published, published_at, seo_title, seo_description, ai_generated, trending_score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at
	`
	var createdAt, updatedAt time.Time
	if err := r.pool.QueryRow(ctx, query,
		id, req.Slug, req.Title, req.Excerpt, req.Content, req.Author, req.Category, req.Tags,
		req.ReadingTime, req.Published, publishedAt, req.SEOTitle, req.SEODescription,
		req.AIGenerated, req.TrendingScore,
	).Scan(&createdAt, &updatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("%w: %s", ErrSlugTaken, req.Slug)
		}
		return nil, fmt.Errorf("blog: insert failed: %w", err)
	}

	return &Post{
		ID:             id.String(),
		Slug:           req.Slug,
		Title:          req.Title,
		Excerpt:        req.Excerpt,
		Content:        req.Content,
		Author:         req.Author,
		Category:       req.Category,
		Tags:           req.Tags,
		ReadingTime:    req.ReadingTime,
		Published:      req.Published,
		PublishedAt:    publishedAt,
		SEOTitle:       req.SEOTitle,
		SEODescription: req.SEODescription,
		AIGenerated:    req.AIGenerated,
		TrendingScore:  req.TrendingScore,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
	}, nil
}

// Update merges the partial fields, stamping published_at on a
// draft-to-published transition, and returns the full updated row.
func (r *PostgresRepository) Update(ctx context.Context, id string, req *UpdatePostRequest) (*Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var tags []string
	if req.Tags != nil {
		tags = *req.Tags
	}
	query := `
		UPDATE blog_posts SET
			title = COALESCE($2, title),
			excerpt = COALESCE($3, excerpt),
			content = COALESCE($4, content),
			author = COALESCE($5, author),
			category = COALESCE($6, category),
			tags = CASE WHEN $7::text[] IS NULL THEN tags ELSE $7 END,
			reading_time = COALESCE($8, reading_time),
			published = COALESCE($9, published),
			published_at = CASE WHEN $9 = TRUE AND published_at IS NULL THEN NOW() ELSE published_at END,
			seo_title = COALESCE($10, seo_title),
			seo_description = COALESCE($11, seo_description),
			trending_score = COALESCE($12, trending_score),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + postColumns
	post, err := scanPost(r.pool.QueryRow(ctx, query,
		id, req.Title, req.Excerpt, req.Content, req.Author, req.Category, tags,
		req.ReadingTime, req.Published, req.SEOTitle, req.SEODescription, req.TrendingScore))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("blog: update failed: %w", err)
	}
	return post, nil
}

// Delete removes a post; deleting an absent id fails.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM blog_posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("blog: delete failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

// IncrementViews bumps the counter atomically by exactly one.
func (r *PostgresRepository) IncrementViews(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `UPDATE blog_posts SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("blog: increment views failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func scanPost(row pgx.Row) (*Post, error) {
	var post Post
	if err := row.Scan(
		&post.ID,
		&post.Slug,
		&post.Title,
		&post.Excerpt,
		&post.Content,
		&post.Author,
		&post.Category,
		&post.Tags,
		&post.ReadingTime,
		&post.Published,
		&post.PublishedAt,
		&post.Views,
		&post.SEOTitle,
		&post.SEODescription,
		&post.AIGenerated,
		&post.TrendingScore,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &post, nil
}
