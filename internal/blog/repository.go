package blog

import (
	"context"
	"errors"
	"time"

	"github.com/apexdigital/leadgen-platform/internal/backend"
)

// Repository defines the interface for blog post storage. Published
// listings are ordered by publish time descending.
type Repository interface {
	ListPublished(ctx context.Context) ([]*Post, error)
	ListAll(ctx context.Context) ([]*Post, error)
	GetBySlug(ctx context.Context, slug string) (*Post, error)
	Create(ctx context.Context, req *CreatePostRequest) (*Post, error)
	Update(ctx context.Context, id string, req *UpdatePostRequest) (*Post, error)
	Delete(ctx context.Context, id string) error
	// IncrementViews adds exactly one to the stored counter. It is the
	// only operation that moves views.
	IncrementViews(ctx context.Context, id string) error
}

const collection = "blog_posts"

// BackendRepository stores posts in the hosted backend collection API.
type BackendRepository struct {
	client *backend.Client
}

// NewBackendRepository wraps a configured backend client.
func NewBackendRepository(client *backend.Client) *BackendRepository {
	if client == nil {
		panic("blog: backend client required")
	}
	return &BackendRepository{client: client}
}

// ListAll returns every post, newest publish date first.
func (r *BackendRepository) ListAll(ctx context.Context) ([]*Post, error) {
	var out []*Post
	if err := r.client.List(ctx, collection, "published_at", &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []*Post{}
	}
	return out, nil
}

// ListPublished narrows ListAll to published posts, preserving order.
func (r *BackendRepository) ListPublished(ctx context.Context) ([]*Post, error) {
	all, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Post, 0, len(all))
	for _, p := range all {
		if p.Published {
			out = append(out, p)
		}
	}
	return out, nil
}

// GetBySlug returns the single post with the given slug. The remote layer
// enforces uniqueness; zero or multiple matches surface as errors.
func (r *BackendRepository) GetBySlug(ctx context.Context, slug string) (*Post, error) {
	var post Post
	if err := r.client.GetByKey(ctx, collection, "slug", slug, &post); err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Create inserts a post; published posts get published_at stamped.
func (r *BackendRepository) Create(ctx context.Context, req *CreatePostRequest) (*Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	record := map[string]any{
		"slug":            req.Slug,
		"title":           req.Title,
		"excerpt":         req.Excerpt,
		"content":         req.Content,
		"author":          req.Author,
		"category":        req.Category,
		"tags":            req.Tags,
		"reading_time":    req.ReadingTime,
		"published":       req.Published,
		"views":           0,
		"seo_title":       req.SEOTitle,
		"seo_description": req.SEODescription,
		"ai_generated":    req.AIGenerated,
		"trending_score":  req.TrendingScore,
	}
	if req.Published {
		record["published_at"] = time.Now().UTC()
	}
	var post Post
	if err := r.client.Insert(ctx, collection, record, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// Update merges the partial fields, stamping published_at on a
// draft-to-published transition.
func (r *BackendRepository) Update(ctx context.Context, id string, req *UpdatePostRequest) (*Post, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	partial := map[string]any{"updated_at": time.Now().UTC()}
	if req.Title != nil {
		partial["title"] = *req.Title
	}
	if req.Excerpt != nil {
		partial["excerpt"] = *req.Excerpt
	}
	if req.Content != nil {
		partial["content"] = *req.Content
	}
	if req.Author != nil {
		partial["author"] = *req.Author
	}
	if req.Category != nil {
		partial["category"] = *req.Category
	}
	if req.Tags != nil {
		partial["tags"] = *req.Tags
	}
	if req.ReadingTime != nil {
		partial["reading_time"] = *req.ReadingTime
	}
	if req.SEOTitle != nil {
		partial["seo_title"] = *req.SEOTitle
	}
	if req.SEODescription != nil {
		partial["seo_description"] = *req.SEODescription
	}
	if req.TrendingScore != nil {
		partial["trending_score"] = *req.TrendingScore
	}
	if req.Published != nil {
		partial["published"] = *req.Published
		if *req.Published {
			// Stamp only on the draft-to-published transition; republishing
			// must not re-date the post.
			var current Post
			if err := r.client.GetByKey(ctx, collection, "id", id, &current); err != nil {
				if errors.Is(err, backend.ErrNotFound) {
					return nil, ErrPostNotFound
				}
				return nil, err
			}
			if current.PublishedAt == nil {
				partial["published_at"] = time.Now().UTC()
			}
		}
	}

	var post Post
	if err := r.client.Update(ctx, collection, id, partial, &post); err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Delete removes a post permanently.
func (r *BackendRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Delete(ctx, collection, id); err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	return nil
}

// IncrementViews reads the current counter and writes back current+1.
// The hosted API has no atomic increment; concurrent increments may
// coalesce (last write wins), which keeps the counter monotonic.
func (r *BackendRepository) IncrementViews(ctx context.Context, id string) error {
	var post Post
	if err := r.client.GetByKey(ctx, collection, "id", id, &post); err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	partial := map[string]any{"views": post.Views + 1}
	if err := r.client.Update(ctx, collection, id, partial, nil); err != nil {
		if errors.Is(err, backend.ErrNotFound) {
			return ErrPostNotFound
		}
		return err
	}
	return nil
}
