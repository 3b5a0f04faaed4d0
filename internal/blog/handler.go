package blog

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/apexdigital/leadgen-platform/internal/backend"
	"github.com/apexdigital/leadgen-platform/internal/observability/metrics"
	"github.com/apexdigital/leadgen-platform/pkg/logging"
)

// Handler serves public blog pages and the admin content endpoints.
type Handler struct {
	repo    Repository
	logger  *logging.Logger
	metrics *metrics.Metrics
}

// HandlerOption configures optional handler collaborators.
type HandlerOption func(*Handler)

// WithMetrics wires view counters.
func WithMetrics(m *metrics.Metrics) HandlerOption {
	return func(h *Handler) { h.metrics = m }
}

// NewHandler creates a new blog handler
func NewHandler(repo Repository, logger *logging.Logger, opts ...HandlerOption) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	h := &Handler{
		repo:   repo,
		logger: logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ListResponse is the response for post listings.
type ListResponse struct {
	Posts []*Post `json:"posts"`
	Count int     `json:"count"`
}

// DetailResponse is the response for a post detail page: the record plus
// render-time derivations.
type DetailResponse struct {
	Post        *Post  `json:"post"`
	ContentHTML string `json:"content_html"`
	SEOTitle    string `json:"seo_title"`
	SEODesc     string `json:"seo_description"`
	Trending    bool   `json:"trending"`
}

// ListPublished handles GET /blog requests. An optional category
// criterion narrows the listing; "all" matches unconditionally.
func (h *Handler) ListPublished(w http.ResponseWriter, r *http.Request) {
	posts, err := h.repo.ListPublished(r.Context())
	if err != nil {
		h.writeRepoError(w, err, "failed to list posts")
		return
	}

	posts = FilterByCategory(posts, r.URL.Query().Get("category"))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListResponse{Posts: posts, Count: len(posts)})
}

// GetBySlug handles GET /blog/{slug} requests. Reads never move the view
// counter.
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	post, err := h.repo.GetBySlug(r.Context(), slug)
	if err != nil {
		h.writeRepoError(w, err, "failed to load post")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DetailResponse{
		Post:        post,
		ContentHTML: RenderHTML(post.Content),
		SEOTitle:    post.EffectiveSEOTitle(),
		SEODesc:     post.EffectiveSEODescription(),
		Trending:    post.Trending(),
	})
}

// IncrementViews handles POST /blog/{slug}/views, the dedicated counter
// operation. Against the read-only demo store the call succeeds without
// moving the counter.
func (h *Handler) IncrementViews(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	post, err := h.repo.GetBySlug(r.Context(), slug)
	if err != nil {
		h.writeRepoError(w, err, "failed to load post")
		return
	}

	if err := h.repo.IncrementViews(r.Context(), post.ID); err != nil {
		if errors.Is(err, ErrReadOnlyStore) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.writeRepoError(w, err, "failed to increment views")
		return
	}
	h.metrics.RecordBlogView(post.Slug)
	w.WriteHeader(http.StatusNoContent)
}

// ListAll handles GET /admin/posts requests, including drafts.
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	posts, err := h.repo.ListAll(r.Context())
	if err != nil {
		h.writeRepoError(w, err, "failed to list posts")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ListResponse{Posts: posts, Count: len(posts)})
}

// CreatePost handles POST /admin/posts requests.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	post, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrSlugTaken) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		h.writeRepoError(w, err, "failed to create post")
		return
	}

	h.logger.Info("post created", "id", post.ID, "slug", post.Slug, "published", post.Published)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(post)
}

// UpdatePost handles PATCH /admin/posts/{id} requests.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req UpdatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	post, err := h.repo.Update(r.Context(), id, &req)
	if err != nil {
		h.writeRepoError(w, err, "failed to update post")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(post)
}

// DeletePost handles DELETE /admin/posts/{id} requests.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.writeRepoError(w, err, "failed to delete post")
		return
	}
	h.logger.Info("post deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeRepoError(w http.ResponseWriter, err error, logMsg string) {
	h.logger.Error(logMsg, "error", err)

	switch {
	case errors.Is(err, ErrPostNotFound):
		http.Error(w, "post not found", http.StatusNotFound)
	case errors.Is(err, ErrReadOnlyStore):
		http.Error(w, "content is read-only in demo mode", http.StatusForbidden)
	case errors.Is(err, backend.ErrNotConfigured):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		var apiErr *backend.Error
		if errors.As(err, &apiErr) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			json.NewEncoder(w).Encode(map[string]string{
				"error":       apiErr.Error(),
				"remediation": apiErr.Remediation(),
			})
			return
		}
		http.Error(w, logMsg, http.StatusInternalServerError)
	}
}
