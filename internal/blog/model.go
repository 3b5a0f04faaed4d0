package blog

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Categories lists the enumerated blog categories.
var Categories = []string{
	"strategy",
	"engineering",
	"case-studies",
	"industry-insights",
	"company-news",
}

// trendingThreshold is the score above which a post gets the trending
// badge.
const trendingThreshold = 85

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Post is a blog content record. Slug uniquely identifies a post and is
// the lookup key for detail pages.
type Post struct {
	ID      string `json:"id"`
	Slug    string `json:"slug"`
	Title   string `json:"title"`
	Excerpt string `json:"excerpt,omitempty"`
	// Content is raw markdown-like text; a minimal lossy transformer is
	// applied at render time (headings, bold, line breaks only).
	Content     string   `json:"content"`
	Author      string   `json:"author,omitempty"`
	Category    string   `json:"category,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	ReadingTime int      `json:"reading_time,omitempty"`

	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	// Views is monotonically non-decreasing and moves only through the
	// dedicated increment operation, never through ordinary reads.
	Views int `json:"views"`

	SEOTitle       string `json:"seo_title,omitempty"`
	SEODescription string `json:"seo_description,omitempty"`

	AIGenerated   bool `json:"ai_generated"`
	TrendingScore int  `json:"trending_score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Trending reports whether the post qualifies for the trending badge.
func (p *Post) Trending() bool {
	return p.TrendingScore > trendingThreshold
}

// EffectiveSEOTitle falls back to the title when no SEO title is set.
func (p *Post) EffectiveSEOTitle() string {
	if p.SEOTitle != "" {
		return p.SEOTitle
	}
	return p.Title
}

// EffectiveSEODescription falls back to the excerpt when no SEO
// description is set.
func (p *Post) EffectiveSEODescription() string {
	if p.SEODescription != "" {
		return p.SEODescription
	}
	return p.Excerpt
}

// CreatePostRequest is the authoring request body.
type CreatePostRequest struct {
	Slug           string   `json:"slug"`
	Title          string   `json:"title"`
	Excerpt        string   `json:"excerpt"`
	Content        string   `json:"content"`
	Author         string   `json:"author"`
	Category       string   `json:"category"`
	Tags           []string `json:"tags"`
	ReadingTime    int      `json:"reading_time"`
	Published      bool     `json:"published"`
	SEOTitle       string   `json:"seo_title"`
	SEODescription string   `json:"seo_description"`
	AIGenerated    bool     `json:"ai_generated"`
	TrendingScore  int      `json:"trending_score"`
}

// Validate validates the authoring request
func (r *CreatePostRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Slug, validation.Required, validation.Match(slugPattern).Error("must be a lowercase url-safe slug")),
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Content, validation.Required),
		validation.Field(&r.Category, validation.Required, validation.In(toAny(Categories)...).Error("must be a known category")),
		validation.Field(&r.TrendingScore, validation.Min(0), validation.Max(100)),
	)
}

// UpdatePostRequest carries a partial update. Nil fields are left
// untouched. Publishing a draft stamps published_at.
type UpdatePostRequest struct {
	Title          *string   `json:"title"`
	Excerpt        *string   `json:"excerpt"`
	Content        *string   `json:"content"`
	Author         *string   `json:"author"`
	Category       *string   `json:"category"`
	Tags           *[]string `json:"tags"`
	ReadingTime    *int      `json:"reading_time"`
	Published      *bool     `json:"published"`
	SEOTitle       *string   `json:"seo_title"`
	SEODescription *string   `json:"seo_description"`
	TrendingScore  *int      `json:"trending_score"`
}

// Validate validates the partial update request
func (r *UpdatePostRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Category, validation.By(optionalCategory)),
		validation.Field(&r.TrendingScore, validation.Min(0), validation.Max(100)),
	)
}

func optionalCategory(value any) error {
	s, ok := value.(*string)
	if !ok || s == nil || *s == "" {
		return nil
	}
	for _, c := range Categories {
		if *s == c {
			return nil
		}
	}
	return validation.NewError("validation_in_invalid", "must be a known category")
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
