// Package demo serves a fixed dataset embedded in the binary. It is the
// data source of last resort: the site stays browsable with no database
// and no hosted backend, but every mutation is rejected.
package demo

import (
	_ "embed"
	"context"
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/apexdigital/leadgen-platform/internal/blog"
	"github.com/apexdigital/leadgen-platform/internal/leads"
)

//go:embed data.yaml
var rawDataset []byte

type leadRecord struct {
	ID        string    `yaml:"id"`
	Name      string    `yaml:"name"`
	Email     string    `yaml:"email"`
	Company   string    `yaml:"company"`
	Phone     string    `yaml:"phone"`
	Service   string    `yaml:"service"`
	Budget    string    `yaml:"budget"`
	Message   string    `yaml:"message"`
	Status    string    `yaml:"status"`
	Source    string    `yaml:"source"`
	CreatedAt time.Time `yaml:"created_at"`
	UpdatedAt time.Time `yaml:"updated_at"`
}

type postRecord struct {
	ID             string     `yaml:"id"`
	Slug           string     `yaml:"slug"`
	Title          string     `yaml:"title"`
	Excerpt        string     `yaml:"excerpt"`
	Content        string     `yaml:"content"`
	Author         string     `yaml:"author"`
	Category       string     `yaml:"category"`
	Tags           []string   `yaml:"tags"`
	ReadingTime    int        `yaml:"reading_time"`
	Published      bool       `yaml:"published"`
	PublishedAt    *time.Time `yaml:"published_at"`
	Views          int        `yaml:"views"`
	SEOTitle       string     `yaml:"seo_title"`
	SEODescription string     `yaml:"seo_description"`
	AIGenerated    bool       `yaml:"ai_generated"`
	TrendingScore  int        `yaml:"trending_score"`
	CreatedAt      time.Time  `yaml:"created_at"`
	UpdatedAt      time.Time  `yaml:"updated_at"`
}

type dataset struct {
	Leads []leadRecord `yaml:"leads"`
	Posts []postRecord `yaml:"posts"`
}

// Store holds the parsed dataset. Reads return copies so callers can
// never alter the embedded data; the store itself is immutable after
// construction and safe for concurrent use.
type Store struct {
	leads []leads.Lead
	posts []blog.Post
}

// NewStore parses the embedded dataset. A parse failure is a build
// defect, not a runtime condition.
func NewStore() (*Store, error) {
	var ds dataset
	if err := yaml.Unmarshal(rawDataset, &ds); err != nil {
		return nil, fmt.Errorf("demo: parse embedded dataset: %w", err)
	}

	s := &Store{
		leads: make([]leads.Lead, 0, len(ds.Leads)),
		posts: make([]blog.Post, 0, len(ds.Posts)),
	}
	seen := map[string]bool{}
	for _, r := range ds.Leads {
		s.leads = append(s.leads, leads.Lead{
			ID:        r.ID,
			Name:      r.Name,
			Email:     r.Email,
			Company:   r.Company,
			Phone:     r.Phone,
			Service:   r.Service,
			Budget:    r.Budget,
			Message:   r.Message,
			Status:    r.Status,
			Source:    r.Source,
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
		})
	}
	for _, r := range ds.Posts {
		if seen[r.Slug] {
			return nil, fmt.Errorf("demo: duplicate slug %q in embedded dataset", r.Slug)
		}
		seen[r.Slug] = true
		s.posts = append(s.posts, blog.Post{
			ID:             r.ID,
			Slug:           r.Slug,
			Title:          r.Title,
			Excerpt:        r.Excerpt,
			Content:        r.Content,
			Author:         r.Author,
			Category:       r.Category,
			Tags:           r.Tags,
			ReadingTime:    r.ReadingTime,
			Published:      r.Published,
			PublishedAt:    r.PublishedAt,
			Views:          r.Views,
			SEOTitle:       r.SEOTitle,
			SEODescription: r.SEODescription,
			AIGenerated:    r.AIGenerated,
			TrendingScore:  r.TrendingScore,
			CreatedAt:      r.CreatedAt,
			UpdatedAt:      r.UpdatedAt,
		})
	}
	return s, nil
}

// LeadStore exposes the dataset through the lead repository contract.
func (s *Store) LeadStore() *LeadStore { return &LeadStore{store: s} }

// PostStore exposes the dataset through the blog repository contract.
func (s *Store) PostStore() *PostStore { return &PostStore{store: s} }

// LeadStore is the read-only lead view of the embedded dataset.
type LeadStore struct {
	store *Store
}

// List returns every demo lead, newest first.
func (l *LeadStore) List(ctx context.Context) ([]*leads.Lead, error) {
	out := make([]*leads.Lead, 0, len(l.store.leads))
	for i := range l.store.leads {
		lead := l.store.leads[i]
		out = append(out, &lead)
	}
	sortLeadsNewestFirst(out)
	return out, nil
}

// GetByID returns the demo lead with the given id.
func (l *LeadStore) GetByID(ctx context.Context, id string) (*leads.Lead, error) {
	for i := range l.store.leads {
		if l.store.leads[i].ID == id {
			lead := l.store.leads[i]
			return &lead, nil
		}
	}
	return nil, leads.ErrLeadNotFound
}

// Create rejects the mutation; the demo dataset is fixed.
func (l *LeadStore) Create(ctx context.Context, req *leads.CreateLeadRequest) (*leads.Lead, error) {
	return nil, leads.ErrReadOnlyStore
}

// Update rejects the mutation; the demo dataset is fixed.
func (l *LeadStore) Update(ctx context.Context, id string, req *leads.UpdateLeadRequest) (*leads.Lead, error) {
	return nil, leads.ErrReadOnlyStore
}

// Delete rejects the mutation; the demo dataset is fixed.
func (l *LeadStore) Delete(ctx context.Context, id string) error {
	return leads.ErrReadOnlyStore
}

// PostStore is the read-only blog view of the embedded dataset.
type PostStore struct {
	store *Store
}

// ListPublished returns published demo posts, newest publish date first.
func (p *PostStore) ListPublished(ctx context.Context) ([]*blog.Post, error) {
	out := []*blog.Post{}
	for i := range p.store.posts {
		if !p.store.posts[i].Published {
			continue
		}
		post := p.store.posts[i]
		out = append(out, &post)
	}
	sortPostsNewestFirst(out)
	return out, nil
}

// ListAll returns every demo post including drafts.
func (p *PostStore) ListAll(ctx context.Context) ([]*blog.Post, error) {
	out := make([]*blog.Post, 0, len(p.store.posts))
	for i := range p.store.posts {
		post := p.store.posts[i]
		out = append(out, &post)
	}
	return out, nil
}

// GetBySlug returns the demo post with the given slug. Slugs are unique
// within the dataset, enforced at parse time.
func (p *PostStore) GetBySlug(ctx context.Context, slug string) (*blog.Post, error) {
	for i := range p.store.posts {
		if p.store.posts[i].Slug == slug {
			post := p.store.posts[i]
			return &post, nil
		}
	}
	return nil, blog.ErrPostNotFound
}

// Create rejects the mutation; the demo dataset is fixed.
func (p *PostStore) Create(ctx context.Context, req *blog.CreatePostRequest) (*blog.Post, error) {
	return nil, blog.ErrReadOnlyStore
}

// Update rejects the mutation; the demo dataset is fixed.
func (p *PostStore) Update(ctx context.Context, id string, req *blog.UpdatePostRequest) (*blog.Post, error) {
	return nil, blog.ErrReadOnlyStore
}

// Delete rejects the mutation; the demo dataset is fixed.
func (p *PostStore) Delete(ctx context.Context, id string) error {
	return blog.ErrReadOnlyStore
}

// IncrementViews rejects the mutation; demo view counts never move.
func (p *PostStore) IncrementViews(ctx context.Context, id string) error {
	return blog.ErrReadOnlyStore
}

func sortLeadsNewestFirst(in []*leads.Lead) {
	sort.SliceStable(in, func(i, j int) bool {
		return in[i].CreatedAt.After(in[j].CreatedAt)
	})
}

func sortPostsNewestFirst(in []*blog.Post) {
	sort.SliceStable(in, func(i, j int) bool {
		return after(in[i].PublishedAt, in[j].PublishedAt)
	})
}

func after(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.After(*b)
}
