// Package dashboard computes the summary numbers shown at the top of
// the admin view.
package dashboard

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/apexdigital/leadgen-platform/internal/blog"
	"github.com/apexdigital/leadgen-platform/internal/leads"
)

// Stats is the dashboard summary.
type Stats struct {
	TotalLeads     int            `json:"total_leads"`
	LeadsByStatus  map[string]int `json:"leads_by_status"`
	LeadsByService map[string]int `json:"leads_by_service"`
	ConversionRate float64        `json:"conversion_rate"`
	TotalPosts     int            `json:"total_posts"`
	PublishedPosts int            `json:"published_posts"`
	TotalViews     int            `json:"total_views"`
}

// Aggregator produces dashboard stats for the active data source.
type Aggregator interface {
	Stats(ctx context.Context) (*Stats, error)
}

// SQLAggregator computes stats with aggregate queries so large lead
// tables never cross the wire.
type SQLAggregator struct {
	db *sql.DB
}

// NewSQLAggregator wraps a database handle opened with the pq driver.
func NewSQLAggregator(db *sql.DB) *SQLAggregator {
	if db == nil {
		panic("dashboard: db handle required")
	}
	return &SQLAggregator{db: db}
}

// Stats runs the aggregate queries.
func (a *SQLAggregator) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		LeadsByStatus:  map[string]int{},
		LeadsByService: map[string]int{},
	}

	rows, err := a.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM leads GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("dashboard: leads by status: %w", err)
	}
	defer rows.Close()
	converted := 0
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("dashboard: scan status row: %w", err)
		}
		stats.LeadsByStatus[status] = count
		stats.TotalLeads += count
		if status == leads.StatusConverted {
			converted = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if stats.TotalLeads > 0 {
		stats.ConversionRate = float64(converted) / float64(stats.TotalLeads)
	}

	serviceRows, err := a.db.QueryContext(ctx, `SELECT service, COUNT(*) FROM leads GROUP BY service`)
	if err != nil {
		return nil, fmt.Errorf("dashboard: leads by service: %w", err)
	}
	defer serviceRows.Close()
	for serviceRows.Next() {
		var service string
		var count int
		if err := serviceRows.Scan(&service, &count); err != nil {
			return nil, fmt.Errorf("dashboard: scan service row: %w", err)
		}
		stats.LeadsByService[service] = count
	}
	if err := serviceRows.Err(); err != nil {
		return nil, err
	}

	query := `SELECT COUNT(*), COUNT(*) FILTER (WHERE published), COALESCE(SUM(views), 0) FROM blog_posts`
	if err := a.db.QueryRowContext(ctx, query).Scan(&stats.TotalPosts, &stats.PublishedPosts, &stats.TotalViews); err != nil {
		return nil, fmt.Errorf("dashboard: post totals: %w", err)
	}

	return stats, nil
}

// RepoAggregator computes stats from repository listings. Used with the
// hosted backend and the demo dataset, where no SQL handle exists.
type RepoAggregator struct {
	leads leads.Repository
	posts blog.Repository
}

// NewRepoAggregator wraps the active repositories.
func NewRepoAggregator(leadRepo leads.Repository, postRepo blog.Repository) *RepoAggregator {
	return &RepoAggregator{leads: leadRepo, posts: postRepo}
}

// Stats lists both collections and counts in memory.
func (a *RepoAggregator) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		LeadsByStatus:  map[string]int{},
		LeadsByService: map[string]int{},
	}

	allLeads, err := a.leads.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: list leads: %w", err)
	}
	converted := 0
	for _, l := range allLeads {
		stats.TotalLeads++
		stats.LeadsByStatus[l.Status]++
		stats.LeadsByService[l.Service]++
		if l.Status == leads.StatusConverted {
			converted++
		}
	}
	if stats.TotalLeads > 0 {
		stats.ConversionRate = float64(converted) / float64(stats.TotalLeads)
	}

	allPosts, err := a.posts.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: list posts: %w", err)
	}
	for _, p := range allPosts {
		stats.TotalPosts++
		if p.Published {
			stats.PublishedPosts++
		}
		stats.TotalViews += p.Views
	}

	return stats, nil
}
