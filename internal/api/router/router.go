// Package router assembles the HTTP surface: public site endpoints,
// the metrics listener, and the JWT-protected admin group.
package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/apexdigital/leadgen-platform/internal/archive"
	"github.com/apexdigital/leadgen-platform/internal/auth"
	"github.com/apexdigital/leadgen-platform/internal/blog"
	"github.com/apexdigital/leadgen-platform/internal/dashboard"
	"github.com/apexdigital/leadgen-platform/internal/forms"
	"github.com/apexdigital/leadgen-platform/internal/generate"
	httpmiddleware "github.com/apexdigital/leadgen-platform/internal/http/middleware"
	"github.com/apexdigital/leadgen-platform/internal/leads"
	"github.com/apexdigital/leadgen-platform/internal/livefeed"
	"github.com/apexdigital/leadgen-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger *logging.Logger

	ContactHandler   *forms.Handler
	BlogHandler      *blog.Handler
	LeadsHandler     *leads.Handler
	AuthHandler      *auth.Handler
	DashboardHandler *dashboard.Handler
	ArchiveHandler   *archive.Handler
	GenerateHandler  *generate.Handler
	LiveFeed         *livefeed.Hub

	Authenticator *auth.Authenticator
	RateLimiter   httpmiddleware.LimiterStore

	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// DataSource names the active store, reported by the health check.
	DataSource string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", healthCheck(cfg.DataSource))
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}

		if cfg.ContactHandler != nil {
			contact := public
			if cfg.RateLimiter != nil {
				contact = public.With(httpmiddleware.RateLimit(cfg.RateLimiter))
			}
			contact.Post("/contact", cfg.ContactHandler.SubmitContact)
		}

		if cfg.BlogHandler != nil {
			public.Route("/blog", func(r chi.Router) {
				r.Get("/", cfg.BlogHandler.ListPublished)
				r.Get("/{slug}", cfg.BlogHandler.GetBySlug)
				r.Post("/{slug}/views", cfg.BlogHandler.IncrementViews)
			})
		}

	})

	r.Route("/admin", func(admin chi.Router) {
		// Login is the only admin route reachable without a session.
		if cfg.AuthHandler != nil {
			admin.Post("/login", cfg.AuthHandler.Login)
		}

		admin.Group(func(protected chi.Router) {
			protected.Use(httpmiddleware.AdminAuth(cfg.Authenticator))

			if cfg.AuthHandler != nil {
				protected.Post("/logout", cfg.AuthHandler.Logout)
			}

			if cfg.LeadsHandler != nil {
				protected.Route("/leads", func(r chi.Router) {
					r.Get("/", cfg.LeadsHandler.ListLeads)
					r.Get("/export", cfg.LeadsHandler.ExportCSV)
					if cfg.ArchiveHandler != nil {
						r.Post("/archive", cfg.ArchiveHandler.ArchiveLeads)
					}
					r.Patch("/{id}", cfg.LeadsHandler.UpdateLead)
					r.Delete("/{id}", cfg.LeadsHandler.DeleteLead)
				})
			}

			if cfg.BlogHandler != nil {
				protected.Route("/posts", func(r chi.Router) {
					r.Get("/", cfg.BlogHandler.ListAll)
					r.Post("/", cfg.BlogHandler.CreatePost)
					if cfg.GenerateHandler != nil {
						r.Post("/generate", cfg.GenerateHandler.GenerateDraft)
					}
					r.Patch("/{id}", cfg.BlogHandler.UpdatePost)
					r.Delete("/{id}", cfg.BlogHandler.DeletePost)
				})
			}

			if cfg.DashboardHandler != nil {
				protected.Get("/dashboard", cfg.DashboardHandler.GetStats)
			}

			if cfg.LiveFeed != nil {
				protected.Handle("/feed", cfg.LiveFeed)
			}
		})
	})

	return r
}

func healthCheck(dataSource string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":      "ok",
			"data_source": dataSource,
		})
	}
}
