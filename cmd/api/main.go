package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/apexdigital/leadgen-platform/cmd/mainconfig"
	"github.com/apexdigital/leadgen-platform/internal/api/router"
	"github.com/apexdigital/leadgen-platform/internal/archive"
	"github.com/apexdigital/leadgen-platform/internal/auth"
	"github.com/apexdigital/leadgen-platform/internal/backend"
	"github.com/apexdigital/leadgen-platform/internal/blog"
	appconfig "github.com/apexdigital/leadgen-platform/internal/config"
	"github.com/apexdigital/leadgen-platform/internal/dashboard"
	"github.com/apexdigital/leadgen-platform/internal/demo"
	"github.com/apexdigital/leadgen-platform/internal/forms"
	"github.com/apexdigital/leadgen-platform/internal/generate"
	httpmiddleware "github.com/apexdigital/leadgen-platform/internal/http/middleware"
	"github.com/apexdigital/leadgen-platform/internal/leads"
	"github.com/apexdigital/leadgen-platform/internal/livefeed"
	"github.com/apexdigital/leadgen-platform/internal/notify"
	"github.com/apexdigital/leadgen-platform/internal/observability/metrics"
	"github.com/apexdigital/leadgen-platform/pkg/logging"
)

func main() {
	// Load .env in development; ignored when absent.
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting leadgen-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	appMetrics := metrics.New(nil)

	// Pick the data source: Postgres, then the hosted backend, then the
	// embedded demo dataset. The site always comes up.
	var (
		leadRepo   leads.Repository
		postRepo   blog.Repository
		aggregator dashboard.Aggregator
		dataSource string
	)
	switch {
	case cfg.DatabaseURL != "":
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		leadRepo = leads.NewPostgresRepository(pool)
		postRepo = blog.NewPostgresRepository(pool)

		sqlDB, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to open sql handle", "error", err)
			os.Exit(1)
		}
		defer sqlDB.Close()
		aggregator = dashboard.NewSQLAggregator(sqlDB)
		dataSource = "postgres"

	case backend.Config{BaseURL: cfg.BackendBaseURL, Token: cfg.BackendToken}.Configured():
		client, err := backend.NewClient(backend.Config{
			BaseURL: cfg.BackendBaseURL,
			Token:   cfg.BackendToken,
		}, backend.WithLogger(logger), backend.WithMetrics(appMetrics))
		if err != nil {
			logger.Error("hosted backend rejected", "error", err)
			os.Exit(1)
		}
		leadRepo = leads.NewBackendRepository(client)
		postRepo = blog.NewBackendRepository(client)
		aggregator = dashboard.NewRepoAggregator(leadRepo, postRepo)
		dataSource = "backend"

	default:
		if cfg.BackendBaseURL != "" || cfg.BackendToken != "" {
			err := backend.Config{BaseURL: cfg.BackendBaseURL, Token: cfg.BackendToken}.Validate()
			logger.Error("hosted backend misconfigured, serving demo dataset", "error", err)
		}
		store, err := demo.NewStore()
		if err != nil {
			logger.Error("failed to load demo dataset", "error", err)
			os.Exit(1)
		}
		leadRepo = store.LeadStore()
		postRepo = store.PostStore()
		aggregator = dashboard.NewRepoAggregator(leadRepo, postRepo)
		dataSource = "demo"
	}
	logger.Info("data source selected", "source", dataSource)

	// Admin session gate.
	var authenticator *auth.Authenticator
	if cfg.AdminJWTSecret != "" && cfg.AdminUsers != "" {
		var err error
		authenticator, err = auth.NewAuthenticator(strings.Split(cfg.AdminUsers, ","), cfg.AdminJWTSecret, cfg.AdminSessionTTL)
		if err != nil {
			logger.Error("invalid admin credentials configuration", "error", err)
			os.Exit(1)
		}
	} else {
		logger.Info("admin dashboard disabled: ADMIN_JWT_SECRET or ADMIN_USERS not set")
	}

	// AWS-backed extras: SES email and S3 snapshots.
	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		logger.Error("failed to load AWS config", "error", err)
		os.Exit(1)
	}

	var emailSender notify.EmailSender
	switch {
	case (cfg.EmailProvider == "sendgrid" || cfg.EmailProvider == "auto") && cfg.SendGridAPIKey != "":
		emailSender = notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
	case (cfg.EmailProvider == "ses" || cfg.EmailProvider == "auto") && cfg.SESFromEmail != "":
		emailSender = notify.NewSESSender(sesv2.NewFromConfig(awsCfg), notify.SESConfig{
			FromEmail: cfg.SESFromEmail,
			FromName:  cfg.SESFromName,
		}, logger)
	default:
		emailSender = notify.NewStubEmailSender(logger)
	}
	notifier := notify.NewService(emailSender, cfg.NotifyRecipients, logger)

	var archiveHandler *archive.Handler
	if cfg.ArchiveBucket != "" {
		archiver := archive.NewArchiver(archive.ArchiverConfig{
			S3:     s3.NewFromConfig(awsCfg),
			Bucket: cfg.ArchiveBucket,
			Logger: logger,
		})
		archiveHandler = archive.NewHandler(leadRepo, archiver, logger)
	}

	// Rate limiter: shared via Redis when available, process-local
	// otherwise.
	var limiter httpmiddleware.LimiterStore
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		limiter = httpmiddleware.NewRedisLimiter(redis.NewClient(opts), cfg.RateLimitBurst)
	} else {
		limiter = httpmiddleware.NewMemoryLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	generator, err := generate.NewGenerator(ctx, cfg.GenAIAPIKey, cfg.GenAIModelID)
	if err != nil {
		logger.Error("failed to initialize content generator", "error", err)
		os.Exit(1)
	}

	feed := livefeed.NewHub(logger)

	contactHandler := forms.NewHandler(
		leadRepo,
		forms.NewClient(cfg.FormEndpointURL, cfg.FormSource, forms.WithLogger(logger)),
		forms.FallbackContact{Email: cfg.FallbackContactEmail, Phone: cfg.FallbackContactPhone},
		forms.WithNotifier(leadFanout{notifier: notifier, feed: feed}),
		forms.WithMetrics(appMetrics),
		forms.WithHandlerLogger(logger),
	)

	routerCfg := &router.Config{
		Logger:             logger,
		ContactHandler:     contactHandler,
		BlogHandler:        blog.NewHandler(postRepo, logger, blog.WithMetrics(appMetrics)),
		LeadsHandler:       leads.NewHandler(leadRepo, logger),
		AuthHandler:        auth.NewHandler(authenticator, cfg.AdminSessionTTL, logger),
		DashboardHandler:   dashboard.NewHandler(aggregator, logger),
		ArchiveHandler:     archiveHandler,
		GenerateHandler:    generate.NewHandler(generator, logger),
		LiveFeed:           feed,
		Authenticator:      authenticator,
		RateLimiter:        limiter,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		DataSource:         dataSource,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// leadFanout forwards a captured lead to the email alert and the
// dashboard live feed.
type leadFanout struct {
	notifier *notify.Service
	feed     *livefeed.Hub
}

func (f leadFanout) NotifyNewLead(ctx context.Context, lead *leads.Lead) error {
	f.feed.LeadCreated(lead)
	return f.notifier.NotifyNewLead(ctx, lead)
}
