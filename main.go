package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ekaya-inc/prospect-crm/pkg/audit"
	"github.com/ekaya-inc/prospect-crm/pkg/config"
	"github.com/ekaya-inc/prospect-crm/pkg/database"
	"github.com/ekaya-inc/prospect-crm/pkg/handlers"
	"github.com/ekaya-inc/prospect-crm/pkg/logging"
	"github.com/ekaya-inc/prospect-crm/pkg/metrics"
	"github.com/ekaya-inc/prospect-crm/pkg/middleware"
	"github.com/ekaya-inc/prospect-crm/pkg/pagination"
	"github.com/ekaya-inc/prospect-crm/pkg/repositories"
	"github.com/ekaya-inc/prospect-crm/pkg/services"
	"github.com/ekaya-inc/prospect-crm/pkg/taxonomy"
)

// Version is set at build time via ldflags
var Version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("Server failed", zap.String("error", logging.SanitizeError(err)))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("base_url", cfg.BaseURL),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.Int("default_limit", cfg.Pagination.DefaultLimit),
		zap.Int("max_limit", cfg.Pagination.MaxLimit))

	db, err := database.Open(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	}, cfg.Database.ConnectAttempts, logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	tax := taxonomy.Default()
	if cfg.TaxonomyPath != "" {
		if tax, err = taxonomy.Load(cfg.TaxonomyPath); err != nil {
			return err
		}
		logger.Info("Loaded industry taxonomy", zap.String("path", cfg.TaxonomyPath))
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(registry)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}

	// Repositories
	contactRepo := repositories.NewContactRepository()
	companyRepo := repositories.NewCompanyRepository()
	experienceRepo := repositories.NewExperienceRepository()
	noteRepo := repositories.NewNoteRepository()
	prospectRepo := repositories.NewProspectRepository()
	lookupRepo := repositories.NewLookupRepository()
	statsRepo := repositories.NewStatsRepository()

	// Services
	contactService := services.NewContactService(contactRepo, logger)
	companyService := services.NewCompanyService(companyRepo, contactRepo, logger)
	experienceService := services.NewExperienceService(experienceRepo, contactRepo, companyRepo, nil, logger)
	noteService := services.NewNoteService(noteRepo, contactRepo, logger)
	prospectService := services.NewProspectService(prospectRepo, nil, logger)
	lookupService := services.NewLookupService(lookupRepo, statsRepo, tax, logger)
	repairService := services.NewIndustryRepairService(tax, contactRepo, companyRepo, nil, m, logger)

	if err := syncSectors(ctx, db, lookupService); err != nil {
		logger.Warn("Failed to synchronize sector lookup", zap.String("error", logging.SanitizeError(err)))
	}

	auditor := audit.NewSecurityAuditor(logger, m)
	pageDefaults := pagination.Defaults{Limit: cfg.Pagination.DefaultLimit, MaxLimit: cfg.Pagination.MaxLimit}
	scope := handlers.Middleware(database.WithRequestScope(db, logger))

	mux := http.NewServeMux()

	// Register handlers
	handlers.NewHealthHandler(cfg, db, logger).RegisterRoutes(mux)
	handlers.NewContactHandler(contactService, auditor, pageDefaults, logger).RegisterRoutes(mux, scope)
	handlers.NewExperienceHandler(experienceService, logger).RegisterRoutes(mux, scope)
	handlers.NewNoteHandler(noteService, logger).RegisterRoutes(mux, scope)
	handlers.NewCompanyHandler(companyService, auditor, pageDefaults, logger).RegisterRoutes(mux, scope)
	handlers.NewProspectHandler(prospectService, pageDefaults, logger).RegisterRoutes(mux, scope)
	handlers.NewLookupHandler(lookupService, logger).RegisterRoutes(mux, scope)
	handlers.NewAdminHandler(repairService, auditor, logger).RegisterRoutes(mux, scope)

	if cfg.Metrics.Enabled {
		mux.Handle("GET "+cfg.Metrics.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.BindAddr, cfg.Port),
		Handler:           middleware.RequestLogger(logger)(middleware.Metrics(m)(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting prospect-crm",
			zap.String("addr", srv.Addr),
			zap.String("version", cfg.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("Server stopped")
	return nil
}

// syncSectors adds taxonomy industries missing from the sectors lookup table.
func syncSectors(ctx context.Context, db *database.DB, lookups services.LookupService) error {
	ctx, cleanup, err := db.WithScope(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	return lookups.SyncSectors(ctx)
}
