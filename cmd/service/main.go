// Package main is the entry point for the blog service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/blog-service/internal/adapters/catalog"
	"github.com/jsamuelsen/blog-service/internal/adapters/fragments"
	"github.com/jsamuelsen/blog-service/internal/adapters/http"
	"github.com/jsamuelsen/blog-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/blog-service/internal/adapters/render"
	"github.com/jsamuelsen/blog-service/internal/app"
	"github.com/jsamuelsen/blog-service/internal/platform/config"
	"github.com/jsamuelsen/blog-service/internal/platform/logging"
	"github.com/jsamuelsen/blog-service/internal/platform/telemetry"
	"github.com/jsamuelsen/blog-service/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

// healthCheckTimeout bounds each readiness check.
const healthCheckTimeout = 2 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
		Insecure:     cfg.Telemetry.Insecure,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	blogMetrics, err := telemetry.NewBlogMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("registering blog metrics: %w", err)
	}

	// 5. Load the catalog (fail fast on duplicate slugs or bad records)
	cat, err := catalog.LoadFile(cfg.Blog.CatalogPath)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	logger.Info("catalog loaded",
		slog.String("path", cfg.Blog.CatalogPath),
		slog.Int("entries", cat.Len()),
	)

	// 6. Create the fragment store and register it as a health checker
	store := fragments.NewFileStore(cfg.Blog.ContentDir,
		fragments.WithMetrics(blogMetrics),
		fragments.WithLogger(logger),
	)

	healthRegistry := ports.NewHealthRegistry(ports.WithCheckTimeout(healthCheckTimeout))
	if err := healthRegistry.Register(store); err != nil {
		return fmt.Errorf("registering fragment store health check: %w", err)
	}

	if cfg.Blog.WatchContent {
		go func() {
			if watchErr := store.Watch(ctx); watchErr != nil {
				logger.Error("fragment watcher stopped", slog.Any("error", watchErr))
			}
		}()
	}

	// 7. Create the renderer and blog service (application layer)
	renderer, err := render.New(render.Config{
		EntryURL:  cfg.Blog.EntryURL,
		TeamURL:   cfg.Blog.TeamURL,
		SiteTitle: cfg.Site.Title,
		Nav:       cfg.Site.NavPages(),
	})
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	blogService := app.NewBlogService(app.BlogServiceConfig{
		Catalog:         cat,
		Fragments:       store,
		Renderer:        renderer,
		Logger:          logger,
		Metrics:         blogMetrics,
		IndexPageSize:   cfg.Blog.IndexPageSize,
		FragmentWorkers: cfg.Blog.FragmentWorkers,
		IndexURL:        cfg.Blog.IndexURL,
	})

	// 8. Create handlers
	buildInfo := handlers.NewBuildInfo(Version, Commit, BuildTime)
	healthHandler := handlers.NewHealthHandler(healthRegistry, buildInfo,
		handlers.WithGatherer(prometheus.DefaultGatherer),
		handlers.WithCatalogStats(func() handlers.CatalogStats {
			entries, tags := blogService.CatalogSize()
			return handlers.CatalogStats{Entries: entries, Tags: tags, CachedFragments: store.Cached()}
		}),
	)
	entryHandler := handlers.NewEntryHandler(blogService)
	pageHandler := handlers.NewPageHandler(blogService)

	// 9. Create HTTP server
	server := http.New(&cfg.Server, logger)

	// 10. Setup router with all middleware and routes
	routerCfg := http.NewDefaultRouterConfig(logger, cfg, healthHandler, entryHandler, pageHandler)
	http.SetupRouter(server.Engine(), routerCfg)

	// 11. Start server (non-blocking)
	serverErr, err := server.Start(ctx)
	if err != nil {
		return fmt.Errorf("starting server: %w", err)
	}

	// 12. Wait for shutdown signal
	return waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)
}

// waitForShutdown blocks until a shutdown signal is received or server error occurs.
// It then performs graceful shutdown of the HTTP server.
func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	// Listen for OS signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown",
		slog.Duration("timeout", shutdownTimeout),
	)

	// Stop accepting new requests, drain in-flight
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
