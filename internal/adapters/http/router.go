package http

import (
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/blog-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/blog-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/blog-service/internal/platform/config"
	"github.com/jsamuelsen/blog-service/internal/platform/telemetry"
)

// DefaultRequestTimeout is the default deadline for API and page requests.
const DefaultRequestTimeout = 30 * time.Second

// DefaultPagesPath is where the rendered blog pages are mounted.
const DefaultPagesPath = "/blog"

// RouterConfig contains configuration for setting up the router.
type RouterConfig struct {
	// Logger is the structured logger for request logging.
	Logger *slog.Logger

	// AppConfig contains application configuration.
	AppConfig *config.AppConfig

	// HealthHandler handles health check endpoints.
	HealthHandler *handlers.HealthHandler

	// EntryHandler serves the catalog API. Nil skips /api/v1 entry routes.
	EntryHandler *handlers.EntryHandler

	// PageHandler serves rendered pages. Nil skips the page routes.
	PageHandler *handlers.PageHandler

	// PagesPath is the route group for rendered pages.
	PagesPath string

	// Timeout is the request deadline for API and page routes.
	Timeout time.Duration
}

// SetupRouter configures all routes and middleware on the Gin engine.
// Middleware is applied in the following order (first to last), after the
// optional context logger:
//  1. Recovery - catch panics first
//  2. Request ID - generate/extract request ID
//  3. Correlation ID - handle distributed tracing correlation
//  4. OpenTelemetry - otelgin span, then trace ID and HTTP metrics
//  5. Logging - request logging (skips /-/ endpoints)
//  6. Timeout - request deadline on API and page groups
//
// Route groups:
//   - /-/ (internal): health, build and metrics endpoints
//   - /api/v1/: catalog JSON, fragments, tags and nav bar
//   - /blog: rendered index and single entry pages
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	if cfg.Logger != nil {
		engine.Use(middleware.WithLogger(cfg.Logger))
	}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CorrelationID(),
		telemetry.TracingMiddleware(cfg.AppConfig.Name),
		telemetry.Middleware(cfg.AppConfig.Name),
		middleware.Logging(),
	)

	// No timeout for probes
	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	apiV1 := engine.Group("/api/v1")
	if cfg.Timeout > 0 {
		apiV1.Use(middleware.Timeout(cfg.Timeout))
	}

	if cfg.EntryHandler != nil {
		cfg.EntryHandler.RegisterEntryRoutes(apiV1)
	}

	if cfg.PageHandler != nil {
		pagesPath := cfg.PagesPath
		if pagesPath == "" {
			pagesPath = DefaultPagesPath
		}

		pages := engine.Group(pagesPath)
		if cfg.Timeout > 0 {
			pages.Use(middleware.Timeout(cfg.Timeout))
		}

		cfg.PageHandler.RegisterPageRoutes(pages)
	}
}

// NewDefaultRouterConfig creates a RouterConfig serving the blog handlers
// with the configured request timeout.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	cfg *config.Config,
	healthHandler *handlers.HealthHandler,
	entryHandler *handlers.EntryHandler,
	pageHandler *handlers.PageHandler,
) RouterConfig {
	timeout := cfg.Server.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return RouterConfig{
		Logger:        logger,
		AppConfig:     &cfg.App,
		HealthHandler: healthHandler,
		EntryHandler:  entryHandler,
		PageHandler:   pageHandler,
		PagesPath:     pagesPath(cfg.Blog.IndexURL),
		Timeout:       timeout,
	}
}

// pagesPath derives the route group from the configured index URL, which
// may be absolute.
func pagesPath(indexURL string) string {
	u, err := url.Parse(indexURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return DefaultPagesPath
	}

	return strings.TrimSuffix(u.Path, "/")
}
