//go:build integration

package integration

import (
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/blog-service/internal/adapters/catalog"
	"github.com/jsamuelsen/blog-service/internal/adapters/fragments"
	httpadapter "github.com/jsamuelsen/blog-service/internal/adapters/http"
	"github.com/jsamuelsen/blog-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/blog-service/internal/adapters/render"
	"github.com/jsamuelsen/blog-service/internal/app"
	"github.com/jsamuelsen/blog-service/internal/platform/config"
	"github.com/jsamuelsen/blog-service/internal/ports"
)

// testSite is a fully wired blog service behind an httptest server.
type testSite struct {
	server *httptest.Server
	store  *fragments.FileStore
}

// newTestSite wires the service against the catalog and fragments in
// contentRoot the same way cmd/service does.
func newTestSite(contentRoot string) (*testSite, error) {
	gin.SetMode(gin.TestMode)

	cfg, err := config.LoadFrom(filepath.Join(contentRoot, "configs"), "")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cfg.Blog.CatalogPath = filepath.Join(contentRoot, "catalog.yaml")
	cfg.Blog.ContentDir = filepath.Join(contentRoot, "blog-entries")
	cfg.Blog.IndexPageSize = 2

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cat, err := catalog.LoadFile(cfg.Blog.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	store := fragments.NewFileStore(cfg.Blog.ContentDir, fragments.WithLogger(logger))

	registry := ports.NewHealthRegistry()
	if err := registry.Register(store); err != nil {
		return nil, err
	}

	renderer, err := render.New(render.Config{
		EntryURL:  cfg.Blog.EntryURL,
		TeamURL:   cfg.Blog.TeamURL,
		SiteTitle: cfg.Site.Title,
		Nav:       cfg.Site.NavPages(),
	})
	if err != nil {
		return nil, err
	}

	svc := app.NewBlogService(app.BlogServiceConfig{
		Catalog:         cat,
		Fragments:       store,
		Renderer:        renderer,
		Logger:          logger,
		IndexPageSize:   cfg.Blog.IndexPageSize,
		FragmentWorkers: cfg.Blog.FragmentWorkers,
		IndexURL:        cfg.Blog.IndexURL,
	})

	health := handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "abc123", "now"),
		handlers.WithGatherer(prometheus.NewRegistry()),
		handlers.WithCatalogStats(func() handlers.CatalogStats {
			entries, tags := svc.CatalogSize()
			return handlers.CatalogStats{Entries: entries, Tags: tags, CachedFragments: store.Cached()}
		}),
	)

	engine := gin.New()
	httpadapter.SetupRouter(engine, httpadapter.NewDefaultRouterConfig(logger, cfg, health,
		handlers.NewEntryHandler(svc), handlers.NewPageHandler(svc)))

	return &testSite{server: httptest.NewServer(engine), store: store}, nil
}

func (s *testSite) Close() {
	s.server.Close()
}
