// Package app contains application services that orchestrate use cases.
// Services depend on ports, never on adapters.
package app

import (
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/url"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/blog-service/internal/domain"
	"github.com/jsamuelsen/blog-service/internal/platform/logging"
	"github.com/jsamuelsen/blog-service/internal/platform/telemetry"
	"github.com/jsamuelsen/blog-service/internal/ports"
)

const tracerName = "github.com/jsamuelsen/blog-service/app"

// Defaults for BlogServiceConfig.
const (
	DefaultIndexPageSize   = 5
	DefaultFragmentWorkers = 4
	DefaultBlogNavName     = "Blog"
	DefaultIndexURL        = "/blog"

	// MaxPageSize bounds listing queries.
	MaxPageSize = 100
)

// BlogService answers catalog queries and renders blog pages.
type BlogService struct {
	catalog   *domain.Catalog
	fragments ports.FragmentStore
	renderer  ports.Renderer
	logger    *slog.Logger
	metrics   *telemetry.BlogMetrics
	tracer    trace.Tracer

	indexPageSize int
	workers       int
	navName       string
	indexURL      string
}

// BlogServiceConfig contains the dependencies of the blog service.
// Catalog, Fragments and Renderer are required.
type BlogServiceConfig struct {
	Catalog   *domain.Catalog
	Fragments ports.FragmentStore
	Renderer  ports.Renderer
	Logger    *slog.Logger
	Metrics   *telemetry.BlogMetrics

	// IndexPageSize is the page size used when a query leaves it unset.
	IndexPageSize int

	// FragmentWorkers bounds concurrent fragment reads per page.
	FragmentWorkers int

	// NavName is the navigation item marked active on blog pages.
	NavName string

	// IndexURL is the listing page used for pagination links.
	IndexURL string
}

// NewBlogService creates a blog service. It panics when a required
// dependency is missing.
func NewBlogService(cfg BlogServiceConfig) *BlogService {
	if cfg.Catalog == nil {
		panic("app: BlogServiceConfig.Catalog is required")
	}

	if cfg.Fragments == nil {
		panic("app: BlogServiceConfig.Fragments is required")
	}

	if cfg.Renderer == nil {
		panic("app: BlogServiceConfig.Renderer is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &BlogService{
		catalog:       cfg.Catalog,
		fragments:     cfg.Fragments,
		renderer:      cfg.Renderer,
		logger:        logger.With(slog.String("component", "app.BlogService")),
		metrics:       cfg.Metrics,
		tracer:        otel.Tracer(tracerName),
		indexPageSize: cfg.IndexPageSize,
		workers:       cfg.FragmentWorkers,
		navName:       cfg.NavName,
		indexURL:      cfg.IndexURL,
	}

	if s.indexPageSize <= 0 {
		s.indexPageSize = DefaultIndexPageSize
	}

	if s.workers <= 0 {
		s.workers = DefaultFragmentWorkers
	}

	if s.navName == "" {
		s.navName = DefaultBlogNavName
	}

	if s.indexURL == "" {
		s.indexURL = DefaultIndexURL
	}

	return s
}

// IndexPageSize is the page size applied to queries that leave it unset.
func (s *BlogService) IndexPageSize() int {
	return s.indexPageSize
}

// ListEntries returns one page of the entries matching q.
// A zero PageSize selects the index page size.
func (s *BlogService) ListEntries(ctx context.Context, q domain.PageQuery) (domain.Page, error) {
	q, err := s.normalize(q)
	if err != nil {
		return domain.Page{}, err
	}

	page := s.catalog.FilterPage(q)
	s.metrics.CatalogQuery("list", len(page.Entries))

	logging.FromContext(ctx).DebugContext(ctx, "listed entries",
		slog.Int("page", q.Page),
		slog.Int("page_size", q.PageSize),
		slog.Int("total", page.Total),
		slog.Int("returned", len(page.Entries)),
	)

	return page, nil
}

// GetEntry returns the entry with the given slug.
func (s *BlogService) GetEntry(ctx context.Context, slug string) (domain.Entry, error) {
	s.metrics.CatalogQuery("get", -1)

	entry, ok := s.catalog.FindBySlug(slug)
	if !ok {
		logging.FromContext(ctx).DebugContext(ctx, "entry not found", slog.String("slug", slug))
		return domain.Entry{}, domain.NewNotFoundError("entry", slug)
	}

	return entry, nil
}

// Fragment returns the body of a catalogued entry.
func (s *BlogService) Fragment(ctx context.Context, slug string) (template.HTML, error) {
	if _, err := s.GetEntry(ctx, slug); err != nil {
		return "", err
	}

	html, err := s.fragments.Get(ctx, slug)
	if err != nil {
		return "", fmt.Errorf("loading fragment: %w", err)
	}

	return html, nil
}

// EntryMarkdown returns the body of a catalogued entry as Markdown.
func (s *BlogService) EntryMarkdown(ctx context.Context, slug string) (string, error) {
	if _, err := s.GetEntry(ctx, slug); err != nil {
		return "", err
	}

	out, err := s.fragments.Markdown(ctx, slug)
	if err != nil {
		return "", fmt.Errorf("converting fragment: %w", err)
	}

	return out, nil
}

// Tags lists every tag in the catalog with its entry count.
func (s *BlogService) Tags(_ context.Context) []domain.TagCount {
	s.metrics.CatalogQuery("tags", -1)
	return s.catalog.Tags()
}

// CatalogSize reports the number of entries and distinct tags.
func (s *BlogService) CatalogSize() (entries, tags int) {
	return s.catalog.Len(), len(s.catalog.Tags())
}

// RenderIndex renders the listing page for q. Titles link to the single
// entry page and entries without a fragment render with an empty body.
func (s *BlogService) RenderIndex(ctx context.Context, q domain.PageQuery) (template.HTML, error) {
	ctx, span := s.tracer.Start(ctx, "BlogService.RenderIndex")
	defer span.End()

	page, err := s.ListEntries(ctx, q)
	if err != nil {
		return "", err
	}

	span.SetAttributes(
		attribute.Int("blog.page", page.Page),
		attribute.Int("blog.entries", len(page.Entries)),
	)

	views, err := s.entryViews(ctx, page.Entries, true)
	if err != nil {
		return "", err
	}

	view := ports.PageView{
		Title:   s.navName,
		Current: s.navName,
		Entries: views,
	}

	if page.Page > 0 {
		view.PrevHref = s.indexHref(page, page.Page-1, q.Filter)
	}

	if page.HasMore {
		view.NextHref = s.indexHref(page, page.Page+1, q.Filter)
	}

	return s.renderer.Page(view)
}

// RenderEntries renders the listing for q without the surrounding page.
func (s *BlogService) RenderEntries(ctx context.Context, q domain.PageQuery) (template.HTML, error) {
	page, err := s.ListEntries(ctx, q)
	if err != nil {
		return "", err
	}

	views, err := s.entryViews(ctx, page.Entries, true)
	if err != nil {
		return "", err
	}

	return s.renderer.Entries(views)
}

// RenderEntry renders the single entry page for slug. The title is not linked.
func (s *BlogService) RenderEntry(ctx context.Context, slug string) (template.HTML, error) {
	ctx, span := s.tracer.Start(ctx, "BlogService.RenderEntry", trace.WithAttributes(
		attribute.String("blog.slug", slug),
	))
	defer span.End()

	ctx = logging.WithSlug(ctx, slug)

	entry, err := s.GetEntry(ctx, slug)
	if err != nil {
		return "", err
	}

	views, err := s.entryViews(ctx, []domain.Entry{entry}, false)
	if err != nil {
		return "", err
	}

	return s.renderer.Page(ports.PageView{
		Title:      entry.Title,
		Current:    s.navName,
		LinkToSelf: true,
		Entries:    views,
	})
}

// RenderNavBar renders the navigation bar with current marked active.
func (s *BlogService) RenderNavBar(current string, linkToSelf bool) (template.HTML, error) {
	return s.renderer.NavBar(current, linkToSelf)
}

// MissingFragments reports catalogued entries whose fragment cannot be read,
// keyed by slug.
func (s *BlogService) MissingFragments(ctx context.Context) map[string]error {
	entries := s.catalog.Entries()

	fns := make([]func(context.Context) (template.HTML, error), len(entries))
	for i, e := range entries {
		fns[i] = func(ctx context.Context) (template.HTML, error) {
			return s.fragments.Get(ctx, e.Slug)
		}
	}

	missing := make(map[string]error)

	for i, r := range ParallelPartialLimit(ctx, s.workers, fns...) {
		if r.Err != nil {
			missing[entries[i].Slug] = r.Err
		}
	}

	return missing
}

// entryViews loads fragments for entries concurrently, keeping their order.
func (s *BlogService) entryViews(ctx context.Context, entries []domain.Entry, linkToSingle bool) ([]ports.EntryView, error) {
	logger := logging.FromContext(ctx)

	fns := make([]func(context.Context) (template.HTML, error), len(entries))
	for i, e := range entries {
		fns[i] = func(ctx context.Context) (template.HTML, error) {
			html, err := s.fragments.Get(ctx, e.Slug)
			if domain.IsNotFound(err) {
				logger.WarnContext(ctx, "entry has no fragment", slog.String("slug", e.Slug))
				return "", nil
			}

			return html, err
		}
	}

	fragments, err := ParallelLimit(ctx, s.workers, fns...)
	if err != nil {
		return nil, fmt.Errorf("loading fragments: %w", err)
	}

	views := make([]ports.EntryView, len(entries))
	for i, e := range entries {
		views[i] = ports.EntryView{Entry: e, Fragment: fragments[i], LinkToSingle: linkToSingle}
	}

	return views, nil
}

// normalize applies the default page size and rejects queries the catalog
// would answer with an empty page for reasons other than running out of
// entries.
func (s *BlogService) normalize(q domain.PageQuery) (domain.PageQuery, error) {
	if q.PageSize == 0 {
		q.PageSize = s.indexPageSize
	}

	switch {
	case q.Page < 0:
		return q, domain.NewValidationErrorWithValue("page", "must not be negative", q.Page)
	case q.PageSize < 1 || q.PageSize > MaxPageSize:
		return q, domain.NewValidationErrorWithValue("page_size",
			"must be between 1 and "+strconv.Itoa(MaxPageSize), q.PageSize)
	case !q.Filter.MinDate.IsZero() && !q.Filter.MaxDate.IsZero() && q.Filter.MinDate.After(q.Filter.MaxDate):
		return q, domain.NewValidationError("min_date", "must not be after max_date")
	}

	return q, nil
}

// indexHref links to another page of the same listing.
func (s *BlogService) indexHref(page domain.Page, target int, f domain.Filter) string {
	v := url.Values{}
	v.Set("page", strconv.Itoa(target))

	if page.PageSize != s.indexPageSize {
		v.Set("page_size", strconv.Itoa(page.PageSize))
	}

	if !f.MinDate.IsZero() {
		v.Set("min_date", f.MinDate.Format(domain.DateLayout))
	}

	if !f.MaxDate.IsZero() {
		v.Set("max_date", f.MaxDate.Format(domain.DateLayout))
	}

	if f.Tag != "" {
		v.Set("tag", f.Tag)
	}

	return s.indexURL + "?" + v.Encode()
}
