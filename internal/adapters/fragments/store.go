// Package fragments serves entry bodies stored as <slug>.html files in a
// content directory.
package fragments

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	md "github.com/JohannesKaufmann/html-to-markdown"

	"github.com/jsamuelsen/blog-service/internal/domain"
	"github.com/jsamuelsen/blog-service/internal/platform/logging"
	"github.com/jsamuelsen/blog-service/internal/platform/telemetry"
)

const fragmentExt = ".html"

// FileStore reads fragments from disk and caches them in memory.
// It implements ports.FragmentStore and ports.HealthChecker.
type FileStore struct {
	dir       string
	converter *md.Converter
	metrics   *telemetry.BlogMetrics
	logger    *slog.Logger

	mu    sync.RWMutex
	cache map[string]template.HTML

	// gen counts invalidations. A read that started before an invalidation
	// is returned but not cached.
	gen uint64
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithMetrics records cache hits and misses.
func WithMetrics(m *telemetry.BlogMetrics) Option {
	return func(s *FileStore) { s.metrics = m }
}

// WithLogger sets the logger used by the watcher.
func WithLogger(l *slog.Logger) Option {
	return func(s *FileStore) { s.logger = l }
}

// NewFileStore creates a store rooted at dir. The directory is not checked
// until the first read or health check.
func NewFileStore(dir string, opts ...Option) *FileStore {
	s := &FileStore{
		dir:       filepath.Clean(dir),
		converter: md.NewConverter("", true, nil),
		logger:    slog.Default(),
		cache:     make(map[string]template.HTML),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Get returns the fragment for slug. Fragment files are trusted site content
// and are passed through unescaped.
func (s *FileStore) Get(ctx context.Context, slug string) (template.HTML, error) {
	if !domain.IsValidSlug(slug) {
		return "", domain.NewValidationErrorWithValue("slug", "not a valid entry slug", slug)
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.RLock()
	html, ok := s.cache[slug]
	gen := s.gen
	s.mu.RUnlock()

	if ok {
		s.metrics.FragmentLookup(telemetry.ResultHit)
		return html, nil
	}

	data, err := os.ReadFile(s.path(slug))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.metrics.FragmentLookup(telemetry.ResultMissing)
			return "", domain.NewNotFoundError("fragment", slug)
		}

		s.metrics.FragmentLookup(telemetry.ResultError)

		return "", domain.NewUnavailableError("content store", err)
	}

	s.metrics.FragmentLookup(telemetry.ResultMiss)

	html = template.HTML(data) //nolint:gosec // fragments are authored site content

	s.mu.Lock()
	if s.gen == gen {
		s.cache[slug] = html
	}
	s.mu.Unlock()

	logging.FromContext(ctx).Log(ctx, logging.LevelTrace, "fragment cached", slog.String("slug", slug))

	return html, nil
}

// Markdown returns the fragment for slug converted to Markdown.
func (s *FileStore) Markdown(ctx context.Context, slug string) (string, error) {
	html, err := s.Get(ctx, slug)
	if err != nil {
		return "", err
	}

	out, err := s.converter.ConvertString(string(html))
	if err != nil {
		return "", fmt.Errorf("converting fragment %q to markdown: %w", slug, err)
	}

	return out, nil
}

// Invalidate drops slug from the cache.
func (s *FileStore) Invalidate(slug string) {
	s.mu.Lock()
	_, ok := s.cache[slug]
	delete(s.cache, slug)
	s.gen++
	s.mu.Unlock()

	if ok {
		s.metrics.FragmentEvicted()
	}
}

// Cached reports how many fragments are held in memory.
func (s *FileStore) Cached() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.cache)
}

// Name implements ports.HealthChecker.
func (s *FileStore) Name() string {
	return "content-store"
}

// Check implements ports.HealthChecker. The content directory must exist and
// be listable.
func (s *FileStore) Check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(s.dir)
	if err != nil {
		return domain.NewUnavailableError("content store", err)
	}

	if !info.IsDir() {
		return domain.NewUnavailableError("content store", fmt.Errorf("%s is not a directory", s.dir))
	}

	f, err := os.Open(s.dir)
	if err != nil {
		return domain.NewUnavailableError("content store", err)
	}
	defer f.Close()

	if _, err := f.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return domain.NewUnavailableError("content store", err)
	}

	return nil
}

func (s *FileStore) path(slug string) string {
	return filepath.Join(s.dir, slug+fragmentExt)
}

// slugFromPath returns the slug a fragment file belongs to, or false for
// files that are not fragments.
func slugFromPath(path string) (string, bool) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, fragmentExt) {
		return "", false
	}

	slug := strings.TrimSuffix(base, fragmentExt)

	return slug, domain.IsValidSlug(slug)
}
