package handlers

import (
	"context"
	"encoding/json"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/blog-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/blog-service/internal/adapters/render"
	"github.com/jsamuelsen/blog-service/internal/app"
	"github.com/jsamuelsen/blog-service/internal/domain"
	"github.com/jsamuelsen/blog-service/internal/mocks"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()

	d, err := domain.ParseDate(s)
	require.NoError(t, err)

	return d
}

// setupBlogService creates a BlogService over a three entry catalog and a
// mock fragment store.
func setupBlogService(t *testing.T, setupMock func(*mocks.MockFragmentStore)) *app.BlogService {
	t.Helper()

	store := mocks.NewMockFragmentStore(t)
	if setupMock != nil {
		setupMock(store)
	}

	catalog, err := domain.NewCatalog([]domain.Entry{
		{Title: "First Post", Author: "Geoff", Date: date(t, "2016-12-26"), Tags: []string{"blog"}, Slug: "first-post"},
		{Title: "Rover Field Test", Author: "Priya", Date: date(t, "2017-02-14"), Tags: []string{"robotics"}, Slug: "rover-field-test"},
		{Title: "Regionals Recap", Author: "Geoff", Date: date(t, "2017-03-20"), Tags: []string{"blog", "competition"}, Slug: "regionals-recap"},
	})
	require.NoError(t, err)

	renderer, err := render.New(render.Config{EntryURL: "/blog/entry", TeamURL: "team.html", SiteTitle: "Robotics"})
	require.NoError(t, err)

	return app.NewBlogService(app.BlogServiceConfig{
		Catalog:       catalog,
		Fragments:     store,
		Renderer:      renderer,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		IndexPageSize: 2,
	})
}

// anyFragment answers every fragment lookup with a paragraph naming the slug.
func anyFragment(store *mocks.MockFragmentStore) {
	store.EXPECT().Get(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, slug string) (template.HTML, error) {
			return template.HTML("<p>body of " + slug + "</p>"), nil
		}).Maybe()
}

func entryEngine(svc *app.BlogService) *gin.Engine {
	engine := gin.New()
	NewEntryHandler(svc).RegisterEntryRoutes(engine.Group("/api/v1"))
	NewPageHandler(svc).RegisterPageRoutes(engine.Group("/blog"))

	return engine
}

func get(engine *gin.Engine, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))

	return w
}

func TestNewEntryHandler(t *testing.T) {
	require.NotNil(t, NewEntryHandler(setupBlogService(t, nil)))
}

func TestEntryHandler_ListEntries(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		wantSlugs []string
		wantMore  bool
		wantTotal int
	}{
		{
			name:      "first page uses index size",
			target:    "/api/v1/entries",
			wantSlugs: []string{"first-post", "rover-field-test"},
			wantMore:  true,
			wantTotal: 3,
		},
		{
			name:      "second page",
			target:    "/api/v1/entries?page=1",
			wantSlugs: []string{"regionals-recap"},
			wantTotal: 3,
		},
		{
			name:      "tag filter",
			target:    "/api/v1/entries?tag=blog&page_size=10",
			wantSlugs: []string{"first-post", "regionals-recap"},
			wantTotal: 2,
		},
		{
			name:      "date range",
			target:    "/api/v1/entries?min_date=2017-01-01&max_date=2017-02-14",
			wantSlugs: []string{"rover-field-test"},
			wantTotal: 1,
		},
		{
			name:      "past the end",
			target:    "/api/v1/entries?page=9",
			wantSlugs: []string{},
			wantTotal: 3,
		},
		{
			name:      "largest page index",
			target:    "/api/v1/entries?page=9223372036854775807",
			wantSlugs: []string{},
			wantTotal: 3,
		},
	}

	engine := entryEngine(setupBlogService(t, nil))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(engine, tt.target)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			var resp dto.PaginatedResponse[dto.EntryResponse]
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

			slugs := make([]string, 0, len(resp.Items))
			for _, e := range resp.Items {
				slugs = append(slugs, e.Slug)
			}

			assert.Equal(t, tt.wantSlugs, slugs)
			assert.Equal(t, tt.wantMore, resp.HasMore)
			assert.Equal(t, tt.wantTotal, resp.Total)
			assert.Equal(t, tt.wantMore, resp.NextPage != nil)
		})
	}
}

func TestEntryHandler_ListEntriesInvalid(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		wantCode  string
		wantField string
	}{
		{name: "negative page", target: "/api/v1/entries?page=-1", wantCode: dto.ErrorCodeValidation, wantField: "page"},
		{name: "page size too large", target: "/api/v1/entries?page_size=1000", wantCode: dto.ErrorCodeValidation, wantField: "page_size"},
		{name: "bad date", target: "/api/v1/entries?min_date=tomorrow", wantCode: dto.ErrorCodeValidation, wantField: "min_date"},
		{name: "inverted range", target: "/api/v1/entries?min_date=2017-02-01&max_date=2017-01-01", wantCode: dto.ErrorCodeValidation, wantField: "min_date"},
		{name: "not a number", target: "/api/v1/entries?page=first", wantCode: dto.ErrorCodeBadRequest},
	}

	engine := entryEngine(setupBlogService(t, nil))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(engine, tt.target)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Error.Code)

			if tt.wantField != "" {
				assert.Contains(t, resp.Error.Details, tt.wantField)
			}
		})
	}
}

func TestEntryHandler_GetEntry(t *testing.T) {
	engine := entryEngine(setupBlogService(t, nil))

	w := get(engine, "/api/v1/entries/regionals-recap")
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.EntryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.EntryResponse{
		Slug:   "regionals-recap",
		Title:  "Regionals Recap",
		Author: "Geoff",
		Date:   "2017-03-20",
		Tags:   []string{"blog", "competition"},
	}, resp)

	w = get(engine, "/api/v1/entries/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrorCodeNotFound)
}

func TestEntryHandler_GetFragment(t *testing.T) {
	svc := setupBlogService(t, func(store *mocks.MockFragmentStore) {
		store.EXPECT().Get(mock.Anything, "first-post").Return("<p>Hello, world.</p>", nil)
		store.EXPECT().Get(mock.Anything, "rover-field-test").
			Return("", domain.NewNotFoundError("fragment", "rover-field-test"))
		store.EXPECT().Get(mock.Anything, "regionals-recap").
			Return("", domain.NewUnavailableError("content store", fs.ErrPermission))
	})
	engine := entryEngine(svc)

	w := get(engine, "/api/v1/entries/first-post/fragment")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<p>Hello, world.</p>", w.Body.String())
	assert.Equal(t, contentTypeHTML, w.Header().Get("Content-Type"))

	assert.Equal(t, http.StatusNotFound, get(engine, "/api/v1/entries/rover-field-test/fragment").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(engine, "/api/v1/entries/regionals-recap/fragment").Code)
	assert.Equal(t, http.StatusNotFound, get(engine, "/api/v1/entries/unknown/fragment").Code)
}

func TestEntryHandler_GetMarkdown(t *testing.T) {
	svc := setupBlogService(t, func(store *mocks.MockFragmentStore) {
		store.EXPECT().Markdown(mock.Anything, "first-post").Return("Hello, **world**.", nil)
	})

	w := get(entryEngine(svc), "/api/v1/entries/first-post/markdown")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Hello, **world**.", w.Body.String())
	assert.Equal(t, contentTypeMarkdown, w.Header().Get("Content-Type"))
}

func TestEntryHandler_ListTags(t *testing.T) {
	w := get(entryEngine(setupBlogService(t, nil)), "/api/v1/tags")
	require.Equal(t, http.StatusOK, w.Code)

	var resp []dto.TagResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp, dto.TagResponse{Tag: "blog", Count: 2})
	assert.Contains(t, resp, dto.TagResponse{Tag: "robotics", Count: 1})
}

func TestEntryHandler_NavBar(t *testing.T) {
	engine := entryEngine(setupBlogService(t, nil))

	tests := []struct {
		name    string
		target  string
		want    []string
		notWant []string
	}{
		{
			name:    "current page links to anchor",
			target:  "/api/v1/nav?page=Media",
			want:    []string{`<li class="active"><a href="#">Media</a></li>`, `<li><a href="blog.html">Blog</a></li>`},
			notWant: []string{`href="media.html"`},
		},
		{
			name:   "link to self",
			target: "/api/v1/nav?page=Media&link_to_self=true",
			want:   []string{`<li class="active"><a href="media.html">Media</a></li>`},
		},
		{
			name:    "no current page",
			target:  "/api/v1/nav",
			want:    []string{`<ul class="nav masthead-nav">`},
			notWant: []string{`class="active"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(engine, tt.target)
			require.Equal(t, http.StatusOK, w.Code)

			for _, s := range tt.want {
				assert.Contains(t, w.Body.String(), s)
			}

			for _, s := range tt.notWant {
				assert.NotContains(t, w.Body.String(), s)
			}
		})
	}
}
