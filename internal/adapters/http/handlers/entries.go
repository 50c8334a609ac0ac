package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/blog-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/blog-service/internal/app"
	"github.com/jsamuelsen/blog-service/internal/domain"
)

// Content types served besides JSON.
const (
	contentTypeHTML     = "text/html; charset=utf-8"
	contentTypeMarkdown = "text/markdown; charset=utf-8"
)

// EntryHandler serves the blog catalog as JSON and raw fragments.
type EntryHandler struct {
	service *app.BlogService
}

// NewEntryHandler creates a new entry handler.
func NewEntryHandler(service *app.BlogService) *EntryHandler {
	return &EntryHandler{
		service: service,
	}
}

// ListEntries handles GET /api/v1/entries
//
// @Summary List blog entries
// @Description Returns one page of entries in catalog order, filtered by date range and tag
// @Tags entries
// @Produce json
// @Param page query int false "Zero-based page index"
// @Param page_size query int false "Entries per page (1-100)"
// @Param min_date query string false "Earliest date, YYYY-MM-DD"
// @Param max_date query string false "Latest date, YYYY-MM-DD"
// @Param tag query string false "Required tag"
// @Success 200 {object} dto.PaginatedResponse[dto.EntryResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/entries [get]
func (h *EntryHandler) ListEntries(c *gin.Context) {
	q, ok := bindEntryList(c)
	if !ok {
		return
	}

	page, err := h.service.ListEntries(c.Request.Context(), q)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResponse(page, dto.ToEntryResponse))
}

// GetEntry handles GET /api/v1/entries/:slug
//
// @Summary Get a blog entry
// @Tags entries
// @Produce json
// @Param slug path string true "Entry slug"
// @Success 200 {object} dto.EntryResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/v1/entries/{slug} [get]
func (h *EntryHandler) GetEntry(c *gin.Context) {
	entry, err := h.service.GetEntry(c.Request.Context(), c.Param("slug"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEntryResponse(entry))
}

// GetFragment handles GET /api/v1/entries/:slug/fragment
// Returns the entry body as stored, without the surrounding entry markup.
func (h *EntryHandler) GetFragment(c *gin.Context) {
	html, err := h.service.Fragment(c.Request.Context(), c.Param("slug"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Data(http.StatusOK, contentTypeHTML, []byte(html))
}

// GetMarkdown handles GET /api/v1/entries/:slug/markdown
func (h *EntryHandler) GetMarkdown(c *gin.Context) {
	out, err := h.service.EntryMarkdown(c.Request.Context(), c.Param("slug"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Data(http.StatusOK, contentTypeMarkdown, []byte(out))
}

// ListTags handles GET /api/v1/tags
//
// @Summary List tags
// @Description Returns every tag with the number of entries carrying it
// @Tags entries
// @Produce json
// @Success 200 {array} dto.TagResponse
// @Router /api/v1/tags [get]
func (h *EntryHandler) ListTags(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToTagResponses(h.service.Tags(c.Request.Context())))
}

// NavBar handles GET /api/v1/nav
// Returns the navigation bar markup with the named page marked active.
func (h *EntryHandler) NavBar(c *gin.Context) {
	var req dto.NavRequest
	if err := dto.BindQuery(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	html, err := h.service.RenderNavBar(req.Page, req.LinkToSelf)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Data(http.StatusOK, contentTypeHTML, []byte(html))
}

// RegisterEntryRoutes registers entry routes on the given router group.
func (h *EntryHandler) RegisterEntryRoutes(rg *gin.RouterGroup) {
	entries := rg.Group("/entries")
	entries.GET("", h.ListEntries)
	entries.GET("/:slug", h.GetEntry)
	entries.GET("/:slug/fragment", h.GetFragment)
	entries.GET("/:slug/markdown", h.GetMarkdown)

	rg.GET("/tags", h.ListTags)
	rg.GET("/nav", h.NavBar)
}

// bindEntryList binds and validates listing parameters. On failure it has
// already written the error response.
func bindEntryList(c *gin.Context) (domain.PageQuery, bool) {
	var req dto.EntryListRequest

	if err := dto.BindQuery(c, &req); err != nil {
		respondBindError(c, err)
		return domain.PageQuery{}, false
	}

	q, err := req.ToPageQuery()
	if err != nil {
		dto.HandleError(c, err)
		return domain.PageQuery{}, false
	}

	return q, true
}

// respondBindError writes a 400 for a binding or validation failure.
func respondBindError(c *gin.Context, err error) {
	if fields := dto.ValidationErrors(err); len(fields) > 0 {
		dto.HandleValidationErrors(c, fields)
		return
	}

	if errors.Is(err, dto.ErrBinding) {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			"malformed query parameters",
		).WithTraceID(dto.GetTraceID(c)))

		return
	}

	dto.HandleError(c, err)
}
