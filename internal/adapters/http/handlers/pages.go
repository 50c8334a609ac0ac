package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/blog-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/blog-service/internal/app"
)

// EntryQueryParam names the query parameter selecting a single entry.
const EntryQueryParam = "entry"

// PageHandler serves the rendered blog pages.
type PageHandler struct {
	service *app.BlogService
}

// NewPageHandler creates a new page handler.
func NewPageHandler(service *app.BlogService) *PageHandler {
	return &PageHandler{
		service: service,
	}
}

// Index handles GET /blog
// Renders one page of the listing. Accepts the same query parameters as
// GET /api/v1/entries.
func (h *PageHandler) Index(c *gin.Context) {
	q, ok := bindEntryList(c)
	if !ok {
		return
	}

	html, err := h.service.RenderIndex(c.Request.Context(), q)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Data(http.StatusOK, contentTypeHTML, []byte(html))
}

// Entries handles GET /blog/entries
// Renders the same page of entries as Index without the surrounding
// document, for embedding into an existing page.
func (h *PageHandler) Entries(c *gin.Context) {
	q, ok := bindEntryList(c)
	if !ok {
		return
	}

	html, err := h.service.RenderEntries(c.Request.Context(), q)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Data(http.StatusOK, contentTypeHTML, []byte(html))
}

// Entry handles GET /blog/entry?entry=<slug>
func (h *PageHandler) Entry(c *gin.Context) {
	slug := c.Query(EntryQueryParam)
	if slug == "" {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			"entry query parameter is required",
		).WithTraceID(dto.GetTraceID(c)))

		return
	}

	html, err := h.service.RenderEntry(c.Request.Context(), slug)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Data(http.StatusOK, contentTypeHTML, []byte(html))
}

// RegisterPageRoutes registers the HTML pages on the given router group.
func (h *PageHandler) RegisterPageRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Index)
	rg.GET("/entries", h.Entries)
	rg.GET("/entry", h.Entry)
}
