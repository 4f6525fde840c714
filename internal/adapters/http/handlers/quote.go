package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/agency-leads/internal/adapters/http/dto"
	"github.com/jsamuelsen/agency-leads/internal/app"
	"github.com/jsamuelsen/agency-leads/internal/domain"
)

// QuoteHandler serves quote submission and the agent back-office.
type QuoteHandler struct {
	service *app.QuoteService
	metrics *LeadMetrics
}

// NewQuoteHandler creates a new quote handler. metrics may be nil.
func NewQuoteHandler(service *app.QuoteService, metrics *LeadMetrics) *QuoteHandler {
	return &QuoteHandler{
		service: service,
		metrics: metrics,
	}
}

// quoteTypeParam resolves :type as a quote type ("Health") or product slug ("health").
func quoteTypeParam(c *gin.Context) (domain.QuoteType, error) {
	raw := c.Param("type")

	if t, err := domain.ParseQuoteType(raw); err == nil {
		return t, nil
	}

	schema, err := domain.ProductBySlug(strings.ToLower(raw))
	if err != nil {
		return "", domain.NewValidationErrorWithValue("quoteType", "unknown quote type", raw)
	}

	return schema.Type, nil
}

// Submit handles POST /api/v1/quotes/:type.
// The body is the flat quote object. Responds 201 with the backend's echo.
func (h *QuoteHandler) Submit(c *gin.Context) {
	t, err := quoteTypeParam(c)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	var q domain.Quote
	if err := c.ShouldBindJSON(&q); err != nil {
		dto.AbortWithBindError(c, err)
		return
	}

	form := app.NewQuoteForm(h.service)
	form.OnSuccess = func(*domain.Quote) { h.metrics.Submission(t, nil) }
	form.OnError = func(err error) { h.metrics.Submission(t, err) }

	created, err := form.Submit(c.Request.Context(), t, &q)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// List handles GET /api/v1/agent/quotes/:type?page&pageSize.
// Pagination is echoed in the X-Total-Count, X-Page and X-Page-Size headers.
func (h *QuoteHandler) List(c *gin.Context) {
	t, err := quoteTypeParam(c)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	var q dto.PageQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		dto.AbortWithBindError(c, err)
		return
	}

	page, err := h.service.ListQuotes(c.Request.Context(), t, q.GetPage(), q.GetPageSize())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	dto.WritePageHeaders(c, page)
	c.JSON(http.StatusOK, dto.NewPageResponse(page))
}

// Search handles GET /api/v1/agent/quotes/:type/search?q.
func (h *QuoteHandler) Search(c *gin.Context) {
	t, err := quoteTypeParam(c)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	var q dto.SearchQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		dto.AbortWithBindError(c, err)
		return
	}

	quotes, err := h.service.SearchQuotes(c.Request.Context(), t, q.Q)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if quotes == nil {
		quotes = []*domain.Quote{}
	}

	c.JSON(http.StatusOK, gin.H{"data": quotes})
}

// Stats handles GET /api/v1/agent/quotes/:type/stats.
func (h *QuoteHandler) Stats(c *gin.Context) {
	t, err := quoteTypeParam(c)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	stats, err := h.service.QuoteStats(c.Request.Context(), t)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// AllStats handles GET /api/v1/agent/stats. Types whose stats fail are
// left out; only a total failure is an error.
func (h *QuoteHandler) AllStats(c *gin.Context) {
	stats, err := h.service.StatsForAll(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewStatsResponse(stats))
}

// Get handles GET /api/v1/agent/quotes/:type/:id.
func (h *QuoteHandler) Get(c *gin.Context) {
	t, err := quoteTypeParam(c)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	quote, err := h.service.GetQuote(c.Request.Context(), t, c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, quote)
}

// Update handles PUT /api/v1/agent/quotes/:type/:id.
func (h *QuoteHandler) Update(c *gin.Context) {
	t, err := quoteTypeParam(c)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	var q domain.Quote
	if err := c.ShouldBindJSON(&q); err != nil {
		dto.AbortWithBindError(c, err)
		return
	}

	updated, err := h.service.UpdateQuote(c.Request.Context(), t, c.Param("id"), &q)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete handles DELETE /api/v1/agent/quotes/:type/:id.
func (h *QuoteHandler) Delete(c *gin.Context) {
	t, err := quoteTypeParam(c)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	if err := h.service.DeleteQuote(c.Request.Context(), t, c.Param("id")); err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Export handles GET /api/v1/agent/quotes/:type/export.xlsx.
// The workbook is built in memory so a failure can still be reported as JSON.
func (h *QuoteHandler) Export(c *gin.Context) {
	t, err := quoteTypeParam(c)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := h.service.Export(c.Request.Context(), t, &buf); err != nil {
		dto.HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("%s-quotes-%s.xlsx", strings.ToLower(t.String()), time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, h.service.ExportContentType(), buf.Bytes())
}

// RegisterQuoteRoutes registers the public submission route.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	rg.POST("/quotes/:type", h.Submit)
}

// RegisterAgentRoutes registers the back-office routes. The caller applies
// authentication to rg.
func (h *QuoteHandler) RegisterAgentRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats", h.AllStats)

	quotes := rg.Group("/quotes/:type")
	quotes.GET("", h.List)
	quotes.GET("/search", h.Search)
	quotes.GET("/stats", h.Stats)
	quotes.GET("/export.xlsx", h.Export)
	quotes.GET("/:id", h.Get)
	quotes.PUT("/:id", h.Update)
	quotes.DELETE("/:id", h.Delete)
}
