package dto

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/agency-leads/internal/domain"
)

// DefaultPageSize is the number of quotes per page when none is requested.
const DefaultPageSize = 20

// MaxPageSize caps the requested page size.
const MaxPageSize = 100

// Pagination response headers mirrored from the quote backend.
const (
	HeaderTotalCount = "X-Total-Count"
	HeaderPage       = "X-Page"
	HeaderPageSize   = "X-Page-Size"
)

// PageQuery holds page-number pagination parameters from the query string.
type PageQuery struct {
	Page     int `form:"page" validate:"omitempty,gte=1"`
	PageSize int `form:"pageSize" validate:"omitempty,gte=1,lte=100"`
}

// GetPage returns the 1-based page with defaults applied.
func (p *PageQuery) GetPage() int {
	if p.Page <= 0 {
		return 1
	}

	return p.Page
}

// GetPageSize returns the page size clamped to [1, MaxPageSize].
func (p *PageQuery) GetPageSize() int {
	if p.PageSize <= 0 {
		return DefaultPageSize
	}

	return min(p.PageSize, MaxPageSize)
}

// PageResponse is the JSON body for a page of quotes.
type PageResponse struct {
	Data       []*domain.Quote `json:"data"`
	TotalCount int             `json:"totalCount"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	HasMore    bool            `json:"hasMore"`
}

// NewPageResponse converts a domain page, never returning a nil data slice.
func NewPageResponse(p *domain.QuotePage) *PageResponse {
	data := p.Data
	if data == nil {
		data = []*domain.Quote{}
	}

	return &PageResponse{
		Data:       data,
		TotalCount: p.TotalCount,
		Page:       p.Page,
		PageSize:   p.PageSize,
		HasMore:    p.HasMore(),
	}
}

// WritePageHeaders sets the pagination headers so callers relying on the
// backend's header contract keep working through the proxy.
func WritePageHeaders(c *gin.Context, p *domain.QuotePage) {
	c.Header(HeaderTotalCount, strconv.Itoa(p.TotalCount))
	c.Header(HeaderPage, strconv.Itoa(p.Page))
	c.Header(HeaderPageSize, strconv.Itoa(p.PageSize))
}
