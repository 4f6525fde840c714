package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/agency-leads/internal/adapters/http/dto"
	"github.com/jsamuelsen/agency-leads/internal/app"
	"github.com/jsamuelsen/agency-leads/internal/domain"
)

// BlogHandler serves the article catalog as JSON.
type BlogHandler struct {
	service *app.BlogService
}

// NewBlogHandler creates a blog handler.
func NewBlogHandler(service *app.BlogService) *BlogHandler {
	return &BlogHandler{service: service}
}

// List handles GET /api/v1/blog?category&tag.
func (h *BlogHandler) List(c *gin.Context) {
	var filter domain.BlogFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		dto.AbortWithBindError(c, err)
		return
	}

	posts, err := h.service.ListPosts(c.Request.Context(), filter)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": posts})
}

// Get handles GET /api/v1/blog/:slug.
func (h *BlogHandler) Get(c *gin.Context) {
	post, err := h.service.GetPost(c.Request.Context(), c.Param("slug"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// RegisterBlogRoutes registers the JSON blog routes.
func (h *BlogHandler) RegisterBlogRoutes(rg *gin.RouterGroup) {
	rg.GET("/blog", h.List)
	rg.GET("/blog/:slug", h.Get)
}
