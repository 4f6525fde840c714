package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/agency-leads/internal/adapters/http/dto"
	"github.com/jsamuelsen/agency-leads/internal/app"
	"github.com/jsamuelsen/agency-leads/internal/domain"
)

// ContactHandler serves stored contact records.
type ContactHandler struct {
	service *app.ContactService
}

// NewContactHandler creates a contact handler.
func NewContactHandler(service *app.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

// Get handles GET /api/contact/:id.
//
// A hit is the stored record verbatim. A miss is 404 with the body
// {"error":"Not found"} rather than the usual error envelope, which existing
// clients of this path depend on.
func (h *ContactHandler) Get(c *gin.Context) {
	contact, err := h.service.GetContact(c.Request.Context(), c.Param("id"))
	if err != nil {
		if domain.IsNotFound(err) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		dto.HandleError(c, err)

		return
	}

	c.JSON(http.StatusOK, contact)
}

// RegisterContactRoutes registers GET /contact/:id on rg.
func (h *ContactHandler) RegisterContactRoutes(rg *gin.RouterGroup) {
	rg.GET("/contact/:id", h.Get)
}
