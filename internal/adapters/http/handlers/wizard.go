package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/agency-leads/internal/adapters/http/dto"
	"github.com/jsamuelsen/agency-leads/internal/app"
	"github.com/jsamuelsen/agency-leads/internal/domain"
)

// WizardHandler exposes the boat wizard as a JSON API.
type WizardHandler struct {
	wizards *app.BoatWizardService
	quotes  app.QuoteSubmitter
	metrics *LeadMetrics
}

// NewWizardHandler creates a wizard handler. metrics may be nil.
func NewWizardHandler(wizards *app.BoatWizardService, quotes app.QuoteSubmitter, metrics *LeadMetrics) *WizardHandler {
	return &WizardHandler{wizards: wizards, quotes: quotes, metrics: metrics}
}

func bindWizardID(c *gin.Context) (string, bool) {
	var p dto.WizardPath
	if err := dto.BindURIAndValidate(c, &p); err != nil {
		dto.AbortWithBindError(c, err)
		return "", false
	}

	return p.ID, true
}

// Create handles POST /api/v1/wizards/boat.
func (h *WizardHandler) Create(c *gin.Context) {
	w, err := h.wizards.Start(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Header("Location", "/api/v1/wizards/boat/"+w.ID)
	c.JSON(http.StatusCreated, dto.NewWizardResponse(w))
}

// Get handles GET /api/v1/wizards/boat/:id.
func (h *WizardHandler) Get(c *gin.Context) {
	id, ok := bindWizardID(c)
	if !ok {
		return
	}

	w, err := h.wizards.Get(c.Request.Context(), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewWizardResponse(w))
}

// Command handles POST /api/v1/wizards/boat/:id/commands.
func (h *WizardHandler) Command(c *gin.Context) {
	id, ok := bindWizardID(c)
	if !ok {
		return
	}

	var cmd domain.WizardCommand
	if err := dto.BindAndValidate(c, &cmd); err != nil {
		dto.AbortWithBindError(c, err)
		return
	}

	w, err := h.wizards.Apply(c.Request.Context(), id, cmd)
	h.metrics.WizardCommand(cmd.Action, cmd.Slot, err)

	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewWizardResponse(w))
}

// Submit handles POST /api/v1/wizards/boat/:id/submit. The body is the
// contact block of the quote.
func (h *WizardHandler) Submit(c *gin.Context) {
	id, ok := bindWizardID(c)
	if !ok {
		return
	}

	var base domain.Quote
	if err := c.ShouldBindJSON(&base); err != nil {
		dto.AbortWithBindError(c, err)
		return
	}

	form := app.NewQuoteForm(h.quotes)
	form.OnSuccess = func(*domain.Quote) { h.metrics.Submission(domain.QuoteTypeBoat, nil) }
	form.OnError = func(err error) { h.metrics.Submission(domain.QuoteTypeBoat, err) }

	created, err := h.wizards.Finalize(c.Request.Context(), id, &base, form)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// RegisterWizardRoutes registers the boat wizard API.
func (h *WizardHandler) RegisterWizardRoutes(rg *gin.RouterGroup) {
	boat := rg.Group("/wizards/boat")
	boat.POST("", h.Create)
	boat.GET("/:id", h.Get)
	boat.POST("/:id/commands", h.Command)
	boat.POST("/:id/submit", h.Submit)
}
