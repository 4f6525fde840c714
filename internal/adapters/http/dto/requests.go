package dto

import (
	"github.com/jsamuelsen/agency-leads/internal/domain"
)

// SearchQuery is the query string for agent quote search.
type SearchQuery struct {
	Q string `form:"q" validate:"required,notempty,max=200"`
}

// WizardPath binds the wizard session id from the route.
type WizardPath struct {
	ID string `uri:"id" validate:"required,ulid"`
}

// WizardResponse is the JSON view of a boat wizard session.
type WizardResponse struct {
	*domain.BoatWizard

	CanSubmit    bool              `json:"canSubmit"`
	MissingSteps []domain.SlotKind `json:"missingSteps"`
}

// NewWizardResponse decorates the session with its derived submit gate.
func NewWizardResponse(w *domain.BoatWizard) *WizardResponse {
	missing := w.MissingSteps()
	if missing == nil {
		missing = []domain.SlotKind{}
	}

	return &WizardResponse{
		BoatWizard:   w,
		CanSubmit:    w.CanSubmit(),
		MissingSteps: missing,
	}
}

// StatsResponse lists per-product totals for the agent dashboard.
type StatsResponse struct {
	Stats []*domain.QuoteStats `json:"stats"`
	Total int                  `json:"total"`
}

// NewStatsResponse sums the per-product totals.
func NewStatsResponse(stats []*domain.QuoteStats) *StatsResponse {
	resp := &StatsResponse{Stats: stats}
	for _, s := range stats {
		resp.Total += s.Total
	}

	return resp
}
