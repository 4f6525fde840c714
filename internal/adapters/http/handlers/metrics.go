package handlers

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jsamuelsen/agency-leads/internal/app"
	"github.com/jsamuelsen/agency-leads/internal/domain"
)

// Outcome labels shared by the lead counters.
const (
	OutcomeSuccess     = "success"
	OutcomeInvalid     = "invalid"
	OutcomeUnavailable = "unavailable"
	OutcomeBusy        = "busy"
	OutcomeNotFound    = "not_found"
	OutcomeError       = "error"
)

// LeadMetrics counts lead-capture activity for /-/metrics.
type LeadMetrics struct {
	submissions    *prometheus.CounterVec
	wizardCommands *prometheus.CounterVec
}

// NewLeadMetrics registers the counters on reg. A nil reg uses the
// default Prometheus registerer.
func NewLeadMetrics(reg prometheus.Registerer) *LeadMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	return &LeadMetrics{
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agency",
			Name:      "quote_submissions_total",
			Help:      "Quote submissions by product type and outcome.",
		}, []string{"type", "outcome"}),
		wizardCommands: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agency",
			Name:      "wizard_commands_total",
			Help:      "Boat wizard commands by action, slot and outcome.",
		}, []string{"action", "slot", "outcome"}),
	}
}

// Submission records one quote submission. Safe on a nil receiver.
func (m *LeadMetrics) Submission(t domain.QuoteType, err error) {
	if m == nil {
		return
	}

	m.submissions.WithLabelValues(t.String(), Outcome(err)).Inc()
}

// WizardCommand records one wizard command. Safe on a nil receiver.
func (m *LeadMetrics) WizardCommand(action domain.WizardAction, slot domain.SlotKind, err error) {
	if m == nil {
		return
	}

	m.wizardCommands.WithLabelValues(string(action), string(slot), Outcome(err)).Inc()
}

// Outcome classifies err into a metric label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, app.ErrSubmissionInProgress):
		return OutcomeBusy
	case domain.IsValidation(err):
		return OutcomeInvalid
	case domain.IsUnavailable(err):
		return OutcomeUnavailable
	case domain.IsNotFound(err):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}
