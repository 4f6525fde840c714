package app

import (
	"context"
	"errors"
	"sync"

	"github.com/jsamuelsen/agency-leads/internal/domain"
)

// ErrSubmissionInProgress is returned when Submit is called while an earlier
// submission of the same form has not finished. It is a domain conflict.
var ErrSubmissionInProgress = domain.NewConflictError("quote", "a submission is already in progress")

// QuoteSubmitter validates and creates quotes. *QuoteService implements it.
type QuoteSubmitter interface {
	Validate(ctx context.Context, t domain.QuoteType, q *domain.Quote) error
	SubmitQuote(ctx context.Context, t domain.QuoteType, q *domain.Quote) (*domain.Quote, error)
}

// FormState is the observable state of a quote form.
type FormState struct {
	Submitting bool   `json:"submitting"`
	Error      string `json:"error,omitempty"`
	Success    bool   `json:"success"`
}

// QuoteForm tracks one form's submission lifecycle.
//
// Submit validates locally first; a quote that fails validation never
// reaches the backend. Reset returns the form to its initial state so the
// user can submit again.
type QuoteForm struct {
	submitter QuoteSubmitter

	// OnSuccess runs after a quote was created.
	OnSuccess func(*domain.Quote)

	// OnError runs after a validation or backend failure.
	OnError func(error)

	mu    sync.Mutex
	state FormState
}

// NewQuoteForm returns a form in its initial state.
func NewQuoteForm(submitter QuoteSubmitter) *QuoteForm {
	return &QuoteForm{submitter: submitter}
}

// State returns a snapshot of the form state.
func (f *QuoteForm) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.state
}

// Submit validates q and submits it as type t. It returns the created quote,
// or nil and the failure. The failure message is kept in State().Error.
func (f *QuoteForm) Submit(ctx context.Context, t domain.QuoteType, q *domain.Quote) (*domain.Quote, error) {
	f.mu.Lock()
	if f.state.Submitting {
		f.mu.Unlock()
		return nil, ErrSubmissionInProgress
	}

	f.state = FormState{Submitting: true}
	f.mu.Unlock()

	if err := f.submitter.Validate(ctx, t, q); err != nil {
		return nil, f.fail(err)
	}

	created, err := f.submitter.SubmitQuote(ctx, t, q)
	if err != nil {
		return nil, f.fail(err)
	}

	f.mu.Lock()
	f.state = FormState{Success: true}
	f.mu.Unlock()

	if f.OnSuccess != nil {
		f.OnSuccess(created)
	}

	return created, nil
}

// Reset clears submitting, error and success.
func (f *QuoteForm) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.state = FormState{}
}

func (f *QuoteForm) fail(err error) error {
	f.mu.Lock()
	f.state = FormState{Error: ErrorMessage(err)}
	f.mu.Unlock()

	if f.OnError != nil {
		f.OnError(err)
	}

	return err
}

// ErrorMessage returns the text shown to a user for err. Step wrappers
// added by the executor are dropped so the banner shows the actual cause.
func ErrorMessage(err error) string {
	var execErr *ExecutionError
	for errors.As(err, &execErr) && execErr.Cause != nil {
		err = execErr.Cause
	}

	switch {
	case errors.Is(err, ErrSubmissionInProgress):
		return "Your quote is already being submitted."
	case domain.IsValidation(err):
		return "Please correct the highlighted fields and try again."
	case domain.IsUnavailable(err):
		return "We couldn't submit your quote right now. Please try again in a moment."
	default:
		return err.Error()
	}
}
