package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	reqctx "github.com/jsamuelsen/agency-leads/internal/app/context"
	"github.com/jsamuelsen/agency-leads/internal/domain"
	"github.com/jsamuelsen/agency-leads/internal/platform/logging"
	"github.com/jsamuelsen/agency-leads/internal/ports"
)

// DefaultWizardTTL is how long an untouched boat wizard draft is kept.
const DefaultWizardTTL = 2 * time.Hour

const wizardKeyPrefix = "wizard:boat:"

// BoatWizardConfig configures the boat wizard service.
type BoatWizardConfig struct {
	Cache  ports.Cache
	Quotes QuoteSubmitter

	// TTL defaults to DefaultWizardTTL. Every save renews it.
	TTL time.Duration

	Logger *slog.Logger

	// Now and NewID default to time.Now and a fresh ULID.
	Now   func() time.Time
	NewID func() string
}

// BoatWizardService runs the multi-step boat quote. Drafts are stored in the
// cache between requests, keyed by a ULID session id.
type BoatWizardService struct {
	cache  ports.Cache
	quotes QuoteSubmitter
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
	newID  func() string

	inflight sync.Map
}

// NewBoatWizardService creates the service. Panics if Cache or Quotes is nil.
func NewBoatWizardService(cfg BoatWizardConfig) *BoatWizardService {
	if cfg.Cache == nil {
		panic("BoatWizardService: Cache is required")
	}

	if cfg.Quotes == nil {
		panic("BoatWizardService: Quotes is required")
	}

	s := &BoatWizardService{
		cache:  cfg.Cache,
		quotes: cfg.Quotes,
		ttl:    cfg.TTL,
		logger: cfg.Logger,
		now:    cfg.Now,
		newID:  cfg.NewID,
	}

	if s.ttl <= 0 {
		s.ttl = DefaultWizardTTL
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.logger = s.logger.With(slog.String("component", "app.BoatWizardService"))

	if s.now == nil {
		s.now = time.Now
	}

	if s.newID == nil {
		s.newID = func() string { return ulid.Make().String() }
	}

	return s
}

func (s *BoatWizardService) log(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, s.logger)
}

// Start creates and stores an empty wizard.
func (s *BoatWizardService) Start(ctx context.Context) (*domain.BoatWizard, error) {
	w := domain.NewBoatWizard(s.newID(), s.now().UTC())

	if err := s.save(ctx, w); err != nil {
		return nil, err
	}

	s.log(ctx).DebugContext(ctx, "boat wizard started", slog.String("wizard_id", w.ID))

	return w, nil
}

// Get loads a wizard. Unknown, expired and malformed ids are not found.
func (s *BoatWizardService) Get(ctx context.Context, id string) (*domain.BoatWizard, error) {
	snap, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	return snap.wizard, nil
}

// Apply runs one command against a stored wizard and saves the result.
// Save data is normalized and validated against the slot's sub-form first.
func (s *BoatWizardService) Apply(ctx context.Context, id string, cmd domain.WizardCommand) (*domain.BoatWizard, error) {
	slot, err := domain.ParseSlotKind(string(cmd.Slot))
	if err != nil {
		return nil, err
	}

	w, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if cmd.Action == domain.ActionSave {
		form := slot.SubForm()
		cmd.Data = NormalizeRecord(form.Fields, cmd.Data)

		if err := ValidateRecord(form, cmd.Data); err != nil {
			return nil, err
		}
	}

	if err := w.Apply(cmd); err != nil {
		return nil, err
	}

	w.UpdatedAt = s.now().UTC()

	if err := s.save(ctx, w); err != nil {
		return nil, err
	}

	s.log(ctx).DebugContext(ctx, "boat wizard updated",
		slog.String("wizard_id", id),
		slog.String("action", string(cmd.Action)),
		slog.String("slot", string(slot)),
		slog.Int("index", cmd.Index),
	)

	return w, nil
}

// Finalize assembles the Boat quote from the wizard and base (the contact
// block) and submits it through form. The draft is consumed before the
// submit and restored if the submit fails, so the user can retry.
// A second Finalize of the same wizard while one is running returns
// ErrSubmissionInProgress.
func (s *BoatWizardService) Finalize(
	ctx context.Context, id string, base *domain.Quote, form *QuoteForm,
) (*domain.Quote, error) {
	ctx = logging.WithWizardID(ctx, id)

	if _, busy := s.inflight.LoadOrStore(id, struct{}{}); busy {
		return nil, ErrSubmissionInProgress
	}
	defer s.inflight.Delete(id)

	if form == nil {
		form = NewQuoteForm(s.quotes)
	}

	rc := reqctx.New(ctx)
	ctx = reqctx.WithContext(ctx, rc)

	snap, err := reqctx.Fetch[*draftSnapshot](rc, draftProvider{svc: s, id: id})
	if err != nil {
		return nil, err
	}

	q, err := snap.wizard.Assemble(base)
	if err != nil {
		return nil, err
	}

	submit := &submitAction{form: form, quote: q}

	if err := rc.AddAction(&consumeDraftAction{svc: s, id: id, raw: snap.raw}); err != nil {
		return nil, err
	}

	if err := rc.AddAction(submit); err != nil {
		return nil, err
	}

	if err := rc.Commit(ctx); err != nil {
		s.log(ctx).WarnContext(ctx, "boat quote submission failed", slog.String("error", err.Error()))

		return nil, err
	}

	s.log(ctx).InfoContext(ctx, "boat wizard finalized",
		slog.Int("watercraft", len(q.Watercraft)),
		slog.Int("operators", len(q.Operators)),
	)

	return submit.created, nil
}

// Discard deletes a draft. Deleting an unknown id is not an error.
func (s *BoatWizardService) Discard(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, wizardKeyPrefix+id)
}

type draftSnapshot struct {
	wizard *domain.BoatWizard
	raw    []byte
}

func (s *BoatWizardService) load(ctx context.Context, id string) (*draftSnapshot, error) {
	if _, err := ulid.ParseStrict(id); err != nil {
		return nil, domain.NewNotFoundError("boat wizard", id)
	}

	raw, err := s.cache.Get(ctx, wizardKeyPrefix+id)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewNotFoundError("boat wizard", id)
		}

		return nil, fmt.Errorf("loading boat wizard: %w", err)
	}

	var w domain.BoatWizard
	if err := json.Unmarshal(raw, &w); err != nil {
		s.log(ctx).WarnContext(ctx, "discarding unreadable boat wizard draft",
			slog.String("wizard_id", id), slog.String("error", err.Error()))

		return nil, domain.NewNotFoundError("boat wizard", id)
	}

	return &draftSnapshot{wizard: &w, raw: raw}, nil
}

func (s *BoatWizardService) save(ctx context.Context, w *domain.BoatWizard) error {
	raw, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encoding boat wizard: %w", err)
	}

	if err := s.cache.Set(ctx, wizardKeyPrefix+w.ID, raw, s.ttl); err != nil {
		return fmt.Errorf("saving boat wizard: %w", err)
	}

	return nil
}

// draftProvider loads a wizard draft once per request context.
type draftProvider struct {
	svc *BoatWizardService
	id  string
}

func (p draftProvider) Key() string { return wizardKeyPrefix + p.id }

func (p draftProvider) Fetch(ctx context.Context) (any, error) {
	return p.svc.load(ctx, p.id)
}

// consumeDraftAction removes the draft; rollback writes it back unchanged.
type consumeDraftAction struct {
	svc *BoatWizardService
	id  string
	raw []byte
}

func (a *consumeDraftAction) Execute(ctx context.Context) error {
	return a.svc.cache.Delete(ctx, wizardKeyPrefix+a.id)
}

func (a *consumeDraftAction) Rollback(ctx context.Context) error {
	return a.svc.cache.Set(ctx, wizardKeyPrefix+a.id, a.raw, a.svc.ttl)
}

func (a *consumeDraftAction) Description() string { return "consume boat wizard draft" }

// submitAction sends the assembled quote. A created quote cannot be undone.
type submitAction struct {
	form    *QuoteForm
	quote   *domain.Quote
	created *domain.Quote
}

func (a *submitAction) Execute(ctx context.Context) error {
	created, err := a.form.Submit(ctx, domain.QuoteTypeBoat, a.quote)
	if err != nil {
		return err
	}

	a.created = created

	return nil
}

func (a *submitAction) Rollback(context.Context) error { return nil }

func (a *submitAction) Description() string { return "submit boat quote" }
