// Package app holds the lead-capture use cases: submitting a quote, driving
// the boat wizard, the agent back-office tools, contact lookup and the blog.
// Services talk to the outside world only through ports, so handlers and
// tests can swap any adapter.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/jsamuelsen/agency-leads/internal/domain"
	"github.com/jsamuelsen/agency-leads/internal/platform/logging"
	"github.com/jsamuelsen/agency-leads/internal/ports"
)

const (
	defaultStatsConcurrency = 4
	defaultExportPageSize   = 100

	// maxExportQuotes bounds how many quotes one export will page through,
	// whatever total the backend claims.
	maxExportQuotes = 50_000
)

// QuoteService is every quote use case: visitor submissions and the agent
// tools layered over the same backend.
type QuoteService struct {
	quoteClient ports.QuoteClient
	flags       ports.FeatureFlags
	exporter    ports.QuoteExporter
	executor    *Executor
	logger      *slog.Logger
}

// QuoteServiceConfig wires a QuoteService to the quote backend and its
// optional flags and workbook exporter.
type QuoteServiceConfig struct {
	QuoteClient ports.QuoteClient

	// Flags is optional; without it every flag takes its default.
	Flags ports.FeatureFlags

	// Exporter is optional; Export fails without it.
	Exporter ports.QuoteExporter

	Logger *slog.Logger
}

// NewQuoteService panics without a QuoteClient.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.QuoteClient == nil {
		panic("QuoteService: QuoteClient is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(slog.String("component", "app.QuoteService"))

	return &QuoteService{
		quoteClient: cfg.QuoteClient,
		flags:       cfg.Flags,
		exporter:    cfg.Exporter,
		executor:    NewExecutor(logger),
		logger:      logger,
	}
}

func (s *QuoteService) loggerFrom(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, s.logger)
}

func (s *QuoteService) flagEnabled(ctx context.Context, flag string, def bool) bool {
	if s.flags == nil {
		return def
	}

	return s.flags.IsEnabled(ctx, flag, def)
}

func (s *QuoteService) flagInt(ctx context.Context, flag string, def int) int {
	if s.flags == nil {
		return def
	}

	if v := s.flags.GetInt(ctx, flag, def); v > 0 {
		return v
	}

	return def
}

// ConsentRequired reports whether quotes of schema must carry consent.
// Consent is always required unless the strict flag is off and the product
// pre-checks the consent box.
func (s *QuoteService) ConsentRequired(ctx context.Context, schema *domain.ProductSchema) bool {
	return s.flagEnabled(ctx, ports.FlagConsentStrict, true) || !schema.ConsentDefault
}

// Validate checks q against its product schema without contacting the backend.
func (s *QuoteService) Validate(ctx context.Context, t domain.QuoteType, q *domain.Quote) error {
	schema, err := domain.ProductByType(t)
	if err != nil {
		return domain.NewValidationErrorWithValue("quoteType", "unknown quote type", t)
	}

	return ValidateQuote(schema, q, s.ConsentRequired(ctx, schema))
}

// SubmitQuote validates q and creates it in the backend. The create is sent
// once; a failure is returned for the user to resubmit.
func (s *QuoteService) SubmitQuote(ctx context.Context, t domain.QuoteType, q *domain.Quote) (*domain.Quote, error) {
	ctx = logging.WithQuoteType(ctx, t.String())

	op := Operation[*domain.Quote, *domain.Quote, *domain.Quote, *domain.Quote]{
		Name: "submit " + t.String() + " quote",
		Validate: func(ctx context.Context, q *domain.Quote) error {
			return s.Validate(ctx, t, q)
		},
		Perform: func(ctx context.Context, q *domain.Quote) (*domain.Quote, error) {
			prepared := *q
			prepared.Type = t

			if prepared.CoverageDesired == "" {
				if schema, err := domain.ProductByType(t); err == nil {
					prepared.CoverageDesired = schema.CoverageDesired
				}
			}

			return s.quoteClient.CreateQuote(ctx, t, &prepared)
		},
		Verify: func(ctx context.Context, submitted, created *domain.Quote) (*domain.Quote, error) {
			if created == nil {
				return nil, domain.NewUnavailableError("quote-api", "create returned no quote")
			}

			if created.Email != "" && created.Email != submitted.Email {
				s.loggerFrom(ctx).WarnContext(ctx, "backend echoed a different contact",
					slog.String("quote_id", created.ID))
			}

			return created, nil
		},
		Respond: func(_ context.Context, _ *domain.Quote, created *domain.Quote) (*domain.Quote, error) {
			return created, nil
		},
	}

	created, err := Execute(ctx, s.executor, op, q)
	if err != nil {
		return nil, err
	}

	s.loggerFrom(ctx).InfoContext(ctx, "quote submitted",
		slog.String("quote_id", created.ID),
		slog.String("quote_number", created.QuoteNumber),
	)

	return created, nil
}

// ListQuotes returns one page of a collection.
func (s *QuoteService) ListQuotes(ctx context.Context, t domain.QuoteType, page, pageSize int) (*domain.QuotePage, error) {
	result, err := s.quoteClient.ListQuotes(ctx, t, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("listing %s quotes: %w", t, err)
	}

	return result, nil
}

// GetQuote returns one quote.
func (s *QuoteService) GetQuote(ctx context.Context, t domain.QuoteType, id string) (*domain.Quote, error) {
	q, err := s.quoteClient.GetQuote(ctx, t, id)
	if err != nil {
		return nil, fmt.Errorf("getting %s quote: %w", t, err)
	}

	return q, nil
}

// UpdateQuote validates and replaces a quote. Agents may edit quotes
// without consent, since the lead already gave it on submission.
func (s *QuoteService) UpdateQuote(ctx context.Context, t domain.QuoteType, id string, q *domain.Quote) (*domain.Quote, error) {
	schema, err := domain.ProductByType(t)
	if err != nil {
		return nil, domain.NewValidationErrorWithValue("quoteType", "unknown quote type", t)
	}

	if err := ValidateQuote(schema, q, false); err != nil {
		return nil, err
	}

	q.Type = t
	q.ID = id

	updated, err := s.quoteClient.UpdateQuote(ctx, t, id, q)
	if err != nil {
		return nil, fmt.Errorf("updating %s quote: %w", t, err)
	}

	s.loggerFrom(ctx).InfoContext(ctx, "quote updated",
		slog.String("quote_type", t.String()), slog.String("quote_id", id))

	return updated, nil
}

// DeleteQuote removes a quote.
func (s *QuoteService) DeleteQuote(ctx context.Context, t domain.QuoteType, id string) error {
	if err := s.quoteClient.DeleteQuote(ctx, t, id); err != nil {
		return fmt.Errorf("deleting %s quote: %w", t, err)
	}

	s.loggerFrom(ctx).InfoContext(ctx, "quote deleted",
		slog.String("quote_type", t.String()), slog.String("quote_id", id))

	return nil
}

// SearchQuotes runs a free-text search within one collection.
func (s *QuoteService) SearchQuotes(ctx context.Context, t domain.QuoteType, query string) ([]*domain.Quote, error) {
	results, err := s.quoteClient.SearchQuotes(ctx, t, query)
	if err != nil {
		return nil, fmt.Errorf("searching %s quotes: %w", t, err)
	}

	return results, nil
}

// QuoteStats returns the statistics of one collection.
func (s *QuoteService) QuoteStats(ctx context.Context, t domain.QuoteType) (*domain.QuoteStats, error) {
	stats, err := s.quoteClient.GetQuoteStats(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("getting %s stats: %w", t, err)
	}

	return stats, nil
}

// StatsForAll fetches the statistics of every quote type, at most
// FlagStatsConcurrency at a time. A type whose stats fail is logged and left
// out; an error is returned only when every type failed.
func (s *QuoteService) StatsForAll(ctx context.Context) ([]*domain.QuoteStats, error) {
	types := domain.QuoteTypes()

	limit := s.flagInt(ctx, ports.FlagStatsConcurrency, defaultStatsConcurrency)
	results := fanOutSettled(ctx, limit, types, s.QuoteStats)

	stats := make([]*domain.QuoteStats, 0, len(results))
	errs := make([]error, 0)

	for _, r := range results {
		if r.Err != nil {
			s.loggerFrom(ctx).WarnContext(ctx, "stats unavailable",
				slog.String(logging.KeyQuoteType, r.Item.String()), slog.String("error", r.Err.Error()))

			errs = append(errs, r.Err)

			continue
		}

		stats = append(stats, r.Value)
	}

	if len(stats) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return stats, nil
}

// CollectAll gathers every quote of a collection. The first page reveals
// the total and the page size the backend actually serves, which may be
// smaller than the one asked for; the remaining pages are fetched
// concurrently at that size.
func (s *QuoteService) CollectAll(ctx context.Context, t domain.QuoteType) ([]*domain.Quote, error) {
	pageSize := s.flagInt(ctx, ports.FlagExportPageSize, defaultExportPageSize)

	first, err := s.ListQuotes(ctx, t, 1, pageSize)
	if err != nil {
		return nil, err
	}

	if first.PageSize > 0 {
		pageSize = first.PageSize
	}

	total := min(first.TotalCount, maxExportQuotes)
	if total <= len(first.Data) || pageSize <= 0 {
		return first.Data, nil
	}

	if first.TotalCount > total {
		s.loggerFrom(ctx).WarnContext(ctx, "export truncated",
			slog.String("quote_type", t.String()),
			slog.Int("total", first.TotalCount),
			slog.Int("limit", maxExportQuotes))
	}

	pages := (total + pageSize - 1) / pageSize

	remaining := make([]int, 0, pages-1)
	for page := 2; page <= pages; page++ {
		remaining = append(remaining, page)
	}

	limit := s.flagInt(ctx, ports.FlagStatsConcurrency, defaultStatsConcurrency)

	rest, err := fanOut(ctx, limit, remaining, func(ctx context.Context, page int) (*domain.QuotePage, error) {
		return s.ListQuotes(ctx, t, page, pageSize)
	})
	if err != nil {
		return nil, fmt.Errorf("collecting %s quotes: %w", t, err)
	}

	all := make([]*domain.Quote, 0, total)
	all = append(all, first.Data...)

	for _, p := range rest {
		all = append(all, p.Data...)
	}

	if len(all) > total {
		all = all[:total]
	}

	return all, nil
}

// ExportContentType is the MIME type Export writes, or "" without an exporter.
func (s *QuoteService) ExportContentType() string {
	if s.exporter == nil {
		return ""
	}

	return s.exporter.ContentType()
}

// Export writes every quote of t to w through the configured exporter.
func (s *QuoteService) Export(ctx context.Context, t domain.QuoteType, w io.Writer) error {
	if s.exporter == nil {
		return domain.NewUnavailableError("exporter", "no exporter configured")
	}

	schema, err := domain.ProductByType(t)
	if err != nil {
		return err
	}

	quotes, err := s.CollectAll(ctx, t)
	if err != nil {
		return err
	}

	if err := s.exporter.Export(ctx, schema, quotes, w); err != nil {
		return fmt.Errorf("exporting %s quotes: %w", t, err)
	}

	s.loggerFrom(ctx).InfoContext(ctx, "quotes exported",
		slog.String("quote_type", t.String()), slog.Int("count", len(quotes)))

	return nil
}
