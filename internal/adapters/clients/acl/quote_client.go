package acl

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jsamuelsen/agency-leads/internal/adapters/clients"
	"github.com/jsamuelsen/agency-leads/internal/domain"
	"github.com/jsamuelsen/agency-leads/internal/platform/logging"
)

// Pagination headers returned by the list endpoint.
const (
	HeaderTotalCount = "X-Total-Count"
	HeaderPage       = "X-Page"
	HeaderPageSize   = "X-Page-Size"
)

// QuoteClientConfig contains configuration for the quote client.
type QuoteClientConfig struct {
	// Client is the HTTP client to use for requests.
	// The client's BaseURL should be set to the quote API endpoint.
	Client *clients.Client

	// Logger is the structured logger.
	Logger *slog.Logger
}

// QuoteClient implements ports.QuoteClient against the quote-management
// REST backend, where each quote type is its own collection at /{type}.
type QuoteClient struct {
	backend

	logger *slog.Logger
}

// NewQuoteClient panics without a Client. A nil Logger means slog.Default().
func NewQuoteClient(cfg QuoteClientConfig) *QuoteClient {
	if cfg.Client == nil {
		panic("QuoteClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &QuoteClient{
		backend: backend{client: cfg.Client, service: cfg.Client.Name()},
		logger:  logger.With(slog.String("component", "acl.QuoteClient")),
	}
}

// listEnvelope is the wrapped list shape some backend versions return
// instead of a bare array.
type listEnvelope struct {
	Data       []domain.Quote `json:"data"`
	TotalCount *int           `json:"totalCount"`
}

type statsResponse struct {
	Total     int            `json:"total"`
	Breakdown map[string]int `json:"breakdown"`
}

func (c *QuoteClient) CreateQuote(ctx context.Context, t domain.QuoteType, q *domain.Quote) (*domain.Quote, error) {
	create := call{op: "create quote"}

	c.logger.Log(ctx, logging.LevelTrace, "starting request",
		slog.String("operation", create.op), slog.String("type", t.String()))

	resp, err := c.exchange(ctx, create, http.MethodPost, collectionPath(t), q)
	if err != nil {
		return nil, err
	}

	created, err := decode[domain.Quote](resp.Body)

	switch {
	case errors.Is(err, ErrEmptyBody):
		// Some collections answer 201 with no body; echo what was stored.
		echoed := *q
		created = &echoed
	case err != nil:
		return nil, c.garbled(ctx, create, err)
	}

	created.Type = t

	return created, nil
}

// ListQuotes fetches one page of a collection. Pagination comes from the
// X-Total-Count, X-Page and X-Page-Size headers; absent or malformed headers
// fall back to the requested page, the requested size and the number of
// records returned.
func (c *QuoteClient) ListQuotes(ctx context.Context, t domain.QuoteType, page, pageSize int) (*domain.QuotePage, error) {
	list := call{op: "list quotes"}

	if err := cmp.Or(requirePositive("page", page), requirePositive("pageSize", pageSize)); err != nil {
		return nil, c.reject(ctx, list, err)
	}

	query := url.Values{
		"page":     {strconv.Itoa(page)},
		"pageSize": {strconv.Itoa(pageSize)},
	}

	resp, err := c.exchange(ctx, list, http.MethodGet, collectionPath(t)+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}

	raw, err := decode[json.RawMessage](resp.Body)
	if err != nil {
		return nil, c.garbled(ctx, list, err)
	}

	records, bodyTotal, err := decodeList(*raw)
	if err != nil {
		return nil, c.garbled(ctx, list, err)
	}

	data := retype(t, records)

	total := len(data)
	if bodyTotal != nil {
		total = *bodyTotal
	}

	return &domain.QuotePage{
		Data:       data,
		TotalCount: headerInt(resp.Header, HeaderTotalCount, total),
		Page:       headerInt(resp.Header, HeaderPage, page),
		PageSize:   headerInt(resp.Header, HeaderPageSize, pageSize),
	}, nil
}

func (c *QuoteClient) GetQuote(ctx context.Context, t domain.QuoteType, id string) (*domain.Quote, error) {
	get := call{op: "get quote", id: id}

	if err := requireValue("id", id); err != nil {
		return nil, c.reject(ctx, get, err)
	}

	resp, err := c.exchange(ctx, get, http.MethodGet, itemPath(t, id), nil)
	if err != nil {
		return nil, err
	}

	q, err := decode[domain.Quote](resp.Body)
	if err != nil {
		return nil, c.garbled(ctx, get, err)
	}

	q.Type = t

	return q, nil
}

// UpdateQuote replaces a quote wholesale.
func (c *QuoteClient) UpdateQuote(ctx context.Context, t domain.QuoteType, id string, q *domain.Quote) (*domain.Quote, error) {
	update := call{op: "update quote", id: id}

	if err := requireValue("id", id); err != nil {
		return nil, c.reject(ctx, update, err)
	}

	resp, err := c.exchange(ctx, update, http.MethodPut, itemPath(t, id), q)
	if err != nil {
		return nil, err
	}

	updated, err := decode[domain.Quote](resp.Body)
	if err != nil {
		return nil, c.garbled(ctx, update, err)
	}

	updated.Type = t

	return updated, nil
}

func (c *QuoteClient) DeleteQuote(ctx context.Context, t domain.QuoteType, id string) error {
	del := call{op: "delete quote", id: id}

	if err := requireValue("id", id); err != nil {
		return c.reject(ctx, del, err)
	}

	resp, err := c.exchange(ctx, del, http.MethodDelete, itemPath(t, id), nil)
	if err != nil {
		return err
	}

	return resp.Body.Close()
}

// SearchQuotes runs the backend's free-text search over one collection.
func (c *QuoteClient) SearchQuotes(ctx context.Context, t domain.QuoteType, query string) ([]*domain.Quote, error) {
	search := call{op: "search quotes"}

	if err := requireValue("q", query); err != nil {
		return nil, c.reject(ctx, search, err)
	}

	resp, err := c.exchange(ctx, search, http.MethodGet, collectionPath(t)+"/search?"+url.Values{"q": {query}}.Encode(), nil)
	if err != nil {
		return nil, err
	}

	records, err := decode[[]domain.Quote](resp.Body)
	if err != nil {
		return nil, c.garbled(ctx, search, err)
	}

	return retype(t, *records), nil
}

func (c *QuoteClient) GetQuoteStats(ctx context.Context, t domain.QuoteType) (*domain.QuoteStats, error) {
	stats := call{op: "get quote stats"}

	resp, err := c.exchange(ctx, stats, http.MethodGet, collectionPath(t)+"/stats", nil)
	if err != nil {
		return nil, err
	}

	ext, err := decode[statsResponse](resp.Body)
	if err != nil {
		return nil, c.garbled(ctx, stats, err)
	}

	return translateStats(t, ext)
}

// Name implements ports.HealthChecker.
func (c *QuoteClient) Name() string {
	return c.client.Name()
}

// Check implements ports.HealthChecker.
func (c *QuoteClient) Check(ctx context.Context) error {
	return c.client.Check(ctx)
}

func collectionPath(t domain.QuoteType) string {
	return "/" + url.PathEscape(t.String())
}

func itemPath(t domain.QuoteType, id string) string {
	return collectionPath(t) + "/" + url.PathEscape(id)
}

// retype stamps the collection's type onto decoded records. The backend
// leaves it off because the collection already says it.
func retype(t domain.QuoteType, records []domain.Quote) []*domain.Quote {
	out := make([]*domain.Quote, len(records))

	for i := range records {
		q := records[i]
		q.Type = t
		out[i] = &q
	}

	return out
}

func translateStats(t domain.QuoteType, ext *statsResponse) (*domain.QuoteStats, error) {
	if ext.Total < 0 {
		return nil, domain.NewValidationErrorWithValue("total", "must not be negative", ext.Total)
	}

	return &domain.QuoteStats{Type: t, Total: ext.Total, Breakdown: ext.Breakdown}, nil
}

// decodeList accepts either a bare JSON array or a {"data": [...]} envelope.
func decodeList(raw json.RawMessage) ([]domain.Quote, *int, error) {
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, nil, nil
	}

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []domain.Quote
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, nil, fmt.Errorf("decoding quote list: %w", err)
		}

		return records, nil, nil
	}

	var env listEnvelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, nil, fmt.Errorf("decoding quote list: %w", err)
	}

	return env.Data, env.TotalCount, nil
}

func headerInt(h http.Header, key string, fallback int) int {
	v := h.Get(key)
	if v == "" {
		return fallback
	}

	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}

	return n
}
