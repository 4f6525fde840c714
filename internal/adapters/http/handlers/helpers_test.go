package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/agency-leads/internal/adapters/blog"
	"github.com/jsamuelsen/agency-leads/internal/adapters/cache"
	"github.com/jsamuelsen/agency-leads/internal/adapters/http/dto"
	"github.com/jsamuelsen/agency-leads/internal/app"
	"github.com/jsamuelsen/agency-leads/internal/domain"
	"github.com/jsamuelsen/agency-leads/internal/mocks"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// sampleValue returns a raw form value that satisfies f's rules.
func sampleValue(f domain.FieldSpec) string {
	switch {
	case f.Kind == domain.KindSelect:
		return f.Options[0]
	case f.Kind == domain.KindEmail:
		return "ada@example.com"
	case f.Kind == domain.KindTel:
		return "555-123-4567"
	case f.Kind == domain.KindDate:
		return "1990-01-01"
	case f.Kind == domain.KindCheckbox:
		return "on"
	case f.Kind == domain.KindNumber && strings.Contains(f.Rules, "len=4"):
		return "2020"
	case f.Kind == domain.KindNumber:
		return "12"
	case f.Name == "firstName":
		return "Ada"
	case f.Name == "lastName":
		return "Lovelace"
	default:
		return "Sample"
	}
}

// requiredValues fills every required field of fields plus consent.
func requiredValues(fields []domain.FieldSpec) map[string]string {
	values := map[string]string{domain.ConsentField: "on"}

	for _, f := range fields {
		if f.Required() {
			values[f.InputName()] = sampleValue(f)
		}
	}

	return values
}

func validQuote(t *testing.T, qt domain.QuoteType) *domain.Quote {
	t.Helper()

	schema, err := domain.ProductByType(qt)
	require.NoError(t, err)

	return schema.NewQuote(requiredValues(schema.AllFields()))
}

func quoteJSON(t *testing.T, q *domain.Quote) *bytes.Reader {
	t.Helper()

	body, err := json.Marshal(q)
	require.NoError(t, err)

	return bytes.NewReader(body)
}

func formBody(values map[string]string) io.Reader {
	form := url.Values{}
	for k, v := range values {
		form.Set(k, v)
	}

	return strings.NewReader(form.Encode())
}

// echoCreate makes CreateQuote return a copy of its input with an id.
func echoCreate(_ context.Context, _ domain.QuoteType, q *domain.Quote) (*domain.Quote, error) {
	created := *q
	created.ID = "q-1"
	created.QuoteNumber = "Q-0001"

	return &created, nil
}

func newTestQuoteService(t *testing.T, exporter *mocks.MockQuoteExporter) (*app.QuoteService, *mocks.MockQuoteClient) {
	t.Helper()

	client := mocks.NewMockQuoteClient(t)

	cfg := app.QuoteServiceConfig{QuoteClient: client, Logger: discardLogger()}
	if exporter != nil {
		cfg.Exporter = exporter
	}

	return app.NewQuoteService(cfg), client
}

func newTestMetrics() *LeadMetrics {
	return NewLeadMetrics(prometheus.NewRegistry())
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	return resp
}

// newTestWizards runs the boat wizard on an in-memory badger store.
func newTestWizards(t *testing.T, quotes app.QuoteSubmitter) *app.BoatWizardService {
	t.Helper()

	store, err := cache.New(cache.Config{InMemory: true, Logger: discardLogger()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	return app.NewBoatWizardService(app.BoatWizardConfig{
		Cache:  store,
		Quotes: quotes,
		Logger: discardLogger(),
	})
}

func newTestBlog(t *testing.T) *app.BlogService {
	t.Helper()

	posts, err := blog.NewStatic()
	require.NoError(t, err)

	return app.NewBlogService(posts)
}

// slotData is a complete save payload for slot.
func slotData(slot domain.SlotKind) map[string]any {
	out := map[string]any{}
	for _, f := range slot.SubForm().Fields {
		if f.Required() {
			out[f.Name] = sampleValue(f)
		}
	}

	return out
}
