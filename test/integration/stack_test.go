//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/agency-leads/internal/adapters/blog"
	"github.com/jsamuelsen/agency-leads/internal/adapters/cache"
	"github.com/jsamuelsen/agency-leads/internal/adapters/clients"
	"github.com/jsamuelsen/agency-leads/internal/adapters/clients/acl"
	"github.com/jsamuelsen/agency-leads/internal/adapters/contacts"
	"github.com/jsamuelsen/agency-leads/internal/adapters/export"
	"github.com/jsamuelsen/agency-leads/internal/adapters/flags"
	httpadapter "github.com/jsamuelsen/agency-leads/internal/adapters/http"
	"github.com/jsamuelsen/agency-leads/internal/adapters/http/handlers"
	"github.com/jsamuelsen/agency-leads/internal/adapters/http/views"
	"github.com/jsamuelsen/agency-leads/internal/app"
	"github.com/jsamuelsen/agency-leads/internal/domain"
	"github.com/jsamuelsen/agency-leads/internal/platform/config"
	"github.com/jsamuelsen/agency-leads/internal/ports"
)

const (
	agentID   = "agent-7"
	agentRole = "agent"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeBackend is an in-memory quote-management API: one collection per
// quote type, paginated through the X-Total-Count family of headers.
type fakeBackend struct {
	mu      sync.Mutex
	records map[string][]map[string]any
	nextID  int

	// failures makes the next n requests answer 503.
	failures atomic.Int32
	requests atomic.Int32
}

func newFakeBackend(t *testing.T) (*fakeBackend, *httptest.Server) {
	t.Helper()

	b := &fakeBackend{records: map[string][]map[string]any{}}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /{type}", b.create)
	mux.HandleFunc("GET /{type}", b.list)
	mux.HandleFunc("GET /{type}/search", b.search)
	mux.HandleFunc("GET /{type}/stats", b.stats)
	mux.HandleFunc("GET /{type}/{id}", b.get)
	mux.HandleFunc("PUT /{type}/{id}", b.update)
	mux.HandleFunc("DELETE /{type}/{id}", b.remove)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.requests.Add(1)

		if b.failures.Load() > 0 {
			b.failures.Add(-1)
			w.WriteHeader(http.StatusServiceUnavailable)

			return
		}

		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	return b, srv
}

func (b *fakeBackend) seed(t domain.QuoteType, n int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range n {
		b.nextID++
		b.records[t.String()] = append(b.records[t.String()], map[string]any{
			"id":          strconv.Itoa(b.nextID),
			"quoteNumber": fmt.Sprintf("Q-%04d", b.nextID),
			"firstName":   fmt.Sprintf("Seed%d", i),
			"lastName":    "Customer",
			"email":       fmt.Sprintf("seed%d@example.com", i),
			"phoneNumber": "555-0100",
		})
	}
}

// stored returns a copy of a collection.
func (b *fakeBackend) stored(t domain.QuoteType) []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()

	return slices.Clone(b.records[t.String()])
}

func (b *fakeBackend) create(w http.ResponseWriter, r *http.Request) {
	var rec map[string]any
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeBackendJSON(w, http.StatusBadRequest, map[string]any{"error": "bad json"})
		return
	}

	b.mu.Lock()
	b.nextID++
	rec["id"] = strconv.Itoa(b.nextID)
	rec["quoteNumber"] = fmt.Sprintf("Q-%04d", b.nextID)
	typ := r.PathValue("type")
	b.records[typ] = append(b.records[typ], rec)
	b.mu.Unlock()

	writeBackendJSON(w, http.StatusCreated, rec)
}

func (b *fakeBackend) list(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	all := b.stored(domain.QuoteType(r.PathValue("type")))

	start := min((page-1)*size, len(all))
	end := min(start+size, len(all))

	w.Header().Set("X-Total-Count", strconv.Itoa(len(all)))
	w.Header().Set("X-Page", strconv.Itoa(page))
	w.Header().Set("X-Page-Size", strconv.Itoa(size))
	writeBackendJSON(w, http.StatusOK, all[start:end])
}

func (b *fakeBackend) search(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(r.URL.Query().Get("q"))

	out := []map[string]any{}
	for _, rec := range b.stored(domain.QuoteType(r.PathValue("type"))) {
		name := strings.ToLower(fmt.Sprint(rec["firstName"], " ", rec["lastName"], " ", rec["email"]))
		if strings.Contains(name, q) {
			out = append(out, rec)
		}
	}

	writeBackendJSON(w, http.StatusOK, out)
}

func (b *fakeBackend) stats(w http.ResponseWriter, r *http.Request) {
	all := b.stored(domain.QuoteType(r.PathValue("type")))
	writeBackendJSON(w, http.StatusOK, map[string]any{
		"total":     len(all),
		"breakdown": map[string]int{"new": len(all)},
	})
}

func (b *fakeBackend) find(typ, id string) (int, bool) {
	for i, rec := range b.records[typ] {
		if rec["id"] == id {
			return i, true
		}
	}

	return 0, false
}

func (b *fakeBackend) get(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	i, ok := b.find(r.PathValue("type"), r.PathValue("id"))
	var rec map[string]any
	if ok {
		rec = b.records[r.PathValue("type")][i]
	}
	b.mu.Unlock()

	if !ok {
		writeBackendJSON(w, http.StatusNotFound, map[string]any{"error": "Not found"})
		return
	}

	writeBackendJSON(w, http.StatusOK, rec)
}

func (b *fakeBackend) update(w http.ResponseWriter, r *http.Request) {
	var rec map[string]any
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		writeBackendJSON(w, http.StatusBadRequest, map[string]any{"error": "bad json"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	typ, id := r.PathValue("type"), r.PathValue("id")

	i, ok := b.find(typ, id)
	if !ok {
		writeBackendJSON(w, http.StatusNotFound, map[string]any{"error": "Not found"})
		return
	}

	rec["id"] = id
	b.records[typ][i] = rec
	writeBackendJSON(w, http.StatusOK, rec)
}

func (b *fakeBackend) remove(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	typ := r.PathValue("type")

	i, ok := b.find(typ, r.PathValue("id"))
	if !ok {
		writeBackendJSON(w, http.StatusNotFound, map[string]any{"error": "Not found"})
		return
	}

	b.records[typ] = slices.Delete(b.records[typ], i, i+1)
	w.WriteHeader(http.StatusNoContent)
}

func writeBackendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// stackOptions tweaks the service assembled by newStack.
type stackOptions struct {
	SessionsDir   string
	ContactsPath  string
	WatchContacts bool
	Features      map[string]any
}

// stack is the whole service wired as in cmd/service, in front of a
// fakeBackend.
type stack struct {
	backend  *fakeBackend
	server   *httptest.Server
	client   *http.Client
	sessions *cache.Badger
	contacts *contacts.FileStore
	flags    *flags.Config
}

func newStack(t *testing.T, opts stackOptions) *stack {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	backend, backendSrv := newFakeBackend(t)

	httpClient, err := clients.New(&clients.Config{
		BaseURL:     backendSrv.URL,
		ServiceName: "quote-api",
		Timeout:     5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     50 * time.Millisecond,
			Multiplier:      2.0,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       time.Second,
			HalfOpenLimit: 1,
		},
		Logger: logger,
	})
	require.NoError(t, err)

	quoteClient := acl.NewQuoteClient(acl.QuoteClientConfig{Client: httpClient, Logger: logger})

	sessions, err := cache.New(cache.Config{
		InMemory: opts.SessionsDir == "",
		Dir:      opts.SessionsDir,
		Logger:   logger,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sessions.Close() })

	contactsPath := opts.ContactsPath
	if contactsPath == "" {
		contactsPath = filepath.Join(t.TempDir(), "contacts.json")
		writeContacts(t, contactsPath, `[{"id":"1","name":"Ada Lovelace","email":"ada@example.com"}]`)
	}

	contactStore := contacts.NewFileStore(contactsPath, logger)
	if opts.WatchContacts {
		require.NoError(t, contactStore.Watch(t.Context()))
		t.Cleanup(func() { _ = contactStore.Close() })
	}

	posts, err := blog.NewStatic()
	require.NoError(t, err)

	featureFlags, err := flags.New(opts.Features)
	require.NoError(t, err)

	registry := ports.NewHealthRegistry()
	for _, checker := range []ports.HealthChecker{quoteClient, sessions, ports.NonCritical(contactStore)} {
		require.NoError(t, registry.Register(checker))
	}

	quotes := app.NewQuoteService(app.QuoteServiceConfig{
		QuoteClient: quoteClient,
		Flags:       featureFlags,
		Exporter:    export.NewExcel(),
		Logger:      logger,
	})
	wizards := app.NewBoatWizardService(app.BoatWizardConfig{
		Cache:  sessions,
		Quotes: quotes,
		TTL:    time.Hour,
		Logger: logger,
	})
	blogService := app.NewBlogService(posts)
	metrics := handlers.NewLeadMetrics(prometheus.NewRegistry())

	appCfg := &config.AppConfig{Name: "agency-leads", Version: "test", Environment: "test"}
	authCfg := &config.AuthConfig{Enabled: true, SubjectHeader: "X-User-ID", RolesHeader: "X-User-Roles"}

	routerCfg := httpadapter.NewDefaultRouterConfig(logger, appCfg, authCfg,
		handlers.NewHealthHandler(registry, handlers.NewBuildInfo("test", "abc123", "now")))
	routerCfg.QuoteHandler = handlers.NewQuoteHandler(quotes, metrics)
	routerCfg.WizardHandler = handlers.NewWizardHandler(wizards, quotes, metrics)
	routerCfg.ContactHandler = handlers.NewContactHandler(app.NewContactService(contactStore, logger))
	routerCfg.BlogHandler = handlers.NewBlogHandler(blogService)
	routerCfg.PageHandler = handlers.NewPageHandler(handlers.PageConfig{
		Quotes:  quotes,
		Wizards: wizards,
		Blog:    blogService,
		Flags:   featureFlags,
		Site:    views.Site{Name: "Harbor & Home", Phone: "555-0100", Email: "quotes@example.com"},
		Metrics: metrics,
		Logger:  logger,
	})

	engine := gin.New()
	httpadapter.SetupRouter(engine, routerCfg)

	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &stack{
		backend:  backend,
		server:   srv,
		sessions: sessions,
		contacts: contactStore,
		flags:    featureFlags,
		client: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// do sends a request to the stack. asAgent adds the agent identity headers.
func (s *stack) do(t *testing.T, method, path string, body io.Reader, header http.Header, asAgent bool) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequestWithContext(t.Context(), method, s.server.URL+path, body)
	require.NoError(t, err)

	for k, v := range header {
		req.Header[k] = v
	}

	if asAgent {
		req.Header.Set("X-User-ID", agentID)
		req.Header.Set("X-User-Roles", agentRole)
	}

	resp, err := s.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, raw
}

func (s *stack) postJSON(t *testing.T, path string, v any) (*http.Response, []byte) {
	t.Helper()

	raw, err := json.Marshal(v)
	require.NoError(t, err)

	return s.do(t, http.MethodPost, path, bytes.NewReader(raw),
		http.Header{"Content-Type": {"application/json"}}, false)
}

func (s *stack) postForm(t *testing.T, path string, values map[string]string) (*http.Response, []byte) {
	t.Helper()

	form := url.Values{}
	for k, v := range values {
		form.Set(k, v)
	}

	return s.do(t, http.MethodPost, path, strings.NewReader(form.Encode()),
		http.Header{"Content-Type": {"application/x-www-form-urlencoded"}}, false)
}

func writeContacts(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
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

// formValues fills every required field of a product plus consent.
func formValues(t *testing.T, qt domain.QuoteType) map[string]string {
	t.Helper()

	schema, err := domain.ProductByType(qt)
	require.NoError(t, err)

	values := map[string]string{domain.ConsentField: "on"}
	for _, f := range schema.AllFields() {
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

	return schema.NewQuote(formValues(t, qt))
}

// slotData is a complete save payload for a wizard slot.
func slotData(slot domain.SlotKind) map[string]any {
	out := map[string]any{}
	for _, f := range slot.SubForm().Fields {
		if f.Required() {
			out[f.Name] = sampleValue(f)
		}
	}

	return out
}
