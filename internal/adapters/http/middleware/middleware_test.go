package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/agency-leads/internal/adapters/http/dto"
	"github.com/jsamuelsen/agency-leads/internal/platform/config"
	"github.com/jsamuelsen/agency-leads/internal/platform/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// withLogger installs a JSON logger writing to buf on every request.
func withLogger(buf *bytes.Buffer) gin.HandlerFunc {
	return ContextLogger(slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
}

func decodeLogLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()

	var lines []map[string]any
	for line := range bytes.SplitSeq(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}

		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		lines = append(lines, entry)
	}

	return lines
}

func TestIDMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		middleware gin.HandlerFunc
		header     string
		fromGin    func(*gin.Context) string
		fromCtx    func(*gin.Context) string
		parse      func(string) error
	}{
		{
			name:       "request id",
			middleware: RequestID(),
			header:     HeaderRequestID,
			fromGin:    GetRequestID,
			fromCtx:    func(c *gin.Context) string { return RequestIDFromContext(c.Request.Context()) },
			parse:      func(s string) error { _, err := ulid.ParseStrict(s); return err },
		},
		{
			name:       "correlation id",
			middleware: CorrelationID(),
			header:     HeaderCorrelationID,
			fromGin:    GetCorrelationID,
			fromCtx:    func(c *gin.Context) string { return CorrelationIDFromContext(c.Request.Context()) },
			parse:      func(s string) error { _, err := uuid.Parse(s); return err },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name+" passes through the inbound header", func(t *testing.T) {
			var ginID, ctxID string

			router := gin.New()
			router.Use(tt.middleware)
			router.GET("/", func(c *gin.Context) {
				ginID, ctxID = tt.fromGin(c), tt.fromCtx(c)
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(tt.header, "lead-123")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, "lead-123", ginID)
			assert.Equal(t, "lead-123", ctxID)
			assert.Equal(t, "lead-123", w.Header().Get(tt.header))
		})

		for _, inbound := range []string{"", "lead\n123", strings.Repeat("x", maxInboundID+1)} {
			t.Run(tt.name+" mints an id for "+strconv.Quote(inbound), func(t *testing.T) {
				var ginID string

				router := gin.New()
				router.Use(tt.middleware)
				router.GET("/", func(c *gin.Context) {
					ginID = tt.fromGin(c)
					c.Status(http.StatusNoContent)
				})

				req := httptest.NewRequest(http.MethodGet, "/", nil)
				if inbound != "" {
					req.Header[http.CanonicalHeaderKey(tt.header)] = []string{inbound}
				}

				w := httptest.NewRecorder()
				router.ServeHTTP(w, req)

				require.NoError(t, tt.parse(ginID))
				assert.Equal(t, ginID, w.Header().Get(tt.header))
			})
		}
	}
}

func TestMustGetIDs_Unknown(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Equal(t, "unknown", MustGetRequestID(c))
	assert.Equal(t, "unknown", MustGetCorrelationID(c))

	c.Set(ContextKeyRequestID, 42)
	assert.Empty(t, GetRequestID(c), "non-string values are ignored")
}

func TestValidInboundID(t *testing.T) {
	tests := map[string]bool{
		"01J9ZQ4YB6N3X8M2K7R5T0V1W3":           true,
		"550e8400-e29b-41d4-a716-446655440000": true,
		"gw:trace_1.2":                         true,
		"":                                     false,
		"has space":                            false,
		"quote\r\ninjected":                    false,
		strings.Repeat("a", maxInboundID):      true,
		strings.Repeat("a", maxInboundID+1):    false,
	}

	for id, want := range tests {
		assert.Equal(t, want, validInboundID(id), "%q", id)
	}
}

func TestContextIDs_OutsideGin(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))
	assert.Empty(t, CorrelationIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(nil)) //nolint:staticcheck // nil guard

	ctx = ContextWithRequestID(ctx, "export-job-1")
	ctx = ContextWithCorrelationID(ctx, "nightly-export")

	assert.Equal(t, "export-job-1", RequestIDFromContext(ctx))
	assert.Equal(t, "nightly-export", CorrelationIDFromContext(ctx))
}

func TestRequestID_EnrichesLogger(t *testing.T) {
	var buf bytes.Buffer

	router := gin.New()
	router.Use(withLogger(&buf), RequestID())
	router.GET("/", func(c *gin.Context) {
		logging.FromContext(c.Request.Context()).Info("quote submitted")
		c.Status(http.StatusCreated)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "req-77")
	router.ServeHTTP(httptest.NewRecorder(), req)

	lines := decodeLogLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "req-77", lines[0]["request_id"])
}

func TestAgent_Can(t *testing.T) {
	tests := []struct {
		name  string
		agent *Agent
		roles []string
		want  bool
	}{
		{"agent route", &Agent{Roles: []string{RoleAgent}}, []string{RoleAgent}, true},
		{"admin holds every role", &Agent{Roles: []string{RoleAdmin}}, []string{"underwriter"}, true},
		{"any of", &Agent{Roles: []string{"underwriter"}}, []string{RoleAgent, "underwriter"}, true},
		{"other role", &Agent{Roles: []string{"marketing"}}, []string{RoleAgent}, false},
		{"no roles", &Agent{}, []string{RoleAgent}, false},
		{"nil", nil, []string{RoleAgent}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.agent.Can(tt.roles...))
		})
	}
}

func TestAgentFromHeaders(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.AuthConfig
		headers http.Header
		want    *Agent
	}{
		{
			name:    "default headers",
			headers: http.Header{"X-User-Id": {" agent-7 "}, "X-User-Roles": {"agent,, admin ,"}},
			want:    &Agent{Subject: "agent-7", Roles: []string{"agent", "admin"}},
		},
		{
			name:    "configured headers",
			cfg:     &config.AuthConfig{SubjectHeader: "X-Staff", RolesHeader: "X-Staff-Roles"},
			headers: http.Header{"X-Staff": {"agent-9"}, "X-Staff-Roles": {"agent"}, "X-User-Id": {"ignored"}},
			want:    &Agent{Subject: "agent-9", Roles: []string{"agent"}},
		},
		{
			name:    "anonymous",
			headers: http.Header{},
			want:    &Agent{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AgentFromHeaders(tt.headers, tt.cfg))
		})
	}
}

func TestAgentGate(t *testing.T) {
	cfg := &config.AuthConfig{Enabled: true, SubjectHeader: "X-User-ID", RolesHeader: "X-User-Roles"}

	tests := []struct {
		name       string
		subject    string
		roles      string
		wantStatus int
		wantCode   string
	}{
		{"agent allowed", "agent-1", "agent", http.StatusOK, ""},
		{"admin allowed", "admin-1", "admin", http.StatusOK, ""},
		{"wrong role", "mkt-1", "marketing", http.StatusForbidden, dto.ErrorCodeForbidden},
		{"anonymous", "", "agent", http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				buf     bytes.Buffer
				subject string
			)

			router := gin.New()
			router.Use(withLogger(&buf))
			router.GET("/agent/quotes", AgentGate(cfg), func(c *gin.Context) {
				subject = CurrentAgent(c).Subject
				logging.FromContext(c.Request.Context()).Info("listing quotes")
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/agent/quotes", nil)
			req.Header.Set("X-User-ID", tt.subject)
			req.Header.Set("X-User-Roles", tt.roles)
			req.Header.Set("X-Request-ID", "req-guard")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.subject, subject)

				lines := decodeLogLines(t, &buf)
				require.NotEmpty(t, lines)
				assert.Equal(t, tt.subject, lines[len(lines)-1]["agent"])

				return
			}

			var resp dto.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, "req-guard", resp.TraceID)
		})
	}
}

func TestAgentGate_CustomRoles(t *testing.T) {
	router := gin.New()
	router.GET("/", AgentGate(nil, RoleAgent, "underwriter"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-User-ID", "uw-3")
	req.Header.Set("X-User-Roles", "underwriter")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req.Header.Set("X-User-Roles", "marketing")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "agent or underwriter")
}

func TestCurrentAgent_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, CurrentAgent(c))
}

func TestLogging(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		status    int
		htmx      bool
		wantLevel string
	}{
		{"success is info", "/insurance/health", http.StatusOK, false, "INFO"},
		{"validation failure is warn", "/api/v1/quotes/Health", http.StatusBadRequest, false, "WARN"},
		{"backend outage is error", "/api/v1/quotes/Auto", http.StatusServiceUnavailable, false, "ERROR"},
		{"htmx partial flagged", "/insurance/boat/wizard/commands", http.StatusOK, true, "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			router := gin.New()
			router.Use(withLogger(&buf), Logging())
			router.Any("/*path", func(c *gin.Context) { c.String(tt.status, "ok") })

			req := httptest.NewRequest(http.MethodPost, tt.path, nil)
			if tt.htmx {
				req.Header.Set("HX-Request", "true")
			}

			router.ServeHTTP(httptest.NewRecorder(), req)

			lines := decodeLogLines(t, &buf)
			require.Len(t, lines, 1)

			entry := lines[0]
			assert.Equal(t, "request completed", entry["msg"])
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, tt.path, entry["path"])
			assert.EqualValues(t, tt.status, entry["status"])
			assert.Equal(t, "/*path", entry["route"])

			if tt.htmx {
				assert.Equal(t, true, entry["htmx"])
			} else {
				assert.NotContains(t, entry, "htmx")
			}
		})
	}
}

func TestLogging_SkipsInternalAndStatic(t *testing.T) {
	var buf bytes.Buffer

	router := gin.New()
	router.Use(withLogger(&buf), Logging("/favicon.ico"))
	router.GET("/*path", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/-/live", "/static/site.css", "/favicon.ico"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Empty(t, buf.String())
}

func TestRecovery(t *testing.T) {
	tests := []struct {
		name        string
		accept      string
		wantType    string
		wantContain string
	}{
		{"api client gets the envelope", "application/json", "application/json", dto.ErrorCodeInternal},
		{"browser gets a page", "text/html", "text/html", "Something went wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			router := gin.New()
			router.Use(withLogger(&buf), Recovery())
			router.GET("/", func(*gin.Context) { panic("template exploded") })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Accept", tt.accept)

			w := httptest.NewRecorder()
			require.NotPanics(t, func() { router.ServeHTTP(w, req) })

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Contains(t, w.Header().Get("Content-Type"), tt.wantType)
			assert.Contains(t, w.Body.String(), tt.wantContain)
			assert.NotContains(t, w.Body.String(), "template exploded")

			lines := decodeLogLines(t, &buf)
			require.Len(t, lines, 1)
			assert.Equal(t, "panic recovered", lines[0]["msg"])
			assert.NotEmpty(t, lines[0]["stack"])
		})
	}
}

func TestContextLogger(t *testing.T) {
	t.Run("request logger", func(t *testing.T) {
		var buf bytes.Buffer

		router := gin.New()
		router.Use(withLogger(&buf))
		router.GET("/", func(c *gin.Context) {
			logging.FromContext(c.Request.Context()).Info("from handler")
			c.Status(http.StatusNoContent)
		})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		lines := decodeLogLines(t, &buf)
		require.Len(t, lines, 1)
		assert.Equal(t, "from handler", lines[0]["msg"])
	})

	t.Run("nil keeps the default", func(t *testing.T) {
		var got *slog.Logger

		router := gin.New()
		router.Use(ContextLogger(nil))
		router.GET("/", func(c *gin.Context) {
			got = logging.FromContext(c.Request.Context())
			c.Status(http.StatusNoContent)
		})

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Same(t, slog.Default(), got)
	})
}

func TestRecovery_AfterWrite(t *testing.T) {
	router := gin.New()
	router.Use(Recovery())
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "partial")
		panic("late failure")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "partial", w.Body.String())
}

func TestTimeout_SetsDeadline(t *testing.T) {
	var hasDeadline bool

	router := gin.New()
	router.Use(Timeout(time.Second, nil))
	router.GET("/", func(c *gin.Context) {
		_, hasDeadline = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.True(t, hasDeadline)
}

func TestTimeout_ExpiredWithoutResponse(t *testing.T) {
	router := gin.New()
	router.Use(Timeout(20*time.Millisecond, nil))
	router.GET("/", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeTimeout, resp.Error.Code)
}

func TestTimeout_HandlerAnsweredFirst(t *testing.T) {
	router := gin.New()
	router.Use(Timeout(20*time.Millisecond, nil))
	router.GET("/", func(c *gin.Context) {
		<-c.Request.Context().Done()
		c.String(http.StatusGatewayTimeout, "backend slow")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, "backend slow", w.Body.String())
}

func TestTimeout_RouteBudgets(t *testing.T) {
	const export = "/api/v1/agent/quotes/:type/export.xlsx"

	tests := []struct {
		name   string
		budget time.Duration
		want   bool
	}{
		{"zero budget runs without deadline", 0, false},
		{"longer budget keeps a deadline", time.Minute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var deadline time.Time
			var hasDeadline bool

			router := gin.New()
			router.Use(Timeout(time.Second, map[string]time.Duration{export: tt.budget}))
			router.GET(export, func(c *gin.Context) {
				deadline, hasDeadline = c.Request.Context().Deadline()
				c.Status(http.StatusOK)
			})

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/agent/quotes/auto/export.xlsx", nil))

			assert.Equal(t, tt.want, hasDeadline)
			if tt.want {
				assert.Greater(t, time.Until(deadline), 30*time.Second)
			}
		})
	}
}

func TestSplitRoles(t *testing.T) {
	assert.Equal(t, []string{"agent", "admin"}, splitRoles(" agent,, admin "))
	assert.Equal(t, []string{"agent", "admin"}, splitRoles("agent admin"))
	assert.Nil(t, splitRoles(" , "))
}
