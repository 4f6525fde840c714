package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/agency-leads/internal/adapters/http/handlers"
	"github.com/jsamuelsen/agency-leads/internal/adapters/http/middleware"
	"github.com/jsamuelsen/agency-leads/internal/adapters/http/views"
	"github.com/jsamuelsen/agency-leads/internal/platform/config"
	"github.com/jsamuelsen/agency-leads/internal/platform/telemetry"
)

const (
	// DefaultRequestTimeout is the deadline for JSON API requests.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultExportTimeout is the deadline for workbook exports, which page
	// through a whole collection.
	DefaultExportTimeout = 2 * time.Minute

	exportRoute = "/api/v1/agent/quotes/:type/export.xlsx"
)

// RouterConfig is what SetupRouter mounts. A nil handler leaves its routes
// out, which tests use to mount one slice of the site.
type RouterConfig struct {
	Logger *slog.Logger

	// AuthConfig contains the gateway identity headers. The agent
	// back-office is mounted only when AuthConfig.Enabled is set.
	AuthConfig *config.AuthConfig

	// AppConfig names the service in spans and metrics.
	AppConfig *config.AppConfig

	// Tracing adds otelgin spans ahead of the request metrics.
	Tracing bool

	HealthHandler  *handlers.HealthHandler
	QuoteHandler   *handlers.QuoteHandler
	WizardHandler  *handlers.WizardHandler
	ContactHandler *handlers.ContactHandler
	BlogHandler    *handlers.BlogHandler
	PageHandler    *handlers.PageHandler

	// Timeout is the default request timeout.
	Timeout time.Duration

	// ExportTimeout replaces Timeout on the export route. Zero removes the
	// deadline there.
	ExportTimeout time.Duration
}

// SetupRouter mounts the whole site on engine. Every request carries
// cfg.Logger on its context and passes recovery, the request and correlation ID stamps, tracing when enabled,
// request metrics and the access log, in that order. Probes under /-/ skip the
// API deadline; /api carries it, with a longer budget for the workbook
// export. The agent back-office lives under /api/v1/agent behind the agent
// gate, and the server-rendered pages hang off the root.
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	global := []gin.HandlerFunc{
		middleware.ContextLogger(cfg.Logger),
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.CorrelationID(),
	}

	if cfg.Tracing {
		global = append(global, telemetry.TracingMiddleware(cfg.AppConfig.Name))
	}

	global = append(global,
		telemetry.Middleware(cfg.AppConfig.Name),
		middleware.Logging(),
	)

	engine.Use(global...)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutesOnEngine(engine)
	}

	engine.GET("/static/site.css", func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=3600")
		c.Data(http.StatusOK, "text/css; charset=utf-8", views.StyleSheet)
	})

	api := engine.Group("/api")
	if cfg.Timeout > 0 {
		api.Use(middleware.Timeout(cfg.Timeout, map[string]time.Duration{exportRoute: cfg.ExportTimeout}))
	}

	if cfg.ContactHandler != nil {
		cfg.ContactHandler.RegisterContactRoutes(api)
	}

	setupAPIRoutes(api.Group("/v1"), cfg)

	if cfg.PageHandler != nil {
		cfg.PageHandler.RegisterPageRoutes(engine)
	}
}

// setupAPIRoutes registers the JSON API under /api/v1.
func setupAPIRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	handlers.RegisterProductRoutes(rg)

	if cfg.QuoteHandler != nil {
		cfg.QuoteHandler.RegisterQuoteRoutes(rg)
	}

	if cfg.WizardHandler != nil {
		cfg.WizardHandler.RegisterWizardRoutes(rg)
	}

	if cfg.BlogHandler != nil {
		cfg.BlogHandler.RegisterBlogRoutes(rg)
	}

	if cfg.QuoteHandler != nil && cfg.AuthConfig != nil && cfg.AuthConfig.Enabled {
		agent := rg.Group("/agent")
		agent.Use(middleware.AgentGate(cfg.AuthConfig, middleware.RoleAgent))
		cfg.QuoteHandler.RegisterAgentRoutes(agent)
	}
}

// NewDefaultRouterConfig fills in the probes and the default deadlines; the
// caller attaches the site's handlers.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	authCfg *config.AuthConfig,
	healthHandler *handlers.HealthHandler,
) RouterConfig {
	return RouterConfig{
		Logger:        logger,
		AuthConfig:    authCfg,
		AppConfig:     appCfg,
		HealthHandler: healthHandler,
		Timeout:       DefaultRequestTimeout,
		ExportTimeout: DefaultExportTimeout,
	}
}
