package main

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/jsamuelsen/agency-leads/internal/adapters/blog"
	"github.com/jsamuelsen/agency-leads/internal/adapters/cache"
	"github.com/jsamuelsen/agency-leads/internal/adapters/clients"
	"github.com/jsamuelsen/agency-leads/internal/adapters/clients/acl"
	"github.com/jsamuelsen/agency-leads/internal/adapters/contacts"
	"github.com/jsamuelsen/agency-leads/internal/adapters/export"
	"github.com/jsamuelsen/agency-leads/internal/adapters/flags"
	"github.com/jsamuelsen/agency-leads/internal/adapters/http"
	"github.com/jsamuelsen/agency-leads/internal/adapters/http/handlers"
	"github.com/jsamuelsen/agency-leads/internal/adapters/http/views"
	"github.com/jsamuelsen/agency-leads/internal/app"
	"github.com/jsamuelsen/agency-leads/internal/platform/config"
	"github.com/jsamuelsen/agency-leads/internal/platform/logging"
	"github.com/jsamuelsen/agency-leads/internal/platform/telemetry"
	"github.com/jsamuelsen/agency-leads/internal/ports"
)

// cleanups run in reverse order of registration.
type cleanups []func()

func (c *cleanups) add(f func()) { *c = append(*c, f) }

func (c cleanups) run() {
	for _, f := range slices.Backward(c) {
		f()
	}
}

// site is everything run needs once the graph is built. cleanup is valid
// even when assemble fails part way.
type site struct {
	logger  *slog.Logger
	server  *http.Server
	cleanup cleanups
}

// assemble builds the site from the outside in: logging and telemetry, the
// stores and the quote backend, then services, handlers and routes.
func assemble(ctx context.Context, cfg *config.Config) (*site, error) {
	s := &site{logger: newLogger(cfg)}
	slog.SetDefault(s.logger)

	s.logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
	)

	tel, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return s, fmt.Errorf("initializing telemetry: %w", err)
	}

	s.cleanup.add(func() {
		if err := tel.Shutdown(context.WithoutCancel(ctx)); err != nil {
			s.logger.Error("telemetry shutdown error", slog.Any("error", err))
		}
	})

	quotes, err := quoteBackend(cfg, s.logger)
	if err != nil {
		return s, err
	}

	sessions, err := cache.New(cache.Config{
		InMemory: cfg.Sessions.InMemory,
		Dir:      cfg.Sessions.Dir,
		Logger:   s.logger,
	})
	if err != nil {
		return s, fmt.Errorf("opening session store: %w", err)
	}

	s.cleanup.add(func() {
		if err := sessions.Close(); err != nil {
			s.logger.Error("session store close error", slog.Any("error", err))
		}
	})

	contactStore := contacts.NewFileStore(cfg.Contacts.Path, s.logger)
	if cfg.Contacts.Watch {
		if err := contactStore.Watch(ctx); err != nil {
			return s, fmt.Errorf("watching contacts: %w", err)
		}

		s.cleanup.add(func() { _ = contactStore.Close() })
	}

	posts, err := blog.NewStatic()
	if err != nil {
		return s, fmt.Errorf("loading blog posts: %w", err)
	}

	featureFlags, err := flags.New(cfg.Features)
	if err != nil {
		return s, fmt.Errorf("loading feature flags: %w", err)
	}

	health := ports.NewHealthRegistry()
	for _, checker := range []ports.HealthChecker{quotes, sessions, ports.NonCritical(contactStore)} {
		if err := health.Register(checker); err != nil {
			return s, fmt.Errorf("registering %s health check: %w", checker.Name(), err)
		}
	}

	quoteService := app.NewQuoteService(app.QuoteServiceConfig{
		QuoteClient: quotes,
		Flags:       featureFlags,
		Exporter:    export.NewExcel(),
		Logger:      s.logger,
	})

	wizardService := app.NewBoatWizardService(app.BoatWizardConfig{
		Cache:  sessions,
		Quotes: quoteService,
		TTL:    cfg.Sessions.TTL,
		Logger: s.logger,
	})

	blogService := app.NewBlogService(posts)
	metrics := handlers.NewLeadMetrics(nil)

	routes := http.NewDefaultRouterConfig(s.logger, &cfg.App, &cfg.Auth,
		handlers.NewHealthHandler(health, handlers.NewBuildInfo(Version, Commit, BuildTime)))
	routes.Tracing = cfg.Telemetry.Enabled
	routes.QuoteHandler = handlers.NewQuoteHandler(quoteService, metrics)
	routes.WizardHandler = handlers.NewWizardHandler(wizardService, quoteService, metrics)
	routes.ContactHandler = handlers.NewContactHandler(app.NewContactService(contactStore, s.logger))
	routes.BlogHandler = handlers.NewBlogHandler(blogService)
	routes.PageHandler = handlers.NewPageHandler(handlers.PageConfig{
		Quotes:  quoteService,
		Wizards: wizardService,
		Blog:    blogService,
		Flags:   featureFlags,
		Site: views.Site{
			Name:  cfg.Site.Name,
			Phone: cfg.Site.Phone,
			Email: cfg.Site.Email,
		},
		Metrics:      metrics,
		WizardCookie: cfg.Sessions.Cookie,
		WizardTTL:    cfg.Sessions.TTL,
		Logger:       s.logger,
	})

	s.server = http.New(&cfg.Server, s.logger)
	http.SetupRouter(s.server.Engine(), routes)

	if !cfg.Auth.Enabled {
		s.logger.Warn("auth disabled: agent back-office routes are not mounted")
	}

	return s, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
}

// quoteBackend is the resilient client for the quote-management API wrapped
// in its anti-corruption layer.
func quoteBackend(cfg *config.Config, logger *slog.Logger) (*acl.QuoteClient, error) {
	hc, err := clients.New(&clients.Config{
		BaseURL:     cfg.Services.Quote.BaseURL,
		ServiceName: cfg.Services.Quote.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating quote backend client: %w", err)
	}

	return acl.NewQuoteClient(acl.QuoteClientConfig{Client: hc, Logger: logger}), nil
}
