package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validConfig returns a fully valid configuration for testing.
func validConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "test-service",
			Version:     "1.0.0",
			Environment: "local",
		},
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxRequestSize:  1048576,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Client: ClientConfig{
			Timeout: 30 * time.Second,
			Retry: RetryConfig{
				MaxAttempts:     3,
				InitialInterval: 100 * time.Millisecond,
				MaxInterval:     5 * time.Second,
				Multiplier:      2.0,
				JitterFactor:    0.25,
			},
			CircuitBreaker: CircuitBreakerConfig{
				MaxFailures:   5,
				Timeout:       30 * time.Second,
				HalfOpenLimit: 3,
			},
			Transport: TransportConfig{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		Services: ServicesConfig{
			Quote: ServiceEndpointConfig{
				BaseURL: "http://localhost:3001/api",
				Name:    "quote-api",
			},
		},
		Contacts: ContactsConfig{
			Path: ".data/contacts.json",
		},
		Sessions: SessionsConfig{
			TTL:      24 * time.Hour,
			InMemory: true,
			Cookie:   "boat_wizard",
		},
		Site: SiteConfig{
			Name:  "Test Agency",
			Phone: "555-0100",
			Email: "quotes@example.com",
		},
	}
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		// app
		{"missing name", func(c *Config) { c.App.Name = "" }, "app.name is required"},
		{"missing version", func(c *Config) { c.App.Version = "" }, "app.version is required"},
		{"unknown environment", func(c *Config) { c.App.Environment = "staging" }, "app.environment must be one of: local dev qa prod test"},

		// server
		{"port zero", func(c *Config) { c.Server.Port = 0 }, "server.port is required"},
		{"port too high", func(c *Config) { c.Server.Port = 65536 }, "server.port must be at most 65535"},
		{"missing host", func(c *Config) { c.Server.Host = "" }, "server.host is required"},
		{"short read timeout", func(c *Config) { c.Server.ReadTimeout = time.Millisecond }, "server.read_timeout must be at least 1s"},
		{"bad trusted proxy", func(c *Config) { c.Server.TrustedProxies = []string{"gateway"} }, "must be an IP address or CIDR range"},

		// log
		{"uppercase level", func(c *Config) { c.Log.Level = "DEBUG" }, "log.level must be one of"},
		{"unknown format", func(c *Config) { c.Log.Format = "xml" }, "log.format must be one of: json text pretty"},
		{"file without path", func(c *Config) { c.Log.File.Enabled = true }, "log.file.path is required when enabled is true"},
		{"file too large", func(c *Config) { c.Log.File.MaxSizeMB = 4096 }, "log.file.max_size must be at most 1024"},

		// telemetry
		{"telemetry without endpoint", func(c *Config) {
			c.Telemetry = TelemetryConfig{Enabled: true, ServiceName: "agency-leads"}
		}, "telemetry.endpoint is required when enabled is true"},
		{"telemetry bad endpoint", func(c *Config) {
			c.Telemetry = TelemetryConfig{Enabled: true, ServiceName: "agency-leads", Endpoint: "otel collector"}
		}, "telemetry.endpoint must be a valid URL"},
		{"sampling above one", func(c *Config) { c.Telemetry.SamplingRate = 1.5 }, "telemetry.sampling_rate must be at most 1"},

		// auth
		{"back office without subject header", func(c *Config) {
			c.Auth = AuthConfig{Enabled: true, RolesHeader: "X-User-Roles"}
		}, "auth.subject_header is required when enabled is true"},
		{"back office without roles header", func(c *Config) {
			c.Auth = AuthConfig{Enabled: true, SubjectHeader: "X-User-ID"}
		}, "auth.roles_header is required when enabled is true"},

		// client
		{"client timeout", func(c *Config) { c.Client.Timeout = time.Millisecond }, "client.timeout must be at least 100ms"},
		{"too many attempts", func(c *Config) { c.Client.Retry.MaxAttempts = 11 }, "client.retry.max_attempts must be at most 10"},
		{"flat multiplier", func(c *Config) { c.Client.Retry.Multiplier = 1 }, "client.retry.multiplier must be at least 1.1"},
		{"backoff starts above ceiling", func(c *Config) {
			c.Client.Retry.InitialInterval = 10 * time.Second
		}, "client.retry.max_interval must not be less than initial_interval"},
		{"circuit never opens", func(c *Config) { c.Client.CircuitBreaker.MaxFailures = 0 }, "client.circuit_breaker.max_failures is required"},
		{"idle pool", func(c *Config) { c.Client.Transport.MaxIdleConnsPerHost = 0 }, "client.transport.max_idle_conns_per_host is required"},

		// lead capture
		{"quote backend url", func(c *Config) { c.Services.Quote.BaseURL = "quotes" }, "services.quote.base_url must be a valid URL"},
		{"missing contacts path", func(c *Config) { c.Contacts.Path = "" }, "contacts.path is required"},
		{"contacts section absent", func(c *Config) { c.Contacts = ContactsConfig{} }, "contacts.path is required"},
		{"session ttl too short", func(c *Config) { c.Sessions.TTL = time.Second }, "sessions.ttl must be at least 1m"},
		{"on-disk sessions need dir", func(c *Config) { c.Sessions.InMemory = false }, "sessions.dir is required when in_memory is false"},
		{"missing cookie", func(c *Config) { c.Sessions.Cookie = "" }, "sessions.cookie is required"},
		{"bad site email", func(c *Config) { c.Site.Email = "not-an-email" }, "site.email must be a valid email address"},
		{"undialable phone", func(c *Config) { c.Site.Phone = "call us" }, "site.phone must contain at least 7 digits"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestConfig_Validate_Accepts(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"on-disk sessions with dir", func(c *Config) { c.Sessions.InMemory = false; c.Sessions.Dir = "/var/lib/leads" }},
		{"back office disabled without headers", func(c *Config) { c.Auth = AuthConfig{} }},
		{"telemetry disabled without endpoint", func(c *Config) { c.Telemetry = TelemetryConfig{} }},
		{"trusted proxies", func(c *Config) { c.Server.TrustedProxies = []string{"10.0.0.0/8", "192.0.2.1"} }},
		{"rolling file", func(c *Config) {
			c.Log.File = LogFileConfig{Enabled: true, Path: "/var/log/leads.log", MaxSizeMB: 10}
		}},
	}

	for _, env := range []string{"local", "dev", "qa", "prod", "test"} {
		tests = append(tests, struct {
			name   string
			mutate func(*Config)
		}{"environment " + env, func(c *Config) { c.App.Environment = env }})
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestConfig_Validate_ReportsEveryField(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Contacts.Path = ""
	cfg.Site.Email = "nope"

	err := cfg.Validate()
	require.Error(t, err)

	var keys []string
	for _, e := range flatten(err) {
		var fe *FieldError
		if errors.As(e, &fe) {
			keys = append(keys, fe.Key)
		}
	}

	assert.ElementsMatch(t, []string{"server.port", "contacts.path", "site.email"}, keys)
}

// flatten unwraps the single fmt wrapper and the joined field errors.
func flatten(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}

	if inner := errors.Unwrap(err); inner != nil {
		return flatten(inner)
	}

	return []error{err}
}

func TestFieldKey(t *testing.T) {
	assert.Equal(t, "sessions.dir", fieldKey("Config.sessions.dir"))
	assert.Equal(t, "client.retry.max_attempts", fieldKey("Config.client.retry.max_attempts"))
	assert.Equal(t, "Config", fieldKey("Config"))
}
