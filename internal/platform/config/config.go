// Package config loads the service configuration with koanf: built-in
// defaults, then configs/base.yaml, then configs/{profile}.yaml, then APP_
// environment variables.
package config

import "time"

// Config is everything the lead site reads at startup. Feature flags under
// Features are re-read per request by the flags adapter; the rest is fixed for
// the life of the process.
type Config struct {
	App       AppConfig       `koanf:"app"       validate:"required"`
	Server    ServerConfig    `koanf:"server"    validate:"required"`
	Log       LogConfig       `koanf:"log"       validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Auth      AuthConfig      `koanf:"auth"`
	Client    ClientConfig    `koanf:"client"    validate:"required"`
	Services  ServicesConfig  `koanf:"services"  validate:"required"`
	Contacts  ContactsConfig  `koanf:"contacts"`
	Sessions  SessionsConfig  `koanf:"sessions"  validate:"required"`
	Site      SiteConfig      `koanf:"site"      validate:"required"`

	Features map[string]any `koanf:"features"`
}

type AppConfig struct {
	Name        string `koanf:"name"        validate:"required"`
	Version     string `koanf:"version"     validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig is the public listener. TrustedProxies lists the load
// balancers whose X-Forwarded-For is believed; empty trusts none.
type ServerConfig struct {
	Port            int           `koanf:"port"             validate:"required,min=1,max=65535"`
	Host            string        `koanf:"host"             validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`
	MaxRequestSize  int64         `koanf:"max_request_size" validate:"required,min=1"`
	TrustedProxies  []string      `koanf:"trusted_proxies"  validate:"omitempty,dive,cidr|ip"`
}

type LogConfig struct {
	Level  string        `koanf:"level"  validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig adds a rotated JSON copy of the log on disk.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"       validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size"   validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age"    validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig exports traces over OTLP/gRPC when Enabled.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"      validate:"required_if=Enabled true,omitempty,url"`
	ServiceName  string  `koanf:"service_name"  validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// AuthConfig controls the agent back-office routes. Staff are authenticated
// by the gateway, which forwards identity in the configured headers. When
// Enabled is false the back-office routes are not mounted at all.
type AuthConfig struct {
	Enabled       bool   `koanf:"enabled"`
	SubjectHeader string `koanf:"subject_header" validate:"required_if=Enabled true"`
	RolesHeader   string `koanf:"roles_header"   validate:"required_if=Enabled true"`
}

// ClientConfig tunes the outbound client used for the quote backend.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout"         validate:"required,min=100ms"`
	Retry          RetryConfig          `koanf:"retry"           validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport"       validate:"required"`
}

// RetryConfig applies to idempotent calls only; quote submissions are sent once.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts"     validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval"     validate:"required,min=100ms"`
	Multiplier      float64       `koanf:"multiplier"       validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor"    validate:"min=0,max=1"`
}

// CircuitBreakerConfig: MaxFailures consecutive failures open the circuit for
// Timeout, after which HalfOpenLimit successful probes close it.
type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures"    validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout"         validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns"         validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout"      validate:"required,min=1s"`
}

type ServicesConfig struct {
	Quote ServiceEndpointConfig `koanf:"quote" validate:"required"`
}

// ServiceEndpointConfig locates a backend. Name labels its logs, spans,
// metrics and health check.
type ServiceEndpointConfig struct {
	BaseURL string `koanf:"base_url" validate:"required,url"`
	Name    string `koanf:"name"     validate:"required"`
}

// ContactsConfig locates the agency contact file. Watch reloads it on change.
type ContactsConfig struct {
	Path  string `koanf:"path"  validate:"required"`
	Watch bool   `koanf:"watch"`
}

// SessionsConfig controls where boat wizard drafts live and for how long.
// Drafts are kept in badger under Dir unless InMemory is set.
type SessionsConfig struct {
	TTL      time.Duration `koanf:"ttl"       validate:"required,min=1m"`
	InMemory bool          `koanf:"in_memory"`
	Dir      string        `koanf:"dir"       validate:"required_if=InMemory false"`
	Cookie   string        `koanf:"cookie"    validate:"required"`
}

// SiteConfig is the agency identity printed on every page.
type SiteConfig struct {
	Name  string `koanf:"name"  validate:"required"`
	Phone string `koanf:"phone" validate:"required"`
	Email string `koanf:"email" validate:"required,email"`
}
