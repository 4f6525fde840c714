package clients

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jsamuelsen/agency-leads/internal/platform/config"
	"github.com/jsamuelsen/agency-leads/internal/platform/logging"
)

// defaultTimeout applies when Config.Timeout is unset.
const defaultTimeout = 30 * time.Second

// Config configures an HTTP client instance.
type Config struct {
	// BaseURL is prefixed to every request path.
	BaseURL string

	// ServiceName identifies the downstream service in logs, spans and metrics.
	ServiceName string

	// Timeout bounds each attempt. Retries and backoff can exceed it in total.
	Timeout time.Duration

	Retry     config.RetryConfig
	Circuit   config.CircuitBreakerConfig
	Transport config.TransportConfig

	// AuthFunc, when set, decorates every attempt with credentials.
	AuthFunc func(*http.Request)

	Logger *slog.Logger
}

// Client talks to the quote backend.
//
// Idempotent methods (GET, HEAD, PUT, DELETE, OPTIONS) are retried on
// transport errors and 5xx responses with exponential backoff and jitter.
// POST is sent exactly once: a lead submission that timed out may still have
// been stored, so the visitor decides whether to resubmit.
type Client struct {
	hc      *http.Client
	baseURL string
	service string
	auth    func(*http.Request)

	retry retrier
	cb    *breaker
	inst  *instruments
}

func New(cfg *Config) (*Client, error) {
	switch {
	case cfg == nil:
		return nil, errors.New("config is required")
	case cfg.ServiceName == "":
		return nil, errors.New("service name is required")
	}

	inst, err := newInstruments(cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	logger = logger.With(
		slog.String("component", "clients.Client"),
		slog.String("downstream", cfg.ServiceName),
	)

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		hc:      &http.Client{Timeout: timeout, Transport: pooledTransport(cfg.Transport)},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		service: cfg.ServiceName,
		auth:    cfg.AuthFunc,
		retry:   newRetrier(cfg.Retry),
		cb: newBreaker(cfg.Circuit, func(from, to State) {
			logger.Warn("circuit breaker state changed",
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		}),
		inst: inst,
	}, nil
}

// pooledTransport is the default transport with the configured pool limits.
// Zero values keep the net/http defaults.
func pooledTransport(tc config.TransportConfig) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()

	if tc.MaxIdleConns > 0 {
		t.MaxIdleConns = tc.MaxIdleConns
	}

	if tc.MaxIdleConnsPerHost > 0 {
		t.MaxIdleConnsPerHost = tc.MaxIdleConnsPerHost
	}

	if tc.IdleConnTimeout > 0 {
		t.IdleConnTimeout = tc.IdleConnTimeout
	}

	return t
}

// Do sends req through the breaker, tracing it and retrying where the
// method allows. A final 5xx response is returned to the caller rather than
// converted into an error so it can be mapped by status.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()
	logger := logging.FromContext(ctx).With(
		slog.String("downstream", c.service),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
	)

	release, err := c.cb.acquire()
	if err != nil {
		c.inst.observe(ctx, req.Method, 0, time.Since(start), resultBlocked)
		logger.Warn("request blocked by circuit breaker")

		return nil, ErrCircuitOpen
	}

	if err := rewind(req); err != nil {
		release(outcomeIgnored)
		return nil, err
	}

	ctx, span := c.inst.start(ctx, req)
	defer span.End()

	resp, attempts, err := c.attempt(ctx, req, logger)
	release(circuitOutcome(resp, err))

	elapsed := time.Since(start)
	c.inst.finish(ctx, span, req.Method, resp, err, elapsed)

	if err != nil {
		logger.Error("request failed",
			slog.Int("attempts", attempts),
			slog.Duration("duration", elapsed),
			slog.Any("error", err),
		)

		if attempts > 1 {
			return nil, fmt.Errorf("%w after %d attempts: %w", ErrMaxRetriesExceeded, attempts, err)
		}

		return nil, err
	}

	logger.Debug("request completed",
		slog.Int("status", resp.StatusCode),
		slog.Int("attempts", attempts),
		slog.Duration("duration", elapsed),
	)

	return resp, nil
}

// attempt sends req up to the retry budget for its method and reports how
// many attempts it made. Every attempt gets a fresh body and fresh
// credentials.
func (c *Client) attempt(ctx context.Context, req *http.Request, logger *slog.Logger) (*http.Response, int, error) {
	budget := c.retry.budget(req.Method)

	for n := range budget {
		if n > 0 {
			pause, err := c.retry.wait(ctx, n)
			if err != nil {
				return nil, n, err
			}

			logger.Debug("retrying request", slog.Int("attempt", n+1), slog.Duration("backoff", pause))

			if err := rewind(req); err != nil {
				return nil, n, err
			}
		}

		if c.auth != nil {
			c.auth(req)
		}

		logger.Log(ctx, logging.LevelTrace, "sending request", slog.Int("attempt", n+1))

		resp, err := c.hc.Do(req.WithContext(ctx))
		final := n == budget-1

		switch {
		case err != nil && (final || !transient(err)):
			return nil, n + 1, err
		case err != nil:
			logger.Debug("retryable transport error", slog.Int("attempt", n+1), slog.Any("error", err))
		case resp.StatusCode >= http.StatusInternalServerError && !final:
			logger.Debug("retryable server error", slog.Int("attempt", n+1), slog.Int("status", resp.StatusCode))
			discard(resp)
		default:
			return resp, n + 1, nil
		}
	}

	// budget is at least one and the final attempt always returns above.
	return nil, budget, ErrMaxRetriesExceeded
}

// circuitOutcome counts transport errors and 5xx against the backend. A
// cancelled caller says nothing about the backend's health.
func circuitOutcome(resp *http.Response, err error) outcome {
	switch {
	case errors.Is(err, context.Canceled):
		return outcomeIgnored
	case err != nil, resp.StatusCode >= http.StatusInternalServerError:
		return outcomeFailure
	default:
		return outcomeSuccess
	}
}

func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	return c.send(ctx, http.MethodGet, path, nil)
}

// Post sends a JSON body. It is never retried.
func (c *Client) Post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	return c.send(ctx, http.MethodPost, path, body)
}

func (c *Client) Put(ctx context.Context, path string, body []byte) (*http.Response, error) {
	return c.send(ctx, http.MethodPut, path, body)
}

func (c *Client) Delete(ctx context.Context, path string) (*http.Response, error) {
	return c.send(ctx, http.MethodDelete, path, nil)
}

func (c *Client) send(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var payload io.Reader = http.NoBody
	if body != nil {
		payload = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), payload)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.Do(ctx, req)
}

// url joins path onto the base URL with exactly one slash.
func (c *Client) url(path string) string {
	return c.baseURL + "/" + strings.TrimPrefix(path, "/")
}

func (c *Client) CircuitState() State {
	return c.cb.State()
}

// Name implements ports.HealthChecker.
func (c *Client) Name() string {
	return c.service
}

// Check implements ports.HealthChecker. The backend is reported unhealthy
// while the breaker is open; probing it from readiness would only add load.
func (c *Client) Check(context.Context) error {
	if c.cb.State() == StateOpen {
		return ErrCircuitOpen
	}

	return nil
}
