package clients

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/agency-leads/internal/adapters/http/middleware"
	"github.com/jsamuelsen/agency-leads/internal/platform/config"
)

func defaultConfig() *Config {
	return &Config{
		ServiceName: "quote-api",
		Timeout:     5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     3,
			InitialInterval: time.Millisecond,
			MaxInterval:     10 * time.Millisecond,
			Multiplier:      2.0,
			JitterFactor:    0.25,
		},
		Circuit: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       time.Second,
			HalfOpenLimit: 2,
		},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate ...func(*Config)) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := defaultConfig()
	cfg.BaseURL = server.URL

	for _, m := range mutate {
		m(cfg)
	}

	client, err := New(cfg)
	require.NoError(t, err)

	return client
}

func closeBody(t *testing.T, resp *http.Response) {
	t.Helper()

	if err := resp.Body.Close(); err != nil {
		t.Errorf("failed to close response body: %v", err)
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(nil)
	require.ErrorContains(t, err, "config is required")

	cfg := defaultConfig()
	cfg.ServiceName = ""
	_, err = New(cfg)
	require.ErrorContains(t, err, "service name is required")
}

func TestNew_AppliesTransportConfig(t *testing.T) {
	cfg := defaultConfig()
	cfg.BaseURL = "https://quotes.example.com/api/"
	cfg.Transport = config.TransportConfig{
		MaxIdleConns:        42,
		MaxIdleConnsPerHost: 7,
		IdleConnTimeout:     15 * time.Second,
	}

	client, err := New(cfg)
	require.NoError(t, err)

	transport, ok := client.hc.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 42, transport.MaxIdleConns)
	assert.Equal(t, 7, transport.MaxIdleConnsPerHost)
	assert.Equal(t, 15*time.Second, transport.IdleConnTimeout)
	assert.Equal(t, "https://quotes.example.com/api", client.baseURL)
	assert.Equal(t, "https://quotes.example.com/api/Auto", client.url("Auto"))
}

func TestClient_HeaderPropagation(t *testing.T) {
	var got http.Header

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	})

	ctx := middleware.ContextWithRequestID(context.Background(), "req-123")
	ctx = middleware.ContextWithCorrelationID(ctx, "corr-456")

	resp, err := client.Get(ctx, "/Health")
	require.NoError(t, err)
	closeBody(t, resp)

	assert.Equal(t, "req-123", got.Get(middleware.HeaderRequestID))
	assert.Equal(t, "corr-456", got.Get(middleware.HeaderCorrelationID))
	assert.Equal(t, "application/json", got.Get("Accept"))
}

func TestClient_RetriesIdempotentOnServerError(t *testing.T) {
	var attempts atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if attempts.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		w.WriteHeader(http.StatusOK)
	})

	resp, err := client.Get(context.Background(), "/Auto")
	require.NoError(t, err)
	closeBody(t, resp)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClient_PostIsNeverRetried(t *testing.T) {
	var attempts atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	resp, err := client.Post(context.Background(), "/Health", []byte(`{"firstName":"Jane"}`))
	require.NoError(t, err)
	closeBody(t, resp)

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestClient_FinalServerErrorIsReturned(t *testing.T) {
	var attempts atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	resp, err := client.Get(context.Background(), "/Auto")
	require.NoError(t, err)
	closeBody(t, resp)

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestClient_NoRetryOnClientError(t *testing.T) {
	var attempts atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})

	resp, err := client.Get(context.Background(), "/Auto/missing")
	require.NoError(t, err)
	closeBody(t, resp)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestClient_TransportErrors(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	deadURL := "http://" + listener.Addr().String()
	require.NoError(t, listener.Close())

	t.Run("idempotent requests wrap the exhausted retries", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.BaseURL = deadURL

		client, err := New(cfg)
		require.NoError(t, err)

		_, err = client.Get(context.Background(), "/Auto")
		require.ErrorIs(t, err, ErrMaxRetriesExceeded)
		assert.Contains(t, err.Error(), "after 3 attempts")
	})

	t.Run("single attempt errors are returned as is", func(t *testing.T) {
		cfg := defaultConfig()
		cfg.BaseURL = deadURL

		client, err := New(cfg)
		require.NoError(t, err)

		_, err = client.Post(context.Background(), "/Auto", []byte(`{}`))
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrMaxRetriesExceeded)
	})
}

func TestClient_RewindsBodyOnRetry(t *testing.T) {
	var bodies []string

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		bodies = append(bodies, string(data))

		if len(bodies) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
	})

	resp, err := client.Put(context.Background(), "/Boat/Q-1", []byte(`{"firstName":"Lee"}`))
	require.NoError(t, err)
	closeBody(t, resp)

	assert.Equal(t, []string{`{"firstName":"Lee"}`, `{"firstName":"Lee"}`}, bodies)
}

func TestClient_CircuitBreaker(t *testing.T) {
	var calls atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, func(cfg *Config) {
		cfg.Retry.MaxAttempts = 1
		cfg.Circuit.MaxFailures = 2
	})

	for range 2 {
		resp, err := client.Get(context.Background(), "/Flood")
		require.NoError(t, err)
		closeBody(t, resp)
	}

	assert.Equal(t, StateOpen, client.CircuitState())
	require.ErrorIs(t, client.Check(context.Background()), ErrCircuitOpen)

	before := calls.Load()

	_, err := client.Get(context.Background(), "/Flood")
	require.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, before, calls.Load(), "open circuit short-circuits")
}

func TestClient_HealthCheck(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	assert.Equal(t, "quote-api", client.Name())
	assert.NoError(t, client.Check(context.Background()))
}

func TestClient_Timeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}, func(cfg *Config) {
		cfg.Timeout = 30 * time.Millisecond
		cfg.Retry.MaxAttempts = 1
	})

	_, err := client.Get(context.Background(), "/Auto")
	require.Error(t, err)
}

func TestClient_ContextCancellation(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := client.Get(ctx, "/Auto")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMaxRetriesExceeded, "cancellation is not retried")
}

func TestClient_AuthFuncCalledOnRetry(t *testing.T) {
	var authCalls, requests atomic.Int32

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		assert.Equal(t, "Bearer backend-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}, func(cfg *Config) {
		cfg.AuthFunc = func(r *http.Request) {
			authCalls.Add(1)
			r.Header.Set("Authorization", "Bearer backend-token")
		}
	})

	resp, err := client.Delete(context.Background(), "/Auto/Q-9")
	require.NoError(t, err)
	closeBody(t, resp)

	assert.Equal(t, int32(2), authCalls.Load())
}

func TestRetrier_Delay(t *testing.T) {
	r := newRetrier(config.RetryConfig{
		MaxAttempts:     4,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     time.Second,
		Multiplier:      2,
		JitterFactor:    0.2,
	})

	tests := []struct {
		name   string
		n      int
		jitter float64
		want   time.Duration
	}{
		{"first retry centred", 0, 0.5, 100 * time.Millisecond},
		{"doubles", 1, 0.5, 200 * time.Millisecond},
		{"doubles again", 2, 0.5, 400 * time.Millisecond},
		{"capped", 10, 0.5, time.Second},
		{"low edge of spread", 1, 0, 160 * time.Millisecond},
		{"high edge of spread", 3, 1, 960 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r.jitter = func() float64 { return tt.jitter }
			assert.InDelta(t, float64(tt.want), float64(r.delay(tt.n)), float64(time.Microsecond))
		})
	}
}

func TestRetrier_Budget(t *testing.T) {
	r := newRetrier(config.RetryConfig{MaxAttempts: 3})

	for _, m := range []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, http.MethodOptions} {
		assert.Equal(t, 3, r.budget(m), m)
	}

	assert.Equal(t, 1, r.budget(http.MethodPost))
	assert.Equal(t, 1, r.budget(http.MethodPatch))
	assert.Equal(t, 1, newRetrier(config.RetryConfig{}).budget(http.MethodGet))
}

func TestRetrier_WaitStopsOnCancel(t *testing.T) {
	r := newRetrier(config.RetryConfig{InitialInterval: time.Minute, MaxInterval: time.Minute, Multiplier: 2})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := r.wait(ctx, 1)
	require.ErrorIs(t, err, context.Canceled)
}

func TestRewind(t *testing.T) {
	req, err := http.NewRequestWithContext(t.Context(), http.MethodPut, "http://quotes.test/Boat/Q-1",
		io.NopCloser(strings.NewReader(`{"hullId":"ABC"}`)))
	require.NoError(t, err)
	require.Nil(t, req.GetBody)

	for range 2 {
		require.NoError(t, rewind(req))

		body, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"hullId":"ABC"}`, string(body))
	}

	post, err := http.NewRequestWithContext(t.Context(), http.MethodPost, "http://quotes.test/Boat",
		io.NopCloser(strings.NewReader(`{}`)))
	require.NoError(t, err)
	require.NoError(t, rewind(post))
	assert.Nil(t, post.GetBody, "a POST body is sent once and never buffered")
}

type testNetError struct {
	timeout bool
}

func (e testNetError) Error() string   { return "test net error" }
func (e testNetError) Timeout() bool   { return e.timeout }
func (e testNetError) Temporary() bool { return true }

func TestTransient(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil error", nil, false},
		{"context canceled", context.Canceled, false},
		{"context deadline exceeded", context.DeadlineExceeded, false},
		{"net timeout", testNetError{timeout: true}, true},
		{"net error without timeout", testNetError{timeout: false}, false},
		{"connection refused", &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}, true},
		{"plain error", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.retryable, transient(tt.err))
		})
	}
}

func TestCircuitOutcome(t *testing.T) {
	tests := []struct {
		name string
		resp *http.Response
		err  error
		want outcome
	}{
		{"ok", &http.Response{StatusCode: http.StatusCreated}, nil, outcomeSuccess},
		{"rejected lead", &http.Response{StatusCode: http.StatusUnprocessableEntity}, nil, outcomeSuccess},
		{"backend down", &http.Response{StatusCode: http.StatusBadGateway}, nil, outcomeFailure},
		{"transport", nil, syscall.ECONNREFUSED, outcomeFailure},
		{"deadline", nil, context.DeadlineExceeded, outcomeFailure},
		{"visitor left", nil, context.Canceled, outcomeIgnored},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, circuitOutcome(tt.resp, tt.err))
		})
	}
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", statusClass(http.StatusCreated))
	assert.Equal(t, "4xx", statusClass(http.StatusUnprocessableEntity))
	assert.Equal(t, "5xx", statusClass(http.StatusBadGateway))
}
