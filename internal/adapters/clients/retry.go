package clients

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"time"

	"github.com/jsamuelsen/agency-leads/internal/platform/config"
)

// retrier decides how often and how far apart a backend call is replayed.
// Only methods the backend treats as idempotent are replayed: a quote POST
// that timed out may already be stored.
type retrier struct {
	policy config.RetryConfig

	// jitter returns a value in [0,1).
	jitter func() float64
}

func newRetrier(policy config.RetryConfig) retrier {
	policy.MaxAttempts = max(policy.MaxAttempts, 1)

	return retrier{
		policy: policy,
		jitter: rand.Float64, //nolint:gosec // spreading retries needs no crypto randomness
	}
}

// budget is the number of attempts a request with this method gets.
func (r retrier) budget(method string) int {
	if !replayable(method) {
		return 1
	}

	return r.policy.MaxAttempts
}

// delay is the pause before the attempt with zero-based index n. It grows
// by Multiplier per attempt up to MaxInterval and is spread by ±JitterFactor.
func (r retrier) delay(n int) time.Duration {
	base := float64(r.policy.InitialInterval)
	ceiling := float64(r.policy.MaxInterval)

	for range n {
		base *= r.policy.Multiplier
		if ceiling > 0 && base >= ceiling {
			base = ceiling
			break
		}
	}

	spread := base * r.policy.JitterFactor

	return time.Duration(base - spread + 2*spread*r.jitter())
}

// wait blocks for delay(n) or until ctx ends.
func (r retrier) wait(ctx context.Context, n int) (time.Duration, error) {
	d := r.delay(n)

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return d, ctx.Err()
	case <-timer.C:
		return d, nil
	}
}

func replayable(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, http.MethodOptions:
		return true
	}

	return false
}

// transient reports whether a transport error is worth another attempt. An
// ended context is never retried: the caller has gone or run out of time.
func transient(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr)
}

// rewind makes a replayable request's body readable again for the next
// attempt, buffering it first when nothing can recreate it.
func rewind(req *http.Request) error {
	if req.Body == nil || req.Body == http.NoBody {
		return nil
	}

	if req.GetBody == nil {
		if !replayable(req.Method) {
			return nil
		}

		data, err := io.ReadAll(req.Body)
		if err != nil {
			return fmt.Errorf("buffering request body: %w", err)
		}

		_ = req.Body.Close()

		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		}
	}

	body, err := req.GetBody()
	if err != nil {
		return fmt.Errorf("rewinding request body: %w", err)
	}

	req.Body = body

	return nil
}

// discard drains a response that is about to be retried so its connection
// goes back to the pool.
func discard(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
