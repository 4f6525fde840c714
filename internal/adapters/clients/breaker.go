package clients

import (
	"sync"
	"time"

	"github.com/jsamuelsen/agency-leads/internal/platform/config"
)

// State is the circuit state guarding the quote backend.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// outcome is how a finished call counts against the circuit.
type outcome int

const (
	outcomeSuccess outcome = iota
	outcomeFailure
	// outcomeIgnored frees a half-open probe without counting either way,
	// e.g. when the visitor navigated away mid-request.
	outcomeIgnored
)

// breaker trips after MaxFailures consecutive failures, stays open for
// Timeout, then admits up to HalfOpenLimit probes. That many successful
// probes close it again; one failed probe reopens it.
type breaker struct {
	cfg      config.CircuitBreakerConfig
	now      func() time.Time
	onChange func(from, to State)

	mu        sync.Mutex
	state     State
	failures  int
	successes int
	probes    int
	openedAt  time.Time
}

func newBreaker(cfg config.CircuitBreakerConfig, onChange func(from, to State)) *breaker {
	return &breaker{cfg: cfg, now: time.Now, onChange: onChange}
}

// acquire admits a call, or returns ErrCircuitOpen. The returned func must be
// called exactly once with the call's outcome.
func (b *breaker) acquire() (func(outcome), error) {
	b.mu.Lock()

	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.cfg.Timeout {
		b.mu.Unlock()
		b.transition(StateOpen, StateHalfOpen)
		b.mu.Lock()
	}

	switch b.state {
	case StateOpen:
		b.mu.Unlock()
		return nil, ErrCircuitOpen
	case StateHalfOpen:
		if b.probes >= max(b.cfg.HalfOpenLimit, 1) {
			b.mu.Unlock()
			return nil, ErrCircuitOpen
		}

		b.probes++
	}

	b.mu.Unlock()

	var once sync.Once

	return func(o outcome) { once.Do(func() { b.record(o) }) }, nil
}

func (b *breaker) record(o outcome) {
	b.mu.Lock()

	from := b.state
	to := from

	switch from {
	case StateClosed:
		switch o {
		case outcomeSuccess:
			b.failures = 0
		case outcomeFailure:
			b.failures++
			if b.failures >= b.cfg.MaxFailures {
				to = StateOpen
			}
		}
	case StateHalfOpen:
		b.probes = max(b.probes-1, 0)

		switch o {
		case outcomeSuccess:
			b.successes++
			if b.successes >= max(b.cfg.HalfOpenLimit, 1) {
				to = StateClosed
			}
		case outcomeFailure:
			to = StateOpen
		}
	}

	b.mu.Unlock()

	if to != from {
		b.transition(from, to)
	}
}

// transition moves the breaker from one state to another, unless another
// goroutine already moved it. The listener runs outside the lock.
func (b *breaker) transition(from, to State) {
	b.mu.Lock()
	if b.state != from {
		b.mu.Unlock()
		return
	}

	b.state = to
	b.failures, b.successes, b.probes = 0, 0, 0

	if to == StateOpen {
		b.openedAt = b.now()
	}
	b.mu.Unlock()

	if b.onChange != nil {
		b.onChange(from, to)
	}
}

func (b *breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state
}
