package ports

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

// ErrDuplicateChecker is returned when a checker name is registered twice.
var ErrDuplicateChecker = errors.New("duplicate health checker")

// DefaultCheckTimeout bounds one check so a hung quote backend cannot stall
// the readiness probe.
const DefaultCheckTimeout = 2 * time.Second

// HealthChecker is implemented by components that can report their health:
// the quote backend client, the wizard session cache and the contact file.
type HealthChecker interface {
	// Name identifies the component in the readiness response.
	Name() string

	// Check returns nil when the component is usable.
	Check(ctx context.Context) error
}

// CheckFunc adapts a function into a named HealthChecker.
type CheckFunc struct {
	name  string
	check func(ctx context.Context) error
}

// NewCheckFunc returns a HealthChecker named name that runs check.
func NewCheckFunc(name string, check func(ctx context.Context) error) *CheckFunc {
	return &CheckFunc{name: name, check: check}
}

func (f *CheckFunc) Name() string                    { return f.name }
func (f *CheckFunc) Check(ctx context.Context) error { return f.check(ctx) }

type nonCritical struct{ HealthChecker }

// NonCritical marks a checker whose failure degrades the site without
// stopping lead capture, such as the contact lookup file.
func NonCritical(c HealthChecker) HealthChecker { return nonCritical{c} }

func isCritical(c HealthChecker) bool {
	_, ok := c.(nonCritical)
	return !ok
}

// HealthRegistry aggregates the checks registered at startup.
type HealthRegistry interface {
	// Register returns ErrDuplicateChecker if the name is taken.
	Register(checker HealthChecker) error

	// CheckAll runs every check concurrently under ctx.
	CheckAll(ctx context.Context) *HealthResult
}

// HealthStatus is the state of one component or of the whole service.
type HealthStatus string

const (
	HealthStatusHealthy HealthStatus = "healthy"

	// HealthStatusDegraded means only non-critical checks failed; quotes
	// can still be captured.
	HealthStatusDegraded HealthStatus = "degraded"

	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResult is the aggregated outcome of CheckAll.
type HealthResult struct {
	Status    HealthStatus            `json:"status"`
	Checks    map[string]*CheckResult `json:"checks"`
	Timestamp time.Time               `json:"timestamp"`
}

// Failing returns the names of failed checks in sorted order.
func (r *HealthResult) Failing() []string {
	var names []string

	for name, c := range r.Checks {
		if c.Status != HealthStatusHealthy {
			names = append(names, name)
		}
	}

	slices.Sort(names)

	return names
}

// CheckResult is the outcome of one check.
type CheckResult struct {
	Status   HealthStatus  `json:"status"`
	Critical bool          `json:"critical"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration"`
}

// DefaultHealthRegistry is a thread-safe HealthRegistry.
type DefaultHealthRegistry struct {
	mu       sync.RWMutex
	checkers []HealthChecker
	timeout  time.Duration
}

// NewHealthRegistry returns an empty registry using DefaultCheckTimeout.
func NewHealthRegistry() *DefaultHealthRegistry {
	return &DefaultHealthRegistry{timeout: DefaultCheckTimeout}
}

// WithCheckTimeout replaces the per-check deadline. Zero disables it.
func (r *DefaultHealthRegistry) WithCheckTimeout(d time.Duration) *DefaultHealthRegistry {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.timeout = d

	return r
}

// Register adds checker, rejecting a name that is already taken.
func (r *DefaultHealthRegistry) Register(checker HealthChecker) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := checker.Name()
	if slices.ContainsFunc(r.checkers, func(c HealthChecker) bool { return c.Name() == name }) {
		return fmt.Errorf("%w: %s", ErrDuplicateChecker, name)
	}

	r.checkers = append(r.checkers, checker)

	return nil
}

// CheckAll runs every check concurrently. The service is unhealthy when a
// critical check fails and degraded when only non-critical ones do.
func (r *DefaultHealthRegistry) CheckAll(ctx context.Context) *HealthResult {
	r.mu.RLock()
	checkers := slices.Clone(r.checkers)
	timeout := r.timeout
	r.mu.RUnlock()

	results := make([]*CheckResult, len(checkers))

	var wg sync.WaitGroup
	for i, c := range checkers {
		wg.Go(func() { results[i] = runCheck(ctx, c, timeout) })
	}
	wg.Wait()

	out := &HealthResult{
		Status:    HealthStatusHealthy,
		Checks:    make(map[string]*CheckResult, len(checkers)),
		Timestamp: time.Now(),
	}

	for i, c := range checkers {
		res := results[i]
		out.Checks[c.Name()] = res

		switch {
		case res.Status == HealthStatusHealthy:
		case res.Critical:
			out.Status = HealthStatusUnhealthy
		case out.Status == HealthStatusHealthy:
			out.Status = HealthStatusDegraded
		}
	}

	return out
}

func runCheck(ctx context.Context, c HealthChecker, timeout time.Duration) *CheckResult {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	err := c.Check(ctx)

	res := &CheckResult{
		Status:   HealthStatusHealthy,
		Critical: isCritical(c),
		Duration: time.Since(start),
	}

	if err != nil {
		res.Status = HealthStatusUnhealthy
		res.Message = err.Error()
	}

	return res
}
