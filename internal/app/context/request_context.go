package context

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

type ctxKey struct{}

// RequestContext is the unit of work of one request: reads memoized by key
// and writes staged until Commit.
type RequestContext struct {
	ctx context.Context

	fetches singleflight.Group

	mu        sync.Mutex
	values    map[string]any
	actions   []Action
	committed bool
}

// New returns an empty RequestContext whose fetches run with ctx.
func New(ctx context.Context) *RequestContext {
	return &RequestContext{ctx: ctx, values: make(map[string]any)}
}

// FromContext returns the RequestContext carried by ctx, or nil.
func FromContext(ctx context.Context) *RequestContext {
	if ctx == nil {
		return nil
	}

	rc, _ := ctx.Value(ctxKey{}).(*RequestContext)

	return rc
}

func WithContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, ctxKey{}, rc)
}

// GetOrFetch returns the value stored under key, loading it with fetchFn on
// first use. Concurrent first callers share one fetch. Failed fetches are not
// remembered, so a later call tries again.
func (rc *RequestContext) GetOrFetch(key string, fetchFn func(ctx context.Context) (any, error)) (any, error) {
	if v, ok := rc.lookup(key); ok {
		return v, nil
	}

	v, err, _ := rc.fetches.Do(key, func() (any, error) {
		if v, ok := rc.lookup(key); ok {
			return v, nil
		}

		v, err := fetchFn(rc.ctx)
		if err != nil {
			return nil, err
		}

		rc.mu.Lock()
		rc.values[key] = v
		rc.mu.Unlock()

		return v, nil
	})

	return v, err
}

func (rc *RequestContext) lookup(key string) (any, bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	v, ok := rc.values[key]

	return v, ok
}

// Context returns the context passed to New.
func (rc *RequestContext) Context() context.Context {
	return rc.ctx
}
