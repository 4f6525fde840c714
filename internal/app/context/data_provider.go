package context

import (
	"context"
	"fmt"
)

// DataProvider is a named data source whose result is memoized per request.
type DataProvider interface {
	// Key identifies the value within the request.
	Key() string

	// Fetch loads the value.
	Fetch(ctx context.Context) (any, error)
}

// GetOrFetchProvider loads provider's value through GetOrFetch.
func (rc *RequestContext) GetOrFetchProvider(provider DataProvider) (any, error) {
	return rc.GetOrFetch(provider.Key(), provider.Fetch)
}

// Fetch is GetOrFetchProvider with the result asserted to T.
func Fetch[T any](rc *RequestContext, provider DataProvider) (T, error) {
	var zero T

	v, err := rc.GetOrFetchProvider(provider)
	if err != nil {
		return zero, err
	}

	typed, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %q holds %T", ErrUnexpectedType, provider.Key(), v)
	}

	return typed, nil
}
