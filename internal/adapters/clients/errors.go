// Package clients is the outbound HTTP stack used to reach the quote backend:
// retries with backoff, a circuit breaker, tracing and request metrics.
package clients

import "errors"

// Transport-level failures. The acl package translates them into domain
// errors before they reach the app layer.
var (
	// ErrCircuitOpen means the call was refused locally because the quote
	// backend has been failing.
	ErrCircuitOpen = errors.New("circuit breaker open")

	// ErrMaxRetriesExceeded wraps the last error once every retry is spent.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)
