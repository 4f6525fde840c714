// Package middleware provides HTTP middleware for the Gin framework.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/jsamuelsen/agency-leads/internal/platform/logging"
)

const (
	// HeaderRequestID identifies one inbound request.
	HeaderRequestID = "X-Request-ID"

	// HeaderCorrelationID follows a lead across the site and the quote
	// backend, and is echoed by upstream gateways.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyRequestID is the gin.Context key holding the request ID.
	ContextKeyRequestID = "request_id"

	// ContextKeyCorrelationID is the gin.Context key holding the correlation ID.
	ContextKeyCorrelationID = "correlation_id"

	// maxInboundID bounds how much of a caller's header reaches the logs.
	maxInboundID = 128
)

type idKey int

const (
	requestIDKey idKey = iota
	correlationIDKey
)

// idKind describes one propagated identifier.
type idKind struct {
	header  string
	ginKey  string
	ctxKey  idKey
	newID   func() string
	logWith func(context.Context, string) context.Context
}

var (
	// Request IDs are ULIDs so log lines for one day sort by arrival.
	requestIDKind = idKind{
		header:  HeaderRequestID,
		ginKey:  ContextKeyRequestID,
		ctxKey:  requestIDKey,
		newID:   func() string { return ulid.Make().String() },
		logWith: logging.WithRequestID,
	}

	correlationIDKind = idKind{
		header:  HeaderCorrelationID,
		ginKey:  ContextKeyCorrelationID,
		ctxKey:  correlationIDKey,
		newID:   func() string { return uuid.NewString() },
		logWith: logging.WithCorrelationID,
	}
)

// RequestID accepts a well-formed X-Request-ID or mints a ULID, then exposes
// it on the gin.Context, the request context, the response and the logger.
func RequestID() gin.HandlerFunc { return requestIDKind.middleware() }

// CorrelationID does the same for X-Correlation-ID, minting a UUID when the
// lead's journey starts here.
func CorrelationID() gin.HandlerFunc { return correlationIDKind.middleware() }

func (k idKind) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(k.header)
		if !validInboundID(id) {
			id = k.newID()
		}

		c.Set(k.ginKey, id)
		c.Header(k.header, id)

		ctx := context.WithValue(c.Request.Context(), k.ctxKey, id)
		c.Request = c.Request.WithContext(k.logWith(ctx, id))

		c.Next()
	}
}

// validInboundID accepts the characters used by UUIDs, ULIDs and common
// gateway trace formats. Anything else is replaced rather than logged.
func validInboundID(id string) bool {
	if id == "" || len(id) > maxInboundID {
		return false
	}

	for i := range len(id) {
		switch ch := id[i]; {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case ch == '-', ch == '_', ch == '.', ch == ':':
		default:
			return false
		}
	}

	return true
}

func ginID(c *gin.Context, key string) string {
	s, _ := c.Value(key).(string)
	return s
}

func ctxID(ctx context.Context, key idKey) string {
	if ctx == nil {
		return ""
	}

	s, _ := ctx.Value(key).(string)

	return s
}

// GetRequestID returns the request ID set by RequestID, or "".
func GetRequestID(c *gin.Context) string { return ginID(c, ContextKeyRequestID) }

// GetCorrelationID returns the correlation ID set by CorrelationID, or "".
func GetCorrelationID(c *gin.Context) string { return ginID(c, ContextKeyCorrelationID) }

// MustGetRequestID is GetRequestID with "unknown" in place of "".
func MustGetRequestID(c *gin.Context) string { return orUnknown(GetRequestID(c)) }

// MustGetCorrelationID is GetCorrelationID with "unknown" in place of "".
func MustGetCorrelationID(c *gin.Context) string { return orUnknown(GetCorrelationID(c)) }

func orUnknown(id string) string {
	if id == "" {
		return "unknown"
	}

	return id
}

// RequestIDFromContext returns the request ID for propagation to the quote
// backend.
func RequestIDFromContext(ctx context.Context) string { return ctxID(ctx, requestIDKey) }

// CorrelationIDFromContext returns the correlation ID for propagation to the
// quote backend.
func CorrelationIDFromContext(ctx context.Context) string { return ctxID(ctx, correlationIDKey) }

// ContextWithRequestID stores a request ID outside of a gin request, for
// background work that calls the quote backend.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// ContextWithCorrelationID stores a correlation ID outside of a gin request.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey, id)
}
