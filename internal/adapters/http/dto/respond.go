package dto

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/agency-leads/internal/domain"
	"github.com/jsamuelsen/agency-leads/internal/platform/logging"
)

// TraceIDKey is the gin context key the telemetry middleware stores the
// active trace ID under.
const TraceIDKey = "trace_id"

// GetTraceID returns the identifier echoed in error envelopes.
// Precedence: the gin context value, the active span, then X-Request-ID.
func GetTraceID(c *gin.Context) string {
	if v, ok := c.Get(TraceIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}

		return ""
	}

	if c.Request == nil {
		return ""
	}

	if sc := trace.SpanFromContext(c.Request.Context()).SpanContext(); sc.HasTraceID() {
		return sc.TraceID().String()
	}

	return c.Request.Header.Get("X-Request-ID")
}

// MapError maps a domain error to an HTTP status code and error envelope.
// Unknown errors get a generic message so internals never leak.
func MapError(err error) (int, *ErrorResponse) {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest, NewErrorResponseWithDetails(
			ErrorCodeValidation, err.Error(), domain.ValidationDetails(err),
		)
	case domain.IsNotFound(err):
		return http.StatusNotFound, NewErrorResponse(ErrorCodeNotFound, err.Error())
	case domain.IsConflict(err):
		return http.StatusConflict, NewErrorResponse(ErrorCodeConflict, err.Error())
	case domain.IsForbidden(err):
		return http.StatusForbidden, NewErrorResponse(ErrorCodeForbidden, err.Error())
	case domain.IsUnavailable(err):
		return http.StatusServiceUnavailable, NewErrorResponse(
			ErrorCodeUnavailable, "quote service temporarily unavailable, please try again",
		)
	default:
		return http.StatusInternalServerError, NewErrorResponse(
			ErrorCodeInternal, "an internal error occurred",
		)
	}
}

// HandleError writes the error envelope for err and logs anything that
// maps to a 5xx.
func HandleError(c *gin.Context, err error) {
	status, resp := MapError(err)
	resp.TraceID = GetTraceID(c)

	if status >= http.StatusInternalServerError {
		logging.FromContext(c.Request.Context()).Error("request failed",
			slog.Int("status", status),
			slog.String("error", err.Error()),
			slog.String("trace_id", resp.TraceID),
		)
	}

	c.AbortWithStatusJSON(status, resp)
}

// AbortWithCode aborts the chain with an adapter-level error code, such as a
// malformed body, that does not originate in the domain.
func AbortWithCode(c *gin.Context, code, message string) {
	resp := NewErrorResponse(code, message).WithTraceID(GetTraceID(c))
	c.AbortWithStatusJSON(HTTPStatusFromCode(code), resp)
}

// AbortWithValidation aborts the chain with a 400 carrying field-level messages.
func AbortWithValidation(c *gin.Context, fields map[string]string) {
	resp := NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed", fields)
	resp.TraceID = GetTraceID(c)

	c.AbortWithStatusJSON(http.StatusBadRequest, resp)
}

// AbortWithBindError writes the response for a request that failed to bind or
// validate: 413 when the body hit the size limit, 400 with field messages for
// tag failures, and a plain 400 otherwise.
func AbortWithBindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &tooLarge):
		AbortWithCode(c, ErrorCodeTooLarge, "request body too large")
	case IsValidationError(err):
		AbortWithValidation(c, ValidationErrors(err))
	default:
		AbortWithCode(c, ErrorCodeBadRequest, "malformed request")
	}
}
