package acl

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/agency-leads/internal/adapters/clients"
	"github.com/jsamuelsen/agency-leads/internal/domain"
)

// BackendError is the body of a failed quote backend call. The backend has
// used three shapes over its lifetime:
//
//	{"error": {"code": "...", "message": "...", "details": {...}}}
//	{"error": "Not found"}
//	{"code": "...", "message": "..."}
type BackendError struct {
	Code    string
	Message string
	Details map[string]string
}

// ParseBackendError decodes any of the three shapes. It returns nil for an
// empty, unreadable or contentless body.
func ParseBackendError(r io.Reader) *BackendError {
	if r == nil {
		return nil
	}

	var raw struct {
		Error   json.RawMessage `json:"error"`
		Code    string          `json:"code"`
		Message string          `json:"message"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil
	}

	be := &BackendError{Code: raw.Code, Message: raw.Message}

	var nested struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	}

	var bare string

	switch {
	case len(raw.Error) == 0:
	case json.Unmarshal(raw.Error, &bare) == nil:
		be.Message = cmp.Or(bare, be.Message)
	case json.Unmarshal(raw.Error, &nested) == nil:
		be.Code = cmp.Or(nested.Code, be.Code)
		be.Message = cmp.Or(nested.Message, be.Message)
		be.Details = nested.Details
	}

	if be.Code == "" && be.Message == "" && len(be.Details) == 0 {
		return nil
	}

	return be
}

// Codes the backend may put in an error body.
const (
	BackendCodeNotFound     = "NOT_FOUND"
	BackendCodeConflict     = "CONFLICT"
	BackendCodeValidation   = "VALIDATION_ERROR"
	BackendCodeForbidden    = "FORBIDDEN"
	BackendCodeUnauthorized = "UNAUTHORIZED"
)

// statusKinds decides the error kind from the status alone. Statuses missing
// here fall back to the body's code.
var statusKinds = map[int]error{
	http.StatusBadRequest:          domain.ErrValidation,
	http.StatusUnprocessableEntity: domain.ErrValidation,
	http.StatusUnauthorized:        domain.ErrForbidden,
	http.StatusForbidden:           domain.ErrForbidden,
	http.StatusNotFound:            domain.ErrNotFound,
	http.StatusConflict:            domain.ErrConflict,
	http.StatusTooManyRequests:     domain.ErrUnavailable,
}

var codeKinds = map[string]error{
	BackendCodeNotFound:     domain.ErrNotFound,
	BackendCodeConflict:     domain.ErrConflict,
	BackendCodeValidation:   domain.ErrValidation,
	BackendCodeForbidden:    domain.ErrForbidden,
	BackendCodeUnauthorized: domain.ErrForbidden,
}

var statusMessages = map[int]string{
	http.StatusBadRequest:         "invalid request",
	http.StatusUnauthorized:       "authentication required",
	http.StatusForbidden:          "access denied",
	http.StatusNotFound:           "resource not found",
	http.StatusConflict:           "resource conflict",
	http.StatusTooManyRequests:    "rate limit exceeded",
	http.StatusServiceUnavailable: "service temporarily unavailable",
}

// MapHTTPError turns a failed backend call into a domain error, or returns
// nil for a 2xx. clientErr wins when set: no usable response arrived.
// entityID names the quote for not-found errors and may be empty.
func MapHTTPError(resp *http.Response, clientErr error, serviceName, operation, entityID string) error {
	switch {
	case clientErr != nil:
		return domain.NewUnavailableError(serviceName, transportReason(clientErr, operation))
	case resp == nil:
		return domain.NewUnavailableError(serviceName, "no response received")
	case resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices:
		return nil
	}

	var be *BackendError
	if resp.Body != nil {
		be = ParseBackendError(resp.Body)
	}

	if be == nil {
		be = &BackendError{}
	}

	status := resp.StatusCode

	message := be.Message
	if message == "" {
		message = statusMessages[status]
	}

	if message == "" {
		message = fmt.Sprintf("%s failed with status %d", operation, status)
	}

	kind, ok := statusKinds[status]

	switch {
	case ok:
	case status >= http.StatusInternalServerError:
		kind = domain.ErrUnavailable
	case be.Code != "":
		kind = cmp.Or(codeKinds[be.Code], domain.ErrUnavailable)
	default:
		kind = domain.ErrValidation
	}

	// The backend's own credentials failing is not the visitor's business.
	if status == http.StatusUnauthorized || be.Code == BackendCodeUnauthorized {
		message = statusMessages[http.StatusUnauthorized]
	}

	if status == http.StatusTooManyRequests {
		message = statusMessages[status]
	}

	return domainError(kind, be, message, serviceName, operation, entityID)
}

func domainError(kind error, be *BackendError, message, serviceName, operation, entityID string) error {
	switch kind {
	case domain.ErrNotFound:
		return domain.NewNotFoundError("quote", entityID)
	case domain.ErrConflict:
		return domain.NewConflictError("quote", message)
	case domain.ErrValidation:
		if len(be.Details) > 0 {
			return domain.NewFieldErrors("quote", be.Details)
		}

		return domain.NewValidationError("", message)
	case domain.ErrForbidden:
		return domain.NewForbiddenError(operation, message)
	default:
		return domain.NewUnavailableError(serviceName, message)
	}
}

func transportReason(err error, operation string) string {
	switch {
	case errors.Is(err, clients.ErrCircuitOpen):
		return "circuit breaker open during " + operation
	case errors.Is(err, clients.ErrMaxRetriesExceeded):
		return "max retries exceeded during " + operation
	default:
		return fmt.Sprintf("%s failed: %v", operation, err)
	}
}
