package acl

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/agency-leads/internal/adapters/clients"
	"github.com/jsamuelsen/agency-leads/internal/domain"
)

func response(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestMapHTTPError_Status(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
		substr string
	}{
		{"not found", http.StatusNotFound, `{"error":"Not found"}`, domain.IsNotFound, `"q-1"`},
		{"conflict", http.StatusConflict, `{"error":{"code":"CONFLICT","message":"duplicate quote"}}`, domain.IsConflict, "duplicate quote"},
		{"bad request", http.StatusBadRequest, `{"message":"email is malformed"}`, domain.IsValidation, "email is malformed"},
		{"forbidden", http.StatusForbidden, ``, domain.IsForbidden, "access denied"},
		{"unauthorized", http.StatusUnauthorized, ``, domain.IsForbidden, "authentication required"},
		{"rate limited", http.StatusTooManyRequests, ``, domain.IsUnavailable, "rate limit exceeded"},
		{"bad gateway", http.StatusBadGateway, ``, domain.IsUnavailable, "status 502"},
		{"service unavailable", http.StatusServiceUnavailable, ``, domain.IsUnavailable, "temporarily unavailable"},
		{"unknown 4xx", http.StatusTeapot, ``, domain.IsValidation, "status 418"},
		{"unknown 4xx with code", http.StatusGone, `{"code":"NOT_FOUND","message":"archived"}`, domain.IsNotFound, `"q-1"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapHTTPError(response(tt.status, tt.body), nil, "quote-api", "get quote", "q-1")

			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error kind: %v", err)
			assert.Contains(t, err.Error(), tt.substr)
		})
	}
}

func TestMapHTTPError_ValidationDetails(t *testing.T) {
	body := `{"error":{"code":"VALIDATION_ERROR","message":"bad","details":{"email":"is invalid","phoneNumber":"too short"}}}`

	err := MapHTTPError(response(http.StatusUnprocessableEntity, body), nil, "quote-api", "create quote", "")

	require.Error(t, err)
	assert.True(t, domain.IsValidation(err))

	var fieldErrs *domain.FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Equal(t, map[string]string{"email": "is invalid", "phoneNumber": "too short"}, fieldErrs.Fields)
}

func TestMapHTTPError_ClientErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		substr string
	}{
		{"circuit open", clients.ErrCircuitOpen, "circuit breaker open during list quotes"},
		{"retries exhausted", fmt.Errorf("%w after 3 attempts: %w", clients.ErrMaxRetriesExceeded, io.ErrUnexpectedEOF), "max retries exceeded"},
		{"transport", errors.New("dial tcp: connection refused"), "list quotes failed: dial tcp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := MapHTTPError(nil, tt.err, "quote-api", "list quotes", "")

			assert.True(t, domain.IsUnavailable(err))
			assert.Contains(t, err.Error(), tt.substr)
		})
	}
}

func TestMapHTTPError_SuccessReturnsNil(t *testing.T) {
	assert.NoError(t, MapHTTPError(response(http.StatusOK, ``), nil, "quote-api", "get quote", ""))
	assert.NoError(t, MapHTTPError(response(http.StatusNoContent, ``), nil, "quote-api", "delete quote", ""))
}

func TestMapHTTPError_NilResponse(t *testing.T) {
	err := MapHTTPError(nil, nil, "quote-api", "get quote", "")

	assert.True(t, domain.IsUnavailable(err))
	assert.Contains(t, err.Error(), "no response received")
}

func TestMapHTTPError_BodyCodeDecidesUnmappedStatus(t *testing.T) {
	tests := []struct {
		code  string
		check func(error) bool
	}{
		{BackendCodeNotFound, domain.IsNotFound},
		{BackendCodeConflict, domain.IsConflict},
		{BackendCodeValidation, domain.IsValidation},
		{BackendCodeForbidden, domain.IsForbidden},
		{BackendCodeUnauthorized, domain.IsForbidden},
		{"SOMETHING_ELSE", domain.IsUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			body := fmt.Sprintf(`{"code":%q,"message":"message"}`, tt.code)
			err := MapHTTPError(response(http.StatusGone, body), nil, "quote-api", "get quote", "q-1")
			assert.True(t, tt.check(err), "unexpected error kind: %v", err)
		})
	}
}

// --- ParseBackendError Tests ---

func TestParseBackendError(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantNil     bool
		wantCode    string
		wantMessage string
	}{
		{name: "nested", body: `{"error":{"code":"NOT_FOUND","message":"not found"}}`, wantCode: "NOT_FOUND", wantMessage: "not found"},
		{name: "top level", body: `{"code":"CONFLICT","message":"already exists"}`, wantCode: "CONFLICT", wantMessage: "already exists"},
		{name: "bare string", body: `{"error":"Not found"}`, wantMessage: "Not found"},
		{name: "null error", body: `{"error":null,"message":"gone"}`, wantMessage: "gone"},
		{name: "invalid json", body: `not json`, wantNil: true},
		{name: "empty object", body: `{}`, wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ParseBackendError(strings.NewReader(tt.body))

			if tt.wantNil {
				assert.Nil(t, resp)
				return
			}

			require.NotNil(t, resp)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.Equal(t, tt.wantMessage, resp.Message)
		})
	}
}

func TestParseBackendError_NilBody(t *testing.T) {
	assert.Nil(t, ParseBackendError(nil))
}
