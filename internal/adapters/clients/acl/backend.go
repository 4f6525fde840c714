package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/jsamuelsen/agency-leads/internal/adapters/clients"
	"github.com/jsamuelsen/agency-leads/internal/domain"
	"github.com/jsamuelsen/agency-leads/internal/platform/logging"
)

// ErrEmptyBody is returned when a response that must carry JSON has none.
var ErrEmptyBody = errors.New("response body is empty")

// call names one backend operation in logs and errors. id is the quote it
// targets, if any, and ends up in not-found errors.
type call struct {
	op string
	id string
}

// backend sends JSON to the quote API and turns every failure into a
// domain error.
type backend struct {
	client  *clients.Client
	service string
}

// exchange sends body, if any, as JSON. A 4xx or 5xx is mapped and logged;
// on success the caller owns the response body.
func (b backend) exchange(ctx context.Context, c call, method, path string, body any) (*http.Response, error) {
	var payload []byte

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, b.reject(ctx, c, fmt.Errorf("encoding %s request: %w", c.op, err))
		}

		payload = data
	}

	var (
		resp *http.Response
		err  error
	)

	switch method {
	case http.MethodPost:
		resp, err = b.client.Post(ctx, path, payload)
	case http.MethodPut:
		resp, err = b.client.Put(ctx, path, payload)
	case http.MethodDelete:
		resp, err = b.client.Delete(ctx, path)
	default:
		resp, err = b.client.Get(ctx, path)
	}

	switch {
	case err != nil:
		return nil, b.reject(ctx, c, MapHTTPError(nil, err, b.service, c.op, c.id))
	case resp.StatusCode >= http.StatusBadRequest:
		mapped := MapHTTPError(resp, nil, b.service, c.op, c.id)
		_ = resp.Body.Close()

		return nil, b.reject(ctx, c, mapped)
	}

	return resp, nil
}

// reject logs err against the call and returns it. Not-found and validation
// outcomes are ordinary traffic and stay at debug.
func (b backend) reject(ctx context.Context, c call, err error) error {
	level := slog.LevelWarn
	if domain.IsNotFound(err) || domain.IsValidation(err) {
		level = slog.LevelDebug
	}

	logging.FromContext(ctx).Log(ctx, level, "quote backend call failed",
		slog.String("operation", c.op),
		slog.String("downstream", b.service),
		slog.String("error", err.Error()),
	)

	return err
}

// garbled reports a 2xx whose body could not be read as the backend's
// contract promises.
func (b backend) garbled(ctx context.Context, c call, err error) error {
	return b.reject(ctx, c, domain.NewUnavailableError(b.service, err.Error()))
}

// decode reads one JSON value from body and closes it.
func decode[T any](body io.ReadCloser) (*T, error) {
	if body == nil {
		return nil, ErrEmptyBody
	}
	defer func() { _ = body.Close() }()

	var v T

	switch err := json.NewDecoder(body).Decode(&v); {
	case errors.Is(err, io.EOF):
		return nil, ErrEmptyBody
	case err != nil:
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &v, nil
}

func requireValue(field, value string) error {
	if value == "" {
		return domain.NewValidationError(field, "is required")
	}

	return nil
}

func requirePositive(field string, n int) error {
	if n <= 0 {
		return domain.NewValidationErrorWithValue(field, "must be positive", n)
	}

	return nil
}
