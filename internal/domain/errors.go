// Package domain contains the lead-capture model: quote payloads, product
// schemas, the boat wizard state machine, blog posts, and the errors they raise.
// Domain errors describe what went wrong for the visitor or agent; mapping
// them to HTTP statuses is the adapters' job.
package domain

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Kinds of failure. Match them with errors.Is or the Is* helpers.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrValidation  = errors.New("validation failed")
	ErrForbidden   = errors.New("forbidden")
	ErrUnavailable = errors.New("unavailable")
)

// Error is a failure of one Kind. Subject names what it concerns: a quote
// collection, a wizard slot, an operation, a backend service or an input
// field, depending on Kind.
type Error struct {
	Kind    error
	Subject string
	ID      string
	Reason  string
	Detail  string

	// Value is the rejected input of a single-field validation failure.
	Value any
}

func (e *Error) Error() string {
	var b strings.Builder

	switch e.Kind {
	case ErrNotFound:
		b.WriteString(e.Subject)
		if e.ID != "" {
			fmt.Fprintf(&b, " %q", e.ID)
		}

		b.WriteString(" not found")

		return b.String()
	case ErrValidation:
		b.WriteString("validation failed")
		if e.Subject != "" {
			b.WriteString(" for " + e.Subject)
		}
	default:
		b.WriteString(e.Subject + " " + e.Kind.Error())
	}

	if e.Reason != "" {
		b.WriteString(": " + e.Reason)
	}

	if e.Detail != "" {
		b.WriteString(" (" + e.Detail + ")")
	}

	return b.String()
}

func (e *Error) Unwrap() error { return e.Kind }

func NewNotFoundError(entity, id string) error {
	return &Error{Kind: ErrNotFound, Subject: entity, ID: id}
}

func NewConflictError(entity, reason string) error {
	return &Error{Kind: ErrConflict, Subject: entity, Reason: reason}
}

// NewConflictErrorWithDetails adds a detail such as the limit that was hit.
func NewConflictErrorWithDetails(entity, reason, details string) error {
	return &Error{Kind: ErrConflict, Subject: entity, Reason: reason, Detail: details}
}

// NewValidationError rejects one input field. An empty field makes it a
// whole-request failure that carries no field details.
func NewValidationError(field, message string) error {
	return &Error{Kind: ErrValidation, Subject: field, Reason: message}
}

func NewValidationErrorWithValue(field, message string, value any) error {
	return &Error{Kind: ErrValidation, Subject: field, Reason: message, Value: value}
}

func NewForbiddenError(operation, reason string) error {
	return &Error{Kind: ErrForbidden, Subject: operation, Reason: reason}
}

func NewUnavailableError(service, reason string) error {
	return &Error{Kind: ErrUnavailable, Subject: service, Reason: reason}
}

// FieldErrors is every failed field of one form submission, keyed by field
// path, so the page can mark them all at once.
type FieldErrors struct {
	Entity string
	Fields map[string]string
}

func (e *FieldErrors) Error() string {
	names := slices.Sorted(maps.Keys(e.Fields))

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + e.Fields[name]
	}

	return fmt.Sprintf("validation failed for %s: %s", e.Entity, strings.Join(parts, "; "))
}

func (e *FieldErrors) Unwrap() error { return ErrValidation }

// NewFieldErrors returns nil when fields is empty, so a validator can return
// its result unconditionally.
func NewFieldErrors(entity string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}

	return &FieldErrors{Entity: entity, Fields: fields}
}

// ValidationDetails returns a copy of the per-field messages carried by err,
// or nil when it carries none.
func ValidationDetails(err error) map[string]string {
	var fe *FieldErrors
	if errors.As(err, &fe) {
		return maps.Clone(fe.Fields)
	}

	var e *Error
	if errors.As(err, &e) && e.Kind == ErrValidation && e.Subject != "" {
		return map[string]string{e.Subject: e.Reason}
	}

	return nil
}

func IsNotFound(err error) bool    { return errors.Is(err, ErrNotFound) }
func IsConflict(err error) bool    { return errors.Is(err, ErrConflict) }
func IsValidation(err error) bool  { return errors.Is(err, ErrValidation) }
func IsForbidden(err error) bool   { return errors.Is(err, ErrForbidden) }
func IsUnavailable(err error) bool { return errors.Is(err, ErrUnavailable) }
