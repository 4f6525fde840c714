package logging

import (
	"context"
	"log/slog"
	"slices"
)

// Attribute keys shared by every request-scoped log line.
const (
	KeyRequestID     = "request_id"
	KeyCorrelationID = "correlation_id"
	KeyTraceID       = "trace_id"
	KeyQuoteType     = "quote_type"
	KeyWizardID      = "wizard_id"
)

type (
	loggerKey struct{}
	attrsKey  struct{}
)

// FromContext returns the logger carried by ctx, or slog.Default.
func FromContext(ctx context.Context) *slog.Logger {
	return FromContextOr(ctx, slog.Default())
}

// FromContextOr returns the logger carried by ctx, or fallback when there is
// none. Attributes added with With are applied to either.
func FromContextOr(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if ctx == nil {
		return fallback
	}

	logger := fallback
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		logger = l
	}

	if attrs, ok := ctx.Value(attrsKey{}).([]slog.Attr); ok {
		return slog.New(logger.Handler().WithAttrs(attrs))
	}

	return logger
}

// WithContext stores logger in ctx.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// With returns a context whose logger carries attrs on every line. The
// attributes travel separately from the logger, so a component logging
// through its own fallback logger still picks them up.
func With(ctx context.Context, attrs ...slog.Attr) context.Context {
	if len(attrs) == 0 {
		return ctx
	}

	prev, _ := ctx.Value(attrsKey{}).([]slog.Attr)

	return context.WithValue(ctx, attrsKey{}, slices.Concat(prev, attrs))
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return With(ctx, slog.String(KeyRequestID, id))
}

func WithCorrelationID(ctx context.Context, id string) context.Context {
	return With(ctx, slog.String(KeyCorrelationID, id))
}

func WithTraceID(ctx context.Context, id string) context.Context {
	return With(ctx, slog.String(KeyTraceID, id))
}

// WithQuoteType tags lines logged while a quote of that product is handled.
func WithQuoteType(ctx context.Context, quoteType string) context.Context {
	return With(ctx, slog.String(KeyQuoteType, quoteType))
}

// WithWizardID tags lines logged while a boat wizard draft is handled.
func WithWizardID(ctx context.Context, id string) context.Context {
	return With(ctx, slog.String(KeyWizardID, id))
}
