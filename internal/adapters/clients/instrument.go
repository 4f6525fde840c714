package clients

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/agency-leads/internal/adapters/http/middleware"
)

const instrumentationName = "github.com/jsamuelsen/agency-leads/internal/adapters/clients"

// Call results recorded on the backend metrics.
const (
	resultBlocked = "circuit_open"
	resultFailed  = "error"
)

// instruments is the span and metric plumbing around one backend.
type instruments struct {
	service string
	tracer  trace.Tracer

	latency metric.Float64Histogram
	calls   metric.Int64Counter
}

func newInstruments(service string) (*instruments, error) {
	meter := otel.Meter(instrumentationName)

	latency, err := meter.Float64Histogram(
		"http.client.request.duration",
		metric.WithDescription("Time spent on calls to the quote backend, retries included"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating duration metric: %w", err)
	}

	calls, err := meter.Int64Counter(
		"http.client.request.total",
		metric.WithDescription("Calls to the quote backend by result"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request counter: %w", err)
	}

	return &instruments{
		service: service,
		tracer:  otel.Tracer(instrumentationName),
		latency: latency,
		calls:   calls,
	}, nil
}

// start opens the client span and stamps the request with the caller's
// request and correlation IDs plus the trace context.
func (in *instruments) start(ctx context.Context, req *http.Request) (context.Context, trace.Span) {
	if id := middleware.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderRequestID, id)
	}

	if id := middleware.CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderCorrelationID, id)
	}

	ctx, span := in.tracer.Start(ctx, "HTTP "+req.Method+" "+in.service,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
			attribute.String("peer.service", in.service),
		),
	)

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	return ctx, span
}

// finish closes out span and metrics for a call that produced resp or err.
func (in *instruments) finish(ctx context.Context, span trace.Span, method string, resp *http.Response, err error, elapsed time.Duration) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		in.observe(ctx, method, 0, elapsed, resultFailed)

		return
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, "HTTP "+strconv.Itoa(resp.StatusCode))
	}

	in.observe(ctx, method, resp.StatusCode, elapsed, statusClass(resp.StatusCode))
}

func (in *instruments) observe(ctx context.Context, method string, status int, elapsed time.Duration, result string) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("peer.service", in.service),
		attribute.String("result", result),
	}

	if status > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", status))
	}

	set := metric.WithAttributes(attrs...)
	in.latency.Record(ctx, elapsed.Seconds(), set)
	in.calls.Add(ctx, 1, set)
}

// statusClass is "2xx", "4xx" and so on.
func statusClass(status int) string {
	return strconv.Itoa(status/100) + "xx"
}
