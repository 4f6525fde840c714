package telemetry

import (
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/jsamuelsen/agency-leads/internal/platform/telemetry"

// HeaderTraceID exposes the request's trace id so a visitor can quote it
// when reporting a failed submission.
const HeaderTraceID = "X-Trace-ID"

// Request surfaces, used as the app.surface metric attribute.
const (
	SurfacePage   = "page"
	SurfaceHTMX   = "htmx"
	SurfaceAPI    = "api"
	SurfaceAgent  = "agent"
	SurfaceProbe  = "probe"
	SurfaceStatic = "static"
)

// Metrics holds the HTTP server instruments.
type Metrics struct {
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
}

// NewMetrics creates the HTTP server instruments on the global meter.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(instrumentationName)

	var (
		m   Metrics
		err error
	)

	m.requestDuration, err = meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.requestTotal, err = meter.Int64Counter("http.server.request.total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	m.activeRequests, err = meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Number of in-flight HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &m, nil
}

var sharedMetrics = sync.OnceValues(NewMetrics)

// Surface classifies a request by the part of the site it hits.
func Surface(c *gin.Context) string {
	path := c.Request.URL.Path

	switch {
	case strings.HasPrefix(path, "/-/"):
		return SurfaceProbe
	case strings.HasPrefix(path, "/static/"):
		return SurfaceStatic
	case strings.HasPrefix(path, "/api/v1/agent"):
		return SurfaceAgent
	case strings.HasPrefix(path, "/api/"):
		return SurfaceAPI
	case c.GetHeader("HX-Request") == "true":
		return SurfaceHTMX
	default:
		return SurfacePage
	}
}

// Middleware records request metrics tagged with the route and surface, and
// echoes the trace id in X-Trace-ID when a span is active. Run it after
// TracingMiddleware so the span exists.
func Middleware(serviceName string) gin.HandlerFunc {
	metrics, err := sharedMetrics()
	if err != nil {
		otel.Handle(err)
	}

	service := attribute.String("service.name", serviceName)

	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()

		base := []attribute.KeyValue{
			service,
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", c.FullPath()),
			attribute.String("app.surface", Surface(c)),
		}

		if metrics != nil {
			metrics.activeRequests.Add(ctx, 1, metric.WithAttributes(base...))
			defer metrics.activeRequests.Add(ctx, -1, metric.WithAttributes(base...))
		}

		if sc := trace.SpanFromContext(ctx).SpanContext(); sc.HasTraceID() {
			c.Header(HeaderTraceID, sc.TraceID().String())
		}

		c.Next()

		if metrics == nil {
			return
		}

		attrs := metric.WithAttributes(append(base, attribute.Int("http.status_code", c.Writer.Status()))...)
		metrics.requestDuration.Record(ctx, time.Since(start).Seconds(), attrs)
		metrics.requestTotal.Add(ctx, 1, attrs)
	}
}

// TracingMiddleware starts a server span per request. Probe and static
// routes are not traced.
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName, otelgin.WithGinFilter(func(c *gin.Context) bool {
		switch Surface(c) {
		case SurfaceProbe, SurfaceStatic:
			return false
		default:
			return true
		}
	}))
}
