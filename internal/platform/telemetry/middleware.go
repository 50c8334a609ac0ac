package telemetry

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/blog-service/internal/platform/logging"
)

const (
	instrumentationName = "github.com/jsamuelsen/blog-service/telemetry"

	// ContextKeyTraceID is the gin context key holding the request's trace ID.
	ContextKeyTraceID = "trace_id"

	// HeaderTraceID echoes the trace ID to clients.
	HeaderTraceID = "X-Trace-ID"

	// unmatchedRoute labels requests no route matched, keeping arbitrary
	// paths out of metric attributes.
	unmatchedRoute = "unmatched"
)

// HTTPMetrics are the OTel HTTP server instruments.
type HTTPMetrics struct {
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
}

// NewHTTPMetrics creates the instruments on the global meter provider.
func NewHTTPMetrics() (*HTTPMetrics, error) {
	meter := otel.Meter(instrumentationName)

	var (
		m    HTTPMetrics
		err  error
		errs []error
	)

	m.requestDuration, err = meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Duration of blog HTTP requests"),
		metric.WithUnit("s"))
	errs = append(errs, err)

	m.requestTotal, err = meter.Int64Counter("http.server.request.total",
		metric.WithDescription("Blog HTTP requests served"))
	errs = append(errs, err)

	m.activeRequests, err = meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Blog HTTP requests in flight"))
	errs = append(errs, err)

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return &m, nil
}

// Middleware records HTTP metrics and surfaces the trace ID. It must run
// after TracingMiddleware: when a span is active its trace ID is stored
// under ContextKeyTraceID, attached to the request logger and echoed in
// X-Trace-ID.
func Middleware(serviceName string) gin.HandlerFunc {
	metrics, err := NewHTTPMetrics()
	if err != nil {
		otel.Handle(err)
	}

	service := attribute.String("service.name", serviceName)

	return func(c *gin.Context) {
		exposeTraceID(c)

		if metrics == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		start := time.Now()
		attrs := []attribute.KeyValue{
			service,
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", routeOf(c)),
		}

		inFlight := metric.WithAttributes(attrs...)
		metrics.activeRequests.Add(ctx, 1, inFlight)

		c.Next()

		metrics.activeRequests.Add(ctx, -1, inFlight)

		done := metric.WithAttributes(append(attrs, attribute.Int("http.status_code", c.Writer.Status()))...)
		metrics.requestDuration.Record(ctx, time.Since(start).Seconds(), done)
		metrics.requestTotal.Add(ctx, 1, done)
	}
}

func exposeTraceID(c *gin.Context) {
	sc := trace.SpanContextFromContext(c.Request.Context())
	if !sc.HasTraceID() {
		return
	}

	id := sc.TraceID().String()

	c.Set(ContextKeyTraceID, id)
	c.Header(HeaderTraceID, id)
	c.Request = c.Request.WithContext(logging.WithTraceID(c.Request.Context(), id))
}

func routeOf(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}

	return unmatchedRoute
}

// TracingMiddleware starts a server span per request through otelgin.
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}
