package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Metrics holds the Prometheus collectors for outbound API calls.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates and registers the API client collectors. A nil
// registerer uses prometheus.DefaultRegisterer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	m := &Metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nudgepay_api_requests_total",
				Help: "Requests issued to the NudgePay API by method, route and status.",
			},
			[]string{"method", "path", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nudgepay_api_request_duration_seconds",
				Help:    "Latency of requests to the NudgePay API.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
	registerer.MustRegister(m.requests, m.duration)
	return m
}

func (m *Metrics) observe(method, path string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(method, path, label).Inc()
	m.duration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// InstrumentedHTTPClient returns a copy of client whose transport records a
// client span and metrics for every request. A nil client starts from
// http.DefaultClient; nil metrics disables metric recording.
func InstrumentedHTTPClient(client *http.Client, metrics *Metrics) *http.Client {
	if client == nil {
		client = http.DefaultClient
	}
	clone := *client
	base := clone.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	clone.Transport = &transport{
		base:    base,
		tracer:  otel.Tracer("nudgepay/api"),
		metrics: metrics,
	}
	return &clone
}

type transport struct {
	base    http.RoundTripper
	tracer  trace.Tracer
	metrics *Metrics
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	route := routeOf(req.URL.Path)
	ctx, span := t.tracer.Start(req.Context(), "API "+req.Method+" "+route, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	req = req.Clone(ctx)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		t.metrics.observe(req.Method, route, 0, time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport error")
		return resp, err
	}
	t.metrics.observe(req.Method, route, resp.StatusCode, time.Since(start))

	span.SetAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", resp.StatusCode),
	)
	if resp.StatusCode >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, "server error")
	}
	return resp, nil
}

// routeOf collapses resource ids so metric labels stay low-cardinality.
func routeOf(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 3 && parts[0] == "api" && (parts[1] == "clients" || parts[1] == "invoices") {
		return "/api/" + parts[1] + "/:id"
	}
	if path == "" {
		return "/"
	}
	return path
}
