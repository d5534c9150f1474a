// Package metrics provides Prometheus metrics for the fetch proxy.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Default histogram buckets for request latency.
var defaultBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

// Fetch outcome label values.
const (
	OutcomeSuccess      = "success"
	OutcomeMissingURL   = "missing_url"
	OutcomeInvalidURL   = "invalid_url"
	OutcomeUpstreamHTTP = "upstream_http"
	OutcomeUnknown      = "unknown"
)

// Metrics holds all Prometheus metric collectors for the proxy.
type Metrics struct {
	Registry *prometheus.Registry

	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	UpstreamDuration  *prometheus.HistogramVec
	UpstreamResponses *prometheus.CounterVec

	FetchOutcomes *prometheus.CounterVec
}

// New creates a Metrics instance with a custom registry and all collectors registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,

		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "data_fetch_agent_http_requests_total",
			Help: "Total inbound HTTP requests.",
		}, []string{"method", "status_code", "path_prefix"}),

		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "data_fetch_agent_http_request_duration_seconds",
			Help:    "Inbound HTTP request latency in seconds.",
			Buckets: defaultBuckets,
		}, []string{"method", "status_code", "path_prefix"}),

		RequestsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "data_fetch_agent_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed.",
		}),

		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "data_fetch_agent_upstream_request_duration_seconds",
			Help:    "Outbound fetch latency in seconds, including body read.",
			Buckets: defaultBuckets,
		}, []string{"method"}),

		UpstreamResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "data_fetch_agent_upstream_responses_total",
			Help: "Total outbound responses by method and status code (\"error\" for transport failures).",
		}, []string{"method", "status_code"}),

		FetchOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "data_fetch_agent_fetch_outcomes_total",
			Help: "Total fetch operations by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.RequestsInFlight,
		m.UpstreamDuration,
		m.UpstreamResponses,
		m.FetchOutcomes,
	)

	return m
}

// knownMethods lists the allowed HTTP method label values (bounded cardinality).
var knownMethods = map[string]bool{
	"GET": true, "POST": true, "PUT": true, "DELETE": true,
	"PATCH": true, "HEAD": true, "OPTIONS": true,
}

// NormalizeMethod returns a bounded HTTP method label for Prometheus metrics.
// Non-standard methods are mapped to "other" to prevent cardinality explosion.
func NormalizeMethod(method string) string {
	if knownMethods[method] {
		return method
	}
	return "other"
}

// knownPrefixes lists the fixed path label values (bounded cardinality).
// The scrape path is configurable and is passed to NormalizePath instead.
var knownPrefixes = []string{"/api/fetch", "/healthz", "/status"}

// NormalizePath returns a bounded path label for Prometheus metrics.
// extra adds route prefixes known only at runtime, such as the metrics path.
func NormalizePath(path string, extra ...string) string {
	if path == "/" {
		return "/"
	}
	if prefix, ok := matchPrefix(path, knownPrefixes); ok {
		return prefix
	}
	if prefix, ok := matchPrefix(path, extra); ok {
		return prefix
	}
	return "other"
}

func matchPrefix(path string, prefixes []string) (string, bool) {
	for _, prefix := range prefixes {
		if prefix == "" || prefix == "/" {
			continue
		}
		if path == prefix || strings.HasPrefix(path, prefix+"/") || strings.HasPrefix(path, prefix+"?") {
			return prefix, true
		}
	}
	return "", false
}
