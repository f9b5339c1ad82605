// Package metrics provides Prometheus metrics collection for HTTP server
// monitoring and the AI-backed services behind it. It exports:
//   - http_request_total: Counter with method, path, and status labels
//   - http_request_duration_seconds: Histogram with method and path labels
//   - http_request_in_flight: Gauge for concurrent requests
//   - model_inference_duration_seconds: Histogram with model label
//   - upstream_ai_requests_total: Counter with operation and outcome labels
//   - rate_limiter_buckets_total: Gauge for tracked client buckets
//
// All metrics are automatically registered with the Prometheus default registry
// during package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	// ModelInferenceDuration tracks classifier latency per model kind.
	// Inference is in-process and fast, hence the sub-millisecond buckets.
	ModelInferenceDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "model_inference_duration_seconds",
			Help:    "Classifier inference latency",
			Buckets: []float64{.0001, .00025, .0005, .001, .0025, .005, .01, .025, .05, .1},
		},
		[]string{"model"},
	)

	// UpstreamAIRequests counts calls to the hosted generative model by
	// operation (chat, generate_remedies, simplify_remedies) and outcome
	// (success, error). Retries count as separate requests.
	UpstreamAIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_ai_requests_total",
			Help: "Total requests to the upstream generative AI provider",
		},
		[]string{"operation", "outcome"},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Tracked per-client rate limiter buckets",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(ModelInferenceDuration)
	prometheus.MustRegister(UpstreamAIRequests)
	prometheus.MustRegister(RateLimiterBucketsTotal)
}
