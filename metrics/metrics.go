package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "loan_desk",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loan_desk",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "loan_desk",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route"},
	)

	formSubmissions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loan_desk",
			Subsystem: "form",
			Name:      "submissions_total",
			Help:      "Form submissions and accepts by outcome.",
		},
		[]string{"action", "outcome"},
	)

	documentUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "loan_desk",
			Subsystem: "documents",
			Name:      "uploads_total",
			Help:      "Supporting documents staged, by outcome.",
		},
		[]string{"outcome"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		formSubmissions,
		documentUploads,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one finished request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func IncInFlight() { httpInFlight.Inc() }
func DecInFlight() { httpInFlight.Dec() }

// RecordFormOutcome counts a submit or accept, valid or invalid.
func RecordFormOutcome(action string, valid bool) {
	outcome := "invalid"
	if valid {
		outcome = "valid"
	}
	formSubmissions.WithLabelValues(action, outcome).Inc()
}

// RecordDocumentUpload counts staged (or rejected) uploads.
func RecordDocumentUpload(outcome string, n int) {
	documentUploads.WithLabelValues(outcome).Add(float64(n))
}
