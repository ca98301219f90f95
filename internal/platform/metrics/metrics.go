package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the process-wide HTTP metrics.
type Metrics struct {
	EndpointLatency *prometheus.HistogramVec
	Requests        *prometheus.CounterVec
	InFlight        prometheus.Gauge
}

// New creates and registers the HTTP metrics.
func New() *Metrics {
	return &Metrics{
		EndpointLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "carelock_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route"}),
		Requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "carelock_http_requests_total",
			Help: "HTTP requests by route pattern and status code",
		}, []string{"route", "status"}),
		InFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "carelock_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		}),
	}
}

// ObserveEndpointLatency records one request's latency in seconds.
func (m *Metrics) ObserveEndpointLatency(route string, seconds float64) {
	if m != nil {
		m.EndpointLatency.WithLabelValues(route).Observe(seconds)
	}
}

func (m *Metrics) IncrementRequests(route, status string) {
	if m != nil {
		m.Requests.WithLabelValues(route, status).Inc()
	}
}

func (m *Metrics) IncInFlight() {
	if m != nil {
		m.InFlight.Inc()
	}
}

func (m *Metrics) DecInFlight() {
	if m != nil {
		m.InFlight.Dec()
	}
}
