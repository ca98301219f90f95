package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the care module.
type Metrics struct {
	RelationshipsStarted   prometheus.Counter
	RelationshipsCompleted prometheus.Counter
	ActiveRelationships    prometheus.Gauge

	ObservationsRecorded prometheus.Counter
	IntakeRejections     *prometheus.CounterVec

	// History views by kind ("scoped", "audit") and whether they returned entries
	HistoryViews   *prometheus.CounterVec
	HistoryEntries *prometheus.HistogramVec
	AccessDecision *prometheus.CounterVec

	IntakeLatency prometheus.Histogram
}

// New creates a new Metrics instance with all care module metrics registered.
func New() *Metrics {
	return &Metrics{
		RelationshipsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "carelock_care_relationships_started_total",
			Help: "Total number of care relationships started",
		}),
		RelationshipsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "carelock_care_relationships_completed_total",
			Help: "Total number of care relationships completed by an observation",
		}),
		ActiveRelationships: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "carelock_care_relationships_active",
			Help: "Number of clinicians currently locked to an active care relationship",
		}),
		ObservationsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "carelock_observations_recorded_total",
			Help: "Total number of observations recorded",
		}),
		IntakeRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "carelock_observation_intake_rejections_total",
			Help: "Observation intake failures by error code",
		}, []string{"code"}),
		HistoryViews: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "carelock_history_views_total",
			Help: "History views served by kind and outcome",
		}, []string{"kind", "outcome"}), // outcome: "entries", "empty"
		HistoryEntries: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "carelock_history_view_entries",
			Help:    "Number of entries returned per history view",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}, []string{"kind"}),
		AccessDecision: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "carelock_access_decisions_total",
			Help: "Access decisions by outcome",
		}, []string{"access"}),
		IntakeLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "carelock_observation_intake_duration_seconds",
			Help:    "Duration of observation intake including the store commit",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// IncrementStarted records a new active relationship.
func (m *Metrics) IncrementStarted() {
	if m != nil {
		m.RelationshipsStarted.Inc()
		m.ActiveRelationships.Inc()
	}
}

// IncrementCompleted records a completed relationship and its observation.
func (m *Metrics) IncrementCompleted() {
	if m != nil {
		m.RelationshipsCompleted.Inc()
		m.ObservationsRecorded.Inc()
		m.ActiveRelationships.Dec()
	}
}

// SetActive resets the active gauge, e.g. after a reseed.
func (m *Metrics) SetActive(n int) {
	if m != nil {
		m.ActiveRelationships.Set(float64(n))
	}
}

func (m *Metrics) IncrementIntakeRejection(code string) {
	if m != nil {
		m.IntakeRejections.WithLabelValues(code).Inc()
	}
}

// ObserveHistoryView records a served view and its size.
func (m *Metrics) ObserveHistoryView(kind string, entries int) {
	if m == nil {
		return
	}
	outcome := "entries"
	if entries == 0 {
		outcome = "empty"
	}
	m.HistoryViews.WithLabelValues(kind, outcome).Inc()
	m.HistoryEntries.WithLabelValues(kind).Observe(float64(entries))
}

func (m *Metrics) IncrementAccessDecision(access string) {
	if m != nil {
		m.AccessDecision.WithLabelValues(access).Inc()
	}
}

func (m *Metrics) ObserveIntakeLatency(d time.Duration) {
	if m != nil {
		m.IntakeLatency.Observe(d.Seconds())
	}
}
