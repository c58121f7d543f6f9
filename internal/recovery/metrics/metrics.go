package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the recovery flow.
type Metrics struct {
	Outcomes         *prometheus.CounterVec
	FlowDuration     prometheus.Histogram
	TokensIssued     prometheus.Counter
	OutboxPublished  prometheus.Counter
	OutboxFailures   prometheus.Counter
	CandidateSetSize prometheus.Histogram
}

// New creates and registers the recovery metrics.
func New() *Metrics {
	return &Metrics{
		Outcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ffwpu_recovery_outcomes_total",
			Help: "Recovery attempts by terminal outcome kind",
		}, []string{"kind"}),
		FlowDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ffwpu_recovery_duration_seconds",
			Help:    "Latency of the recovery flow",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		TokensIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ffwpu_recovery_tokens_issued_total",
			Help: "Recovery tokens issued",
		}),
		OutboxPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ffwpu_recovery_outbox_published_total",
			Help: "Attempt events relayed from the outbox to Kafka",
		}),
		OutboxFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "ffwpu_recovery_outbox_failures_total",
			Help: "Outbox relay batches that failed to publish",
		}),
		CandidateSetSize: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "ffwpu_recovery_candidate_set_size",
			Help:    "Number of name-matched candidates before birth date disambiguation",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 25},
		}),
	}
}

func (m *Metrics) IncrementOutcome(kind string) {
	if m == nil {
		return
	}
	m.Outcomes.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveFlowDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.FlowDuration.Observe(d.Seconds())
}

func (m *Metrics) IncrementTokensIssued() {
	if m == nil {
		return
	}
	m.TokensIssued.Inc()
}

func (m *Metrics) ObserveCandidates(n int) {
	if m == nil {
		return
	}
	m.CandidateSetSize.Observe(float64(n))
}

func (m *Metrics) AddOutboxPublished(n int) {
	if m == nil {
		return
	}
	m.OutboxPublished.Add(float64(n))
}

func (m *Metrics) IncrementOutboxFailures() {
	if m == nil {
		return
	}
	m.OutboxFailures.Inc()
}
