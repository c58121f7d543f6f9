package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Rejections    *prometheus.CounterVec
	LimiterErrors *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		Rejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ffwpu_ratelimit_rejections_total",
			Help: "Total number of requests rejected by the rate limiter",
		}, []string{"scope"}),
		LimiterErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "ffwpu_ratelimit_errors_total",
			Help: "Limiter backend errors; requests were allowed through",
		}, []string{"scope"}),
	}
}

func (m *Metrics) IncrementRejections(scope string) {
	if m == nil {
		return
	}
	m.Rejections.WithLabelValues(scope).Inc()
}

func (m *Metrics) IncrementLimiterErrors(scope string) {
	if m == nil {
		return
	}
	m.LimiterErrors.WithLabelValues(scope).Inc()
}
