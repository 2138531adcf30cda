package address

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeHit      = "hit"
	OutcomeMiss     = "miss"
	OutcomeNotFound = "not_found"
	OutcomeTimeout  = "timeout"
	OutcomeError    = "error"
	OutcomeSkipped  = "skipped"
)

type Metrics struct {
	Lookups       *prometheus.CounterVec
	LookupLatency prometheus.Histogram
	BreakerOpen   prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Lookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ficha_address_lookups_total",
			Help: "Postal code resolutions by outcome",
		}, []string{"outcome"}),
		LookupLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ficha_address_lookup_duration_seconds",
			Help:    "Latency of outbound postal code lookups, including abandoned ones",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2},
		}),
		BreakerOpen: f.NewGauge(prometheus.GaugeOpts{
			Name: "ficha_address_breaker_open",
			Help: "1 while the postal lookup circuit breaker is open",
		}),
	}
}

func (m *Metrics) observe(outcome string) {
	if m == nil {
		return
	}
	m.Lookups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeLatency(seconds float64) {
	if m == nil {
		return
	}
	m.LookupLatency.Observe(seconds)
}

func (m *Metrics) setBreakerOpen(open bool) {
	if m == nil {
		return
	}
	if open {
		m.BreakerOpen.Set(1)
		return
	}
	m.BreakerOpen.Set(0)
}
