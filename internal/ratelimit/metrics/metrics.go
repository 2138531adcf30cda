package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"ficha/internal/ratelimit/models"
)

const (
	DecisionAllowed = "allowed"
	DecisionDenied  = "denied"
	DecisionError   = "error"
)

type Metrics struct {
	Decisions *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Decisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ficha_ratelimit_decisions_total",
			Help: "Per-IP rate limit checks by endpoint class and decision",
		}, []string{"class", "decision"}),
	}
}

func (m *Metrics) Record(class models.EndpointClass, decision string) {
	if m == nil {
		return
	}
	m.Decisions.WithLabelValues(string(class), decision).Inc()
}
