package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	SubmitDelivered    = "delivered"
	SubmitIncomplete   = "incomplete"
	SubmitTrialExpired = "trial_expired"

	AutofillApplied = "applied"
	AutofillStale   = "stale"
	AutofillAbsent  = "absent"
)

type Metrics struct {
	ActiveSessions  prometheus.Gauge
	SessionsEvicted prometheus.Counter
	Submissions     *prometheus.CounterVec
	Autofills       *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ActiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "ficha_checkin_active_sessions",
			Help: "Form sessions currently held in memory",
		}),
		SessionsEvicted: f.NewCounter(prometheus.CounterOpts{
			Name: "ficha_checkin_sessions_evicted_total",
			Help: "Idle form sessions wiped by the cleanup worker",
		}),
		Submissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ficha_checkin_submissions_total",
			Help: "Submit attempts by outcome",
		}, []string{"outcome"}),
		Autofills: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ficha_checkin_address_autofills_total",
			Help: "Settled address lookups by what happened to the form",
		}, []string{"result"}),
	}
}

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.ActiveSessions.Inc()
}

func (m *Metrics) SessionClosed(evicted bool) {
	if m == nil {
		return
	}
	m.ActiveSessions.Dec()
	if evicted {
		m.SessionsEvicted.Inc()
	}
}

func (m *Metrics) IncSubmission(outcome string) {
	if m == nil {
		return
	}
	m.Submissions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncAutofill(result string) {
	if m == nil {
		return
	}
	m.Autofills.WithLabelValues(result).Inc()
}
