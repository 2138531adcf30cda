package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	SourceSeed     = "seed"
	SourceTemplate = "template"

	MigrationAccent    = "accent_color"
	MigrationCreatedAt = "created_at"
)

type Metrics struct {
	TenantsProvisioned *prometheus.CounterVec
	MigrationsApplied  *prometheus.CounterVec
	StorageFailures    *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		TenantsProvisioned: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ficha_tenants_provisioned_total",
			Help: "Tenants created on first resolution, by source",
		}, []string{"source"}),
		MigrationsApplied: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ficha_tenant_migrations_applied_total",
			Help: "Record migrations applied while loading tenants, by kind",
		}, []string{"kind"}),
		StorageFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ficha_tenant_storage_failures_total",
			Help: "Tenant store errors, by operation",
		}, []string{"op"}),
	}
}

func (m *Metrics) IncProvisioned(source string) {
	if m == nil {
		return
	}
	m.TenantsProvisioned.WithLabelValues(source).Inc()
}

func (m *Metrics) IncMigration(kind string) {
	if m == nil {
		return
	}
	m.MigrationsApplied.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncStorageFailure(op string) {
	if m == nil {
		return
	}
	m.StorageFailures.WithLabelValues(op).Inc()
}
