package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pethealth"

// Metrics agrupa los instrumentos del core. Los métodos aceptan receptor nil.
type Metrics struct {
	recordsUpserted  *prometheus.CounterVec
	metricsWritten   *prometheus.CounterVec
	alertsEmitted    *prometheus.CounterVec
	packages         prometheus.Counter
	recommendations  *prometheus.CounterVec
	retentionDeleted *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		recordsUpserted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_upserted_total",
			Help:      "Daily health records written, by outcome (inserted|merged).",
		}, []string{"outcome"}),
		metricsWritten: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "metrics_written_total",
			Help:      "Health metric events appended, by type.",
		}, []string{"type"}),
		alertsEmitted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_emitted_total",
			Help:      "Health alerts raised, by type and severity.",
		}, []string{"type", "severity"}),
		packages: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendation_packages_total",
			Help:      "Recommendation packages generated.",
		}),
		recommendations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recommendations_total",
			Help:      "Individual recommendations produced, by family.",
		}, []string{"family"}),
		retentionDeleted: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retention_deleted_total",
			Help:      "Rows removed by the retention job, by kind.",
		}, []string{"kind"}),
	}
}

func (m *Metrics) RecordUpserted(merged bool) {
	if m == nil {
		return
	}
	outcome := "inserted"
	if merged {
		outcome = "merged"
	}
	m.recordsUpserted.WithLabelValues(outcome).Inc()
}

func (m *Metrics) MetricWritten(metricType string) {
	if m == nil {
		return
	}
	m.metricsWritten.WithLabelValues(metricType).Inc()
}

func (m *Metrics) AlertEmitted(alertType, severity string) {
	if m == nil {
		return
	}
	m.alertsEmitted.WithLabelValues(alertType, severity).Inc()
}

func (m *Metrics) PackageGenerated(byFamily map[string]int) {
	if m == nil {
		return
	}
	m.packages.Inc()
	for family, n := range byFamily {
		m.recommendations.WithLabelValues(family).Add(float64(n))
	}
}

func (m *Metrics) RetentionDeleted(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.retentionDeleted.WithLabelValues(kind).Add(float64(n))
}
