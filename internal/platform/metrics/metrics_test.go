package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.RecordUpserted(false)
	m.RecordUpserted(true)
	m.RecordUpserted(true)
	m.AlertEmitted("weight_change", "critical")
	m.PackageGenerated(map[string]int{"nutrition": 2, "health": 1})
	m.RetentionDeleted("records", 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.recordsUpserted.WithLabelValues("inserted")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.recordsUpserted.WithLabelValues("merged")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.alertsEmitted.WithLabelValues("weight_change", "critical")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.packages))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.recommendations.WithLabelValues("nutrition")))
	assert.Equal(t, 0, testutil.CollectAndCount(m.retentionDeleted))
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	m.RecordUpserted(true)
	m.MetricWritten("weight")
	m.AlertEmitted("activity_low", "warning")
	m.PackageGenerated(nil)
	m.RetentionDeleted("metrics", 3)
}
