package metrics

import (
	"errors"
	"testing"

	"elena/residency_alerts/model"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveRun(model.ReportBoth, model.RunSent)
		m.ObserveFetchFailure()
		m.ObserveEmployees(model.Summary{Total: 3})
		m.ObserveNotification(errors.New("x"))
	})
}

func TestMetrics_Observe(t *testing.T) {
	m := New()

	m.ObserveRun(model.ReportUrgent, model.RunSuppressed)
	m.ObserveRun(model.ReportUrgent, model.RunSuppressed)
	m.ObserveFetchFailure()
	m.ObserveNotification(nil)
	m.ObserveNotification(errors.New("refused"))
	m.ObserveEmployees(model.Summary{
		Total:  5,
		ByTier: map[model.Tier]int{model.TierExpired: 2, model.TierNormal: 3},
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Runs.WithLabelValues("urgent", "suppressed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FetchFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("failed")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.EmployeesLoaded))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.EmployeesByTier.WithLabelValues("expired")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.EmployeesByTier.WithLabelValues("urgent")))
	assert.Equal(t, 4, testutil.CollectAndCount(m.EmployeesByTier))
}

func TestMetrics_PrivateRegistry(t *testing.T) {
	// two instances never collide on registration
	first, second := New(), New()
	first.ObserveFetchFailure()

	families, err := second.Registry.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() == "residency_alerts_fetch_failures_total" {
			assert.Equal(t, 0.0, family.GetMetric()[0].GetCounter().GetValue())
		}
	}
}
