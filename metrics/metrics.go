package metrics

import (
	"elena/residency_alerts/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the alert pipeline
type Metrics struct {
	Registry *prometheus.Registry

	Runs            *prometheus.CounterVec
	FetchFailures   prometheus.Counter
	EmployeesLoaded prometheus.Gauge
	EmployeesByTier *prometheus.GaugeVec
	Notifications   *prometheus.CounterVec
}

// New creates the metrics on a private registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		Runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "residency_alerts_runs_total",
			Help: "Pipeline runs by outcome",
		}, []string{"kind", "outcome"}),
		FetchFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "residency_alerts_fetch_failures_total",
			Help: "Source sheet downloads that failed",
		}),
		EmployeesLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Name: "residency_alerts_employees_loaded",
			Help: "Employees loaded by the last run",
		}),
		EmployeesByTier: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "residency_alerts_employees_by_tier",
			Help: "Employees per display tier in the last run",
		}, []string{"tier"}),
		Notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "residency_alerts_notifications_total",
			Help: "Notifications handed to the sink by result",
		}, []string{"result"}),
	}
}

// ObserveRun counts a finished run. Safe on a nil receiver.
func (m *Metrics) ObserveRun(kind model.ReportKind, outcome model.RunOutcome) {
	if m == nil {
		return
	}
	m.Runs.WithLabelValues(string(kind), string(outcome)).Inc()
}

// ObserveFetchFailure counts a failed download
func (m *Metrics) ObserveFetchFailure() {
	if m == nil {
		return
	}
	m.FetchFailures.Inc()
}

// ObserveEmployees records the size of the loaded collection
func (m *Metrics) ObserveEmployees(summary model.Summary) {
	if m == nil {
		return
	}
	m.EmployeesLoaded.Set(float64(summary.Total))
	for _, tier := range model.Tiers {
		m.EmployeesByTier.WithLabelValues(string(tier)).Set(float64(summary.ByTier[tier]))
	}
}

// ObserveNotification counts a delivery attempt
func (m *Metrics) ObserveNotification(err error) {
	if m == nil {
		return
	}
	result := "sent"
	if err != nil {
		result = "failed"
	}
	m.Notifications.WithLabelValues(result).Inc()
}
