package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var Observer = &Metrics{
	prometheus: NewPrometheusMetrics(),
}

func init() {
	prometheus.MustRegister(
		Observer.prometheus.Steps,
		Observer.prometheus.Trainings,
		Observer.prometheus.Saves,
		Observer.prometheus.Loss,
	)
}

// Metrics tracks the model progress.
type Metrics struct {
	prometheus Prometheus
}

// Step records a forward pass for the given model.
func (m *Metrics) Step(model string) {
	m.prometheus.Steps.WithLabelValues(model).Inc()
}

// Train records a training run and its loss.
func (m *Metrics) Train(model string, loss float64) {
	m.prometheus.Trainings.WithLabelValues(model).Inc()
	m.prometheus.Loss.WithLabelValues(model).Set(loss)
}

// Save records a persisted snapshot.
func (m *Metrics) Save(model string) {
	m.prometheus.Saves.WithLabelValues(model).Inc()
}
