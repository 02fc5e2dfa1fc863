package metrics

import "github.com/prometheus/client_golang/prometheus"

type Prometheus struct {
	Steps     *prometheus.CounterVec
	Trainings *prometheus.CounterVec
	Saves     *prometheus.CounterVec
	Loss      *prometheus.GaugeVec
}

func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Steps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mantis",
				Name:      "steps_total",
				Help:      "forward passes processed by the model",
			}, []string{"model"}),
		Trainings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mantis",
				Name:      "trainings_total",
				Help:      "truncated backpropagation runs",
			}, []string{"model"}),
		Saves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "mantis",
				Name:      "saves_total",
				Help:      "persisted snapshots",
			}, []string{"model"}),
		Loss: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "mantis",
				Name:      "loss",
				Help:      "squared error of the last training window",
			}, []string{"model"}),
	}
}
