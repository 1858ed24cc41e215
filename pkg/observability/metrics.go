package observability

import (
	"context"
	"net/http"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the engine's Prometheus collectors on a private registry,
// so several engines (or tests) never collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	Steps    prometheus.Counter
	Halts    *prometheus.CounterVec
	Duration prometheus.Histogram
	RunSteps prometheus.Histogram
}

// NewMetrics creates and registers the engine collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "turing_steps_total",
			Help: "Total number of transitions executed",
		}),
		Halts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "turing_halts_total",
				Help: "Total number of finished runs by halt reason",
			},
			[]string{"reason"},
		),
		Duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "turing_run_duration_seconds",
			Help:    "Wall time of a run from start to halt",
			Buckets: prometheus.ExponentialBuckets(0.00001, 10, 7),
		}),
		RunSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "turing_run_steps",
			Help:    "Transitions executed per run",
			Buckets: prometheus.ExponentialBuckets(1, 10, 8),
		}),
	}
	m.registry.MustRegister(m.Steps, m.Halts, m.Duration, m.RunSteps)
	return m
}

// Registry exposes the private registry, e.g. to add process collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Hooks returns lifecycle hooks that record into the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			m.Steps.Inc()
		},
		OnHalt: func(ctx context.Context, e *domain.HaltEvent) {
			m.Halts.WithLabelValues(string(e.Result.Reason)).Inc()
			m.Duration.Observe(e.Duration.Seconds())
			m.RunSteps.Observe(float64(e.Result.Steps))
		},
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
