// Package metrics exposes engine activity as Prometheus collectors.
package metrics

import (
	"context"
	"net/http"

	"github.com/aretw0/blink/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the blink collectors and the private registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	runs      *prometheus.CounterVec
	errors    prometheus.Counter
	duration  *prometheus.HistogramVec
	distinct  prometheus.Gauge
	cacheHits prometheus.Counter
	memo      *prometheus.CounterVec
}

// New creates and registers the blink collectors. With runtime set, the Go
// runtime and process collectors are registered too.
func New(runtime bool) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blink_runs_total",
				Help: "Total number of finished runs",
			},
			[]string{"strategy"},
		),
		errors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blink_run_errors_total",
			Help: "Total number of runs that returned an error",
		}),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "blink_run_duration_seconds",
				Help:    "Duration of computed runs",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"strategy"},
		),
		distinct: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "blink_histogram_distinct_values",
			Help: "Distinct stone values after the latest histogram iteration",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blink_cache_hits_total",
			Help: "Total number of runs served from the result store",
		}),
		memo: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "blink_memo_lookups_total",
				Help: "Memo lookups of computed memo runs",
			},
			[]string{"result"},
		),
	}

	m.registry.MustRegister(m.runs, m.errors, m.duration, m.distinct, m.cacheHits, m.memo)
	if runtime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Hooks returns lifecycle hooks that record engine activity.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnIteration: func(_ context.Context, e *domain.IterationEvent) {
			m.distinct.Set(float64(e.Distinct))
		},
		OnRunFinish: func(_ context.Context, e *domain.RunEvent) {
			if e.Err != nil {
				m.errors.Inc()
				return
			}
			m.runs.WithLabelValues(string(e.Strategy)).Inc()
			if e.Cached {
				m.cacheHits.Inc()
				return
			}
			m.duration.WithLabelValues(string(e.Strategy)).Observe(e.Elapsed.Seconds())
			if e.Strategy == domain.StrategyMemo {
				m.memo.WithLabelValues("hit").Add(float64(e.MemoHits))
				m.memo.WithLabelValues("miss").Add(float64(e.MemoMisses))
			}
		},
	}
}
