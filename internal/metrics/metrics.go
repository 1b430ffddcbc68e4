// Package metrics exposes Prometheus instrumentation for the poll scheduler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rileyhilliard/waylon/internal/errors"
	"github.com/rileyhilliard/waylon/internal/idle"
	"github.com/rileyhilliard/waylon/internal/rollup"
)

const (
	namespace = "waylon"
)

// Fetch kinds, used as the "kind" label.
const (
	KindServers = "servers"
	KindJobs    = "jobs"
	KindStatus  = "status"
)

var (
	fetchDurationBuckets = []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

	CyclesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cycles_total",
		Help:      "Count of poll cycles started, by kind (rebuild or refresh).",
	}, []string{"kind"})

	SettlesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "settles_total",
		Help:      "Count of settle points (sort, rollup and idle check).",
	})

	FetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetches_total",
		Help:      "Count of status source queries, by kind and result.",
	}, []string{"kind", "result"})

	FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "fetch_duration_seconds",
		Help:      "Time taken by status source queries.",
		Buckets:   fetchDurationBuckets,
	}, []string{"kind"})

	StaleCompletionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stale_completions_total",
		Help:      "Fetch completions discarded because a newer rebuild had started.",
	})

	Jobs = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "jobs",
		Help:      "Jobs on the radiator at the last settle point, by status category.",
	}, []string{"category"})

	RegistrySize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "registry_jobs",
		Help:      "Jobs in the registry, including those with unknown status.",
	})

	IdleMode = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "idle_mode",
		Help:      "1 while the radiator is in idle (all clear) mode.",
	})

	ActiveAlerts = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_alerts",
		Help:      "Alert conditions currently holding the radiator out of idle mode.",
	})
)

// FetchResult maps a fetch error to the "result" label.
func FetchResult(err error) string {
	if err == nil {
		return "ok"
	}
	switch errors.CodeOf(err) {
	case errors.ErrDecode:
		return "decode"
	case errors.ErrNotFound:
		return "not_found"
	default:
		return "fetch"
	}
}

// ObserveSettle records the state reached at a settle point.
func ObserveSettle(c rollup.Counts, registryJobs int, mode idle.Mode, alerts int) {
	SettlesTotal.Inc()
	Jobs.WithLabelValues("failed").Set(float64(c.Failed))
	Jobs.WithLabelValues("building").Set(float64(c.Building))
	Jobs.WithLabelValues("successful").Set(float64(c.Successful))
	Jobs.WithLabelValues("unknown").Set(float64(registryJobs - c.Total))
	RegistrySize.Set(float64(registryJobs))
	ActiveAlerts.Set(float64(alerts))
	if mode == idle.Idle {
		IdleMode.Set(1)
	} else {
		IdleMode.Set(0)
	}
}
