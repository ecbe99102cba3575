// Package metrics holds the process-wide prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

var (
	Registry = prometheus.NewRegistry()

	PlaceMutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "places",
		Name:      "mutations_total",
		Help:      "Place create, update and delete operations by outcome.",
	}, []string{"operation", "outcome"})

	FileCleanups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "places",
		Name:      "file_cleanups_total",
		Help:      "Best-effort removals of uploaded files by outcome.",
	}, []string{"outcome"})

	Jobs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "places",
		Name:      "jobs_total",
		Help:      "Background jobs handled by the worker.",
	}, []string{"type", "outcome"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		PlaceMutations,
		FileCleanups,
		Jobs,
	)
}

// Outcome maps an error to an outcome label.
func Outcome(err error) string {
	if err != nil {
		return OutcomeFailed
	}
	return OutcomeOK
}

// Handler exposes Registry in the prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
