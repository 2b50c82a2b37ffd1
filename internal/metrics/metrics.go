// Package metrics holds the Prometheus collectors of the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels of batch create items.
const (
	OutcomeCreated = "created"
	OutcomeFailed  = "failed"
)

// Collectors groups the server metrics. Use New and Register rather than
// globals so tests can use their own registry.
type Collectors struct {
	RequestsTotal         *prometheus.CounterVec
	RequestDuration       *prometheus.HistogramVec
	BatchCreateItemsTotal *prometheus.CounterVec
	FatalErrorsTotal      *prometheus.CounterVec
}

// New creates the collectors.
func New() *Collectors {
	return &Collectors{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "restbatch",
				Name:      "requests_total",
				Help:      "Total number of resource method calls",
			},
			[]string{"resource", "method", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "restbatch",
				Name:      "request_duration_seconds",
				Help:      "Resource method call duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"resource", "method"},
		),
		BatchCreateItemsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "restbatch",
				Name:      "batch_create_items_total",
				Help:      "Batch create items by outcome",
			},
			[]string{"resource", "outcome"},
		),
		FatalErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "restbatch",
				Name:      "fatal_errors_total",
				Help:      "Batch create calls rejected because the resource method broke its contract",
			},
			[]string{"resource", "kind"}, // "null_results" / "null_element"
		),
	}
}

// Register registers all collectors with reg.
func (c *Collectors) Register(reg prometheus.Registerer) error {
	for _, col := range []prometheus.Collector{
		c.RequestsTotal,
		c.RequestDuration,
		c.BatchCreateItemsTotal,
		c.FatalErrorsTotal,
	} {
		if err := reg.Register(col); err != nil {
			return err
		}
	}
	return nil
}
