package httpapi

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters exposed at /metrics. Names are part of the operational
// contract; dashboards and alerts key on them.
var (
	requestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests to the chat endpoints.",
	})

	predictionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "model_predictions_total",
		Help: "Total completed model predictions.",
	})
)
