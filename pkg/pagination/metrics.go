package pagination

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the pagination controller.
var (
	searchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stream_search_searches_total",
		Help: "Total number of search sessions started",
	})

	navigationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stream_search_navigations_total",
		Help: "Page navigation requests by outcome",
	}, []string{"outcome"}) // "cached", "fetch", "boundary", "ignored"

	fetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stream_search_fetches_total",
		Help: "Gateway fetches by result",
	}, []string{"result"}) // "success", "error", "superseded"
)
