package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PageHits tracks lookups served from the session page cache
	PageHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stream_search_page_cache_hits_total",
			Help: "Total number of page cache hits",
		},
	)

	// PageMisses tracks lookups for pages not yet fetched in the session
	PageMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stream_search_page_cache_misses_total",
			Help: "Total number of page cache misses",
		},
	)

	// DuplicatePuts tracks inserts rejected because the page was already resolved
	DuplicatePuts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stream_search_page_cache_duplicate_puts_total",
			Help: "Total number of page inserts discarded because the page was already cached",
		},
	)

	// CachedPages tracks how many pages are currently held across live caches
	CachedPages = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stream_search_page_cache_pages",
			Help: "Current number of cached result pages",
		},
	)
)
