// Package metrics serves the Prometheus registry for stream-search.
// All metrics are defined in their respective packages (twitch, cache,
// pagination, ratelimit) to maintain modularity and avoid circular
// dependencies.
//
// This package also documents every available metric.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Registry is the default Prometheus registry used by stream-search.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// ReadyCheck reports whether a dependency is usable.
type ReadyCheck func(ctx context.Context) error

// Handler returns the mux serving /metrics, /health and /ready. A nil
// ready check always reports ready.
func Handler(ready ReadyCheck) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/ready", readyHandler(ready))
	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

func readyHandler(ready ReadyCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ready(ctx); err != nil {
				http.Error(w, fmt.Sprintf("not ready: %v", err), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK")
	}
}

// Server serves the metrics handler until its context is cancelled.
type Server struct {
	srv      *http.Server
	listener net.Listener
}

// Listen binds addr and prepares a server. Use ":0" for an ephemeral port.
func Listen(addr string, ready ReadyCheck) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}

	return &Server{
		srv: &http.Server{
			Handler:           Handler(ready),
			ReadHeaderTimeout: 5 * time.Second,
		},
		listener: ln,
	}, nil
}

// Addr returns the bound address.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Serve blocks until ctx is cancelled, then shuts the server down.
func (s *Server) Serve(ctx context.Context) error {
	logger := log.With().Str("component", "metrics").Logger()

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", s.Addr()).Msg("Serving metrics")
		errCh <- s.srv.Serve(s.listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("metrics server shutdown: %w", err)
	}
	logger.Info().Msg("Metrics server stopped")
	return nil
}

// Metrics Documentation
//
// Rate Limit Metrics (pkg/ratelimit):
//   - twitch_rate_limit_remaining (Gauge): Points remaining in the upstream rate limit bucket
//   - twitch_rate_limit_blocks_total (Counter): Requests blocked because the bucket is empty
//   - twitch_rate_limit_throttles_total (Counter): Requests delayed because the bucket runs low
//
// Page Cache Metrics (pkg/cache):
//   - stream_search_page_cache_hits_total (Counter): Page lookups served from the session cache
//   - stream_search_page_cache_misses_total (Counter): Page lookups that required a fetch
//   - stream_search_page_cache_duplicate_puts_total (Counter): Inserts dropped because the page was already resolved
//   - stream_search_page_cache_pages (Gauge): Pages currently cached
//
// Pagination Metrics (pkg/pagination):
//   - stream_search_searches_total (Counter): Search sessions started
//   - stream_search_navigations_total{outcome} (Counter): Page steps by outcome (cached, fetch, boundary, ignored)
//   - stream_search_fetches_total{result} (Counter): Gateway fetches by result (success, error, superseded)
//
// Request Metrics (pkg/twitch):
//   - twitch_requests_total{status} (Counter): Total requests by HTTP status
//   - twitch_request_duration_seconds (Histogram): Request duration
//   - twitch_errors_total{class} (Counter): Errors by class (client, server, rate_limit, network)
//
// Example Prometheus Queries:
//
//   # Page Cache Hit Rate
//   sum(rate(stream_search_page_cache_hits_total[5m])) /
//   (sum(rate(stream_search_page_cache_hits_total[5m])) + sum(rate(stream_search_page_cache_misses_total[5m])))
//
//   # Rate Limit Status
//   twitch_rate_limit_remaining < 5
//
//   # Request Error Rate
//   rate(twitch_errors_total[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(twitch_request_duration_seconds_bucket[5m]))
//
//   # Superseded Fetch Rate
//   rate(stream_search_fetches_total{result="superseded"}[5m])
