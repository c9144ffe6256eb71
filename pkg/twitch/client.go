// Package twitch provides the HTTP search gateway for the Twitch v5 API
// with rate limit tracking and error classification.
package twitch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/twitch-stream-search/pkg/gateway"
	"github.com/Sternrassler/twitch-stream-search/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for Twitch client operations.
var (
	twitchRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "twitch_requests_total",
		Help: "Total Twitch search requests by status",
	}, []string{"status"})

	twitchRequestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "twitch_request_duration_seconds",
		Help:    "Twitch search request duration in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	twitchErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "twitch_errors_total",
		Help: "Total Twitch search errors by class",
	}, []string{"class"})
)

const (
	// DefaultBaseURL is the Twitch v5 (kraken) API root.
	DefaultBaseURL = "https://api.twitch.tv/kraken"

	// AcceptV5 selects the v5 API version.
	AcceptV5 = "application/vnd.twitchtv.v5+json"

	searchStreamsPath = "/search/streams"
)

// Client is a single-attempt search gateway for the Twitch streams search.
// It implements gateway.Gateway[Stream].
type Client struct {
	httpClient  *http.Client
	baseURL     *url.URL
	rateLimiter *ratelimit.Tracker
	config      Config
	logger      zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL is the API root (default DefaultBaseURL).
	BaseURL string

	// ClientID is the registered application ID sent as Client-ID (REQUIRED).
	ClientID string

	// UserAgent header sent with every request.
	UserAgent string

	// Timeout bounds a single HTTP request.
	Timeout time.Duration

	// RateLimiter gates requests on the shared rate limit state (optional).
	RateLimiter *ratelimit.Tracker
}

// DefaultConfig returns a default configuration for clientID.
func DefaultConfig(clientID string) Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		ClientID:  clientID,
		UserAgent: "twitch-stream-search/0.1.0",
		Timeout:   10 * time.Second,
	}
}

// New creates a new Twitch search client.
func New(cfg Config) (*Client, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("client id is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	baseURL, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if baseURL.Scheme == "" || baseURL.Host == "" {
		return nil, fmt.Errorf("base url must be absolute (got %q)", cfg.BaseURL)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:     baseURL,
		rateLimiter: cfg.RateLimiter,
		config:      cfg,
		logger:      log.With().Str("component", "twitch-client").Logger(),
	}, nil
}

// FetchPage performs one search request for query starting at offset.
// Non-success responses are returned as *gateway.Error.
func (c *Client) FetchPage(ctx context.Context, query string, offset, limit int) (*gateway.Page[Stream], error) {
	startTime := time.Now()
	defer func() {
		twitchRequestDuration.Observe(time.Since(startTime).Seconds())
	}()

	if c.rateLimiter != nil {
		allowed, err := c.rateLimiter.ShouldAllowRequest(ctx)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Rate limit check failed")
			return nil, c.fail(gateway.NewNetworkError("rate limit check failed", err))
		}
		if !allowed {
			twitchRequestsTotal.WithLabelValues("rate_limited").Inc()
			return nil, c.fail(&gateway.Error{
				Status:  http.StatusTooManyRequests,
				Class:   gateway.ErrorClassRateLimit,
				Message: "rate limit exhausted, try again shortly",
			})
		}
	}

	req, err := c.newSearchRequest(ctx, query, offset, limit)
	if err != nil {
		return nil, c.fail(gateway.NewNetworkError("create request", err))
	}

	c.logger.Debug().
		Str("query", query).
		Int("offset", offset).
		Int("limit", limit).
		Msg("Executing search request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		twitchRequestsTotal.WithLabelValues("network_error").Inc()
		c.logger.Error().Err(err).Str("query", query).Msg("HTTP request failed")
		return nil, c.fail(gateway.NewNetworkError("request failed", err))
	}
	defer resp.Body.Close()

	twitchRequestsTotal.WithLabelValues(strconv.Itoa(resp.StatusCode)).Inc()

	if c.rateLimiter != nil {
		if err := c.rateLimiter.UpdateFromHeaders(ctx, resp.Header); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to update rate limit from headers")
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.fail(decodeError(resp))
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, c.fail(gateway.NewNetworkError("decode search response", err))
	}

	c.logger.Debug().
		Str("query", query).
		Int("offset", offset).
		Int("total", body.Total).
		Int("records", len(body.Streams)).
		Dur("duration", time.Since(startTime)).
		Msg("Search request complete")

	return &gateway.Page[Stream]{
		TotalResults: body.Total,
		Records:      body.Streams,
	}, nil
}

// newSearchRequest builds the search/streams request with v5 headers.
func (c *Client) newSearchRequest(ctx context.Context, query string, offset, limit int) (*http.Request, error) {
	endpoint := *c.baseURL
	endpoint.Path += searchStreamsPath

	params := url.Values{}
	params.Set("query", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("offset", strconv.Itoa(offset))
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", AcceptV5)
	req.Header.Set("Client-ID", c.config.ClientID)
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	return req, nil
}

// fail records err in metrics and logs before returning it.
func (c *Client) fail(err *gateway.Error) *gateway.Error {
	twitchErrorsTotal.WithLabelValues(string(err.Class)).Inc()
	c.logger.Warn().
		Int("status", err.Status).
		Str("error_class", string(err.Class)).
		Str("message", err.Message).
		Msg("Search request error")
	return err
}

// decodeError converts a non-success response into a gateway error,
// preferring the message reported in the body.
func decodeError(resp *http.Response) *gateway.Error {
	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return gateway.NewStatusError(resp.StatusCode, "")
	}

	var body errorResponse
	if err := json.Unmarshal(data, &body); err != nil {
		return gateway.NewStatusError(resp.StatusCode, "")
	}

	return gateway.NewStatusError(resp.StatusCode, body.message())
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Close releases idle connections.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
