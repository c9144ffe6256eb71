package pagination

import (
	"context"
	"sync"
	"time"

	"github.com/Sternrassler/twitch-stream-search/pkg/gateway"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// State is the controller's lifecycle state.
type State int

const (
	// StateIdle means no search session exists.
	StateIdle State = iota

	// StateLoading means a fetch is in flight.
	StateLoading

	// StateReady means a page is displayed and nothing is pending.
	StateReady

	// StateError means the last fetch failed.
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Config holds controller configuration.
type Config struct {
	// PageSize is the number of records requested per page.
	PageSize int

	// Timeout bounds a single gateway fetch.
	Timeout time.Duration
}

// DefaultConfig returns the default controller configuration.
func DefaultConfig() Config {
	return Config{
		PageSize: DefaultPageSize,
		Timeout:  15 * time.Second,
	}
}

// Snapshot is a point-in-time copy of the controller's observable state.
type Snapshot struct {
	State        State
	SessionID    uuid.UUID
	Query        string
	PageSize     int
	CurrentPage  int
	TotalPages   int
	TotalResults int
	CachedPages  []int
}

// Boundary reports the navigation edges for the snapshot's page.
func (s Snapshot) Boundary() Boundary {
	return boundaryFor(s.CurrentPage, s.TotalPages)
}

// fetchResult is the outcome of one gateway call, tagged with the session
// that issued it.
type fetchResult[R any] struct {
	sessionID    uuid.UUID
	page         int
	previousPage int
	data         *gateway.Page[R]
	err          error
}

// Controller coordinates one search session at a time: it decides between
// serving a page from the session cache and fetching it from the gateway,
// and keeps counts and navigation state consistent.
//
// At most one fetch is in flight per session. A new search is always
// accepted and supersedes any in-flight fetch, whose result is discarded.
type Controller[R any] struct {
	gateway   gateway.Gateway[R]
	presenter Presenter[R]
	config    Config
	logger    zerolog.Logger

	mu      sync.Mutex
	state   State
	session *Session[R]

	// emitMu orders presenter calls. It is never taken while holding mu.
	emitMu sync.Mutex
}

// NewController creates a controller. A nil presenter discards events.
func NewController[R any](gw gateway.Gateway[R], presenter Presenter[R], config Config) *Controller[R] {
	if config.PageSize <= 0 {
		config.PageSize = DefaultPageSize
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	if presenter == nil {
		presenter = nopPresenter[R]{}
	}

	return &Controller[R]{
		gateway:   gw,
		presenter: presenter,
		config:    config,
		logger:    log.With().Str("component", "pagination").Logger(),
		state:     StateIdle,
	}
}

// SubmitSearch starts a new session for raw and fetches its first page.
// Any prior session is discarded first; blank input then leaves the
// controller Idle without a network call. It blocks until the fetch
// resolves; failures are reported to the presenter, not returned.
func (c *Controller[R]) SubmitSearch(ctx context.Context, raw string) {
	query, err := NormalizeQuery(raw)
	if err != nil {
		c.Reset()
		c.logger.Debug().Msg("Empty search, session discarded")
		return
	}

	sess := newSession[R](query, c.config.PageSize)

	c.mu.Lock()
	if prev := c.session; prev != nil {
		prev.pages.Clear()
	}
	c.session = sess
	c.state = StateLoading
	c.mu.Unlock()

	searchesTotal.Inc()
	c.logger.Info().
		Str("query", query).
		Str("session", sess.ID.String()).
		Msg("Starting search session")

	c.emit(sess.ID, c.presenter.LoadingStarted)
	c.apply(c.fetch(ctx, sess, 1, 1))
}

// StepPage moves one page forward (+1) or backward (-1). Steps past either
// end of the result set, steps while a fetch is in flight and steps without
// a session are no-ops.
func (c *Controller[R]) StepPage(ctx context.Context, direction int) {
	if direction != 1 && direction != -1 {
		navigationsTotal.WithLabelValues("ignored").Inc()
		c.logger.Warn().Int("direction", direction).Msg("Ignoring invalid page step")
		return
	}

	c.mu.Lock()
	sess := c.session
	if sess == nil || c.state == StateIdle || c.state == StateLoading {
		state := c.state
		c.mu.Unlock()
		navigationsTotal.WithLabelValues("ignored").Inc()
		c.logger.Debug().
			Str("state", state.String()).
			Int("direction", direction).
			Msg("Ignoring page step")
		return
	}

	previous := sess.CurrentPage
	target := sess.clamp(previous + direction)
	if target == previous {
		c.mu.Unlock()
		navigationsTotal.WithLabelValues("boundary").Inc()
		c.logger.Debug().
			Int("page", previous).
			Int("direction", direction).
			Msg("Page step at boundary")
		return
	}

	sess.CurrentPage = target

	if records, ok := sess.pages.Get(target); ok {
		c.state = StateReady
		totalPages, totalResults := sess.TotalPages, sess.TotalResults
		boundary := sess.Boundary()
		c.mu.Unlock()

		navigationsTotal.WithLabelValues("cached").Inc()
		c.logger.Debug().
			Str("session", sess.ID.String()).
			Int("page", target).
			Msg("Serving page from cache")

		c.emit(sess.ID, func() {
			c.presenter.PageReady(records, target, totalPages, totalResults)
			c.presenter.NavBoundary(boundary)
		})
		return
	}

	c.state = StateLoading
	c.mu.Unlock()

	navigationsTotal.WithLabelValues("fetch").Inc()
	c.emit(sess.ID, c.presenter.LoadingStarted)
	c.apply(c.fetch(ctx, sess, target, previous))
}

// Snapshot returns the current observable state.
func (c *Controller[R]) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		State:       c.state,
		PageSize:    c.config.PageSize,
		CurrentPage: 1,
		TotalPages:  1,
	}
	if sess := c.session; sess != nil {
		snap.SessionID = sess.ID
		snap.Query = sess.Query
		snap.CurrentPage = sess.CurrentPage
		snap.TotalPages = sess.TotalPages
		snap.TotalResults = sess.TotalResults
		snap.CachedPages = sess.pages.Pages()
	}
	return snap
}

// Reset discards the current session and returns to Idle, as when the host
// view is torn down. Results of an in-flight fetch are discarded.
func (c *Controller[R]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		c.session.pages.Clear()
	}
	c.session = nil
	c.state = StateIdle
}

// fetch performs the gateway call for page. It runs without the lock and
// reads only immutable session fields.
func (c *Controller[R]) fetch(ctx context.Context, sess *Session[R], page, previousPage int) fetchResult[R] {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	start := time.Now()
	data, err := c.gateway.FetchPage(ctx, sess.Query, sess.Offset(page), sess.PageSize)
	if err == nil && data == nil {
		err = gateway.NewNetworkError("gateway returned no page", nil)
	}

	c.logger.Debug().
		Str("session", sess.ID.String()).
		Int("page", page).
		Dur("duration", time.Since(start)).
		Bool("ok", err == nil).
		Msg("Fetch resolved")

	return fetchResult[R]{
		sessionID:    sess.ID,
		page:         page,
		previousPage: previousPage,
		data:         data,
		err:          err,
	}
}

// apply folds a fetch result into the current session, or drops it when the
// session that issued it has been superseded.
func (c *Controller[R]) apply(res fetchResult[R]) {
	c.mu.Lock()
	sess := c.session
	if sess == nil || sess.ID != res.sessionID {
		c.mu.Unlock()
		fetchesTotal.WithLabelValues("superseded").Inc()
		c.logger.Debug().
			Str("session", res.sessionID.String()).
			Int("page", res.page).
			Msg("Discarding result of superseded session")
		return
	}

	if res.err != nil {
		// Keep the last good page so the session stays consistent.
		sess.CurrentPage = res.previousPage
		c.state = StateError
		c.mu.Unlock()

		fetchesTotal.WithLabelValues("error").Inc()
		c.logger.Warn().
			Err(res.err).
			Str("session", sess.ID.String()).
			Int("page", res.page).
			Str("error_class", string(gateway.ClassOf(res.err))).
			Msg("Page fetch failed")

		message := gateway.Message(res.err)
		c.emit(res.sessionID, func() { c.presenter.Error(message) })
		return
	}

	sess.resolve(res.data.TotalResults)
	if !sess.pages.Put(res.page, res.data.Records) {
		c.logger.Debug().Int("page", res.page).Msg("Page already cached, keeping first result")
	}
	records, _ := sess.pages.Peek(res.page)
	sess.CurrentPage = res.page
	c.state = StateReady
	totalPages, totalResults := sess.TotalPages, sess.TotalResults
	boundary := sess.Boundary()
	c.mu.Unlock()

	fetchesTotal.WithLabelValues("success").Inc()
	if len(res.data.Records) < sess.PageSize && res.page < totalPages {
		c.logger.Debug().
			Int("page", res.page).
			Int("records", len(res.data.Records)).
			Msg("Provider returned a short page")
	}

	c.emit(res.sessionID, func() {
		c.presenter.PageReady(records, res.page, totalPages, totalResults)
		c.presenter.NavBoundary(boundary)
	})
}

// emit runs fn if sessionID is still the current session. A session
// superseded between state update and emission stays silent, so its events
// never land after the next session's LoadingStarted.
func (c *Controller[R]) emit(sessionID uuid.UUID, fn func()) bool {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	c.mu.Lock()
	current := c.session != nil && c.session.ID == sessionID
	c.mu.Unlock()

	if !current {
		c.logger.Debug().
			Str("session", sessionID.String()).
			Msg("Dropping events of superseded session")
		return false
	}
	fn()
	return true
}

type nopPresenter[R any] struct{}

func (nopPresenter[R]) LoadingStarted()              {}
func (nopPresenter[R]) PageReady([]R, int, int, int) {}
func (nopPresenter[R]) Error(string)                 {}
func (nopPresenter[R]) NavBoundary(Boundary)         {}
