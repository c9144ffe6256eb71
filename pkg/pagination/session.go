package pagination

import (
	"errors"
	"strings"

	"github.com/Sternrassler/twitch-stream-search/pkg/cache"
	"github.com/google/uuid"
)

// DefaultPageSize is the number of records requested per page.
const DefaultPageSize = 10

// ErrEmptyQuery is returned by NormalizeQuery for blank input.
var ErrEmptyQuery = errors.New("empty query")

// NormalizeQuery trims surrounding whitespace from raw user input.
// Transport escaping is left to the gateway.
func NormalizeQuery(raw string) (string, error) {
	query := strings.TrimSpace(raw)
	if query == "" {
		return "", ErrEmptyQuery
	}
	return query, nil
}

// TotalPages returns ceil(totalResults/pageSize), never less than 1.
func TotalPages(totalResults, pageSize int) int {
	if totalResults <= 0 || pageSize <= 0 {
		return 1
	}
	return (totalResults + pageSize - 1) / pageSize
}

// Session is the state of one active search.
type Session[R any] struct {
	// ID tags every request issued for this session.
	ID uuid.UUID

	// Query is the normalized search text; it never changes.
	Query string

	// PageSize is fixed for the life of the session.
	PageSize int

	// CurrentPage is the 1-indexed page being shown or fetched.
	CurrentPage int

	// TotalPages and TotalResults are only trustworthy once Resolved.
	TotalPages   int
	TotalResults int

	// Resolved is true after the first successful fetch set the counts.
	Resolved bool

	pages *cache.PageCache[R]
}

func newSession[R any](query string, pageSize int) *Session[R] {
	return &Session[R]{
		ID:          uuid.New(),
		Query:       query,
		PageSize:    pageSize,
		CurrentPage: 1,
		TotalPages:  1,
		pages:       cache.NewPageCache[R](),
	}
}

// Offset is the zero-based record offset of page.
func (s *Session[R]) Offset(page int) int {
	return (page - 1) * s.PageSize
}

// clamp moves page into [1, TotalPages].
func (s *Session[R]) clamp(page int) int {
	if page < 1 {
		return 1
	}
	if page > s.TotalPages {
		return s.TotalPages
	}
	return page
}

// resolve records the counts reported by the first successful fetch.
// Later totals are ignored so pagination controls do not jitter.
func (s *Session[R]) resolve(totalResults int) {
	if s.Resolved {
		return
	}
	if totalResults < 0 {
		totalResults = 0
	}
	s.TotalResults = totalResults
	s.TotalPages = TotalPages(totalResults, s.PageSize)
	s.CurrentPage = s.clamp(s.CurrentPage)
	s.Resolved = true
}

// Boundary reports which edges of the result set the current page touches.
func (s *Session[R]) Boundary() Boundary {
	return boundaryFor(s.CurrentPage, s.TotalPages)
}

func boundaryFor(current, total int) Boundary {
	first := current <= 1
	last := current >= total
	switch {
	case first && last:
		return BoundaryBoth
	case first:
		return BoundaryFirst
	case last:
		return BoundaryLast
	default:
		return BoundaryNone
	}
}
