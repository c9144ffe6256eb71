// Package gateway defines the contract between the pagination core and a
// remote search provider.
package gateway

import (
	"context"
)

// Page is one page of search results as returned by a provider.
type Page[R any] struct {
	// TotalResults is the provider's total match count for the query.
	TotalResults int

	// Records holds the items of this page. It may be shorter than the
	// requested limit even when more pages follow.
	Records []R
}

// Gateway fetches a single page of search results.
//
// Implementations perform exactly one request per call and keep no state
// between calls beyond transport-level connection reuse. Failures should be
// reported as *Error so callers can surface a status and message.
type Gateway[R any] interface {
	FetchPage(ctx context.Context, query string, offset, limit int) (*Page[R], error)
}

// Func adapts an ordinary function to the Gateway interface.
type Func[R any] func(ctx context.Context, query string, offset, limit int) (*Page[R], error)

// FetchPage calls f.
func (f Func[R]) FetchPage(ctx context.Context, query string, offset, limit int) (*Page[R], error) {
	return f(ctx, query, offset, limit)
}
