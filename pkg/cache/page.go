package cache

import (
	"sort"
)

// PageCache maps page numbers to the records fetched for that page within a
// single search session.
//
// PageCache is not safe for concurrent use. The owning session serializes
// access.
type PageCache[R any] struct {
	pages map[int][]R
}

// NewPageCache creates an empty page cache.
func NewPageCache[R any]() *PageCache[R] {
	return &PageCache[R]{
		pages: make(map[int][]R),
	}
}

// Get returns the records cached for page and whether the page is resolved.
func (c *PageCache[R]) Get(page int) ([]R, bool) {
	records, ok := c.pages[page]
	if !ok {
		PageMisses.Inc()
		return nil, false
	}
	PageHits.Inc()
	return records, true
}

// Peek is Get without touching the hit and miss counters.
func (c *PageCache[R]) Peek(page int) ([]R, bool) {
	records, ok := c.pages[page]
	return records, ok
}

// Put stores records for page unless the page is already resolved.
// Page content is immutable once fetched, so the first stored value wins.
// It reports whether the records were inserted.
func (c *PageCache[R]) Put(page int, records []R) bool {
	if _, exists := c.pages[page]; exists {
		DuplicatePuts.Inc()
		return false
	}

	// An empty page is still a resolved page.
	stored := make([]R, len(records))
	copy(stored, records)
	c.pages[page] = stored

	CachedPages.Inc()
	return true
}

// Clear discards every cached page.
func (c *PageCache[R]) Clear() {
	CachedPages.Sub(float64(len(c.pages)))
	c.pages = make(map[int][]R)
}

// Len returns the number of resolved pages.
func (c *PageCache[R]) Len() int {
	return len(c.pages)
}

// Pages returns the resolved page numbers in ascending order.
func (c *PageCache[R]) Pages() []int {
	pages := make([]int, 0, len(c.pages))
	for page := range c.pages {
		pages = append(pages, page)
	}
	sort.Ints(pages)
	return pages
}
