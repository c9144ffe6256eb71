// Package cache provides the per-session page cache used by the pagination
// controller.
//
// A PageCache holds the records of every page fetched during one search
// session, keyed by 1-indexed page number. It has no eviction policy: its
// size is bounded by the page count of a single query and the whole cache is
// discarded when the next search starts.
//
// # Basic Usage
//
//	pages := cache.NewPageCache[twitch.Stream]()
//
//	if records, ok := pages.Get(3); ok {
//		// Page 3 already fetched - render without a network call
//	}
//
//	// First insert wins; later inserts for the same page are ignored
//	pages.Put(3, page.Records)
//
//	// New search
//	pages.Clear()
//
// # Metrics
//
//   - stream_search_page_cache_hits_total - Cache hits
//   - stream_search_page_cache_misses_total - Cache misses
//   - stream_search_page_cache_duplicate_puts_total - Inserts for already cached pages
//   - stream_search_page_cache_pages - Pages currently cached
package cache
