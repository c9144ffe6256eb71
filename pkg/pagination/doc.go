// Package pagination implements the search session state machine.
//
// A Controller owns at most one Session at a time. Each session holds the
// normalized query, the current page, the total counts learned from the
// first successful fetch and a cache of every page fetched so far. Stepping
// to a cached page never touches the network; stepping past either end of
// the result set is a no-op.
//
// Example usage:
//
//	client, _ := twitch.New(twitch.DefaultConfig(clientID))
//	ctrl := pagination.NewController[twitch.Stream](client, presenter, pagination.DefaultConfig())
//
//	ctrl.SubmitSearch(ctx, "starcraft") // fetches page 1
//	ctrl.StepPage(ctx, +1)              // fetches page 2
//	ctrl.StepPage(ctx, -1)              // page 1, served from cache
//
// States:
//   - Idle: no session
//   - Loading: a fetch is in flight; steps are ignored, new searches are accepted
//   - Ready: a page is displayed
//   - Error: the last fetch failed; counts and cache are unchanged
//
// Every fetch is tagged with its session ID. When a new search supersedes a
// session while a fetch is in flight, that fetch's result is discarded.
package pagination
