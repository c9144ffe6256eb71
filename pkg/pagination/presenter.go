package pagination

// Boundary tells the presenter which step controls should be disabled.
type Boundary string

const (
	// BoundaryFirst means the first page is shown; previous is disabled.
	BoundaryFirst Boundary = "first"

	// BoundaryLast means the last page is shown; next is disabled.
	BoundaryLast Boundary = "last"

	// BoundaryNone means both directions are available.
	BoundaryNone Boundary = "none"

	// BoundaryBoth means the result fits one page; both controls are disabled.
	BoundaryBoth Boundary = "both"
)

// AtFirst reports whether previous-page navigation is disabled.
func (b Boundary) AtFirst() bool {
	return b == BoundaryFirst || b == BoundaryBoth
}

// AtLast reports whether next-page navigation is disabled.
func (b Boundary) AtLast() bool {
	return b == BoundaryLast || b == BoundaryBoth
}

// Presenter receives the events the controller emits. Implementations only
// render; they never mutate controller state.
//
// Events are delivered from the goroutine that called SubmitSearch or
// StepPage, never while the controller holds its state lock, so a presenter
// may call Snapshot. Events are serialized; a presenter must not call
// SubmitSearch or StepPage synchronously.
type Presenter[R any] interface {
	// LoadingStarted is called before a remote fetch is issued.
	LoadingStarted()

	// PageReady delivers the records of the current page.
	PageReady(records []R, currentPage, totalPages, totalResults int)

	// Error reports a failed fetch. Navigation controls should be hidden.
	Error(message string)

	// NavBoundary follows every PageReady.
	NavBoundary(side Boundary)
}
