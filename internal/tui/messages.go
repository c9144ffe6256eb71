package tui

import (
	"github.com/Sternrassler/twitch-stream-search/pkg/pagination"
	"github.com/Sternrassler/twitch-stream-search/pkg/twitch"
)

// loadingMsg is sent when a remote fetch starts
type loadingMsg struct{}

// pageMsg carries the records of the page to display
type pageMsg struct {
	streams      []twitch.Stream
	currentPage  int
	totalPages   int
	totalResults int
}

// errorMsg carries a failed fetch's message
type errorMsg struct {
	message string
}

// boundaryMsg tells the nav bar which step controls are disabled
type boundaryMsg struct {
	side pagination.Boundary
}

// doneMsg is returned when a submit or step command finishes
type doneMsg struct{}
