package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Sternrassler/twitch-stream-search/pkg/pagination"
	"github.com/Sternrassler/twitch-stream-search/pkg/twitch"
)

// Sender delivers messages into a running program. *tea.Program implements it.
type Sender interface {
	Send(msg tea.Msg)
}

// Presenter forwards controller events to the UI as messages. The program
// is attached after construction because the model needs the controller
// and the controller needs the presenter.
type Presenter struct {
	mu     sync.RWMutex
	sender Sender
}

var _ pagination.Presenter[twitch.Stream] = (*Presenter)(nil)

// NewPresenter creates a presenter with no program attached. Events sent
// before Attach are dropped.
func NewPresenter() *Presenter {
	return &Presenter{}
}

// Attach sets the program that receives events.
func (p *Presenter) Attach(s Sender) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sender = s
}

func (p *Presenter) send(msg tea.Msg) {
	p.mu.RLock()
	s := p.sender
	p.mu.RUnlock()
	if s != nil {
		s.Send(msg)
	}
}

// LoadingStarted switches the view to the loading line.
func (p *Presenter) LoadingStarted() {
	p.send(loadingMsg{})
}

// PageReady delivers a page of streams and the session counts.
func (p *Presenter) PageReady(records []twitch.Stream, currentPage, totalPages, totalResults int) {
	p.send(pageMsg{
		streams:      records,
		currentPage:  currentPage,
		totalPages:   totalPages,
		totalResults: totalResults,
	})
}

// Error replaces the results with message and hides navigation.
func (p *Presenter) Error(message string) {
	p.send(errorMsg{message: message})
}

// NavBoundary updates which step controls are enabled.
func (p *Presenter) NavBoundary(side pagination.Boundary) {
	p.send(boundaryMsg{side: side})
}
