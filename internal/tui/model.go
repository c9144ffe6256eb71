// Package tui is the terminal front end for stream search: a query input,
// a page of streams and a navigation bar driven by the pagination
// controller's events.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/Sternrassler/twitch-stream-search/pkg/logging"
	"github.com/Sternrassler/twitch-stream-search/pkg/pagination"
	"github.com/Sternrassler/twitch-stream-search/pkg/twitch"
)

// Searcher is the part of the pagination controller the UI drives.
type Searcher interface {
	SubmitSearch(ctx context.Context, raw string)
	StepPage(ctx context.Context, direction int)
}

// Model represents the UI state. It only renders what the controller
// reports; the controller owns the session.
type Model struct {
	ctx      context.Context
	searcher Searcher
	styles   *Styles
	input    textinput.Model
	logger   zerolog.Logger

	width  int
	height int

	loading      bool
	errMessage   string
	hasPage      bool
	streams      []twitch.Stream
	currentPage  int
	totalPages   int
	totalResults int
	boundary     pagination.Boundary
}

// NewModel creates a new UI model. ctx bounds every controller call.
func NewModel(ctx context.Context, searcher Searcher) *Model {
	ti := textinput.New()
	ti.Placeholder = "search streams"
	ti.Prompt = "Search: "
	ti.CharLimit = 100
	ti.Focus()

	return &Model{
		ctx:      ctx,
		searcher: searcher,
		styles:   NewStyles(),
		input:    ti,
		logger:   logging.NewLogger("tui"),
		boundary: pagination.BoundaryBoth,
	}
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-12, 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case loadingMsg:
		m.loading = true
		m.errMessage = ""
		return m, nil

	case pageMsg:
		m.loading = false
		m.errMessage = ""
		m.hasPage = true
		m.streams = msg.streams
		m.currentPage = msg.currentPage
		m.totalPages = msg.totalPages
		m.totalResults = msg.totalResults
		return m, nil

	case errorMsg:
		m.loading = false
		m.errMessage = msg.message
		return m, nil

	case boundaryMsg:
		m.boundary = msg.side
		return m, nil

	case doneMsg:
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "enter":
		query := m.input.Value()
		if strings.TrimSpace(query) == "" {
			// The controller drops the session silently on blank input.
			m.clearResults()
		}
		m.logger.Debug().Str("query", query).Msg("Submitting search")
		return m, m.submit(query)

	case "ctrl+n", "pgdown":
		if !m.canStep(+1) {
			return m, nil
		}
		return m, m.step(+1)

	case "ctrl+p", "pgup":
		if !m.canStep(-1) {
			return m, nil
		}
		return m, m.step(-1)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) clearResults() {
	m.loading = false
	m.errMessage = ""
	m.hasPage = false
	m.streams = nil
	m.currentPage = 0
	m.totalPages = 0
	m.totalResults = 0
	m.boundary = pagination.BoundaryBoth
}

// canStep reports whether the nav control for direction is enabled. The
// controller re-validates every step.
func (m *Model) canStep(direction int) bool {
	if !m.hasPage || m.loading {
		return false
	}
	if direction > 0 {
		return !m.boundary.AtLast()
	}
	return !m.boundary.AtFirst()
}

func (m *Model) submit(query string) tea.Cmd {
	ctx, searcher := m.ctx, m.searcher
	return func() tea.Msg {
		searcher.SubmitSearch(ctx, query)
		return doneMsg{}
	}
}

func (m *Model) step(direction int) tea.Cmd {
	ctx, searcher := m.ctx, m.searcher
	return func() tea.Msg {
		searcher.StepPage(ctx, direction)
		return doneMsg{}
	}
}

// View renders the UI
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Twitch Stream Search"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.styles.Loading.Render("LOADING..."))
		b.WriteString("\n")

	case m.errMessage != "":
		b.WriteString(m.styles.Error.Render("Error: " + m.errMessage))
		b.WriteString("\n")

	case m.hasPage:
		b.WriteString(m.styles.Total.Render(fmt.Sprintf("Total Results: %d", m.totalResults)))
		b.WriteString("\n")
		if nav := m.navBar(); nav != "" {
			b.WriteString(nav)
			b.WriteString("\n")
		}
		b.WriteString("\n")
		for _, s := range m.streams {
			b.WriteString(m.renderStream(s))
			b.WriteString("\n")
		}
	}

	b.WriteString(m.styles.Help.Render("enter: search • pgup/ctrl+p: previous • pgdown/ctrl+n: next • esc: quit"))

	return m.styles.Main.Render(b.String())
}

// navBar renders the step controls and page counter. It is hidden when the
// result fits on one page.
func (m *Model) navBar() string {
	if m.totalPages <= 1 {
		return ""
	}

	prev := m.styles.NavEnabled.Render("< prev")
	if m.boundary.AtFirst() {
		prev = m.styles.NavDisabled.Render("< prev")
	}
	next := m.styles.NavEnabled.Render("next >")
	if m.boundary.AtLast() {
		next = m.styles.NavDisabled.Render("next >")
	}

	counter := m.styles.PageCounter.Render(fmt.Sprintf("%d/%d", m.currentPage, m.totalPages))
	return prev + "  " + counter + "  " + next
}

func (m *Model) renderStream(s twitch.Stream) string {
	name := s.Channel.DisplayName
	if name == "" {
		name = s.Channel.Name
	}

	lines := []string{
		m.styles.StreamName.Render(name) + "  " + m.styles.StreamInfo.Render(s.Summary()),
	}
	if s.Channel.Description != "" {
		lines = append(lines, "  "+s.Channel.Description)
	}
	if s.Channel.URL != "" {
		lines = append(lines, "  "+m.styles.StreamDetail.Render(s.Channel.URL))
	}
	if s.Preview.Medium != "" {
		lines = append(lines, "  "+m.styles.StreamDetail.Render(s.Preview.Medium))
	}
	return strings.Join(lines, "\n")
}

// Run starts the terminal UI for the given controller and blocks until the
// user quits.
func Run(ctx context.Context, newController func(pagination.Presenter[twitch.Stream]) Searcher) error {
	presenter := NewPresenter()
	model := NewModel(ctx, newController(presenter))

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	presenter.Attach(program)

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running terminal ui: %w", err)
	}
	return nil
}
