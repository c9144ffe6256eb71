package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title        lipgloss.Style
	Prompt       lipgloss.Style
	Loading      lipgloss.Style
	Error        lipgloss.Style
	Total        lipgloss.Style
	NavEnabled   lipgloss.Style
	NavDisabled  lipgloss.Style
	PageCounter  lipgloss.Style
	StreamName   lipgloss.Style
	StreamInfo   lipgloss.Style
	StreamDetail lipgloss.Style
	Help         lipgloss.Style
	Main         lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		Prompt:       lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		Loading:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Bold(true),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		Total:        lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		NavEnabled:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")), // yellow
		NavDisabled:  lipgloss.NewStyle().Faint(true),
		PageCounter:  lipgloss.NewStyle().Bold(true),
		StreamName:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51")), // cyan
		StreamInfo:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StreamDetail: lipgloss.NewStyle().Faint(true),
		Help:         lipgloss.NewStyle().Faint(true).MarginTop(1),
		Main:         lipgloss.NewStyle().Padding(1, 2),
	}
}
