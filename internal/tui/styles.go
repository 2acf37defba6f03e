package tui

import (
	"github.com/charmbracelet/lipgloss"

	"tasklist/internal/output"
	"tasklist/internal/view"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)

	filterStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	activeFilterStyle = filterStyle.Bold(true).Foreground(lipgloss.Color("#ffffff")).Background(lipgloss.Color("#4f46e5"))

	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4f46e5")).Bold(true)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#991b1b"))

	bannerStyles = map[view.Kind]lipgloss.Style{
		view.KindSuccess: lipgloss.NewStyle().Padding(0, 1).
			Background(lipgloss.Color("#d1fae5")).Foreground(lipgloss.Color("#065f46")),
		view.KindError: lipgloss.NewStyle().Padding(0, 1).
			Background(lipgloss.Color("#fee2e2")).Foreground(lipgloss.Color("#991b1b")),
	}

	listStyles = &output.Styles{
		Number:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Title:     lipgloss.NewStyle().Bold(true),
		Pending:   lipgloss.NewStyle().Foreground(lipgloss.Color("#b45309")),
		Completed: lipgloss.NewStyle().Foreground(lipgloss.Color("#065f46")),
		Muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
)
