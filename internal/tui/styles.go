package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the TUI styles.
type Styles struct {
	Title     lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Label     lipgloss.Style
	Error     lipgloss.Style
	Warning   lipgloss.Style
	Help      lipgloss.Style
	Border    lipgloss.Style
}

// DefaultStyles returns the default styles.
func DefaultStyles() Styles {
	return Styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).MarginBottom(1),
		Tab:       lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("8")),
		ActiveTab: lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("12")),
		Label:     lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")).MarginTop(1),
		Border:    lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")),
	}
}
