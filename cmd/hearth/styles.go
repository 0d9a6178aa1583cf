package main

import "github.com/charmbracelet/lipgloss"

const (
	colorPrimary   = lipgloss.Color("#D97706")
	colorMuted     = lipgloss.Color("#6B7280")
	colorSuccess   = lipgloss.Color("#10B981")
	colorError     = lipgloss.Color("#EF4444")
	colorWarning   = lipgloss.Color("#F59E0B")
	colorHighlight = lipgloss.Color("#3B82F6")
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	subtitleStyle = lipgloss.NewStyle().Foreground(colorMuted)
	successStyle  = lipgloss.NewStyle().Foreground(colorSuccess)
	errorStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorError)
	warningStyle  = lipgloss.NewStyle().Foreground(colorWarning)
	keyStyle      = lipgloss.NewStyle().Foreground(colorHighlight)
)

// check renders a ✓ or ✗ for ok.
func check(ok bool) string {
	if ok {
		return successStyle.Render("✓")
	}
	return errorStyle.Render("✗")
}
