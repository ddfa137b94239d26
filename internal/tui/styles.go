package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorText   = lipgloss.Color("#F0F0F0")
	colorDim    = lipgloss.Color("#8C8C8C")
	colorFooter = lipgloss.Color("#6E6E6E")
	colorAccent = lipgloss.Color("#C89A3A")
	colorError  = lipgloss.Color("#FF4D4F")
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	textStyle     = lipgloss.NewStyle().Foreground(colorText)
	dimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	footerStyle   = lipgloss.NewStyle().Foreground(colorFooter)
	selectedMark  = lipgloss.NewStyle().Foreground(colorAccent).Render("▌")
	statusStyle   = lipgloss.NewStyle().Foreground(colorAccent)
	errorStyle    = lipgloss.NewStyle().Foreground(colorError)
	macroOnStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	macroOffStyle = lipgloss.NewStyle().Foreground(colorFooter)
)

// speakerStyle colors a speaker label with the speaker's color token.
func speakerStyle(color string) lipgloss.Style {
	if color == "" {
		return dimStyle.Bold(true)
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
}

// autosaveStyle colors the autosave indicator.
func autosaveStyle(pending bool) lipgloss.Style {
	if pending {
		return statusStyle
	}
	return dimStyle
}
