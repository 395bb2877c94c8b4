package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primaryColor = lipgloss.Color("#7D56F4")
	accentColor  = lipgloss.Color("#50FA7B")
	warningColor = lipgloss.Color("#FFB86C")
	errorColor   = lipgloss.Color("#FF5555")
	mutedColor   = lipgloss.Color("#6272A4")
	infoColor    = lipgloss.Color("#8BE9FD")
	fgColor      = lipgloss.Color("#F8F8F2")

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			Padding(0, 1)

	tabStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 2)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(fgColor).
			Background(primaryColor).
			Bold(true).
			Padding(0, 2)

	// Stat cards
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 2).
			Width(16)

	cardValueStyle = lipgloss.NewStyle().
			Foreground(fgColor).
			Bold(true)

	cardLabelStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	// Form
	labelStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true).
			Width(14)

	focusedLabelStyle = lipgloss.NewStyle().
				Foreground(accentColor).
				Bold(true).
				Width(14)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(accentColor).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(fgColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	// Help/Status bar
	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)
)

func statusStyleFor(status string) lipgloss.Style {
	switch status {
	case "submitted":
		return lipgloss.NewStyle().Foreground(warningColor)
	case "in-progress":
		return lipgloss.NewStyle().Foreground(infoColor)
	case "completed":
		return lipgloss.NewStyle().Foreground(accentColor)
	}
	return normalItemStyle
}

func urgencyStyleFor(urgency string) lipgloss.Style {
	switch urgency {
	case "high":
		return lipgloss.NewStyle().Foreground(errorColor).Bold(true)
	case "medium":
		return lipgloss.NewStyle().Foreground(warningColor)
	case "low":
		return lipgloss.NewStyle().Foreground(accentColor)
	}
	return normalItemStyle
}
