package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
)

var (
	dimColor       = lipgloss.Color("240")
	highlightColor = lipgloss.Color("170")

	accentBlue   = lipgloss.Color("#3498DB")
	accentGreen  = lipgloss.Color("#2ECC71")
	accentRed    = lipgloss.Color("#E74C3C")
	accentYellow = lipgloss.Color("#F1C40F")

	titleStyle = lipgloss.NewStyle().Foreground(highlightColor).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(dimColor)
	helpStyle  = lipgloss.NewStyle().Foreground(dimColor).Italic(true)

	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(accentBlue).
			Bold(true).
			Padding(0, 2)
	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(dimColor).
				Padding(0, 2)

	noticeInfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(accentBlue).
			Padding(0, 1)
	noticeSuccessStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(accentGreen).
				Padding(0, 1)
	noticeErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(accentRed).
				Padding(0, 1)
)

// paneBorder applies a focused or dim border to a pane.
func paneBorder(s lipgloss.Style, focused bool) lipgloss.Style {
	s = s.Border(lipgloss.RoundedBorder())
	if focused {
		return s.BorderForeground(highlightColor)
	}
	return s.BorderForeground(dimColor)
}

// truncateHeight limits s to at most maxLines lines.
func truncateHeight(s string, maxLines int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= maxLines {
		return s
	}
	return strings.Join(lines[:maxLines], "\n")
}
