package ui

import (
	"charm.land/lipgloss/v2"

	"tgconsole/internal/notice"
)

// renderNotice draws the live notice as a full-width bar, or an empty
// line when the slot is clear.
func renderNotice(n *notice.Notice, width int) string {
	if n == nil {
		return lipgloss.NewStyle().Width(width).Render("")
	}

	var style lipgloss.Style
	switch n.Severity {
	case notice.Success:
		style = noticeSuccessStyle
	case notice.Error:
		style = noticeErrorStyle
	default:
		style = noticeInfoStyle
	}

	return lipgloss.NewStyle().Width(width).Render(style.Render(n.Text))
}
