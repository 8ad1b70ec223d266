package ui

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"tgconsole/internal/domain"
	"tgconsole/internal/state"
)

// DashboardPane is a read-only overview assembled from the store.
type DashboardPane struct {
	store  *state.Store
	width  int
	height int
}

func NewDashboardPane(store *state.Store) DashboardPane {
	return DashboardPane{store: store}
}

func (p DashboardPane) SetSize(w, h int) DashboardPane {
	p.width = w
	p.height = h
	return p
}

func (p DashboardPane) View(focused bool) string {
	sess := p.store.GetSession()
	cred := p.store.GetCredential()
	grps := p.store.GetGroups()
	msgs := p.store.GetMessages()
	black := p.store.GetBlacklist()
	st := p.store.GetAutomationStatus()

	var b strings.Builder
	b.WriteString(titleStyle.Render("Dashboard") + "\n\n")

	if sess.Profile != nil {
		name := sess.Profile.DisplayName
		if name == "" {
			name = sess.Profile.Username
		}
		badge := ""
		if sess.Profile.Verified {
			badge = " ✔"
		}
		if sess.Profile.Premium {
			badge += " ★"
		}
		b.WriteString(fmt.Sprintf("%s %s%s\n", labelStyle.Render("Account:"), name, badge))
	}
	if cred.PhoneNumber != "" {
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Phone:"), cred.PhoneNumber))
	}
	b.WriteString("\n")

	activeGroups := 0
	for _, g := range grps {
		if g.IsActive {
			activeGroups++
		}
	}
	activeMsgs := 0
	for _, m := range msgs {
		if m.IsActive {
			activeMsgs++
		}
	}

	tiles := []string{
		tile("Groups", fmt.Sprintf("%d (%d active)", len(grps), activeGroups), accentBlue),
		tile("Templates", fmt.Sprintf("%d (%d active)", len(msgs), activeMsgs), accentGreen),
		tile("Sent today", fmt.Sprintf("%d", st.MessagesSentToday), accentYellow),
		tile("Blacklisted", fmt.Sprintf("%d", len(black)), accentRed),
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tiles...))
	b.WriteString("\n\n")

	runState := lipgloss.NewStyle().Foreground(accentRed).Render("stopped")
	if st.IsRunning {
		runState = lipgloss.NewStyle().Foreground(accentGreen).Render("running")
	}
	b.WriteString(fmt.Sprintf("%s %s", labelStyle.Render("Automation:"), runState))
	if st.NextCycleAt != nil {
		b.WriteString(fmt.Sprintf("  %s %s", labelStyle.Render("next cycle"), st.NextCycleAt.Format("15:04:05")))
	}
	b.WriteString("\n")

	if len(black) > 0 {
		b.WriteString("\n" + labelStyle.Render("Blacklist:") + "\n")
		for i, e := range black {
			if i >= 5 {
				b.WriteString(labelStyle.Render(fmt.Sprintf("  ... and %d more\n", len(black)-5)))
				break
			}
			b.WriteString(fmt.Sprintf("  %s (%s): %s\n", blackName(e), e.Kind, e.Reason))
		}
	}

	style := paneBorder(lipgloss.NewStyle().Width(p.width).Height(p.height), focused)
	return style.Render(truncateHeight(b.String(), p.height-2))
}

func blackName(e domain.BlacklistEntry) string {
	if e.GroupName != "" {
		return e.GroupName
	}
	return e.GroupID
}

func tile(label, value string, accent color.Color) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 2).
		Render(labelStyle.Render(label) + "\n" + lipgloss.NewStyle().Bold(true).Render(value))
}
