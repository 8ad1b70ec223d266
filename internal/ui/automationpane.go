package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"tgconsole/internal/api"
	"tgconsole/internal/domain"
)

// AutomationPane shows the send-loop status, lets the operator edit the
// pacing configuration, start or stop the loop, and prune the blacklist.
type AutomationPane struct {
	config    domain.AutomationConfig
	status    domain.AutomationStatus
	blacklist []domain.BlacklistEntry
	cursor    int

	editing bool
	fields  []textinput.Model
	focus   int

	client *api.Client
	width  int
	height int
}

var automationFieldLabels = []string{
	"Message delay min (s)",
	"Message delay max (s)",
	"Cycle delay min (h)",
	"Cycle delay max (h)",
}

func NewAutomationPane(client *api.Client) AutomationPane {
	fields := make([]textinput.Model, len(automationFieldLabels))
	for i := range fields {
		fields[i] = textinput.New()
		fields[i].CharLimit = 8
	}
	return AutomationPane{fields: fields, client: client}
}

func (p AutomationPane) SetSize(w, h int) AutomationPane {
	p.width = w
	p.height = h
	return p
}

func (p AutomationPane) WithConfig(cfg domain.AutomationConfig) AutomationPane {
	p.config = cfg
	return p
}

func (p AutomationPane) WithStatus(st domain.AutomationStatus) AutomationPane {
	p.status = st
	return p
}

func (p AutomationPane) WithBlacklist(entries []domain.BlacklistEntry) AutomationPane {
	p.blacklist = entries
	if p.cursor >= len(entries) {
		p.cursor = 0
	}
	return p
}

func (p AutomationPane) Update(msg tea.Msg) (AutomationPane, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	if p.editing {
		return p.updateEdit(key)
	}

	switch key.String() {
	case "s":
		client := p.client
		return p, func() tea.Msg {
			if err := client.StartAutomation(context.Background()); err != nil {
				return AutomationChangedMsg{Err: err}
			}
			st, err := client.AutomationStatus(context.Background())
			return AutomationChangedMsg{Status: &st, Err: err}
		}
	case "x":
		client := p.client
		return p, func() tea.Msg {
			if err := client.StopAutomation(context.Background()); err != nil {
				return AutomationChangedMsg{Err: err}
			}
			st, err := client.AutomationStatus(context.Background())
			return AutomationChangedMsg{Status: &st, Err: err}
		}
	case "e":
		p.editing = true
		p.focus = 0
		p.fields[0].SetValue(strconv.Itoa(p.config.MessageDelayMin))
		p.fields[1].SetValue(strconv.Itoa(p.config.MessageDelayMax))
		p.fields[2].SetValue(strconv.FormatFloat(p.config.CycleDelayMin, 'f', -1, 64))
		p.fields[3].SetValue(strconv.FormatFloat(p.config.CycleDelayMax, 'f', -1, 64))
		p.refocus()
		return p, nil
	case "r":
		client := p.client
		return p, func() tea.Msg {
			st, err := client.AutomationStatus(context.Background())
			return AutomationChangedMsg{Status: &st, Err: err}
		}
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
		return p, nil
	case "down", "j":
		if p.cursor < len(p.blacklist)-1 {
			p.cursor++
		}
		return p, nil
	case "d":
		if len(p.blacklist) == 0 {
			return p, nil
		}
		id := p.blacklist[p.cursor].ID
		client := p.client
		return p, func() tea.Msg {
			err := client.RemoveBlacklistEntry(context.Background(), id)
			return BlacklistEntryRemovedMsg{ID: id, Err: err}
		}
	case "c":
		client := p.client
		return p, func() tea.Msg {
			if err := client.CleanupBlacklist(context.Background()); err != nil {
				return BlacklistLoadedMsg{Err: err}
			}
			entries, err := client.Blacklist(context.Background())
			return BlacklistLoadedMsg{Entries: entries, Err: err}
		}
	}
	return p, nil
}

func (p *AutomationPane) refocus() {
	for i := range p.fields {
		if i == p.focus {
			p.fields[i].Focus()
		} else {
			p.fields[i].Blur()
		}
	}
}

func (p AutomationPane) updateEdit(key tea.KeyMsg) (AutomationPane, tea.Cmd) {
	switch key.String() {
	case "esc":
		p.editing = false
		return p, nil
	case "tab", "down":
		p.focus = (p.focus + 1) % len(p.fields)
		p.refocus()
		return p, nil
	case "shift+tab", "up":
		p.focus = (p.focus + len(p.fields) - 1) % len(p.fields)
		p.refocus()
		return p, nil
	case "enter", "ctrl+s":
		cfg := p.config
		cfg.MessageDelayMin, _ = strconv.Atoi(p.fields[0].Value())
		cfg.MessageDelayMax, _ = strconv.Atoi(p.fields[1].Value())
		cfg.CycleDelayMin, _ = strconv.ParseFloat(p.fields[2].Value(), 64)
		cfg.CycleDelayMax, _ = strconv.ParseFloat(p.fields[3].Value(), 64)
		p.editing = false
		client := p.client
		return p, func() tea.Msg {
			saved, err := client.UpdateAutomationConfig(context.Background(), cfg)
			return AutomationChangedMsg{Config: &saved, Err: err}
		}
	}

	var cmd tea.Cmd
	p.fields[p.focus], cmd = p.fields[p.focus].Update(key)
	return p, cmd
}

func (p AutomationPane) View(focused bool) string {
	var b strings.Builder

	runState := lipgloss.NewStyle().Foreground(accentRed).Render("STOPPED")
	if p.status.IsRunning {
		runState = lipgloss.NewStyle().Foreground(accentGreen).Render("RUNNING")
	}
	b.WriteString(titleStyle.Render("Automation") + "  " + runState + "\n\n")

	b.WriteString(fmt.Sprintf("%s %d\n", labelStyle.Render("Current cycle:"), p.status.CurrentCycle))
	b.WriteString(fmt.Sprintf("%s %d\n", labelStyle.Render("Sent today:"), p.status.MessagesSentToday))
	if p.status.NextCycleAt != nil {
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Next cycle:"), p.status.NextCycleAt.Format("15:04:05")))
	}
	if len(p.status.Errors) > 0 {
		b.WriteString(labelStyle.Render("Recent errors:") + "\n")
		for _, e := range p.status.Errors {
			b.WriteString("  " + lipgloss.NewStyle().Foreground(accentRed).Render(e) + "\n")
		}
	}
	b.WriteString("\n")

	if p.editing {
		for i, f := range p.fields {
			b.WriteString(labelStyle.Render(automationFieldLabels[i]) + "\n")
			b.WriteString(f.View() + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("tab: next field • enter: save • esc: cancel"))
	} else {
		b.WriteString(fmt.Sprintf("%s %d–%d s\n", labelStyle.Render("Message delay:"),
			p.config.MessageDelayMin, p.config.MessageDelayMax))
		b.WriteString(fmt.Sprintf("%s %.1f–%.1f h\n", labelStyle.Render("Cycle delay:"),
			p.config.CycleDelayMin, p.config.CycleDelayMax))
		cleanup := "off"
		if p.config.AutoCleanupBlacklist {
			cleanup = "on"
		}
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Blacklist auto-cleanup:"), cleanup))

		b.WriteString("\n" + labelStyle.Render(fmt.Sprintf("Blacklist (%d)", len(p.blacklist))) + "\n")
		for i, e := range p.blacklist {
			marker := "  "
			if i == p.cursor {
				marker = "> "
			}
			line := fmt.Sprintf("%s%s (%s): %s", marker, blackName(e), e.Kind, e.Reason)
			if i == p.cursor {
				line = lipgloss.NewStyle().Foreground(highlightColor).Render(line)
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n" + helpStyle.Render("s: start • x: stop • e: edit config • r: refresh • d: remove entry • c: cleanup"))
	}

	style := paneBorder(lipgloss.NewStyle().Width(p.width).Height(p.height), focused)
	return style.Render(truncateHeight(b.String(), p.height-2))
}
