package ui

import (
	"context"
	"fmt"
	"io"

	"charm.land/bubbles/v2/list"
	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"tgconsole/internal/api"
	"tgconsole/internal/domain"
	"tgconsole/internal/groups"
)

type groupItem struct {
	id         string
	identifier string
	name       string
	refType    domain.GroupRefType
	active     bool
}

func (i groupItem) FilterValue() string { return i.identifier }

type groupItemDelegate struct{}

func (d groupItemDelegate) Height() int                             { return 2 }
func (d groupItemDelegate) Spacing() int                            { return 1 }
func (d groupItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d groupItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	gi, ok := item.(groupItem)
	if !ok {
		return
	}

	title := gi.name
	if title == "" {
		title = gi.identifier
	}

	state := "inactive"
	stateStyle := labelStyle
	if gi.active {
		state = "active"
		stateStyle = lipgloss.NewStyle().Foreground(accentGreen)
	}
	desc := fmt.Sprintf("%s · %s", typeGlyph(gi.refType), stateStyle.Render(state))

	cursor := "  "
	titleStyle := lipgloss.NewStyle().MaxHeight(1)
	if index == m.Index() {
		cursor = "> "
		titleStyle = titleStyle.Foreground(highlightColor).Bold(true)
	}

	fmt.Fprintf(w, "%s%s\n  %s", cursor, titleStyle.Render(title), desc)
}

func typeGlyph(t domain.GroupRefType) string {
	switch t {
	case domain.RefUsername:
		return "@username"
	case domain.RefInviteLink:
		return "invite link"
	case domain.RefNumericID:
		return "numeric id"
	default:
		return "unresolved"
	}
}

type groupsMode int

const (
	groupsBrowse groupsMode = iota
	groupsAdd
	groupsBulk
)

// GroupsPane manages group targets: browsing, single add, and the bulk
// ingestion flow.
type GroupsPane struct {
	list     list.Model
	mode     groupsMode
	addInput textinput.Model
	bulkArea textarea.Model

	client   *api.Client
	pipeline *groups.Pipeline

	width  int
	height int
}

func NewGroupsPane(client *api.Client, pipeline *groups.Pipeline) GroupsPane {
	l := list.New(nil, groupItemDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()

	addInput := textinput.New()
	addInput.Placeholder = "@username, t.me/group, or group id"

	bulkArea := textarea.New()
	bulkArea.Placeholder = "@group1\nhttps://t.me/group2\n-1001234567890"

	return GroupsPane{
		list:     l,
		addInput: addInput,
		bulkArea: bulkArea,
		client:   client,
		pipeline: pipeline,
	}
}

func (p GroupsPane) SetSize(w, h int) GroupsPane {
	p.width = w
	p.height = h
	innerW, innerH := w-2, h-4
	if innerW < 1 {
		innerW = 1
	}
	if innerH < 1 {
		innerH = 1
	}
	p.list.SetSize(innerW, innerH)
	p.bulkArea.SetWidth(innerW)
	p.bulkArea.SetHeight(8)
	return p
}

func (p GroupsPane) WithGroups(targets []domain.GroupTarget) GroupsPane {
	items := make([]list.Item, len(targets))
	for i, g := range targets {
		items[i] = groupItem{
			id:         g.ID,
			identifier: g.Identifier,
			name:       g.Name,
			refType:    g.Type,
			active:     g.IsActive,
		}
	}
	p.list.SetItems(items)
	return p
}

func (p GroupsPane) Update(msg tea.Msg) (GroupsPane, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	switch p.mode {
	case groupsAdd:
		return p.updateAdd(key)
	case groupsBulk:
		return p.updateBulk(key)
	}
	return p.updateBrowse(key)
}

func (p GroupsPane) updateBrowse(key tea.KeyMsg) (GroupsPane, tea.Cmd) {
	if p.list.FilterState() != list.Filtering {
		switch key.String() {
		case "a":
			p.mode = groupsAdd
			p.addInput.SetValue("")
			p.addInput.Focus()
			return p, nil
		case "b":
			p.mode = groupsBulk
			p.bulkArea.Reset()
			p.bulkArea.Focus()
			return p, nil
		case " ":
			return p, p.toggleSelected()
		case "d":
			return p, p.deleteSelected()
		case "r":
			client := p.client
			return p, func() tea.Msg {
				gs, err := client.Groups(context.Background())
				return GroupsLoadedMsg{Groups: gs, Err: err}
			}
		}
	}

	var cmd tea.Cmd
	p.list, cmd = p.list.Update(key)
	return p, cmd
}

func (p GroupsPane) toggleSelected() tea.Cmd {
	item, ok := p.list.SelectedItem().(groupItem)
	if !ok {
		return nil
	}
	client := p.client
	return func() tea.Msg {
		g, err := client.UpdateGroup(context.Background(), item.id,
			map[string]any{"is_active": !item.active})
		return GroupSavedMsg{Group: g, Err: err}
	}
}

func (p GroupsPane) deleteSelected() tea.Cmd {
	item, ok := p.list.SelectedItem().(groupItem)
	if !ok {
		return nil
	}
	client := p.client
	return func() tea.Msg {
		err := client.DeleteGroup(context.Background(), item.id)
		return GroupDeletedMsg{ID: item.id, Err: err}
	}
}

func (p GroupsPane) updateAdd(key tea.KeyMsg) (GroupsPane, tea.Cmd) {
	switch key.String() {
	case "esc":
		p.mode = groupsBrowse
		return p, nil
	case "enter":
		identifier := p.addInput.Value()
		p.mode = groupsBrowse
		if identifier == "" {
			return p, nil
		}
		client := p.client
		return p, func() tea.Msg {
			g, err := client.CreateGroup(context.Background(), identifier, true)
			return GroupSavedMsg{Group: g, Err: err}
		}
	}

	var cmd tea.Cmd
	p.addInput, cmd = p.addInput.Update(key)
	return p, cmd
}

func (p GroupsPane) updateBulk(key tea.KeyMsg) (GroupsPane, tea.Cmd) {
	switch key.String() {
	case "esc":
		p.mode = groupsBrowse
		return p, nil
	case "ctrl+s":
		raw := p.bulkArea.Value()
		p.mode = groupsBrowse
		pipeline := p.pipeline
		return p, func() tea.Msg {
			report, err := pipeline.Ingest(context.Background(), raw)
			return GroupsIngestedMsg{Report: report, Err: err}
		}
	}

	var cmd tea.Cmd
	p.bulkArea, cmd = p.bulkArea.Update(key)
	return p, cmd
}

func (p GroupsPane) View(focused bool) string {
	var content string
	switch p.mode {
	case groupsAdd:
		content = titleStyle.Render("Add Group") + "\n\n" +
			labelStyle.Render("Identifier (type is auto-detected)") + "\n" +
			p.addInput.View() + "\n\n" +
			helpStyle.Render("enter: add • esc: cancel")
	case groupsBulk:
		content = titleStyle.Render("Bulk Import") + "\n\n" +
			labelStyle.Render("One identifier per line; CSV first column is used") + "\n" +
			p.bulkArea.View() + "\n\n" +
			helpStyle.Render("ctrl+s: import • esc: cancel")
	default:
		content = truncateHeight(p.list.View(), p.height-4) + "\n" +
			helpStyle.Render("a: add • b: bulk import • space: toggle • d: delete • r: refresh • /: filter")
	}

	style := paneBorder(lipgloss.NewStyle().Width(p.width).Height(p.height), focused)
	return style.Render(content)
}
