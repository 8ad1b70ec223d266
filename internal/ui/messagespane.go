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
	"github.com/charmbracelet/glamour"

	"tgconsole/internal/api"
	"tgconsole/internal/domain"
)

type messageItem struct {
	id      string
	title   string
	content string
	active  bool
}

func (i messageItem) FilterValue() string { return i.title }

type messageItemDelegate struct{}

func (d messageItemDelegate) Height() int                             { return 2 }
func (d messageItemDelegate) Spacing() int                            { return 1 }
func (d messageItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d messageItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	mi, ok := item.(messageItem)
	if !ok {
		return
	}

	state := labelStyle.Render("inactive")
	if mi.active {
		state = lipgloss.NewStyle().Foreground(accentGreen).Render("active")
	}

	cursor := "  "
	ts := lipgloss.NewStyle().MaxHeight(1)
	if index == m.Index() {
		cursor = "> "
		ts = ts.Foreground(highlightColor).Bold(true)
	}

	fmt.Fprintf(w, "%s%s\n  %s", cursor, ts.Render(mi.title), state)
}

type messagesMode int

const (
	messagesBrowse messagesMode = iota
	messagesCompose
)

// MessagesPane manages message templates with a markdown preview of the
// selected template.
type MessagesPane struct {
	list       list.Model
	mode       messagesMode
	titleInput textinput.Model
	bodyArea   textarea.Model
	composeRow int // 0 = title, 1 = body

	renderer *glamour.TermRenderer
	client   *api.Client

	width  int
	height int
}

func NewMessagesPane(client *api.Client) MessagesPane {
	l := list.New(nil, messageItemDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()

	titleInput := textinput.New()
	titleInput.Placeholder = "Template title"

	bodyArea := textarea.New()
	bodyArea.Placeholder = "Message body (markdown supported)"

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(60),
	)

	return MessagesPane{
		list:       l,
		titleInput: titleInput,
		bodyArea:   bodyArea,
		renderer:   renderer,
		client:     client,
	}
}

func (p MessagesPane) SetSize(w, h int) MessagesPane {
	p.width = w
	p.height = h
	listW := w / 2
	if listW < 20 {
		listW = w - 2
	}
	innerH := h - 4
	if innerH < 1 {
		innerH = 1
	}
	p.list.SetSize(listW, innerH)
	p.bodyArea.SetWidth(w - 4)
	p.bodyArea.SetHeight(8)
	return p
}

func (p MessagesPane) WithMessages(msgs []domain.MessageTemplate) MessagesPane {
	items := make([]list.Item, len(msgs))
	for i, m := range msgs {
		items[i] = messageItem{id: m.ID, title: m.Title, content: m.Content, active: m.IsActive}
	}
	p.list.SetItems(items)
	return p
}

func (p MessagesPane) Update(msg tea.Msg) (MessagesPane, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}

	if p.mode == messagesCompose {
		return p.updateCompose(key)
	}
	return p.updateBrowse(key)
}

func (p MessagesPane) updateBrowse(key tea.KeyMsg) (MessagesPane, tea.Cmd) {
	if p.list.FilterState() != list.Filtering {
		switch key.String() {
		case "n":
			p.mode = messagesCompose
			p.composeRow = 0
			p.titleInput.SetValue("")
			p.bodyArea.Reset()
			p.titleInput.Focus()
			p.bodyArea.Blur()
			return p, nil
		case " ":
			return p, p.toggleSelected()
		case "d":
			return p, p.deleteSelected()
		case "r":
			client := p.client
			return p, func() tea.Msg {
				msgs, err := client.Messages(context.Background())
				return MessagesLoadedMsg{Messages: msgs, Err: err}
			}
		}
	}

	var cmd tea.Cmd
	p.list, cmd = p.list.Update(key)
	return p, cmd
}

func (p MessagesPane) toggleSelected() tea.Cmd {
	item, ok := p.list.SelectedItem().(messageItem)
	if !ok {
		return nil
	}
	client := p.client
	return func() tea.Msg {
		m, err := client.UpdateMessage(context.Background(), item.id,
			map[string]any{"is_active": !item.active})
		return MessageSavedMsg{Message: m, Err: err}
	}
}

func (p MessagesPane) deleteSelected() tea.Cmd {
	item, ok := p.list.SelectedItem().(messageItem)
	if !ok {
		return nil
	}
	client := p.client
	return func() tea.Msg {
		err := client.DeleteMessage(context.Background(), item.id)
		return MessageDeletedMsg{ID: item.id, Err: err}
	}
}

func (p MessagesPane) updateCompose(key tea.KeyMsg) (MessagesPane, tea.Cmd) {
	switch key.String() {
	case "esc":
		p.mode = messagesBrowse
		return p, nil
	case "tab":
		p.composeRow = (p.composeRow + 1) % 2
		if p.composeRow == 0 {
			p.titleInput.Focus()
			p.bodyArea.Blur()
		} else {
			p.titleInput.Blur()
			p.bodyArea.Focus()
		}
		return p, nil
	case "ctrl+s":
		title := p.titleInput.Value()
		body := p.bodyArea.Value()
		p.mode = messagesBrowse
		if title == "" || body == "" {
			return p, nil
		}
		client := p.client
		return p, func() tea.Msg {
			m, err := client.CreateMessage(context.Background(), title, body, true)
			return MessageSavedMsg{Message: m, Err: err}
		}
	}

	var cmd tea.Cmd
	if p.composeRow == 0 {
		p.titleInput, cmd = p.titleInput.Update(key)
	} else {
		p.bodyArea, cmd = p.bodyArea.Update(key)
	}
	return p, cmd
}

func (p MessagesPane) View(focused bool) string {
	var content string
	if p.mode == messagesCompose {
		content = titleStyle.Render("New Template") + "\n\n" +
			labelStyle.Render("Title") + "\n" + p.titleInput.View() + "\n\n" +
			labelStyle.Render("Body") + "\n" + p.bodyArea.View() + "\n\n" +
			helpStyle.Render("tab: switch field • ctrl+s: save • esc: cancel")
	} else {
		listView := truncateHeight(p.list.View(), p.height-4)
		preview := p.preview()
		body := lipgloss.JoinHorizontal(lipgloss.Top, listView, preview)
		content = body + "\n" +
			helpStyle.Render("n: new • space: toggle • d: delete • r: refresh • /: filter")
	}

	style := paneBorder(lipgloss.NewStyle().Width(p.width).Height(p.height), focused)
	return style.Render(content)
}

func (p MessagesPane) preview() string {
	item, ok := p.list.SelectedItem().(messageItem)
	if !ok {
		return labelStyle.Render("  no template selected")
	}

	rendered := item.content
	if p.renderer != nil {
		if out, err := p.renderer.Render(item.content); err == nil {
			rendered = out
		}
	}
	return truncateHeight(rendered, p.height-4)
}
