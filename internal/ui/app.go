package ui

import (
	"context"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"tgconsole/internal/api"
	"tgconsole/internal/auth"
	"tgconsole/internal/domain"
	"tgconsole/internal/groups"
	"tgconsole/internal/notice"
	"tgconsole/internal/state"
)

type gatePhase int

const (
	// gateChecking is the initial session-status query.
	gateChecking gatePhase = iota
	// gateAuth drives the sign-in machine.
	gateAuth
	// gateHydrating waits for the four shell reads to settle.
	gateHydrating
	// gateShell is the operational surface.
	gateShell
)

type shellTab int

const (
	tabDashboard shellTab = iota
	tabMessages
	tabGroups
	tabAutomation
	tabCount
)

var tabLabels = [tabCount]string{"Dashboard", "Messages", "Groups", "Automation"}

// Model is the root Bubble Tea model: the session gate plus the shell.
type Model struct {
	phase gatePhase
	tab   shellTab

	machine  auth.Machine
	authView AuthView

	dashboard  DashboardPane
	messages   MessagesPane
	groupsPane GroupsPane
	automation AutomationPane

	notices notice.Center

	store  *state.Store
	client *api.Client
	logger *zap.Logger

	// pendingLoads counts outstanding hydration reads; the shell
	// renders only when it reaches zero.
	pendingLoads int

	width  int
	height int
}

// NewModel wires the root model.
func NewModel(store *state.Store, client *api.Client, pipeline *groups.Pipeline, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	return Model{
		phase:      gateChecking,
		machine:    auth.New(),
		authView:   NewAuthView(),
		dashboard:  NewDashboardPane(store),
		messages:   NewMessagesPane(client),
		groupsPane: NewGroupsPane(client, pipeline),
		automation: NewAutomationPane(client),
		store:      store,
		client:     client,
		logger:     logger,
	}
}

func (m Model) Init() tea.Cmd {
	return m.checkSession()
}

func (m Model) checkSession() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		sess, err := client.SessionStatus(context.Background())
		return SessionCheckedMsg{Session: sess, Err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m.distributeSize(), nil

	case StoreUpdatedMsg:
		return m.refreshFromStore(), nil

	case SessionCheckedMsg:
		return m.sessionChecked(msg)

	case AuthEventMsg:
		return m.applyAuthEvent(msg.Ev)

	case EnterShellMsg:
		m.phase = gateChecking
		return m, m.checkSession()

	case NoticeExpiredMsg:
		m.notices.Expire(msg.Gen)
		return m, nil

	case CredentialLoadedMsg:
		if msg.Err == nil {
			m.store.SetCredential(msg.Credential)
		}
		return m.loadSettled(msg.Err)

	case GroupsLoadedMsg:
		if msg.Err == nil {
			m.store.SetGroups(msg.Groups)
			m.groupsPane = m.groupsPane.WithGroups(m.store.GetGroups())
		}
		if m.phase == gateHydrating {
			return m.loadSettled(msg.Err)
		}
		return m.noticeOnErr(msg.Err, "Failed to load groups")

	case MessagesLoadedMsg:
		if msg.Err == nil {
			m.store.SetMessages(msg.Messages)
			m.messages = m.messages.WithMessages(msg.Messages)
		}
		if m.phase == gateHydrating {
			return m.loadSettled(msg.Err)
		}
		return m.noticeOnErr(msg.Err, "Failed to load templates")

	case AutomationLoadedMsg:
		if msg.Err == nil {
			m.store.SetAutomationConfig(msg.Config)
			m.store.SetAutomationStatus(msg.Status)
			m.store.SetBlacklist(msg.Blacklist)
			m.automation = m.automation.
				WithConfig(msg.Config).
				WithStatus(msg.Status).
				WithBlacklist(msg.Blacklist)
		}
		return m.loadSettled(msg.Err)

	case BlacklistLoadedMsg:
		if msg.Err != nil {
			return m.withNotice(notice.Error, api.Detail(msg.Err, "Blacklist request failed"))
		}
		m.store.SetBlacklist(msg.Entries)
		m.automation = m.automation.WithBlacklist(msg.Entries)
		return m, nil

	case BlacklistEntryRemovedMsg:
		if msg.Err != nil {
			return m.withNotice(notice.Error, api.Detail(msg.Err, "Failed to remove blacklist entry"))
		}
		remaining := m.store.GetBlacklist()
		kept := remaining[:0]
		for _, e := range remaining {
			if e.ID != msg.ID {
				kept = append(kept, e)
			}
		}
		m.store.SetBlacklist(kept)
		m.automation = m.automation.WithBlacklist(kept)
		return m, nil

	case GroupsIngestedMsg:
		return m.groupsIngested(msg)

	case GroupSavedMsg:
		if msg.Err != nil {
			return m.withNotice(notice.Error, api.Detail(msg.Err, "Failed to save group"))
		}
		m.store.UpsertGroup(msg.Group)
		m.groupsPane = m.groupsPane.WithGroups(m.store.GetGroups())
		return m, nil

	case GroupDeletedMsg:
		if msg.Err != nil {
			return m.withNotice(notice.Error, api.Detail(msg.Err, "Failed to delete group"))
		}
		m.store.RemoveGroup(msg.ID)
		m.groupsPane = m.groupsPane.WithGroups(m.store.GetGroups())
		return m, nil

	case MessageSavedMsg:
		if msg.Err != nil {
			return m.withNotice(notice.Error, api.Detail(msg.Err, "Failed to save template"))
		}
		m.store.UpsertMessage(msg.Message)
		m.messages = m.messages.WithMessages(m.store.GetMessages())
		return m, nil

	case MessageDeletedMsg:
		if msg.Err != nil {
			return m.withNotice(notice.Error, api.Detail(msg.Err, "Failed to delete template"))
		}
		m.store.RemoveMessage(msg.ID)
		m.messages = m.messages.WithMessages(m.store.GetMessages())
		return m, nil

	case AutomationChangedMsg:
		if msg.Err != nil {
			return m.withNotice(notice.Error, api.Detail(msg.Err, "Automation request failed"))
		}
		if msg.Config != nil {
			m.store.SetAutomationConfig(*msg.Config)
			m.automation = m.automation.WithConfig(*msg.Config)
		}
		if msg.Status != nil {
			m.store.SetAutomationStatus(*msg.Status)
			m.automation = m.automation.WithStatus(*msg.Status)
		}
		return m, nil

	case LogoutDoneMsg:
		if msg.Err != nil {
			m.logger.Warn("logout call failed", zap.Error(msg.Err))
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) sessionChecked(msg SessionCheckedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.phase = gateAuth
		m.machine = auth.New()
		m.authView = m.authView.Sync(m.machine)
		return m.withNotice(notice.Error, api.Detail(msg.Err, "Cannot reach the backend"))
	}

	if !msg.Session.Authenticated {
		m.phase = gateAuth
		return m, nil
	}

	m.store.SetSession(msg.Session)
	m.phase = gateHydrating
	m.pendingLoads = 4
	client := m.client
	return m, tea.Batch(
		func() tea.Msg {
			mc, err := client.SessionConfig(context.Background())
			return CredentialLoadedMsg{
				Credential: domain.Credential{APIID: mc.APIID, APIHash: mc.APIHash, PhoneNumber: mc.PhoneNumber},
				Err:        err,
			}
		},
		func() tea.Msg {
			gs, err := client.Groups(context.Background())
			return GroupsLoadedMsg{Groups: gs, Err: err}
		},
		func() tea.Msg {
			msgs, err := client.Messages(context.Background())
			return MessagesLoadedMsg{Messages: msgs, Err: err}
		},
		func() tea.Msg {
			cfg, err := client.AutomationConfig(context.Background())
			if err != nil {
				return AutomationLoadedMsg{Err: err}
			}
			st, err := client.AutomationStatus(context.Background())
			if err != nil {
				return AutomationLoadedMsg{Config: cfg, Err: err}
			}
			black, err := client.Blacklist(context.Background())
			return AutomationLoadedMsg{Config: cfg, Status: st, Blacklist: black, Err: err}
		},
	)
}

// loadSettled accounts for one hydration read. Failed reads surface a
// notice but never stall the gate.
func (m Model) loadSettled(err error) (tea.Model, tea.Cmd) {
	if m.phase != gateHydrating {
		return m, nil
	}
	m.pendingLoads--

	var cmd tea.Cmd
	if err != nil {
		m, cmd = m.withNoticeModel(notice.Error, api.Detail(err, "Failed to load workspace data"))
	}
	if m.pendingLoads <= 0 {
		m.phase = gateShell
		m = m.refreshFromStore()
	}
	return m, cmd
}

func (m Model) noticeOnErr(err error, fallback string) (tea.Model, tea.Cmd) {
	if err == nil {
		return m, nil
	}
	return m.withNotice(notice.Error, api.Detail(err, fallback))
}

// applyAuthEvent runs the machine and executes the resulting effects.
func (m Model) applyAuthEvent(ev auth.Event) (tea.Model, tea.Cmd) {
	var effects []auth.Effect
	m.machine, effects = auth.Update(m.machine, ev)
	m.authView = m.authView.Sync(m.machine)

	// An expired or resent code empties the machine's pending code;
	// mirror that in the visible field.
	switch ev.(type) {
	case auth.CodeChecked, auth.RequestNewCode:
		if m.machine.Step == domain.StepCodeVerification && m.machine.PendingCode == "" {
			m.authView = m.authView.ClearCode()
		}
	}

	var cmds []tea.Cmd
	for _, eff := range effects {
		var cmd tea.Cmd
		m, cmd = m.runAuthEffect(eff)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) runAuthEffect(eff auth.Effect) (Model, tea.Cmd) {
	client := m.client

	switch eff := eff.(type) {
	case auth.OpenSession:
		gen := eff.Gen
		cred := eff.Credential
		return m, func() tea.Msg {
			if err := client.SaveCredential(context.Background(), cred); err != nil {
				return AuthEventMsg{Ev: auth.SessionOpened{Gen: gen, Phase: auth.PhaseSave, Err: err}}
			}
			if err := client.SendCode(context.Background()); err != nil {
				return AuthEventMsg{Ev: auth.SessionOpened{Gen: gen, Phase: auth.PhaseDispatch, Err: err}}
			}
			return AuthEventMsg{Ev: auth.SessionOpened{Gen: gen}}
		}

	case auth.VerifyCode:
		gen := eff.Gen
		code := eff.Code
		return m, func() tea.Msg {
			requires2FA, err := client.VerifyCode(context.Background(), code)
			return AuthEventMsg{Ev: auth.CodeChecked{Gen: gen, Requires2FA: requires2FA, Err: err}}
		}

	case auth.ResendCode:
		gen := eff.Gen
		return m, func() tea.Msg {
			err := client.SendCode(context.Background())
			return AuthEventMsg{Ev: auth.CodeResent{Gen: gen, Err: err}}
		}

	case auth.VerifyPassword:
		gen := eff.Gen
		password := eff.Password
		return m, func() tea.Msg {
			err := client.VerifyPassword(context.Background(), password)
			return AuthEventMsg{Ev: auth.PasswordChecked{Gen: gen, Err: err}}
		}

	case auth.Notify:
		return m.withNoticeModel(eff.Severity, eff.Text)

	case auth.ClearNotice:
		m.notices.Dismiss()
		return m, nil

	case auth.Schedule:
		gen := eff.Gen
		purpose := eff.Purpose
		return m, tea.Tick(eff.After, func(time.Time) tea.Msg {
			return AuthEventMsg{Ev: auth.TimerFired{Gen: gen, Purpose: purpose}}
		})

	case auth.EnterShell:
		return m, func() tea.Msg { return EnterShellMsg{} }
	}
	return m, nil
}

func (m Model) groupsIngested(msg GroupsIngestedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		if msg.Err == groups.ErrEmptyInput {
			return m.withNotice(notice.Error, "Enter at least one group identifier")
		}
		return m.withNotice(notice.Error, api.Detail(msg.Err, "Failed to import groups"))
	}

	var m2 Model
	var noticeCmd tea.Cmd
	m2, noticeCmd = m.withNoticeModel(notice.Success,
		fmt.Sprintf("Imported %d groups (%d rejected or duplicate)", msg.Report.Accepted, msg.Report.RejectedOrDuplicate))

	client := m2.client
	refresh := func() tea.Msg {
		gs, err := client.Groups(context.Background())
		return GroupsLoadedMsg{Groups: gs, Err: err}
	}
	return m2, tea.Batch(noticeCmd, refresh)
}

// withNotice shows a notice and schedules its severity-based expiry.
func (m Model) withNotice(sev notice.Severity, text string) (tea.Model, tea.Cmd) {
	return m.withNoticeModel(sev, text)
}

func (m Model) withNoticeModel(sev notice.Severity, text string) (Model, tea.Cmd) {
	_, gen := m.notices.Show(sev, text)
	return m, tea.Tick(notice.DelayFor(sev), func(time.Time) tea.Msg {
		return NoticeExpiredMsg{Gen: gen}
	})
}

func (m Model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit
	}

	switch m.phase {
	case gateAuth:
		var cmd tea.Cmd
		m.authView, cmd = m.authView.Update(key)
		return m, cmd

	case gateShell:
		switch key.String() {
		case "]":
			m.tab = (m.tab + 1) % tabCount
			return m, nil
		case "[":
			m.tab = (m.tab + tabCount - 1) % tabCount
			return m, nil
		case "ctrl+l":
			return m.logout()
		}

		var cmd tea.Cmd
		switch m.tab {
		case tabMessages:
			m.messages, cmd = m.messages.Update(key)
		case tabGroups:
			m.groupsPane, cmd = m.groupsPane.Update(key)
		case tabAutomation:
			m.automation, cmd = m.automation.Update(key)
		}
		return m, cmd
	}
	return m, nil
}

// logout clears local state immediately; the backend call is best-effort.
func (m Model) logout() (tea.Model, tea.Cmd) {
	m.store.ClearSession()
	m.phase = gateAuth
	m.machine = auth.New()
	m.authView = NewAuthView().SetSize(m.width, m.height)
	m.notices.Dismiss()

	client := m.client
	logoutCmd := func() tea.Msg {
		err := client.Logout(context.Background())
		return LogoutDoneMsg{Err: err}
	}

	m2, noticeCmd := m.withNoticeModel(notice.Info, "Signed out")
	return m2, tea.Batch(logoutCmd, noticeCmd)
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	switch m.phase {
	case gateChecking, gateHydrating:
		label := "Checking session..."
		if m.phase == gateHydrating {
			label = "Loading your workspace..."
		}
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(highlightColor).
			Padding(1, 3).
			Render(label)
		v.SetContent(lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box))
		return v

	case gateAuth:
		bar := renderNotice(m.notices.Current(), m.width)
		body := m.authView.SetSize(m.width, m.height-1).View()
		v.SetContent(lipgloss.JoinVertical(lipgloss.Left, bar, body))
		return v
	}

	// Shell: tab bar, notice bar, active pane.
	var tabs []string
	for i := shellTab(0); i < tabCount; i++ {
		if i == m.tab {
			tabs = append(tabs, activeTabStyle.Render(tabLabels[i]))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(tabLabels[i]))
		}
	}
	tabBar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...) +
		helpStyle.Render("   [ ] switch · ctrl+l sign out · ctrl+c quit")

	bar := renderNotice(m.notices.Current(), m.width)

	var pane string
	switch m.tab {
	case tabDashboard:
		pane = m.dashboard.View(true)
	case tabMessages:
		pane = m.messages.View(true)
	case tabGroups:
		pane = m.groupsPane.View(true)
	case tabAutomation:
		pane = m.automation.View(true)
	}

	content := lipgloss.JoinVertical(lipgloss.Left, tabBar, bar, pane)
	v.SetContent(lipgloss.NewStyle().MaxWidth(m.width).MaxHeight(m.height).Render(content))
	return v
}

func (m Model) distributeSize() Model {
	paneH := m.height - 2
	if paneH < 1 {
		paneH = 1
	}
	paneW := m.width
	if paneW < 1 {
		paneW = 1
	}

	m.authView = m.authView.SetSize(m.width, m.height)
	m.dashboard = m.dashboard.SetSize(paneW, paneH)
	m.messages = m.messages.SetSize(paneW, paneH)
	m.groupsPane = m.groupsPane.SetSize(paneW, paneH)
	m.automation = m.automation.SetSize(paneW, paneH)
	return m
}

func (m Model) refreshFromStore() Model {
	m.groupsPane = m.groupsPane.WithGroups(m.store.GetGroups())
	m.messages = m.messages.WithMessages(m.store.GetMessages())
	m.automation = m.automation.
		WithConfig(m.store.GetAutomationConfig()).
		WithStatus(m.store.GetAutomationStatus()).
		WithBlacklist(m.store.GetBlacklist())
	return m
}

// App wraps the Bubble Tea program for external use.
type App struct {
	program *tea.Program
}

// NewApp creates a new App ready to Run.
func NewApp(store *state.Store, client *api.Client, pipeline *groups.Pipeline, logger *zap.Logger) *App {
	model := NewModel(store, client, pipeline, logger)
	p := tea.NewProgram(model)
	return &App{program: p}
}

// Run starts the Bubble Tea event loop (blocks until quit).
func (a *App) Run() error {
	_, err := a.program.Run()
	return err
}

// Send sends a message into the Bubble Tea event loop from external goroutines.
func (a *App) Send(msg tea.Msg) {
	go a.program.Send(msg)
}

// DrawFunc returns a function suitable for state.Store that triggers a re-render.
func (a *App) DrawFunc() func() {
	return func() {
		a.Send(StoreUpdatedMsg{})
	}
}
