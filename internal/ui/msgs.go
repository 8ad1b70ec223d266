package ui

import (
	"tgconsole/internal/auth"
	"tgconsole/internal/domain"
	"tgconsole/internal/groups"
)

// StoreUpdatedMsg signals that the store state has changed.
type StoreUpdatedMsg struct{}

// SessionCheckedMsg delivers the initial (or post-auth) session status.
type SessionCheckedMsg struct {
	Session domain.Session
	Err     error
}

// AuthEventMsg feeds a machine event back into the auth flow: operator
// submissions, backend results, and fired timers all arrive this way.
type AuthEventMsg struct {
	Ev auth.Event
}

// EnterShellMsg fires after the post-auth pause; the gate re-queries
// session status and hydrates the shell.
type EnterShellMsg struct{}

// NoticeExpiredMsg is the auto-dismiss timer for the notice shown under
// the given generation.
type NoticeExpiredMsg struct {
	Gen int
}

// Shell hydration results. The shell renders only once all four have
// settled.
type CredentialLoadedMsg struct {
	Credential domain.Credential
	Err        error
}

type GroupsLoadedMsg struct {
	Groups []domain.GroupTarget
	Err    error
}

type MessagesLoadedMsg struct {
	Messages []domain.MessageTemplate
	Err      error
}

type AutomationLoadedMsg struct {
	Config    domain.AutomationConfig
	Status    domain.AutomationStatus
	Blacklist []domain.BlacklistEntry
	Err       error
}

// GroupsIngestedMsg reports a bulk import outcome.
type GroupsIngestedMsg struct {
	Report groups.Report
	Err    error
}

// GroupSavedMsg delivers a created or updated group target.
type GroupSavedMsg struct {
	Group domain.GroupTarget
	Err   error
}

// GroupDeletedMsg confirms a deletion.
type GroupDeletedMsg struct {
	ID  string
	Err error
}

// MessageSavedMsg delivers a created or updated template.
type MessageSavedMsg struct {
	Message domain.MessageTemplate
	Err     error
}

// MessageDeletedMsg confirms a template deletion.
type MessageDeletedMsg struct {
	ID  string
	Err error
}

// BlacklistLoadedMsg delivers a refreshed blacklist.
type BlacklistLoadedMsg struct {
	Entries []domain.BlacklistEntry
	Err     error
}

// BlacklistEntryRemovedMsg confirms a single blacklist removal.
type BlacklistEntryRemovedMsg struct {
	ID  string
	Err error
}

// AutomationChangedMsg delivers the result of a start/stop/config change.
type AutomationChangedMsg struct {
	Config *domain.AutomationConfig
	Status *domain.AutomationStatus
	Err    error
}

// LogoutDoneMsg signals that logout finished; local state is already
// cleared regardless of Err.
type LogoutDoneMsg struct {
	Err error
}
