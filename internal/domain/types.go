package domain

import "time"

// Credential is the operator-supplied Telegram API identity. The api hash
// is sent to the backend once and echoed back masked afterwards.
type Credential struct {
	APIID       int    `json:"api_id"`
	APIHash     string `json:"api_hash"`
	PhoneNumber string `json:"phone_number"`
}

// Profile describes the authenticated Telegram account as reported by the
// backend session status endpoint.
type Profile struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	PhoneNumber string `json:"phone_number"`
	Verified    bool   `json:"verified"`
	Premium     bool   `json:"premium"`
}

// Session is the backend's view of the account session. The console only
// reads it; the backend owns the session string itself.
type Session struct {
	Authenticated bool     `json:"authenticated"`
	Profile       *Profile `json:"profile,omitempty"`
}

// Step is the auth flow position.
type Step int

const (
	StepConfig Step = iota
	StepCodeVerification
	StepTwoFactor
	StepAuthenticated
)

func (s Step) String() string {
	switch s {
	case StepConfig:
		return "config"
	case StepCodeVerification:
		return "code-verification"
	case StepTwoFactor:
		return "two-factor"
	case StepAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// GroupRefType classifies an operator-supplied group identifier.
type GroupRefType string

const (
	RefUsername   GroupRefType = "username"
	RefInviteLink GroupRefType = "invite_link"
	RefNumericID  GroupRefType = "group_id"
	RefUnknown    GroupRefType = "unknown"
)

// GroupReference is one classified line of operator input. Immutable once
// produced by the classifier.
type GroupReference struct {
	RawInput   string
	Type       GroupRefType
	Normalized string
	Display    string
}

// GroupTarget is a persisted messaging target as stored by the backend.
type GroupTarget struct {
	ID         string       `json:"id"`
	Identifier string       `json:"group_identifier"`
	Type       GroupRefType `json:"group_type"`
	Name       string       `json:"parsed_name"`
	IsActive   bool         `json:"is_active"`
	CreatedAt  time.Time    `json:"created_at"`
}

// MessageTemplate is a reusable outbound message body.
type MessageTemplate struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AutomationConfig holds the send pacing knobs. Delays are seconds, cycle
// bounds are hours, mirroring the backend schema.
type AutomationConfig struct {
	IsActive             bool    `json:"is_active"`
	MessageDelayMin      int     `json:"message_delay_min"`
	MessageDelayMax      int     `json:"message_delay_max"`
	CycleDelayMin        float64 `json:"cycle_delay_min"`
	CycleDelayMax        float64 `json:"cycle_delay_max"`
	AutoCleanupBlacklist bool    `json:"auto_cleanup_blacklist"`
}

// AutomationStatus is the live run state of the send loop.
type AutomationStatus struct {
	IsRunning         bool       `json:"is_running"`
	CurrentCycle      int        `json:"current_cycle"`
	MessagesSentToday int        `json:"messages_sent_today"`
	LastMessageSent   *time.Time `json:"last_message_sent,omitempty"`
	NextCycleAt       *time.Time `json:"next_cycle_at,omitempty"`
	Errors            []string   `json:"errors"`
}

// BlacklistEntry is a group the backend has (temporarily or permanently)
// excluded from sends. Expiry is handled server-side.
type BlacklistEntry struct {
	ID        string     `json:"id"`
	GroupID   string     `json:"group_id"`
	GroupName string     `json:"group_name"`
	Kind      string     `json:"blacklist_type"`
	Reason    string     `json:"reason"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}
