package auth

import "tgconsole/internal/domain"

// Event is an input to the machine: an operator action, a backend result,
// or a fired timer. Result and timer events carry the generation they were
// issued under so stale arrivals can be dropped.
type Event interface{ isEvent() }

// SubmitCredential is the operator submitting the config form.
type SubmitCredential struct {
	Credential domain.Credential
}

// Phase identifies which half of the credential submission failed.
type Phase int

const (
	PhaseSave Phase = iota
	PhaseDispatch
)

// SessionOpened is the result of the save-credential + send-code pair.
// Err is nil on full success; otherwise Phase says which call failed.
type SessionOpened struct {
	Gen   int
	Phase Phase
	Err   error
}

// SubmitCode is the operator submitting the one-time code form.
type SubmitCode struct {
	Code string
}

// CodeChecked is the result of code verification.
type CodeChecked struct {
	Gen         int
	Requires2FA bool
	Err         error
}

// RequestNewCode is the operator asking for a fresh one-time code.
type RequestNewCode struct{}

// CodeResent is the result of a resend dispatch.
type CodeResent struct {
	Gen int
	Err error
}

// SubmitPassword is the operator submitting the second-factor form.
type SubmitPassword struct {
	Password string
}

// PasswordChecked is the result of 2FA verification.
type PasswordChecked struct {
	Gen int
	Err error
}

// GoBack returns from the second-factor step to code verification.
type GoBack struct{}

// TimerPurpose distinguishes the machine's two scheduled delays.
type TimerPurpose int

const (
	// TimerEnterShell fires after the post-success pause, handing
	// control to the operational shell.
	TimerEnterShell TimerPurpose = iota
	// TimerResendHint fires after an expired-code rejection to nudge
	// the operator toward resend.
	TimerResendHint
)

// TimerFired delivers a scheduled delay.
type TimerFired struct {
	Gen     int
	Purpose TimerPurpose
}

func (SubmitCredential) isEvent() {}
func (SessionOpened) isEvent()    {}
func (SubmitCode) isEvent()       {}
func (CodeChecked) isEvent()      {}
func (RequestNewCode) isEvent()   {}
func (CodeResent) isEvent()       {}
func (SubmitPassword) isEvent()   {}
func (PasswordChecked) isEvent()  {}
func (GoBack) isEvent()           {}
func (TimerFired) isEvent()       {}
