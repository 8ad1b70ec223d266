package auth

import (
	"time"

	"tgconsole/internal/domain"
	"tgconsole/internal/notice"
)

// Effect is a side effect the caller must perform on the machine's
// behalf: a backend call, a notice, or a scheduled delay. The reducer
// itself never touches the network or the clock.
type Effect interface{ isEffect() }

// OpenSession saves the credential and then requests code dispatch. The
// executor performs both calls sequentially and reports back with a
// single SessionOpened event.
type OpenSession struct {
	Credential domain.Credential
	Gen        int
}

// VerifyCode submits the pending one-time code.
type VerifyCode struct {
	Code string
	Gen  int
}

// ResendCode re-triggers one-time code dispatch.
type ResendCode struct {
	Gen int
}

// VerifyPassword submits the second-factor password.
type VerifyPassword struct {
	Password string
	Gen      int
}

// Notify shows a status notice, superseding any current one.
type Notify struct {
	Severity notice.Severity
	Text     string
}

// ClearNotice dismisses the current notice without a replacement.
type ClearNotice struct{}

// Schedule asks for a TimerFired{Gen, Purpose} event after the delay.
type Schedule struct {
	After   time.Duration
	Purpose TimerPurpose
	Gen     int
}

// EnterShell signals that authentication completed and the operational
// shell should take over.
type EnterShell struct{}

func (OpenSession) isEffect()    {}
func (VerifyCode) isEffect()     {}
func (ResendCode) isEffect()     {}
func (VerifyPassword) isEffect() {}
func (Notify) isEffect()         {}
func (ClearNotice) isEffect()    {}
func (Schedule) isEffect()       {}
func (EnterShell) isEffect()     {}
