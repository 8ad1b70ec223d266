// Package auth is the session-establishment state machine: credential
// submission, one-time code verification, and the optional second factor.
// The machine is a pure value; Update maps (machine, event) to the next
// machine plus the effects the caller must execute. All network and timer
// work happens outside, which keeps every transition unit-testable.
package auth

import (
	"errors"
	"strings"
	"time"

	"tgconsole/internal/domain"
	"tgconsole/internal/notice"
)

// Fixed delays for the two scheduled nudges.
const (
	// EnterShellDelay lets the success notice be read before the shell
	// replaces the auth view.
	EnterShellDelay = 1500 * time.Millisecond
	// ResendHintDelay separates an expired-code error from the
	// follow-up resend hint.
	ResendHintDelay = 2 * time.Second
)

// MinCodeDigits is the shortest accepted one-time code.
const MinCodeDigits = 5

// Op is the kind of backend call currently in flight. At most one per
// machine; it gates same-type resubmission only.
type Op int

const (
	OpNone Op = iota
	OpOpenSession
	OpVerifyCode
	OpResendCode
	OpVerifyPassword
)

// Machine is the auth flow state. The zero value is not meaningful;
// use New.
type Machine struct {
	Step              domain.Step
	Phone             string
	PendingCode       string
	TwoFactorRequired bool

	// InFlight gates re-entrant submissions of the same operation.
	InFlight Op

	// Gen is bumped on every transition; backend results and timers
	// carry the generation they were issued under, and stale ones are
	// dropped. This is the stale-response guard.
	Gen int
}

// New returns a machine at the configuration step.
func New() Machine {
	return Machine{Step: domain.StepConfig}
}

// advance moves to a new step: the generation bump invalidates every
// outstanding result and timer from the step being left, and the
// in-flight flag never survives a transition.
func (m Machine) advance(step domain.Step) Machine {
	m.Step = step
	m.Gen++
	m.InFlight = OpNone
	return m
}

// Update is the transition function. Unknown or out-of-step events leave
// the machine unchanged with no effects.
func Update(m Machine, ev Event) (Machine, []Effect) {
	switch ev := ev.(type) {
	case SubmitCredential:
		return m.submitCredential(ev.Credential)
	case SessionOpened:
		return m.sessionOpened(ev)
	case SubmitCode:
		return m.submitCode(ev.Code)
	case CodeChecked:
		return m.codeChecked(ev)
	case RequestNewCode:
		return m.requestNewCode()
	case CodeResent:
		return m.codeResent(ev)
	case SubmitPassword:
		return m.submitPassword(ev.Password)
	case PasswordChecked:
		return m.passwordChecked(ev)
	case GoBack:
		return m.goBack()
	case TimerFired:
		return m.timerFired(ev)
	}
	return m, nil
}

func (m Machine) submitCredential(cred domain.Credential) (Machine, []Effect) {
	if m.Step != domain.StepConfig || m.InFlight == OpOpenSession {
		return m, nil
	}
	if !strings.HasPrefix(cred.PhoneNumber, "+") {
		return m, []Effect{Notify{notice.Error, "Phone number must start with + and include the country code"}}
	}
	if cred.APIID <= 0 || strings.TrimSpace(cred.APIHash) == "" {
		return m, []Effect{Notify{notice.Error, "API ID and API hash are required"}}
	}

	m.Phone = cred.PhoneNumber
	m.InFlight = OpOpenSession
	return m, []Effect{OpenSession{Credential: cred, Gen: m.Gen}}
}

func (m Machine) sessionOpened(ev SessionOpened) (Machine, []Effect) {
	if ev.Gen != m.Gen || m.Step != domain.StepConfig {
		return m, nil
	}
	m.InFlight = OpNone

	if ev.Err != nil {
		// Persistence may have succeeded while dispatch failed; the
		// machine stays at config either way and the operator resubmits.
		fallback := "Failed to save configuration"
		if ev.Phase == PhaseDispatch {
			fallback = "Failed to send verification code"
		}
		return m, []Effect{Notify{notice.Error, detail(ev.Err, fallback)}}
	}

	m = m.advance(domain.StepCodeVerification)
	m.PendingCode = ""
	return m, []Effect{Notify{notice.Success, "Verification code sent to " + m.Phone}}
}

func (m Machine) submitCode(code string) (Machine, []Effect) {
	if m.Step != domain.StepCodeVerification || m.InFlight == OpVerifyCode {
		return m, nil
	}

	digits := stripNonDigits(code)
	if len(digits) < MinCodeDigits {
		return m, []Effect{Notify{notice.Error, "Verification code must be at least 5 digits"}}
	}

	m.PendingCode = digits
	m.InFlight = OpVerifyCode
	return m, []Effect{VerifyCode{Code: digits, Gen: m.Gen}}
}

func (m Machine) codeChecked(ev CodeChecked) (Machine, []Effect) {
	if ev.Gen != m.Gen || m.Step != domain.StepCodeVerification {
		return m, nil
	}
	m.InFlight = OpNone

	if ev.Err != nil {
		text := detail(ev.Err, "Invalid verification code")
		if strings.Contains(strings.ToLower(text), "expired") {
			// The code is unusable; clear it and, a beat later, nudge
			// the operator toward resend.
			m.PendingCode = ""
			return m, []Effect{
				Notify{notice.Error, text},
				Schedule{After: ResendHintDelay, Purpose: TimerResendHint, Gen: m.Gen},
			}
		}
		return m, []Effect{Notify{notice.Error, text}}
	}

	if ev.Requires2FA {
		// The pending code stays in machine state for resend context;
		// the visible input clears on entering the password step.
		m.TwoFactorRequired = true
		m = m.advance(domain.StepTwoFactor)
		return m, []Effect{Notify{notice.Info, "Two-factor password required"}}
	}

	m = m.advance(domain.StepAuthenticated)
	return m, []Effect{
		Notify{notice.Success, "Authentication successful"},
		Schedule{After: EnterShellDelay, Purpose: TimerEnterShell, Gen: m.Gen},
	}
}

func (m Machine) requestNewCode() (Machine, []Effect) {
	if m.Step != domain.StepCodeVerification {
		return m, nil
	}
	// Idempotent while a resend is outstanding.
	if m.InFlight == OpResendCode {
		return m, nil
	}

	m.PendingCode = ""
	m.InFlight = OpResendCode
	return m, []Effect{ClearNotice{}, ResendCode{Gen: m.Gen}}
}

func (m Machine) codeResent(ev CodeResent) (Machine, []Effect) {
	if ev.Gen != m.Gen || m.Step != domain.StepCodeVerification {
		return m, nil
	}
	m.InFlight = OpNone

	if ev.Err != nil {
		return m, []Effect{Notify{notice.Error, detail(ev.Err, "Failed to send verification code")}}
	}
	return m, []Effect{Notify{notice.Success, "New verification code sent to " + m.Phone}}
}

func (m Machine) submitPassword(password string) (Machine, []Effect) {
	if m.Step != domain.StepTwoFactor || m.InFlight == OpVerifyPassword {
		return m, nil
	}
	if strings.TrimSpace(password) == "" {
		return m, []Effect{Notify{notice.Error, "Password must not be blank"}}
	}

	m.InFlight = OpVerifyPassword
	return m, []Effect{VerifyPassword{Password: password, Gen: m.Gen}}
}

func (m Machine) passwordChecked(ev PasswordChecked) (Machine, []Effect) {
	if ev.Gen != m.Gen || m.Step != domain.StepTwoFactor {
		return m, nil
	}
	m.InFlight = OpNone

	if ev.Err != nil {
		// The password field is left as typed so the operator can fix
		// a typo without retyping.
		return m, []Effect{Notify{notice.Error, detail(ev.Err, "Invalid 2FA password")}}
	}

	m = m.advance(domain.StepAuthenticated)
	return m, []Effect{
		Notify{notice.Success, "Authentication successful"},
		Schedule{After: EnterShellDelay, Purpose: TimerEnterShell, Gen: m.Gen},
	}
}

// goBack performs no network I/O, so it is never blocked by an in-flight
// verify call; the generation bump drops that call's late result instead.
func (m Machine) goBack() (Machine, []Effect) {
	if m.Step != domain.StepTwoFactor {
		return m, nil
	}
	m = m.advance(domain.StepCodeVerification)
	m.TwoFactorRequired = false
	return m, []Effect{ClearNotice{}}
}

func (m Machine) timerFired(ev TimerFired) (Machine, []Effect) {
	if ev.Gen != m.Gen {
		return m, nil
	}
	switch ev.Purpose {
	case TimerEnterShell:
		if m.Step != domain.StepAuthenticated {
			return m, nil
		}
		return m, []Effect{EnterShell{}}
	case TimerResendHint:
		if m.Step != domain.StepCodeVerification {
			return m, nil
		}
		return m, []Effect{Notify{notice.Info, "Your code expired. Use resend to get a new one."}}
	}
	return m, nil
}

func stripNonDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// detailer is satisfied by api.Error. The machine reads backend detail
// text through this interface so the package stays free of transport
// dependencies.
type detailer interface{ BackendDetail() string }

func detail(err error, fallback string) string {
	var d detailer
	if errors.As(err, &d) {
		if t := d.BackendDetail(); t != "" {
			return t
		}
	}
	return fallback
}
