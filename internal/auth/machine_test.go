package auth_test

import (
	"errors"
	"testing"

	"tgconsole/internal/auth"
	"tgconsole/internal/domain"
	"tgconsole/internal/notice"
)

// backendErr mimics an api.Error in tests.
type backendErr struct{ detail string }

func (e backendErr) Error() string         { return e.detail }
func (e backendErr) BackendDetail() string { return e.detail }

var validCred = domain.Credential{
	APIID:       12345,
	APIHash:     "abc",
	PhoneNumber: "+15551234567",
}

func findNotify(t *testing.T, effects []auth.Effect) auth.Notify {
	t.Helper()
	for _, eff := range effects {
		if n, ok := eff.(auth.Notify); ok {
			return n
		}
	}
	t.Fatalf("no Notify effect in %v", effects)
	return auth.Notify{}
}

func hasEffect[E auth.Effect](effects []auth.Effect) bool {
	for _, eff := range effects {
		if _, ok := eff.(E); ok {
			return true
		}
	}
	return false
}

func TestSubmitCredential_MissingPlusPrefix(t *testing.T) {
	m := auth.New()

	cred := validCred
	cred.PhoneNumber = "15551234567"
	m, effects := auth.Update(m, auth.SubmitCredential{Credential: cred})

	if m.Step != domain.StepConfig {
		t.Errorf("Step = %v, want config", m.Step)
	}
	if m.InFlight != auth.OpNone {
		t.Error("validation failure must not mark an operation in flight")
	}
	// Exactly one notice, zero network effects.
	if len(effects) != 1 {
		t.Fatalf("effects = %v, want a single Notify", effects)
	}
	if n := findNotify(t, effects); n.Severity != notice.Error {
		t.Errorf("severity = %v, want error", n.Severity)
	}
}

func TestSubmitCredential_Success(t *testing.T) {
	m := auth.New()

	m, effects := auth.Update(m, auth.SubmitCredential{Credential: validCred})
	if m.InFlight != auth.OpOpenSession {
		t.Errorf("InFlight = %v, want OpOpenSession", m.InFlight)
	}
	if !hasEffect[auth.OpenSession](effects) {
		t.Fatalf("effects = %v, want OpenSession", effects)
	}

	// Re-entrancy: a second submit while the first is outstanding is a no-op.
	_, effects = auth.Update(m, auth.SubmitCredential{Credential: validCred})
	if len(effects) != 0 {
		t.Errorf("re-entrant submit produced effects: %v", effects)
	}
}

func TestSessionOpened_DispatchFailureStaysAtConfig(t *testing.T) {
	m := auth.New()
	m, _ = auth.Update(m, auth.SubmitCredential{Credential: validCred})

	// Credential persisted, code dispatch failed: not advanced.
	m, effects := auth.Update(m, auth.SessionOpened{
		Gen:   m.Gen,
		Phase: auth.PhaseDispatch,
		Err:   errors.New("connection refused"),
	})

	if m.Step != domain.StepConfig {
		t.Errorf("Step = %v, want config", m.Step)
	}
	if m.InFlight != auth.OpNone {
		t.Error("InFlight not cleared after failure")
	}
	if n := findNotify(t, effects); n.Text != "Failed to send verification code" {
		t.Errorf("notice = %q, want generic dispatch fallback", n.Text)
	}
}

func TestSessionOpened_Success(t *testing.T) {
	m := auth.New()
	m, _ = auth.Update(m, auth.SubmitCredential{Credential: validCred})

	m, effects := auth.Update(m, auth.SessionOpened{Gen: m.Gen})

	if m.Step != domain.StepCodeVerification {
		t.Errorf("Step = %v, want code-verification", m.Step)
	}
	n := findNotify(t, effects)
	if n.Severity != notice.Success {
		t.Errorf("severity = %v, want success", n.Severity)
	}
	if n.Text != "Verification code sent to +15551234567" {
		t.Errorf("notice = %q", n.Text)
	}
}

func TestSessionOpened_StaleGenerationIgnored(t *testing.T) {
	m := auth.New()
	m, _ = auth.Update(m, auth.SubmitCredential{Credential: validCred})

	m2, effects := auth.Update(m, auth.SessionOpened{Gen: m.Gen - 1})
	if m2 != m || len(effects) != 0 {
		t.Error("stale-generation result must be dropped")
	}
}

func atCodeStep(t *testing.T) auth.Machine {
	t.Helper()
	m := auth.New()
	m, _ = auth.Update(m, auth.SubmitCredential{Credential: validCred})
	m, _ = auth.Update(m, auth.SessionOpened{Gen: m.Gen})
	if m.Step != domain.StepCodeVerification {
		t.Fatalf("setup: Step = %v", m.Step)
	}
	return m
}

func TestSubmitCode_TooShortFailsLocally(t *testing.T) {
	tests := []string{"", "1234", "12a4", "  12 34 "}
	for _, code := range tests {
		m := atCodeStep(t)
		m, effects := auth.Update(m, auth.SubmitCode{Code: code})

		if hasEffect[auth.VerifyCode](effects) {
			t.Errorf("code %q reached the network", code)
		}
		if n := findNotify(t, effects); n.Severity != notice.Error {
			t.Errorf("code %q: severity = %v, want error", code, n.Severity)
		}
		if m.InFlight != auth.OpNone {
			t.Errorf("code %q marked in flight", code)
		}
	}
}

func TestSubmitCode_StripsNonDigits(t *testing.T) {
	m := atCodeStep(t)
	m, effects := auth.Update(m, auth.SubmitCode{Code: " 12-34 56\t"})

	if m.PendingCode != "123456" {
		t.Errorf("PendingCode = %q, want 123456", m.PendingCode)
	}
	for _, eff := range effects {
		if v, ok := eff.(auth.VerifyCode); ok {
			if v.Code != "123456" {
				t.Errorf("VerifyCode.Code = %q, want 123456", v.Code)
			}
			return
		}
	}
	t.Fatalf("no VerifyCode effect in %v", effects)
}

func TestCodeChecked_SecondFactorRequired(t *testing.T) {
	m := atCodeStep(t)
	m, _ = auth.Update(m, auth.SubmitCode{Code: "123456"})
	m, effects := auth.Update(m, auth.CodeChecked{Gen: m.Gen, Requires2FA: true})

	if m.Step != domain.StepTwoFactor {
		t.Errorf("Step = %v, want two-factor", m.Step)
	}
	if !m.TwoFactorRequired {
		t.Error("TwoFactorRequired = false")
	}
	// Code is retained in machine state for resend context.
	if m.PendingCode != "123456" {
		t.Errorf("PendingCode = %q, want retained code", m.PendingCode)
	}
	if n := findNotify(t, effects); n.Severity != notice.Info {
		t.Errorf("severity = %v, want info", n.Severity)
	}
}

func TestCodeChecked_SuccessSchedulesShellEntry(t *testing.T) {
	m := atCodeStep(t)
	m, _ = auth.Update(m, auth.SubmitCode{Code: "123456"})
	m, effects := auth.Update(m, auth.CodeChecked{Gen: m.Gen})

	if m.Step != domain.StepAuthenticated {
		t.Errorf("Step = %v, want authenticated", m.Step)
	}

	var sched auth.Schedule
	found := false
	for _, eff := range effects {
		if s, ok := eff.(auth.Schedule); ok {
			sched = s
			found = true
		}
	}
	if !found {
		t.Fatalf("no Schedule effect in %v", effects)
	}
	if sched.After != auth.EnterShellDelay || sched.Purpose != auth.TimerEnterShell {
		t.Errorf("Schedule = %+v", sched)
	}

	// The timer fires with the current generation: shell entry.
	_, effects = auth.Update(m, auth.TimerFired{Gen: sched.Gen, Purpose: auth.TimerEnterShell})
	if !hasEffect[auth.EnterShell](effects) {
		t.Errorf("TimerFired effects = %v, want EnterShell", effects)
	}
}

func TestCodeChecked_ExpiredCode(t *testing.T) {
	m := atCodeStep(t)
	m, _ = auth.Update(m, auth.SubmitCode{Code: "123456"})
	m, effects := auth.Update(m, auth.CodeChecked{
		Gen: m.Gen,
		Err: backendErr{detail: "Code has EXPIRED"},
	})

	if m.Step != domain.StepCodeVerification {
		t.Errorf("Step = %v, want code-verification", m.Step)
	}
	if m.PendingCode != "" {
		t.Errorf("PendingCode = %q, want cleared", m.PendingCode)
	}

	var sched auth.Schedule
	found := false
	for _, eff := range effects {
		if s, ok := eff.(auth.Schedule); ok {
			sched = s
			found = true
		}
	}
	if !found {
		t.Fatalf("no resend hint scheduled: %v", effects)
	}
	if sched.Purpose != auth.TimerResendHint {
		t.Errorf("Purpose = %v, want resend hint", sched.Purpose)
	}

	// Hint fires later as an informational notice.
	_, effects = auth.Update(m, auth.TimerFired{Gen: sched.Gen, Purpose: auth.TimerResendHint})
	if n := findNotify(t, effects); n.Severity != notice.Info {
		t.Errorf("hint severity = %v, want info", n.Severity)
	}
}

func TestCodeChecked_PlainRejection(t *testing.T) {
	m := atCodeStep(t)
	m, _ = auth.Update(m, auth.SubmitCode{Code: "123456"})
	m, effects := auth.Update(m, auth.CodeChecked{
		Gen: m.Gen,
		Err: backendErr{detail: "Invalid phone code"},
	})

	if m.Step != domain.StepCodeVerification {
		t.Errorf("Step = %v, want code-verification", m.Step)
	}
	// Not an expiry: no hint timer, code retained.
	if hasEffect[auth.Schedule](effects) {
		t.Error("plain rejection scheduled a hint")
	}
	if m.PendingCode != "123456" {
		t.Errorf("PendingCode = %q, want retained", m.PendingCode)
	}
	if n := findNotify(t, effects); n.Text != "Invalid phone code" {
		t.Errorf("notice = %q, want backend detail", n.Text)
	}
}

func TestRequestNewCode_IdempotentWhileInFlight(t *testing.T) {
	m := atCodeStep(t)

	m, effects := auth.Update(m, auth.RequestNewCode{})
	if !hasEffect[auth.ResendCode](effects) {
		t.Fatalf("effects = %v, want ResendCode", effects)
	}
	if m.PendingCode != "" {
		t.Error("resend must clear the pending code")
	}

	// Second request while the first dispatch is outstanding: exactly
	// zero additional dispatches.
	_, effects = auth.Update(m, auth.RequestNewCode{})
	if len(effects) != 0 {
		t.Errorf("concurrent resend produced effects: %v", effects)
	}
}

func atTwoFactorStep(t *testing.T) auth.Machine {
	t.Helper()
	m := atCodeStep(t)
	m, _ = auth.Update(m, auth.SubmitCode{Code: "123456"})
	m, _ = auth.Update(m, auth.CodeChecked{Gen: m.Gen, Requires2FA: true})
	if m.Step != domain.StepTwoFactor {
		t.Fatalf("setup: Step = %v", m.Step)
	}
	return m
}

func TestSubmitPassword_BlankFailsLocally(t *testing.T) {
	m := atTwoFactorStep(t)
	m, effects := auth.Update(m, auth.SubmitPassword{Password: "   "})

	if hasEffect[auth.VerifyPassword](effects) {
		t.Error("blank password reached the network")
	}
	if n := findNotify(t, effects); n.Severity != notice.Error {
		t.Errorf("severity = %v, want error", n.Severity)
	}
	if m.Step != domain.StepTwoFactor {
		t.Errorf("Step = %v, want two-factor", m.Step)
	}
}

func TestSubmitPassword_RejectionKeepsStep(t *testing.T) {
	m := atTwoFactorStep(t)
	m, _ = auth.Update(m, auth.SubmitPassword{Password: "hunter2"})
	m, effects := auth.Update(m, auth.PasswordChecked{
		Gen: m.Gen,
		Err: backendErr{detail: "Invalid 2FA password"},
	})

	if m.Step != domain.StepTwoFactor {
		t.Errorf("Step = %v, want two-factor", m.Step)
	}
	if n := findNotify(t, effects); n.Text != "Invalid 2FA password" {
		t.Errorf("notice = %q", n.Text)
	}
}

func TestGoBack_FromTwoFactor(t *testing.T) {
	m := atTwoFactorStep(t)

	// Simulate an in-flight verify: goBack is never blocked by it.
	m, _ = auth.Update(m, auth.SubmitPassword{Password: "hunter2"})
	verifyGen := m.Gen

	m, effects := auth.Update(m, auth.GoBack{})
	if m.Step != domain.StepCodeVerification {
		t.Errorf("Step = %v, want code-verification", m.Step)
	}
	if m.TwoFactorRequired {
		t.Error("TwoFactorRequired not reset")
	}
	if !hasEffect[auth.ClearNotice](effects) {
		t.Errorf("effects = %v, want ClearNotice", effects)
	}

	// The abandoned verify's late result must not mutate the machine.
	m2, effects := auth.Update(m, auth.PasswordChecked{Gen: verifyGen})
	if m2 != m || len(effects) != 0 {
		t.Error("late result from abandoned step mutated state")
	}
}

func TestGoBack_InvalidElsewhere(t *testing.T) {
	m := auth.New()
	m2, effects := auth.Update(m, auth.GoBack{})
	if m2 != m || len(effects) != 0 {
		t.Error("goBack from config must be a no-op")
	}
}

func TestStaleTimerIgnored(t *testing.T) {
	m := atCodeStep(t)
	m, _ = auth.Update(m, auth.SubmitCode{Code: "123456"})
	m, _ = auth.Update(m, auth.CodeChecked{
		Gen: m.Gen,
		Err: backendErr{detail: "code expired"},
	})
	hintGen := m.Gen

	// Resend before the hint fires: the hint's generation goes stale
	// only if a transition happened; resend stays in-step, so instead
	// drive through 2FA to force a transition.
	m, _ = auth.Update(m, auth.SubmitCode{Code: "654321"})
	m, _ = auth.Update(m, auth.CodeChecked{Gen: m.Gen, Requires2FA: true})

	m2, effects := auth.Update(m, auth.TimerFired{Gen: hintGen, Purpose: auth.TimerResendHint})
	if m2 != m || len(effects) != 0 {
		t.Error("timer from an abandoned step fired")
	}
}

// Full happy path with a second factor, per the end-to-end scenario.
func TestScenario_FullFlowWith2FA(t *testing.T) {
	m := auth.New()

	m, _ = auth.Update(m, auth.SubmitCredential{Credential: validCred})
	m, _ = auth.Update(m, auth.SessionOpened{Gen: m.Gen})
	if m.Step != domain.StepCodeVerification {
		t.Fatalf("after credential: Step = %v", m.Step)
	}

	m, _ = auth.Update(m, auth.SubmitCode{Code: "123456"})
	m, _ = auth.Update(m, auth.CodeChecked{Gen: m.Gen, Requires2FA: true})
	if m.Step != domain.StepTwoFactor {
		t.Fatalf("after code: Step = %v", m.Step)
	}

	m, _ = auth.Update(m, auth.SubmitPassword{Password: "hunter2"})
	m, effects := auth.Update(m, auth.PasswordChecked{Gen: m.Gen})
	if m.Step != domain.StepAuthenticated {
		t.Fatalf("after password: Step = %v", m.Step)
	}

	for _, eff := range effects {
		if s, ok := eff.(auth.Schedule); ok {
			_, fired := auth.Update(m, auth.TimerFired{Gen: s.Gen, Purpose: s.Purpose})
			if !hasEffect[auth.EnterShell](fired) {
				t.Errorf("shell entry timer effects = %v", fired)
			}
			return
		}
	}
	t.Fatal("no shell entry scheduled")
}
