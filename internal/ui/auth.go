package ui

import (
	"fmt"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"tgconsole/internal/auth"
	"tgconsole/internal/domain"
)

// AuthView renders the three-step sign-in flow and translates key input
// into machine events. The machine itself lives in the root model; this
// view only owns the text fields.
type AuthView struct {
	step  domain.Step
	phone string // echo for the code screen

	apiID    textinput.Model
	apiHash  textinput.Model
	phoneNum textinput.Model
	code     textinput.Model
	password textinput.Model

	focus    int
	inFlight bool
	width    int
	height   int
}

func NewAuthView() AuthView {
	apiID := textinput.New()
	apiID.Placeholder = "123456"
	apiID.CharLimit = 12

	apiHash := textinput.New()
	apiHash.Placeholder = "abcdef0123456789..."
	apiHash.CharLimit = 64

	phone := textinput.New()
	phone.Placeholder = "+15551234567"
	phone.CharLimit = 20

	code := textinput.New()
	code.Placeholder = "12345"
	code.CharLimit = 10

	password := textinput.New()
	password.Placeholder = "2FA password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'

	v := AuthView{
		step:     domain.StepConfig,
		apiID:    apiID,
		apiHash:  apiHash,
		phoneNum: phone,
		code:     code,
		password: password,
	}
	v.apiID.Focus()
	return v
}

func (v AuthView) SetSize(w, h int) AuthView {
	v.width = w
	v.height = h
	return v
}

// Sync aligns the view with the machine after each transition: moving
// into the code step clears the visible code field, moving into the
// second factor clears the password prompt area but keeps the typed code
// out of sight, and going back clears the password.
func (v AuthView) Sync(m auth.Machine) AuthView {
	prev := v.step
	v.step = m.Step
	v.phone = m.Phone
	v.inFlight = m.InFlight != auth.OpNone

	if prev == v.step {
		return v
	}

	switch v.step {
	case domain.StepCodeVerification:
		v.code.SetValue("")
		v.password.SetValue("")
		v.focus = 0
		v.code.Focus()
	case domain.StepTwoFactor:
		v.password.SetValue("")
		v.password.Focus()
	case domain.StepConfig:
		v.focus = 0
		v.apiID.Focus()
	}
	return v
}

// ClearCode empties the visible code field. Used when the backend
// reports the code expired.
func (v AuthView) ClearCode() AuthView {
	v.code.SetValue("")
	return v
}

func (v AuthView) Update(msg tea.Msg) (AuthView, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch v.step {
	case domain.StepConfig:
		return v.updateConfig(key)
	case domain.StepCodeVerification:
		return v.updateCode(key)
	case domain.StepTwoFactor:
		return v.updatePassword(key)
	}
	return v, nil
}

func (v AuthView) updateConfig(key tea.KeyMsg) (AuthView, tea.Cmd) {
	switch key.String() {
	case "tab", "down":
		v.focus = (v.focus + 1) % 3
		return v.refocusConfig(), nil
	case "shift+tab", "up":
		v.focus = (v.focus + 2) % 3
		return v.refocusConfig(), nil
	case "enter":
		apiID, _ := strconv.Atoi(strings.TrimSpace(v.apiID.Value()))
		cred := domain.Credential{
			APIID:       apiID,
			APIHash:     strings.TrimSpace(v.apiHash.Value()),
			PhoneNumber: strings.TrimSpace(v.phoneNum.Value()),
		}
		return v, func() tea.Msg {
			return AuthEventMsg{Ev: auth.SubmitCredential{Credential: cred}}
		}
	}

	var cmd tea.Cmd
	switch v.focus {
	case 0:
		v.apiID, cmd = v.apiID.Update(key)
	case 1:
		v.apiHash, cmd = v.apiHash.Update(key)
	case 2:
		v.phoneNum, cmd = v.phoneNum.Update(key)
	}
	return v, cmd
}

func (v AuthView) refocusConfig() AuthView {
	v.apiID.Blur()
	v.apiHash.Blur()
	v.phoneNum.Blur()
	switch v.focus {
	case 0:
		v.apiID.Focus()
	case 1:
		v.apiHash.Focus()
	case 2:
		v.phoneNum.Focus()
	}
	return v
}

func (v AuthView) updateCode(key tea.KeyMsg) (AuthView, tea.Cmd) {
	switch key.String() {
	case "enter":
		code := v.code.Value()
		return v, func() tea.Msg {
			return AuthEventMsg{Ev: auth.SubmitCode{Code: code}}
		}
	case "ctrl+r":
		return v, func() tea.Msg {
			return AuthEventMsg{Ev: auth.RequestNewCode{}}
		}
	}

	var cmd tea.Cmd
	v.code, cmd = v.code.Update(key)
	return v, cmd
}

func (v AuthView) updatePassword(key tea.KeyMsg) (AuthView, tea.Cmd) {
	switch key.String() {
	case "enter":
		pw := v.password.Value()
		return v, func() tea.Msg {
			return AuthEventMsg{Ev: auth.SubmitPassword{Password: pw}}
		}
	case "esc":
		return v, func() tea.Msg {
			return AuthEventMsg{Ev: auth.GoBack{}}
		}
	}

	var cmd tea.Cmd
	v.password, cmd = v.password.Update(key)
	return v, cmd
}

func (v AuthView) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Connect to Telegram"))
	b.WriteString("\n")
	b.WriteString(v.stepIndicator())
	b.WriteString("\n\n")

	switch v.step {
	case domain.StepConfig:
		b.WriteString(labelStyle.Render("API ID") + "\n")
		b.WriteString(v.apiID.View() + "\n\n")
		b.WriteString(labelStyle.Render("API Hash") + "\n")
		b.WriteString(v.apiHash.View() + "\n\n")
		b.WriteString(labelStyle.Render("Phone Number (with country code)") + "\n")
		b.WriteString(v.phoneNum.View() + "\n\n")
		b.WriteString(helpStyle.Render("tab: next field • enter: continue"))

	case domain.StepCodeVerification:
		b.WriteString(fmt.Sprintf("We sent a code to %s\n\n", v.phone))
		b.WriteString(labelStyle.Render("Verification Code") + "\n")
		b.WriteString(v.code.View() + "\n\n")
		b.WriteString(helpStyle.Render("enter: verify • ctrl+r: resend code"))

	case domain.StepTwoFactor:
		b.WriteString("Your account has two-factor authentication enabled\n\n")
		b.WriteString(labelStyle.Render("2FA Password") + "\n")
		b.WriteString(v.password.View() + "\n\n")
		b.WriteString(helpStyle.Render("enter: complete • esc: back"))

	case domain.StepAuthenticated:
		b.WriteString("Authentication successful\n\n")
		b.WriteString(helpStyle.Render("Loading your workspace..."))
	}

	if v.inFlight {
		b.WriteString("\n\n" + labelStyle.Render("Working..."))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(highlightColor).
		Padding(1, 3).
		Width(52).
		Render(b.String())

	if v.width == 0 || v.height == 0 {
		return box
	}
	return lipgloss.Place(v.width, v.height, lipgloss.Center, lipgloss.Center, box)
}

func (v AuthView) stepIndicator() string {
	steps := []string{"1 Credentials", "2 Code", "3 Password"}
	current := 0
	switch v.step {
	case domain.StepCodeVerification:
		current = 1
	case domain.StepTwoFactor, domain.StepAuthenticated:
		current = 2
	}

	var parts []string
	for i, s := range steps {
		if i == current {
			parts = append(parts, titleStyle.Render(s))
		} else {
			parts = append(parts, labelStyle.Render(s))
		}
	}
	return strings.Join(parts, labelStyle.Render("  ›  "))
}
