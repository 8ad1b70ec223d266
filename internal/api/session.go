package api

import (
	"context"

	"tgconsole/internal/domain"
)

// SessionStatus reports whether the backend holds an authenticated
// Telegram session.
func (c *Client) SessionStatus(ctx context.Context) (domain.Session, error) {
	var s domain.Session
	err := c.get(ctx, "/session/status", &s)
	return s, err
}

// MaskedCredential is the stored credential as echoed by the backend.
// The api hash comes back masked and is never the stored secret.
type MaskedCredential struct {
	APIID       int    `json:"api_id"`
	APIHash     string `json:"api_hash"`
	PhoneNumber string `json:"phone_number"`
	IsAuthed    bool   `json:"is_authenticated"`
}

// SessionConfig fetches the stored credential echo.
func (c *Client) SessionConfig(ctx context.Context) (MaskedCredential, error) {
	var mc MaskedCredential
	err := c.get(ctx, "/session/config", &mc)
	return mc, err
}

// SaveCredential persists the API id, hash and phone number. Saving a new
// credential invalidates any existing session server-side.
func (c *Client) SaveCredential(ctx context.Context, cred domain.Credential) error {
	return c.post(ctx, "/session/config", cred, nil)
}

// SendCode asks the backend to dispatch a one-time code to the configured
// phone number.
func (c *Client) SendCode(ctx context.Context) error {
	return c.post(ctx, "/session/send-code", nil, nil)
}

// VerifyCode submits the one-time code. The returned bool is true when the
// account additionally requires the 2FA password.
func (c *Client) VerifyCode(ctx context.Context, code string) (bool, error) {
	var resp struct {
		Requires2FA bool `json:"requires_2fa"`
	}
	body := map[string]string{"phone_code": code}
	if err := c.post(ctx, "/session/verify-code", body, &resp); err != nil {
		return false, err
	}
	return resp.Requires2FA, nil
}

// VerifyPassword submits the second-factor password.
func (c *Client) VerifyPassword(ctx context.Context, password string) error {
	body := map[string]string{"password": password}
	return c.post(ctx, "/session/verify-2fa", body, nil)
}

// Logout invalidates the backend session. Callers treat this as
// best-effort and clear local state regardless of the result.
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/session/logout", nil, nil)
}
