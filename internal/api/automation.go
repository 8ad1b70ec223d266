package api

import (
	"context"

	"tgconsole/internal/domain"
)

// AutomationConfig fetches the send pacing configuration.
func (c *Client) AutomationConfig(ctx context.Context) (domain.AutomationConfig, error) {
	var cfg domain.AutomationConfig
	err := c.get(ctx, "/automation/config", &cfg)
	return cfg, err
}

// UpdateAutomationConfig stores new pacing settings.
func (c *Client) UpdateAutomationConfig(ctx context.Context, cfg domain.AutomationConfig) (domain.AutomationConfig, error) {
	var out domain.AutomationConfig
	err := c.put(ctx, "/automation/config", cfg, &out)
	return out, err
}

// AutomationStatus fetches the live run state.
func (c *Client) AutomationStatus(ctx context.Context) (domain.AutomationStatus, error) {
	var st domain.AutomationStatus
	err := c.get(ctx, "/automation/status", &st)
	return st, err
}

// StartAutomation starts the send loop.
func (c *Client) StartAutomation(ctx context.Context) error {
	return c.post(ctx, "/automation/start", nil, nil)
}

// StopAutomation stops the send loop.
func (c *Client) StopAutomation(ctx context.Context) error {
	return c.post(ctx, "/automation/stop", nil, nil)
}

// Blacklist lists all blacklist entries. Expiry of temporary entries is a
// backend concern; the console only reads and removes.
func (c *Client) Blacklist(ctx context.Context) ([]domain.BlacklistEntry, error) {
	var entries []domain.BlacklistEntry
	err := c.get(ctx, "/blacklist", &entries)
	return entries, err
}

// RemoveBlacklistEntry deletes one entry.
func (c *Client) RemoveBlacklistEntry(ctx context.Context, id string) error {
	return c.delete(ctx, "/blacklist/"+id)
}

// CleanupBlacklist asks the backend to purge expired temporary entries.
func (c *Client) CleanupBlacklist(ctx context.Context) error {
	return c.post(ctx, "/blacklist/cleanup", nil, nil)
}
