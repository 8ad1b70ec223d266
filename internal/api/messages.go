package api

import (
	"context"

	"tgconsole/internal/domain"
)

// Messages lists all message templates.
func (c *Client) Messages(ctx context.Context) ([]domain.MessageTemplate, error) {
	var msgs []domain.MessageTemplate
	err := c.get(ctx, "/messages", &msgs)
	return msgs, err
}

// CreateMessage stores a new template.
func (c *Client) CreateMessage(ctx context.Context, title, content string, active bool) (domain.MessageTemplate, error) {
	body := map[string]any{
		"title":     title,
		"content":   content,
		"is_active": active,
	}
	var m domain.MessageTemplate
	err := c.post(ctx, "/messages", body, &m)
	return m, err
}

// UpdateMessage patches a template's fields.
func (c *Client) UpdateMessage(ctx context.Context, id string, updates map[string]any) (domain.MessageTemplate, error) {
	var m domain.MessageTemplate
	err := c.put(ctx, "/messages/"+id, updates, &m)
	return m, err
}

// DeleteMessage removes a template.
func (c *Client) DeleteMessage(ctx context.Context, id string) error {
	return c.delete(ctx, "/messages/"+id)
}
