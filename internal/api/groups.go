package api

import (
	"context"

	"tgconsole/internal/domain"
)

// Groups lists all stored group targets.
func (c *Client) Groups(ctx context.Context) ([]domain.GroupTarget, error) {
	var groups []domain.GroupTarget
	err := c.get(ctx, "/groups", &groups)
	return groups, err
}

// CreateGroup stores a single group target.
func (c *Client) CreateGroup(ctx context.Context, identifier string, active bool) (domain.GroupTarget, error) {
	body := map[string]any{
		"group_identifier": identifier,
		"is_active":        active,
	}
	var g domain.GroupTarget
	err := c.post(ctx, "/groups", body, &g)
	return g, err
}

// BulkCreateGroups submits one batch of raw identifiers. The backend
// resolves, deduplicates against stored groups, and returns only the
// subset it actually created.
func (c *Client) BulkCreateGroups(ctx context.Context, identifiers []string) ([]domain.GroupTarget, error) {
	body := map[string][]string{"groups": identifiers}
	var created []domain.GroupTarget
	err := c.post(ctx, "/groups/bulk", body, &created)
	return created, err
}

// UpdateGroup patches a group target's identifier or active flag.
func (c *Client) UpdateGroup(ctx context.Context, id string, updates map[string]any) (domain.GroupTarget, error) {
	var g domain.GroupTarget
	err := c.put(ctx, "/groups/"+id, updates, &g)
	return g, err
}

// DeleteGroup removes a group target.
func (c *Client) DeleteGroup(ctx context.Context, id string) error {
	return c.delete(ctx, "/groups/"+id)
}
