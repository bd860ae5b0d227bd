package api

import (
	"context"
	"fmt"
	"net/url"
)

// PlayerByName looks a player up by username. Returns a NotFoundError when
// the upstream reports no matching player.
func (c *Client) PlayerByName(ctx context.Context, name string) (*APIPlayer, error) {
	query := url.Values{}
	query.Set("name", name)
	return c.player(ctx, query, name)
}

// PlayerByUUID looks a player up by UUID, primarily to recover a display
// name for a known identifier.
func (c *Client) PlayerByUUID(ctx context.Context, uuid string) (*APIPlayer, error) {
	query := url.Values{}
	query.Set("uuid", uuid)
	return c.player(ctx, query, uuid)
}

func (c *Client) player(ctx context.Context, query url.Values, who string) (*APIPlayer, error) {
	var resp PlayerResponse
	if err := c.get(ctx, "/player", query, &resp); err != nil {
		return nil, fmt.Errorf("get player %s: %w", who, err)
	}

	if !resp.Success {
		return nil, &UpstreamError{Message: causeOr(resp.Cause, "player request failed")}
	}
	if resp.Player == nil || resp.Player.UUID == "" {
		return nil, &NotFoundError{Username: who}
	}

	return resp.Player, nil
}

// causeOr returns the upstream cause when present, else the fallback.
func causeOr(cause, fallback string) string {
	if cause != "" {
		return cause
	}
	return fallback
}
