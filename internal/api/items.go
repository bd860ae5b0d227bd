package api

import (
	"context"
	"fmt"
)

// Items fetches the item catalog resource. The resource endpoint needs no
// API key and changes rarely; it is loaded once per session.
func (c *Client) Items(ctx context.Context) ([]CatalogItem, error) {
	var resp ItemsResponse
	if err := c.get(ctx, "/resources/skyblock/items", nil, &resp); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}

	if !resp.Success {
		return nil, &UpstreamError{Message: causeOr(resp.Cause, "item catalog request failed")}
	}

	return resp.Items, nil
}
