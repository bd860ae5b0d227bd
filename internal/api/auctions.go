package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/skytrade/auction-data/internal/model"
)

// PlayerAuctions fetches the full auction list for a player UUID. The
// upstream returns everything in one call; there is no pagination.
func (c *Client) PlayerAuctions(ctx context.Context, uuid string) ([]model.Auction, error) {
	query := url.Values{}
	query.Set("player", uuid)

	var resp AuctionsResponse
	if err := c.get(ctx, "/skyblock/auction", query, &resp); err != nil {
		return nil, fmt.Errorf("get auctions for %s: %w", uuid, err)
	}

	if !resp.Success {
		return nil, &UpstreamError{Message: causeOr(resp.Cause, "auction request failed")}
	}

	raw := bytes.TrimSpace(resp.Auctions)
	if len(raw) == 0 {
		return nil, &MalformedResponseError{Reason: "missing auctions field"}
	}
	// A null or non-array value would otherwise decode cleanly into a nil
	// slice and masquerade as an empty auction list.
	if raw[0] != '[' {
		return nil, &MalformedResponseError{Reason: "auctions is not an array"}
	}

	var auctions []model.Auction
	if err := json.Unmarshal(raw, &auctions); err != nil {
		return nil, &MalformedResponseError{Reason: "auctions is not an array: " + err.Error()}
	}

	c.logger.Debug("fetched auctions", "player", uuid, "count", len(auctions))
	return auctions, nil
}
