// Package api provides the client for the upstream Hypixel REST API.
//
// Endpoints used:
//   - /player?name=<username> and /player?uuid=<uuid> for identity lookups
//   - /skyblock/auction?player=<uuid> for a player's auction list
//   - /resources/skyblock/items for the item catalog
//
// The upstream signals throttling with HTTP 429, which is surfaced as a
// RateLimitedError and never retried automatically.
package api
