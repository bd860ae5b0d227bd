package api

import "encoding/json"

// PlayerResponse from GET /player.
type PlayerResponse struct {
	Success bool       `json:"success"`
	Cause   string     `json:"cause,omitempty"`
	Player  *APIPlayer `json:"player"`
}

// APIPlayer is the subset of the upstream player record used here.
type APIPlayer struct {
	UUID        string `json:"uuid"`
	DisplayName string `json:"displayname"`
}

// AuctionsResponse from GET /skyblock/auction. Auctions is kept raw so a
// non-array payload can be distinguished from a decoding failure.
type AuctionsResponse struct {
	Success  bool            `json:"success"`
	Cause    string          `json:"cause,omitempty"`
	Auctions json.RawMessage `json:"auctions"`
}

// ItemsResponse from GET /resources/skyblock/items.
type ItemsResponse struct {
	Success bool          `json:"success"`
	Cause   string        `json:"cause,omitempty"`
	Items   []CatalogItem `json:"items"`
}

// CatalogItem is one entry of the upstream item catalog.
type CatalogItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
