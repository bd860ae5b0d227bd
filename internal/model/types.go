package model

// Bid is a single bid placed on an auction.
type Bid struct {
	Bidder string `json:"bidder"` // Player UUID of the bidder
	Amount int64  `json:"amount"` // Bid amount in coins
}

// Auction is a single marketplace listing as reported by the upstream API.
// Auctions are never mutated locally; the pipeline only partitions and
// sorts them into views.
type Auction struct {
	ID               string `json:"uuid"`               // Auction UUID
	ItemName         string `json:"item_name"`          // Display name, may carry formatting codes
	ItemID           string `json:"item_id,omitempty"`  // Canonical item id, optional
	Tier             string `json:"tier"`               // Rarity tier (e.g. LEGENDARY)
	Category         string `json:"category"`           // Item category (e.g. weapon)
	StartingBid      int64  `json:"starting_bid"`       // Starting price in coins
	HighestBidAmount int64  `json:"highest_bid_amount"` // Current/final highest bid, 0 if none
	End              int64  `json:"end"`                // End time (epoch millis)
	BIN              bool   `json:"bin"`                // Instant-buy listing
	Bids             []Bid  `json:"bids"`               // Bids in upstream order
}

// Active reports whether the auction is still running at the given time.
func (a *Auction) Active(now int64) bool {
	return a.End > now
}

// HasBids reports whether at least one bid was placed.
func (a *Auction) HasBids() bool {
	return len(a.Bids) > 0
}

// WinningBid returns the bid with the highest amount. Ties are broken by
// the first bid seen at the maximum, which matches the upstream ordering.
// The second return value is false when the auction has no bids.
func (a *Auction) WinningBid() (Bid, bool) {
	if len(a.Bids) == 0 {
		return Bid{}, false
	}
	best := a.Bids[0]
	for _, b := range a.Bids[1:] {
		if b.Amount > best.Amount {
			best = b
		}
	}
	return best, true
}

// ClassifiedSnapshot is the derived, cacheable view of one player's
// auctions: partitioned, sorted, and aggregated. One snapshot exists per
// observed username and is overwritten whole on every successful refresh.
type ClassifiedSnapshot struct {
	ActiveStandard []Auction `json:"activeAuctions"`
	ActiveInstant  []Auction `json:"activeBINs"`
	SoldStandard   []Auction `json:"soldAuctions"`
	SoldInstant    []Auction `json:"soldBINs"`

	ActiveCount    int   `json:"activeCount"`
	SoldCount      int   `json:"soldCount"`
	TotalSoldValue int64 `json:"totalSoldValue"`
}

// Sold returns both sold buckets in bucket order (standard first).
func (s *ClassifiedSnapshot) Sold() []Auction {
	out := make([]Auction, 0, len(s.SoldStandard)+len(s.SoldInstant))
	out = append(out, s.SoldStandard...)
	out = append(out, s.SoldInstant...)
	return out
}
