package classify

import (
	"sort"

	"github.com/skytrade/auction-data/internal/model"
)

// Classify partitions auctions relative to now (epoch millis) and returns
// the sorted, aggregated snapshot. Pure and deterministic: the same input
// always yields the same snapshot regardless of input ordering.
func Classify(auctions []model.Auction, now int64) model.ClassifiedSnapshot {
	var snap model.ClassifiedSnapshot

	for _, a := range auctions {
		switch {
		case a.Active(now):
			if a.BIN {
				snap.ActiveInstant = append(snap.ActiveInstant, a)
			} else {
				snap.ActiveStandard = append(snap.ActiveStandard, a)
			}
		case a.HasBids():
			if a.BIN {
				snap.SoldInstant = append(snap.SoldInstant, a)
			} else {
				snap.SoldStandard = append(snap.SoldStandard, a)
			}
		default:
			// Expired with no winner: dropped.
		}
	}

	sortByEnd(snap.ActiveStandard)
	sortByEnd(snap.ActiveInstant)
	sortByEnd(snap.SoldStandard)
	sortByEnd(snap.SoldInstant)

	snap.ActiveCount = len(snap.ActiveStandard) + len(snap.ActiveInstant)
	snap.SoldCount = len(snap.SoldStandard) + len(snap.SoldInstant)

	for _, a := range snap.SoldStandard {
		snap.TotalSoldValue += a.HighestBidAmount
	}
	for _, a := range snap.SoldInstant {
		snap.TotalSoldValue += a.HighestBidAmount
	}

	return snap
}

// sortByEnd orders a bucket ascending by end timestamp: soonest-ending
// first for active buckets, oldest-concluded first for sold buckets.
func sortByEnd(bucket []model.Auction) {
	sort.SliceStable(bucket, func(i, j int) bool {
		return bucket[i].End < bucket[j].End
	})
}
