// Package classify partitions a raw auction list into active/sold ×
// standard/instant-buy buckets and computes aggregate statistics.
//
// The partition is exhaustive and mutually exclusive; expired auctions
// without a single bid are dropped entirely (unsold listings are invisible
// to the viewer).
package classify
