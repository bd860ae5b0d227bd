// Package model defines shared data types for the auction data pipeline.
//
// Conventions:
//   - Coin amounts: int64 whole coins
//   - Timestamps: int64 milliseconds since Unix epoch (as reported upstream)
//   - IDs: string auction UUIDs and player UUIDs, undashed upstream form
package model
