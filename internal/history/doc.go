// Package history accumulates completed sales across refreshes,
// de-duplicated by auction id, and exports them as a single JSON document
// for user-initiated download.
package history
