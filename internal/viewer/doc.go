// Package viewer coordinates one end-to-end auction refresh: identity
// resolution, raw auction fetch, classification, snapshot persistence, and
// background buyer-name prefetch, degrading to the previously cached
// snapshot when the upstream fails.
//
// A refresh moves Idle → Resolving → Fetching → Classifying and terminates
// in one of Cached, DegradedCached, or Failed. Nothing retries
// automatically; the user re-triggers. Concurrent refreshes for the same
// username are coalesced into a single in-flight operation.
package viewer
