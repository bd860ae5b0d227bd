// Package identity resolves usernames to stable player UUIDs and player
// UUIDs to display names, caching both permanently in the key-value store.
//
// Username→UUID mappings never expire or get invalidated: the identifier a
// username maps to is treated as stable for the lifetime of the store.
// Name lookups never fail outward; the raw UUID is always a valid, if
// unfriendly, display value.
package identity
