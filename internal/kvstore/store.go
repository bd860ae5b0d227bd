package kvstore

import "context"

// Store is the persistence contract used by the pipeline. Get reports
// presence explicitly so an empty string value is distinguishable from a
// missing key.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Well-known singleton keys.
const (
	KeyOriginalUsername = "originalUsername"
	KeyLastUsername     = "lastUsername"
	KeySellHistory      = "sellHistory"
)

// SnapshotKey returns the key holding the classified snapshot for a
// username.
func SnapshotKey(username string) string {
	return "auctions_" + username
}

// UUIDKey returns the key holding the resolved player UUID for a username.
func UUIDKey(username string) string {
	return "uuid_" + username
}

// NameKey returns the key holding the display name for a player UUID.
func NameKey(playerID string) string {
	return "name_" + playerID
}
