package identity

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/skytrade/auction-data/internal/api"
	"github.com/skytrade/auction-data/internal/kvstore"
)

// PlayerAPI is the subset of the upstream client used for identity work.
type PlayerAPI interface {
	PlayerByName(ctx context.Context, name string) (*api.APIPlayer, error)
	PlayerByUUID(ctx context.Context, uuid string) (*api.APIPlayer, error)
}

// Resolver maps usernames to player UUIDs through a permanent write-through
// cache.
type Resolver struct {
	store  kvstore.Store
	client PlayerAPI
	logger *slog.Logger
}

// NewResolver creates a Resolver.
func NewResolver(store kvstore.Store, client PlayerAPI, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: store, client: client, logger: logger}
}

// Resolve returns the player UUID for a username. Cache hits return
// immediately; misses issue one upstream lookup and write the mapping
// through before returning. Upstream outcomes map onto the api error
// taxonomy (NotFoundError, RateLimitedError, UpstreamError) unchanged.
func (r *Resolver) Resolve(ctx context.Context, username string) (string, error) {
	key := kvstore.UUIDKey(username)

	cached, ok, err := r.store.Get(ctx, key)
	if err != nil {
		// A broken cache read is a miss, not a failure.
		r.logger.Warn("identity cache read failed", "username", username, "err", err)
	} else if ok && cached != "" {
		return cached, nil
	}

	player, err := r.client.PlayerByName(ctx, username)
	if err != nil {
		return "", err
	}

	id := NormalizeUUID(player.UUID)
	if err := r.store.Set(ctx, key, id); err != nil {
		// The mapping is still valid; the next refresh re-resolves.
		r.logger.Warn("identity cache write failed", "username", username, "err", err)
	}

	return id, nil
}

// NormalizeUUID canonicalizes a player UUID to the undashed lowercase form
// the upstream uses. Inputs that do not parse are returned unchanged.
func NormalizeUUID(id string) string {
	u, err := uuid.Parse(id)
	if err != nil {
		return id
	}
	return strings.ReplaceAll(u.String(), "-", "")
}
