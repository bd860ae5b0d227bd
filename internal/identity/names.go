package identity

import (
	"context"
	"log/slog"
	"time"

	"github.com/skytrade/auction-data/internal/kvstore"
)

// Names maps player UUIDs to display names. Cache checks are synchronous;
// the upstream fallback is asynchronous so callers never block on an
// unresolved name. Safe for concurrent use: every lookup is independent
// and cache writes are idempotent.
type Names struct {
	store  kvstore.Store
	client PlayerAPI
	logger *slog.Logger
}

// NewNames creates a name resolver.
func NewNames(store kvstore.Store, client PlayerAPI, logger *slog.Logger) *Names {
	if logger == nil {
		logger = slog.Default()
	}
	return &Names{store: store, client: client, logger: logger}
}

// Lookup returns the best display value available right now, plus an
// optional update channel. On a cache hit the name is returned and the
// channel is nil. On a miss the raw playerID is returned as the display
// fallback and a background lookup is started; if it succeeds, the
// resolved name is cached and delivered on the returned channel, otherwise
// the channel is closed without a value. The caller may ignore the channel
// entirely.
func (n *Names) Lookup(ctx context.Context, playerID string) (string, <-chan string) {
	if name, ok := n.cached(ctx, playerID); ok {
		return name, nil
	}

	updates := make(chan string, 1)
	go func() {
		defer close(updates)
		if name, ok := n.fetch(ctx, playerID); ok {
			updates <- name
		}
	}()

	return playerID, updates
}

// Display is the synchronous form: cached name or the raw identifier.
func (n *Names) Display(ctx context.Context, playerID string) string {
	if name, ok := n.cached(ctx, playerID); ok {
		return name
	}
	return playerID
}

// Prefetch resolves up to limit of the given player UUIDs that lack cached
// names, spacing upstream lookups by delay to respect rate limits. It
// blocks until done; callers run it in the background. Failures are logged
// and swallowed since names resolve lazily at display time anyway.
func (n *Names) Prefetch(ctx context.Context, playerIDs []string, limit int, delay time.Duration) {
	fetched := 0
	for _, id := range playerIDs {
		if fetched >= limit {
			return
		}
		if _, ok := n.cached(ctx, id); ok {
			continue
		}

		// Space fetches apart without sleeping after the last one, so the
		// goroutine exits as soon as the work is done.
		if fetched > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
		}

		n.fetch(ctx, id)
		fetched++
	}
}

// cached reads the name cache, treating read errors as misses.
func (n *Names) cached(ctx context.Context, playerID string) (string, bool) {
	name, ok, err := n.store.Get(ctx, kvstore.NameKey(playerID))
	if err != nil {
		n.logger.Warn("name cache read failed", "player", playerID, "err", err)
		return "", false
	}
	return name, ok && name != ""
}

// fetch looks the name up upstream and writes it through on success.
func (n *Names) fetch(ctx context.Context, playerID string) (string, bool) {
	player, err := n.client.PlayerByUUID(ctx, playerID)
	if err != nil {
		n.logger.Warn("name lookup failed", "player", playerID, "err", err)
		return "", false
	}

	if err := n.store.Set(ctx, kvstore.NameKey(playerID), player.DisplayName); err != nil {
		n.logger.Warn("name cache write failed", "player", playerID, "err", err)
	}
	return player.DisplayName, true
}
