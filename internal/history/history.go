package history

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/skytrade/auction-data/internal/kvstore"
	"github.com/skytrade/auction-data/internal/model"
)

// Recorder appends newly seen sold auctions to the persisted sell history.
type Recorder struct {
	store  kvstore.Store
	logger *slog.Logger
}

// NewRecorder creates a Recorder over the given store.
func NewRecorder(store kvstore.Store, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{store: store, logger: logger}
}

// Record merges sold auctions into the accumulated history, skipping
// auction ids already recorded. A corrupt persisted document is treated as
// an empty history rather than an error.
func (r *Recorder) Record(ctx context.Context, sold []model.Auction) error {
	history := r.load(ctx)

	seen := make(map[string]struct{}, len(history))
	for _, a := range history {
		seen[a.ID] = struct{}{}
	}

	added := 0
	for _, a := range sold {
		if _, dup := seen[a.ID]; dup {
			continue
		}
		seen[a.ID] = struct{}{}
		history = append(history, a)
		added++
	}

	if added == 0 {
		return nil
	}

	data, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshal sell history: %w", err)
	}
	if err := r.store.Set(ctx, kvstore.KeySellHistory, string(data)); err != nil {
		return fmt.Errorf("persist sell history: %w", err)
	}

	r.logger.Debug("sell history updated", "added", added, "total", len(history))
	return nil
}

// Export returns the accumulated history as one JSON document. An absent
// history exports as an empty array.
func (r *Recorder) Export(ctx context.Context) ([]byte, error) {
	raw, ok, err := r.store.Get(ctx, kvstore.KeySellHistory)
	if err != nil {
		return nil, fmt.Errorf("read sell history: %w", err)
	}
	if !ok || raw == "" {
		return []byte("[]"), nil
	}
	return []byte(raw), nil
}

// load reads the persisted history, treating corruption as empty.
func (r *Recorder) load(ctx context.Context) []model.Auction {
	raw, ok, err := r.store.Get(ctx, kvstore.KeySellHistory)
	if err != nil || !ok || raw == "" {
		return nil
	}

	var history []model.Auction
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		r.logger.Warn("corrupt sell history, starting over", "err", err)
		return nil
	}
	return history
}
