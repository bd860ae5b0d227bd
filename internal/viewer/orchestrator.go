package viewer

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/skytrade/auction-data/internal/classify"
	"github.com/skytrade/auction-data/internal/history"
	"github.com/skytrade/auction-data/internal/identity"
	"github.com/skytrade/auction-data/internal/kvstore"
	"github.com/skytrade/auction-data/internal/metrics"
	"github.com/skytrade/auction-data/internal/model"
)

// AuctionAPI is the subset of the upstream client the orchestrator fetches
// through.
type AuctionAPI interface {
	PlayerAuctions(ctx context.Context, uuid string) ([]model.Auction, error)
}

// Config holds orchestrator tuning.
type Config struct {
	PrefetchLimit int           // Max buyer names warmed per refresh
	PrefetchDelay time.Duration // Delay between prefetch lookups
}

// DefaultConfig returns sensible defaults. The prefetch throttle is the
// one place a deliberate delay is injected, to stay clear of upstream rate
// limiting.
func DefaultConfig() Config {
	return Config{
		PrefetchLimit: 2,
		PrefetchDelay: 500 * time.Millisecond,
	}
}

// Result is the outcome of one refresh. Stale marks a degraded success:
// the upstream failed but a previously cached snapshot was re-exposed, and
// Err carries the triggering error for display.
type Result struct {
	Username   string
	Snapshot   *model.ClassifiedSnapshot
	Stale      bool
	Err        error
	ViewingOwn bool
}

// Orchestrator runs refreshes. It holds no snapshot state of its own;
// every refresh re-reads what it needs from the store.
type Orchestrator struct {
	cfg        Config
	store      kvstore.Store
	identities *identity.Resolver
	names      *identity.Names
	client     AuctionAPI
	recorder   *history.Recorder
	logger     *slog.Logger
	metrics    *metrics.Metrics

	now    func() int64
	flight singleflight.Group
	bg     sync.WaitGroup
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithMetrics attaches Prometheus instruments.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) {
		o.metrics = m
	}
}

// WithRecorder attaches a sell-history recorder.
func WithRecorder(r *history.Recorder) Option {
	return func(o *Orchestrator) {
		o.recorder = r
	}
}

// WithClock overrides the time source (tests).
func WithClock(now func() int64) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// New creates an Orchestrator.
func New(cfg Config, store kvstore.Store, identities *identity.Resolver, names *identity.Names, client AuctionAPI, logger *slog.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	o := &Orchestrator{
		cfg:        cfg,
		store:      store,
		identities: identities,
		names:      names,
		client:     client,
		logger:     logger,
		now:        func() int64 { return time.Now().UnixMilli() },
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Refresh performs one end-to-end refresh for username. Overlapping calls
// for the same username share a single in-flight refresh and its result;
// different usernames proceed independently, last writer winning on the
// store.
//
// The returned error is non-nil only for a hard failure (no cached
// snapshot to fall back to). A degraded success returns a Result with
// Stale set and Err carrying the upstream error.
func (o *Orchestrator) Refresh(ctx context.Context, username string) (*Result, error) {
	v, err, shared := o.flight.Do(username, func() (any, error) {
		return o.refreshOnce(ctx, username)
	})
	if shared {
		o.logger.Debug("refresh coalesced", "username", username)
	}
	if err != nil {
		return nil, err
	}
	return v.(*Result), nil
}

func (o *Orchestrator) refreshOnce(ctx context.Context, username string) (*Result, error) {
	start := time.Now()

	// The last-viewed identity is recorded regardless of what happens
	// downstream.
	if err := o.store.Set(ctx, kvstore.KeyLastUsername, username); err != nil {
		o.logger.Warn("persist last username failed", "err", err)
	}
	viewingOwn := o.markViewing(ctx, username)

	// Read the fallback value before any network I/O.
	prior := o.cachedSnapshot(ctx, username)

	o.logger.Info("refresh started", "username", username)

	uuid, err := o.identities.Resolve(ctx, username)
	if err != nil {
		return o.fail(ctx, username, prior, viewingOwn, err, start)
	}

	auctions, err := o.client.PlayerAuctions(ctx, uuid)
	if err != nil {
		return o.fail(ctx, username, prior, viewingOwn, err, start)
	}

	snap := classify.Classify(auctions, o.now())
	if err := o.persistSnapshot(ctx, username, &snap); err != nil {
		return o.fail(ctx, username, prior, viewingOwn, err, start)
	}

	sold := snap.Sold()
	if o.recorder != nil {
		if err := o.recorder.Record(ctx, sold); err != nil {
			o.logger.Warn("sell history update failed", "err", err)
		}
	}
	o.prefetchBuyers(ctx, sold)

	o.logger.Info("refresh complete",
		"username", username,
		"active", snap.ActiveCount,
		"sold", snap.SoldCount,
		"duration", time.Since(start),
	)
	o.metrics.ObserveRefresh(metrics.OutcomeFresh, time.Since(start).Seconds())

	return &Result{
		Username:   username,
		Snapshot:   &snap,
		ViewingOwn: viewingOwn,
	}, nil
}

// fail runs the failure path: re-expose the stale snapshot as a degraded
// success when one exists, otherwise propagate a hard failure.
func (o *Orchestrator) fail(ctx context.Context, username string, prior *model.ClassifiedSnapshot, viewingOwn bool, cause error, start time.Time) (*Result, error) {
	if prior == nil {
		o.logger.Error("refresh failed", "username", username, "err", cause)
		o.metrics.ObserveRefresh(metrics.OutcomeFailed, time.Since(start).Seconds())
		return nil, cause
	}

	o.logger.Warn("refresh degraded to cached snapshot", "username", username, "err", cause)

	// Re-persist so the stale snapshot stays the latest write; a no-op
	// when nothing raced in between.
	if err := o.persistSnapshot(ctx, username, prior); err != nil {
		o.logger.Warn("re-persist cached snapshot failed", "err", err)
	}
	o.prefetchBuyers(ctx, prior.Sold())
	o.metrics.ObserveRefresh(metrics.OutcomeDegraded, time.Since(start).Seconds())

	return &Result{
		Username:   username,
		Snapshot:   prior,
		Stale:      true,
		Err:        cause,
		ViewingOwn: viewingOwn,
	}, nil
}

// markViewing establishes the session's primary user on first refresh and
// reports whether username is that user.
func (o *Orchestrator) markViewing(ctx context.Context, username string) bool {
	original, ok, err := o.store.Get(ctx, kvstore.KeyOriginalUsername)
	if err != nil {
		o.logger.Warn("read original username failed", "err", err)
		return true
	}
	if !ok || original == "" {
		if err := o.store.Set(ctx, kvstore.KeyOriginalUsername, username); err != nil {
			o.logger.Warn("persist original username failed", "err", err)
		}
		return true
	}
	return username == original
}

// Original returns the session's primary username, supporting a "return to
// self" action after viewing another player.
func (o *Orchestrator) Original(ctx context.Context) (string, bool) {
	original, ok, err := o.store.Get(ctx, kvstore.KeyOriginalUsername)
	if err != nil || original == "" {
		return "", false
	}
	return original, ok
}

// cachedSnapshot reads the persisted snapshot for username. Corrupt JSON
// is a cache miss, not a failure.
func (o *Orchestrator) cachedSnapshot(ctx context.Context, username string) *model.ClassifiedSnapshot {
	raw, ok, err := o.store.Get(ctx, kvstore.SnapshotKey(username))
	if err != nil {
		o.logger.Warn("snapshot cache read failed", "username", username, "err", err)
		return nil
	}
	if !ok || raw == "" {
		return nil
	}

	var snap model.ClassifiedSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		o.logger.Warn("corrupt cached snapshot ignored", "username", username, "err", err)
		return nil
	}
	return &snap
}

// persistSnapshot overwrites the stored snapshot for username. Fresh data
// always wins, even when identical to what is already stored.
func (o *Orchestrator) persistSnapshot(ctx context.Context, username string, snap *model.ClassifiedSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return o.store.Set(ctx, kvstore.SnapshotKey(username), string(data))
}

// prefetchBuyers warms the name cache for the winning bidders of sold
// auctions in the background, bounded and throttled per config. The
// refresh result is never blocked on it and its failures are swallowed.
func (o *Orchestrator) prefetchBuyers(ctx context.Context, sold []model.Auction) {
	ids := winningBidders(sold)
	if len(ids) == 0 {
		return
	}

	o.metrics.CountPrefetch()

	// The prefetch must outlive the refresh call, not the caller's ctx.
	bgCtx := context.WithoutCancel(ctx)
	o.bg.Add(1)
	go func() {
		defer o.bg.Done()
		o.names.Prefetch(bgCtx, ids, o.cfg.PrefetchLimit, o.cfg.PrefetchDelay)
	}()
}

// WaitBackground blocks until no background prefetch is in flight. Used at
// shutdown and in tests.
func (o *Orchestrator) WaitBackground() {
	o.bg.Wait()
}

// winningBidders returns the distinct winning-bidder UUIDs of sold
// auctions, in bucket order.
func winningBidders(sold []model.Auction) []string {
	var ids []string
	seen := make(map[string]struct{})
	for _, a := range sold {
		win, ok := a.WinningBid()
		if !ok || win.Bidder == "" {
			continue
		}
		if _, dup := seen[win.Bidder]; dup {
			continue
		}
		seen[win.Bidder] = struct{}{}
		ids = append(ids, win.Bidder)
	}
	return ids
}
