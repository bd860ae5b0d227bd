package viewer

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/skytrade/auction-data/internal/api"
	"github.com/skytrade/auction-data/internal/history"
	"github.com/skytrade/auction-data/internal/identity"
	"github.com/skytrade/auction-data/internal/kvstore"
	"github.com/skytrade/auction-data/internal/model"
)

const now = int64(1_700_000_000_000)

// fakeUpstream implements identity.PlayerAPI and AuctionAPI.
type fakeUpstream struct {
	players  map[string]*api.APIPlayer // by name
	names    map[string]*api.APIPlayer // by uuid
	auctions map[string][]model.Auction

	auctionErr error
	playerErr  error

	auctionCalls atomic.Int32
	gate         chan struct{} // when set, PlayerAuctions blocks on it
}

func (f *fakeUpstream) PlayerByName(_ context.Context, name string) (*api.APIPlayer, error) {
	if f.playerErr != nil {
		return nil, f.playerErr
	}
	if p, ok := f.players[name]; ok {
		return p, nil
	}
	return nil, &api.NotFoundError{Username: name}
}

func (f *fakeUpstream) PlayerByUUID(_ context.Context, uuid string) (*api.APIPlayer, error) {
	if p, ok := f.names[uuid]; ok {
		return p, nil
	}
	return nil, &api.NotFoundError{Username: uuid}
}

func (f *fakeUpstream) PlayerAuctions(_ context.Context, uuid string) ([]model.Auction, error) {
	f.auctionCalls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if f.auctionErr != nil {
		return nil, f.auctionErr
	}
	return f.auctions[uuid], nil
}

func newTestOrchestrator(store kvstore.Store, upstream *fakeUpstream, opts ...Option) *Orchestrator {
	cfg := Config{PrefetchLimit: 2, PrefetchDelay: time.Millisecond}
	identities := identity.NewResolver(store, upstream, nil)
	names := identity.NewNames(store, upstream, nil)
	opts = append(opts, WithClock(func() int64 { return now }))
	return New(cfg, store, identities, names, upstream, nil, opts...)
}

func soldAuction(id, bidder string, amount int64) model.Auction {
	return model.Auction{
		ID: id, ItemName: "Item " + id, End: now - 1000,
		HighestBidAmount: amount,
		Bids:             []model.Bid{{Bidder: bidder, Amount: amount}},
	}
}

// TestRefreshSuccess tests the happy path end to end.
func TestRefreshSuccess(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	upstream := &fakeUpstream{
		players: map[string]*api.APIPlayer{"steve": {UUID: "u-steve", DisplayName: "Steve"}},
		auctions: map[string][]model.Auction{"u-steve": {
			{ID: "live", End: now + 5000},
			soldAuction("done", "buyer1", 100),
		}},
	}
	o := newTestOrchestrator(store, upstream)

	res, err := o.Refresh(ctx, "steve")
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if res.Stale {
		t.Error("Stale = true, want false")
	}
	if !res.ViewingOwn {
		t.Error("ViewingOwn = false, want true on first refresh")
	}
	if res.Snapshot.ActiveCount != 1 || res.Snapshot.SoldCount != 1 {
		t.Errorf("counts = %d active, %d sold; want 1, 1", res.Snapshot.ActiveCount, res.Snapshot.SoldCount)
	}
	if res.Snapshot.TotalSoldValue != 100 {
		t.Errorf("TotalSoldValue = %d, want 100", res.Snapshot.TotalSoldValue)
	}

	if _, ok, _ := store.Get(ctx, kvstore.SnapshotKey("steve")); !ok {
		t.Error("snapshot not persisted")
	}
	if v, _, _ := store.Get(ctx, kvstore.KeyLastUsername); v != "steve" {
		t.Errorf("lastUsername = %q, want steve", v)
	}
	o.WaitBackground()
}

// TestRefreshIdempotent verifies two refreshes with unchanged upstream
// state persist byte-identical snapshots.
func TestRefreshIdempotent(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	upstream := &fakeUpstream{
		players: map[string]*api.APIPlayer{"steve": {UUID: "u-steve"}},
		auctions: map[string][]model.Auction{"u-steve": {
			soldAuction("s1", "b1", 10),
			{ID: "a1", End: now + 1000},
		}},
	}
	o := newTestOrchestrator(store, upstream)

	if _, err := o.Refresh(ctx, "steve"); err != nil {
		t.Fatalf("first Refresh() error = %v", err)
	}
	first, _, _ := store.Get(ctx, kvstore.SnapshotKey("steve"))

	if _, err := o.Refresh(ctx, "steve"); err != nil {
		t.Fatalf("second Refresh() error = %v", err)
	}
	second, _, _ := store.Get(ctx, kvstore.SnapshotKey("steve"))

	if first != second {
		t.Error("persisted snapshots differ between identical refreshes")
	}
	o.WaitBackground()
}

// TestRefreshDegraded tests the stale-cache fallback on upstream failure.
func TestRefreshDegraded(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	upstream := &fakeUpstream{
		players: map[string]*api.APIPlayer{"steve": {UUID: "u-steve"}},
		auctions: map[string][]model.Auction{"u-steve": {
			soldAuction("s1", "b1", 250),
		}},
	}
	o := newTestOrchestrator(store, upstream)

	if _, err := o.Refresh(ctx, "steve"); err != nil {
		t.Fatalf("priming Refresh() error = %v", err)
	}
	o.WaitBackground()
	before, _, _ := store.Get(ctx, kvstore.SnapshotKey("steve"))

	upstream.auctionErr = &api.RateLimitedError{}

	res, err := o.Refresh(ctx, "steve")
	if err != nil {
		t.Fatalf("Refresh() error = %v, want degraded success", err)
	}
	if !res.Stale {
		t.Fatal("Stale = false, want true")
	}
	var rle *api.RateLimitedError
	if !errors.As(res.Err, &rle) {
		t.Errorf("Err = %v, want RateLimitedError retained for display", res.Err)
	}
	if res.Snapshot.TotalSoldValue != 250 {
		t.Errorf("TotalSoldValue = %d, want prior snapshot's 250", res.Snapshot.TotalSoldValue)
	}

	after, _, _ := store.Get(ctx, kvstore.SnapshotKey("steve"))
	if before != after {
		t.Error("prior snapshot changed during degraded refresh")
	}
	o.WaitBackground()
}

// TestRefreshHardFailure tests failure without a cached fallback.
func TestRefreshHardFailure(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	upstream := &fakeUpstream{playerErr: &api.UpstreamError{StatusCode: 503, Message: "down"}}
	o := newTestOrchestrator(store, upstream)

	_, err := o.Refresh(ctx, "steve")
	var ue *api.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("err = %v, want UpstreamError", err)
	}

	// The last-viewed identity is recorded even on a hard failure.
	if v, _, _ := store.Get(ctx, kvstore.KeyLastUsername); v != "steve" {
		t.Errorf("lastUsername = %q, want steve", v)
	}
}

// TestCorruptSnapshotIsMiss tests that corrupt cached JSON does not rescue
// a failed refresh.
func TestCorruptSnapshotIsMiss(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	store.Set(ctx, kvstore.SnapshotKey("steve"), "{broken")
	upstream := &fakeUpstream{playerErr: &api.RateLimitedError{}}
	o := newTestOrchestrator(store, upstream)

	if _, err := o.Refresh(ctx, "steve"); err == nil {
		t.Fatal("Refresh() error = nil, want hard failure")
	}
}

// TestViewingContext tests own-vs-other framing and return-to-self.
func TestViewingContext(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	upstream := &fakeUpstream{
		players: map[string]*api.APIPlayer{
			"steve": {UUID: "u-steve"},
			"alex":  {UUID: "u-alex"},
		},
		auctions: map[string][]model.Auction{},
	}
	o := newTestOrchestrator(store, upstream)

	res, err := o.Refresh(ctx, "steve")
	if err != nil || !res.ViewingOwn {
		t.Fatalf("first refresh: res = %+v, err = %v", res, err)
	}

	res, err = o.Refresh(ctx, "alex")
	if err != nil {
		t.Fatalf("Refresh(alex) error = %v", err)
	}
	if res.ViewingOwn {
		t.Error("ViewingOwn = true for another player")
	}

	original, ok := o.Original(ctx)
	if !ok || original != "steve" {
		t.Errorf("Original() = %q, %v; want steve", original, ok)
	}

	// The original username is set once and never overwritten.
	res, _ = o.Refresh(ctx, "steve")
	if !res.ViewingOwn {
		t.Error("ViewingOwn = false after returning to self")
	}
}

// TestBuyerPrefetch tests the bounded background name warm-up.
func TestBuyerPrefetch(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	upstream := &fakeUpstream{
		players: map[string]*api.APIPlayer{"steve": {UUID: "u-steve"}},
		names: map[string]*api.APIPlayer{
			"b1": {UUID: "b1", DisplayName: "BuyerOne"},
			"b2": {UUID: "b2", DisplayName: "BuyerTwo"},
			"b3": {UUID: "b3", DisplayName: "BuyerThree"},
		},
		auctions: map[string][]model.Auction{"u-steve": {
			soldAuction("s1", "b1", 10),
			soldAuction("s2", "b1", 20), // duplicate bidder, still one prefetch
			soldAuction("s3", "b2", 30),
			soldAuction("s4", "b3", 40), // beyond the limit of 2
		}},
	}
	o := newTestOrchestrator(store, upstream)

	if _, err := o.Refresh(ctx, "steve"); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	o.WaitBackground()

	if v, ok, _ := store.Get(ctx, kvstore.NameKey("b1")); !ok || v != "BuyerOne" {
		t.Errorf("name_b1 = %q, %v; want BuyerOne", v, ok)
	}
	if _, ok, _ := store.Get(ctx, kvstore.NameKey("b2")); !ok {
		t.Error("name_b2 not prefetched")
	}
	if _, ok, _ := store.Get(ctx, kvstore.NameKey("b3")); ok {
		t.Error("name_b3 prefetched beyond the limit")
	}
}

// TestRefreshCoalesced tests that overlapping refreshes for one username
// share a single upstream fetch.
func TestRefreshCoalesced(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	upstream := &fakeUpstream{
		players:  map[string]*api.APIPlayer{"steve": {UUID: "u-steve"}},
		auctions: map[string][]model.Auction{"u-steve": {}},
		gate:     make(chan struct{}),
	}
	o := newTestOrchestrator(store, upstream)

	var wg sync.WaitGroup
	results := make([]*Result, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := o.Refresh(ctx, "steve")
			if err != nil {
				t.Errorf("Refresh() error = %v", err)
				return
			}
			results[i] = res
		}(i)
	}

	// Let both callers reach the in-flight refresh before releasing it.
	time.Sleep(100 * time.Millisecond)
	close(upstream.gate)
	wg.Wait()

	if n := upstream.auctionCalls.Load(); n != 1 {
		t.Errorf("upstream fetched %d times, want 1 (coalesced)", n)
	}
	if results[0] != results[1] {
		t.Error("coalesced callers should share one result")
	}
}

// TestRecorderWired tests sell-history accumulation through a refresh.
func TestRecorderWired(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	upstream := &fakeUpstream{
		players: map[string]*api.APIPlayer{"steve": {UUID: "u-steve"}},
		auctions: map[string][]model.Auction{"u-steve": {
			soldAuction("s1", "b1", 10),
		}},
	}
	rec := history.NewRecorder(store, nil)
	o := newTestOrchestrator(store, upstream, WithRecorder(rec))

	if _, err := o.Refresh(ctx, "steve"); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	o.WaitBackground()

	data, err := rec.Export(ctx)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if string(data) == "[]" {
		t.Error("sell history empty after refresh with sold auctions")
	}
}
