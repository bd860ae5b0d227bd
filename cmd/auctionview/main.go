package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skytrade/auction-data/internal/api"
	"github.com/skytrade/auction-data/internal/config"
	"github.com/skytrade/auction-data/internal/history"
	"github.com/skytrade/auction-data/internal/icon"
	"github.com/skytrade/auction-data/internal/identity"
	"github.com/skytrade/auction-data/internal/kvstore"
	"github.com/skytrade/auction-data/internal/metrics"
	"github.com/skytrade/auction-data/internal/model"
	"github.com/skytrade/auction-data/internal/version"
	"github.com/skytrade/auction-data/internal/viewer"
)

func main() {
	configPath := flag.String("config", "configs/auctionview.local.yaml", "path to config file")
	username := flag.String("user", "", "username whose auctions to view")
	metricsAddr := flag.String("metrics-addr", "", "optional listen address for Prometheus metrics")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if *username == "" {
		fmt.Fprintln(os.Stderr, "usage: auctionview -user <name> [-config <path>]")
		os.Exit(2)
	}

	logger.Info("starting auctionview",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to the key-value store
	store, closeStore, err := newStore(ctx, cfg.Store, logger)
	if err != nil {
		logger.Error("failed to connect to store", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	// Metrics and API client
	m := metrics.New(prometheus.DefaultRegisterer)
	apiClient := api.NewClient(
		cfg.API.BaseURL,
		cfg.API.Key,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, time.Second),
		api.WithObserver(m.CountUpstream),
	)
	if *metricsAddr != "" {
		go func() {
			logger.Info("serving metrics", "addr", *metricsAddr)
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Error("metrics server error", "error", err)
			}
		}()
	}

	// The item catalog is a display aid; resolution degrades to slug and
	// remote candidates without it.
	catalog, err := icon.LoadCatalog(ctx, apiClient, logger)
	if err != nil {
		logger.Warn("item catalog unavailable", "error", err)
	}
	iconOpts := []icon.ResolverOption{
		icon.WithBasePath(cfg.Icons.BasePath),
		icon.WithRemoteURL(cfg.Icons.RemoteURL),
	}
	if cfg.Icons.TextureIndexPath != "" {
		idx, err := icon.LoadTextureIndex(cfg.Icons.TextureIndexPath)
		if err != nil {
			logger.Warn("texture index unavailable", "path", cfg.Icons.TextureIndexPath, "error", err)
		} else {
			iconOpts = append(iconOpts, icon.WithTextureIndex(idx))
		}
	}
	icons := icon.NewResolver(catalog, iconOpts...)

	identities := identity.NewResolver(store, apiClient, logger)
	names := identity.NewNames(store, apiClient, logger)
	recorder := history.NewRecorder(store, logger)

	orch := viewer.New(
		viewer.Config{
			PrefetchLimit: cfg.Refresh.PrefetchLimit,
			PrefetchDelay: cfg.Refresh.PrefetchDelay,
		},
		store, identities, names, apiClient, logger,
		viewer.WithMetrics(m),
		viewer.WithRecorder(recorder),
	)

	result, err := orch.Refresh(ctx, *username)
	if err != nil {
		logger.Error("refresh failed", "username", *username, "error", err)
		os.Exit(1)
	}

	printResult(ctx, result, names, icons)

	// Let buyer-name prefetches finish before tearing the store down.
	orch.WaitBackground()
	logger.Info("auctionview done")
}

// newStore builds the configured key-value backend.
func newStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (kvstore.Store, func(), error) {
	switch cfg.Backend {
	case "redis":
		logger.Info("connecting to redis", "addr", cfg.Redis.Addr)
		s, err := kvstore.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case "postgres":
		logger.Info("connecting to postgres",
			"host", cfg.Postgres.Host,
			"port", cfg.Postgres.Port,
			"database", cfg.Postgres.Name,
		)
		s, err := kvstore.NewPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return kvstore.NewMemory(), func() {}, nil
	}
}

func printResult(ctx context.Context, result *viewer.Result, names *identity.Names, icons *icon.Resolver) {
	snap := result.Snapshot

	fmt.Printf("Auctions for %s", result.Username)
	if !result.ViewingOwn {
		fmt.Print(" (viewing another player)")
	}
	fmt.Println()
	if result.Stale {
		fmt.Printf("WARNING: showing cached data, latest refresh failed: %v\n", result.Err)
	}
	fmt.Printf("active: %d  sold: %d  total sold value: %d\n\n",
		snap.ActiveCount, snap.SoldCount, snap.TotalSoldValue)

	printActive("ACTIVE AUCTIONS", snap.ActiveStandard, icons)
	printActive("ACTIVE BINS", snap.ActiveInstant, icons)
	printSold(ctx, "SOLD AUCTIONS", snap.SoldStandard, names, icons)
	printSold(ctx, "SOLD BINS", snap.SoldInstant, names, icons)
}

func printActive(title string, auctions []model.Auction, icons *icon.Resolver) {
	if len(auctions) == 0 {
		return
	}
	fmt.Println(title)
	for _, a := range auctions {
		ic := icons.Resolve(a.ItemName, 32, a.ItemID)
		price := a.StartingBid
		if a.HighestBidAmount > price {
			price = a.HighestBidAmount
		}
		ends := time.Until(time.UnixMilli(a.End)).Round(time.Second)
		fmt.Printf("  %-40s %12d coins  ends in %s\n", ic.CleanName, price, ends)
	}
	fmt.Println()
}

func printSold(ctx context.Context, title string, auctions []model.Auction, names *identity.Names, icons *icon.Resolver) {
	if len(auctions) == 0 {
		return
	}
	fmt.Println(title)
	for _, a := range auctions {
		ic := icons.Resolve(a.ItemName, 32, a.ItemID)
		buyer := "unknown"
		if win, ok := a.WinningBid(); ok {
			buyer = names.Display(ctx, win.Bidder)
		}
		fmt.Printf("  %-40s %12d coins  buyer %s\n", ic.CleanName, a.HighestBidAmount, buyer)
	}
	fmt.Println()
}
