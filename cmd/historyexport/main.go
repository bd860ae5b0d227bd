package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/skytrade/auction-data/internal/config"
	"github.com/skytrade/auction-data/internal/history"
	"github.com/skytrade/auction-data/internal/kvstore"
	"github.com/skytrade/auction-data/internal/version"
)

// historyexport dumps the accumulated sell history as a JSON document, to
// stdout or a file.
func main() {
	configPath := flag.String("config", "configs/auctionview.local.yaml", "path to config file")
	outPath := flag.String("out", "-", "output file, or - for stdout")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting historyexport",
		"version", version.Version,
		"config", *configPath,
	)

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	store, closeStore, err := newStore(ctx, cfg.Store)
	if err != nil {
		logger.Error("failed to connect to store", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	recorder := history.NewRecorder(store, logger)
	data, err := recorder.Export(ctx)
	if err != nil {
		logger.Error("failed to export sell history", "error", err)
		os.Exit(1)
	}

	if *outPath == "-" {
		os.Stdout.Write(data)
		os.Stdout.Write([]byte("\n"))
		return
	}
	if err := os.WriteFile(*outPath, data, 0o644); err != nil {
		logger.Error("failed to write output", "path", *outPath, "error", err)
		os.Exit(1)
	}
	logger.Info("sell history exported", "path", *outPath, "bytes", len(data))
}

func newStore(ctx context.Context, cfg config.StoreConfig) (kvstore.Store, func(), error) {
	switch cfg.Backend {
	case "redis":
		s, err := kvstore.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case "postgres":
		s, err := kvstore.NewPostgres(ctx, cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return kvstore.NewMemory(), func() {}, nil
	}
}
