package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Anish6964/fxblue-etl/configs"
	"github.com/Anish6964/fxblue-etl/internal/feed"
	"github.com/Anish6964/fxblue-etl/internal/ingest"
	"github.com/Anish6964/fxblue-etl/internal/objstore"
	"github.com/Anish6964/fxblue-etl/internal/roster"
	"github.com/Anish6964/fxblue-etl/internal/storage"
)

func main() {
	logger := ingest.NewLogger()
	cfg := configs.AppLoad()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.NewPostgresStore(cfg.DBDSN, cfg.BatchSize)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to DB")
		os.Exit(1)
	}
	defer store.Close()

	objects, err := objstore.NewGCS(ctx, cfg.Bucket)
	if err != nil {
		logger.WithError(err).Error("Failed to create object store client")
		os.Exit(1)
	}
	defer objects.Close()

	// Loading the roster is the enumeration step; it is the only failure
	// allowed to abort the whole run.
	data, err := objects.Download(ctx, cfg.RosterObject)
	if err != nil {
		logger.WithError(err).Error("Failed to download account roster")
		os.Exit(1)
	}
	accounts, err := roster.Parse(data, cfg.RosterObject)
	if err != nil {
		logger.WithError(err).Error("Failed to parse account roster")
		os.Exit(1)
	}
	logger.Infof("Loaded %d accounts from %q", len(accounts), cfg.RosterObject)

	fetcher := feed.NewFetcher(
		cfg.Feed.RequestsPerSecond,
		time.Duration(cfg.Feed.RequestTimeoutSeconds)*time.Second,
	)

	processor := ingest.NewRSSProcessor(fetcher, store)
	scheduler := ingest.NewScheduler(cfg.RSSWorkers, logger, processor.Process)
	scheduler.Run(ctx, accounts)
}
