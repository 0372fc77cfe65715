package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Anish6964/fxblue-etl/configs"
	"github.com/Anish6964/fxblue-etl/internal/ingest"
	"github.com/Anish6964/fxblue-etl/internal/objstore"
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

	// Enumeration is the only step allowed to fail the whole run.
	keys, err := objects.List(ctx, cfg.CSVPrefix)
	if err != nil {
		logger.WithError(err).Error("Failed to list CSV exports")
		os.Exit(1)
	}
	logger.Infof("Discovered %d CSV exports under %q", len(keys), cfg.CSVPrefix)

	processor := ingest.NewCSVProcessor(objects, store)
	scheduler := ingest.NewScheduler(cfg.CSVWorkers, logger, processor.Process)
	scheduler.Run(ctx, keys)
}
