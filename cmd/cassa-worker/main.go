package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"cassa/internal/amqp"
	"cassa/internal/backend"
	"cassa/internal/cli"
	applog "cassa/internal/log"
	gsheet "cassa/internal/sheets/google"
	"cassa/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), applog.ComponentWorker)
	logger.Info("Starting cassa-worker")

	cfg := cli.LoadAndValidateConfig(logger.Logger)
	if err := cfg.ValidateWorker(); err != nil {
		logger.Error("Worker configuration invalid", "error", err)
		os.Exit(1)
	}

	ctx, cancel := cli.ShutdownContext(logger.Logger)
	defer cancel()

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Backend configuration invalid", "error", err)
		os.Exit(1)
	}
	repo, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger).OpenRepository(bcfg)
	if err != nil {
		logger.Error("Failed to open ledger repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	mirror, err := gsheet.New(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleCredentialsFile,
		logger.WithComponent(applog.ComponentSheets).Logger)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	client, err := amqp.Dial(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger.WithComponent(applog.ComponentAMQP).Logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	w := worker.NewMirrorWorker(repo, mirror, logger.Logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := w.ResyncAll(gctx); err != nil {
			logger.Error("Startup resync incomplete", "error", err)
		}
		return nil
	})
	g.Go(func() error {
		return client.Consume(gctx, w.Handle)
	})
	if cfg.ResyncInterval > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(cfg.ResyncInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					if err := w.ResyncAll(gctx); err != nil {
						logger.Error("Periodic resync incomplete", "error", err)
					}
				}
			}
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker shutdown complete")
}
