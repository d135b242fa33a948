// Command notice-worker periodically scans tenant ledgers and publishes
// a due notice for every tenant behind on the current month.
package main

import (
	"os"
	"time"

	"rentbook/internal/amqp"
	"rentbook/internal/cli"
	"rentbook/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	logger.Info("Starting notice-worker")

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)

	// Publishing notices is this worker's whole job, so the broker is
	// not optional here.
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPSyncQueue, cfg.AMQPNoticeQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		repo.Close()
		os.Exit(1)
	}

	processor := services.NewNoticeProcessor(repo, repo, amqpClient, nil)

	ctx, done := cli.GracefulShutdown(logger.Logger, 10*time.Second, func() {
		amqpClient.Close()
		repo.Close()
	})

	logger.Info("Due notice processor configured",
		"interval", cfg.NoticeInterval,
		"sqlite_db", cfg.SQLiteDBPath)

	logger.Info("Running initial notice scan...")
	if err := processor.Run(ctx); err != nil {
		logger.Error("Initial notice scan failed", "error", err)
	}

	go func() {
		ticker := time.NewTicker(cfg.NoticeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := processor.Run(ctx); err != nil {
					logger.Error("Notice scan failed", "error", err)
				}
			}
		}
	}()

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped")
}
