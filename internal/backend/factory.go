package backend

import (
	"context"
	"fmt"
	"log/slog"

	"rentbook/internal/adapters"
	"rentbook/internal/amqp"
	"rentbook/internal/services"
	"rentbook/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(config)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	// AMQP is optional; without it payments still land in the store and
	// the worker's backlog scan exports them.
	var amqpClient *amqp.Client
	if config.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPSyncQueue, config.AMQPNoticeQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without sync", "error", err)
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"sync_queue", config.AMQPSyncQueue)
		}
	}

	var publisher services.PaymentSyncPublisher
	if amqpClient != nil {
		publisher = amqpClient
	}
	writeService := services.NewRentBookService(repo, repo, publisher)
	ledgerService := services.NewLedgerService(repo, repo, nil)
	adapter := adapters.NewLedgerAdapter(repo, writeService, ledgerService)

	f.logger.Info("Initialized SQLite backend",
		"db_path", config.SQLiteDBPath,
		"amqp_enabled", amqpClient != nil)

	return &BackendResult{
		Backend: adapter,
		Cleanup: writeService.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*BackendResult, error) {
	repo := storage.NewMemoryRepository()

	writeService := services.NewRentBookService(repo, repo, nil)
	ledgerService := services.NewLedgerService(repo, repo, nil)
	adapter := adapters.NewLedgerAdapter(repo, writeService, ledgerService)

	f.logger.Info("Initialized memory backend")

	return &BackendResult{
		Backend: adapter,
		Cleanup: nil,
	}, nil
}
