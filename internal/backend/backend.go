// Package backend builds the configured expense store and its collaborators.
// This is the only place that knows which concrete store is in play.
package backend

import (
	"fmt"
	"log/slog"

	"expensetracker/internal/amqp"
	"expensetracker/internal/store"
	"expensetracker/internal/store/memory"
	"expensetracker/internal/storage"
)

// Type selects the store implementation.
type Type string

const (
	SQLiteBackend Type = "sqlite"
	MemoryBackend Type = "memory"
)

func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// Config holds what the factory needs to build a backend.
type Config struct {
	Type         Type
	SQLiteDBPath string

	// Optional change-event publishing.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// Result carries the built store plus the optional event client.
type Result struct {
	Store  store.ExpenseStore
	Events *amqp.Client
}

// Build creates the configured store. The AMQP client is best-effort: a
// broker that cannot be reached downgrades to local-only operation.
func Build(logger *slog.Logger, cfg Config) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", cfg.Type)
	}

	var st store.ExpenseStore
	switch cfg.Type {
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize SQLite repository: %w", err)
		}
		st = repo
		logger.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
	case MemoryBackend:
		st = memory.New()
		logger.Info("Initialized memory backend")
	}

	var events *amqp.Client
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
		} else {
			events = client
			logger.Info("Initialized AMQP event publisher",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
		}
	}

	return &Result{Store: st, Events: events}, nil
}
