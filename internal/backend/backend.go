// Package backend assembles the persistence side of the service from
// configuration: a plain in-memory ledger, or a ledger backed by the SQLite
// append log with optional AMQP sync publishing.
package backend

import (
	"context"
	"fmt"

	"bizkash/internal/amqp"
	"bizkash/internal/config"
	"bizkash/internal/core"
	"bizkash/internal/ledger"
	"bizkash/internal/log"
	"bizkash/internal/storage"
)

type Type string

const (
	Memory Type = "memory"
	SQLite Type = "sqlite"
)

func (t Type) IsValid() bool {
	return t == Memory || t == SQLite
}

// Recorder appends validated transactions. The HTTP layer talks to this so
// it never cares which backend is behind it.
type Recorder interface {
	Record(in core.TransactionInput) (core.Transaction, error)
}

// CleanupFunc releases backend resources at shutdown.
type CleanupFunc func() error

// Result is the assembled backend: the shared ledger, a recorder that
// persists and publishes as configured, and the cleanup hook.
type Result struct {
	Ledger   *ledger.Ledger
	Recorder Recorder
	Cleanup  CleanupFunc
}

// Open builds the backend named by cfg.DataBackend. With sqlite the ledger
// is rehydrated from the append log before the service starts taking
// requests.
func Open(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Result, error) {
	t := Type(cfg.DataBackend)
	if !t.IsValid() {
		return nil, fmt.Errorf("unknown data backend: %s", cfg.DataBackend)
	}

	l := ledger.New()

	if t == Memory {
		logger.Info("Using in-memory backend")
		return &Result{
			Ledger:   l,
			Recorder: l,
			Cleanup:  func() error { return nil },
		}, nil
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite backend: %w", err)
	}

	stored, err := repo.ListAll(ctx)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("rehydrate ledger: %w", err)
	}
	for _, tx := range stored {
		l.Restore(tx)
	}
	logger.Info("Ledger rehydrated from sqlite", "transactions", len(stored), "path", cfg.SQLiteDBPath)

	var queue *amqp.Client
	if cfg.AMQPURL != "" {
		queue, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			// Sync publishing is best-effort; the pending-scan in the
			// worker covers rows that never got a message.
			logger.Warn("AMQP unavailable, sync messages disabled", "error", err)
			queue = nil
		}
	}

	rec := &persistingRecorder{ledger: l, repo: repo, queue: queue, logger: logger}
	cleanup := func() error {
		if queue != nil {
			queue.Close()
		}
		return repo.Close()
	}

	return &Result{Ledger: l, Recorder: rec, Cleanup: cleanup}, nil
}

// persistingRecorder records into the ledger first, then appends to the log
// and publishes the sync message. The in-memory record is the user-visible
// truth; log or publish failures are reported but do not undo it.
type persistingRecorder struct {
	ledger *ledger.Ledger
	repo   *storage.SQLiteRepository
	queue  *amqp.Client
	logger *log.Logger
}

func (r *persistingRecorder) Record(in core.TransactionInput) (core.Transaction, error) {
	t, err := r.ledger.Record(in)
	if err != nil {
		return core.Transaction{}, err
	}

	ctx := context.Background()
	if err := r.repo.Append(ctx, t); err != nil {
		r.logger.Error("Failed to append transaction to storage", "id", t.ID, "error", err)
		return t, nil
	}

	if r.queue != nil {
		if err := r.queue.PublishTransactionSync(ctx, t.ID, t.Seq); err != nil {
			r.logger.Warn("Failed to publish sync message", "id", t.ID, "error", err)
		}
	}
	return t, nil
}
