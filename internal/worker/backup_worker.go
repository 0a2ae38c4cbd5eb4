// Package worker consumes transaction events and mirrors committed
// transactions to the external backup store.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fullbalance/internal/amqp"
	"fullbalance/internal/backup"
	"fullbalance/internal/core"
	"fullbalance/internal/storage"
)

// BackupWorker applies transaction events to the backup mirror and sweeps
// unsynced rows as a recovery path for lost messages.
type BackupWorker struct {
	storage   *storage.SQLiteRepository
	mirror    backup.Mirror
	batchSize int
}

func NewBackupWorker(storage *storage.SQLiteRepository, mirror backup.Mirror, batchSize int) *BackupWorker {
	if batchSize <= 0 {
		batchSize = 50
	}
	return &BackupWorker{
		storage:   storage,
		mirror:    mirror,
		batchSize: batchSize,
	}
}

// HandleTransactionEvent processes a single event from AMQP.
func (w *BackupWorker) HandleTransactionEvent(ctx context.Context, event *amqp.TransactionEvent) error {
	slog.InfoContext(ctx, "Processing transaction event",
		"type", event.Type,
		"transaction_id", event.TransactionID)

	if event.Type == amqp.EventDeleted {
		ref, err := w.mirror.AppendRow(ctx, backup.NewDeletionRow(event.TransactionID, event.OwnerID))
		if err != nil {
			return fmt.Errorf("append deletion row: %w", err)
		}
		slog.InfoContext(ctx, "Deletion mirrored", "transaction_id", event.TransactionID, "row_ref", ref)
		return nil
	}

	t, err := w.storage.GetTransaction(ctx, event.OwnerID, event.TransactionID)
	if errors.Is(err, storage.ErrNotFound) {
		// The row was deleted before we got here; the deletion event will
		// carry the tombstone.
		slog.WarnContext(ctx, "Transaction gone before mirroring, skipping",
			"transaction_id", event.TransactionID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	return w.mirrorTransaction(ctx, event.Type, t)
}

// ProcessPending mirrors transactions whose sync marker is still unset.
// This is a backup mechanism in case AMQP messages are lost.
func (w *BackupWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.ListUnsynced(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list unsynced transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing unsynced transactions", "count", len(pending))

	for _, t := range pending {
		if err := w.mirrorTransaction(ctx, amqp.EventCreated, t); err != nil {
			slog.ErrorContext(ctx, "Failed to mirror transaction",
				"transaction_id", t.ID, "error", err)
			continue
		}
	}
	return nil
}

// RunPendingSweep runs ProcessPending immediately and then on every tick
// until the context is cancelled.
func (w *BackupWorker) RunPendingSweep(ctx context.Context, interval time.Duration) error {
	if err := w.ProcessPending(ctx); err != nil {
		slog.ErrorContext(ctx, "Startup sweep failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.ProcessPending(ctx); err != nil {
				slog.ErrorContext(ctx, "Pending sweep failed", "error", err)
			}
		}
	}
}

func (w *BackupWorker) mirrorTransaction(ctx context.Context, event string, t core.Transaction) error {
	ref, err := w.mirror.AppendRow(ctx, backup.NewRow(event, t))
	if err != nil {
		return fmt.Errorf("append to mirror: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, t.ID); err != nil {
		// The mirror write already happened, so only log here.
		slog.ErrorContext(ctx, "Failed to mark transaction synced",
			"transaction_id", t.ID, "error", err)
	}

	slog.InfoContext(ctx, "Transaction mirrored",
		"transaction_id", t.ID,
		"row_ref", ref,
		"event", event)
	return nil
}
