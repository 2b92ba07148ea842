// Package worker mirrors confirmed transactions to a backup Google
// Sheets spreadsheet, driven by broker events with a periodic re-scan as
// the catch-up path.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eucalito/internal/amqp"
	"eucalito/internal/core"
	"eucalito/internal/storage"
)

// Store is the slice of the repository the worker needs.
type Store interface {
	GetTransaction(ctx context.Context, id string) (core.Transaction, error)
	ListUnsynced(ctx context.Context, limit int) ([]core.Transaction, error)
	MarkSynced(ctx context.Context, id string, at time.Time) error
}

// BackupWorker consumes ledger events and mirrors confirmed
// transactions. Events are only hints; the unsynced queue in the
// database is the source of truth, so lost or duplicated messages are
// absorbed by re-scans.
type BackupWorker struct {
	store     Store
	sheet     SheetWriter
	batchSize int
}

func NewBackupWorker(store Store, sheet SheetWriter, batchSize int) *BackupWorker {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &BackupWorker{
		store:     store,
		sheet:     sheet,
		batchSize: batchSize,
	}
}

// HandleEvent processes one broker event. Deletions are intentionally
// not mirrored: the spreadsheet is an append-only audit trail.
func (w *BackupWorker) HandleEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	if msg.Entity != "transaction" || msg.Op != "sync" {
		return nil
	}

	tx, err := w.store.GetTransaction(ctx, msg.ID)
	if errors.Is(err, storage.ErrNotFound) {
		// Deleted before we got to it.
		slog.InfoContext(ctx, "transaction gone before mirror", "id", msg.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("get transaction: %w", err)
	}

	return w.mirror(ctx, tx)
}

// ProcessPending mirrors everything still queued in the database. This
// is the catch-up path for lost events and worker downtime.
func (w *BackupWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.store.ListUnsynced(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list unsynced: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "processing pending mirror queue", "count", len(pending))
	for _, tx := range pending {
		if err := w.mirror(ctx, tx); err != nil {
			slog.ErrorContext(ctx, "failed to mirror transaction",
				"id", tx.ID, "error", err)
			// Leave it queued; the next scan retries.
			continue
		}
	}
	return nil
}

// Run drives the periodic re-scan until the context is cancelled. The
// first scan runs immediately so a restart catches up without waiting.
func (w *BackupWorker) Run(ctx context.Context, interval time.Duration) error {
	if err := w.ProcessPending(ctx); err != nil {
		slog.ErrorContext(ctx, "startup mirror scan failed", "error", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "backup worker stopping", "reason", ctx.Err())
			return ctx.Err()
		case <-ticker.C:
			if err := w.ProcessPending(ctx); err != nil {
				slog.ErrorContext(ctx, "mirror scan failed", "error", err)
			}
		}
	}
}

func (w *BackupWorker) mirror(ctx context.Context, tx core.Transaction) error {
	if !tx.IsConfirmed {
		return nil
	}

	ref, err := w.sheet.AppendRow(ctx, tx)
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}

	if err := w.store.MarkSynced(ctx, tx.ID, time.Now()); err != nil {
		// The row landed; on redelivery the sheet gets a duplicate with
		// the same transaction ID, which is visible and cleanable.
		slog.ErrorContext(ctx, "failed to mark transaction synced",
			"id", tx.ID, "error", err)
		return nil
	}

	slog.InfoContext(ctx, "transaction mirrored",
		"id", tx.ID, "sheet_ref", ref, "amount_cents", tx.AmountUSD.Cents)
	return nil
}
