// Package worker moves recorded transactions from the SQLite log into the
// shared Google Sheet. AMQP messages drive the common path; a periodic
// pending-scan catches anything a lost message left behind.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"bizkash/internal/amqp"
	"bizkash/internal/core"
	"bizkash/internal/i18n"
	"bizkash/internal/ledger"
	"bizkash/internal/sheets"
	"bizkash/internal/storage"
)

type SyncWorker struct {
	storage   *storage.SQLiteRepository
	sheet     sheets.RowAppender
	locale    i18n.Locale
	batchSize int
}

func NewSyncWorker(st *storage.SQLiteRepository, sheet sheets.RowAppender, locale i18n.Locale, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   st,
		sheet:     sheet,
		locale:    locale,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes one sync request from AMQP. The message only
// names the transaction; the row itself is loaded fresh from storage.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "id", msg.ID, "seq", msg.Seq)

	t, err := w.storage.Get(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	return w.syncToSheet(ctx, t)
}

// ProcessPending syncs transactions still marked pending. Backup mechanism
// for lost AMQP messages.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	return w.drainPending(ctx, w.batchSize)
}

// StartupSyncCheck drains a larger pending batch once at worker startup, to
// recover from downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	return w.drainPending(ctx, w.batchSize*5)
}

func (w *SyncWorker) drainPending(ctx context.Context, limit int) error {
	pending, err := w.storage.GetPendingSync(ctx, limit)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}
	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	synced := 0
	for _, p := range pending {
		t, err := w.storage.Get(ctx, p.ID)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to load pending transaction", "id", p.ID, "error", err)
			if markErr := w.storage.MarkSyncError(ctx, p.ID); markErr != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", markErr)
			}
			continue
		}
		if err := w.syncToSheet(ctx, t); err != nil {
			slog.ErrorContext(ctx, "Failed to sync pending transaction", "id", p.ID, "error", err)
			continue
		}
		synced++
	}

	slog.InfoContext(ctx, "Pending sync pass completed", "total", len(pending), "synced", synced)
	return nil
}

func (w *SyncWorker) syncToSheet(ctx context.Context, t core.Transaction) error {
	row := ledger.ExportRow{
		Date:        t.CreatedAt.Format(w.locale.DateLayout()),
		Type:        w.locale.KindLabel(t.Kind),
		Amount:      t.Amount.Shillings,
		Description: t.Description,
		Category:    w.locale.CategoryLabel(t.Category),
		Source:      string(t.Source),
	}

	ref, err := w.sheet.AppendRow(ctx, row)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, t.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", t.ID, "error", markErr)
		}
		return fmt.Errorf("append to sheet: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, t.ID); err != nil {
		// The append went through; losing the mark only risks a duplicate row
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", t.ID, "error", err)
	}

	slog.InfoContext(ctx, "Synced transaction to sheet",
		"id", t.ID,
		"sheet_ref", ref,
		"description", t.Description,
		"amount_shillings", t.Amount.Shillings)

	return nil
}
