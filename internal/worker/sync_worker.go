package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"doctab/internal/amqp"
	"doctab/internal/core"
	applog "doctab/internal/log"
	"doctab/internal/sheets"
	"doctab/internal/storage"
)

// SyncWorker handles synchronization of tables from SQLite to the
// spreadsheet mirror
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	sheets    sheets.TableWriter
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, sheets sheets.TableWriter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		sheets:    sheets,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single table sync message from AMQP
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TableSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		applog.FieldOperation, applog.OpSync,
		applog.FieldTableID, msg.TableID,
		applog.FieldDocumentID, msg.DocumentID)

	t, err := w.storage.GetTableByID(ctx, msg.TableID)
	if err != nil {
		// A table removed between publish and delivery would requeue
		// forever; drop the message instead.
		if errors.Is(err, core.ErrTableNotFound) {
			slog.WarnContext(ctx, "Table no longer exists, dropping sync message",
				"table_id", msg.TableID)
			return nil
		}
		return fmt.Errorf("get table from storage: %w", err)
	}

	if err := w.syncTableToSheets(ctx, t); err != nil {
		return fmt.Errorf("sync table to sheets: %w", err)
	}

	return nil
}

// ProcessPendingTables mirrors any tables that haven't been synced yet.
// This is a backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPendingTables(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncTables(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending tables: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending tables", "count", len(pending))

	for _, p := range pending {
		if err := w.syncTableToSheets(ctx, p.Table); err != nil {
			slog.ErrorContext(ctx, "Failed to sync table",
				"table_id", p.Table.ID,
				"attempts", p.SyncAttempts,
				"error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck mirrors pending tables at worker startup. Useful to
// recover from missed AMQP messages or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	// Larger batch for the startup pass
	pending, err := w.storage.GetPendingSyncTables(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending tables for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending tables found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending tables on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, p := range pending {
		if err := w.syncTableToSheets(ctx, p.Table); err != nil {
			slog.ErrorContext(ctx, "Failed to sync table during startup",
				"table_id", p.Table.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		applog.FieldOperation, applog.OpStartup,
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

func (w *SyncWorker) syncTableToSheets(ctx context.Context, t core.Table) error {
	ref, err := w.sheets.AppendTable(ctx, t)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, t.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "table_id", t.ID, "error", markErr)
		}
		return fmt.Errorf("append to sheets: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, t.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "table_id", t.ID, "error", err)
		// Don't return error here - the sync actually worked
	}

	slog.InfoContext(ctx, "Successfully synced table",
		applog.FieldOperation, applog.OpSync,
		applog.FieldTableID, t.ID,
		applog.FieldDocumentID, t.DocumentID,
		applog.FieldSheetsRef, ref,
		"rows", len(t.Rows))

	return nil
}
