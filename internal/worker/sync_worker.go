package worker

import (
	"context"
	"fmt"
	"log/slog"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/sheets"
	"ledger/internal/storage"
)

// SyncStore is the slice of the storage layer the worker needs.
type SyncStore interface {
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
	GetPendingSyncTransactions(ctx context.Context, limit int) ([]storage.PendingSyncTransaction, error)
	MarkSynced(ctx context.Context, id int64) error
	MarkSyncError(ctx context.Context, id int64) error
}

// SyncWorker pushes monthly statements from SQLite to the spreadsheet
// exporter whenever a transaction changes.
type SyncWorker struct {
	storage   SyncStore
	exporter  sheets.StatementExporter
	batchSize int
}

func NewSyncWorker(storage SyncStore, exporter sheets.StatementExporter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		exporter:  exporter,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single statement sync message from AMQP.
// A new transaction shifts every running balance after it, so the whole
// set of statements for that person is re-exported.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.StatementSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message", "transaction_id", msg.TransactionID)

	txn, err := w.storage.GetTransaction(ctx, msg.TransactionID)
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	if err := w.exportPerson(ctx, txn.Person); err != nil {
		return fmt.Errorf("export statements: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, msg.TransactionID); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}

	return nil
}

// exportPerson recomputes and exports every monthly statement for one person.
func (w *SyncWorker) exportPerson(ctx context.Context, person string) error {
	txns, err := w.storage.ListTransactions(ctx)
	if err != nil {
		return fmt.Errorf("list transactions: %w", err)
	}

	statements := core.Aggregate(txns, core.Filter{Person: person})
	if len(statements) == 0 {
		slog.WarnContext(ctx, "No statements to export", "person", person)
		return nil
	}

	if err := w.exporter.ExportStatements(ctx, statements); err != nil {
		return fmt.Errorf("export statements for %s: %w", person, err)
	}

	return nil
}

// ProcessPending syncs transactions that never got their AMQP message
// through. This is a backup mechanism in case messages are lost.
func (w *SyncWorker) ProcessPending(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncTransactions(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending transactions: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	w.syncPendingBatch(ctx, pending)
	return nil
}

// StartupSyncCheck drains pending transactions at worker startup to
// recover from missed AMQP messages or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	// Larger batch for startup check
	pending, err := w.storage.GetPendingSyncTransactions(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending transactions for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup, processing...",
		"count", len(pending))

	synced, errored := w.syncPendingBatch(ctx, pending)

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", synced,
		"errors", errored)

	return nil
}

// syncPendingBatch exports each affected person once, then marks the
// individual transactions. Duplicate exports for the same person within
// one batch are skipped.
func (w *SyncWorker) syncPendingBatch(ctx context.Context, pending []storage.PendingSyncTransaction) (synced, errored int) {
	exported := make(map[string]bool)

	for _, p := range pending {
		ok, seen := exported[p.Person]
		if !seen {
			err := w.exportPerson(ctx, p.Person)
			ok = err == nil
			exported[p.Person] = ok
			if err != nil {
				slog.ErrorContext(ctx, "Failed to export statements", "person", p.Person, "error", err)
			}
		}

		if !ok {
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			errored++
			continue
		}

		if err := w.storage.MarkSynced(ctx, p.ID); err != nil {
			slog.ErrorContext(ctx, "Failed to mark synced", "id", p.ID, "error", err)
			errored++
			continue
		}
		synced++
	}

	return synced, errored
}
