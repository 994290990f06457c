package worker

import (
	"context"
	"errors"
	"testing"

	"ledger/internal/amqp"
	"ledger/internal/core"
	"ledger/internal/sheets/memory"
	"ledger/internal/storage"
)

type fakeStore struct {
	txns       []core.Transaction
	pending    []storage.PendingSyncTransaction
	synced     []int64
	syncErrors []int64
	listErr    error
}

func (f *fakeStore) GetTransaction(_ context.Context, id int64) (core.Transaction, error) {
	for _, t := range f.txns {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, errors.New("transaction not found")
}

func (f *fakeStore) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.txns, nil
}

func (f *fakeStore) GetPendingSyncTransactions(_ context.Context, limit int) ([]storage.PendingSyncTransaction, error) {
	if limit > len(f.pending) {
		limit = len(f.pending)
	}
	return f.pending[:limit], nil
}

func (f *fakeStore) MarkSynced(_ context.Context, id int64) error {
	f.synced = append(f.synced, id)
	return nil
}

func (f *fakeStore) MarkSyncError(_ context.Context, id int64) error {
	f.syncErrors = append(f.syncErrors, id)
	return nil
}

type failingExporter struct{}

func (failingExporter) ExportStatements(context.Context, map[string][]core.MonthlyStatement) error {
	return errors.New("sheets unavailable")
}

func sampleTxns() []core.Transaction {
	return []core.Transaction{
		{ID: 1, Person: "ALICE", Kind: core.Deposit, Category: core.DepositCategory, Amount: core.Money{Cents: 10000}, Date: core.NewDate(2024, 1, 1)},
		{ID: 2, Person: "ALICE", Kind: core.Expense, Category: "food", Amount: core.Money{Cents: 3000}, Date: core.NewDate(2024, 2, 3)},
		{ID: 3, Person: "BOB", Kind: core.Deposit, Category: core.DepositCategory, Amount: core.Money{Cents: 500}, Date: core.NewDate(2024, 1, 10)},
	}
}

func TestHandleSyncMessageExportsWholePerson(t *testing.T) {
	store := &fakeStore{txns: sampleTxns()}
	exp := memory.New()
	w := NewSyncWorker(store, exp, 10)

	msg := amqp.NewStatementSyncMessage(2)
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}

	// Both of Alice's months are exported, Bob's none.
	if rows := exp.Tab("ALICE_2024-01"); len(rows) != 2 {
		t.Errorf("expected January tab, got %v", rows)
	}
	feb := exp.Tab("ALICE_2024-02")
	if len(feb) != 2 {
		t.Fatalf("expected February tab, got %v", feb)
	}
	// Running balance carries January's deposit into February.
	if feb[1][4] != 70.0 {
		t.Errorf("unexpected running balance: %v", feb[1][4])
	}
	if exp.Tab("BOB_2024-01") != nil {
		t.Errorf("did not expect Bob's tab")
	}

	if len(store.synced) != 1 || store.synced[0] != 2 {
		t.Errorf("expected transaction 2 marked synced, got %v", store.synced)
	}
}

func TestHandleSyncMessageUnknownTransaction(t *testing.T) {
	store := &fakeStore{txns: sampleTxns()}
	w := NewSyncWorker(store, memory.New(), 10)

	if err := w.HandleSyncMessage(context.Background(), amqp.NewStatementSyncMessage(99)); err == nil {
		t.Fatal("expected error for unknown transaction")
	}
	if len(store.synced) != 0 {
		t.Errorf("nothing should be marked synced, got %v", store.synced)
	}
}

func TestProcessPendingExportsEachPersonOnce(t *testing.T) {
	store := &fakeStore{
		txns: sampleTxns(),
		pending: []storage.PendingSyncTransaction{
			{ID: 1, Person: "ALICE"},
			{ID: 2, Person: "ALICE"},
			{ID: 3, Person: "BOB"},
		},
	}
	exp := memory.New()
	w := NewSyncWorker(store, exp, 10)

	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("process pending: %v", err)
	}

	if len(store.synced) != 3 {
		t.Errorf("expected all 3 marked synced, got %v", store.synced)
	}
	if len(exp.TabNames()) != 3 {
		t.Errorf("expected 3 tabs, got %v", exp.TabNames())
	}
}

func TestProcessPendingMarksErrorsOnExportFailure(t *testing.T) {
	store := &fakeStore{
		txns:    sampleTxns(),
		pending: []storage.PendingSyncTransaction{{ID: 1, Person: "ALICE"}},
	}
	w := NewSyncWorker(store, failingExporter{}, 10)

	if err := w.ProcessPending(context.Background()); err != nil {
		t.Fatalf("process pending: %v", err)
	}
	if len(store.syncErrors) != 1 || store.syncErrors[0] != 1 {
		t.Errorf("expected transaction 1 marked errored, got %v", store.syncErrors)
	}
	if len(store.synced) != 0 {
		t.Errorf("nothing should be marked synced, got %v", store.synced)
	}
}

func TestStartupSyncCheckEmpty(t *testing.T) {
	store := &fakeStore{txns: sampleTxns()}
	w := NewSyncWorker(store, memory.New(), 10)

	if err := w.StartupSyncCheck(context.Background()); err != nil {
		t.Fatalf("startup check: %v", err)
	}
	if len(store.synced) != 0 {
		t.Errorf("nothing to sync, got %v", store.synced)
	}
}
