package storage

import (
	"context"
	"path/filepath"
	"testing"

	"ledger/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestInsertAndGetTransaction(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	id, err := repo.InsertTransaction(ctx, core.Transaction{
		Person:   "ALICE",
		Kind:     core.Expense,
		Category: "food",
		Amount:   core.Money{Cents: 1250},
		Date:     core.NewDate(2024, 1, 5),
	})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if id == 0 {
		t.Fatal("expected non-zero id")
	}

	got, err := repo.GetTransaction(ctx, id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Person != "ALICE" || got.Kind != core.Expense || got.Category != "food" {
		t.Errorf("unexpected transaction: %+v", got)
	}
	if got.Amount.Cents != 1250 || got.Date.String() != "2024-01-05" {
		t.Errorf("unexpected amount or date: %+v", got)
	}
}

func TestGetTransactionMissing(t *testing.T) {
	repo := newTestRepo(t)
	if _, err := repo.GetTransaction(context.Background(), 99); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestListTransactionsOrdersByDateThenID(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	dates := []core.Date{
		core.NewDate(2024, 2, 1),
		core.NewDate(2024, 1, 10),
		core.NewDate(2024, 1, 10),
	}
	for i, d := range dates {
		_, err := repo.InsertTransaction(ctx, core.Transaction{
			Person:   "BOB",
			Kind:     core.Deposit,
			Category: core.DepositCategory,
			Amount:   core.Money{Cents: int64(100 * (i + 1))},
			Date:     d,
		})
		if err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	txns, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txns) != 3 {
		t.Fatalf("expected 3 transactions, got %d", len(txns))
	}
	// January rows first, same-day rows keep insertion order.
	if txns[0].Amount.Cents != 200 || txns[1].Amount.Cents != 300 || txns[2].Amount.Cents != 100 {
		t.Errorf("unexpected order: %v %v %v", txns[0].Amount, txns[1].Amount, txns[2].Amount)
	}
}

func TestPendingSyncLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := repo.InsertTransaction(ctx, core.Transaction{
			Person:   "ALICE",
			Kind:     core.Deposit,
			Category: core.DepositCategory,
			Amount:   core.Money{Cents: 100},
			Date:     core.NewDate(2024, 1, i+1),
		})
		if err != nil {
			t.Fatalf("insert: %v", err)
		}
		ids = append(ids, id)
	}

	pending, err := repo.GetPendingSyncTransactions(ctx, 10)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 3 || pending[0].ID != ids[0] || pending[0].Person != "ALICE" {
		t.Fatalf("unexpected pending set: %+v", pending)
	}

	if err := repo.MarkSynced(ctx, ids[0]); err != nil {
		t.Fatalf("mark synced: %v", err)
	}
	if err := repo.MarkSyncError(ctx, ids[1]); err != nil {
		t.Fatalf("mark error: %v", err)
	}

	pending, err = repo.GetPendingSyncTransactions(ctx, 10)
	if err != nil {
		t.Fatalf("pending after marks: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != ids[2] {
		t.Fatalf("unexpected pending set after marks: %+v", pending)
	}
}

func TestPendingSyncRespectsLimit(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := repo.InsertTransaction(ctx, core.Transaction{
			Person:   "ALICE",
			Kind:     core.Deposit,
			Category: core.DepositCategory,
			Amount:   core.Money{Cents: 100},
			Date:     core.NewDate(2024, 1, 1),
		}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	pending, err := repo.GetPendingSyncTransactions(ctx, 2)
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if len(pending) != 2 {
		t.Errorf("expected 2, got %d", len(pending))
	}
}
