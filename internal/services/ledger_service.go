// Package services orchestrates the ledger operations across the
// transaction store, the OTP gate, and the sync message bus.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"ledger/internal/core"
)

// ErrStoreUnavailable signals that the transaction store is not connected or
// not reachable. Requests failing with it are safe to retry unchanged.
var ErrStoreUnavailable = errors.New("transaction store unavailable")

// ValidationError reports which input fields were missing or malformed.
// It is client-recoverable and never logged as a server fault.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid transaction: " + strings.Join(e.Fields, ", ")
}

// TransactionInput is the raw client payload for recording a transaction.
// Amount and date arrive as strings and are parsed during validation.
type TransactionInput struct {
	Person   string
	Kind     string
	Category string
	Amount   string
	Date     string
}

type TransactionStore interface {
	InsertTransaction(ctx context.Context, t core.Transaction) (int64, error)
	ListTransactions(ctx context.Context) ([]core.Transaction, error)
}

// SyncPublisher announces newly recorded transactions to the export worker.
type SyncPublisher interface {
	PublishStatementSync(ctx context.Context, transactionID int64) error
}

// LedgerService mediates between the transaction store and the aggregator.
// It owns no state beyond request-scoped data.
type LedgerService struct {
	store     TransactionStore
	publisher SyncPublisher
}

// NewLedgerService creates a ledger service. publisher may be nil when no
// message bus is configured; recording then skips the export announcement.
func NewLedgerService(store TransactionStore, publisher SyncPublisher) *LedgerService {
	return &LedgerService{store: store, publisher: publisher}
}

// ListTransactions returns every stored transaction, date ascending.
func (s *LedgerService) ListTransactions(ctx context.Context) ([]core.Transaction, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}
	txns, err := s.store.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return txns, nil
}

// ListStatements fetches all transactions and aggregates them into per-person
// monthly statements under the given filter.
func (s *LedgerService) ListStatements(ctx context.Context, f core.Filter) (map[string][]core.MonthlyStatement, error) {
	txns, err := s.ListTransactions(ctx)
	if err != nil {
		return nil, err
	}
	return core.Aggregate(txns, f), nil
}

// RecordTransaction validates and normalizes the input, appends it to the
// store, and announces it to the export worker. The announcement is
// best-effort: the insert is already durable and the periodic sweep picks up
// missed messages. There is no automatic retry; inserts have no idempotency
// key, so a blind retry could duplicate the transaction.
func (s *LedgerService) RecordTransaction(ctx context.Context, in TransactionInput) (int64, error) {
	t, verr := buildTransaction(in)
	if verr != nil {
		return 0, verr
	}
	if s.store == nil {
		return 0, ErrStoreUnavailable
	}

	id, err := s.store.InsertTransaction(ctx, t)
	if err != nil {
		return 0, fmt.Errorf("record transaction: %w", err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishStatementSync(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to publish statement sync message",
				"id", id, "error", err)
		}
	}

	return id, nil
}

// buildTransaction normalizes and validates raw input, collecting every bad
// field instead of stopping at the first.
func buildTransaction(in TransactionInput) (core.Transaction, *ValidationError) {
	var bad []string

	t := core.Transaction{Person: core.NormalizePerson(in.Person)}
	if t.Person == "" {
		bad = append(bad, "person")
	}

	t.Kind = core.Kind(strings.ToLower(strings.TrimSpace(in.Kind)))
	if !t.Kind.Valid() {
		bad = append(bad, "type")
	}

	if cents, err := core.ParseDecimalToCents(in.Amount); err != nil {
		bad = append(bad, "amount")
	} else {
		t.Amount = core.Money{Cents: cents}
	}

	if date, err := core.ParseDate(in.Date); err != nil {
		bad = append(bad, "date")
	} else {
		t.Date = date
	}

	switch t.Kind {
	case core.Deposit:
		// Deposits always carry the sentinel, whatever the client sent
		t.Category = core.DepositCategory
	case core.Expense:
		t.Category = strings.TrimSpace(in.Category)
		if t.Category == "" || t.Category == core.DepositCategory {
			bad = append(bad, "category")
		}
	}

	if len(bad) > 0 {
		return core.Transaction{}, &ValidationError{Fields: bad}
	}
	return t, nil
}
