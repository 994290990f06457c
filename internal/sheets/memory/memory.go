package memory

import (
	"context"
	"sync"

	"ledger/internal/core"
	ports "ledger/internal/sheets"
)

// Store is an in-memory StatementExporter used by tests and local runs
// without Google credentials.
type Store struct {
	mu   sync.Mutex
	tabs map[string][][]any
}

var _ ports.StatementExporter = (*Store)(nil)

func New() *Store {
	return &Store{tabs: make(map[string][][]any)}
}

// ExportStatements captures each statement as rows under its tab name.
func (s *Store) ExportStatements(_ context.Context, statements map[string][]core.MonthlyStatement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for person, months := range statements {
		for _, st := range months {
			s.tabs[ports.SheetName(person, st.Month)] = ports.Rows(st)
		}
	}
	return nil
}

// Tab returns a copy of the rows exported under the given tab name.
func (s *Store) Tab(name string) [][]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, ok := s.tabs[name]
	if !ok {
		return nil
	}
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = append([]any(nil), r...)
	}
	return out
}

// TabNames lists the tabs written so far.
func (s *Store) TabNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.tabs))
	for n := range s.tabs {
		names = append(names, n)
	}
	return names
}
