package sheets

import (
	"context"

	"ledger/internal/core"
)

// Ports for outbound adapters.
type (
	// StatementExporter writes monthly statements to an external spreadsheet.
	// One tab per person and month, replaced wholesale on every export.
	StatementExporter interface {
		ExportStatements(ctx context.Context, statements map[string][]core.MonthlyStatement) error
	}
)
