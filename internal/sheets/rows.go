package sheets

import (
	"fmt"

	"ledger/internal/core"
)

// Header is the first row of every exported statement tab.
var Header = []string{"Date", "Type", "Category", "Amount", "Running Balance"}

// SheetName builds the tab title for a person's monthly statement.
func SheetName(person, month string) string {
	return fmt.Sprintf("%s_%s", person, month)
}

// Rows flattens a monthly statement into spreadsheet rows, header included.
// Amounts are written as decimal units so the sheet can format them as currency.
func Rows(st core.MonthlyStatement) [][]any {
	out := make([][]any, 0, len(st.Entries)+1)
	hdr := make([]any, len(Header))
	for i, h := range Header {
		hdr[i] = h
	}
	out = append(out, hdr)
	for _, e := range st.Entries {
		out = append(out, []any{
			e.Date.String(),
			string(e.Kind),
			e.Category,
			e.Amount.Units(),
			e.RunningBalance.Units(),
		})
	}
	return out
}
