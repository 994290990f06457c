package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Deposit Kind = "deposit"
	Expense Kind = "expense"

	// DepositCategory is the sentinel category carried by every deposit.
	// Expenses carry a real category name instead.
	DepositCategory = "N/A"
)

type (
	Kind string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is immutable once stored; there are no update or
	// delete operations in the ledger.
	Transaction struct {
		ID       int64  `json:"id"`
		Person   string `json:"person"`
		Kind     Kind   `json:"type"`
		Category string `json:"category"`
		Amount   Money  `json:"amount"`
		Date     Date   `json:"date"`
	}
)

var (
	ErrInvalidKind   = errors.New("invalid transaction type")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyPerson   = errors.New("empty person")
	ErrEmptyCategory = errors.New("empty category")
)

func (k Kind) Valid() bool {
	return k == Deposit || k == Expense
}

// NewDate creates a new Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a calendar date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// MonthKey returns the YYYY-MM grouping key for the date.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// NormalizePerson applies the person naming convention: trimmed and
// upper-cased. Callers normalize before storage; the store does not.
func NormalizePerson(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Person) == "" {
		return ErrEmptyPerson
	}
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if t.Amount.Cents < 0 {
		return ErrInvalidAmount
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	// Category is the sentinel exactly when the transaction is a deposit.
	switch t.Kind {
	case Deposit:
		if t.Category != DepositCategory {
			return ErrEmptyCategory
		}
	case Expense:
		if strings.TrimSpace(t.Category) == "" || t.Category == DepositCategory {
			return ErrEmptyCategory
		}
	}
	return nil
}
