package core

import "sort"

// FilterAll is the person-filter wildcard accepted by Aggregate.
const FilterAll = "all"

// Filter restricts an aggregation to one person and/or one month.
// An empty Person (or FilterAll) selects every person; an empty Month
// selects every month. Month is a YYYY-MM prefix.
type Filter struct {
	Person string
	Month  string
}

// Entry is a transaction together with the balance in effect immediately
// after applying it.
type Entry struct {
	Transaction
	RunningBalance Money `json:"runningBalance"`
}

// MonthlyStatement groups one person's transactions for one calendar month.
// Statements are recomputed on every aggregation call and never persisted.
type MonthlyStatement struct {
	Person          string  `json:"person"`
	Month           string  `json:"month"`
	StartingBalance Money   `json:"startingBalance"`
	TotalDeposits   Money   `json:"totalDeposits"`
	TotalExpenses   Money   `json:"totalExpenses"`
	EndingBalance   Money   `json:"endingBalance"`
	Entries         []Entry `json:"entries"`
}

// Aggregate partitions transactions by person and month and computes running
// balances. Per person, transactions are sorted date-ascending (same-day
// entries keep their input order), grouped by YYYY-MM, and the balance is
// seeded at zero once and carried across months: a month's ending balance is
// the next month's starting balance.
//
// When a month filter is applied the balance is computed over the filtered
// subset only, so the first visible month still starts at zero.
//
// Transactions with a zero date cannot be assigned to a month and are
// skipped. The function is pure and safe for concurrent use.
func Aggregate(txns []Transaction, f Filter) map[string][]MonthlyStatement {
	filtered := make([]Transaction, 0, len(txns))
	for _, t := range txns {
		if t.Date.IsZero() {
			continue
		}
		if f.Month != "" && t.Date.MonthKey() != f.Month {
			continue
		}
		if f.Person != "" && f.Person != FilterAll && t.Person != f.Person {
			continue
		}
		filtered = append(filtered, t)
	}

	persons := distinctPersons(filtered)
	out := make(map[string][]MonthlyStatement, len(persons))
	for _, p := range persons {
		out[p] = statementsFor(p, filtered)
	}
	return out
}

func distinctPersons(txns []Transaction) []string {
	seen := make(map[string]struct{}, len(txns))
	persons := make([]string, 0, len(txns))
	for _, t := range txns {
		if _, ok := seen[t.Person]; ok {
			continue
		}
		seen[t.Person] = struct{}{}
		persons = append(persons, t.Person)
	}
	sort.Strings(persons)
	return persons
}

func statementsFor(person string, txns []Transaction) []MonthlyStatement {
	var own []Transaction
	for _, t := range txns {
		if t.Person == person {
			own = append(own, t)
		}
	}
	// Stable keeps same-day entries in input order
	sort.SliceStable(own, func(i, j int) bool {
		return own[i].Date.Before(own[j].Date.Time)
	})

	groups := make(map[string][]Transaction)
	var months []string
	for _, t := range own {
		key := t.Date.MonthKey()
		if _, ok := groups[key]; !ok {
			months = append(months, key)
		}
		groups[key] = append(groups[key], t)
	}
	sort.Strings(months)

	stmts := make([]MonthlyStatement, 0, len(months))
	var balance int64
	for _, month := range months {
		st := MonthlyStatement{
			Person:          person,
			Month:           month,
			StartingBalance: Money{Cents: balance},
		}
		var deposits, expenses int64
		for _, t := range groups[month] {
			switch t.Kind {
			case Deposit:
				balance += t.Amount.Cents
				deposits += t.Amount.Cents
			case Expense:
				balance -= t.Amount.Cents
				expenses += t.Amount.Cents
			}
			st.Entries = append(st.Entries, Entry{Transaction: t, RunningBalance: Money{Cents: balance}})
		}
		st.TotalDeposits = Money{Cents: deposits}
		st.TotalExpenses = Money{Cents: expenses}
		st.EndingBalance = Money{Cents: balance}
		stmts = append(stmts, st)
	}
	return stmts
}
