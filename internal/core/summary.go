package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNoRecords is the explicit "no data" marker returned by every
// aggregation on an empty ledger. Callers must be able to tell a zero
// net from a ledger with no history, so the zero value is never used
// for that.
var ErrNoRecords = errors.New("no records")

// Totals is the income/expense/balance overview of a ledger. Expense
// is non-positive per the sign convention, so Balance is always the
// plain sum Income + Expense.
type Totals struct {
	Income  Money
	Expense Money
	Balance Money
}

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// TrendRow is one month of the month-by-category pivot. Sums carries a
// value for every category in the table, zero when the category did
// not occur that month.
type TrendRow struct {
	Month string // YYYY-MM
	Sums  map[string]Money
}

// TrendTable is the dense pivot produced by MonthlyTrends. Rows are
// ordered chronologically, Categories lexicographically.
type TrendTable struct {
	Categories []string
	Rows       []TrendRow
}

// Stats summarizes the amounts of a ledger, in the manner of a
// one-column describe.
type Stats struct {
	Count int
	Mean  Money
	Min   Money
	Max   Money
}

// ComputeTotals sums income and expense amounts and their balance.
// Category matching is case-insensitive. Returns ErrNoRecords for an
// empty ledger.
func ComputeTotals(records []Record) (Totals, error) {
	if len(records) == 0 {
		return Totals{}, ErrNoRecords
	}
	var t Totals
	for _, r := range records {
		switch {
		case strings.EqualFold(string(r.Category), string(Income)):
			t.Income = t.Income.Add(r.Amount)
		case strings.EqualFold(string(r.Category), string(Expense)):
			t.Expense = t.Expense.Add(r.Amount)
		}
	}
	t.Balance = t.Income.Add(t.Expense)
	return t, nil
}

// Distribution groups amounts by exact category string and returns the
// per-category sums ordered by category name ascending. Returns
// ErrNoRecords for an empty ledger.
func Distribution(records []Record) ([]CategoryAmount, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	sums := make(map[string]Money)
	for _, r := range records {
		name := string(r.Category)
		sums[name] = sums[name].Add(r.Amount)
	}
	names := make([]string, 0, len(sums))
	for name := range sums {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]CategoryAmount, len(names))
	for i, name := range names {
		out[i] = CategoryAmount{Name: name, Amount: sums[name]}
	}
	return out, nil
}

// MonthlyTrends pivots the ledger into one row per YYYY-MM month,
// one column per category seen anywhere in the input. Months a
// category did not occur in carry an explicit zero. Rows are ordered
// chronologically ascending. A record with a zero date fails the whole
// aggregation with ErrBadDate; there is no partial recovery.
func MonthlyTrends(records []Record) (TrendTable, error) {
	if len(records) == 0 {
		return TrendTable{}, ErrNoRecords
	}

	sums := make(map[string]map[string]Money) // month -> category -> sum
	catSet := make(map[string]struct{})
	for _, r := range records {
		if r.Date.IsZero() {
			return TrendTable{}, fmt.Errorf("%w: record %q has no date", ErrBadDate, r.Description)
		}
		month := r.Date.MonthKey()
		name := string(r.Category)
		if sums[month] == nil {
			sums[month] = make(map[string]Money)
		}
		sums[month][name] = sums[month][name].Add(r.Amount)
		catSet[name] = struct{}{}
	}

	categories := make([]string, 0, len(catSet))
	for name := range catSet {
		categories = append(categories, name)
	}
	sort.Strings(categories)

	months := make([]string, 0, len(sums))
	for month := range sums {
		months = append(months, month)
	}
	// YYYY-MM sorts chronologically as a string
	sort.Strings(months)

	table := TrendTable{Categories: categories, Rows: make([]TrendRow, len(months))}
	for i, month := range months {
		row := TrendRow{Month: month, Sums: make(map[string]Money, len(categories))}
		for _, name := range categories {
			row.Sums[name] = sums[month][name]
		}
		table.Rows[i] = row
	}
	return table, nil
}

// Describe computes count, mean, min and max over the record amounts.
// Returns ErrNoRecords for an empty ledger.
func Describe(records []Record) (Stats, error) {
	if len(records) == 0 {
		return Stats{}, ErrNoRecords
	}
	st := Stats{
		Count: len(records),
		Min:   records[0].Amount,
		Max:   records[0].Amount,
	}
	var total int64
	for _, r := range records {
		total += r.Amount.Cents
		if r.Amount.Cents < st.Min.Cents {
			st.Min = r.Amount
		}
		if r.Amount.Cents > st.Max.Cents {
			st.Max = r.Amount
		}
	}
	// Round half away from zero on the fractional cent
	n := int64(st.Count)
	mean := total / n
	if rem := total % n; rem != 0 {
		if 2*rem >= n {
			mean++
		} else if -2*rem >= n {
			mean--
		}
	}
	st.Mean = Money{Cents: mean}
	return st, nil
}
