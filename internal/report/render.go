// Package report renders ledger views as plain text for the CLI.
// Pure formatting over aggregation results; no invariants of its own.
package report

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"finledger/internal/core"
)

// Records renders the ledger as a numbered table. Indexes shown are
// 1-based; the caller translates back when asking for an index.
func Records(records []core.Record) string {
	if len(records) == 0 {
		return "No records available.\n"
	}
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tDescription\tAmount\tCategory\tDate")
	for i, rec := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			i+1, rec.Description, rec.Amount, rec.Category, rec.Date)
	}
	w.Flush()
	return b.String()
}

// Totals renders the financial overview.
func Totals(t core.Totals) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total Income:      %s\n", t.Income)
	fmt.Fprintf(&b, "Total Expenses:    %s\n", t.Expense)
	fmt.Fprintf(&b, "Remaining Balance: %s\n", t.Balance)
	return b.String()
}

// Distribution renders the per-category sums.
func Distribution(rows []core.CategoryAmount) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "Category\tAmount")
	for _, row := range rows {
		fmt.Fprintf(w, "%s\t%s\n", row.Name, row.Amount)
	}
	w.Flush()
	return b.String()
}

// Trends renders the month-by-category pivot; one row per month, one
// column per category, zeros kept.
func Trends(table core.TrendTable) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Month")
	for _, cat := range table.Categories {
		fmt.Fprintf(w, "\t%s", cat)
	}
	fmt.Fprintln(w)
	for _, row := range table.Rows {
		fmt.Fprintf(w, "%s", row.Month)
		for _, cat := range table.Categories {
			fmt.Fprintf(w, "\t%s", row.Sums[cat])
		}
		fmt.Fprintln(w)
	}
	w.Flush()
	return b.String()
}

// Stats renders the describe summary of the ledger amounts.
func Stats(st core.Stats) string {
	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "count\t%d\n", st.Count)
	fmt.Fprintf(w, "mean\t%s\n", st.Mean)
	fmt.Fprintf(w, "min\t%s\n", st.Min)
	fmt.Fprintf(w, "max\t%s\n", st.Max)
	w.Flush()
	return b.String()
}
