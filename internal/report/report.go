// Package report reduces an expense collection to the numbers the external
// charting and report layer renders: per-category sums and a one-page
// summary document.
package report

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"spendlog/internal/core"
)

// ByCategory groups the expenses by exact category label and sums amounts
// per group. Categories appear in first-occurrence order, which keeps chart
// segments stable for an unchanged ledger.
func ByCategory(expenses []core.Expense) []core.CategoryAmount {
	index := make(map[string]int)
	var out []core.CategoryAmount
	for _, e := range expenses {
		if i, ok := index[e.Category]; ok {
			out[i].Amount = out[i].Amount.Add(e.Amount)
			continue
		}
		index[e.Category] = len(out)
		out = append(out, core.CategoryAmount{Name: e.Category, Amount: e.Amount})
	}
	return out
}

// Markdown builds the one-page expense report for a user: budget accounting,
// entry count and the category breakdown. Rendering (terminal, PDF) happens
// outside the core.
func Markdown(username string, ledger core.Ledger) string {
	summary := ledger.Summarize()
	breakdown := ByCategory(ledger.Expenses)

	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Expense Report - %s", username))
	doc.PlainText(fmt.Sprintf("Generated: %s", core.Now()))

	doc.H2("Summary")
	doc.Table(md.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Monthly Budget", core.FormatAmount(summary.Budget)},
			{"Total Spent", core.FormatAmount(summary.TotalSpent)},
			{"Remaining", core.FormatAmount(summary.Remaining)},
			{"Entries", fmt.Sprintf("%d", len(ledger.Expenses))},
		},
	})
	if summary.OverBudget {
		doc.PlainText("Budget exceeded!")
	}

	doc.H2("Expenses by Category")
	if len(breakdown) == 0 {
		doc.PlainText("No expenses recorded.")
	} else {
		rows := make([][]string, 0, len(breakdown))
		for _, c := range breakdown {
			rows = append(rows, []string{c.Name, core.FormatAmount(c.Amount)})
		}
		doc.Table(md.TableSet{
			Header: []string{"Category", "Amount"},
			Rows:   rows,
		})
	}

	return doc.String()
}
