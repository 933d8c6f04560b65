package report

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"spendlog/internal/core"
)

func expense(category, amount string) core.Expense {
	return core.Expense{Category: category, Amount: decimal.RequireFromString(amount)}
}

func TestByCategory(t *testing.T) {
	expenses := []core.Expense{
		expense("Food", "10"),
		expense("Transport", "5"),
		expense("Food", "2.5"),
		expense("food", "1"), // labels are case-sensitive
	}

	got := ByCategory(expenses)
	if len(got) != 3 {
		t.Fatalf("expected 3 groups, got %d: %+v", len(got), got)
	}
	// First-occurrence order.
	if got[0].Name != "Food" || got[1].Name != "Transport" || got[2].Name != "food" {
		t.Fatalf("unexpected order: %+v", got)
	}
	if !got[0].Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("Food sum mismatch: %s", got[0].Amount)
	}

	// Group sums equal the total spent.
	total := decimal.Zero
	for _, c := range got {
		total = total.Add(c.Amount)
	}
	want := decimal.Zero
	for _, e := range expenses {
		want = want.Add(e.Amount)
	}
	if !total.Equal(want) {
		t.Fatalf("aggregation total %s != spent total %s", total, want)
	}
}

func TestByCategoryEmpty(t *testing.T) {
	if got := ByCategory(nil); len(got) != 0 {
		t.Fatalf("expected no groups, got %+v", got)
	}
}

func TestMarkdown(t *testing.T) {
	ledger := core.NewLedger()
	ledger.MonthlyBudget = decimal.NewFromInt(100)
	ledger.Expenses = append(ledger.Expenses,
		expense("Food", "60"),
		expense("Transport", "50"),
	)

	doc := Markdown("alice", ledger)

	for _, want := range []string{
		"Expense Report - alice",
		"Monthly Budget", "100.00",
		"Total Spent", "110.00",
		"Remaining", "-10.00",
		"Budget exceeded!",
		"Expenses by Category",
		"Food", "Transport",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("report missing %q:\n%s", want, doc)
		}
	}
}

func TestMarkdownEmptyLedger(t *testing.T) {
	doc := Markdown("bob", core.NewLedger())
	if !strings.Contains(doc, "No expenses recorded.") {
		t.Fatalf("empty ledger report missing placeholder:\n%s", doc)
	}
	if strings.Contains(doc, "Budget exceeded!") {
		t.Fatal("empty ledger cannot be over budget")
	}
}
