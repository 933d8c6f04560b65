package core

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func amt(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestSummarize(t *testing.T) {
	cases := []struct {
		name      string
		budget    string
		amounts   []string
		total     string
		remaining string
		over      bool
	}{
		{"empty ledger no budget", "0", nil, "0", "0", false},
		{"under budget", "100", []string{"60"}, "60", "40", false},
		{"over budget goes negative", "100", []string{"60", "50"}, "110", "-10", true},
		{"exactly at budget", "100", []string{"100"}, "100", "0", false},
		{"no budget never over", "0", []string{"999"}, "999", "0", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := NewLedger()
			l.MonthlyBudget = amt(tc.budget)
			for _, a := range tc.amounts {
				l.Expenses = append(l.Expenses, Expense{Amount: amt(a)})
			}
			s := l.Summarize()
			if !s.TotalSpent.Equal(amt(tc.total)) {
				t.Fatalf("total: expected %s, got %s", tc.total, s.TotalSpent)
			}
			if !s.Remaining.Equal(amt(tc.remaining)) {
				t.Fatalf("remaining: expected %s, got %s", tc.remaining, s.Remaining)
			}
			if s.OverBudget != tc.over {
				t.Fatalf("over: expected %v, got %v", tc.over, s.OverBudget)
			}
		})
	}
}

func TestLedgerFind(t *testing.T) {
	l := NewLedger()
	l.Expenses = append(l.Expenses, Expense{ID: "a"}, Expense{ID: "b"})
	if e := l.Find("b"); e == nil || e.ID != "b" {
		t.Fatalf("expected to find b, got %+v", e)
	}
	if e := l.Find("missing"); e != nil {
		t.Fatalf("expected nil for missing id, got %+v", e)
	}
}

func TestNormalizeCategory(t *testing.T) {
	if got := NormalizeCategory("  "); got != CategoryOthers {
		t.Fatalf("blank category should map to %s, got %q", CategoryOthers, got)
	}
	if got := NormalizeCategory("Groceries"); got != "Groceries" {
		t.Fatalf("expected Groceries, got %q", got)
	}
}

func TestLedgerJSONShape(t *testing.T) {
	l := NewLedger()
	l.MonthlyBudget = amt("100")
	l.Expenses = append(l.Expenses, Expense{
		ID: "1", Date: "2025-01-02 10:00:00", Category: CategoryFood, Amount: amt("12.5"), Note: "lunch",
	})

	data, err := json.Marshal(l)
	if err != nil {
		t.Fatal(err)
	}
	// Amounts must serialize as bare numbers, not quoted strings.
	want := `{"expenses":[{"id":"1","date":"2025-01-02 10:00:00","category":"Food","amount":12.5,"note":"lunch"}],"monthly_budget":100,"profile":{"avatar":null}}`
	if string(data) != want {
		t.Fatalf("unexpected JSON:\n got %s\nwant %s", data, want)
	}

	var back Ledger
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if !back.MonthlyBudget.Equal(l.MonthlyBudget) || len(back.Expenses) != 1 {
		t.Fatalf("round-trip mismatch: %+v", back)
	}
}
