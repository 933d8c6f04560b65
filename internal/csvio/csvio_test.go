package csvio

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"spendlog/internal/core"
)

func TestExport(t *testing.T) {
	expenses := []core.Expense{
		{ID: "1", Date: "2025-01-02 10:00:00", Category: "Food", Amount: decimal.RequireFromString("12.5"), Note: "lunch"},
		{ID: "2", Date: "2025-01-03 09:00:00", Category: "Bills", Amount: decimal.NewFromInt(40), Note: "with, comma"},
	}

	var buf bytes.Buffer
	if err := Export(&buf, expenses); err != nil {
		t.Fatal(err)
	}

	want := "id,date,category,amount,note\n" +
		"1,2025-01-02 10:00:00,Food,12.5,lunch\n" +
		"2,2025-01-03 09:00:00,Bills,40,\"with, comma\"\n"
	if buf.String() != want {
		t.Fatalf("unexpected export:\n got %q\nwant %q", buf.String(), want)
	}
}

func TestImportDefaults(t *testing.T) {
	in := "Date,Category,Amount,Note\n" +
		",,12.5,\n"
	result, err := Import(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Added) != 1 || result.Skipped != 0 {
		t.Fatalf("expected 1 added, got %+v", result)
	}
	e := result.Added[0]
	if e.ID == "" {
		t.Fatal("missing id must be synthesized")
	}
	if e.Date == "" {
		t.Fatal("missing date must default to now")
	}
	if e.Category != core.CategoryOthers {
		t.Fatalf("missing category must default to Others, got %q", e.Category)
	}
	if e.Note != "" {
		t.Fatalf("missing note must stay empty, got %q", e.Note)
	}
	if !e.Amount.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("amount mismatch: %s", e.Amount)
	}
}

func TestImportSkipsBadAmounts(t *testing.T) {
	in := "id,date,category,amount,note\n" +
		"1,2025-01-02 10:00:00,Food,abc,bad\n" +
		"2,2025-01-02 11:00:00,Food,,missing\n" +
		"3,2025-01-02 12:00:00,Food,7,good\n"
	result, err := Import(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if result.Skipped != 2 {
		t.Fatalf("expected 2 skipped, got %d", result.Skipped)
	}
	if len(result.Added) != 1 || result.Added[0].ID != "3" {
		t.Fatalf("expected only row 3, got %+v", result.Added)
	}
}

func TestImportHeaderCaseInsensitive(t *testing.T) {
	in := "ID,DATE,CATEGORY,AMOUNT,NOTE\n" +
		"x,2025-01-02 10:00:00,Transport,3.20,bus\n"
	result, err := Import(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Added) != 1 {
		t.Fatalf("expected 1 added, got %+v", result)
	}
	if result.Added[0].ID != "x" || result.Added[0].Category != "Transport" {
		t.Fatalf("unexpected row: %+v", result.Added[0])
	}
}

func TestImportWithoutAmountColumn(t *testing.T) {
	if _, err := Import(strings.NewReader("id,date\n1,2\n")); err == nil {
		t.Fatal("expected error for csv without amount column")
	}
}

func TestImportEmptyInput(t *testing.T) {
	result, err := Import(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Added) != 0 || result.Skipped != 0 {
		t.Fatalf("empty input should import nothing, got %+v", result)
	}
}

func TestRoundTrip(t *testing.T) {
	expenses := []core.Expense{
		{ID: "1", Date: "2025-01-02 10:00:00", Category: "Food", Amount: decimal.RequireFromString("60"), Note: "lunch"},
		{ID: "2", Date: "2025-01-03 09:00:00", Category: "Transport", Amount: decimal.RequireFromString("50"), Note: ""},
	}

	var buf bytes.Buffer
	if err := Export(&buf, expenses); err != nil {
		t.Fatal(err)
	}
	result, err := Import(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Added) != len(expenses) || result.Skipped != 0 {
		t.Fatalf("round-trip lost rows: %+v", result)
	}
	for i, got := range result.Added {
		want := expenses[i]
		if got.Date != want.Date || got.Category != want.Category ||
			!got.Amount.Equal(want.Amount) || got.Note != want.Note {
			t.Fatalf("row %d mismatch: got %+v want %+v", i, got, want)
		}
	}
}
