// Package csvio converts between a ledger's expense collection and its
// tabular CSV form. Export is lossless; import is forgiving, defaulting
// missing fields and skipping rows whose amount does not parse.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"spendlog/internal/core"
)

// Header is the canonical export header. On import only the amount column
// is required; id is optional and headers match case-insensitively.
var Header = []string{"id", "date", "category", "amount", "note"}

// ImportResult reports what an import did.
type ImportResult struct {
	Added   []core.Expense
	Skipped int
}

// Export writes one row per expense, in the given iteration order.
func Export(w io.Writer, expenses []core.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range expenses {
		row := []string{e.ID, e.Date, e.Category, e.Amount.String(), e.Note}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// Import reads expense rows from r. A row with a missing or unparseable
// amount is counted and skipped, never fatal. Missing ids are synthesized,
// a missing date becomes the current timestamp, a missing category falls
// back to Others and a missing note stays empty. The caller appends the
// result to a ledger and persists it as one batch.
func Import(r io.Reader) (ImportResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // tolerate ragged rows
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return ImportResult{}, nil
	}
	if err != nil {
		return ImportResult{}, fmt.Errorf("read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := cols["amount"]; !ok {
		return ImportResult{}, fmt.Errorf("csv is missing an amount column")
	}

	var result ImportResult
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return result, fmt.Errorf("read csv row: %w", err)
		}

		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		amount, err := core.ParseAmount(field("amount"))
		if err != nil {
			result.Skipped++
			continue
		}

		e := core.Expense{
			ID:       field("id"),
			Date:     field("date"),
			Category: core.NormalizeCategory(field("category")),
			Amount:   amount,
			Note:     field("note"),
		}
		if e.ID == "" {
			e.ID = uuid.NewString()
		}
		if e.Date == "" {
			e.Date = core.Now()
		}
		result.Added = append(result.Added, e)
	}
	return result, nil
}
