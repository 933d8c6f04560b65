package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"

	"spendlog/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists ledgers in a SQLite database: one row per ledger plus
// its expense rows, replaced wholesale on every save to keep the same
// last-save-wins semantics as the file backend.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load implements LedgerStore. Query failures degrade to the default empty
// ledger, matching the file backend's read contract.
func (s *SQLiteStore) Load(ctx context.Context, username string) core.Ledger {
	ledger := core.NewLedger()

	var budget string
	var avatar sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT monthly_budget, avatar FROM ledgers WHERE username = ?`,
		username).Scan(&budget, &avatar)
	switch {
	case err == sql.ErrNoRows:
		return ledger
	case err != nil:
		slog.WarnContext(ctx, "Ledger row unreadable, using empty ledger",
			"user", username, "error", err)
		return ledger
	}

	if b, err := decimal.NewFromString(budget); err == nil {
		ledger.MonthlyBudget = b
	}
	if avatar.Valid {
		ledger.Profile.Avatar = &avatar.String
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, category, amount, note FROM expenses
		 WHERE username = ? ORDER BY position`,
		username)
	if err != nil {
		slog.WarnContext(ctx, "Expense rows unreadable, using empty ledger",
			"user", username, "error", err)
		return core.NewLedger()
	}
	defer rows.Close()

	for rows.Next() {
		var e core.Expense
		var amount string
		if err := rows.Scan(&e.ID, &e.Date, &e.Category, &amount, &e.Note); err != nil {
			slog.WarnContext(ctx, "Skipping unreadable expense row",
				"user", username, "error", err)
			continue
		}
		if d, err := decimal.NewFromString(amount); err == nil {
			e.Amount = d
		}
		ledger.Expenses = append(ledger.Expenses, e)
	}
	if err := rows.Err(); err != nil {
		slog.WarnContext(ctx, "Expense row iteration failed",
			"user", username, "error", err)
	}
	return ledger
}

// Save implements LedgerStore. The ledger row and all expense rows for the
// username are replaced in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, username string, ledger core.Ledger) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	var avatar any
	if ledger.Profile.Avatar != nil {
		avatar = *ledger.Profile.Avatar
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO ledgers (username, monthly_budget, avatar) VALUES (?, ?, ?)
		 ON CONFLICT(username) DO UPDATE SET monthly_budget = excluded.monthly_budget, avatar = excluded.avatar`,
		username, ledger.MonthlyBudget.String(), avatar); err != nil {
		return fmt.Errorf("upsert ledger: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM expenses WHERE username = ?`, username); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}

	for i, e := range ledger.Expenses {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO expenses (username, id, date, category, amount, note, position)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			username, e.ID, e.Date, e.Category, e.Amount.String(), e.Note, i); err != nil {
			return fmt.Errorf("insert expense %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}

	slog.DebugContext(ctx, "Ledger saved",
		"user", username, "expenses", len(ledger.Expenses))
	return nil
}

var _ LedgerStore = (*SQLiteStore)(nil)
