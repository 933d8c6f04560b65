// Package storage persists one ledger per username. Two backends implement
// the same contract: a JSON file per user (the default) and a SQLite
// database. Either way a save is a whole-record overwrite, and a username
// with no persisted record loads as the default empty ledger.
package storage

import (
	"context"

	"spendlog/internal/core"
)

// LedgerStore loads and saves whole ledgers keyed by username.
type LedgerStore interface {
	// Load returns the persisted ledger for the username. A missing or
	// unreadable record degrades to the default empty ledger; read problems
	// are logged, never surfaced to the caller.
	Load(ctx context.Context, username string) core.Ledger

	// Save overwrites the persisted ledger for the username. A failed save
	// means unsaved work and is always surfaced.
	Save(ctx context.Context, username string, ledger core.Ledger) error

	Close() error
}
