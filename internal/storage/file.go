package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"spendlog/internal/core"
)

// FileStore keeps one <username>.json per user inside a data directory.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) ledgerPath(username string) string {
	return filepath.Join(s.dir, username+".json")
}

// Load implements LedgerStore. A missing file is the normal state for a
// fresh account; a corrupt one is logged and treated the same way.
func (s *FileStore) Load(ctx context.Context, username string) core.Ledger {
	data, err := os.ReadFile(s.ledgerPath(username))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.WarnContext(ctx, "Ledger file unreadable, using empty ledger",
				"user", username, "error", err)
		}
		return core.NewLedger()
	}

	var ledger core.Ledger
	if err := json.Unmarshal(data, &ledger); err != nil {
		slog.WarnContext(ctx, "Ledger file corrupt, using empty ledger",
			"user", username, "error", err)
		return core.NewLedger()
	}
	ledger.Normalize()
	return ledger
}

// Save implements LedgerStore. The ledger is written to a temporary file in
// the same directory and renamed over the previous version, so a crash
// mid-write leaves the old record intact.
func (s *FileStore) Save(ctx context.Context, username string, ledger core.Ledger) error {
	data, err := json.MarshalIndent(ledger, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, username+"-*.json.tmp")
	if err != nil {
		return fmt.Errorf("create temp ledger file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close ledger file: %w", err)
	}
	if err := os.Rename(tmpName, s.ledgerPath(username)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace ledger file: %w", err)
	}

	slog.DebugContext(ctx, "Ledger saved",
		"user", username, "expenses", len(ledger.Expenses))
	return nil
}

func (s *FileStore) Close() error { return nil }

var _ LedgerStore = (*FileStore)(nil)
