// Package services holds the ledger business logic. A Service is stateless;
// the active user's ledger lives in an explicit Session passed to every
// call, so tests and multiple logins never share globals.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"spendlog/internal/auth"
	"spendlog/internal/core"
	"spendlog/internal/csvio"
	"spendlog/internal/storage"
)

// Session is one logged-in user's state: the username and the in-memory
// ledger all operations act on. Mutations persist through the store before
// they become visible in the session.
type Session struct {
	Username string
	Ledger   core.Ledger
}

// Service orchestrates credential checks, ledger mutations and persistence.
type Service struct {
	registry *auth.Registry
	store    storage.LedgerStore
}

func NewService(registry *auth.Registry, store storage.LedgerStore) *Service {
	return &Service{registry: registry, store: store}
}

// AddResult is what a successful add reports back: the created expense and
// whether total spend now exceeds the budget (meaningful only when a budget
// is set).
type AddResult struct {
	Expense    core.Expense
	OverBudget bool
}

// Register creates the account and initializes its empty ledger.
func (s *Service) Register(ctx context.Context, username, password string) error {
	if err := s.registry.Register(username, password); err != nil {
		return err
	}
	if err := s.store.Save(ctx, username, core.NewLedger()); err != nil {
		return fmt.Errorf("initialize ledger: %w", err)
	}
	slog.InfoContext(ctx, "Account registered", "user", username)
	return nil
}

// Login verifies the credentials and loads the user's ledger into a fresh
// session.
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	if err := s.registry.Authenticate(username, password); err != nil {
		return nil, err
	}
	sess := &Session{
		Username: username,
		Ledger:   s.store.Load(ctx, username),
	}
	slog.InfoContext(ctx, "Login", "user", username, "expenses", len(sess.Ledger.Expenses))
	return sess, nil
}

// Logout persists the session's ledger one last time.
func (s *Service) Logout(ctx context.Context, sess *Session) error {
	if err := s.store.Save(ctx, sess.Username, sess.Ledger); err != nil {
		return fmt.Errorf("save on logout: %w", err)
	}
	slog.InfoContext(ctx, "Logout", "user", sess.Username)
	return nil
}

// Add validates the amount, appends a new expense with a fresh id and the
// current timestamp, and persists. The session is untouched if the save
// fails.
func (s *Service) Add(ctx context.Context, sess *Session, category, amount, note string) (AddResult, error) {
	value, err := core.ParseAmount(amount)
	if err != nil {
		return AddResult{}, err
	}

	expense := core.Expense{
		ID:       uuid.NewString(),
		Date:     core.Now(),
		Category: core.NormalizeCategory(category),
		Amount:   value,
		Note:     strings.TrimSpace(note),
	}

	sess.Ledger.Expenses = append(sess.Ledger.Expenses, expense)
	if err := s.store.Save(ctx, sess.Username, sess.Ledger); err != nil {
		sess.Ledger.Expenses = sess.Ledger.Expenses[:len(sess.Ledger.Expenses)-1]
		return AddResult{}, fmt.Errorf("save expense: %w", err)
	}

	summary := sess.Ledger.Summarize()
	slog.InfoContext(ctx, "Expense added",
		"user", sess.Username,
		"id", expense.ID,
		"category", expense.Category,
		"amount", expense.Amount.String(),
		"over_budget", summary.OverBudget)

	return AddResult{Expense: expense, OverBudget: summary.OverBudget}, nil
}

// Edit mutates category, amount and note of an existing expense in place.
// The id and original date never change.
func (s *Service) Edit(ctx context.Context, sess *Session, id, category, amount, note string) (core.Expense, error) {
	value, err := core.ParseAmount(amount)
	if err != nil {
		return core.Expense{}, err
	}

	expense := sess.Ledger.Find(id)
	if expense == nil {
		return core.Expense{}, core.ErrNotFound
	}

	prev := *expense
	expense.Category = core.NormalizeCategory(category)
	expense.Amount = value
	expense.Note = strings.TrimSpace(note)

	if err := s.store.Save(ctx, sess.Username, sess.Ledger); err != nil {
		*expense = prev
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense updated", "user", sess.Username, "id", id)
	return *expense, nil
}

// Delete removes exactly the expense with the given id.
func (s *Service) Delete(ctx context.Context, sess *Session, id string) error {
	expenses := sess.Ledger.Expenses
	at := -1
	for i := range expenses {
		if expenses[i].ID == id {
			at = i
			break
		}
	}
	if at < 0 {
		return core.ErrNotFound
	}

	prev := expenses
	sess.Ledger.Expenses = append(append([]core.Expense{}, expenses[:at]...), expenses[at+1:]...)
	if err := s.store.Save(ctx, sess.Username, sess.Ledger); err != nil {
		sess.Ledger.Expenses = prev
		return fmt.Errorf("save ledger: %w", err)
	}

	slog.InfoContext(ctx, "Expense deleted", "user", sess.Username, "id", id)
	return nil
}

// DeleteAll clears the whole expense collection. Irreversible.
func (s *Service) DeleteAll(ctx context.Context, sess *Session) error {
	prev := sess.Ledger.Expenses
	sess.Ledger.Expenses = []core.Expense{}
	if err := s.store.Save(ctx, sess.Username, sess.Ledger); err != nil {
		sess.Ledger.Expenses = prev
		return fmt.Errorf("save ledger: %w", err)
	}
	slog.InfoContext(ctx, "All expenses deleted", "user", sess.Username, "count", len(prev))
	return nil
}

// SetBudget parses and stores the monthly budget. Zero unsets it.
func (s *Service) SetBudget(ctx context.Context, sess *Session, amount string) error {
	value, err := core.ParseAmount(amount)
	if err != nil {
		return err
	}

	prev := sess.Ledger.MonthlyBudget
	sess.Ledger.MonthlyBudget = value
	if err := s.store.Save(ctx, sess.Username, sess.Ledger); err != nil {
		sess.Ledger.MonthlyBudget = prev
		return fmt.Errorf("save budget: %w", err)
	}

	slog.InfoContext(ctx, "Budget updated", "user", sess.Username, "budget", value.String())
	return nil
}

// SetAvatar stores the profile avatar reference. An empty path clears it.
func (s *Service) SetAvatar(ctx context.Context, sess *Session, path string) error {
	prev := sess.Ledger.Profile.Avatar
	if path == "" {
		sess.Ledger.Profile.Avatar = nil
	} else {
		sess.Ledger.Profile.Avatar = &path
	}
	if err := s.store.Save(ctx, sess.Username, sess.Ledger); err != nil {
		sess.Ledger.Profile.Avatar = prev
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// Summary computes the budget accounting for the session's ledger.
func (s *Service) Summary(sess *Session) core.Summary {
	return sess.Ledger.Summarize()
}

// Filter returns the expenses sorted by date descending. A non-empty query
// keeps only expenses whose category, note or date contains it
// case-insensitively. The view is recomputed on every call.
func (s *Service) Filter(sess *Session, query string) []core.Expense {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]core.Expense, 0, len(sess.Ledger.Expenses))
	for _, e := range sess.Ledger.Expenses {
		if query != "" &&
			!strings.Contains(strings.ToLower(e.Category), query) &&
			!strings.Contains(strings.ToLower(e.Note), query) &&
			!strings.Contains(strings.ToLower(e.Date), query) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}

// Import appends every well-formed CSV row to the ledger and persists the
// whole batch with a single save. Rows with bad amounts are skipped and
// counted, never fatal.
func (s *Service) Import(ctx context.Context, sess *Session, r io.Reader) (csvio.ImportResult, error) {
	result, err := csvio.Import(r)
	if err != nil {
		return csvio.ImportResult{}, err
	}
	if len(result.Added) == 0 {
		return result, nil
	}

	prevLen := len(sess.Ledger.Expenses)
	sess.Ledger.Expenses = append(sess.Ledger.Expenses, result.Added...)
	if err := s.store.Save(ctx, sess.Username, sess.Ledger); err != nil {
		sess.Ledger.Expenses = sess.Ledger.Expenses[:prevLen]
		return csvio.ImportResult{}, fmt.Errorf("save imported expenses: %w", err)
	}

	slog.InfoContext(ctx, "CSV imported",
		"user", sess.Username,
		"added", len(result.Added),
		"skipped", result.Skipped)
	return result, nil
}

// Export writes the session's expenses as CSV in iteration order.
func (s *Service) Export(sess *Session, w io.Writer) error {
	return csvio.Export(w, sess.Ledger.Expenses)
}
