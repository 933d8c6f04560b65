package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Suggested expense categories. The category field stays free-form; these
// are the values the presentation layer offers by default.
const (
	CategoryFood      = "Food"
	CategoryTransport = "Transport"
	CategoryShopping  = "Shopping"
	CategoryBills     = "Bills"
	CategoryOthers    = "Others"
)

// DateLayout is the timestamp format for expense dates, both on screen and
// in persisted ledgers.
const DateLayout = "2006-01-02 15:04:05"

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrNotFound           = errors.New("expense not found")
	ErrUserExists         = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidUsername    = errors.New("invalid username")
)

type (
	// Expense is one dated, categorized entry in a ledger. ID and Date are
	// assigned on creation and never change afterwards.
	Expense struct {
		ID       string          `json:"id"`
		Date     string          `json:"date"`
		Category string          `json:"category"`
		Amount   decimal.Decimal `json:"amount"`
		Note     string          `json:"note"`
	}

	// Profile holds per-user metadata next to the expense collection.
	Profile struct {
		Avatar *string `json:"avatar"`
	}

	// Ledger is a user's full record: expenses, monthly budget and profile.
	// A zero MonthlyBudget means the budget is unset.
	Ledger struct {
		Expenses      []Expense       `json:"expenses"`
		MonthlyBudget decimal.Decimal `json:"monthly_budget"`
		Profile       Profile         `json:"profile"`
	}

	// Summary is the budget accounting view of a ledger.
	Summary struct {
		Budget     decimal.Decimal
		TotalSpent decimal.Decimal
		Remaining  decimal.Decimal
		OverBudget bool
	}

	// CategoryAmount is an amount aggregated under one category label.
	CategoryAmount struct {
		Name   string
		Amount decimal.Decimal
	}
)

func init() {
	// Ledger files store amounts as bare JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// NewLedger returns the default ledger every username resolves to before
// anything is persisted: no expenses, unset budget, no avatar.
func NewLedger() Ledger {
	return Ledger{Expenses: []Expense{}}
}

// Normalize fills in defaults for fields a decoded ledger may be missing,
// so an absent or partial record and an empty one are indistinguishable.
func (l *Ledger) Normalize() {
	if l.Expenses == nil {
		l.Expenses = []Expense{}
	}
}

// TotalSpent sums all expense amounts in the ledger.
func (l Ledger) TotalSpent() decimal.Decimal {
	total := decimal.Zero
	for _, e := range l.Expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// Summarize computes the budget accounting for the ledger. Remaining is
// budget minus total spent while a budget is set (it may go negative), and
// zero when the budget is unset.
func (l Ledger) Summarize() Summary {
	s := Summary{
		Budget:     l.MonthlyBudget,
		TotalSpent: l.TotalSpent(),
	}
	if l.MonthlyBudget.IsPositive() {
		s.Remaining = l.MonthlyBudget.Sub(s.TotalSpent)
		s.OverBudget = s.TotalSpent.GreaterThan(l.MonthlyBudget)
	}
	return s
}

// Find returns a pointer to the expense with the given id, or nil.
func (l *Ledger) Find(id string) *Expense {
	for i := range l.Expenses {
		if l.Expenses[i].ID == id {
			return &l.Expenses[i]
		}
	}
	return nil
}

// NormalizeCategory maps a blank category to the Others bucket.
func NormalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return CategoryOthers
	}
	return category
}

// Now formats the current time in the ledger date layout.
func Now() string {
	return time.Now().Format(DateLayout)
}
