// Package ledger implements per-user transaction CRUD and monthly summaries.
package ledger

import (
	"context"

	"finance_tracker/internal/domain"
)

// TransactionStore is the transaction ledger the service reads and writes.
type TransactionStore interface {
	Create(ctx context.Context, t *domain.Transaction) error
	Update(ctx context.Context, t *domain.Transaction) error
	ByID(ctx context.Context, userID, id uint) (*domain.Transaction, error)
	ListByUser(ctx context.Context, userID uint) ([]domain.Transaction, error)
	InRange(ctx context.Context, userID uint, from, to domain.Date) ([]domain.Transaction, error)
	Delete(ctx context.Context, userID, id uint) error
}

// LocationLookup resolves location names for response assembly.
type LocationLookup interface {
	ByNames(ctx context.Context, names []string) (map[string]domain.Location, error)
}

// Defaults fill optional transaction fields the caller leaves out.
type Defaults struct {
	CurrencyCode string
	CurrencyRate float64
	TimeZone     string
}

// Input carries the caller supplied fields of a create or update. Pointer
// fields distinguish "absent" from zero.
type Input struct {
	Type         string
	Amount       *float64
	Category     string
	Note         string
	Date         string
	CurrencyCode string
	CurrencyRate *float64
	TimeZone     string
	Location     string // Location name, empty for none
}

// Entry is a transaction expanded with the location it references.
type Entry struct {
	domain.Transaction
	Location *domain.Location `json:"location"`
}

// Summary holds the totals of one calendar month.
type Summary struct {
	Month        int     `json:"month"`
	Year         int     `json:"year"`
	IncomeTotal  float64 `json:"income_total"`
	ExpenseTotal float64 `json:"expense_total"`
	Balance      float64 `json:"balance"`
}
