// Package domain holds the expense entity.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Categories is the fixed set of expense categories.
var Categories = []string{
	"Supplies",
	"Transportation",
	"Equipment",
	"Insurance",
	"Marketing",
	"Utilities",
	"Office",
	"Other",
}

// Expense is an independent cost record; it has no relation to jobs or
// invoices.
type Expense struct {
	ID          snowflake.ID `json:"id"`
	Date        time.Time    `json:"date"`
	Category    string       `json:"category"`
	Amount      float64      `json:"amount"`
	Description string       `json:"description,omitempty"`
	Receipt     string       `json:"receipt,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

var (
	ErrNotFound        = errors.New("expense_not_found")
	ErrDateRequired    = errors.New("expense_date_required")
	ErrInvalidCategory = errors.New("expense_category_invalid")
	ErrInvalidAmount   = errors.New("expense_amount_invalid")
)

func (e Expense) Validate() error {
	if e.Date.IsZero() {
		return ErrDateRequired
	}
	if !ValidCategory(e.Category) {
		return ErrInvalidCategory
	}
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

type Service interface {
	Add(ctx context.Context, draft Expense) (Expense, error)
	Update(ctx context.Context, expense Expense) (Expense, error)
	Delete(ctx context.Context, id snowflake.ID) error
	Get(ctx context.Context, id snowflake.ID) (Expense, error)
	List(ctx context.Context) ([]Expense, error)
}
