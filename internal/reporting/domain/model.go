// Package domain holds the derived reporting shapes. Nothing here is
// stored; every report is recomputed from the full dataset on request.
package domain

import (
	"context"
	"errors"
	"time"
)

// Summary aggregates jobs and expenses for one date range. Income is
// job revenue; Profit is income minus expenses.
type Summary struct {
	JobCount  int     `json:"jobCount"`
	Revenue   float64 `json:"revenue"`
	UnitCount float64 `json:"unitCount"`
	Income    float64 `json:"income"`
	Expenses  float64 `json:"expenses"`
	Profit    float64 `json:"profit"`
}

// StatusCounts counts invoices by their status field. Counts are not
// re-derived from due dates.
type StatusCounts struct {
	Paid    int `json:"paid"`
	Pending int `json:"pending"`
	Overdue int `json:"overdue"`
}

// ProfitPoint is one month on the profit chart.
type ProfitPoint struct {
	Month    time.Month `json:"month"`
	Year     int        `json:"year"`
	Income   float64    `json:"income"`
	Expenses float64    `json:"expenses"`
	Profit   float64    `json:"profit"`
}

var (
	ErrInvalidMonth = errors.New("report_month_invalid")
	ErrInvalidRange = errors.New("report_range_invalid")
)

type Service interface {
	MonthlySummary(ctx context.Context, month time.Month, year int) (Summary, error)
	TodaySummary(ctx context.Context) (Summary, error)
	InvoiceStatusCounts(ctx context.Context) (StatusCounts, error)
	// ProfitSeries returns the trailing months ending at the current
	// month, oldest first.
	ProfitSeries(ctx context.Context, months int) ([]ProfitPoint, error)
}
