package service

import (
	"context"
	"time"

	"github.com/cabinworks/cabinbooks/internal/clock"
	expensedomain "github.com/cabinworks/cabinbooks/internal/expense/domain"
	invoicedomain "github.com/cabinworks/cabinbooks/internal/invoice/domain"
	jobdomain "github.com/cabinworks/cabinbooks/internal/job/domain"
	reportingdomain "github.com/cabinworks/cabinbooks/internal/reporting/domain"
	"github.com/cabinworks/cabinbooks/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log      *zap.Logger
	Clock    clock.Clock
	Jobs     jobdomain.Service
	Invoices invoicedomain.Service
	Expenses expensedomain.Service
}

type Service struct {
	log      *zap.Logger
	clk      clock.Clock
	jobs     jobdomain.Service
	invoices invoicedomain.Service
	expenses expensedomain.Service
}

func NewService(p ServiceParam) reportingdomain.Service {
	return &Service{
		log:      p.Log.Named("reporting.service"),
		clk:      p.Clock,
		jobs:     p.Jobs,
		invoices: p.Invoices,
		expenses: p.Expenses,
	}
}

func (s *Service) MonthlySummary(ctx context.Context, month time.Month, year int) (reportingdomain.Summary, error) {
	if month < time.January || month > time.December {
		return reportingdomain.Summary{}, reportingdomain.ErrInvalidMonth
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return s.summarize(ctx, start, start.AddDate(0, 1, 0))
}

func (s *Service) TodaySummary(ctx context.Context) (reportingdomain.Summary, error) {
	now := s.clk.Now(ctx)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return s.summarize(ctx, start, start.AddDate(0, 0, 1))
}

// summarize walks the full dataset for the half-open range
// [start, end). Volumes are a single operator's books; no caching.
func (s *Service) summarize(ctx context.Context, start, end time.Time) (reportingdomain.Summary, error) {
	jobs, err := s.jobs.List(ctx)
	if err != nil {
		return reportingdomain.Summary{}, err
	}
	expenses, err := s.expenses.List(ctx)
	if err != nil {
		return reportingdomain.Summary{}, err
	}

	var out reportingdomain.Summary
	for _, j := range jobs {
		if j.Date.Before(start) || !j.Date.Before(end) {
			continue
		}
		out.JobCount++
		out.Revenue += j.Total
		switch j.Kind {
		case jobdomain.JobKindRated:
			out.UnitCount += j.Quantity
		case jobdomain.JobKindHourly:
			out.UnitCount += j.HoursWorked
		}
	}
	for _, e := range expenses {
		if e.Date.Before(start) || !e.Date.Before(end) {
			continue
		}
		out.Expenses += e.Amount
	}

	out.Revenue = money.Round2(out.Revenue)
	out.Income = out.Revenue
	out.Expenses = money.Round2(out.Expenses)
	out.Profit = money.Round2(out.Income - out.Expenses)
	return out, nil
}

func (s *Service) InvoiceStatusCounts(ctx context.Context) (reportingdomain.StatusCounts, error) {
	invoices, err := s.invoices.List(ctx)
	if err != nil {
		return reportingdomain.StatusCounts{}, err
	}

	var counts reportingdomain.StatusCounts
	for _, inv := range invoices {
		switch inv.Status {
		case invoicedomain.InvoiceStatusPaid:
			counts.Paid++
		case invoicedomain.InvoiceStatusPending:
			counts.Pending++
		case invoicedomain.InvoiceStatusOverdue:
			counts.Overdue++
		}
	}
	return counts, nil
}

func (s *Service) ProfitSeries(ctx context.Context, months int) ([]reportingdomain.ProfitPoint, error) {
	if months <= 0 || months > 60 {
		return nil, reportingdomain.ErrInvalidRange
	}

	now := s.clk.Now(ctx)
	// Anchor at the first of the month so the subtraction never skips a
	// short month.
	base := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	points := make([]reportingdomain.ProfitPoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		at := base.AddDate(0, -i, 0)
		summary, err := s.MonthlySummary(ctx, at.Month(), at.Year())
		if err != nil {
			return nil, err
		}
		points = append(points, reportingdomain.ProfitPoint{
			Month:    at.Month(),
			Year:     at.Year(),
			Income:   summary.Income,
			Expenses: summary.Expenses,
			Profit:   summary.Profit,
		})
	}
	return points, nil
}
