// Package domain contains the invoice entity and its store contract.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	jobdomain "github.com/cabinworks/cabinbooks/internal/job/domain"
)

// InvoiceStatus represents invoice lifecycle states. There is no
// automatic transition past the due date; overdue is a manual change.
type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	default:
		return false
	}
}

// Invoice bundles job snapshots for one client. Jobs are embedded by
// value: the invoice is a historical record that only changes through
// status updates and the job edit/delete cascade. Total always equals
// the rounded sum of the embedded jobs' totals.
type Invoice struct {
	ID            snowflake.ID    `json:"id"`
	Number        string          `json:"number"`
	Date          time.Time       `json:"date"`
	DueDate       time.Time       `json:"dueDate"`
	ClientName    string          `json:"clientName"`
	ClientAddress string          `json:"clientAddress"`
	ClientCity    string          `json:"clientCity"`
	ClientState   string          `json:"clientState"`
	ClientZip     string          `json:"clientZip"`
	Jobs          []jobdomain.Job `json:"jobs"`
	Status        InvoiceStatus   `json:"status"`
	Total         float64         `json:"total"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// CreateInvoiceRequest selects existing jobs by id; the store copies
// them by value into the new invoice.
type CreateInvoiceRequest struct {
	Date          time.Time      `json:"date"`
	DueDate       time.Time      `json:"dueDate"`
	ClientName    string         `json:"clientName"`
	ClientAddress string         `json:"clientAddress"`
	ClientCity    string         `json:"clientCity"`
	ClientState   string         `json:"clientState"`
	ClientZip     string         `json:"clientZip"`
	JobIDs        []snowflake.ID `json:"jobIds"`
}

var (
	ErrNotFound           = errors.New("invoice_not_found")
	ErrJobNotFound        = errors.New("invoice_job_not_found")
	ErrClientNameRequired = errors.New("invoice_client_name_required")
	ErrDateRequired       = errors.New("invoice_date_required")
	ErrNoJobs             = errors.New("invoice_no_jobs")
	ErrInvalidStatus      = errors.New("invoice_status_invalid")
)

type Service interface {
	// NextNumber previews the number the next created invoice receives.
	NextNumber(ctx context.Context) (string, error)
	Add(ctx context.Context, req CreateInvoiceRequest) (Invoice, error)
	UpdateStatus(ctx context.Context, id snowflake.ID, status InvoiceStatus) (Invoice, error)
	Delete(ctx context.Context, id snowflake.ID) error
	Get(ctx context.Context, id snowflake.ID) (Invoice, error)
	List(ctx context.Context) ([]Invoice, error)
}
