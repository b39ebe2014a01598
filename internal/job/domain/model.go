// Package domain holds the job entity: one billable unit of work.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// JobKind discriminates the two job shapes. Exactly one field set is
// populated per job; the kind is explicit, never inferred from which
// fields happen to be present.
type JobKind string

const (
	// JobKindRated prices by rate-table lookup and unit count.
	JobKindRated JobKind = "rated"
	// JobKindHourly prices by hourly rate and worked duration.
	JobKindHourly JobKind = "hourly"
)

// Job is one billable unit of work. Total is a derived snapshot,
// persisted at write time and never recomputed on read. CreatedAt is
// immutable once set; Date is the service date and may differ.
type Job struct {
	ID        snowflake.ID `json:"id"`
	Kind      JobKind      `json:"kind"`
	Date      time.Time    `json:"date"`
	Notes     string       `json:"notes,omitempty"`
	Total     float64      `json:"total"`
	CreatedAt time.Time    `json:"createdAt"`

	// Rated jobs.
	ServiceRef string  `json:"serviceRef,omitempty"`
	Quantity   float64 `json:"quantity,omitempty"`

	// Hourly jobs.
	ServiceName string     `json:"serviceName,omitempty"`
	HourlyRate  float64    `json:"hourlyRate,omitempty"`
	StartTime   *time.Time `json:"startTime,omitempty"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	HoursWorked float64    `json:"hoursWorked,omitempty"`
}

var (
	ErrNotFound           = errors.New("job_not_found")
	ErrDateRequired       = errors.New("job_date_required")
	ErrInvalidKind        = errors.New("job_kind_invalid")
	ErrServiceRefRequired = errors.New("job_service_ref_required")
	ErrInvalidQuantity    = errors.New("job_quantity_invalid")
	ErrServiceNameRequired = errors.New("job_service_name_required")
	ErrInvalidHourlyRate   = errors.New("job_hourly_rate_invalid")
	ErrTimeRangeRequired   = errors.New("job_time_range_required")
	ErrMixedVariant        = errors.New("job_variant_mixed")
)

// Validate checks the draft against its declared kind. A job must be
// entirely one variant or the other.
func (j Job) Validate() error {
	if j.Date.IsZero() {
		return ErrDateRequired
	}

	switch j.Kind {
	case JobKindRated:
		if j.ServiceName != "" || j.HourlyRate != 0 || j.StartTime != nil || j.EndTime != nil {
			return ErrMixedVariant
		}
		if j.ServiceRef == "" {
			return ErrServiceRefRequired
		}
		if j.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	case JobKindHourly:
		if j.ServiceRef != "" || j.Quantity != 0 {
			return ErrMixedVariant
		}
		if j.ServiceName == "" {
			return ErrServiceNameRequired
		}
		if j.HourlyRate <= 0 {
			return ErrInvalidHourlyRate
		}
		if j.StartTime == nil || j.EndTime == nil {
			return ErrTimeRangeRequired
		}
	default:
		return ErrInvalidKind
	}
	return nil
}

type Service interface {
	Add(ctx context.Context, draft Job) (Job, error)
	Update(ctx context.Context, job Job) (Job, error)
	Delete(ctx context.Context, id snowflake.ID) error
	Get(ctx context.Context, id snowflake.ID) (Job, error)
	List(ctx context.Context) ([]Job, error)
}
