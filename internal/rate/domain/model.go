// Package domain holds the rate table entities and the pricing contract.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// RateEntry is a named pricing rule: a base rate covering the first
// unit plus an incremental rate for each unit after it.
type RateEntry struct {
	ID              snowflake.ID `json:"id"`
	Name            string       `json:"name"`
	BaseRate        float64      `json:"baseRate"`
	IncrementalRate float64      `json:"incrementalRate"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

var (
	ErrNotFound         = errors.New("rate_not_found")
	ErrRateNotFound     = errors.New("rate_name_not_found")
	ErrNameRequired     = errors.New("rate_name_required")
	ErrDuplicateName    = errors.New("rate_name_taken")
	ErrNegativeRate     = errors.New("rate_negative")
	ErrNegativeQuantity = errors.New("quantity_negative")
)

func (e RateEntry) Validate() error {
	if e.Name == "" {
		return ErrNameRequired
	}
	if e.BaseRate < 0 || e.IncrementalRate < 0 {
		return ErrNegativeRate
	}
	return nil
}

// Service is the rate table store plus the pricing engine.
type Service interface {
	Add(ctx context.Context, draft RateEntry) (RateEntry, error)
	Update(ctx context.Context, entry RateEntry) (RateEntry, error)
	Delete(ctx context.Context, id snowflake.ID) error
	Get(ctx context.Context, id snowflake.ID) (RateEntry, error)
	GetByName(ctx context.Context, name string) (RateEntry, error)
	List(ctx context.Context) ([]RateEntry, error)

	// ComputeTotal prices a rated job: base rate plus the incremental
	// rate for every unit beyond the first. Unknown names fail with
	// ErrRateNotFound rather than pricing at zero.
	ComputeTotal(ctx context.Context, serviceRef string, quantity float64) (float64, error)
}
