// Package seed bootstraps the default rate table on first boot.
package seed

import (
	"context"
	"errors"

	"github.com/cabinworks/cabinbooks/internal/config"
	ratedomain "github.com/cabinworks/cabinbooks/internal/rate/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// defaultRates is the shipped rate table: eight cabins plus the two
// flat services.
var defaultRates = []ratedomain.RateEntry{
	{Name: "Cabin 1", BaseRate: 60, IncrementalRate: 5},
	{Name: "Cabin 2", BaseRate: 60, IncrementalRate: 5},
	{Name: "Cabin 3", BaseRate: 85, IncrementalRate: 5},
	{Name: "Cabin 4", BaseRate: 60, IncrementalRate: 5},
	{Name: "Cabin 5", BaseRate: 60, IncrementalRate: 5},
	{Name: "Cabin 6", BaseRate: 60, IncrementalRate: 5},
	{Name: "Cabin 7", BaseRate: 75, IncrementalRate: 5},
	{Name: "Cabin 8", BaseRate: 95, IncrementalRate: 5},
	{Name: "Hourly Work", BaseRate: 25, IncrementalRate: 0},
	{Name: "Other Cleaning", BaseRate: 50, IncrementalRate: 0},
}

// EnsureDefaultRates inserts the shipped table when the store is empty.
// Idempotent across restarts.
func EnsureDefaultRates(cfg config.Config, log *zap.Logger, rates ratedomain.Service) error {
	if !cfg.SeedRates {
		return nil
	}

	ctx := context.Background()
	existing, err := rates.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	for _, entry := range defaultRates {
		if _, err := rates.Add(ctx, entry); err != nil {
			if errors.Is(err, ratedomain.ErrDuplicateName) {
				continue
			}
			return err
		}
	}

	log.Named("seed").Info("default rate table seeded",
		zap.Int("entries", len(defaultRates)),
	)
	return nil
}

var Module = fx.Module("seed",
	fx.Invoke(EnsureDefaultRates),
)
