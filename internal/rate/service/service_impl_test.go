package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cabinworks/cabinbooks/internal/clock"
	ratedomain "github.com/cabinworks/cabinbooks/internal/rate/domain"
	"github.com/cabinworks/cabinbooks/internal/storage"
)

func setupService(t *testing.T) ratedomain.Service {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	store, err := storage.NewGormStore(conn)
	require.NoError(t, err)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc, err := NewService(ServiceParam{
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)),
		Store: store,
	})
	require.NoError(t, err)
	return svc
}

func TestComputeTotal_CreditedUnitPolicy(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, ratedomain.RateEntry{
		Name:            "Cedar Lodge",
		BaseRate:        70,
		IncrementalRate: 15,
	})
	require.NoError(t, err)

	// First unit rides on the base rate; seven more at the
	// incremental rate.
	total, err := svc.ComputeTotal(ctx, "Cedar Lodge", 8)
	require.NoError(t, err)
	assert.Equal(t, 175.0, total)

	total, err = svc.ComputeTotal(ctx, "Cedar Lodge", 4)
	require.NoError(t, err)
	assert.Equal(t, 115.0, total)
}

func TestComputeTotal_Boundaries(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, ratedomain.RateEntry{
		Name:            "Cabin 1",
		BaseRate:        60,
		IncrementalRate: 5,
	})
	require.NoError(t, err)

	// Zero and one unit must not produce a negative incremental charge.
	total, err := svc.ComputeTotal(ctx, "Cabin 1", 0)
	require.NoError(t, err)
	assert.Equal(t, 60.0, total)

	total, err = svc.ComputeTotal(ctx, "Cabin 1", 1)
	require.NoError(t, err)
	assert.Equal(t, 60.0, total)

	_, err = svc.ComputeTotal(ctx, "Cabin 1", -1)
	assert.ErrorIs(t, err, ratedomain.ErrNegativeQuantity)
}

func TestComputeTotal_UnknownName(t *testing.T) {
	svc := setupService(t)

	_, err := svc.ComputeTotal(context.Background(), "No Such Cabin", 3)
	assert.ErrorIs(t, err, ratedomain.ErrRateNotFound)
}

func TestComputeTotal_Idempotent(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, ratedomain.RateEntry{
		Name:            "Cabin 8",
		BaseRate:        95,
		IncrementalRate: 5,
	})
	require.NoError(t, err)

	first, err := svc.ComputeTotal(ctx, "Cabin 8", 6)
	require.NoError(t, err)
	second, err := svc.ComputeTotal(ctx, "Cabin 8", 6)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRateCRUD(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	entry, err := svc.Add(ctx, ratedomain.RateEntry{
		Name:            "Cabin 3",
		BaseRate:        85,
		IncrementalRate: 5,
	})
	require.NoError(t, err)
	assert.NotZero(t, entry.ID)

	_, err = svc.Add(ctx, ratedomain.RateEntry{Name: "Cabin 3", BaseRate: 10})
	assert.ErrorIs(t, err, ratedomain.ErrDuplicateName)

	_, err = svc.Add(ctx, ratedomain.RateEntry{Name: "", BaseRate: 10})
	assert.ErrorIs(t, err, ratedomain.ErrNameRequired)

	_, err = svc.Add(ctx, ratedomain.RateEntry{Name: "Bad", BaseRate: -1})
	assert.ErrorIs(t, err, ratedomain.ErrNegativeRate)

	entry.BaseRate = 90
	updated, err := svc.Update(ctx, entry)
	require.NoError(t, err)
	assert.Equal(t, 90.0, updated.BaseRate)
	assert.Equal(t, entry.CreatedAt, updated.CreatedAt)

	_, err = svc.Update(ctx, ratedomain.RateEntry{ID: 999, Name: "Ghost"})
	assert.ErrorIs(t, err, ratedomain.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, entry.ID))
	assert.ErrorIs(t, svc.Delete(ctx, entry.ID), ratedomain.ErrNotFound)

	entries, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
