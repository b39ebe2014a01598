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
	expensedomain "github.com/cabinworks/cabinbooks/internal/expense/domain"
	"github.com/cabinworks/cabinbooks/internal/storage"
)

func setupService(t *testing.T) expensedomain.Service {
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
		Clock: clock.NewFakeClock(time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC)),
		Store: store,
	})
	require.NoError(t, err)
	return svc
}

func TestExpenseCRUD(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	added, err := svc.Add(ctx, expensedomain.Expense{
		Date:        time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC),
		Category:    "Supplies",
		Amount:      42.505,
		Description: "Mop heads and degreaser",
	})
	require.NoError(t, err)
	assert.NotZero(t, added.ID)
	assert.Equal(t, 42.51, added.Amount)

	added.Amount = 38
	updated, err := svc.Update(ctx, added)
	require.NoError(t, err)
	assert.Equal(t, 38.0, updated.Amount)
	assert.Equal(t, added.CreatedAt, updated.CreatedAt)

	got, err := svc.Get(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	require.NoError(t, svc.Delete(ctx, added.ID))
	assert.ErrorIs(t, svc.Delete(ctx, added.ID), expensedomain.ErrNotFound)
}

func TestExpenseValidation(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	date := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)

	_, err := svc.Add(ctx, expensedomain.Expense{Category: "Supplies", Amount: 10})
	assert.ErrorIs(t, err, expensedomain.ErrDateRequired)

	_, err = svc.Add(ctx, expensedomain.Expense{Date: date, Category: "Snacks", Amount: 10})
	assert.ErrorIs(t, err, expensedomain.ErrInvalidCategory)

	_, err = svc.Add(ctx, expensedomain.Expense{Date: date, Category: "Supplies"})
	assert.ErrorIs(t, err, expensedomain.ErrInvalidAmount)

	_, err = svc.Update(ctx, expensedomain.Expense{
		ID: snowflake.ID(9), Date: date, Category: "Supplies", Amount: 10,
	})
	assert.ErrorIs(t, err, expensedomain.ErrNotFound)
}

func TestCategoriesFixed(t *testing.T) {
	assert.True(t, expensedomain.ValidCategory("Other"))
	assert.False(t, expensedomain.ValidCategory("other"))
	assert.Len(t, expensedomain.Categories, 8)
}
