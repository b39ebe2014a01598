package storage

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	store, err := NewGormStore(conn)
	require.NoError(t, err)
	return store
}

func TestGetMissingKey(t *testing.T) {
	store := setupStore(t)

	blob, ok, err := store.Get(context.Background(), KeyJobs)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, blob)
}

func TestSetOverwrites(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyCabinRates, []byte(`[{"name":"Cabin 1"}]`)))
	require.NoError(t, store.Set(ctx, KeyCabinRates, []byte(`[]`)))

	blob, ok, err := store.Get(ctx, KeyCabinRates)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `[]`, string(blob))
}

func TestKeysIsolated(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, KeyJobs, []byte(`["a"]`)))
	require.NoError(t, store.Set(ctx, KeyInvoices, []byte(`["b"]`)))

	blob, ok, err := store.Get(ctx, KeyJobs)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `["a"]`, string(blob))

	blob, ok, err = store.Get(ctx, KeyInvoices)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `["b"]`, string(blob))

	_, ok, err = store.Get(ctx, KeyExpenses)
	require.NoError(t, err)
	assert.False(t, ok)
}
