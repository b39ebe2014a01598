package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceNumber(t *testing.T) {
	august := time.Date(2025, 8, 15, 10, 0, 0, 0, time.UTC)

	got, err := InvoiceNumber(august, 1)
	require.NoError(t, err)
	assert.Equal(t, "2508001", got)

	got, err = InvoiceNumber(august, 42)
	require.NoError(t, err)
	assert.Equal(t, "2508042", got)

	// The counter widens past three digits instead of wrapping.
	got, err = InvoiceNumber(august, 1234)
	require.NoError(t, err)
	assert.Equal(t, "25081234", got)

	january := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	got, err = InvoiceNumber(january, 3)
	require.NoError(t, err)
	assert.Equal(t, "2601003", got)

	_, err = InvoiceNumber(august, 0)
	assert.Error(t, err)
	_, err = InvoiceNumber(august, -5)
	assert.Error(t, err)
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, "2508", Prefix(time.Date(2025, 8, 31, 23, 59, 0, 0, time.UTC)))
	assert.Equal(t, "2509", Prefix(time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2612", Prefix(time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC)))
}

func TestSequence(t *testing.T) {
	seq, ok := Sequence("2508007", "2508")
	assert.True(t, ok)
	assert.Equal(t, int64(7), seq)

	seq, ok = Sequence("25081234", "2508")
	assert.True(t, ok)
	assert.Equal(t, int64(1234), seq)

	_, ok = Sequence("2507001", "2508")
	assert.False(t, ok)

	_, ok = Sequence("2508", "2508")
	assert.False(t, ok)

	_, ok = Sequence("2508abc", "2508")
	assert.False(t, ok)
}
