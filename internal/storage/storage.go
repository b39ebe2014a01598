// Package storage is the durable key-value persistence collaborator.
// Each store mirrors its full dataset into a single JSON blob after
// every mutation and reads it back once at startup.
package storage

import "context"

// Logical keys. One blob per entity family.
const (
	KeyCabinRates = "cabin_rates_data"
	KeyJobs       = "jobs_data"
	KeyInvoices   = "invoices_data"
	KeyExpenses   = "expenses_data"
)

type Store interface {
	// Get returns the blob stored under key, or ok=false when absent.
	Get(ctx context.Context, key string) (blob []byte, ok bool, err error)
	// Set writes the blob under key, replacing any previous value.
	Set(ctx context.Context, key string, blob []byte) error
}
