// Package format renders invoice numbers. The scheme is {YY}{MM}{NNN}:
// a two-digit year, two-digit month, and a zero-padded counter that is
// sequential within that year+month prefix.
package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Prefix returns the year+month prefix for t, e.g. "2508" for
// August 2025.
func Prefix(t time.Time) string {
	return t.Format("0601")
}

// InvoiceNumber formats a human-readable invoice number from an issue
// time and a monotonic sequence within the month.
func InvoiceNumber(issuedAt time.Time, seq int64) (string, error) {
	if seq <= 0 {
		return "", fmt.Errorf("invalid invoice sequence: %d", seq)
	}
	return fmt.Sprintf("%s%03d", Prefix(issuedAt), seq), nil
}

// Sequence extracts the counter from a number carrying the given
// prefix. Numbers from other months report ok=false.
func Sequence(number, prefix string) (int64, bool) {
	if !strings.HasPrefix(number, prefix) {
		return 0, false
	}
	seq, err := strconv.ParseInt(number[len(prefix):], 10, 64)
	if err != nil || seq <= 0 {
		return 0, false
	}
	return seq, true
}
