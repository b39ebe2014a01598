// Package money holds the two-decimal USD arithmetic used everywhere a
// dollar amount is persisted.
package money

import (
	"fmt"
	"math"
)

// Round2 rounds v to two decimal places. Every amount written to the
// store must pass through here; totals are never re-derived from
// floating intermediates on read.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatUSD renders v as a dollar string, e.g. "$175.00".
func FormatUSD(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
