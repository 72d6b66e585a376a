// Package percentile computes order statistics over traffic samples.
package percentile

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// Billing is the percentile used for burstable billing.
const Billing = 95.0

// ErrEmptySeries is returned when there are no values to rank.
var ErrEmptySeries = errors.New("empty series")

// Calculate returns the p-th percentile of values using linear interpolation
// between the closest ranks: rank = p/100 * (n-1). This matches numpy's
// default method. values is not modified.
func Calculate(values []float64, p float64) (float64, error) {
	if len(values) == 0 {
		return 0, ErrEmptySeries
	}
	if p < 0 || p > 100 || math.IsNaN(p) {
		return 0, fmt.Errorf("percentile %v out of range [0, 100]", p)
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	rank := (p / 100) * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[lower], nil
	}
	weight := rank - float64(lower)
	return sorted[lower] + (sorted[upper]-sorted[lower])*weight, nil
}

// P95 returns the 95th percentile of values.
func P95(values []float64) (float64, error) {
	return Calculate(values, Billing)
}
