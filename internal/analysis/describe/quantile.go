package describe

import (
	"fmt"
	"math"

	"godescribe/domain/core"
)

// Quantile estimates the p-quantile of an ascending slice by linear
// interpolation between order statistics at virtual rank (n-1)*p.
func Quantile(sorted []float64, p float64) (float64, error) {
	if math.IsNaN(p) || p < 0 || p > 1 {
		return math.NaN(), core.NewInvalidArgumentError("p", fmt.Sprintf("%v is outside [0, 1]", p))
	}
	n := len(sorted)
	if n == 0 {
		return math.NaN(), core.ErrEmptyColumn
	}
	if n == 1 {
		return sorted[0], nil
	}

	rank := float64(n-1) * p
	lo := math.Floor(rank)
	if rank == lo {
		return sorted[int(lo)], nil
	}
	frac := rank - lo
	i := int(lo)
	return sorted[i]*(1-frac) + sorted[i+1]*frac, nil
}
