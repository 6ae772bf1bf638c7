package describe

import (
	"math"

	"godescribe/domain/core"
)

// Extremes folds once over values and returns the raw minimum and maximum.
func Extremes(values []float64) (lo, hi float64, err error) {
	if len(values) == 0 {
		return math.NaN(), math.NaN(), core.ErrEmptyColumn
	}
	lo, hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi, nil
}
