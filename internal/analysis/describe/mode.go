package describe

import (
	"math"

	"godescribe/domain/core"
)

// Mode returns the most frequent value of an ascending slice. Only a strictly
// longer run replaces the current best, so ties go to the smallest value.
func Mode(sorted []float64) (float64, error) {
	n := len(sorted)
	if n == 0 {
		return math.NaN(), core.ErrEmptyColumn
	}

	mode, best := sorted[0], 1
	run := 1
	for i := 1; i < n; i++ {
		if sorted[i] == sorted[i-1] {
			run++
			continue
		}
		if run > best {
			mode, best = sorted[i-1], run
		}
		run = 1
	}
	// the last run ends with the slice
	if run > best {
		mode = sorted[n-1]
	}
	return mode, nil
}
