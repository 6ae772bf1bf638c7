package describe

import (
	"math"
	"strconv"
)

// Precision is the number of fractional digits kept in every record.
const Precision = 6

// round6 rounds to Precision digits on the exact binary value, ties to even.
func round6(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', Precision, 64), 64)
	if err != nil {
		return x
	}
	return r
}

// roundScaled rounds by scaling: rint(x*1e6)/1e6. The standard deviation is
// rounded this way; the two methods disagree only on near-ties.
func roundScaled(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	const scale = 1e6
	return math.RoundToEven(x*scale) / scale
}
