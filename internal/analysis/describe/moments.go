package describe

import (
	"math"

	"godescribe/domain/core"
)

// checkFinite turns an infinite or NaN result of a successful aggregate
// into ErrNumericOverflow.
func checkFinite(v float64, err error) (float64, error) {
	if err == nil && (math.IsInf(v, 0) || math.IsNaN(v)) {
		return math.NaN(), core.ErrNumericOverflow
	}
	return v, err
}

// sum adds left to right in source order.
func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

// Mean returns the unrounded arithmetic mean.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return math.NaN(), core.ErrEmptyColumn
	}
	return sum(values) / float64(len(values)), nil
}

// SampleVariance returns the Bessel-corrected variance around the unrounded mean.
func SampleVariance(values []float64) (float64, error) {
	mean, err := Mean(values)
	if err != nil {
		return math.NaN(), err
	}
	if len(values) < 2 {
		return math.NaN(), core.ErrInsufficientSample
	}
	squares := 0.0
	for _, v := range values {
		d := v - mean
		squares += d * d
	}
	return squares / float64(len(values)-1), nil
}

// Kurtosis returns the raw fourth standardized moment for the given mean and
// std. Callers pass the stored, rounded values.
func Kurtosis(values []float64, mean, std float64) (float64, error) {
	switch {
	case len(values) == 0:
		return math.NaN(), core.ErrEmptyColumn
	case len(values) < 2:
		return math.NaN(), core.ErrInsufficientSample
	case std == 0:
		return math.NaN(), core.ErrDegenerateDistribution
	}
	fourth := 0.0
	for _, v := range values {
		fourth += math.Pow((v-mean)/std, 4)
	}
	return fourth / float64(len(values)), nil
}
