package core

import (
	"errors"
	"fmt"
)

// Statistic errors. A failed statistic never stops the rest of its column or
// the rest of the report.
var (
	// ErrEmptyColumn: the column has no present values.
	ErrEmptyColumn = errors.New("column has no present values")
	// ErrInsufficientSample: the statistic divides by count-1 or needs a defined std.
	ErrInsufficientSample = errors.New("insufficient sample size")
	// ErrDegenerateDistribution: all present values are identical (std == 0).
	ErrDegenerateDistribution = errors.New("degenerate distribution")
	// ErrNumericOverflow: finite inputs produced an infinite or NaN result.
	ErrNumericOverflow = errors.New("result is not finite")
)

// Lookup errors
var (
	ErrNotFound       = errors.New("resource not found")
	ErrReportNotFound = fmt.Errorf("%w: report", ErrNotFound)
	ErrColumnNotFound = fmt.Errorf("%w: column", ErrNotFound)
)

// Input errors
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNonNumericColumn  = errors.New("column is not numeric")
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

func NewNotFoundError(resource string, id string) error {
	return fmt.Errorf("%w: %s with id %s", ErrNotFound, resource, id)
}

func NewInvalidArgumentError(field string, reason string) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidArgument, field, reason)
}

// IsStatisticError reports whether err is one of the per-statistic failures.
func IsStatisticError(err error) bool {
	return errors.Is(err, ErrEmptyColumn) ||
		errors.Is(err, ErrInsufficientSample) ||
		errors.Is(err, ErrDegenerateDistribution) ||
		errors.Is(err, ErrNumericOverflow)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
