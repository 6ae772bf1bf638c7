package describe

import (
	"errors"
	"fmt"
	"math"

	"godescribe/domain/core"
)

// StatKey names one statistic of a column record.
type StatKey string

const (
	KeyCount    StatKey = "count"
	KeyMissing  StatKey = "missing(%)"
	KeyMean     StatKey = "mean"
	KeyVar      StatKey = "var"
	KeyStd      StatKey = "std"
	KeyMin      StatKey = "min"
	KeyQ25      StatKey = "25%"
	KeyQ50      StatKey = "50%"
	KeyQ75      StatKey = "75%"
	KeyIQR      StatKey = "iqr"
	KeyMax      StatKey = "max"
	KeyMode     StatKey = "mode"
	KeyKurtosis StatKey = "kurtosis"
)

// keyOrder is the fixed record layout.
var keyOrder = [...]StatKey{
	KeyCount, KeyMissing, KeyMean, KeyVar, KeyStd, KeyMin,
	KeyQ25, KeyQ50, KeyQ75, KeyIQR, KeyMax, KeyMode, KeyKurtosis,
}

// NumKeys is the number of statistics in every record.
const NumKeys = len(keyOrder)

// Keys returns the statistic keys in record order.
func Keys() []StatKey {
	out := make([]StatKey, NumKeys)
	copy(out, keyOrder[:])
	return out
}

func keyIndex(key StatKey) (int, bool) {
	for i, k := range keyOrder {
		if k == key {
			return i, true
		}
	}
	return 0, false
}

// Stat is one entry of a record: a value, or the error that prevented it.
type Stat struct {
	Key   StatKey
	Value float64
	Err   error
}

// OK reports whether the statistic has a value
func (s Stat) OK() bool {
	return s.Err == nil
}

// StatError attributes a statistic failure to its column and statistic.
type StatError struct {
	Column    string
	Statistic StatKey
	Err       error
}

func (e *StatError) Error() string {
	return fmt.Sprintf("column %q: %s: %v", e.Column, e.Statistic, e.Err)
}

func (e *StatError) Unwrap() error {
	return e.Err
}

// ErrorKind names the sentinel behind err, for wire formats.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, core.ErrEmptyColumn):
		return "empty_column"
	case errors.Is(err, core.ErrInsufficientSample):
		return "insufficient_sample"
	case errors.Is(err, core.ErrDegenerateDistribution):
		return "degenerate_distribution"
	case errors.Is(err, core.ErrNumericOverflow):
		return "numeric_overflow"
	default:
		return "unknown"
	}
}

func errorFromKind(kind string) error {
	switch kind {
	case "empty_column":
		return core.ErrEmptyColumn
	case "insufficient_sample":
		return core.ErrInsufficientSample
	case "degenerate_distribution":
		return core.ErrDegenerateDistribution
	case "numeric_overflow":
		return core.ErrNumericOverflow
	default:
		return fmt.Errorf("unrecognised statistic error %q", kind)
	}
}

// ColumnStats is the immutable statistics record of one column.
type ColumnStats struct {
	name  string
	total int
	stats [NumKeys]Stat
}

// NewColumnStats assembles a record. Every key must appear exactly once,
// either in values or in errs. Errors are attributed to the column.
func NewColumnStats(name string, total int, values map[StatKey]float64, errs map[StatKey]error) (*ColumnStats, error) {
	if total < 0 {
		return nil, core.NewInvalidArgumentError("total", "must not be negative")
	}
	cs := &ColumnStats{name: name, total: total}
	for i, key := range keyOrder {
		v, hasValue := values[key]
		err, hasErr := errs[key]
		switch {
		case hasValue && hasErr && err != nil:
			return nil, core.NewInvalidArgumentError(string(key), "has both a value and an error")
		case hasErr && err != nil:
			var se *StatError
			if !errors.As(err, &se) {
				err = &StatError{Column: name, Statistic: key, Err: err}
			}
			cs.stats[i] = Stat{Key: key, Value: math.NaN(), Err: err}
		case hasValue:
			cs.stats[i] = Stat{Key: key, Value: v}
		default:
			return nil, core.NewInvalidArgumentError(string(key), "missing from record")
		}
	}
	for key := range values {
		if _, ok := keyIndex(key); !ok {
			return nil, core.NewInvalidArgumentError(string(key), "unknown statistic")
		}
	}
	for key := range errs {
		if _, ok := keyIndex(key); !ok {
			return nil, core.NewInvalidArgumentError(string(key), "unknown statistic")
		}
	}
	return cs, nil
}

// Name returns the column name
func (c *ColumnStats) Name() string { return c.name }

// Total returns the number of entries in the source column, missing included
func (c *ColumnStats) Total() int { return c.total }

// Get returns the value of key, or the error recorded for it.
func (c *ColumnStats) Get(key StatKey) (float64, error) {
	i, ok := keyIndex(key)
	if !ok {
		return math.NaN(), core.NewInvalidArgumentError(string(key), "unknown statistic")
	}
	s := c.stats[i]
	return s.Value, s.Err
}

// Value returns the value of key, NaN when the statistic failed.
func (c *ColumnStats) Value(key StatKey) float64 {
	v, err := c.Get(key)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Stats returns all statistics in record order
func (c *ColumnStats) Stats() []Stat {
	out := make([]Stat, NumKeys)
	copy(out, c.stats[:])
	return out
}

// Count returns the number of present values
func (c *ColumnStats) Count() int {
	return int(c.stats[0].Value)
}

// MissingCount returns the number of missing entries
func (c *ColumnStats) MissingCount() int {
	return c.total - c.Count()
}

// Err joins every statistic error of the record, nil when all succeeded.
func (c *ColumnStats) Err() error {
	var errs []error
	for _, s := range c.stats {
		if s.Err != nil {
			errs = append(errs, s.Err)
		}
	}
	return errors.Join(errs...)
}

// Report maps column names to records, in table order.
type Report struct {
	records []*ColumnStats
	index   map[string]int
}

// NewReport builds a report from records in order. Names must be unique.
func NewReport(records ...*ColumnStats) (*Report, error) {
	r := &Report{
		records: make([]*ColumnStats, 0, len(records)),
		index:   make(map[string]int, len(records)),
	}
	for _, rec := range records {
		if rec == nil {
			return nil, core.NewInvalidArgumentError("record", "nil record")
		}
		if _, dup := r.index[rec.name]; dup {
			return nil, core.NewInvalidArgumentError("record", fmt.Sprintf("duplicate column %q", rec.name))
		}
		r.index[rec.name] = len(r.records)
		r.records = append(r.records, rec)
	}
	return r, nil
}

// Len returns the number of columns in the report
func (r *Report) Len() int { return len(r.records) }

// Columns returns column names in report order
func (r *Report) Columns() []string {
	names := make([]string, len(r.records))
	for i, rec := range r.records {
		names[i] = rec.name
	}
	return names
}

// Column returns the record of one column
func (r *Report) Column(name string) (*ColumnStats, bool) {
	i, ok := r.index[name]
	if !ok {
		return nil, false
	}
	return r.records[i], true
}

// Records returns the records in report order
func (r *Report) Records() []*ColumnStats {
	out := make([]*ColumnStats, len(r.records))
	copy(out, r.records)
	return out
}

// Errors lists every statistic error in report order.
func (r *Report) Errors() []error {
	var errs []error
	for _, rec := range r.records {
		for _, s := range rec.stats {
			if s.Err != nil {
				errs = append(errs, s.Err)
			}
		}
	}
	return errs
}
