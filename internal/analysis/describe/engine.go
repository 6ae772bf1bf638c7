package describe

import (
	"context"
	"math"
	"runtime"

	"godescribe/domain/dataset"
	"godescribe/domain/stats/describe"
	"godescribe/internal"

	"golang.org/x/sync/errgroup"
)

// Config controls column selection and fan-out
type Config struct {
	// LabelColumn is excluded from statistics even when numeric.
	LabelColumn string
	// Workers bounds concurrent columns; 0 means GOMAXPROCS, 1 is sequential.
	Workers int
}

// DefaultConfig returns the configuration used by the CLI and API
func DefaultConfig() Config {
	return Config{
		LabelColumn: DefaultLabelColumn,
		Workers:     0,
	}
}

// Engine computes statistics reports from tables. It holds no state between
// calls and is safe for concurrent use.
type Engine struct {
	config Config
	logger *internal.Logger
}

// NewEngine creates an engine; a nil logger uses internal.DefaultLogger
func NewEngine(config Config, logger *internal.Logger) *Engine {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Engine{config: config, logger: logger.With("Describe")}
}

// LabelColumn returns the excluded label column
func (e *Engine) LabelColumn() string {
	return e.config.LabelColumn
}

// WithLabelColumn returns a copy of the engine that excludes label instead
func (e *Engine) WithLabelColumn(label string) *Engine {
	config := e.config
	config.LabelColumn = label
	return &Engine{config: config, logger: e.logger}
}

func (e *Engine) workers(columns int) int {
	n := e.config.Workers
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if n > columns {
		n = columns
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Describe builds the report of every qualifying column of t. Columns are
// computed concurrently; the report keeps table order. Statistic failures
// are recorded in their column and do not fail the call.
func (e *Engine) Describe(ctx context.Context, t *dataset.Table) (*describe.Report, error) {
	columns := SelectColumns(t, e.config.LabelColumn)
	records := make([]*describe.ColumnStats, len(columns))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers(len(columns)))
	for i, col := range columns {
		if gctx.Err() != nil {
			break
		}
		i, col := i, col
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rec, err := e.DescribeColumn(col)
			if err != nil {
				return err
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report, err := describe.NewReport(records...)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("described %d of %d columns (label %q excluded)", report.Len(), t.NumColumns(), e.config.LabelColumn)
	return report, nil
}

// DescribeColumn computes the record of a single column regardless of its
// name. Non-numeric columns have no cells and come out empty.
func (e *Engine) DescribeColumn(col dataset.Column) (*describe.ColumnStats, error) {
	s := extract(col)
	values, errs := computeBase(s)
	computeDerived(s, values, errs)

	for _, key := range describe.Keys() {
		if err, failed := errs[key]; failed {
			e.logger.Warn("column %q: %s: %v", s.name, key, err)
		}
	}
	e.logger.Trace("column %q: %d present of %d", s.name, s.count(), s.total)

	return describe.NewColumnStats(s.name, s.total, values, errs)
}

// computeBase fills the statistics that read the sample directly.
func computeBase(s sample) (map[describe.StatKey]float64, map[describe.StatKey]error) {
	values := make(map[describe.StatKey]float64, describe.NumKeys)
	errs := make(map[describe.StatKey]error)
	set := func(key describe.StatKey, v float64, err error) {
		v, err = checkFinite(v, err)
		if err != nil {
			errs[key] = err
			return
		}
		values[key] = round6(v)
	}

	values[describe.KeyCount] = float64(s.count())
	values[describe.KeyMissing] = s.missingPercent()

	mean, err := Mean(s.present)
	set(describe.KeyMean, mean, err)

	variance, err := SampleVariance(s.present)
	set(describe.KeyVar, variance, err)

	lo, hi, err := Extremes(s.present)
	set(describe.KeyMin, lo, err)
	set(describe.KeyMax, hi, err)

	for _, q := range []struct {
		key describe.StatKey
		p   float64
	}{
		{describe.KeyQ25, 0.25},
		{describe.KeyQ50, 0.50},
		{describe.KeyQ75, 0.75},
	} {
		v, err := Quantile(s.sorted, q.p)
		set(q.key, v, err)
	}

	mode, err := Mode(s.sorted)
	set(describe.KeyMode, mode, err)

	return values, errs
}

// computeDerived fills the statistics that read finished, rounded base
// values: std from var, kurtosis from mean and std, iqr from the quartiles.
func computeDerived(s sample, values map[describe.StatKey]float64, errs map[describe.StatKey]error) {
	if err, failed := errs[describe.KeyVar]; failed {
		errs[describe.KeyStd] = err
	} else {
		values[describe.KeyStd] = roundScaled(math.Sqrt(values[describe.KeyVar]))
	}

	switch {
	case errs[describe.KeyMean] != nil:
		errs[describe.KeyKurtosis] = errs[describe.KeyMean]
	case errs[describe.KeyStd] != nil:
		errs[describe.KeyKurtosis] = errs[describe.KeyStd]
	default:
		k, err := checkFinite(Kurtosis(s.present, values[describe.KeyMean], values[describe.KeyStd]))
		if err != nil {
			errs[describe.KeyKurtosis] = err
		} else {
			values[describe.KeyKurtosis] = round6(k)
		}
	}

	if err, failed := errs[describe.KeyQ25]; failed {
		errs[describe.KeyIQR] = err
	} else if err, failed := errs[describe.KeyQ75]; failed {
		errs[describe.KeyIQR] = err
	} else if iqr, err := checkFinite(values[describe.KeyQ75]-values[describe.KeyQ25], nil); err != nil {
		errs[describe.KeyIQR] = err
	} else {
		values[describe.KeyIQR] = iqr
	}
}
