package describe

import (
	"context"
	"encoding/json"
	"math"
	"math/rand"
	"testing"

	"godescribe/domain/core"
	"godescribe/domain/dataset"
	"godescribe/domain/stats/describe"
	"godescribe/internal"

	"github.com/google/go-cmp/cmp"
	"github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

var nan = math.NaN()

func newTestEngine(workers int) *Engine {
	return NewEngine(Config{LabelColumn: DefaultLabelColumn, Workers: workers}, internal.NewLogger(internal.LogLevelError))
}

func describeOne(t *testing.T, values ...float64) *describe.ColumnStats {
	t.Helper()
	rec, err := newTestEngine(1).DescribeColumn(dataset.NewNumericColumn("x", dataset.Cells(values...)))
	require.NoError(t, err)
	return rec
}

func requireValues(t *testing.T, rec *describe.ColumnStats, expected map[describe.StatKey]float64) {
	t.Helper()
	for key, want := range expected {
		got, err := rec.Get(key)
		require.NoError(t, err, "statistic %s", key)
		assert.Equal(t, want, got, "statistic %s", key)
	}
}

func TestDescribeColumn_ClosedForm(t *testing.T) {
	rec := describeOne(t, 1, 2, 3, 4, 5)

	requireValues(t, rec, map[describe.StatKey]float64{
		describe.KeyCount:    5,
		describe.KeyMissing:  0,
		describe.KeyMean:     3,
		describe.KeyVar:      2.5,
		describe.KeyStd:      1.581139,
		describe.KeyMin:      1,
		describe.KeyQ25:      2,
		describe.KeyQ50:      3,
		describe.KeyQ75:      4,
		describe.KeyIQR:      2,
		describe.KeyMax:      5,
		describe.KeyMode:     1,
		describe.KeyKurtosis: 1.088,
	})
	assert.NoError(t, rec.Err())
}

func TestDescribeColumn_FractionalQuartilesAndMissing(t *testing.T) {
	rec := describeOne(t, 2.5, nan, -1, 4, 4, 10.25, nan, 7)

	requireValues(t, rec, map[describe.StatKey]float64{
		describe.KeyCount:    6,
		describe.KeyMissing:  25,
		describe.KeyMean:     4.458333,
		describe.KeyVar:      14.810417,
		describe.KeyStd:      3.84843,
		describe.KeyMin:      -1,
		describe.KeyQ25:      2.875,
		describe.KeyQ50:      4,
		describe.KeyQ75:      6.25,
		describe.KeyIQR:      3.375,
		describe.KeyMax:      10.25,
		describe.KeyMode:     4,
		describe.KeyKurtosis: 1.572336,
	})
	assert.Equal(t, 2, rec.MissingCount())
	assert.Equal(t, 8, rec.Total())
}

func TestDescribeColumn_MissingFirstEntry(t *testing.T) {
	// the extremes must not be seeded from a missing first entry
	rec := describeOne(t, nan, 5, 3, 9)

	requireValues(t, rec, map[describe.StatKey]float64{
		describe.KeyMin:     3,
		describe.KeyMax:     9,
		describe.KeyMissing: 25,
	})
}

func TestDescribeColumn_SingleValue(t *testing.T) {
	rec := describeOne(t, 7)

	requireValues(t, rec, map[describe.StatKey]float64{
		describe.KeyCount: 1,
		describe.KeyMean:  7,
		describe.KeyMin:   7,
		describe.KeyMax:   7,
		describe.KeyMode:  7,
		describe.KeyQ25:   7,
		describe.KeyQ50:   7,
		describe.KeyQ75:   7,
		describe.KeyIQR:   0,
	})
	for _, key := range []describe.StatKey{describe.KeyVar, describe.KeyStd, describe.KeyKurtosis} {
		v, err := rec.Get(key)
		assert.ErrorIs(t, err, core.ErrInsufficientSample, "statistic %s", key)
		assert.True(t, math.IsNaN(v))

		var statErr *describe.StatError
		require.ErrorAs(t, err, &statErr)
		assert.Equal(t, "x", statErr.Column)
		assert.Equal(t, key, statErr.Statistic)
	}
}

func TestDescribeColumn_AllMissing(t *testing.T) {
	rec := describeOne(t, nan, nan, nan)

	requireValues(t, rec, map[describe.StatKey]float64{
		describe.KeyCount:   0,
		describe.KeyMissing: 100,
	})
	for _, key := range describe.Keys()[2:] {
		_, err := rec.Get(key)
		assert.ErrorIs(t, err, core.ErrEmptyColumn, "statistic %s", key)
	}
}

func TestDescribeColumn_NoRows(t *testing.T) {
	rec := describeOne(t)

	requireValues(t, rec, map[describe.StatKey]float64{
		describe.KeyCount:   0,
		describe.KeyMissing: 0,
	})
	_, err := rec.Get(describe.KeyMean)
	assert.ErrorIs(t, err, core.ErrEmptyColumn)
}

func TestDescribeColumn_ConstantColumn(t *testing.T) {
	rec := describeOne(t, 4, 4, 4)

	requireValues(t, rec, map[describe.StatKey]float64{
		describe.KeyVar:  0,
		describe.KeyStd:  0,
		describe.KeyMode: 4,
	})
	_, err := rec.Get(describe.KeyKurtosis)
	assert.ErrorIs(t, err, core.ErrDegenerateDistribution)
	assert.NotErrorIs(t, err, core.ErrInsufficientSample)
}

func TestDescribeColumn_OverflowIsReported(t *testing.T) {
	rec := describeOne(t, 1e200, -1e200, 3)

	requireValues(t, rec, map[describe.StatKey]float64{
		describe.KeyCount: 3,
		describe.KeyMean:  1,
		describe.KeyMin:   -1e200,
		describe.KeyMax:   1e200,
	})
	for _, key := range []describe.StatKey{describe.KeyVar, describe.KeyStd, describe.KeyKurtosis} {
		_, err := rec.Get(key)
		assert.ErrorIs(t, err, core.ErrNumericOverflow, "statistic %s", key)
		assert.True(t, core.IsStatisticError(err))
	}
	for _, s := range rec.Stats() {
		if s.OK() {
			assert.False(t, math.IsInf(s.Value, 0) || math.IsNaN(s.Value), "statistic %s = %v", s.Key, s.Value)
		}
	}

	report, err := describe.NewReport(rec)
	require.NoError(t, err)
	data, err := json.Marshal(report)
	require.NoError(t, err)

	var restored describe.Report
	require.NoError(t, json.Unmarshal(data, &restored))
	back, ok := restored.Column("x")
	require.True(t, ok)
	_, err = back.Get(describe.KeyStd)
	assert.ErrorIs(t, err, core.ErrNumericOverflow)
}

func TestDescribeColumn_ModeTieBreaks(t *testing.T) {
	assert.Equal(t, 1.0, describeOne(t, 1, 1, 2, 2, 3).Value(describe.KeyMode))
	assert.Equal(t, 1.0, describeOne(t, 5, 1, 1, 1, 2, 2).Value(describe.KeyMode))
	assert.Equal(t, 3.0, describeOne(t, 3, 1, 3, 2, 3).Value(describe.KeyMode))
}

func houseTable() *dataset.Table {
	return dataset.MustNewTable(
		dataset.NewNumericColumn("Index", dataset.Cells(0, 1, 2, 3)),
		dataset.NewTextColumn("First Name", []string{"Tamara", "Erich", "Stephany", "Vesta"}),
		dataset.NewNumericColumn("Hogwarts House", dataset.Cells(1, 2, 1, 3)),
		dataset.NewNumericColumn("Arithmancy", dataset.Cells(58384, 67239, 23702, nan)),
		dataset.NewNumericColumn("Astronomy", dataset.Cells(-487.88, -552.06, nan, 697.74)),
		dataset.NewNumericColumn("Flying", dataset.Cells(nan, nan, nan, nan)),
	)
}

func TestDescribe_SelectsNumericColumnsInOrder(t *testing.T) {
	report, err := newTestEngine(0).Describe(context.Background(), houseTable())
	require.NoError(t, err)

	assert.Equal(t, []string{"Index", "Arithmancy", "Astronomy", "Flying"}, report.Columns())
	_, hasLabel := report.Column("Hogwarts House")
	assert.False(t, hasLabel)

	flying, ok := report.Column("Flying")
	require.True(t, ok)
	assert.ErrorIs(t, flying.Err(), core.ErrEmptyColumn)

	// a failed column does not fail its neighbours
	arith, ok := report.Column("Arithmancy")
	require.True(t, ok)
	assert.NoError(t, arith.Err())

	errs := report.Errors()
	assert.Len(t, errs, describe.NumKeys-2)
	for _, err := range errs {
		assert.True(t, core.IsStatisticError(err))
	}
}

func TestDescribe_EmptySelection(t *testing.T) {
	table := dataset.MustNewTable(
		dataset.NewTextColumn("Name", []string{"a", "b"}),
		dataset.NewNumericColumn("Hogwarts House", dataset.Cells(1, 2)),
	)
	report, err := newTestEngine(0).Describe(context.Background(), table)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Len())
	assert.Empty(t, report.Columns())
}

func TestDescribe_CustomLabelColumn(t *testing.T) {
	engine := NewEngine(Config{LabelColumn: "Index"}, internal.NewLogger(internal.LogLevelError))
	report, err := engine.Describe(context.Background(), houseTable())
	require.NoError(t, err)
	assert.Equal(t, []string{"Hogwarts House", "Arithmancy", "Astronomy", "Flying"}, report.Columns())
}

func TestDescribe_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestEngine(2).Describe(ctx, houseTable())
	assert.ErrorIs(t, err, context.Canceled)
}

func randomTable(t *testing.T, seed int64, columns, rows int) *dataset.Table {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	cols := make([]dataset.Column, 0, columns)
	for c := 0; c < columns; c++ {
		values := make([]float64, rows)
		for i := range values {
			switch {
			case rng.Float64() < 0.1:
				values[i] = nan
			case c%3 == 0:
				values[i] = float64(rng.Intn(6))
			default:
				values[i] = rng.NormFloat64()*100 + float64(c)
			}
		}
		cols = append(cols, dataset.NewNumericColumn(string(rune('A'+c)), dataset.Cells(values...)))
	}
	table, err := dataset.NewTable(cols...)
	require.NoError(t, err)
	return table
}

func TestDescribe_Invariants(t *testing.T) {
	table := randomTable(t, 42, 12, 257)
	report, err := newTestEngine(4).Describe(context.Background(), table)
	require.NoError(t, err)
	require.Equal(t, 12, report.Len())

	for _, rec := range report.Records() {
		col, ok := table.Column(rec.Name())
		require.True(t, ok)

		assert.Len(t, rec.Stats(), describe.NumKeys)
		assert.Equal(t, col.Len(), rec.Count()+rec.MissingCount(), rec.Name())

		lo, q25, q50 := rec.Value(describe.KeyMin), rec.Value(describe.KeyQ25), rec.Value(describe.KeyQ50)
		q75, hi := rec.Value(describe.KeyQ75), rec.Value(describe.KeyMax)
		assert.LessOrEqual(t, lo, q25, rec.Name())
		assert.LessOrEqual(t, q25, q50, rec.Name())
		assert.LessOrEqual(t, q50, q75, rec.Name())
		assert.LessOrEqual(t, q75, hi, rec.Name())
		assert.Equal(t, q75-q25, rec.Value(describe.KeyIQR), rec.Name())
	}
}

func TestDescribe_AgreesWithStatisticsLibraries(t *testing.T) {
	table := randomTable(t, 7, 6, 500)
	report, err := newTestEngine(0).Describe(context.Background(), table)
	require.NoError(t, err)

	for _, col := range table.Columns() {
		var present []float64
		for _, cell := range col.Cells {
			if cell.Present() {
				present = append(present, cell.Value)
			}
		}
		rec, ok := report.Column(col.Name)
		require.True(t, ok)

		mean, err := stats.Mean(present)
		require.NoError(t, err)
		variance, err := stats.SampleVariance(present)
		require.NoError(t, err)
		lo, err := stats.Min(present)
		require.NoError(t, err)
		hi, err := stats.Max(present)
		require.NoError(t, err)

		assert.InDelta(t, mean, rec.Value(describe.KeyMean), 5e-7, col.Name)
		assert.InDelta(t, variance, rec.Value(describe.KeyVar), 5e-7*math.Max(1, variance), col.Name)
		assert.InDelta(t, lo, rec.Value(describe.KeyMin), 5e-7, col.Name)
		assert.InDelta(t, hi, rec.Value(describe.KeyMax), 5e-7, col.Name)

		assert.InDelta(t, stat.Mean(present, nil), rec.Value(describe.KeyMean), 5e-7, col.Name)
		assert.InDelta(t, stat.Variance(present, nil), rec.Value(describe.KeyVar), 5e-7*math.Max(1, variance), col.Name)
	}
}

func TestDescribe_Deterministic(t *testing.T) {
	table := randomTable(t, 99, 9, 120)

	sequential, err := newTestEngine(1).Describe(context.Background(), table)
	require.NoError(t, err)
	parallel, err := newTestEngine(8).Describe(context.Background(), table)
	require.NoError(t, err)
	again, err := newTestEngine(8).Describe(context.Background(), table)
	require.NoError(t, err)

	first, err := json.Marshal(sequential)
	require.NoError(t, err)
	second, err := json.Marshal(parallel)
	require.NoError(t, err)
	third, err := json.Marshal(again)
	require.NoError(t, err)

	if diff := cmp.Diff(string(first), string(second)); diff != "" {
		t.Errorf("parallel report differs from sequential (-seq +par):\n%s", diff)
	}
	assert.Equal(t, second, third)
}

func TestSelectColumns(t *testing.T) {
	cols := SelectColumns(houseTable(), DefaultLabelColumn, "Index")
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"Arithmancy", "Astronomy", "Flying"}, names)
}
