package dataset

import (
	"math"
	"testing"

	"godescribe/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCells_NaNIsMissing(t *testing.T) {
	cells := Cells(1.5, math.NaN(), -2)
	require.Len(t, cells, 3)
	assert.True(t, cells[0].Present())
	assert.False(t, cells[1].Present())
	assert.True(t, cells[1].Missing)
	assert.Equal(t, -2.0, cells[2].Value)

	// a NaN value that slipped in without the marker is still not present
	assert.False(t, Cell{Value: math.NaN()}.Present())
}

func TestNewTable_Validation(t *testing.T) {
	_, err := NewTable(NewNumericColumn("a", nil), NewTextColumn("a", nil))
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	_, err = NewTable(NewNumericColumn("  ", nil))
	assert.ErrorIs(t, err, core.ErrInvalidArgument)

	_, err = NewTable(Column{Name: "a", Type: "date"})
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}

func TestTable_Accessors(t *testing.T) {
	table := MustNewTable(
		NewNumericColumn("Index", Cells(0, 1, 2)),
		NewTextColumn("Name", []string{"a", "b"}),
	)

	assert.Equal(t, []string{"Index", "Name"}, table.Names())
	assert.Equal(t, 2, table.NumColumns())
	assert.Equal(t, 3, table.NumRows())

	col, ok := table.Column("Name")
	require.True(t, ok)
	assert.False(t, col.IsNumeric())
	assert.Equal(t, 2, col.Len())

	_, ok = table.Column("missing")
	assert.False(t, ok)

	cols := table.Columns()
	cols[0].Name = "changed"
	assert.Equal(t, "Index", table.Names()[0], "Columns must return a copy")
}

func TestTable_Fingerprint(t *testing.T) {
	build := func(v float64) *Table {
		return MustNewTable(NewNumericColumn("x", Cells(1, v, 3)))
	}

	assert.Equal(t, build(2).Fingerprint(), build(2).Fingerprint())
	assert.NotEqual(t, build(2).Fingerprint(), build(2.0000001).Fingerprint())
	assert.NotEqual(t, build(2).Fingerprint(), build(math.NaN()).Fingerprint())

	renamed := MustNewTable(NewNumericColumn("y", Cells(1, 2, 3)))
	assert.NotEqual(t, build(2).Fingerprint(), renamed.Fingerprint())
}
