package dataset

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"godescribe/domain/core"
)

// ColumnType is the declared type of a column.
type ColumnType string

const (
	ColumnTypeNumeric    ColumnType = "numeric"
	ColumnTypeNonNumeric ColumnType = "non_numeric"
)

// Cell is one entry of a numeric column. A missing cell has no value.
type Cell struct {
	Value   float64 `json:"value"`
	Missing bool    `json:"missing"`
}

// NewNumericCell creates a present cell
func NewNumericCell(v float64) Cell {
	return Cell{Value: v}
}

// NewMissingCell creates a missing cell
func NewMissingCell() Cell {
	return Cell{Missing: true}
}

// Present reports whether the cell holds a well-formed value.
func (c Cell) Present() bool {
	return !c.Missing && !math.IsNaN(c.Value)
}

// Cells builds numeric cells from floats. NaN becomes a missing cell.
func Cells(values ...float64) []Cell {
	cells := make([]Cell, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			cells[i] = NewMissingCell()
		} else {
			cells[i] = NewNumericCell(v)
		}
	}
	return cells
}

// Column is a named, typed sequence of entries. Numeric columns use Cells,
// non-numeric columns keep their raw text in Text.
type Column struct {
	Name  string     `json:"name"`
	Type  ColumnType `json:"type"`
	Cells []Cell     `json:"cells,omitempty"`
	Text  []string   `json:"text,omitempty"`
}

// NewNumericColumn creates a numeric column
func NewNumericColumn(name string, cells []Cell) Column {
	return Column{Name: name, Type: ColumnTypeNumeric, Cells: cells}
}

// NewTextColumn creates a non-numeric column
func NewTextColumn(name string, text []string) Column {
	return Column{Name: name, Type: ColumnTypeNonNumeric, Text: text}
}

// IsNumeric reports whether the column's declared type is numeric
func (c Column) IsNumeric() bool {
	return c.Type == ColumnTypeNumeric
}

// Len returns the number of entries, missing ones included
func (c Column) Len() int {
	if c.IsNumeric() {
		return len(c.Cells)
	}
	return len(c.Text)
}

// Table is an immutable ordered set of named columns.
type Table struct {
	columns []Column
	index   map[string]int
}

// NewTable builds a table. Column names must be non-empty and unique.
func NewTable(columns ...Column) (*Table, error) {
	t := &Table{
		columns: make([]Column, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if strings.TrimSpace(col.Name) == "" {
			return nil, core.NewInvalidArgumentError("column", fmt.Sprintf("column %d has an empty name", i))
		}
		if _, dup := t.index[col.Name]; dup {
			return nil, core.NewInvalidArgumentError("column", fmt.Sprintf("duplicate column name %q", col.Name))
		}
		if col.Type != ColumnTypeNumeric && col.Type != ColumnTypeNonNumeric {
			return nil, core.NewInvalidArgumentError("column", fmt.Sprintf("column %q has unknown type %q", col.Name, col.Type))
		}
		t.index[col.Name] = i
		t.columns[i] = col
	}
	return t, nil
}

// MustNewTable is NewTable for fixtures; it panics on error.
func MustNewTable(columns ...Column) *Table {
	t, err := NewTable(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// Columns returns the columns in table order
func (t *Table) Columns() []Column {
	out := make([]Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// Names returns the column names in table order
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// Column looks a column up by name
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

// NumColumns returns the number of columns
func (t *Table) NumColumns() int {
	return len(t.columns)
}

// NumRows returns the longest column length
func (t *Table) NumRows() int {
	rows := 0
	for _, col := range t.columns {
		if n := col.Len(); n > rows {
			rows = n
		}
	}
	return rows
}

// Fingerprint hashes names, types and every entry. Missing cells hash
// differently from any value, including NaN bit patterns.
func (t *Table) Fingerprint() core.Fingerprint {
	var buf []byte
	var word [8]byte
	for _, col := range t.columns {
		buf = append(buf, col.Name...)
		buf = append(buf, 0)
		buf = append(buf, col.Type...)
		buf = append(buf, 0)
		binary.LittleEndian.PutUint64(word[:], uint64(col.Len()))
		buf = append(buf, word[:]...)
		for _, cell := range col.Cells {
			if !cell.Present() {
				buf = append(buf, 0)
				continue
			}
			buf = append(buf, 1)
			binary.LittleEndian.PutUint64(word[:], math.Float64bits(cell.Value))
			buf = append(buf, word[:]...)
		}
		for _, s := range col.Text {
			buf = append(buf, s...)
			buf = append(buf, 0)
		}
	}
	return core.NewFingerprint(buf)
}
