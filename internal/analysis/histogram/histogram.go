package histogram

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"godescribe/domain/core"
	"godescribe/domain/dataset"
	"godescribe/internal"
	"godescribe/internal/analysis/describe"
	"godescribe/internal/errors"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// DefaultBins matches the bin count of the house histograms
	DefaultBins = 20
	// AllGroups names the single group used when no group column is set
	AllGroups = "all"
	// IndexColumn is skipped when histogramming every feature
	IndexColumn = "Index"
)

// Config controls grouping and binning
type Config struct {
	GroupColumn string
	Bins        int
}

func DefaultConfig() Config {
	return Config{GroupColumn: describe.DefaultLabelColumn, Bins: DefaultBins}
}

// Group holds the bin counts of one label value
type Group struct {
	Name   string `json:"name"`
	Total  int    `json:"total"`
	Counts []int  `json:"counts"`
}

// Histogram is the binned distribution of one feature split by group.
// Edges has Bins+1 entries; every bin is half-open except the last.
type Histogram struct {
	Feature string    `json:"feature"`
	Edges   []float64 `json:"edges"`
	Groups  []Group   `json:"groups"`
}

// Builder bins numeric columns of a table
type Builder struct {
	config Config
	logger *internal.Logger
}

func NewBuilder(config Config, logger *internal.Logger) *Builder {
	if config.Bins <= 0 {
		config.Bins = DefaultBins
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Builder{config: config, logger: logger.With("Histogram")}
}

// Feature bins a single named column
func (b *Builder) Feature(t *dataset.Table, feature string) (*Histogram, error) {
	col, ok := t.Column(feature)
	if !ok {
		return nil, errors.WithCode(errors.CodeNotFound, fmt.Errorf("%w: %q", core.ErrColumnNotFound, feature))
	}
	if !col.IsNumeric() {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("%w: %q", core.ErrNonNumericColumn, feature))
	}
	labels, err := b.labels(t)
	if err != nil {
		return nil, err
	}
	return b.build(col, labels), nil
}

// All bins every numeric column except the group column and Index
func (b *Builder) All(t *dataset.Table) ([]*Histogram, error) {
	labels, err := b.labels(t)
	if err != nil {
		return nil, err
	}
	columns := describe.SelectColumns(t, b.config.GroupColumn, IndexColumn)
	out := make([]*Histogram, 0, len(columns))
	for _, col := range columns {
		out = append(out, b.build(col, labels))
	}
	b.logger.Debug("built %d histograms with %d bins", len(out), b.config.Bins)
	return out, nil
}

// labels returns the group name of every row; "" drops the row
func (b *Builder) labels(t *dataset.Table) ([]string, error) {
	labels := make([]string, t.NumRows())
	if b.config.GroupColumn == "" {
		for i := range labels {
			labels[i] = AllGroups
		}
		return labels, nil
	}

	col, ok := t.Column(b.config.GroupColumn)
	if !ok {
		return nil, errors.WithCode(errors.CodeNotFound, fmt.Errorf("%w: group column %q", core.ErrColumnNotFound, b.config.GroupColumn))
	}
	if col.IsNumeric() {
		for i, cell := range col.Cells {
			if cell.Present() {
				labels[i] = strconv.FormatFloat(cell.Value, 'g', -1, 64)
			}
		}
		return labels, nil
	}
	copy(labels, col.Text)
	return labels, nil
}

func (b *Builder) build(col dataset.Column, labels []string) *Histogram {
	byGroup := make(map[string][]float64)
	var all []float64
	for i, cell := range col.Cells {
		if !cell.Present() || i >= len(labels) || labels[i] == "" {
			continue
		}
		byGroup[labels[i]] = append(byGroup[labels[i]], cell.Value)
		all = append(all, cell.Value)
	}

	edges := b.edges(all)
	dividers := make([]float64, len(edges))
	copy(dividers, edges)
	// close the last bin
	dividers[len(dividers)-1] = math.Nextafter(edges[len(edges)-1], math.Inf(1))

	names := make([]string, 0, len(byGroup))
	for name := range byGroup {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]Group, 0, len(names))
	for _, name := range names {
		values := byGroup[name]
		sort.Float64s(values)
		counts := stat.Histogram(nil, dividers, values, nil)
		group := Group{Name: name, Total: len(values), Counts: make([]int, len(counts))}
		for i, c := range counts {
			group.Counts[i] = int(c)
		}
		groups = append(groups, group)
	}

	return &Histogram{Feature: col.Name, Edges: edges, Groups: groups}
}

// edges spans min..max of the present values in equal-width bins. An empty
// column spans [0, 1]; a constant column spans value ± 0.5.
func (b *Builder) edges(values []float64) []float64 {
	lo, hi := 0.0, 1.0
	if len(values) > 0 {
		lo, hi = floats.Min(values), floats.Max(values)
		if lo == hi {
			lo, hi = lo-0.5, hi+0.5
		}
	}
	edges := floats.Span(make([]float64, b.config.Bins+1), lo, hi)
	edges[len(edges)-1] = hi
	return edges
}
