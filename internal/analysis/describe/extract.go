package describe

import (
	"slices"

	"godescribe/domain/dataset"
)

// sample is the present-value view of one column, extracted once.
type sample struct {
	name    string
	total   int
	present []float64 // source order, for the moment sums
	sorted  []float64 // ascending, for quantiles and mode
}

func extract(col dataset.Column) sample {
	s := sample{
		name:    col.Name,
		total:   len(col.Cells),
		present: make([]float64, 0, len(col.Cells)),
	}
	for _, cell := range col.Cells {
		if cell.Present() {
			s.present = append(s.present, cell.Value)
		}
	}
	s.sorted = slices.Clone(s.present)
	slices.Sort(s.sorted)
	return s
}

func (s sample) count() int {
	return len(s.present)
}

// missingPercent is (total-count)/total*100. An empty column reports 0.
func (s sample) missingPercent() float64 {
	if s.total == 0 {
		return 0
	}
	return round6(float64(s.total-s.count()) / float64(s.total) * 100)
}
