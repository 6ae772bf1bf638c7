package describe

import "godescribe/domain/dataset"

// DefaultLabelColumn is the categorical column excluded from statistics.
const DefaultLabelColumn = "Hogwarts House"

// SelectColumns returns the numeric columns of t other than label, in table
// order. Any further names in exclude are skipped as well.
func SelectColumns(t *dataset.Table, label string, exclude ...string) []dataset.Column {
	skip := make(map[string]bool, len(exclude)+1)
	skip[label] = true
	for _, name := range exclude {
		skip[name] = true
	}

	var selected []dataset.Column
	for _, col := range t.Columns() {
		if !col.IsNumeric() || skip[col.Name] {
			continue
		}
		selected = append(selected, col)
	}
	return selected
}
