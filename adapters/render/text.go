package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"godescribe/domain/stats/describe"
)

const (
	// ColumnsPerBlock is how many dataset columns share one text block
	ColumnsPerBlock = 3
	labelWidth      = 15
	separatorWidth  = 60
	missingCell     = "NaN"
)

// FormatValue renders one statistic with six decimals, or NaN when it failed
func FormatValue(s describe.Stat) string {
	if !s.OK() {
		return missingCell
	}
	return fmt.Sprintf("%.6f", s.Value)
}

// Text writes the report as fixed-width blocks of three columns. Each
// statistic is a row; a dashed line closes every block.
func Text(w io.Writer, report *describe.Report) error {
	bw := bufio.NewWriter(w)
	records := report.Records()
	keys := describe.Keys()

	for start := 0; start < len(records); start += ColumnsPerBlock {
		block := records[start:min(start+ColumnsPerBlock, len(records))]

		cells := make([][]string, len(block))
		widths := make([]int, len(block))
		for j, rec := range block {
			cells[j] = make([]string, len(keys))
			widths[j] = utf8.RuneCountInString(rec.Name())
			for i, stat := range rec.Stats() {
				cells[j][i] = FormatValue(stat)
				widths[j] = max(widths[j], utf8.RuneCountInString(cells[j][i]))
			}
		}

		fmt.Fprintf(bw, "%-*s", labelWidth, "")
		for j, rec := range block {
			fmt.Fprintf(bw, "%-*s", widths[j]+2, rec.Name())
		}
		bw.WriteString("\n")

		for i, key := range keys {
			fmt.Fprintf(bw, "%-*s", labelWidth, key)
			for j := range block {
				fmt.Fprintf(bw, "%-*s", widths[j]+2, cells[j][i])
			}
			bw.WriteString("\n")
		}
		bw.WriteString(strings.Repeat("-", separatorWidth) + "\n")
	}
	return bw.Flush()
}
