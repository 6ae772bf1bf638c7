package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"godescribe/domain/core"
	"godescribe/domain/stats/describe"
	"godescribe/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// record fills every statistic with v, failing the keys in failed
func record(t *testing.T, name string, v float64, failed ...describe.StatKey) *describe.ColumnStats {
	t.Helper()
	values := make(map[describe.StatKey]float64)
	errs := make(map[describe.StatKey]error)
	for _, key := range describe.Keys() {
		values[key] = v
	}
	for _, key := range failed {
		delete(values, key)
		errs[key] = core.ErrDegenerateDistribution
	}
	rec, err := describe.NewColumnStats(name, 4, values, errs)
	require.NoError(t, err)
	return rec
}

func sampleReport(t *testing.T) *describe.Report {
	t.Helper()
	report, err := describe.NewReport(
		record(t, "Arithmancy", 1.5),
		record(t, "Potions", 2, describe.KeyKurtosis),
		record(t, "Charms", -10.25),
		record(t, "X", 0),
	)
	require.NoError(t, err)
	return report
}

func TestText_Layout(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, sampleReport(t)))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	// two blocks of header + 13 statistics + separator
	require.Len(t, lines, 2*(describe.NumKeys+2))

	assert.Equal(t, "               Arithmancy  Potions   Charms      ", lines[0])
	assert.Equal(t, "count          1.500000    2.000000  -10.250000  ", lines[1])
	assert.Equal(t, "kurtosis       1.500000    NaN       -10.250000  ", lines[13])
	assert.Equal(t, strings.Repeat("-", 60), lines[14])

	assert.Equal(t, "               X         ", lines[15])
	assert.Equal(t, "missing(%)     0.000000  ", lines[17])
	assert.Equal(t, strings.Repeat("-", 60), lines[len(lines)-1])
}

func TestText_EmptyReport(t *testing.T) {
	report, err := describe.NewReport()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, report))
	assert.Empty(t, buf.String())
}

func TestMarkdownAndHTML(t *testing.T) {
	report := sampleReport(t)

	md := string(Markdown(report))
	assert.True(t, strings.HasPrefix(md, "| | Arithmancy | Potions | Charms | X |\n|---|---:|---:|---:|---:|\n"))
	assert.Contains(t, md, "| kurtosis | 1.500000 | NaN | -10.250000 | 0.000000 |\n")

	html := string(HTML(report))
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "Arithmancy")
	assert.Contains(t, html, "-10.250000")
}

func TestJSON_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sampleReport(t)))

	var decoded describe.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []string{"Arithmancy", "Potions", "Charms", "X"}, decoded.Columns())

	potions, ok := decoded.Column("Potions")
	require.True(t, ok)
	_, err := potions.Get(describe.KeyKurtosis)
	assert.ErrorIs(t, err, core.ErrDegenerateDistribution)
}

func TestParseFormat(t *testing.T) {
	for name, want := range map[string]Format{"text": FormatText, "JSON": FormatJSON, " md ": FormatMarkdown, "html": FormatHTML} {
		got, err := ParseFormat(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("yaml")
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))

	err = Write(&bytes.Buffer{}, sampleReport(t), Format("csv"))
	assert.ErrorIs(t, err, core.ErrInvalidArgument)
}
