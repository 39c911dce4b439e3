package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/KaramelBytes/sheetprobe-cli/internal/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "metrics.csv")
	body := "\ufeffid,score,label,when,ok\n1,1.5,alpha,2024-01-02,true\n2,,beta,2024-01-03,false\n3,2.5\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	tbl, err := Load(path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "metrics.csv", tbl.SourceName)
	assert.Equal(t, []string{"id", "score", "label", "when", "ok"}, tbl.Headers)
	assert.Equal(t, 4, tbl.RowCount)
	assert.Equal(t, 5, tbl.ColumnCount)
	require.Len(t, tbl.Rows, 3)

	first := tbl.Rows[0]
	assert.Equal(t, analysis.IntCell(1), first[0])
	assert.Equal(t, analysis.FloatCell(1.5), first[1])
	assert.Equal(t, analysis.TextCell("alpha"), first[2])
	assert.Equal(t, analysis.KindDateTime, first[3].Kind)
	assert.Equal(t, analysis.BoolCell(true), first[4])
	assert.True(t, tbl.Rows[1][1].IsEmpty())
	assert.Len(t, tbl.Rows[2], 2)
}

func TestLoadTSVAndDelimiterOverride(t *testing.T) {
	dir := t.TempDir()
	tsv := filepath.Join(dir, "a.tsv")
	require.NoError(t, os.WriteFile(tsv, []byte("a\tb\n1\t2\n"), 0o644))
	tbl, err := Load(tsv, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 2, tbl.ColumnCount)

	semi := filepath.Join(dir, "b.csv")
	require.NoError(t, os.WriteFile(semi, []byte("a;b\n1,5;2\n"), 0o644))
	opt := DefaultOptions()
	opt.Delimiter = ';'
	opt.DecimalSeparator = ','
	tbl, err = Load(semi, opt)
	require.NoError(t, err)
	assert.Equal(t, analysis.FloatCell(1.5), tbl.Rows[0][0])
	assert.Equal(t, analysis.IntCell(2), tbl.Rows[0][1])
}

func TestLoadCSVHeaderOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "h.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b\n"), 0o644))
	tbl, err := Load(path, DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, tbl.Rows)
	assert.Equal(t, 1, tbl.RowCount)
}

func TestInferCell(t *testing.T) {
	opt := DefaultOptions()
	tests := []struct {
		in   string
		want analysis.CellValue
	}{
		{"", analysis.EmptyCell()},
		{"   ", analysis.TextCell("   ")},
		{"TRUE", analysis.BoolCell(true)},
		{"false", analysis.BoolCell(false)},
		{"42", analysis.IntCell(42)},
		{"-7", analysis.IntCell(-7)},
		{"3.5", analysis.FloatCell(3.5)},
		{"1.000,5", analysis.FloatCell(1000.5)},
		{"1,234.5", analysis.FloatCell(1234.5)},
		{"1e3", analysis.FloatCell(1000)},
		{"50%", analysis.FloatCell(50)},
		{"NaN", analysis.TextCell("NaN")},
		{"inf", analysis.TextCell("inf")},
		{"12 apples", analysis.TextCell("12 apples")},
		{"v1.2", analysis.TextCell("v1.2")},
		{"1,000", analysis.FloatCell(1000)},
		{"12,345,678", analysis.FloatCell(12345678)},
		{"1,5", analysis.FloatCell(1.5)},
		{"0,500", analysis.FloatCell(0.5)},
		{"1,2,3", analysis.TextCell("1,2,3")},
		{"1.234.567", analysis.FloatCell(1234567)},
		{"1'234.5", analysis.FloatCell(1234.5)},
		{"12'34", analysis.TextCell("12'34")},
		{"555 1234", analysis.TextCell("555 1234")},
		{"1 234", analysis.TextCell("1 234")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, InferCell(tt.in, opt))
		})
	}

	dt := InferCell("17.05.2024", opt)
	assert.Equal(t, analysis.KindDateTime, dt.Kind)
	assert.Equal(t, 2024, dt.Time.Year())

	spaced := opt
	spaced.ThousandsSeparator = ' '
	assert.Equal(t, analysis.FloatCell(1234.5), InferCell("1 234.5", spaced))
	assert.Equal(t, analysis.FloatCell(1234), InferCell("1\u00a0234", spaced))

	comma := opt
	comma.DecimalSeparator = ','
	assert.Equal(t, analysis.FloatCell(1), InferCell("1,000", comma))
	dotted := opt
	dotted.ThousandsSeparator = '.'
	assert.Equal(t, analysis.FloatCell(1000.5), InferCell("1.000,5", dotted))

	custom := opt
	custom.DateFormats = []string{"Jan 2 2006"}
	assert.Equal(t, analysis.KindDateTime, InferCell("May 17 2024", custom).Kind)
	assert.Equal(t, analysis.KindText, InferCell("2024-05-17", custom).Kind)
}

func TestLoadCSVKeepsQuotedWhitespace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ws.csv")
	require.NoError(t, os.WriteFile(path, []byte("note,n\n\"  \",1\n\"\t\",2\n"), 0o644))

	tbl, err := Load(path, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, analysis.TextCell("  "), tbl.Rows[0][0])
	assert.Equal(t, analysis.TextCell("\t"), tbl.Rows[1][0])
	assert.False(t, tbl.Rows[0][0].IsEmpty())
}
