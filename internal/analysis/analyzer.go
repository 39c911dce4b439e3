package analysis

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// Table is the loader's view of one sheet: header names, data rows and the
// declared dimensions. Rows may be shorter than ColumnCount.
type Table struct {
	SourceName  string
	SheetName   string
	Headers     []string
	Rows        [][]CellValue
	RowCount    int // total rows in the sheet, header row included
	ColumnCount int
}

// ColumnStatistics captures the inferred type and statistics of one column.
// Min, Max and Mean are nil unless the column is numeric and at least one cell
// coerced to a number.
type ColumnStatistics struct {
	Name          string     `json:"name" yaml:"name"`
	Type          ColumnType `json:"column_type" yaml:"column_type"`
	EmptyCount    int        `json:"empty_count" yaml:"empty_count"`
	Min           *float64   `json:"min_value,omitempty" yaml:"min_value,omitempty"`
	Max           *float64   `json:"max_value,omitempty" yaml:"max_value,omitempty"`
	Mean          *float64   `json:"mean_value,omitempty" yaml:"mean_value,omitempty"`
	NonEmptyCount int        `json:"non_empty_row_count" yaml:"non_empty_row_count"`
}

// Report is the per-table analysis result. ColumnNames[i] and Statistics[i]
// always describe the same column, in source order.
type Report struct {
	SourceName  string             `json:"source_name" yaml:"source_name"`
	SheetName   string             `json:"sheet_name" yaml:"sheet_name"`
	TotalRows   int                `json:"total_rows" yaml:"total_rows"`
	ColumnCount int                `json:"column_count" yaml:"column_count"`
	HasHeaders  bool               `json:"has_headers" yaml:"has_headers"`
	ColumnNames []string           `json:"column_names" yaml:"column_names"`
	Statistics  []ColumnStatistics `json:"statistics" yaml:"statistics"`
}

// DataRowCount is TotalRows without the header row, never negative.
func (r *Report) DataRowCount() int {
	n := r.TotalRows
	if r.HasHeaders {
		n--
	}
	if n < 0 {
		return 0
	}
	return n
}

// Options configures an Analyzer.
type Options struct {
	// SampleSize bounds type detection per column; 0 uses DefaultSampleSize.
	SampleSize int
	Logger     *zap.Logger
}

// Analyzer turns tables into reports. It is safe for concurrent use.
type Analyzer struct {
	detector *TypeDetector
	log      *zap.Logger
}

// NewAnalyzer builds an Analyzer from opts.
func NewAnalyzer(opts Options) *Analyzer {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Analyzer{detector: NewTypeDetector(opts.SampleSize), log: log}
}

// Detector exposes the analyzer's type detector.
func (a *Analyzer) Detector() *TypeDetector { return a.detector }

// Analyze classifies every column of t and computes its statistics. The header
// and data split is taken from t as given; the first data row is never
// reinterpreted as headers.
func (a *Analyzer) Analyze(t *Table, hasHeaders bool) (*Report, error) {
	if t == nil {
		return nil, &AnalysisError{Err: fmt.Errorf("%w: nil table", ErrInvalidTable)}
	}
	if t.ColumnCount < 0 || t.RowCount < 0 {
		return nil, &AnalysisError{
			Source: t.SourceName,
			Err:    fmt.Errorf("%w: negative dimensions %dx%d", ErrInvalidTable, t.RowCount, t.ColumnCount),
		}
	}

	headers := resolveHeaders(t, hasHeaders)
	rep := &Report{
		SourceName:  t.SourceName,
		SheetName:   t.SheetName,
		HasHeaders:  hasHeaders,
		ColumnNames: headers,
		Statistics:  []ColumnStatistics{},
	}
	if len(t.Rows) == 0 {
		a.log.Debug("table has no data rows", zap.String("source", t.SourceName))
		return rep, nil
	}

	columns := transpose(t.Rows, t.ColumnCount)
	rep.Statistics = make([]ColumnStatistics, 0, len(columns))
	for i, col := range columns {
		st := a.analyzeColumn(headers[i], col)
		a.log.Debug("column analyzed",
			zap.String("source", t.SourceName),
			zap.String("column", st.Name),
			zap.Stringer("type", st.Type),
			zap.Int("empty", st.EmptyCount),
		)
		rep.Statistics = append(rep.Statistics, st)
	}
	rep.TotalRows = t.RowCount
	rep.ColumnCount = t.ColumnCount
	return rep, nil
}

// resolveHeaders returns exactly ColumnCount names. Without headers every name
// is synthesized; with headers, missing trailing names are synthesized and
// surplus names dropped.
func resolveHeaders(t *Table, hasHeaders bool) []string {
	names := make([]string, t.ColumnCount)
	for i := range names {
		if hasHeaders && i < len(t.Headers) {
			names[i] = t.Headers[i]
			continue
		}
		names[i] = fmt.Sprintf("Column_%d", i+1)
	}
	return names
}

// transpose turns rows into ncol columns, padding short rows with empty cells.
func transpose(rows [][]CellValue, ncol int) [][]CellValue {
	cols := make([][]CellValue, ncol)
	for i := range cols {
		cols[i] = make([]CellValue, 0, len(rows))
	}
	for _, row := range rows {
		for i := 0; i < ncol; i++ {
			if i < len(row) {
				cols[i] = append(cols[i], row[i])
			} else {
				cols[i] = append(cols[i], EmptyCell())
			}
		}
	}
	return cols
}

func (a *Analyzer) analyzeColumn(name string, values []CellValue) ColumnStatistics {
	typ := a.detector.DetectColumnType(values)
	empty := 0
	for _, v := range values {
		if v.IsEmpty() {
			empty++
		}
	}
	st := ColumnStatistics{
		Name:          name,
		Type:          typ,
		EmptyCount:    empty,
		NonEmptyCount: len(values) - empty,
	}
	if !a.detector.IsNumericType(typ) {
		return st
	}
	nums := extractNumeric(values, typ)
	if len(nums) == 0 {
		return st
	}
	lo, hi, sum := nums[0], nums[0], 0.0
	for _, x := range nums {
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
		sum += x
	}
	mean := sum / float64(len(nums))
	// Rounding in the sum can push the mean a hair outside the observed range.
	mean = math.Min(math.Max(mean, lo), hi)
	st.Min, st.Max, st.Mean = &lo, &hi, &mean
	return st
}

// extractNumeric coerces the non-empty cells of a numeric column. Integer
// columns go through a float and are truncated toward zero, so "3.7" counts as 3.
// Cells that do not coerce are skipped.
func extractNumeric(values []CellValue, typ ColumnType) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v.IsEmpty() {
			continue
		}
		x, ok := v.Float64()
		if !ok || math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		if typ == TypeInteger {
			x = math.Trunc(x)
		}
		out = append(out, x)
	}
	return out
}
