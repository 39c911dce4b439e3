package loader

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/sheetprobe-cli/internal/analysis"
	"github.com/extrame/xls"
)

// xlsLoader reads legacy BIFF (.xls) workbooks.
type xlsLoader struct{}

func (xlsLoader) CanLoad(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".xls")
}

// Load reads the selected sheet. BIFF workbooks carry no active-sheet marker
// the reader exposes, so the first sheet is the default.
func (xlsLoader) Load(path string, opt Options) (tbl *analysis.Table, err error) {
	// The BIFF reader panics on some malformed records.
	defer func() {
		if r := recover(); r != nil {
			tbl, err = nil, &FileError{Path: path, Err: fmt.Errorf("corrupt xls: %v", r)}
		}
	}()
	wb, closer, err := xls.OpenWithCloser(path, "utf-8")
	if err != nil {
		return nil, &FileError{Path: path, Err: fmt.Errorf("open xls: %w", err)}
	}
	defer closer.Close()

	names := make([]string, 0, wb.NumSheets())
	for i := 0; i < wb.NumSheets(); i++ {
		if ws := wb.GetSheet(i); ws != nil {
			names = append(names, ws.Name)
		}
	}
	name, err := selectSheet(path, names, "", opt)
	if err != nil {
		return nil, err
	}
	var sheet *xls.WorkSheet
	for i := 0; i < wb.NumSheets(); i++ {
		if ws := wb.GetSheet(i); ws != nil && ws.Name == name {
			sheet = ws
			break
		}
	}
	if sheet == nil {
		return nil, &FileError{Path: path, Err: fmt.Errorf("sheet '%s' could not be read", name)}
	}

	var records [][]analysis.CellValue
	if sheet.MaxRow > 0 || sheet.Row(0) != nil {
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			if row == nil {
				records = append(records, nil)
				continue
			}
			rec := make([]analysis.CellValue, 0, row.LastCol()+1)
			for c := 0; c <= row.LastCol(); c++ {
				rec = append(rec, ExtractValue(xlsCell(row.Col(c))))
			}
			records = append(records, trimTrailingEmpty(rec))
		}
	}
	return buildTable(path, name, records, opt.HasHeaders)
}

var xlsFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// xlsCell types the rendered text of a BIFF cell. The reader renders
// date-styled numbers as RFC 3339. BIFF stores every number as a double, so
// integral values become integers.
func xlsCell(raw string) analysis.CellValue {
	if raw == "" {
		return analysis.EmptyCell()
	}
	switch strings.ToLower(raw) {
	case "true":
		return analysis.BoolCell(true)
	case "false":
		return analysis.BoolCell(false)
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return analysis.DateTimeCell(t)
	}
	if i, ok := parseInteger(raw); ok {
		return analysis.IntCell(i)
	}
	if xlsFloat.MatchString(raw) {
		if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsInf(f, 0) {
			if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
				return analysis.IntCell(int64(f))
			}
			return analysis.FloatCell(f)
		}
	}
	return analysis.TextCell(raw)
}

// trimTrailingEmpty drops empty cells at the end of a row, matching how the
// xlsx reader reports rows.
func trimTrailingEmpty(rec []analysis.CellValue) []analysis.CellValue {
	n := len(rec)
	for n > 0 && rec[n-1].IsEmpty() {
		n--
	}
	return rec[:n]
}
