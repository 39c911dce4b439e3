package loader

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/KaramelBytes/sheetprobe-cli/internal/analysis"
	"github.com/xuri/excelize/v2"
)

type xlsxLoader struct{}

func (xlsxLoader) CanLoad(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xlsm")
}

// Load reads the selected sheet with typed cells.
func (xlsxLoader) Load(path string, opt Options) (*analysis.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: fmt.Errorf("open xlsx: %w", err)}
	}
	defer f.Close()

	sheet, err := resolveSheet(f, path, opt)
	if err != nil {
		return nil, err
	}
	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, &FileError{Path: path, Err: fmt.Errorf("read rows: %w", err)}
	}
	defer rows.Close()

	tc := &typedCells{f: f, sheet: sheet, dateStyles: map[int]bool{}}
	var records [][]analysis.CellValue
	rowNum := 0
	for rows.Next() {
		rowNum++
		cols, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, &FileError{Path: path, Err: fmt.Errorf("read row %d: %w", rowNum, err)}
		}
		rec := make([]analysis.CellValue, len(cols))
		for i, raw := range cols {
			rec[i] = ExtractValue(tc.cell(i+1, rowNum, raw))
		}
		records = append(records, rec)
	}
	if err := rows.Error(); err != nil {
		return nil, &FileError{Path: path, Err: fmt.Errorf("iterate rows: %w", err)}
	}
	return buildTable(path, sheet, records, opt.HasHeaders)
}

// resolveSheet picks the sheet by name, then by 1-based index, then the active one.
func resolveSheet(f *excelize.File, path string, opt Options) (string, error) {
	return selectSheet(path, f.GetSheetList(), f.GetSheetName(f.GetActiveSheetIndex()), opt)
}

// selectSheet applies the SheetName / SheetIndex / active-sheet precedence to a
// workbook's sheet list. An unknown active sheet falls back to the first one.
func selectSheet(path string, sheets []string, active string, opt Options) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("%w: %s has no sheets", ErrEmptyFile, filepath.Base(path))
	}
	if opt.SheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, opt.SheetName) {
				return s, nil
			}
		}
		return "", &FileError{Path: path, Err: fmt.Errorf("sheet '%s' not found; available sheets: %s",
			opt.SheetName, strings.Join(sheets, ", "))}
	}
	if opt.SheetIndex > 0 {
		if opt.SheetIndex > len(sheets) {
			return "", &FileError{Path: path, Err: fmt.Errorf("sheet index %d out of range (workbook has %d sheets)",
				opt.SheetIndex, len(sheets))}
		}
		return sheets[opt.SheetIndex-1], nil
	}
	if active != "" {
		return active, nil
	}
	return sheets[0], nil
}

// typedCells turns raw cell text into typed values using the cell's stored type
// and number format.
type typedCells struct {
	f          *excelize.File
	sheet      string
	dateStyles map[int]bool
}

func (tc *typedCells) cell(col, row int, raw string) analysis.CellValue {
	if raw == "" {
		return analysis.EmptyCell()
	}
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return analysis.TextCell(raw)
	}
	typ, err := tc.f.GetCellType(tc.sheet, ref)
	if err != nil {
		return analysis.TextCell(raw)
	}
	switch typ {
	case excelize.CellTypeBool:
		return analysis.BoolCell(raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeError:
		return analysis.UnknownCell(raw)
	case excelize.CellTypeDate:
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return analysis.DateTimeCell(t)
		}
		return analysis.TextCell(raw)
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString:
		return analysis.TextCell(raw)
	case excelize.CellTypeFormula:
		// Cached formula results of type "str" are text.
		return analysis.TextCell(raw)
	default:
		return tc.number(ref, raw)
	}
}

func (tc *typedCells) number(ref, raw string) analysis.CellValue {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return analysis.TextCell(raw)
	}
	if tc.isDateStyled(ref) {
		if t, err := excelize.ExcelDateToTime(f, false); err == nil {
			return analysis.DateTimeCell(t)
		}
	}
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return analysis.IntCell(i)
	}
	return analysis.FloatCell(f)
}

// builtinDateFormats are the built-in number format ids that render as dates or times.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	27: true, 30: true, 36: true, 45: true, 46: true, 47: true, 50: true, 57: true,
}

func (tc *typedCells) isDateStyled(ref string) bool {
	idx, err := tc.f.GetCellStyle(tc.sheet, ref)
	if err != nil || idx == 0 {
		return false
	}
	if v, ok := tc.dateStyles[idx]; ok {
		return v
	}
	isDate := false
	if style, err := tc.f.GetStyle(idx); err == nil && style != nil {
		if style.CustomNumFmt != nil {
			isDate = isDateFormatCode(*style.CustomNumFmt)
		} else {
			isDate = builtinDateFormats[style.NumFmt]
		}
	}
	tc.dateStyles[idx] = isDate
	return isDate
}

// isDateFormatCode reports whether a custom number format renders a date or time.
// Quoted literals and bracketed sections such as colors are ignored.
func isDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for _, r := range code {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(r)
		}
	}
	s := strings.ToLower(b.String())
	return strings.ContainsAny(s, "ydh") || strings.Contains(s, "mm:") || strings.Contains(s, ":ss")
}
