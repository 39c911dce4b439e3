package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/KaramelBytes/sheetprobe-cli/internal/analysis"
)

type csvLoader struct{}

func (csvLoader) CanLoad(path string) bool {
	name := strings.ToLower(path)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

// Load reads a delimited file, typing every field with InferCell.
func (csvLoader) Load(path string, opt Options) (*analysis.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileError{Path: path, Err: fmt.Errorf("open csv: %w", err)}
	}
	defer f.Close()

	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true
	r.Comma = delim

	var records [][]analysis.CellValue
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &FileError{Path: path, Err: fmt.Errorf("read row %d: %w", len(records)+1, err)}
		}
		if len(records) == 0 && len(rec) > 0 {
			rec[0] = strings.TrimPrefix(rec[0], "\ufeff")
		}
		// Header fields stay text; type inference applies to data only.
		header := opt.HasHeaders && len(records) == 0
		row := make([]analysis.CellValue, len(rec))
		for i, v := range rec {
			if header {
				row[i] = ExtractValue(analysis.TextCell(v))
			} else {
				row[i] = InferCell(v, opt)
			}
		}
		records = append(records, row)
	}
	return buildTable(path, "", records, opt.HasHeaders)
}

// InferCell types one delimited text field: booleans, integer literals,
// locale-aware decimals, the configured date layouts, then text.
func InferCell(raw string, opt Options) analysis.CellValue {
	if raw == "" {
		return analysis.EmptyCell()
	}
	v := strings.TrimSpace(raw)
	if v == "" {
		return analysis.TextCell(raw)
	}
	switch strings.ToLower(v) {
	case "true":
		return analysis.BoolCell(true)
	case "false":
		return analysis.BoolCell(false)
	}
	if i, ok := parseInteger(v); ok {
		return analysis.IntCell(i)
	}
	if x, ok := parseNumeric(v, opt); ok {
		return analysis.FloatCell(x)
	}
	layouts := opt.DateFormats
	if len(layouts) == 0 {
		layouts = DefaultDateFormats
	}
	if t, ok := parseTime(v, layouts); ok {
		return analysis.DateTimeCell(t)
	}
	return analysis.TextCell(raw)
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
