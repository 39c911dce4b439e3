// Package loader reads tabular files into analysis.Table values. It owns the
// header/data split and the normalization of blank cells; the analysis engine
// trusts both.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/sheetprobe-cli/internal/analysis"
)

var (
	// ErrFileNotFound indicates the input path does not exist.
	ErrFileNotFound = errors.New("file not found")
	// ErrUnsupportedFormat indicates the extension is not allowed or not readable.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrEmptyFile indicates the file holds neither a header nor data rows.
	ErrEmptyFile = errors.New("file is empty")
)

// FileError wraps any other failure while reading a file.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("read %s: %v", filepath.Base(e.Path), e.Err)
}

func (e *FileError) Unwrap() error { return e.Err }

// Options controls how a file becomes a table.
type Options struct {
	// HasHeaders consumes the first row as column names.
	HasHeaders bool
	// SheetName selects a workbook sheet; SheetIndex (1-based) is used when empty.
	// With neither, the active sheet is read.
	SheetName  string
	SheetIndex int
	// AllowedExt lists accepted patterns such as "*.xlsx". Empty allows any
	// extension a registered loader accepts.
	AllowedExt []string
	// DateFormats are Go time layouts tried on delimited text cells.
	DateFormats []string
	// Delimiter for CSV. If 0, picked from the extension.
	Delimiter rune
	// Numeric parsing locale for delimited text. If DecimalSeparator is 0,
	// auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune
}

// DefaultExtensions are the patterns accepted out of the box.
var DefaultExtensions = []string{"*.xlsx", "*.xls", "*.csv", "*.tsv"}

// DefaultDateFormats are tried, in order, on delimited text cells.
var DefaultDateFormats = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05Z07:00",
	"2006/01/02",
	"02.01.2006",
	"02.01.2006 15:04:05",
	"01/02/2006",
}

// DefaultOptions returns options with headers on and the default extensions
// and date layouts.
func DefaultOptions() Options {
	return Options{
		HasHeaders:  true,
		AllowedExt:  append([]string(nil), DefaultExtensions...),
		DateFormats: append([]string(nil), DefaultDateFormats...),
	}
}

// Loader reads one family of file formats.
type Loader interface {
	CanLoad(path string) bool
	Load(path string, opt Options) (*analysis.Table, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

func init() {
	Register(xlsxLoader{})
	Register(xlsLoader{})
	Register(csvLoader{})
}

// Load reads path into a table using the first registered loader that accepts it.
func Load(path string, opt Options) (*analysis.Table, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, &FileError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &FileError{Path: path, Err: errors.New("is a directory")}
	}
	if len(opt.AllowedExt) > 0 && !ValidateExt(path, opt.AllowedExt) {
		return nil, fmt.Errorf("%w: %s (allowed: %s)", ErrUnsupportedFormat, filepath.Base(path), strings.Join(opt.AllowedExt, ", "))
	}
	for _, l := range registry {
		if !l.CanLoad(path) {
			continue
		}
		t, err := l.Load(path, opt)
		if err != nil {
			if errors.Is(err, ErrUnsupportedFormat) || errors.Is(err, ErrEmptyFile) {
				return nil, err
			}
			var fe *FileError
			if errors.As(err, &fe) {
				return nil, err
			}
			return nil, &FileError{Path: path, Err: err}
		}
		return t, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}

// ValidateExt reports whether path ends with one of the allowed patterns.
// A leading "*" in a pattern is ignored and matching is case-insensitive.
func ValidateExt(path string, allowed []string) bool {
	lower := strings.ToLower(path)
	for _, ext := range allowed {
		suffix := strings.ToLower(strings.ReplaceAll(ext, "*", ""))
		if suffix != "" && strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// ExtractValue normalizes "" text to an empty cell and returns every other
// cell unchanged.
func ExtractValue(v analysis.CellValue) analysis.CellValue {
	if v.IsEmpty() {
		return analysis.EmptyCell()
	}
	return v
}

// buildTable splits records into headers and data and fills in the declared
// dimensions. The sheet name may be empty for delimited files.
func buildTable(path, sheet string, records [][]analysis.CellValue, hasHeaders bool) (*analysis.Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, filepath.Base(path))
	}
	t := &analysis.Table{
		SourceName: filepath.Base(path),
		SheetName:  sheet,
		RowCount:   len(records),
	}
	for _, rec := range records {
		if len(rec) > t.ColumnCount {
			t.ColumnCount = len(rec)
		}
	}
	data := records
	if hasHeaders {
		t.Headers = make([]string, len(records[0]))
		for i, c := range records[0] {
			t.Headers[i] = c.String()
		}
		data = records[1:]
	}
	t.Rows = data
	return t, nil
}
